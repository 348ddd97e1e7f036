package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show the user guide" }
func (*topicCmd) Usage() string {
	return `pfd topic [-list] [<topic>...]

  Prints the user guide. Without a topic it prints the readme, "*" prints
  every topic.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "list the topics with their title")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		md, err := topicIndex()
		if err != nil {
			return fail(err)
		}
		printMarkdown(md)
		return subcommands.ExitSuccess
	}

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return fail(err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicIndex renders the topics as a markdown table.
func topicIndex() (string, error) {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("# Topics\n\n| Topic | Title |\n|---|---|\n")
	for _, topic := range topics {
		title, err := docs.Title(topic)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "| %s | %s |\n", topic, title)
	}
	b.WriteString("\nRun `pfd topic <topic>` to read one.\n")
	return b.String(), nil
}
