// Package advisor is a Gemini chat assistant answering questions about a
// portfolio. A facilitator drives the conversation and asks experts: a
// trader grounded on Google Search and an analyst reading the store.
package advisor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Render formats the facilitator markdown answers before printing.
	Render func(markdown string) string
}

// New creates a new Agent reading user input from r and writing to w.
func New(w io.Writer, r io.Reader, model string, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(model, experts...),
		Render:      func(s string) string { return s },
	}
}

// Start creates the chats of every expert and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// Run starts the interactive session. prompts are sent first, as if typed
// by the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to the folio advisor. Type 'bye' to exit.")
	for {
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input != "" {
				fmt.Fprintln(a.w, prompt+input)
			}
		} else {
			fmt.Fprint(a.w, prompt)
			var err error
			input, err = a.r.ReadString('\n')
			if err == io.EOF {
				return nil // Ctrl+D
			}
			if err != nil {
				return err
			}
		}

		switch strings.TrimSpace(input) {
		case "":
			continue
		case "bye":
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, a.Render(text(content)))
	}
}

// text concatenates the text parts of content.
func text(content *genai.Content) string {
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
