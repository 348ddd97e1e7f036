package folio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// jsonObjectWriter writes a JSON object with fields in insertion order.
// The zero value is an empty object. The first marshal error is kept and
// returned by MarshalJSON.
type jsonObjectWriter struct {
	buf bytes.Buffer
	err error
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("field %q: %w", key, err)
		return w
	}
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.WriteString(strconv.Quote(key))
	w.buf.WriteByte(':')
	w.buf.Write(data)
	return w
}

// Optional is Append, skipped for the zero value of value's type.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the object.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
