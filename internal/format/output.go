// Package format renders command results as json, edn or colored text.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	EDN  = "edn"
	Text = "text"
)

// Envelope is the shape every command writes: the payload under data, with
// optional meta and follow-up hints.
type Envelope struct {
	Data  any      `json:"data"`
	Meta  any      `json:"meta,omitempty"`
	Hints []string `json:"_hints,omitempty"`
}

// Texter is implemented by payloads that know how to print themselves for humans.
type Texter interface {
	WriteText(p *Printer) error
}

// Valid reports whether name is a supported format.
func Valid(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", JSON, EDN, Text:
		return true
	}
	return false
}

// Write writes v in the requested format. json is the default.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case Text:
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// WriteText prints v for a terminal. Payloads that are not Texters fall back
// to indented JSON.
func WriteText(w io.Writer, v any) error {
	p := NewPrinter(w)
	if env, ok := v.(Envelope); ok {
		return env.WriteText(p)
	}
	if t, ok := v.(Texter); ok {
		return t.WriteText(p)
	}
	return WriteJSON(w, v, true)
}

func (e Envelope) WriteText(p *Printer) error {
	if t, ok := e.Data.(Texter); ok {
		if err := t.WriteText(p); err != nil {
			return err
		}
	} else if err := WriteJSON(p.w, e.Data, true); err != nil {
		return err
	}
	for _, h := range e.Hints {
		p.Muted("hint: %s", h)
	}
	return p.err
}
