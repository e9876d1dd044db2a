package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Wire shapes mirror the content JSON. Items and derivation entries are loose records
// on the wire; they are folded into the tagged Content / DerivationEntry variants here.

type wireItem struct {
	Type              string            `json:"type,omitempty"`
	Label             string            `json:"label,omitempty"`
	Detail            json.RawMessage   `json:"detail,omitempty"`
	Text              string            `json:"text,omitempty"`
	Derivation        []json.RawMessage `json:"derivation,omitempty"`
	DerivationSummary string            `json:"derivationSummary,omitempty"`
}

type wireDerivation struct {
	Type    string            `json:"type"`
	Text    json.RawMessage   `json:"text,omitempty"`
	Tex     json.RawMessage   `json:"tex,omitempty"`
	Display bool              `json:"display,omitempty"`
	Items   []json.RawMessage `json:"items,omitempty"`
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var w wireItem
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	out := Item{
		Label:             w.Label,
		DerivationSummary: w.DerivationSummary,
	}

	lines, isList := rawStrings(w.Detail)
	if w.Type == "equation" {
		if allBlank(lines) && strings.TrimSpace(w.Text) != "" {
			lines = []string{w.Text}
		}
		out.Content = Equation{Lines: lines}
	} else {
		detail := ""
		if isList {
			detail = strings.Join(lines, ",")
		} else if len(lines) == 1 {
			detail = lines[0]
		}
		out.Content = Prose{Detail: detail, Text: w.Text}
	}

	for _, raw := range w.Derivation {
		if e, ok := decodeDerivation(raw); ok {
			out.Derivation = append(out.Derivation, e)
		}
	}

	*it = out
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	w := wireItem{
		Label:             it.Label,
		DerivationSummary: it.DerivationSummary,
	}
	switch c := it.Content.(type) {
	case Equation:
		w.Type = "equation"
		var err error
		if len(c.Lines) == 1 {
			w.Detail, err = json.Marshal(c.Lines[0])
		} else if len(c.Lines) > 1 {
			w.Detail, err = json.Marshal(c.Lines)
		}
		if err != nil {
			return nil, err
		}
	case Prose:
		if c.Detail != "" {
			d, err := json.Marshal(c.Detail)
			if err != nil {
				return nil, err
			}
			w.Detail = d
		}
		w.Text = c.Text
	}
	for _, e := range it.Derivation {
		raw, err := encodeDerivation(e)
		if err != nil {
			return nil, err
		}
		w.Derivation = append(w.Derivation, raw)
	}
	return json.Marshal(w)
}

func decodeDerivation(raw json.RawMessage) (DerivationEntry, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var w wireDerivation
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, false
	}
	text := rawString(w.Text)
	switch w.Type {
	case "heading":
		return DerivHeading{Text: text}, true
	case "equation":
		tex := rawString(w.Tex)
		if tex == "" {
			tex = text
		}
		return DerivEquation{Tex: tex, Display: w.Display}, true
	case "list":
		items := make([]string, 0, len(w.Items))
		for _, r := range w.Items {
			items = append(items, rawString(r))
		}
		return DerivList{Items: items}, true
	default:
		return DerivText{Text: text}, true
	}
}

func encodeDerivation(e DerivationEntry) (json.RawMessage, error) {
	m := map[string]any{}
	switch v := e.(type) {
	case DerivHeading:
		m["type"] = "heading"
		m["text"] = v.Text
	case DerivEquation:
		m["type"] = "equation"
		m["tex"] = v.Tex
		if v.Display {
			m["display"] = true
		}
	case DerivList:
		m["type"] = "list"
		m["items"] = v.Items
	case DerivText:
		m["type"] = "text"
		m["text"] = v.Text
	default:
		return nil, fmt.Errorf("unknown derivation entry %T", e)
	}
	return json.Marshal(m)
}

// rawStrings decodes a string or an array of scalars. The second result reports
// whether the value was an array.
func rawStrings(raw json.RawMessage) ([]string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}
	if trimmed[0] == '[' {
		var xs []json.RawMessage
		if err := json.Unmarshal(trimmed, &xs); err == nil {
			out := make([]string, 0, len(xs))
			for _, x := range xs {
				out = append(out, rawString(x))
			}
			return out, true
		}
	}
	return []string{rawString(trimmed)}, false
}

// rawString stringifies a scalar JSON value; null and missing become "".
func rawString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err == nil {
		switch t := v.(type) {
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return string(trimmed)
}

func allBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}
