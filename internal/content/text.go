package content

import (
	"strings"

	"atomic-checklist/internal/model"
)

// Segment is a run of text that is either plain or a math expression
// (delimiters included).
type Segment struct {
	Text string
	Math bool
}

type mathDelim struct {
	start string
	end   string
}

// Order matters: "$$" must be tried before "$".
var mathDelims = []mathDelim{
	{start: `\[`, end: `\]`},
	{start: `\(`, end: `\)`},
	{start: "$$", end: "$$"},
	{start: "$", end: "$"},
}

// SplitMath splits text into plain and math segments. A start delimiter with no
// matching end turns the rest of the text into plain text.
func SplitMath(text string) []Segment {
	var out []Segment
	push := func(s string, math bool) {
		if s == "" {
			return
		}
		if n := len(out); n > 0 && out[n-1].Math == math && !math {
			out[n-1].Text += s
			return
		}
		out = append(out, Segment{Text: s, Math: math})
	}

	cursor := 0
	for cursor < len(text) {
		var match *mathDelim
		for i := range mathDelims {
			if strings.HasPrefix(text[cursor:], mathDelims[i].start) {
				match = &mathDelims[i]
				break
			}
		}

		if match == nil {
			next := len(text)
			for _, d := range mathDelims {
				if pos := strings.Index(text[cursor:], d.start); pos != -1 && cursor+pos < next {
					next = cursor + pos
				}
			}
			push(text[cursor:next], false)
			cursor = next
			continue
		}

		bodyStart := cursor + len(match.start)
		end := strings.Index(text[bodyStart:], match.end)
		if end == -1 {
			push(text[cursor:], false)
			break
		}
		stop := bodyStart + end + len(match.end)
		push(text[cursor:stop], true)
		cursor = stop
	}
	return out
}

// InlineMath wraps a TeX expression in inline delimiters.
func InlineMath(tex string) string {
	return `\(` + tex + `\)`
}

// DisplayMath wraps a TeX expression in display delimiters.
func DisplayMath(tex string) string {
	return `\[` + tex + `\]`
}

// MathBody strips the delimiters from a math segment produced by SplitMath.
func MathBody(seg string) string {
	for _, d := range mathDelims {
		if len(seg) >= len(d.start)+len(d.end) && strings.HasPrefix(seg, d.start) && strings.HasSuffix(seg, d.end) {
			return seg[len(d.start) : len(seg)-len(d.end)]
		}
	}
	return seg
}

// Parts splits the displayed item into a label prefix and a body. The label is
// empty when it is not displayed: a prose item only shows "Label: detail";
// otherwise its raw text stands alone.
func Parts(it model.Item) (label string, body string) {
	switch c := it.Content.(type) {
	case model.Equation:
		lines := make([]string, 0, len(c.Lines))
		for _, l := range c.Lines {
			lines = append(lines, InlineMath(l))
		}
		return it.Label, strings.Join(lines, " ")
	case model.Prose:
		switch {
		case it.Label != "" && c.Detail != "":
			return it.Label, c.Detail
		case c.Text != "":
			return "", c.Text
		case c.Detail != "":
			return "", c.Detail
		}
	}
	return "", it.Label
}

// ItemText is the displayed text of an item: "Label: body", or just the body.
func ItemText(it model.Item) string {
	label, body := Parts(it)
	switch {
	case label == "":
		return body
	case body == "":
		return label
	default:
		return label + ": " + body
	}
}

// DerivationText flattens derivation entries into plain text lines.
func DerivationText(entries []model.DerivationEntry) string {
	var lines []string
	for _, e := range entries {
		switch v := e.(type) {
		case model.DerivHeading:
			lines = append(lines, v.Text)
		case model.DerivEquation:
			if v.Display {
				lines = append(lines, DisplayMath(v.Tex))
			} else {
				lines = append(lines, InlineMath(v.Tex))
			}
		case model.DerivList:
			lines = append(lines, v.Items...)
		case model.DerivText:
			lines = append(lines, v.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// SearchText is everything a reader can see for an item, used by the search filter.
func SearchText(it model.Item) string {
	parts := []string{ItemText(it)}
	if it.HasDerivation() {
		if it.DerivationSummary != "" {
			parts = append(parts, it.DerivationSummary)
		}
		parts = append(parts, DerivationText(it.Derivation))
	}
	return strings.Join(parts, "\n")
}

// Markdown renders derivation entries as Markdown; equations become code spans
// or fenced blocks since terminals cannot typeset TeX.
func Markdown(entries []model.DerivationEntry) string {
	var b strings.Builder
	for _, e := range entries {
		switch v := e.(type) {
		case model.DerivHeading:
			b.WriteString("#### " + mathToCode(v.Text) + "\n\n")
		case model.DerivEquation:
			if v.Display {
				b.WriteString("```tex\n" + v.Tex + "\n```\n\n")
			} else {
				b.WriteString("`" + v.Tex + "`\n\n")
			}
		case model.DerivList:
			if len(v.Items) == 0 {
				continue
			}
			for _, it := range v.Items {
				b.WriteString("- " + mathToCode(it) + "\n")
			}
			b.WriteString("\n")
		case model.DerivText:
			if strings.TrimSpace(v.Text) == "" {
				continue
			}
			b.WriteString(mathToCode(v.Text) + "\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// mathToCode turns math segments into inline code spans.
func mathToCode(s string) string {
	var b strings.Builder
	for _, seg := range SplitMath(s) {
		if seg.Math {
			b.WriteString("`" + strings.ReplaceAll(seg.Text, "`", "'") + "`")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
