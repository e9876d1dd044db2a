// Package itemkey derives the stable identifiers that join rendered checklist
// items to persisted progress.
//
// A key is "<chapter>::<section>::<item>", each part normalized by Normalize.
// Two items whose parts normalize to the same triple share a key, and so share
// completion state. Keys carry no positional information; reordering content
// keeps saved progress attached.
package itemkey

import (
	"strings"

	"atomic-checklist/internal/model"
)

const (
	// Sep joins the three key parts.
	Sep = "::"
	// wordSep replaces runs of non [a-z0-9] characters.
	wordSep = '-'
)

// Normalize lowercases s, collapses every run of characters outside [a-z0-9]
// into a single '-', and trims leading/trailing '-'.
func Normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteRune(wordSep)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// Derive builds the key for an item from its chapter title, section title and
// identifying text.
func Derive(chapterTitle, sectionTitle, identifying string) model.ItemKey {
	return model.ItemKey(Normalize(chapterTitle) + Sep + Normalize(sectionTitle) + Sep + Normalize(identifying))
}

// ForItem derives the key of item within the given chapter and section.
func ForItem(chapterTitle, sectionTitle string, item model.Item) model.ItemKey {
	return Derive(chapterTitle, sectionTitle, Identity(item))
}

// Identity returns the text that identifies an item: its label, else its detail,
// else its raw text. Multi-line equations join their lines with ",".
func Identity(item model.Item) string {
	if item.Label != "" {
		return item.Label
	}
	switch c := item.Content.(type) {
	case model.Prose:
		if c.Detail != "" {
			return c.Detail
		}
		return c.Text
	case model.Equation:
		return strings.Join(c.Lines, ",")
	}
	return ""
}

// Split returns the three parts of a key. ok is false for keys that do not
// have exactly three parts.
func Split(k model.ItemKey) (chapter, section, item string, ok bool) {
	parts := strings.Split(string(k), Sep)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
