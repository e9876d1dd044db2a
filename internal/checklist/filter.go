package checklist

import "strings"

// SectionRef addresses a section within the document.
type SectionRef struct {
	Chapter int
	Section int
}

// Visibility is the view state produced by a search query. It is never persisted.
type Visibility struct {
	Query    string
	items    []bool // by entry index
	sections map[SectionRef]bool
	chapters []bool
}

// Filter matches query case-insensitively against each item's rendered text.
// A blank query shows everything. Sections are visible when at least one of
// their items is; chapters when at least one of their sections is.
func (c *Controller) Filter(query string) Visibility {
	q := strings.ToLower(strings.TrimSpace(query))
	v := Visibility{
		Query:    q,
		items:    make([]bool, len(c.entries)),
		sections: map[SectionRef]bool{},
		chapters: make([]bool, len(c.doc.Chapters)),
	}

	if q == "" {
		for i := range v.items {
			v.items[i] = true
		}
		for ci, ch := range c.doc.Chapters {
			v.chapters[ci] = true
			for si := range ch.Sections {
				v.sections[SectionRef{Chapter: ci, Section: si}] = true
			}
		}
		return v
	}

	for i, e := range c.entries {
		if strings.Contains(strings.ToLower(e.searchText), q) {
			v.items[i] = true
			v.sections[SectionRef{Chapter: e.Chapter, Section: e.Section}] = true
			v.chapters[e.Chapter] = true
		}
	}
	return v
}

// Active reports whether a non-blank query is applied.
func (v Visibility) Active() bool { return v.Query != "" }

// ItemVisible reports the visibility of the entry at position idx of Entries().
func (v Visibility) ItemVisible(idx int) bool {
	return idx >= 0 && idx < len(v.items) && v.items[idx]
}

func (v Visibility) SectionVisible(ci, si int) bool {
	return v.sections[SectionRef{Chapter: ci, Section: si}]
}

func (v Visibility) ChapterVisible(ci int) bool {
	return ci >= 0 && ci < len(v.chapters) && v.chapters[ci]
}

// Matches counts visible items.
func (v Visibility) Matches() int {
	n := 0
	for _, ok := range v.items {
		if ok {
			n++
		}
	}
	return n
}

// VisibleChapters counts visible chapters.
func (v Visibility) VisibleChapters() int {
	n := 0
	for _, ok := range v.chapters {
		if ok {
			n++
		}
	}
	return n
}
