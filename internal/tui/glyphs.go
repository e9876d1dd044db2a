package tui

import (
	"os"
	"strings"
	"sync"
)

// Glyph sets for checkboxes, twisties and separators. Some fonts render the
// Unicode set poorly; CHECKLIST_TUI_GLYPHS=ascii switches to plain ASCII.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference(pref string) {
	v := strings.ToLower(strings.TrimSpace(pref))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(os.Getenv("CHECKLIST_TUI_GLYPHS")))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphChecked() string   { return pick("☑", "[x]") }
func glyphUnchecked() string { return pick("☐", "[ ]") }
func glyphCollapsed() string { return pick("▸", ">") }
func glyphExpanded() string  { return pick("▾", "v") }
func glyphDone() string      { return pick("✓", "*") }
func glyphDot() string       { return pick("·", "|") }
func glyphHRule() string     { return pick("─", "-") }
func glyphCursor() string    { return pick("›", ">") }
