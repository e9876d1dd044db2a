package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitLine truncates s (ANSI-aware) to width columns, marking the cut with an ellipsis.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// window returns at most height lines of lines, scrolled so that line focus is
// visible, and the new offset.
func window(lines []string, height, offset, focus int) ([]string, int) {
	if height <= 0 || len(lines) <= height {
		return lines, 0
	}
	if focus < offset {
		offset = focus
	}
	if focus >= offset+height {
		offset = focus - height + 1
	}
	if offset > len(lines)-height {
		offset = len(lines) - height
	}
	if offset < 0 {
		offset = 0
	}
	return lines[offset : offset+height], offset
}

// indentBlock prefixes every line of block with n spaces.
func indentBlock(block string, n int) []string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return lines
}
