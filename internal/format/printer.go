package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Printer writes colored lines. Colors follow fatih/color's terminal
// detection and NO_COLOR.
type Printer struct {
	w   io.Writer
	err error

	heading *color.Color
	success *color.Color
	warn    *color.Color
	muted   *color.Color
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		muted:   color.New(color.Faint),
	}
}

// Err returns the first write error seen.
func (p *Printer) Err() error { return p.err }

func (p *Printer) line(c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}
	s := fmt.Sprintf(format, args...)
	if c != nil {
		s = c.Sprint(s)
	}
	_, p.err = io.WriteString(p.w, s+"\n")
}

func (p *Printer) Plain(format string, args ...any)   { p.line(nil, format, args...) }
func (p *Printer) Heading(format string, args ...any) { p.line(p.heading, format, args...) }
func (p *Printer) Success(format string, args ...any) { p.line(p.success, format, args...) }
func (p *Printer) Warn(format string, args ...any)    { p.line(p.warn, format, args...) }
func (p *Printer) Muted(format string, args ...any)   { p.line(p.muted, format, args...) }

// Indent prints a plain line prefixed by depth levels of two spaces.
func (p *Printer) Indent(depth int, format string, args ...any) {
	p.line(nil, strings.Repeat("  ", depth)+format, args...)
}

// Check returns a checkbox marker, green when done.
func (p *Printer) Check(done bool) string {
	if done {
		return p.success.Sprint("[x]")
	}
	return "[ ]"
}

// Bar draws a fixed-width text progress bar for percent in [0,100].
func (p *Printer) Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return p.success.Sprint(strings.Repeat("#", filled)) + strings.Repeat("-", width-filled)
}
