// Package tui is the interactive terminal checklist.
package tui

import (
	"context"
	"time"

	"atomic-checklist/internal/checklist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Options struct {
	Controller *checklist.Controller
	// Logger must not write to the terminal the program owns.
	Logger *log.Logger
	// Theme is auto, light or dark; Glyphs is unicode or ascii.
	Theme  string
	Glyphs string
	// ExportDir receives exported progress reports.
	ExportDir string
	Title     string
	Now       func() time.Time
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	m := newModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
