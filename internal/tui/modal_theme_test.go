package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func forceProfile(t *testing.T) {
	t.Helper()
	oldProfile := lipgloss.ColorProfile()
	oldBG := lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(oldProfile)
		lipgloss.SetHasDarkBackground(oldBG)
	})
	t.Setenv("CHECKLIST_TUI_THEME", "")
	t.Setenv("COLORFGBG", "")
}

func TestRenderModalBox_UsesThemeBackground(t *testing.T) {
	forceProfile(t)

	applyThemePreference("light")
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected HasDarkBackground=false after forcing light theme")
	}
	// colorModalBg is ac("255", "235").
	if out := renderModalBox(80, "Reset progress?", "Body"); !strings.Contains(out, "48;5;255") {
		t.Fatalf("expected light modal background (48;5;255); got: %q", out)
	}

	applyThemePreference("dark")
	if out := renderModalBox(80, "Reset progress?", "Body"); !strings.Contains(out, "48;5;235") {
		t.Fatalf("expected dark modal background (48;5;235); got: %q", out)
	}
}

func TestRenderConfirmModal_FocusHighlightsButton(t *testing.T) {
	forceProfile(t)
	applyThemePreference("dark")

	cancelFocused := renderConfirmModal(60, "Reset progress?", "All items", "Reset", "Cancel", confirmFocusCancel)
	confirmFocused := renderConfirmModal(60, "Reset progress?", "All items", "Reset", "Cancel", confirmFocusConfirm)
	if cancelFocused == confirmFocused {
		t.Fatalf("expected focus to change rendering")
	}
	for _, want := range []string{"Reset progress?", "All items", "Reset", "Cancel", "esc/n: cancel"} {
		if !strings.Contains(cancelFocused, want) {
			t.Fatalf("expected %q in modal; got %q", want, cancelFocused)
		}
	}
}

func TestConfirmModalFocus_Toggle(t *testing.T) {
	f := confirmFocusCancel
	if f = f.toggle(); f != confirmFocusConfirm {
		t.Fatalf("expected confirm focus; got %v", f)
	}
	if f = f.toggle(); f != confirmFocusCancel {
		t.Fatalf("expected cancel focus; got %v", f)
	}
}
