package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"atomic-checklist/internal/checklist"
	"atomic-checklist/internal/content"
	"atomic-checklist/internal/ticker"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	frameInterval = 50 * time.Millisecond
	// The hue speed is in degrees per 60 Hz frame; one tick covers three.
	framesPerTick = 3

	defaultWidth  = 80
	defaultHeight = 24
)

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

type derivKey struct {
	entry int
	width int
}

type model struct {
	ctx       context.Context
	ctl       *checklist.Controller
	log       *log.Logger
	now       func() time.Time
	exportDir string
	title     string

	keys   keyMap
	help   help.Model
	bar    progress.Model
	search textinput.Model

	searching bool
	vis       checklist.Visibility
	snap      checklist.Snapshot
	entries   []checklist.Entry
	// visible holds entry indexes in display order; cursor indexes into it.
	visible []int
	cursor  int

	expanded   map[int]bool
	derivCache map[derivKey]string

	timer *ticker.Stopwatch
	hue   *ticker.HueCycle

	confirmReset bool
	confirmFocus confirmModalFocus
	showHelp     bool
	status       string

	width  int
	height int
}

func newModel(ctx context.Context, opts Options) model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Atomic Checklist"
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search items"
	ti.CharLimit = 200

	bar := progress.New(progress.WithSolidFill(string(colorAccent.Dark)), progress.WithoutPercentage())

	m := model{
		ctx:        ctx,
		ctl:        opts.Controller,
		log:        logger,
		now:        now,
		exportDir:  opts.ExportDir,
		title:      title,
		keys:       defaultKeyMap(),
		help:       help.New(),
		bar:        bar,
		search:     ti,
		entries:    opts.Controller.Entries(),
		expanded:   map[int]bool{},
		derivCache: map[derivKey]string{},
		timer:      ticker.NewStopwatch(now),
		hue:        ticker.NewHueCycle(),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.snap = m.ctl.Snapshot()
	m.applyFilter()
	return m
}

func (m model) Init() tea.Cmd {
	return frameCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case frameMsg:
		m.hue.StepN(framesPerTick)
		return m, frameCmd()
	case tea.KeyMsg:
		if m.confirmReset {
			return m.updateConfirmReset(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateSearch routes keys to the search input. Shortcut letters are plain
// text here.
func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.searching = false
		m.applyFilter()
		return m, nil
	case "enter", "down", "up":
		m.search.Blur()
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m model) updateConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
	case "enter":
		m.confirmReset = false
		if m.confirmFocus == confirmFocusConfirm {
			m.resetProgress()
		}
	case "y", "Y":
		m.confirmReset = false
		m.resetProgress()
	case "esc", "n", "N", "q", "ctrl+g":
		m.confirmReset = false
		m.status = "reset cancelled"
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(0, len(m.visible)-1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent()
	case key.Matches(msg, m.keys.Derivation):
		idx, ok := m.current()
		if !ok {
			break
		}
		if !m.entries[idx].Item.HasDerivation() {
			m.status = "no derivation for this item"
			break
		}
		m.expanded[idx] = !m.expanded[idx]
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		if m.vis.Active() {
			m.search.SetValue("")
			m.applyFilter()
		}
	case key.Matches(msg, m.keys.Colors):
		m.hue.Toggle()
	case key.Matches(msg, m.keys.Slower):
		m.hue.Slower()
		m.status = fmt.Sprintf("color speed %.1f", m.hue.Speed)
	case key.Matches(msg, m.keys.Faster):
		m.hue.Faster()
		m.status = fmt.Sprintf("color speed %.1f", m.hue.Speed)
	case key.Matches(msg, m.keys.Timer):
		m.timer.Toggle()
	case key.Matches(msg, m.keys.TimerReset):
		m.timer.Reset()
	case key.Matches(msg, m.keys.Reset):
		m.confirmReset = true
		m.confirmFocus = confirmFocusCancel
	case key.Matches(msg, m.keys.Export):
		m.export()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func (m *model) current() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return 0, false
	}
	return m.visible[m.cursor], true
}

func (m *model) toggleCurrent() {
	idx, ok := m.current()
	if !ok {
		m.status = "nothing to check"
		return
	}
	_, snap, err := m.ctl.Toggle(m.ctx, m.entries[idx].Key)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.snap = snap
}

func (m *model) resetProgress() {
	m.snap = m.ctl.ResetAll(m.ctx)
	m.status = "progress reset"
}

func (m *model) export() {
	now := m.now()
	b, err := m.ctl.Export(now).JSON()
	if err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	dir := m.exportDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, checklist.ReportFileName(now))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.log.Info("progress exported", "path", path)
	m.status = "exported " + path
}

// applyFilter recomputes visibility and keeps the cursor on the same entry when
// it is still visible.
func (m *model) applyFilter() {
	prev, hadPrev := m.current()
	m.vis = m.ctl.Filter(m.search.Value())
	visible := make([]int, 0, len(m.entries))
	for i := range m.entries {
		if m.vis.ItemVisible(i) {
			visible = append(visible, i)
		}
	}
	m.visible = visible
	m.cursor = 0
	if hadPrev {
		for pos, idx := range m.visible {
			if idx == prev {
				m.cursor = pos
				break
			}
		}
	}
}

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}

	header := m.viewHeader(width)
	footer := m.viewFooter(width)
	bodyH := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	if m.confirmReset {
		modal := renderConfirmModal(width, "Reset progress?",
			"This unchecks every item and clears saved progress. It cannot be undone.",
			"Reset", "Cancel", m.confirmFocus)
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, modal)
	} else {
		lines, focus := m.bodyLines(width)
		offset := max(0, focus-bodyH/3)
		lines, _ = window(lines, bodyH, offset, focus)
		for len(lines) < bodyH {
			lines = append(lines, "")
		}
		body = strings.Join(lines, "\n")
	}

	return header + "\n" + body + "\n" + footer
}

func (m model) viewHeader(width int) string {
	accent := accentStyle(m.hue.Color())
	overall := m.snap.Overall

	parts := []string{
		accent.Render(m.title),
		fmt.Sprintf("Overall %s", overall.PercentLabel()),
		fmt.Sprintf("%s %s", m.timer.Display(), styleMuted().Render("("+m.timer.Label()+")")),
	}
	if m.hue.Paused {
		parts = append(parts, styleMuted().Render("colors paused"))
	}
	line := fitLine(strings.Join(parts, " "+glyphDot()+" "), width)

	bar := m.bar
	bar.FullColor = m.hue.Color()
	bar.Width = max(10, width-2)
	lines := []string{line, bar.ViewAs(float64(overall.Percent) / 100)}

	if m.searching {
		lines = append(lines, renderInputLine(width, m.search.View()))
	} else if m.vis.Active() {
		lines = append(lines, styleMuted().Render(fitLine(
			fmt.Sprintf("search %q: %d matching items (esc clears)", m.vis.Query, m.vis.Matches()), width)))
	}
	return strings.Join(lines, "\n")
}

func (m model) viewFooter(width int) string {
	var lines []string
	if m.status != "" {
		lines = append(lines, fitLine(m.status, width))
	}
	h := m.help
	h.Width = width
	lines = append(lines, h.View(m.keys))
	return strings.Join(lines, "\n")
}

// bodyLines renders every visible chapter and returns the lines plus the index
// of the line holding the cursor.
func (m model) bodyLines(width int) ([]string, int) {
	doc := m.ctl.Document()
	if m.vis.Active() && m.vis.VisibleChapters() == 0 {
		return []string{styleMuted().Render(fmt.Sprintf("No items match %q.", m.vis.Query))}, 0
	}

	cur, hasCur := m.current()
	var (
		lines []string
		focus int
	)
	entryPos := 0
	for ci, ch := range doc.Chapters {
		if !m.vis.ChapterVisible(ci) {
			entryPos += len(m.ctl.ChapterEntries(ci))
			continue
		}
		lines = append(lines, m.chapterLines(ci, width)...)

		for si, sec := range ch.Sections {
			if !m.vis.SectionVisible(ci, si) {
				entryPos += len(sec.Items)
				continue
			}
			lines = append(lines, fitLine("  "+lipgloss.NewStyle().Bold(true).Render(sec.Title), width))
			for range sec.Items {
				idx := entryPos
				entryPos++
				if !m.vis.ItemVisible(idx) {
					continue
				}
				selected := hasCur && idx == cur
				if selected {
					focus = len(lines)
				}
				lines = append(lines, m.itemLines(idx, selected, width)...)
			}
		}
		lines = append(lines, "")
	}
	return lines, focus
}

func (m model) chapterLines(ci, width int) []string {
	ch := m.ctl.Document().Chapters[ci]
	p := m.snap.Chapters[ci]

	title := accentStyle(m.hue.Color()).Render(ch.Title)
	if p.Done() {
		title += " " + styleDone().Render(glyphDone())
	}
	out := []string{fitLine(title, width)}
	if s := strings.TrimSpace(ch.Summary); s != "" {
		for _, ln := range strings.Split(lipgloss.NewStyle().Width(max(10, width-2)).Render(s), "\n") {
			out = append(out, styleMuted().Render(ln))
		}
	}

	bar := m.bar
	bar.FullColor = m.hue.Color()
	bar.Width = min(30, max(10, width/3))
	out = append(out, fitLine(bar.ViewAs(float64(p.Percent)/100)+" "+p.PercentLabel()+" "+styleMuted().Render(p.CountLabel()), width))
	return out
}

func (m model) itemLines(idx int, selected bool, width int) []string {
	e := m.entries[idx]

	box := glyphUnchecked()
	if m.ctl.Checked(e.Key) {
		box = styleDone().Render(glyphChecked())
	}
	marker := "  "
	if selected {
		marker = glyphCursor() + " "
	}
	twisty := " "
	if e.Item.HasDerivation() {
		twisty = glyphCollapsed()
		if m.expanded[idx] {
			twisty = glyphExpanded()
		}
	}

	const indent = 4
	prefix := strings.Repeat(" ", indent-2) + marker + box + " " + twisty + " "
	prefixW := lipgloss.Width(prefix)
	textW := max(10, width-prefixW)

	wrapped := strings.Split(lipgloss.NewStyle().Width(textW).Render(itemDisplay(e)), "\n")
	out := make([]string, 0, len(wrapped))
	for i, ln := range wrapped {
		if i == 0 {
			ln = prefix + ln
			if selected {
				ln = styleSelected().Render(ln)
			}
		} else {
			ln = strings.Repeat(" ", prefixW) + ln
		}
		out = append(out, fitLine(ln, width))
	}

	if m.expanded[idx] {
		out = append(out, m.derivationLines(idx, prefixW, width)...)
	}
	return out
}

// itemDisplay is the item text with math delimiters removed; terminals show TeX as-is.
func itemDisplay(e checklist.Entry) string {
	label, body := content.Parts(e.Item)
	var b strings.Builder
	if label != "" {
		b.WriteString(label)
		if body != "" {
			b.WriteString(": ")
		}
	}
	for _, seg := range content.SplitMath(body) {
		if seg.Math {
			b.WriteString(content.MathBody(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func (m model) derivationLines(idx, indent, width int) []string {
	e := m.entries[idx]
	w := max(10, width-indent)
	k := derivKey{entry: idx, width: w}

	rendered, ok := m.derivCache[k]
	if !ok {
		md := content.Markdown(e.Item.Derivation)
		if s := strings.TrimSpace(e.Item.DerivationSummary); s != "" {
			md = "**" + s + "**\n\n" + md
		}
		out, err := renderMarkdown(md, w)
		if err != nil {
			m.log.Warn("derivation render failed; showing plain text", "key", e.Key, "err", err)
			out = content.DerivationText(e.Item.Derivation)
		}
		rendered = out
		m.derivCache[k] = rendered
	}

	lines := indentBlock(rendered, indent)
	for i := range lines {
		lines[i] = fitLine(lines[i], width)
	}
	return lines
}
