package cli

import (
	"atomic-checklist/internal/checklist"
	"atomic-checklist/internal/content"
	"atomic-checklist/internal/format"
	"atomic-checklist/internal/model"
	"atomic-checklist/internal/progress"
)

const barWidth = 20

type statusView struct {
	Content    string                      `json:"content"`
	Backend    string                      `json:"backend"`
	Namespace  string                      `json:"namespace"`
	StateDir   string                      `json:"stateDir"`
	Items      int                         `json:"items"`
	Collisions int                         `json:"collisions"`
	Overall    progress.Progress           `json:"overall"`
	Chapters   []checklist.ChapterProgress `json:"chapters"`
}

func (v statusView) WriteText(p *format.Printer) error {
	p.Heading("Overall %d%%  %s  %d of %d complete", v.Overall.Percent, p.Bar(v.Overall.Percent, barWidth), v.Overall.Completed, v.Overall.Total)
	for _, ch := range v.Chapters {
		p.Indent(1, "%3d%%  %s  %s (%d/%d)", ch.Percent, p.Bar(ch.Percent, barWidth/2), ch.Title, ch.Completed, ch.Total)
	}
	p.Muted("content %s · %s backend · slot %s", v.Content, v.Backend, v.Namespace)
	if v.Collisions > 0 {
		p.Warn("%d keys are shared by more than one item (see: checklist doctor)", v.Collisions)
	}
	return p.Err()
}

type itemRow struct {
	Key           model.ItemKey `json:"key"`
	Chapter       string        `json:"chapter"`
	Section       string        `json:"section"`
	Text          string        `json:"text"`
	Checked       bool          `json:"checked"`
	HasDerivation bool          `json:"hasDerivation"`
}

func newItemRow(ctl *checklist.Controller, e checklist.Entry) itemRow {
	ch := ctl.Document().Chapters[e.Chapter]
	return itemRow{
		Key:           e.Key,
		Chapter:       ch.Title,
		Section:       ch.Sections[e.Section].Title,
		Text:          content.ItemText(e.Item),
		Checked:       ctl.Checked(e.Key),
		HasDerivation: e.Item.HasDerivation(),
	}
}

type itemsView struct {
	Query string    `json:"query,omitempty"`
	Items []itemRow `json:"items"`
}

func (v itemsView) WriteText(p *format.Printer) error {
	if len(v.Items) == 0 {
		if v.Query != "" {
			p.Muted("No items match %q.", v.Query)
		} else {
			p.Muted("No items.")
		}
		return p.Err()
	}
	lastChapter, lastSection := "", ""
	for _, it := range v.Items {
		if it.Chapter != lastChapter {
			p.Heading("%s", it.Chapter)
			lastChapter, lastSection = it.Chapter, ""
		}
		if it.Section != lastSection {
			p.Indent(1, "%s", it.Section)
			lastSection = it.Section
		}
		p.Indent(2, "%s %s", p.Check(it.Checked), it.Text)
		p.Muted("        %s", it.Key)
	}
	return p.Err()
}

type itemDetail struct {
	itemRow
	DerivationSummary string `json:"derivationSummary,omitempty"`
	// Derivation is the derivation rendered as Markdown.
	Derivation string `json:"derivation,omitempty"`
	Shared     int    `json:"shared,omitempty"`
}

func (v itemDetail) WriteText(p *format.Printer) error {
	p.Heading("%s %s", p.Check(v.Checked), v.Text)
	p.Muted("%s › %s", v.Chapter, v.Section)
	p.Muted("%s", v.Key)
	if v.Shared > 1 {
		p.Warn("key shared by %d items", v.Shared)
	}
	if v.Derivation != "" {
		p.Plain("")
		if v.DerivationSummary != "" {
			p.Heading("%s", v.DerivationSummary)
		}
		p.Plain("%s", v.Derivation)
	}
	return p.Err()
}

type markResult struct {
	Key     model.ItemKey             `json:"key"`
	Checked bool                      `json:"checked"`
	Chapter checklist.ChapterProgress `json:"chapter"`
	Overall progress.Progress         `json:"overall"`
}

func (v markResult) WriteText(p *format.Printer) error {
	state := "unchecked"
	if v.Checked {
		state = "checked"
	}
	p.Success("%s %s", p.Check(v.Checked), state)
	p.Plain("%s: %d%% (%d of %d complete)", v.Chapter.Title, v.Chapter.Percent, v.Chapter.Completed, v.Chapter.Total)
	p.Plain("Overall: %d%%", v.Overall.Percent)
	return p.Err()
}

type exportResult struct {
	Path   string           `json:"path,omitempty"`
	Report checklist.Report `json:"report"`
}

func (v exportResult) WriteText(p *format.Printer) error {
	if v.Path != "" {
		p.Success("exported %s", v.Path)
	}
	p.Plain("Overall %d%% (%s)", v.Report.Overall, v.Report.Date)
	for _, ch := range v.Report.Chapters {
		p.Indent(1, "%3d%%  %s (%d/%d)", ch.Progress, ch.Title, ch.Completed, ch.Total)
	}
	return p.Err()
}
