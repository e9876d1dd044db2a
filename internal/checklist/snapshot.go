package checklist

import (
	"atomic-checklist/internal/progress"
)

// ChapterProgress is the derived progress of one chapter.
type ChapterProgress struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	progress.Progress
}

// Snapshot is a full recomputation of chapter and overall progress from the
// current state.
type Snapshot struct {
	Chapters []ChapterProgress `json:"chapters"`
	Overall  progress.Progress `json:"overall"`
}

// ChapterProgress recomputes progress for chapter ci.
func (c *Controller) ChapterProgress(ci int) progress.Progress {
	entries := c.ChapterEntries(ci)
	flags := make([]bool, 0, len(entries))
	for _, e := range entries {
		flags = append(flags, c.state.Completed(e.Key))
	}
	return progress.Compute(flags)
}

// Overall recomputes progress across all chapters.
func (c *Controller) Overall() progress.Progress {
	return c.Snapshot().Overall
}

// Snapshot recomputes every chapter and the overall progress.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{Chapters: make([]ChapterProgress, 0, len(c.doc.Chapters))}
	parts := make([]progress.Progress, 0, len(c.doc.Chapters))
	for ci, ch := range c.doc.Chapters {
		p := c.ChapterProgress(ci)
		snap.Chapters = append(snap.Chapters, ChapterProgress{
			Index:    ci,
			Title:    ch.Title,
			Slug:     c.ChapterSlug(ci),
			Progress: p,
		})
		parts = append(parts, p)
	}
	snap.Overall = progress.Sum(parts...)
	return snap
}
