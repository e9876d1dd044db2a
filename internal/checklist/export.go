package checklist

import (
	"encoding/json"
	"time"
)

// ISO8601Millis matches JavaScript's Date.toISOString output.
const ISO8601Millis = "2006-01-02T15:04:05.000Z07:00"

// Report is the exported progress artifact.
type Report struct {
	Date     string          `json:"date"`
	Overall  int             `json:"overall"`
	Chapters []ReportChapter `json:"chapters"`
}

type ReportChapter struct {
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Export summarizes the current progress at time now. Chapter titles are slugs.
func (c *Controller) Export(now time.Time) Report {
	snap := c.Snapshot()
	r := Report{
		Date:     now.UTC().Format(ISO8601Millis),
		Overall:  snap.Overall.Percent,
		Chapters: make([]ReportChapter, 0, len(snap.Chapters)),
	}
	for _, ch := range snap.Chapters {
		r.Chapters = append(r.Chapters, ReportChapter{
			Title:     ch.Slug,
			Progress:  ch.Percent,
			Completed: ch.Completed,
			Total:     ch.Total,
		})
	}
	return r
}

// JSON renders the report the way it is downloaded: two-space indented.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ReportFileName is the download name for a report made at now.
func ReportFileName(now time.Time) string {
	return "atomic-checklist-progress-" + now.UTC().Format("2006-01-02") + ".json"
}
