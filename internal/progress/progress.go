package progress

import "fmt"

// Progress is a derived completion summary. It is never persisted.
type Progress struct {
	Percent   int `json:"percent"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Percent returns round-half-up(100*completed/total) as an integer in [0,100].
// An empty total yields 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	// floor(100*c/t + 1/2) without floating point.
	return (200*completed + total) / (2 * total)
}

// New builds a Progress from counts.
func New(completed, total int) Progress {
	if total < 0 {
		total = 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return Progress{
		Percent:   Percent(completed, total),
		Completed: completed,
		Total:     total,
	}
}

// Compute aggregates a chapter from the completion flags of its items.
func Compute(items []bool) Progress {
	done := 0
	for _, c := range items {
		if c {
			done++
		}
	}
	return New(done, len(items))
}

// Sum combines chapter summaries into an overall summary; the percent is
// recomputed from the summed counts, not averaged.
func Sum(parts ...Progress) Progress {
	done, total := 0, 0
	for _, p := range parts {
		done += p.Completed
		total += p.Total
	}
	return New(done, total)
}

// Done reports a non-empty group whose rounded percent reads 100.
func (p Progress) Done() bool {
	return p.Total > 0 && p.Percent == 100
}

func (p Progress) PercentLabel() string {
	return fmt.Sprintf("%d%%", p.Percent)
}

func (p Progress) CountLabel() string {
	return fmt.Sprintf("%d of %d complete", p.Completed, p.Total)
}

// Ratio is Percent as a fraction, for progress bars.
func (p Progress) Ratio() float64 {
	return float64(p.Percent) / 100
}
