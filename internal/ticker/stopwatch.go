// Package ticker holds the study timer and the ambient accent-color cycle.
// Both are plain values owned by whichever UI drives them.
package ticker

import (
	"fmt"
	"time"
)

const (
	LabelStart  = "Start Study"
	LabelPause  = "Pause Study"
	LabelResume = "Resume Study"
)

// Stopwatch accumulates elapsed study time across pause/resume cycles.
type Stopwatch struct {
	now func() time.Time

	running bool
	started time.Time
	// accumulated from previous runs
	elapsed time.Duration
}

// NewStopwatch returns a stopped stopwatch. A nil now uses time.Now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now}
}

func (s *Stopwatch) Running() bool { return s.running }

// Start is a no-op when already running.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.running = true
	s.started = s.now()
}

// Pause is a no-op when stopped.
func (s *Stopwatch) Pause() {
	if !s.running {
		return
	}
	s.elapsed += s.now().Sub(s.started)
	s.running = false
}

func (s *Stopwatch) Toggle() {
	if s.running {
		s.Pause()
		return
	}
	s.Start()
}

// Reset stops the stopwatch and zeroes it.
func (s *Stopwatch) Reset() {
	s.running = false
	s.elapsed = 0
	s.started = time.Time{}
}

func (s *Stopwatch) Elapsed() time.Duration {
	d := s.elapsed
	if s.running {
		d += s.now().Sub(s.started)
	}
	if d < 0 {
		return 0
	}
	return d
}

// Display renders the elapsed time as HH:MM:SS. Hours are not wrapped at 24.
func (s *Stopwatch) Display() string {
	total := int64(s.Elapsed() / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// Label is the caption of the start/pause control.
func (s *Stopwatch) Label() string {
	switch {
	case s.running:
		return LabelPause
	case s.elapsed > 0:
		return LabelResume
	default:
		return LabelStart
	}
}
