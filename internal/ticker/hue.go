package ticker

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultHue   = 240.0
	DefaultSpeed = 0.5
	MinSpeed     = 0.1
	MaxSpeed     = 2.0
	SpeedStep    = 0.1
)

// HueCycle rotates an accent hue by Speed degrees per frame.
type HueCycle struct {
	Hue    float64
	Speed  float64
	Paused bool
	Sat    float64
	Value  float64
}

func NewHueCycle() *HueCycle {
	return &HueCycle{Hue: DefaultHue, Speed: DefaultSpeed, Sat: 0.75, Value: 0.95}
}

// Step advances one frame unless paused.
func (h *HueCycle) Step() {
	if h.Paused {
		return
	}
	h.Hue = math.Mod(h.Hue+h.Speed, 360)
}

// StepN advances n frames; used when a UI ticks slower than the frame rate.
func (h *HueCycle) StepN(n int) {
	for i := 0; i < n; i++ {
		h.Step()
	}
}

func (h *HueCycle) Toggle() { h.Paused = !h.Paused }

func (h *HueCycle) Slower() { h.setSpeed(h.Speed - SpeedStep) }

func (h *HueCycle) Faster() { h.setSpeed(h.Speed + SpeedStep) }

func (h *HueCycle) setSpeed(v float64) {
	// Round to one decimal so repeated steps land on the bounds exactly.
	v = math.Round(v*10) / 10
	h.Speed = math.Max(MinSpeed, math.Min(MaxSpeed, v))
}

// Color is the current accent as "#rrggbb".
func (h *HueCycle) Color() string {
	return colorful.Hsv(h.Hue, h.Sat, h.Value).Hex()
}
