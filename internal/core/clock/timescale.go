package clock

import "time"

// TimeScale is the slow-motion layer applied to the game delta each frame.
// Scale 1 is realtime, 0 stops gameplay while systems still run. Frozen is
// the debug-only mode in which only debug-exempt systems are invoked.
type TimeScale struct {
	scale  float64
	frozen bool

	// slow-motion recovery
	from      float64
	target    float64
	remaining time.Duration
	span      time.Duration
}

func NewTimeScale() *TimeScale {
	return &TimeScale{scale: 1, target: 1}
}

func (t *TimeScale) Scale() float64 { return t.scale }
func (t *TimeScale) Frozen() bool   { return t.frozen }

// SetScale fixes the scale, cancelling any running slow-motion. Values are clamped to [0, 1].
func (t *TimeScale) SetScale(s float64) {
	t.scale = clamp01(s)
	t.target = t.scale
	t.remaining, t.span = 0, 0
}

func (t *TimeScale) Freeze()   { t.frozen = true }
func (t *TimeScale) Unfreeze() { t.frozen = false }

// SlowMotion drops the scale to factor and eases it back to the previous
// target linearly over d of wall time.
func (t *TimeScale) SlowMotion(factor float64, d time.Duration) {
	if d <= 0 {
		return
	}
	t.scale = clamp01(factor)
	t.from = t.scale
	t.remaining, t.span = d, d
}

// Effective advances slow-motion recovery by wall and returns the delta
// handed to systems plus whether the frame is frozen. Frozen frames hand the
// wall delta to the debug-exempt systems that still run.
func (t *TimeScale) Effective(wall, game time.Duration) (time.Duration, bool) {
	if t.frozen {
		return wall, true
	}
	scaled := time.Duration(float64(game) * t.scale)
	if t.remaining > 0 {
		t.remaining -= wall
		if t.remaining <= 0 {
			t.remaining, t.span = 0, 0
			t.scale = t.target
		} else {
			progress := 1 - float64(t.remaining)/float64(t.span)
			t.scale = t.from + (t.target-t.from)*progress
		}
	}
	return scaled, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
