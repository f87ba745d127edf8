package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// Tone plays a short fixed-frequency beep. Failures never abort the rest
// of the notification sequence; the dispatcher just logs them.
type Tone struct {
	frequency  float64
	durationMs int
}

// NewTone builds the tone channel. Zero values fall back to a D5 half
// second beep.
func NewTone(frequency float64, durationMs int) *Tone {
	if frequency <= 0 {
		frequency = beeep.DefaultFreq
	}
	if durationMs <= 0 {
		durationMs = beeep.DefaultDuration
	}
	return &Tone{frequency: frequency, durationMs: durationMs}
}

// Name implements Channel.
func (t *Tone) Name() string { return "tone" }

// Send emits the beep.
func (t *Tone) Send(_ context.Context, _ Message) error {
	return beeep.Beep(t.frequency, t.durationMs)
}
