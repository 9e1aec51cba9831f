package systems

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
)

// Background is the nebula decoration of the current galaxy. It is rebuilt
// whenever the current galaxy changes.
type Background struct {
	Sequence  uint64
	noise     opensimplex.Noise
	frequency float64
	octaves   int
	threshold float64
}

// NewBackground builds the decoration field for a galaxy sequence.
func NewBackground(sequence uint64, cfg config.BackgroundConfig) *Background {
	return &Background{
		Sequence:  sequence,
		noise:     opensimplex.NewNormalized(int64(sequence)),
		frequency: cfg.Frequency,
		octaves:   max(1, cfg.Octaves),
		threshold: cfg.Threshold,
	}
}

// Density returns the nebula density in [0, 1] at a galaxy-local point.
// Values below the threshold are clipped to zero.
func (b *Background) Density(p components.Point) float64 {
	var sum, norm float64
	freq, amp := b.frequency, 1.0
	for range b.octaves {
		sum += amp * b.noise.Eval2(p.X*freq, p.Y*freq)
		norm += amp
		freq *= 2
		amp *= 0.5
	}
	v := sum / norm
	if v < b.threshold || b.threshold >= 1 {
		return 0
	}
	return (v - b.threshold) / (1 - b.threshold)
}
