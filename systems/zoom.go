package systems

import (
	"github.com/pthm-cable/starfield/components"
)

// Zoom recomputes the screen-space rect of body id and every descendant.
// origin is the world point drawn at screen (0, 0) and scale is screen
// pixels per world unit.
func Zoom(star *components.Star, id components.BodyID, scale float64, origin components.Point) {
	star.Walk(id, func(_ components.BodyID, b *components.Body) {
		r := b.Radius * scale
		b.Rect = components.Rect{
			X: (b.Pos.X-origin.X)*scale - r,
			Y: (b.Pos.Y-origin.Y)*scale - r,
			W: 2 * r,
			H: 2 * r,
		}
	})
}
