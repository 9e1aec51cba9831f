package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
)

// OrbitSystem advances every planet and moon of a star system by one tick.
type OrbitSystem struct {
	phys *config.PhysicsConfig
	dt   float64
}

// NewOrbitSystem creates an orbit integrator.
func NewOrbitSystem(cfg *config.Config) *OrbitSystem {
	return &OrbitSystem{phys: &cfg.Physics, dt: cfg.Derived.DT}
}

// Update advances star's planets and moons. Stars do not move.
func (s *OrbitSystem) Update(star *components.Star) {
	root := star.Root()
	root.Delta = components.Point{}
	for _, id := range root.Children {
		s.step(star, id)
	}
}

// step moves one body and then its children. A body first inherits its
// parent's displacement so whole subtrees translate together.
func (s *OrbitSystem) step(star *components.Star, id components.BodyID) {
	b := star.Body(id)
	parent := star.Body(b.Parent)

	b.Pos = r2.Add(b.Pos, parent.Delta)

	sep := r2.Sub(parent.Pos, b.Pos)
	if d := r2.Norm(sep); d > b.Radius+parent.Radius {
		g := Gravity(s.phys.GravitationalConstant, parent.Radius, d)
		b.Vel = r2.Add(b.Vel, r2.Scale(g*s.dt/d, sep))
	}

	own := r2.Scale(1/s.phys.TickRate, b.Vel)
	b.Pos = r2.Add(b.Pos, own)
	b.Delta = r2.Add(parent.Delta, own)

	for _, c := range b.Children {
		s.step(star, c)
	}
}

// Gravity returns the acceleration magnitude G*R^2/d^2 of a body of radius R
// at distance d. Mass is taken to scale with radius squared.
func Gravity(g, radius, d float64) float64 {
	return g * radius * radius / (d * d)
}
