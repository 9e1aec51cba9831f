package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/starfield/components"
	"github.com/pthm-cable/starfield/config"
)

// ShipSystem integrates thrust, gravity wells and speed limits for ships.
type ShipSystem struct {
	filter *ecs.Filter3[components.Position, components.Velocity, components.Thrust]
	cfg    *config.Config
}

// ShipContext is the per-tick environment a ship flies through. Star may be
// nil when no system is active.
type ShipContext struct {
	Star         *components.Star
	GalaxyRadius float64 // galaxy-local units
}

// NewShipSystem creates a ship system over the world.
func NewShipSystem(w *ecs.World, cfg *config.Config) *ShipSystem {
	return &ShipSystem{
		filter: ecs.NewFilter3[components.Position, components.Velocity, components.Thrust](w),
		cfg:    cfg,
	}
}

// Update runs the ship system.
func (s *ShipSystem) Update(ctx ShipContext) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, thrust := query.Get()
		s.step(ctx, pos, vel, thrust)
	}
}

func (s *ShipSystem) step(ctx ShipContext, pos *components.Position, vel *components.Velocity, thrust *components.Thrust) {
	dt := s.cfg.Derived.DT

	acc := r2.Scale(s.cfg.Ship.Thrust, thrust.T)
	if ctx.Star != nil {
		acc = r2.Add(acc, s.gravityWell(ctx.Star, pos.P))
	}
	vel.V = r2.Add(vel.V, r2.Scale(dt, acc))

	// Limit velocity
	limit := s.cfg.Physics.UniverseSpeedLimit
	if r2.Norm(pos.P) <= ctx.GalaxyRadius {
		limit = s.cfg.Physics.GalaxySpeedLimit
	}
	vel.V = ClampSpeed(vel.V, limit)

	pos.P = r2.Add(pos.P, r2.Scale(1/s.cfg.Physics.TickRate, vel.V))
}

// gravityWell sums the pull of every body in the system whose cutoff
// contains p.
func (s *ShipSystem) gravityWell(star *components.Star, p components.Point) components.Point {
	var acc components.Point
	for i := range star.Bodies {
		b := &star.Bodies[i]
		sep := r2.Sub(b.Pos, p)
		d := r2.Norm(sep)
		if d > b.Cutoff || d <= b.Radius+s.cfg.Ship.Radius {
			continue
		}
		g := Gravity(s.cfg.Physics.GravitationalConstant, b.Radius, d)
		acc = r2.Add(acc, r2.Scale(g/d, sep))
	}
	return acc
}

// ClampSpeed rescales v to at most limit, preserving direction.
func ClampSpeed(v components.Point, limit float64) components.Point {
	speed := r2.Norm(v)
	if speed <= limit || speed == 0 {
		return v
	}
	return r2.Scale(limit/speed, v)
}
