package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/starfield/components"
)

// spawnShip creates the player ship at a galaxy-local position.
func (s *Simulation) spawnShip(p components.Point) ecs.Entity {
	pos := components.Position{P: p}
	vel := components.Velocity{}
	thrust := components.Thrust{}
	return s.shipMap.NewEntity(&pos, &vel, &thrust)
}

// moveShip places the ship at p, keeping its velocity.
func (s *Simulation) moveShip(p components.Point) {
	pos, _, _ := s.shipMap.Get(s.ship)
	pos.P = p
}

// stopShip zeroes the ship's velocity and thrust.
func (s *Simulation) stopShip() {
	_, vel, thrust := s.shipMap.Get(s.ship)
	vel.V = components.Point{}
	thrust.T = components.Point{}
}

// Ship returns the ship's galaxy-local position and velocity.
func (s *Simulation) Ship() (pos, vel components.Point) {
	p, v, _ := s.shipMap.Get(s.ship)
	return p.P, v.V
}
