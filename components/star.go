package components

import "image/color"

// Star owns its planetary system as an arena of bodies. Bodies[RootBody] is
// the star itself; planets and moons refer to their parent by index.
// Dropping a Star drops every descendant.
type Star struct {
	Point  Point // galaxy-local key
	Class  int
	Radius float64
	Cutoff float64
	Color  color.RGBA

	Bodies []Body
}

// NewStar creates a star with an unpopulated system.
func NewStar(p Point, class int, radius, cutoff float64, c color.RGBA) *Star {
	return &Star{
		Point:  p,
		Class:  class,
		Radius: radius,
		Cutoff: cutoff,
		Color:  c,
		Bodies: []Body{{
			Level:  LevelStar,
			Class:  class,
			Radius: radius,
			Cutoff: cutoff,
			Color:  c,
			Pos:    p,
			Parent: NoBody,
		}},
	}
}

// Root returns the star's own body.
func (s *Star) Root() *Body {
	return &s.Bodies[RootBody]
}

// Body returns the body with the given id.
func (s *Star) Body(id BodyID) *Body {
	return &s.Bodies[id]
}

// Initialized reports whether the planetary system has been populated.
func (s *Star) Initialized() bool {
	return s.Bodies[RootBody].Initialized
}

// AddBody appends b as a child of parent and returns its id.
func (s *Star) AddBody(parent BodyID, b Body) BodyID {
	id := BodyID(len(s.Bodies))
	b.Parent = parent
	s.Bodies = append(s.Bodies, b)
	s.Bodies[parent].Children = append(s.Bodies[parent].Children, id)
	return id
}

// Planets returns the ids of the star's planets in placement order.
func (s *Star) Planets() []BodyID {
	return s.Bodies[RootBody].Children
}

// Walk visits id and its descendants depth-first, parents before children.
func (s *Star) Walk(id BodyID, fn func(id BodyID, b *Body)) {
	fn(id, &s.Bodies[id])
	for _, c := range s.Bodies[id].Children {
		s.Walk(c, fn)
	}
}
