// Package telemetry provides streaming statistics, performance tracking and CSV output.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventGalaxySwitch EventType = iota
	EventGalaxyPreview
	EventStarActivated
	EventPopulateFailed
	EventRelocate
)

func (t EventType) String() string {
	switch t {
	case EventGalaxySwitch:
		return "galaxy_switch"
	case EventGalaxyPreview:
		return "galaxy_preview"
	case EventStarActivated:
		return "star_activated"
	case EventPopulateFailed:
		return "populate_failed"
	case EventRelocate:
		return "relocate"
	}
	return "unknown"
}

// Event represents a single navigation event.
type Event struct {
	Type EventType
	Tick int32
	X, Y float64 // key of the galaxy or star involved
}

// NewGalaxySwitchEvent creates an event for a committed or previewed galaxy change.
func NewGalaxySwitchEvent(tick int32, x, y float64, committed bool) Event {
	t := EventGalaxyPreview
	if committed {
		t = EventGalaxySwitch
	}
	return Event{Type: t, Tick: tick, X: x, Y: y}
}

// NewStarActivatedEvent creates an event for a star system becoming active.
func NewStarActivatedEvent(tick int32, x, y float64) Event {
	return Event{Type: EventStarActivated, Tick: tick, X: x, Y: y}
}
