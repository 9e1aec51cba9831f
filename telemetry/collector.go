package telemetry

// ScanKind distinguishes the two streaming scales.
type ScanKind uint8

const (
	ScanStars ScanKind = iota
	ScanGalaxies
)

// Collector accumulates streaming events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	starScans         int
	starsGenerated    int
	starsEvicted      int
	galaxyScans       int
	galaxiesGenerated int
	galaxiesEvicted   int
	skipped           int
	galaxySwitches    int
	galaxyPreviews    int
	starActivations   int
	populateFailed    int

	// Events since the last DrainEvents
	events []Event
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordScan records one streaming pass that actually rescanned its region.
func (c *Collector) RecordScan(kind ScanKind, generated, evicted, skipped int) {
	if c == nil {
		return
	}
	switch kind {
	case ScanStars:
		c.starScans++
		c.starsGenerated += generated
		c.starsEvicted += evicted
	case ScanGalaxies:
		c.galaxyScans++
		c.galaxiesGenerated += generated
		c.galaxiesEvicted += evicted
	}
	c.skipped += skipped
}

// RecordEvent records a navigation event.
func (c *Collector) RecordEvent(e Event) {
	if c == nil {
		return
	}
	switch e.Type {
	case EventGalaxySwitch:
		c.galaxySwitches++
	case EventGalaxyPreview:
		c.galaxyPreviews++
	case EventStarActivated:
		c.starActivations++
	case EventPopulateFailed:
		c.populateFailed++
	}
	c.events = append(c.events, e)
}

// DrainEvents returns and clears the buffered events.
func (c *Collector) DrainEvents() []Event {
	if c == nil {
		return nil
	}
	ev := c.events
	c.events = nil
	return ev
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return c != nil && currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides current table occupancy and the star table's chain lengths.
func (c *Collector) Flush(currentTick int32, stars, galaxies int, chains []float64) WindowStats {
	cs := ComputeChainStats(chains)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Stars:    stars,
		Galaxies: galaxies,

		StarScans:         c.starScans,
		StarsGenerated:    c.starsGenerated,
		StarsEvicted:      c.starsEvicted,
		GalaxyScans:       c.galaxyScans,
		GalaxiesGenerated: c.galaxiesGenerated,
		GalaxiesEvicted:   c.galaxiesEvicted,
		Skipped:           c.skipped,

		GalaxySwitches:  c.galaxySwitches,
		GalaxyPreviews:  c.galaxyPreviews,
		StarActivations: c.starActivations,
		PopulateFailed:  c.populateFailed,

		ChainMean: cs.Mean,
		ChainStd:  cs.Std,
		ChainMax:  cs.Max,
		ChainP90:  cs.P90,
	}

	// Reset for next window
	events := c.events
	*c = Collector{
		windowDurationSec:   c.windowDurationSec,
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     currentTick,
		events:              events,
	}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
