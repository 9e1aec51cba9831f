package game

// flushTelemetry checks if the stats window should be flushed.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.stars.Table.Len(), s.galaxies.Table.Len(), s.stars.Table.ChainLengths())
	perfStats := s.perf.Stats()
	events := s.collector.DrainEvents()

	if s.logStats {
		stats.LogStats(s.logger)
		perfStats.LogStats(s.logger)
		s.logSystemState()
	}

	if s.output != nil {
		if err := s.output.WriteStreams(stats); err != nil {
			s.logger.Error("failed to write streams", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			s.logger.Error("failed to write perf", "error", err)
		}
		if err := s.output.WriteEvents(events); err != nil {
			s.logger.Error("failed to write events", "error", err)
		}
	}
}
