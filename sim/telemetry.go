package sim

import (
	"log/slog"

	"github.com/pthm-cable/reactor/telemetry"
)

// flushTelemetry records the last tick and flushes the stats window when it is due.
func (s *Sim) flushTelemetry() {
	if s.collector == nil {
		return
	}

	s.collector.Record(s.board.LastTick())
	tick := s.board.Ticks()
	if !s.collector.ShouldFlush(tick) {
		return
	}

	census := telemetry.TakeCensus(s.board)
	stats := s.collector.Flush(tick, census)
	perfStats := s.perf.Stats()
	s.lastStats = stats

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf", "perf", perfStats)
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := s.output.WriteSpecies(census, tick); err != nil {
			slog.Error("failed to write species census", "error", err)
		}
	}
}
