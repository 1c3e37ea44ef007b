package survey

import (
	"github.com/rs/zerolog"
)

// StageResult reports what one pipeline stage did to the table
type StageResult struct {
	Name    string
	Removed int
	Changed int
	Skipped bool
	Reason  string
}

// Summary aggregates the stage results of one survey run
type Summary struct {
	RowsLoaded    int
	RowsWritten   int
	Stages        []StageResult
	URLsChanged   int
	URLsMapped    int
	URLsInvalid   int
	Geocoded      int
	GeocodeMisses int
}

// Removed returns the total number of rows dropped by all stages
func (s *Summary) Removed() int {
	total := 0
	for _, st := range s.Stages {
		total += st.Removed
	}
	return total
}

// Stage returns the result of the named stage
func (s *Summary) Stage(name string) (StageResult, bool) {
	for _, st := range s.Stages {
		if st.Name == name {
			return st, true
		}
	}
	return StageResult{}, false
}

// Log writes the summary as one event per stage and a final totals event
func (s *Summary) Log(logger zerolog.Logger) {
	for _, st := range s.Stages {
		ev := logger.Info()
		if st.Skipped {
			ev = logger.Warn().Str("reason", st.Reason)
		}
		ev.Str("stage", st.Name).
			Int("removed", st.Removed).
			Int("changed", st.Changed).
			Bool("skipped", st.Skipped).
			Msg("Stage finished")
	}
	logger.Info().
		Int("rows_loaded", s.RowsLoaded).
		Int("rows_removed", s.Removed()).
		Int("rows_written", s.RowsWritten).
		Int("urls_changed", s.URLsChanged).
		Int("urls_mapped", s.URLsMapped).
		Int("urls_invalid", s.URLsInvalid).
		Int("geocoded", s.Geocoded).
		Int("geocode_misses", s.GeocodeMisses).
		Msg("Survey cleanup summary")
}

func skipped(name, reason string) StageResult {
	return StageResult{Name: name, Skipped: true, Reason: reason}
}
