package playback

import (
	"sync"

	"covidash/internal/dashboard"
)

// FilterSource supplies the current selector values. The controller reads
// them at the start of every render cycle.
type FilterSource interface {
	TimelineFilters() dashboard.TimelineFilters
	AnalysisFilters() dashboard.AnalysisFilters
}

// Selections is a FilterSource holding values set by the UI.
type Selections struct {
	mu       sync.RWMutex
	timeline dashboard.TimelineFilters
	analysis dashboard.AnalysisFilters
}

// NewSelections returns Selections with the given initial values.
func NewSelections(t dashboard.TimelineFilters, a dashboard.AnalysisFilters) *Selections {
	return &Selections{timeline: t, analysis: a}
}

func (s *Selections) TimelineFilters() dashboard.TimelineFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline
}

func (s *Selections) AnalysisFilters() dashboard.AnalysisFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// SetTimeline replaces the timeline selectors.
func (s *Selections) SetTimeline(f dashboard.TimelineFilters) {
	s.mu.Lock()
	s.timeline = f
	s.mu.Unlock()
}

// SetAnalysis replaces the analysis selectors.
func (s *Selections) SetAnalysis(f dashboard.AnalysisFilters) {
	s.mu.Lock()
	s.analysis = f
	s.mu.Unlock()
}
