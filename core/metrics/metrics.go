// Package metrics defines the observability events emitted while compiling
// mission orders, and the sink interfaces that record them.
package metrics

import "time"

// CompileEvent describes one compiled mission-order document.
type CompileEvent struct {
	RunID      string
	MissionKey string
	Sources    int
	Blocks     int
	Warnings   int
	Duration   time.Duration
	Time       time.Time
}

// ConflictEvent describes one double-booked source.
type ConflictEvent struct {
	RunID     string
	SourceKey string
	Missions  []string
	Time      time.Time
}

// BatchEvent summarises one normalisation run.
type BatchEvent struct {
	RunID    string
	Missions int
	Rejected int
	Time     time.Time
}

// Sink records compilation events for observability purposes.
type Sink interface {
	RecordCompile(ev CompileEvent) error
	RecordConflicts(evs []ConflictEvent) error
	RecordBatch(ev BatchEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordCompile(CompileEvent) error      { return nil }
func (NopSink) RecordConflicts([]ConflictEvent) error { return nil }
func (NopSink) RecordBatch(BatchEvent) error          { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCompile forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordCompile(ev CompileEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCompile(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordConflicts forwards the events to all sinks.
func (m *MultiSink) RecordConflicts(evs []ConflictEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordConflicts(evs); err != nil {
			return err
		}
	}
	return nil
}

// RecordBatch forwards the event to all sinks.
func (m *MultiSink) RecordBatch(ev BatchEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordBatch(ev); err != nil {
			return err
		}
	}
	return nil
}
