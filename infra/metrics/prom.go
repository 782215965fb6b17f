package metrics

import (
	coremetrics "github.com/16205/pmereporter/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records compilation events in Prometheus metrics.
type PromSink struct {
	missions  prometheus.Counter
	documents prometheus.Counter
	rejected  prometheus.Counter
	conflicts prometheus.Counter
	warnings  prometheus.Counter
	duration  prometheus.Histogram
}

// NewPromSink registers compilation metrics on the default Prometheus
// registerer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	missions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "missions_normalised_total",
		Help: "Total number of missions accepted during normalisation",
	})
	documents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "documents_compiled_total",
		Help: "Total number of mission order documents compiled",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "missions_rejected_total",
		Help: "Total number of raw records rejected during normalisation",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "source_conflicts_total",
		Help: "Total number of double-booked sources detected",
	})
	warnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "compile_warnings_total",
		Help: "Total number of warnings attached to compiled documents",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "compile_duration_seconds",
		Help:    "Time spent compiling one mission order document",
		Buckets: prometheus.DefBuckets,
	})

	s := &PromSink{
		missions:  missions,
		documents: documents,
		rejected:  rejected,
		conflicts: conflicts,
		warnings:  warnings,
		duration:  duration,
	}
	collectors := []struct {
		c   prometheus.Collector
		set func(prometheus.Collector)
	}{
		{missions, func(c prometheus.Collector) { s.missions = c.(prometheus.Counter) }},
		{documents, func(c prometheus.Collector) { s.documents = c.(prometheus.Counter) }},
		{rejected, func(c prometheus.Collector) { s.rejected = c.(prometheus.Counter) }},
		{conflicts, func(c prometheus.Collector) { s.conflicts = c.(prometheus.Counter) }},
		{warnings, func(c prometheus.Collector) { s.warnings = c.(prometheus.Counter) }},
		{duration, func(c prometheus.Collector) { s.duration = c.(prometheus.Histogram) }},
	}
	for _, col := range collectors {
		if err := reg.Register(col.c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				col.set(are.ExistingCollector)
			} else {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordCompile increments the document counter and observes the duration.
func (s *PromSink) RecordCompile(ev coremetrics.CompileEvent) error {
	s.documents.Inc()
	s.warnings.Add(float64(ev.Warnings))
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordConflicts counts one increment per double-booked source.
func (s *PromSink) RecordConflicts(evs []coremetrics.ConflictEvent) error {
	s.conflicts.Add(float64(len(evs)))
	return nil
}

// RecordBatch counts accepted and rejected records of a normalisation run.
func (s *PromSink) RecordBatch(ev coremetrics.BatchEvent) error {
	s.missions.Add(float64(ev.Missions))
	s.rejected.Add(float64(ev.Rejected))
	return nil
}
