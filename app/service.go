package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/16205/pmereporter/config"
	"github.com/16205/pmereporter/core/conflict"
	"github.com/16205/pmereporter/core/document"
	"github.com/16205/pmereporter/core/ingest"
	coremetrics "github.com/16205/pmereporter/core/metrics"
	"github.com/16205/pmereporter/core/model"
	"github.com/16205/pmereporter/infra/logger"

	// Register the built-in metrics sinks.
	_ "github.com/16205/pmereporter/infra/metrics"
	"github.com/16205/pmereporter/infra/typeset"
)

// Service wires the normaliser, conflict detector and document compiler
// behind a single entry point.
type Service struct {
	normalizer *ingest.Normalizer
	compiler   *document.Compiler
	sink       coremetrics.Sink
	log        logger.Logger
}

// Result bundles the outcome of one generation run.
type Result struct {
	RunID     string
	Missions  []model.Mission
	Plans     []document.Plan
	Conflicts conflict.Conflicts
	// Rejected counts raw records dropped during normalisation.
	Rejected int
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	measure := typeset.NewEstimator(cfg.Typeset)
	return &Service{
		normalizer: ingest.New(cfg.Ingest, logg),
		compiler:   document.New(cfg.Document, measure, logg),
		sink:       sink,
		log:        logg,
	}, nil
}

// GenerateOrders runs the full pipeline: the payload is normalised, sources
// are checked for double bookings and one document plan is compiled per
// selected mission. Normalisation drops malformed records and carries on;
// compilation aborts on the first failing mission.
func (s *Service) GenerateOrders(payload ingest.Payload, sources model.Registry, locations map[string]string, selected []string) (*Result, error) {
	runID := uuid.NewString()
	res := &Result{RunID: runID}

	missions, err := s.normalizer.Normalize(payload)
	if err != nil {
		res.Rejected = len(payload.Items) - len(missions)
		s.log.Warnf("run %s: %d record(s) rejected: %v", runID, res.Rejected, err)
	}
	if len(locations) > 0 {
		ingest.Enrich(missions, locations)
	}
	res.Missions = missions
	if err := s.sink.RecordBatch(coremetrics.BatchEvent{
		RunID:    runID,
		Missions: len(missions),
		Rejected: res.Rejected,
		Time:     time.Now(),
	}); err != nil {
		s.log.Warnf("run %s: record batch: %v", runID, err)
	}

	res.Conflicts = conflict.Detect(missions)
	if !res.Conflicts.Empty() {
		evs := make([]coremetrics.ConflictEvent, 0, len(res.Conflicts))
		for src, keys := range res.Conflicts {
			s.log.Warnf("run %s: source %s double booked by missions %v", runID, src, keys)
			evs = append(evs, coremetrics.ConflictEvent{
				RunID:     runID,
				SourceKey: src,
				Missions:  keys,
				Time:      time.Now(),
			})
		}
		if err := s.sink.RecordConflicts(evs); err != nil {
			s.log.Warnf("run %s: record conflicts: %v", runID, err)
		}
	}

	plans, err := s.compileAll(runID, missions, sources, selected)
	res.Plans = plans
	if err != nil {
		return res, err
	}
	s.log.Infof("run %s: compiled %d document(s) from %d mission(s)", runID, len(plans), len(missions))
	return res, nil
}

// CheckConflicts normalises the payload and reports double-booked sources
// without compiling any documents.
func (s *Service) CheckConflicts(payload ingest.Payload) (conflict.Conflicts, error) {
	missions, err := s.normalizer.Normalize(payload)
	if len(missions) == 0 && err != nil {
		return nil, err
	}
	return conflict.Detect(missions), nil
}

func (s *Service) compileAll(runID string, missions []model.Mission, sources model.Registry, selected []string) ([]document.Plan, error) {
	want := make(map[string]bool, len(selected))
	for _, k := range selected {
		want[k] = true
	}
	var plans []document.Plan
	for _, m := range missions {
		if len(want) > 0 && !want[m.Key] {
			continue
		}
		start := time.Now()
		plan, err := s.compiler.Compile(m, sources)
		if err != nil {
			return plans, err
		}
		plans = append(plans, *plan)
		if err := s.sink.RecordCompile(coremetrics.CompileEvent{
			RunID:      runID,
			MissionKey: m.Key,
			Sources:    len(m.Sources),
			Blocks:     len(plan.Blocks),
			Warnings:   len(plan.Warnings),
			Duration:   time.Since(start),
			Time:       time.Now(),
		}); err != nil {
			s.log.Warnf("run %s: record compile: %v", runID, err)
		}
	}
	return plans, nil
}
