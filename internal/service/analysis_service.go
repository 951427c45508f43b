package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vanshika/heronet/internal/analytics"
	"github.com/vanshika/heronet/internal/domain"
	"github.com/vanshika/heronet/internal/store"
)

// AnalysisService loads an edge list, builds the graph store and runs the
// analytic queries against it.
type AnalysisService struct {
	source EdgeSource
	opts   analytics.Options
	logger *slog.Logger
	nowFn  func() time.Time
}

// NewAnalysisService constructs an AnalysisService. A nil logger discards output.
func NewAnalysisService(source EdgeSource, opts analytics.Options, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AnalysisService{
		source: source,
		opts:   opts,
		logger: logger,
		nowFn:  time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *AnalysisService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Analyze runs the ranking, most-connected and separation queries. Loading
// failures and an empty graph fail the whole run; a failed separation query
// is reported inside the returned Report.
func (s *AnalysisService) Analyze(ctx context.Context, q Query) (domain.Report, error) {
	start := s.nowFn()
	edges, err := s.source.LoadEdges(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load edges: %w", err)
	}
	s.logger.Info("edges loaded", "count", len(edges), "duration", s.nowFn().Sub(start).String())

	st := store.New(edges)
	s.logger.Info("graph built", "entities", st.Len(), "relationships", st.RelationshipCount())

	analyzer := analytics.New(st, s.opts)

	start = s.nowFn()
	top, err := analyzer.TopK(ctx, q.TopK)
	if err != nil {
		return domain.Report{}, fmt.Errorf("rank entities: %w", err)
	}
	s.logger.Info("centrality computed",
		"entities", st.Len(),
		"sample_size", s.opts.SampleSize,
		"duration", s.nowFn().Sub(start).String(),
	)

	most, err := analyzer.MostConnected(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("most connected entity: %w", err)
	}

	report := domain.Report{
		EntityCount:       st.Len(),
		RelationshipCount: st.RelationshipCount(),
		TopEntities:       top,
		MostConnected:     most,
		Separation:        s.separation(analyzer, q),
	}
	return report, nil
}

func (s *AnalysisService) separation(analyzer *analytics.Analyzer, q Query) domain.SeparationResult {
	source := strings.TrimSpace(q.Source)
	target := strings.TrimSpace(q.Target)
	result := domain.SeparationResult{Source: source, Target: target}

	path, err := analyzer.ShortestPath(source, target)
	if err != nil {
		s.logger.Warn("separation query failed", "source", source, "target", target, "error", err)
		result.Kind = separationFailure(err)
		result.Error = err.Error()
		result.Err = err
		return result
	}
	result.Path = &path
	return result
}

func separationFailure(err error) domain.SeparationFailure {
	switch {
	case errors.Is(err, analytics.ErrUnknownEntity):
		return domain.SeparationUnknownEntity
	case errors.Is(err, analytics.ErrUnreachable):
		return domain.SeparationUnreachable
	default:
		return domain.SeparationFailed
	}
}
