// Package analytics answers centrality and distance queries over a built
// store.Store. All queries are read-only; the store is never modified.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/samber/oops"

	"github.com/vanshika/heronet/internal/domain"
	"github.com/vanshika/heronet/internal/store"
)

var (
	// ErrEmptyGraph is returned by centrality queries on a store without entities.
	ErrEmptyGraph = errors.New("graph has no entities")
	// ErrUnknownEntity is returned when a query names an entity missing from the store.
	ErrUnknownEntity = errors.New("entity not found")
	// ErrUnreachable is returned when no directed path joins two known entities.
	ErrUnreachable = errors.New("no path exists")
)

const (
	defaultSeed              = 42
	defaultParallelThreshold = 100
)

// Options tunes the betweenness computation.
type Options struct {
	// Normalized divides raw scores by the number of ordered pairs of the
	// remaining entities.
	Normalized bool
	// Endpoints counts the source and target of each path as lying on it.
	Endpoints bool
	// SampleSize caps the number of source entities expanded. Zero, or a
	// value not below the entity count, computes exact scores.
	SampleSize int
	// Seed drives the choice of sampled sources.
	Seed int64
	// Workers bounds the goroutines used for large graphs.
	Workers int
	// ParallelThreshold is the entity count from which work is split across workers.
	ParallelThreshold int
}

// DefaultOptions returns exact, normalized, endpoint-free settings.
func DefaultOptions() Options {
	return Options{
		Normalized:        true,
		Seed:              defaultSeed,
		Workers:           runtime.NumCPU(),
		ParallelThreshold: defaultParallelThreshold,
	}
}

// Analyzer runs queries against one store and caches centrality scores.
type Analyzer struct {
	store *store.Store
	opts  Options

	mu     sync.Mutex
	scores []float64
}

// New constructs an Analyzer. Out of range options fall back to defaults.
func New(st *store.Store, opts Options) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ParallelThreshold <= 0 {
		opts.ParallelThreshold = defaultParallelThreshold
	}
	if opts.SampleSize < 0 {
		opts.SampleSize = 0
	}
	return &Analyzer{store: st, opts: opts}
}

// Centrality returns the betweenness score of every entity in construction
// order, zero scores included.
func (a *Analyzer) Centrality(ctx context.Context) ([]domain.EntityScore, error) {
	scores, err := a.centrality(ctx)
	if err != nil {
		return nil, err
	}
	entities := a.store.Entities()
	result := make([]domain.EntityScore, len(entities))
	for i, entity := range entities {
		result[i] = domain.EntityScore{Name: entity.Name, Score: scores[entity.ID]}
	}
	return result, nil
}

// CentralityByName returns the betweenness scores keyed by entity name.
func (a *Analyzer) CentralityByName(ctx context.Context) (map[string]float64, error) {
	scores, err := a.centrality(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64, len(scores))
	for _, entity := range a.store.Entities() {
		result[entity.Name] = scores[entity.ID]
	}
	return result, nil
}

// Entities returns entity copies with their Centrality field populated.
func (a *Analyzer) Entities(ctx context.Context) ([]store.Entity, error) {
	scores, err := a.centrality(ctx)
	if err != nil {
		return nil, err
	}
	entities := a.store.Entities()
	for i := range entities {
		entities[i].Centrality = scores[entities[i].ID]
	}
	return entities, nil
}

func (a *Analyzer) centrality(ctx context.Context) ([]float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scores != nil {
		return a.scores, nil
	}
	if a.store.Len() == 0 {
		return nil, oops.In("analytics").Wrap(fmt.Errorf("compute centrality: %w", ErrEmptyGraph))
	}

	scores, err := betweenness(ctx, a.store, a.opts)
	if err != nil {
		return nil, err
	}
	a.scores = scores
	return scores, nil
}

func (a *Analyzer) resolve(name string) (store.Entity, error) {
	entity, ok := a.store.Find(name)
	if !ok {
		return store.Entity{}, oops.
			In("analytics").
			With("entity", name).
			Wrap(fmt.Errorf("%w: %q", ErrUnknownEntity, name))
	}
	return entity, nil
}
