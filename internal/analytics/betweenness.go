package analytics

import (
	"context"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/heronet/internal/store"
)

// betweenness computes betweenness centrality with Brandes' algorithm over
// the directed relationships of st. Parallel relationships count as distinct
// shortest paths. Scores are indexed by entity ID.
func betweenness(ctx context.Context, st *store.Store, opts Options) ([]float64, error) {
	n := st.Len()
	sources := pickSources(n, opts.SampleSize, opts.Seed)

	var (
		scores []float64
		err    error
	)
	if opts.Workers > 1 && n >= opts.ParallelThreshold && len(sources) > 1 {
		scores, err = accumulateParallel(ctx, st, sources, opts)
	} else {
		scores = make([]float64, n)
		err = newBrandes(st, opts.Endpoints).run(ctx, sources, scores)
	}
	if err != nil {
		return nil, err
	}

	if scale, ok := rescaleFactor(n, len(sources), opts); ok {
		for i := range scores {
			scores[i] *= scale
		}
	}
	return scores, nil
}

// pickSources returns the source entities to expand in ascending order.
func pickSources(n, sampleSize int, seed int64) []int {
	if sampleSize <= 0 || sampleSize >= n {
		sources := make([]int, n)
		for i := range sources {
			sources[i] = i
		}
		return sources
	}
	rng := rand.New(rand.NewSource(seed))
	sources := rng.Perm(n)[:sampleSize]
	sort.Ints(sources)
	return sources
}

func rescaleFactor(n, expanded int, opts Options) (float64, bool) {
	var scale float64
	switch {
	case !opts.Normalized:
		scale = 1
	case opts.Endpoints:
		if n < 2 {
			return 0, false
		}
		scale = 1 / float64(n*(n-1))
	default:
		if n <= 2 {
			return 0, false
		}
		scale = 1 / float64((n-1)*(n-2))
	}
	if expanded < n {
		scale *= float64(n) / float64(expanded)
	}
	return scale, scale != 1
}

// accumulateParallel splits sources into disjoint partitions, one per worker.
// Each worker owns its partial scores; partials are summed afterwards.
func accumulateParallel(ctx context.Context, st *store.Store, sources []int, opts Options) ([]float64, error) {
	workers := opts.Workers
	if workers > len(sources) {
		workers = len(sources)
	}
	partials := make([][]float64, workers)
	chunk := (len(sources) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(sources) {
			break
		}
		hi := min(lo+chunk, len(sources))
		partials[w] = make([]float64, st.Len())

		part := sources[lo:hi]
		out := partials[w]
		g.Go(func() error {
			return newBrandes(st, opts.Endpoints).run(gctx, part, out)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := make([]float64, st.Len())
	for _, partial := range partials {
		for i, v := range partial {
			scores[i] += v
		}
	}
	return scores, nil
}

// brandes holds the per-source scratch space so that it is allocated once
// per worker.
type brandes struct {
	st        *store.Store
	endpoints bool

	stack []int
	queue []int
	dist  []int
	sigma []float64
	delta []float64
	pred  [][]int
}

func newBrandes(st *store.Store, endpoints bool) *brandes {
	n := st.Len()
	return &brandes{
		st:        st,
		endpoints: endpoints,
		stack:     make([]int, 0, n),
		queue:     make([]int, 0, n),
		dist:      make([]int, n),
		sigma:     make([]float64, n),
		delta:     make([]float64, n),
		pred:      make([][]int, n),
	}
}

func (b *brandes) run(ctx context.Context, sources []int, scores []float64) error {
	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.search(s)
		b.accumulate(s, scores)
	}
	return nil
}

// search is the BFS phase: it fills the visit stack, shortest-path counts
// and predecessor lists for source s.
func (b *brandes) search(s int) {
	for i := range b.dist {
		b.dist[i] = -1
		b.sigma[i] = 0
		b.delta[i] = 0
		b.pred[i] = b.pred[i][:0]
	}
	b.stack = b.stack[:0]
	b.queue = append(b.queue[:0], s)
	b.dist[s] = 0
	b.sigma[s] = 1

	for head := 0; head < len(b.queue); head++ {
		v := b.queue[head]
		b.stack = append(b.stack, v)
		for _, w := range b.st.Successors(v) {
			if b.dist[w] < 0 {
				b.dist[w] = b.dist[v] + 1
				b.queue = append(b.queue, w)
			}
			if b.dist[w] == b.dist[v]+1 {
				b.sigma[w] += b.sigma[v]
				b.pred[w] = append(b.pred[w], v)
			}
		}
	}
}

// accumulate is the back-propagation phase, adding the pair dependencies of
// source s into scores.
func (b *brandes) accumulate(s int, scores []float64) {
	if b.endpoints {
		scores[s] += float64(len(b.stack) - 1)
	}
	for i := len(b.stack) - 1; i >= 0; i-- {
		w := b.stack[i]
		coeff := (1 + b.delta[w]) / b.sigma[w]
		for _, v := range b.pred[w] {
			b.delta[v] += b.sigma[v] * coeff
		}
		if w == s {
			continue
		}
		scores[w] += b.delta[w]
		if b.endpoints {
			scores[w]++
		}
	}
}
