package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/vanshika/heronet/internal/domain"
	"github.com/vanshika/heronet/internal/store"
)

const epsilon = 1e-9

func chainStore() *store.Store {
	return store.New([]domain.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "C", Target: "D"},
	})
}

// bidirectionalPath builds a path graph of n entities with edges in both directions.
func bidirectionalPath(n int) *store.Store {
	var edges []domain.Edge
	for i := 0; i+1 < n; i++ {
		a, b := fmt.Sprintf("N%d", i), fmt.Sprintf("N%d", i+1)
		edges = append(edges, domain.Edge{Source: a, Target: b}, domain.Edge{Source: b, Target: a})
	}
	return store.New(edges)
}

func randomStore(seed int64, entities, edges int) *store.Store {
	rng := rand.New(rand.NewSource(seed))
	list := make([]domain.Edge, edges)
	for i := range list {
		list[i] = domain.Edge{
			Source: fmt.Sprintf("E%d", rng.Intn(entities)),
			Target: fmt.Sprintf("E%d", rng.Intn(entities)),
		}
	}
	return store.New(list)
}

func sequentialOptions() Options {
	opts := DefaultOptions()
	opts.Workers = 1
	return opts
}

func assertScore(t *testing.T, scores map[string]float64, name string, want float64) {
	t.Helper()
	got, ok := scores[name]
	if !ok {
		t.Fatalf("missing score for %s", name)
	}
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s: expected score %.6f, got %.6f", name, want, got)
	}
}

func TestCentrality_DirectedChain(t *testing.T) {
	a := New(chainStore(), sequentialOptions())

	scores, err := a.CentralityByName(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(scores) != 4 {
		t.Fatalf("expected every entity in result, got %d entries", len(scores))
	}

	assertScore(t, scores, "A", 0)
	assertScore(t, scores, "B", 1.0/3.0)
	assertScore(t, scores, "C", 1.0/3.0)
	assertScore(t, scores, "D", 0)
}

func TestCentrality_BidirectionalPathMatchesClosedForm(t *testing.T) {
	const n = 6
	opts := sequentialOptions()
	opts.Normalized = false
	a := New(bidirectionalPath(n), opts)

	scores, err := a.CentralityByName(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Each ordered pair on either side of position i routes through it.
	for i := 0; i < n; i++ {
		want := float64(2 * i * (n - 1 - i))
		assertScore(t, scores, fmt.Sprintf("N%d", i), want)
	}

	normalized := New(bidirectionalPath(5), sequentialOptions())
	norm, err := normalized.CentralityByName(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertScore(t, norm, "N1", 0.5)
	assertScore(t, norm, "N2", 2.0/3.0)
	assertScore(t, norm, "N3", 0.5)
}

func TestCentrality_ParallelEdgesWeightShortestPaths(t *testing.T) {
	st := store.New([]domain.Edge{
		{Source: "A", Target: "B"},
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "A", Target: "D"},
		{Source: "D", Target: "C"},
	})
	opts := sequentialOptions()
	opts.Normalized = false

	scores, err := New(st, opts).CentralityByName(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertScore(t, scores, "B", 2.0/3.0)
	assertScore(t, scores, "D", 1.0/3.0)
	assertScore(t, scores, "A", 0)
	assertScore(t, scores, "C", 0)
}

func TestCentrality_Endpoints(t *testing.T) {
	opts := sequentialOptions()
	opts.Normalized = false
	opts.Endpoints = true

	scores, err := New(chainStore(), opts).CentralityByName(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertScore(t, scores, "A", 3)
	assertScore(t, scores, "B", 5)
	assertScore(t, scores, "C", 5)
	assertScore(t, scores, "D", 3)

	opts.Normalized = true
	norm, err := New(chainStore(), opts).CentralityByName(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertScore(t, norm, "B", 5.0/12.0)
}

func TestCentrality_ScoresAreNonNegative(t *testing.T) {
	a := New(randomStore(7, 40, 160), sequentialOptions())

	scores, err := a.Centrality(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, s := range scores {
		if s.Score < 0 {
			t.Errorf("%s: negative score %f", s.Name, s.Score)
		}
		if s.Score > 1+epsilon {
			t.Errorf("%s: normalized score above 1: %f", s.Name, s.Score)
		}
	}
}

func TestCentrality_ParallelMatchesSequential(t *testing.T) {
	st := randomStore(11, 60, 300)

	sequential, err := New(st, sequentialOptions()).Centrality(context.Background())
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}

	opts := DefaultOptions()
	opts.Workers = 4
	opts.ParallelThreshold = 1
	parallel, err := New(st, opts).Centrality(context.Background())
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	if len(parallel) != len(sequential) {
		t.Fatalf("length mismatch: %d vs %d", len(parallel), len(sequential))
	}
	for i := range sequential {
		if parallel[i].Name != sequential[i].Name {
			t.Fatalf("order mismatch at %d: %s vs %s", i, parallel[i].Name, sequential[i].Name)
		}
		if math.Abs(parallel[i].Score-sequential[i].Score) > epsilon {
			t.Errorf("%s: parallel %.9f, sequential %.9f", sequential[i].Name, parallel[i].Score, sequential[i].Score)
		}
	}
}

func TestCentrality_SampleCap(t *testing.T) {
	st := randomStore(3, 30, 120)

	exact, err := New(st, sequentialOptions()).Centrality(context.Background())
	if err != nil {
		t.Fatalf("exact: %v", err)
	}

	full := sequentialOptions()
	full.SampleSize = st.Len()
	capped, err := New(st, full).Centrality(context.Background())
	if err != nil {
		t.Fatalf("full sample: %v", err)
	}
	for i := range exact {
		if math.Abs(exact[i].Score-capped[i].Score) > epsilon {
			t.Errorf("%s: sample size n should be exact, got %.9f want %.9f", exact[i].Name, capped[i].Score, exact[i].Score)
		}
	}

	sampled := sequentialOptions()
	sampled.SampleSize = 5
	first, err := New(st, sampled).Centrality(context.Background())
	if err != nil {
		t.Fatalf("sampled: %v", err)
	}
	second, err := New(st, sampled).Centrality(context.Background())
	if err != nil {
		t.Fatalf("sampled: %v", err)
	}
	if len(first) != st.Len() {
		t.Fatalf("sampled result should still list every entity, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sampling with a fixed seed should be deterministic: %+v vs %+v", first[i], second[i])
		}
		if first[i].Score < 0 {
			t.Errorf("%s: negative sampled score", first[i].Name)
		}
	}
}

func TestCentrality_EmptyGraph(t *testing.T) {
	a := New(store.New(nil), DefaultOptions())

	if _, err := a.Centrality(context.Background()); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
	if _, err := a.MostConnected(context.Background()); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph from MostConnected, got %v", err)
	}
	if _, err := a.TopK(context.Background(), 5); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph from TopK, got %v", err)
	}
}

func TestCentrality_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(chainStore(), sequentialOptions())
	if _, err := a.Centrality(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// A failed computation is not cached.
	scores, err := a.CentralityByName(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	assertScore(t, scores, "B", 1.0/3.0)
}

func TestEntities_AnnotatesCentrality(t *testing.T) {
	a := New(chainStore(), sequentialOptions())

	entities, err := a.Entities(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if entities[1].Name != "B" || math.Abs(entities[1].Centrality-1.0/3.0) > epsilon {
		t.Fatalf("unexpected annotated entity %+v", entities[1])
	}
	if entities[1].Appearances != 2 {
		t.Fatalf("expected appearances to be carried over, got %d", entities[1].Appearances)
	}
}

func TestTopK(t *testing.T) {
	a := New(chainStore(), sequentialOptions())
	ctx := context.Background()

	top, err := a.TopK(ctx, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(top) != 2 || top[0].Name != "B" || top[1].Name != "C" {
		t.Fatalf("expected [B C], got %+v", top)
	}

	all, err := a.TopK(ctx, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	if strings.Join(names, ",") != "B,C,A,D" {
		t.Fatalf("expected stable descending order B,C,A,D, got %v", names)
	}

	none, err := a.TopK(ctx, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result for k=0, got %+v", none)
	}
}

func TestMostConnected(t *testing.T) {
	a := New(chainStore(), sequentialOptions())
	ctx := context.Background()

	first, err := a.MostConnected(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Name != "B" {
		t.Fatalf("expected B to win the tie with C, got %s", first.Name)
	}
	if math.Abs(first.Score-1.0/3.0) > epsilon {
		t.Fatalf("unexpected score %f", first.Score)
	}

	for i := 0; i < 3; i++ {
		again, err := a.MostConnected(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if again != first {
			t.Fatalf("expected idempotent result %+v, got %+v", first, again)
		}
	}
}

func TestMostConnected_AllZeroReturnsFirstEntity(t *testing.T) {
	a := New(store.New([]domain.Edge{{Source: "X", Target: "Y"}, {Source: "Z", Target: "W"}}), sequentialOptions())

	best, err := a.MostConnected(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if best.Name != "X" || best.Score != 0 {
		t.Fatalf("expected X with score 0, got %+v", best)
	}
}

func TestDegreesOfSeparation(t *testing.T) {
	a := New(chainStore(), DefaultOptions())

	hops, err := a.DegreesOfSeparation("A", "D")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hops != 3 {
		t.Fatalf("expected 3 hops, got %d", hops)
	}

	hops, err = a.DegreesOfSeparation("C", "C")
	if err != nil {
		t.Fatalf("expected no error for self query, got %v", err)
	}
	if hops != 0 {
		t.Fatalf("expected 0 hops to self, got %d", hops)
	}
}

func TestDegreesOfSeparation_Unreachable(t *testing.T) {
	a := New(chainStore(), DefaultOptions())

	_, err := a.DegreesOfSeparation("D", "A")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if errors.Is(err, ErrUnknownEntity) {
		t.Fatal("unreachable must not be reported as unknown entity")
	}
}

func TestDegreesOfSeparation_UnknownEntity(t *testing.T) {
	a := New(chainStore(), DefaultOptions())

	for _, pair := range [][2]string{{"A", "STACY, JILL"}, {"STACY, JILL", "A"}} {
		_, err := a.DegreesOfSeparation(pair[0], pair[1])
		if !errors.Is(err, ErrUnknownEntity) {
			t.Fatalf("expected ErrUnknownEntity for %v, got %v", pair, err)
		}
		if !strings.Contains(err.Error(), "STACY, JILL") {
			t.Errorf("expected error to name the entity, got %q", err.Error())
		}
	}
}

func TestShortestPath_PicksFewestHops(t *testing.T) {
	st := store.New([]domain.Edge{
		{Source: "A", Target: "B"},
		{Source: "B", Target: "C"},
		{Source: "C", Target: "D"},
		{Source: "A", Target: "E"},
		{Source: "E", Target: "D"},
	})
	a := New(st, DefaultOptions())

	path, err := a.ShortestPath("A", "D")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if path.Hops != 2 {
		t.Fatalf("expected 2 hops, got %d", path.Hops)
	}
	if strings.Join(path.Nodes, ">") != "A>E>D" {
		t.Fatalf("expected path A>E>D, got %v", path.Nodes)
	}

	back, err := a.DegreesOfSeparation("D", "A")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected reverse direction to be unreachable, got %d, %v", back, err)
	}
}
