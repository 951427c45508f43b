package service

import (
	"context"

	"github.com/vanshika/heronet/internal/domain"
)

// EdgeSource supplies the ordered edge list the graph is built from.
type EdgeSource interface {
	LoadEdges(ctx context.Context) ([]domain.Edge, error)
}

// EdgeWriter persists batches of edges; offset is the input position of the
// first edge in the batch.
type EdgeWriter interface {
	UpsertEdges(ctx context.Context, offset int, edges []domain.Edge) error
}

// Query holds the caller supplied parameters of one analysis run.
type Query struct {
	TopK   int
	Source string
	Target string
}
