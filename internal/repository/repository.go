package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/heronet/internal/domain"
	"github.com/vanshika/heronet/internal/graph"
)

// ErrIncompleteEdge is returned when a stored relationship lacks an endpoint name.
var ErrIncompleteEdge = errors.New("stored edge has an empty endpoint")

// Repository persists and reads back the input edge list. Analysis results
// are never stored.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema creates the uniqueness constraint entity merges rely on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, entityConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure entity constraint: %w", err)
	}
	return nil
}

// UpsertEdges merges both endpoint entities of every edge and creates one
// relationship per edge. offset is the input position of edges[0]; it is
// stored on the relationship so reads can restore the input order.
func (r *Repository) UpsertEdges(ctx context.Context, offset int, edges []domain.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(edges))
	for i, edge := range edges {
		if edge.Source == "" || edge.Target == "" {
			return errors.New("edge endpoints are required")
		}
		rows = append(rows, map[string]any{
			"source": edge.Source,
			"target": edge.Target,
			"seq":    int64(offset + i),
		})
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertEdgesCypher, map[string]any{"edges": rows}); err != nil {
		return fmt.Errorf("upsert edges %d-%d: %w", offset, offset+len(edges)-1, err)
	}
	return nil
}

// FetchEdges returns all stored edges in their original input order. A
// relationship whose endpoint has no name fails the whole read.
func (r *Repository) FetchEdges(ctx context.Context) ([]domain.Edge, error) {
	res, err := r.client.ExecuteRead(ctx, fetchEdgesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch edges query: %w", err)
	}

	edges := make([]domain.Edge, 0, len(res.Records))
	for _, record := range res.Records {
		source := toString(record["source"])
		target := toString(record["target"])
		if source == "" || target == "" {
			return nil, fmt.Errorf("%w: seq %d", ErrIncompleteEdge, toInt64(record["seq"]))
		}
		edges = append(edges, domain.Edge{Source: source, Target: target})
	}
	return edges, nil
}

// LoadEdges implements service.EdgeSource.
func (r *Repository) LoadEdges(ctx context.Context) ([]domain.Edge, error) {
	return r.FetchEdges(ctx)
}

// CountEdges returns the number of stored relationships.
func (r *Repository) CountEdges(ctx context.Context) (int64, error) {
	res, err := r.client.ExecuteRead(ctx, countEdgesCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count edges query: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return toInt64(res.Records[0]["total"]), nil
}

// Reset deletes every stored entity and relationship.
func (r *Repository) Reset(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, resetCypher, nil); err != nil {
		return fmt.Errorf("reset graph: %w", err)
	}
	return nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

const (
	entityConstraintCypher = `
CREATE CONSTRAINT entity_name IF NOT EXISTS
FOR (e:Entity) REQUIRE e.name IS UNIQUE
`

	upsertEdgesCypher = `
UNWIND $edges AS edge
MERGE (a:Entity {name: edge.source})
MERGE (b:Entity {name: edge.target})
CREATE (a)-[:APPEARS_WITH {seq: edge.seq}]->(b)
`

	fetchEdgesCypher = `
MATCH (a:Entity)-[r:APPEARS_WITH]->(b:Entity)
RETURN a.name AS source, b.name AS target, r.seq AS seq
ORDER BY r.seq
`

	countEdgesCypher = `
MATCH (:Entity)-[r:APPEARS_WITH]->(:Entity)
RETURN count(r) AS total
`

	resetCypher = `
MATCH (e:Entity)
DETACH DELETE e
`
)
