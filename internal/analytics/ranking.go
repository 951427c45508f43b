package analytics

import (
	"context"

	"github.com/elliotchance/pie/v2"

	"github.com/vanshika/heronet/internal/domain"
)

// TopK returns the k highest scoring entities in descending order. Entities
// with equal scores keep their construction order.
func (a *Analyzer) TopK(ctx context.Context, k int) ([]domain.EntityScore, error) {
	scores, err := a.Centrality(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.EntityScore{}, nil
	}
	ranked := pie.SortStableUsing(scores, func(a, b domain.EntityScore) bool {
		return a.Score > b.Score
	})
	return pie.Top(ranked, k), nil
}

// MostConnected returns the entity with the strictly highest centrality.
// Ties go to the entity created first; if every score is zero that is the
// first entity of the store.
func (a *Analyzer) MostConnected(ctx context.Context) (domain.EntityScore, error) {
	scores, err := a.Centrality(ctx)
	if err != nil {
		return domain.EntityScore{}, err
	}

	best := scores[0]
	for _, candidate := range scores[1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}
	return best, nil
}
