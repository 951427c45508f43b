package analytics

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/vanshika/heronet/internal/domain"
)

// DegreesOfSeparation returns the number of relationships on the shortest
// directed path from source to target. An entity is 0 hops from itself.
func (a *Analyzer) DegreesOfSeparation(source, target string) (int, error) {
	path, err := a.ShortestPath(source, target)
	if err != nil {
		return 0, err
	}
	return path.Hops, nil
}

// ShortestPath returns one shortest directed path from source to target,
// found by breadth-first search over outgoing relationships.
func (a *Analyzer) ShortestPath(source, target string) (domain.ShortestPath, error) {
	from, err := a.resolve(source)
	if err != nil {
		return domain.ShortestPath{}, err
	}
	to, err := a.resolve(target)
	if err != nil {
		return domain.ShortestPath{}, err
	}

	path := domain.ShortestPath{Source: source, Target: target}
	if from.ID == to.ID {
		path.Nodes = []string{from.Name}
		return path, nil
	}

	parent := make([]int, a.store.Len())
	for i := range parent {
		parent[i] = -1
	}
	parent[from.ID] = from.ID

	queue := []int{from.ID}
	found := false
	for head := 0; head < len(queue) && !found; head++ {
		v := queue[head]
		for _, w := range a.store.Successors(v) {
			if parent[w] >= 0 {
				continue
			}
			parent[w] = v
			if w == to.ID {
				found = true
				break
			}
			queue = append(queue, w)
		}
	}
	if !found {
		return domain.ShortestPath{}, oops.
			In("analytics").
			With("source", source, "target", target).
			Wrap(fmt.Errorf("%w from %q to %q", ErrUnreachable, source, target))
	}

	var ids []int
	for v := to.ID; v != from.ID; v = parent[v] {
		ids = append(ids, v)
	}
	ids = append(ids, from.ID)

	path.Nodes = make([]string, len(ids))
	for i, id := range ids {
		entity, _ := a.store.Entity(id)
		path.Nodes[len(ids)-1-i] = entity.Name
	}
	path.Hops = len(ids) - 1
	return path, nil
}
