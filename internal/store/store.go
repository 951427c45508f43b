// Package store holds the immutable co-occurrence graph: entities keyed by
// name and the directed relationships between them.
package store

import "github.com/vanshika/heronet/internal/domain"

// Entity is a single named participant in the graph.
type Entity struct {
	// ID is the construction-order index of the entity, starting at 0.
	ID   int
	Name string
	// Appearances counts every edge occurrence naming the entity.
	Appearances int
	// Centrality is always 0 inside the store; analytics returns annotated copies.
	Centrality float64
}

// Relationship is a directed edge between two entity IDs.
type Relationship struct {
	From int
	To   int
}

// Store owns all entities and relationships. It is never mutated after New
// returns, so concurrent readers need no locking.
type Store struct {
	entities      []Entity
	relationships []Relationship
	successors    [][]int
	index         map[string]int
}

// New builds a Store from edges in order. Unseen names become entities, both
// endpoints get their appearance count incremented and a relationship from the
// first name to the second is appended. Parallel edges are kept.
func New(edges []domain.Edge) *Store {
	s := &Store{
		relationships: make([]Relationship, 0, len(edges)),
		index:         make(map[string]int),
	}

	for _, edge := range edges {
		from := s.register(edge.Source)
		to := s.register(edge.Target)

		s.entities[from].Appearances++
		s.entities[to].Appearances++

		s.relationships = append(s.relationships, Relationship{From: from, To: to})
		s.successors[from] = append(s.successors[from], to)
	}

	return s
}

func (s *Store) register(name string) int {
	if id, ok := s.index[name]; ok {
		return id
	}
	id := len(s.entities)
	s.entities = append(s.entities, Entity{ID: id, Name: name})
	s.successors = append(s.successors, nil)
	s.index[name] = id
	return id
}

// Len returns the number of entities.
func (s *Store) Len() int {
	return len(s.entities)
}

// RelationshipCount returns the number of relationships, parallel edges included.
func (s *Store) RelationshipCount() int {
	return len(s.relationships)
}

// Entities returns copies of all entities in construction order.
func (s *Store) Entities() []Entity {
	return append([]Entity(nil), s.entities...)
}

// Entity returns the entity with the given ID.
func (s *Store) Entity(id int) (Entity, bool) {
	if id < 0 || id >= len(s.entities) {
		return Entity{}, false
	}
	return s.entities[id], true
}

// Find resolves an entity by name.
func (s *Store) Find(name string) (Entity, bool) {
	id, ok := s.index[name]
	if !ok {
		return Entity{}, false
	}
	return s.entities[id], true
}

// Relationships returns a copy of all relationships in insertion order.
func (s *Store) Relationships() []Relationship {
	return append([]Relationship(nil), s.relationships...)
}

// Successors returns the targets of the outgoing relationships of id, one
// element per relationship. The slice is shared and must not be modified.
func (s *Store) Successors(id int) []int {
	if id < 0 || id >= len(s.successors) {
		return nil
	}
	return s.successors[id]
}
