package domain

// Edge is one co-occurrence pair as read from the input, in input order.
type Edge struct {
	Source string
	Target string
}

// EntityScore pairs an entity name with its centrality score.
type EntityScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ShortestPath encapsulates the entities connecting a source and target entity.
type ShortestPath struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Nodes  []string `json:"nodes,omitempty"`
	Hops   int      `json:"hops"`
}
