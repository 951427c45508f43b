package domain

// SeparationFailure classifies why a degrees-of-separation query produced no path.
type SeparationFailure string

const (
	SeparationUnknownEntity SeparationFailure = "unknown_entity"
	SeparationUnreachable   SeparationFailure = "unreachable"
	SeparationFailed        SeparationFailure = "failed"
)

// SeparationResult carries the outcome of the degrees-of-separation query.
// Either Path is set, or Kind, Error and Err describe the failure.
type SeparationResult struct {
	Source string            `json:"source"`
	Target string            `json:"target"`
	Path   *ShortestPath     `json:"path,omitempty"`
	Kind   SeparationFailure `json:"kind,omitempty"`
	Error  string            `json:"error,omitempty"`
	// Err is the original query error, for errors.Is checks by callers.
	Err error `json:"-"`
}

// Report aggregates the analytic answers handed to a presenter.
type Report struct {
	EntityCount       int              `json:"entityCount"`
	RelationshipCount int              `json:"relationshipCount"`
	TopEntities       []EntityScore    `json:"topEntities"`
	MostConnected     EntityScore      `json:"mostConnected"`
	Separation        SeparationResult `json:"separation"`
}
