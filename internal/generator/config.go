package generator

// Config drives the synthetic data generator.
type Config struct {
	NumEntities int
	NumIssues   int
	MinCast     int
	MaxCast     int
	// Probability that a cast slot is filled from the recurring cast instead
	// of a uniformly random entity.
	RecurringChance float64
	Seed            int64
}

// DefaultConfig returns settings that produce a graph of roughly the size of
// the public hero co-appearance network.
func DefaultConfig() Config {
	return Config{
		NumEntities:     6400,
		NumIssues:       12000,
		MinCast:         2,
		MaxCast:         6,
		RecurringChance: 0.35,
		Seed:            42,
	}
}
