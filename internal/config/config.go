package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration values.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Query      QueryConfig      `yaml:"query"`
	Centrality CentralityConfig `yaml:"centrality"`
	Output     OutputConfig     `yaml:"output"`
	Graph      GraphConfig      `yaml:"graph"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InputConfig selects where edges are read from.
type InputConfig struct {
	// Path of the comma separated edge list
	EdgesFile string `yaml:"edges_file" validate:"required_if=Source csv"`
	// csv reads EdgesFile, neo4j reads edges stored by the ingest command
	Source string `yaml:"source" validate:"oneof=csv neo4j"`
}

// QueryConfig holds the parameters of the analytic queries.
type QueryConfig struct {
	// Entity the degrees of separation are measured from
	Source string `yaml:"source" validate:"required"`
	// Entity the degrees of separation are measured to
	Target string `yaml:"target" validate:"required"`
	// Number of entities listed in the centrality ranking
	TopK int `yaml:"top_k" validate:"min=1"`
}

// CentralityConfig tunes the betweenness computation.
type CentralityConfig struct {
	Normalized        bool  `yaml:"normalized"`
	Endpoints         bool  `yaml:"endpoints"`
	SampleSize        int   `yaml:"sample_size" validate:"gte=0"`
	Seed              int64 `yaml:"seed"`
	Workers           int   `yaml:"workers" validate:"min=1"`
	ParallelThreshold int   `yaml:"parallel_threshold" validate:"min=1"`
}

// OutputConfig controls how results are presented.
type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=text json"`
}

// GraphConfig describes connectivity to the graph database (Neo4j).
type GraphConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	MaxConnections int    `yaml:"max_connections" validate:"gte=0"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format        string `yaml:"format" validate:"oneof=text json"` // text|json
	Colored       bool   `yaml:"colored"`
	IncludeCaller bool   `yaml:"include_caller"`
	// Optional file receiving a JSON copy of every log record
	File string `yaml:"file"`
}

const (
	defaultEdgesFile         = "edges.csv"
	defaultSource            = "csv"
	defaultQuerySource       = "SPIDER-MAN/PETER PARKER"
	defaultQueryTarget       = "STACY, JILL"
	defaultTopK              = 5
	defaultSeed              = 42
	defaultParallelThreshold = 100
	defaultOutputFormat      = "text"
	defaultLoggingLevel      = "info"
	defaultLoggingFormat     = "text"
	defaultGraphMaxSessions  = 10
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Input: InputConfig{
			EdgesFile: defaultEdgesFile,
			Source:    defaultSource,
		},
		Query: QueryConfig{
			Source: defaultQuerySource,
			Target: defaultQueryTarget,
			TopK:   defaultTopK,
		},
		Centrality: CentralityConfig{
			Normalized:        true,
			Seed:              defaultSeed,
			Workers:           runtime.NumCPU(),
			ParallelThreshold: defaultParallelThreshold,
		},
		Output: OutputConfig{
			Format: defaultOutputFormat,
		},
		Graph: GraphConfig{
			MaxConnections: defaultGraphMaxSessions,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and the process environment, in that
// order of increasing precedence.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, oops.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, oops.Errorf("failed to parse YAML config: %w", err)
		}
	}

	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return oops.Errorf("failed to validate config: %w", err)
	}
	if c.Input.Source == "neo4j" && c.Graph.URI == "" {
		return oops.Errorf("failed to validate config: GRAPH_URI is required when EDGE_SOURCE is neo4j")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	overrideString(&cfg.Input.EdgesFile, "EDGES_FILE")
	overrideString(&cfg.Input.Source, "EDGE_SOURCE")

	overrideString(&cfg.Query.Source, "QUERY_SOURCE")
	overrideString(&cfg.Query.Target, "QUERY_TARGET")

	overrideString(&cfg.Output.Format, "OUTPUT_FORMAT")

	overrideString(&cfg.Graph.URI, "GRAPH_URI")
	overrideString(&cfg.Graph.Database, "GRAPH_DATABASE")
	overrideString(&cfg.Graph.Username, "GRAPH_USERNAME")
	overrideString(&cfg.Graph.Password, "GRAPH_PASSWORD")

	overrideString(&cfg.Logging.Level, "LOG_LEVEL")
	overrideString(&cfg.Logging.Format, "LOG_FORMAT")
	overrideString(&cfg.Logging.File, "LOG_FILE")

	bools := []struct {
		key    string
		target *bool
	}{
		{"CENTRALITY_NORMALIZED", &cfg.Centrality.Normalized},
		{"CENTRALITY_ENDPOINTS", &cfg.Centrality.Endpoints},
		{"LOG_COLOR", &cfg.Logging.Colored},
		{"LOG_INCLUDE_CALLER", &cfg.Logging.IncludeCaller},
	}
	for _, b := range bools {
		if err := overrideBool(b.target, b.key); err != nil {
			return err
		}
	}

	ints := []struct {
		key    string
		target *int
	}{
		{"TOP_K", &cfg.Query.TopK},
		{"CENTRALITY_SAMPLE_SIZE", &cfg.Centrality.SampleSize},
		{"CENTRALITY_WORKERS", &cfg.Centrality.Workers},
		{"CENTRALITY_PARALLEL_THRESHOLD", &cfg.Centrality.ParallelThreshold},
		{"GRAPH_MAX_CONNECTIONS", &cfg.Graph.MaxConnections},
	}
	for _, i := range ints {
		if err := overrideInt(i.target, i.key); err != nil {
			return err
		}
	}

	if v := os.Getenv("CENTRALITY_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CENTRALITY_SEED value %q: %w", v, err)
		}
		cfg.Centrality.Seed = seed
	}

	return nil
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideBool(target *bool, key string) error {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		*target = val
	}
	return nil
}

func overrideInt(target *int, key string) error {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		*target = val
	}
	return nil
}
