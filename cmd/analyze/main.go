package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"

	"github.com/vanshika/heronet/internal/analytics"
	"github.com/vanshika/heronet/internal/config"
	"github.com/vanshika/heronet/internal/edgelist"
	"github.com/vanshika/heronet/internal/graph"
	"github.com/vanshika/heronet/internal/logging"
	"github.com/vanshika/heronet/internal/report"
	"github.com/vanshika/heronet/internal/repository"
	"github.com/vanshika/heronet/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to an optional YAML config file")
		edgesFile  = fs.String("edges", "", "Edge list to analyse (overrides EDGES_FILE)")
		from       = fs.String("from", "", "Entity the degrees of separation are measured from")
		to         = fs.String("to", "", "Entity the degrees of separation are measured to")
		topK       = fs.Int("top", 0, "Number of entities in the centrality ranking")
		sample     = fs.Int("sample", -1, "Cap on source entities expanded for centrality (0 = exact)")
		format     = fs.String("format", "", "Output format: text or json")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(&cfg, *edgesFile, *from, *to, *topK, *sample, *format)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logCloser.Close()
	logger = logger.With("component", "analyze")

	di := do.New()
	defer func() {
		if err := di.Shutdown(); err != nil {
			logger.Warn("shutdown failed", "error", err)
		}
	}()
	do.ProvideValue(di, cfg)
	do.ProvideValue(di, logger)
	do.Provide(di, newEdgeSource(ctx))
	do.Provide(di, newAnalysisService)

	svc, err := do.Invoke[*service.AnalysisService](di)
	if err != nil {
		logger.Error("failed to initialise analysis", "error", err)
		return err
	}

	rep, err := svc.Analyze(ctx, service.Query{
		TopK:   cfg.Query.TopK,
		Source: cfg.Query.Source,
		Target: cfg.Query.Target,
	})
	if err != nil {
		logger.Error("analysis failed", "error", err)
		return err
	}

	if err := report.Write(stdout, cfg.Output.Format, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func applyFlags(cfg *config.Config, edgesFile, from, to string, topK, sample int, format string) {
	if edgesFile != "" {
		cfg.Input.EdgesFile = edgesFile
		cfg.Input.Source = "csv"
	}
	if from != "" {
		cfg.Query.Source = from
	}
	if to != "" {
		cfg.Query.Target = to
	}
	if topK > 0 {
		cfg.Query.TopK = topK
	}
	if sample >= 0 {
		cfg.Centrality.SampleSize = sample
	}
	if format != "" {
		cfg.Output.Format = format
	}
}

// graphSource closes the Neo4j driver when the injector shuts down.
type graphSource struct {
	*repository.Repository
	client graph.Client
}

func (s graphSource) Shutdown() error {
	return s.client.Close(context.Background())
}

func newEdgeSource(ctx context.Context) do.Provider[service.EdgeSource] {
	return func(i *do.Injector) (service.EdgeSource, error) {
		cfg := do.MustInvoke[config.Config](i)
		logger := do.MustInvoke[*slog.Logger](i)

		if cfg.Input.Source != "neo4j" {
			logger.Info("reading edge list", "path", cfg.Input.EdgesFile)
			return edgelist.FileSource{Path: cfg.Input.EdgesFile}, nil
		}

		client, err := graph.NewNeo4jClient(ctx, graph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("reading edges from graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
		return graphSource{Repository: repository.New(client), client: client}, nil
	}
}

func newAnalysisService(i *do.Injector) (*service.AnalysisService, error) {
	cfg := do.MustInvoke[config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	source := do.MustInvoke[service.EdgeSource](i)

	opts := analytics.Options{
		Normalized:        cfg.Centrality.Normalized,
		Endpoints:         cfg.Centrality.Endpoints,
		SampleSize:        cfg.Centrality.SampleSize,
		Seed:              cfg.Centrality.Seed,
		Workers:           cfg.Centrality.Workers,
		ParallelThreshold: cfg.Centrality.ParallelThreshold,
	}
	return service.NewAnalysisService(source, opts, logger), nil
}
