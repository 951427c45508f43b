package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"

	"github.com/vanshika/heronet/internal/config"
	"github.com/vanshika/heronet/internal/edgelist"
	"github.com/vanshika/heronet/internal/graph"
	"github.com/vanshika/heronet/internal/logging"
	"github.com/vanshika/heronet/internal/repository"
	"github.com/vanshika/heronet/internal/service"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "Path to an optional YAML config file")
		edgesFile  = fs.String("edges", "", "Edge list to ingest (overrides EDGES_FILE)")
		workers    = fs.Int("workers", 4, "Number of concurrent workers for ingestion")
		batchSize  = fs.Int("batch-size", 500, "Edges written per transaction")
		reset      = fs.Bool("reset", false, "Delete previously ingested entities first")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *edgesFile != "" {
		cfg.Input.EdgesFile = *edgesFile
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logCloser.Close()
	logger = logger.With("component", "ingest")

	edges, err := edgelist.Load(cfg.Input.EdgesFile)
	if err != nil {
		logger.Error("failed to load edges", "error", err, "path", cfg.Input.EdgesFile)
		return err
	}
	if len(edges) == 0 {
		return fmt.Errorf("edge list %s is empty", cfg.Input.EdgesFile)
	}

	di := do.New()
	defer func() {
		if err := di.Shutdown(); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()
	do.ProvideValue(di, logger)
	do.Provide(di, func(i *do.Injector) (*graphClient, error) {
		return buildGraphClient(ctx, logger, cfg)
	})

	client, err := do.Invoke[*graphClient](di)
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}

	repo := repository.New(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("schema setup: %w", err)
	}
	if *reset {
		logger.Info("removing previously ingested graph")
		if err := repo.Reset(ctx); err != nil {
			return err
		}
	}

	ingestor := service.NewBulkIngestor(repo, *workers)

	start := time.Now()
	logger.Info("ingesting edges", "count", len(edges), "workers", *workers, "batch_size", *batchSize)
	if err := ingestor.IngestEdges(ctx, edges, *batchSize); err != nil {
		return fmt.Errorf("edge ingestion: %w", err)
	}

	stored, err := repo.CountEdges(ctx)
	if err != nil {
		logger.Warn("could not count stored edges", "error", err)
	}
	logger.Info("ingestion complete", "duration", time.Since(start).String(), "edges", len(edges), "stored", stored)
	return nil
}

// graphClient lets the injector close the driver on shutdown.
type graphClient struct {
	graph.Client
}

func (c *graphClient) Shutdown() error {
	return c.Close(context.Background())
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (*graphClient, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return &graphClient{Client: client}, nil
}
