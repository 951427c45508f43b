package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vanshika/heronet/internal/edgelist"
	"github.com/vanshika/heronet/internal/generator"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "datagen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg := generator.DefaultConfig()
	fs := flag.NewFlagSet("datagen", flag.ContinueOnError)
	var (
		entities  = fs.Int("entities", cfg.NumEntities, "number of distinct entities to generate")
		issues    = fs.Int("issues", cfg.NumIssues, "number of issues whose casts become edges")
		minCast   = fs.Int("min-cast", cfg.MinCast, "smallest cast per issue")
		maxCast   = fs.Int("max-cast", cfg.MaxCast, "largest cast per issue")
		recurring = fs.Float64("recurring-chance", cfg.RecurringChance, "probability a cast slot goes to a recurring entity")
		seed      = fs.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output    = fs.String("output", edgelist.DefaultFile, "path of the CSV edge list to write")
		toStdout  = fs.Bool("stdout", false, "write the edge list to stdout instead of a file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	genCfg := generator.Config{
		NumEntities:     *entities,
		NumIssues:       *issues,
		MinCast:         *minCast,
		MaxCast:         *maxCast,
		RecurringChance: clampProbability(*recurring),
		Seed:            *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	edges, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if *toStdout {
		if err := edgelist.Write(stdout, edges); err != nil {
			return fmt.Errorf("write edges to stdout: %w", err)
		}
		return nil
	}

	if err := generator.WriteDataset(edges, *output); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	fmt.Fprintf(stdout, "Generated %d edges into %s\n", len(edges), *output)
	return nil
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
