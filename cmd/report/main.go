package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"mcpt-lab/internal/config"
	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/reporting"
	"mcpt-lab/internal/storage"
	chstore "mcpt-lab/internal/storage/clickhouse"
	pgstore "mcpt-lab/internal/storage/postgres"
	"mcpt-lab/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	dataset := flag.String("dataset", "", "Restrict the report to one dataset")
	format := flag.String("format", "markdown", "Output format: markdown, csv, json")
	output := flag.String("output", "", "Output file (default stdout)")
	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if cfg.Archive.Backend == config.BackendNone {
		logger.Fatal("reporting requires an archive backend; set archive.backend in config or MCPT_ARCHIVE_BACKEND")
	}

	ctx := context.Background()

	store, cleanup, err := openRunStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open archive: %v", err)
	}
	defer cleanup()

	var runs []*domain.RunRecord
	if *dataset != "" {
		runs, err = store.GetByDataset(ctx, *dataset)
	} else {
		runs, err = store.GetAll(ctx)
	}
	if err != nil {
		logger.Fatalf("load runs: %v", err)
	}

	var rendered string
	switch *format {
	case "markdown":
		rendered = reporting.RenderRunsMarkdown(runs, time.Now())
	case "csv":
		rendered = reporting.RenderRunsCSV(runs)
	case "json":
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			logger.Fatalf("marshal runs: %v", err)
		}
		rendered = string(data) + "\n"
	default:
		logger.Fatalf("unsupported format: %s (want markdown, csv or json)", *format)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
			logger.Fatalf("write report: %v", err)
		}
		logger.Printf("wrote %d runs to %s", len(runs), *output)
		return
	}
	fmt.Print(rendered)
}

// openRunStore connects the configured archive backend. The returned cleanup
// function closes the underlying connection.
func openRunStore(ctx context.Context, cfg *config.Config) (storage.RunStore, func(), error) {
	switch cfg.Archive.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Archive.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlite.NewRunStore(db), func() { db.Close() }, nil

	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Archive.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pgstore.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return pgstore.NewRunStore(pool), func() { pool.Close() }, nil

	case config.BackendClickhouse:
		conn, err := chstore.Migrate(ctx, cfg.Archive.ClickhouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		return chstore.NewRunStore(conn), func() { conn.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported archive backend: %s", cfg.Archive.Backend)
	}
}
