package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mcpt-lab/internal/config"
	"mcpt-lab/internal/domain"
	"mcpt-lab/internal/idhash"
	"mcpt-lab/internal/marketdata"
	"mcpt-lab/internal/mcpt"
	"mcpt-lab/internal/reporting"
	"mcpt-lab/internal/rng"
	"mcpt-lab/internal/storage"
	chstore "mcpt-lab/internal/storage/clickhouse"
	pgstore "mcpt-lab/internal/storage/postgres"
	"mcpt-lab/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	seedFlag := flag.Int("seed", 0, "Override the permutation seed (0 = use config)")
	outputJSON := flag.Bool("json", false, "Output the summary as JSON")
	persist := flag.Bool("persist", false, "Archive the finished run to the configured backend")
	quiet := flag.Bool("quiet", false, "Suppress per-replication progress lines")

	flag.Usage = usage
	flag.Parse()

	logger := log.New(os.Stderr, "[mcpt] ", log.LstdFlags)

	args := flag.Args()
	if len(args) != 3 {
		usage()
		os.Exit(1)
	}

	lookback, err := strconv.Atoi(args[0])
	if err != nil {
		logger.Fatalf("invalid lookback %q: %v", args[0], err)
	}
	nreps, err := strconv.Atoi(args[1])
	if err != nil {
		logger.Fatalf("invalid replication count %q: %v", args[1], err)
	}
	filename := args[2]

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	seed := cfg.Random.Seed
	if *seedFlag != 0 {
		seed = *seedFlag
	}

	series, err := marketdata.Load(filename)
	if err != nil {
		logger.Fatalf("read market data: %v", err)
	}

	var onReplication func(mcpt.Replication)
	if cfg.Report.Replications && !*quiet {
		onReplication = func(r mcpt.Replication) {
			fmt.Println(reporting.FormatReplication(r))
		}
	}

	driver, err := mcpt.NewDriver(mcpt.Options{
		Series:        series,
		Lookback:      lookback,
		Reps:          nreps,
		Source:        rng.New(seed),
		OnReplication: onReplication,
	})
	if err != nil {
		logger.Fatalf("invalid run parameters: %v", err)
	}

	summary := driver.Run()

	if *outputJSON {
		output, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Println()
		fmt.Print(reporting.RenderSummary(summary))
	}

	if *persist {
		if cfg.Archive.Backend == config.BackendNone {
			logger.Fatal("-persist requires an archive backend; set archive.backend in config or MCPT_ARCHIVE_BACKEND")
		}

		ctx := context.Background()
		store, cleanup, err := openRunStore(ctx, cfg)
		if err != nil {
			logger.Fatalf("open archive: %v", err)
		}
		defer cleanup()

		record := buildRunRecord(filepath.Base(filename), seed, summary)
		if err := store.Insert(ctx, record); err != nil {
			logger.Fatalf("archive run: %v", err)
		}
		logger.Printf("archived run %s", record.RunID)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: mcpt [flags] <lookback> <nreps> <filename>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  lookback   trailing window length for the trading rule")
	fmt.Fprintln(os.Stderr, "  nreps      number of MCP replications, including the unpermuted first")
	fmt.Fprintln(os.Stderr, "  filename   market history file (YYYYMMDD O H L C per line)")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

// buildRunRecord flattens a summary into an archivable record.
func buildRunRecord(dataset string, seed int, s *mcpt.Summary) *domain.RunRecord {
	return &domain.RunRecord{
		RunID:                  idhash.ComputeRunID(dataset, s.Lookback, s.Replications, seed),
		Dataset:                dataset,
		Lookback:               s.Lookback,
		Replications:           s.Replications,
		Seed:                   seed,
		Prices:                 s.Prices,
		PValue:                 s.PValue,
		TotalTrend:             s.TotalTrend,
		OriginalReturn:         s.OriginalReturn,
		OriginalTrendComponent: s.OriginalTrendComponent,
		OriginalLongCount:      s.OriginalLongCount,
		OriginalRiseThreshold:  s.OriginalRiseThreshold,
		OriginalDropThreshold:  s.OriginalDropThreshold,
		MeanTrainingBias:       s.MeanTrainingBias,
		UnbiasedReturn:         s.UnbiasedReturn,
		Skill:                  s.Skill,
		CreatedAt:              time.Now().UnixMilli(),
	}
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
