package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ngxdduong/TrendRadar/internal/analytics"
	"github.com/ngxdduong/TrendRadar/internal/cache"
	"github.com/ngxdduong/TrendRadar/internal/config"
	"github.com/ngxdduong/TrendRadar/internal/corpus"
	"github.com/ngxdduong/TrendRadar/internal/dates"
	"github.com/ngxdduong/TrendRadar/internal/errors"
	"github.com/ngxdduong/TrendRadar/internal/index"
	"github.com/ngxdduong/TrendRadar/internal/logging"
	"github.com/ngxdduong/TrendRadar/internal/search"
	"github.com/ngxdduong/TrendRadar/internal/storage"
)

// app wires the engines a command needs. Each command builds one, runs its
// query, records the metric and tears it down.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	store     *cache.Store
	index     *index.Service
	resolver  *dates.Resolver
	search    *search.Engine
	analytics *analytics.Engine
	metrics   *storage.DB // nil when disabled
	dataDir   string
}

// mustGetApp loads configuration and assembles the engines. Any failure is
// fatal: without configuration there is nothing sensible to run.
func mustGetApp() *app {
	cfg, err := config.Load(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	dataDir := cfg.DataDir
	if dataDirFlag != "" {
		dataDir = dataDirFlag
	}
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(rootDir, dataDir)
	}

	store := cache.New()
	svc := index.NewService(dataDir, corpus.NewParser(logger), store, index.Options{
		TodayWindow:      time.Duration(cfg.Cache.TodayTTLSeconds) * time.Second,
		HistoricalWindow: time.Duration(cfg.Cache.HistoricalTTLSeconds) * time.Second,
		Logger:           logger,
	})
	resolver := dates.NewResolver()

	a := &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		index:     svc,
		resolver:  resolver,
		search:    search.NewEngine(svc, resolver, cfg.Weight, logger),
		analytics: analytics.NewEngine(svc, resolver, cfg.Weight, logger),
		dataDir:   dataDir,
	}

	if cfg.Metrics.Enabled {
		dbPath := cfg.Metrics.DBPath
		if !filepath.IsAbs(dbPath) {
			dbPath = filepath.Join(rootDir, dbPath)
		}
		db, err := storage.Open(dbPath, logger)
		if err != nil {
			logger.Warn("metrics store unavailable", map[string]interface{}{
				"path":  dbPath,
				"error": err.Error(),
			})
		} else {
			a.metrics = db
		}
	}

	return a
}

func (a *app) close() {
	if a.metrics != nil {
		a.metrics.Close()
	}
}

// record persists one operation metric. Failures are already logged by the
// store; a broken metrics database never fails the query itself.
func (a *app) record(operation string, results, returned int, started time.Time, err error) {
	if a.metrics == nil {
		return
	}
	code := ""
	if err != nil {
		code = string(errors.CodeOf(err))
	}
	a.metrics.RecordOperation(operation, results, returned, time.Since(started), code)
}

func newLogger(cfg *config.Config) *logging.Logger {
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.Level(level),
	})
}

func newContext() context.Context {
	return context.Background()
}

// resolveDate turns a natural-language or absolute date expression into a
// date, or the zero time for an empty expression.
func (a *app) resolveDate(expr string) (time.Time, error) {
	if expr == "" {
		return time.Time{}, nil
	}
	return a.resolver.Resolve(expr)
}

// resolveRange resolves the --start/--end pair. Both empty yields zero
// times, which each operation maps to its own default range.
func (a *app) resolveRange(startExpr, endExpr string) (time.Time, time.Time, error) {
	start, err := a.resolveDate(startExpr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := a.resolveDate(endExpr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.IsZero() && end.IsZero() {
		end = a.resolver.Today()
	}
	if start.IsZero() && !end.IsZero() {
		start = end
	}
	return start, end, nil
}

// printJSON writes the result to stdout. Log output goes to stderr, so the
// data stream stays machine-readable.
func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// fail prints the error and exits. TrendRadar errors carry a suggestion
// worth surfacing.
func fail(err error) {
	var te *errors.Error
	if errors.As(err, &te) && te.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "Error: %v\nHint: %s\n", err, te.Suggestion)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
