// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Command importer loads student records from a JSON array or NDJSON file
// into the student store configured by the environment (STORE_PATH).
//
//	importer -file students.ndjson -degree 2491
//	importer -file students.json -dry-run
//	importer -file students.ndjson -resume
//
// With -file - the records are read from standard input.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tomtom215/coursepath/internal/config"
	"github.com/tomtom215/coursepath/internal/importer"
	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/studentstore"
)

func main() {
	var (
		file      string
		degreeID  string
		batchSize int
		dryRun    bool
		resume    bool
	)
	flag.StringVar(&file, "file", "", "JSON array or NDJSON file of student records (- for stdin)")
	flag.StringVar(&degreeID, "degree", "", "degree for records without degree_id (default: DEGREE_ID)")
	flag.IntVar(&batchSize, "batch-size", importer.DefaultBatchSize, "records per progress batch")
	flag.BoolVar(&dryRun, "dry-run", false, "validate records without writing them")
	flag.BoolVar(&resume, "resume", false, "skip records already processed by an interrupted import of the same file")
	flag.Parse()

	if file == "" {
		fmt.Fprintln(os.Stderr, "importer: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	stats, err := run(file, degreeID, batchSize, dryRun, resume)
	if err != nil {
		fmt.Fprintf(os.Stderr, "importer: %v\n", err)
		os.Exit(1)
	}
	if stats.Errors > 0 {
		os.Exit(1)
	}
}

func run(file, degreeID string, batchSize int, dryRun, resume bool) (*importer.ImportStats, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "coursepath-importer",
	})
	logger := logging.Logger()

	if degreeID == "" {
		degreeID = cfg.Recommend.DegreeID
	}

	var (
		input  io.Reader = os.Stdin
		source           = "stdin"
	)
	if file != "-" {
		f, err := os.Open(file) //nolint:gosec // path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		input = f
		source = filepath.Base(file)
	}

	storeOpts := cfg.StoreOptions()
	storeOpts.Logger = logging.WithComponent("studentstore")
	store, err := studentstore.Open(storeOpts)
	if err != nil {
		return nil, fmt.Errorf("open student store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing student store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	imp := importer.NewImporter(importer.Config{
		DegreeID:  degreeID,
		Source:    source,
		BatchSize: batchSize,
		DryRun:    dryRun,
		Resume:    resume,
	}, store, logger)
	imp.SetProgressTracker(importer.NewStoreProgress(store))

	return imp.Import(ctx, input)
}
