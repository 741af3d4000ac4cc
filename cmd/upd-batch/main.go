package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/joseph-ayodele/upd-parser/internal/common"
	"github.com/joseph-ayodele/upd-parser/internal/export"
	"github.com/joseph-ayodele/upd-parser/internal/ingest"
	"github.com/joseph-ayodele/upd-parser/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to parse PDFs from (required)")
		out     = flag.String("out", "", "register XLSX path (default: $UPD_OUTPUT_DIR/register.xlsx)")
		jsonDir = flag.String("json-dir", "", "also write one JSON file per document into this directory")
		hidden  = flag.Bool("hidden", false, "include hidden files and directories")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: -dir is required\n")
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(cfg.Output.Dir, "register.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, stats, err := ingest.NewFSScanner(logger).ScanDirectory(ctx, *dir, !*hidden)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if stats.Matched == 0 {
		fmt.Printf("No PDF files found in %s\n", *dir)
		return
	}
	if *jsonDir != "" {
		if err := os.MkdirAll(*jsonDir, 0o755); err != nil {
			logger.Error("create json dir", "path", *jsonDir, "error", err)
			os.Exit(1)
		}
	}

	parser := pipeline.NewParser(pipeline.ConfigFrom(cfg), logger)
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Parsing documents"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	rows := make([]export.RegisterRow, 0, len(files))
	var parsed, failed, invalid, skipped int
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		name, _ := filepath.Rel(*dir, f.Path)
		if f.Err != "" {
			rows = append(rows, export.RegisterRow{File: name, Err: errors.New(f.Err)})
			failed++
			_ = bar.Add(1)
			continue
		}
		if f.DuplicateOf != "" {
			logger.Info("upd.batch.duplicate", "file", f.Path, "duplicate_of", f.DuplicateOf)
			skipped++
			_ = bar.Add(1)
			continue
		}

		runID := uuid.NewString()
		fileCtx := common.WithLogger(common.WithRunID(ctx, runID), logger.With("file", name))
		doc, err := parser.Parse(fileCtx, f.Path)
		row := export.RegisterRow{File: name, RunID: runID, Doc: doc, Err: err}
		rows = append(rows, row)
		_ = bar.Add(1)
		if err != nil {
			logger.Error("upd.batch.parse_failed", "file", f.Path, "run_id", runID, "error", err)
			failed++
			continue
		}
		parsed++
		if !doc.Validation.IsValid {
			invalid++
		}

		if *jsonDir != "" {
			target := filepath.Join(*jsonDir, strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))+".json")
			data, err := export.MarshalDocument(doc, false)
			if err == nil {
				err = os.WriteFile(target, data, 0o644)
			}
			if err != nil {
				logger.Error("upd.batch.json_failed", "file", f.Path, "target", target, "error", err)
			}
		}
	}
	_ = bar.Finish()

	b, err := export.NewService(logger).RegisterXLSX(ctx, rows)
	if err != nil {
		logger.Error("failed to build register", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.Error("create output dir", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		logger.Error("failed to write register", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("upd.batch.done",
		"found", len(files),
		"parsed", parsed,
		"invalid", invalid,
		"failed", failed,
		"duplicates", skipped,
		"output_file", *out)

	fmt.Printf("\nBatch parsing complete!\n")
	fmt.Printf("- Files found: %d\n", len(files))
	fmt.Printf("- Parsed: %d (%d failed validation)\n", parsed, invalid)
	fmt.Printf("- Unreadable: %d\n", failed)
	fmt.Printf("- Duplicates skipped: %d\n", skipped)
	fmt.Printf("- Register: %s\n", *out)
}
