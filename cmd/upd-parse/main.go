package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/upd-parser/internal/common"
	"github.com/joseph-ayodele/upd-parser/internal/export"
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
		output  = flag.String("o", "", "output JSON file path (default: stdout)")
		compact = flag.Bool("compact", false, "compact JSON output (no indentation)")
		summary = flag.Bool("summary", false, "print a human-readable summary instead of JSON")
		xlsx    = flag.String("xlsx", "", "also write an XLSX workbook to this path")
	)
	flag.Usage = func() {
		printError("Usage: upd-parse [-o out.json] [-compact] [-summary] [-xlsx out.xlsx] file.pdf\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if _, err := os.Stat(path); err != nil {
		printError("Error: file not found: %s\n", path)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	parser := pipeline.NewParser(pipeline.ConfigFrom(cfg), logger)
	doc, err := parser.Parse(ctx, path)
	if err != nil {
		logger.Error("parse failed", "path", path, "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if *summary {
		if err := export.WriteSummary(os.Stdout, doc); err != nil {
			logger.Error("write summary", "error", err)
			os.Exit(1)
		}
	} else {
		data, err := export.MarshalDocument(doc, *compact)
		if err != nil {
			logger.Error("encode document", "error", err)
			os.Exit(1)
		}
		if err := export.CheckDocumentJSON(data); err != nil {
			logger.Warn("upd.json.schema_mismatch", "error", err)
		}
		if *output != "" {
			if err := os.WriteFile(*output, data, 0o644); err != nil {
				logger.Error("write output", "path", *output, "error", err)
				os.Exit(1)
			}
			fmt.Printf("Written to %s\n", *output)
		} else if _, err := os.Stdout.Write(data); err != nil {
			os.Exit(1)
		}
	}

	if *xlsx != "" {
		b, err := export.NewService(logger).DocumentXLSX(ctx, doc)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsx, b, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsx, "error", err)
			os.Exit(1)
		}
	}

	if err := export.WriteValidationReport(os.Stderr, doc.Validation); err != nil {
		logger.Warn("write validation report", "error", err)
	}
}
