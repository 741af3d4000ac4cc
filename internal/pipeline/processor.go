// Package pipeline assembles a УПД document from a page source: header on the
// first page, goods-table rows on every page, transfer section on the last,
// then VAT detection and cross-validation over the complete item list.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/upd-parser/internal/common"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
	"github.com/joseph-ayodele/upd-parser/internal/extract"
	"github.com/joseph-ayodele/upd-parser/internal/header"
	"github.com/joseph-ayodele/upd-parser/internal/pdfsource"
	"github.com/joseph-ayodele/upd-parser/internal/table"
	"github.com/joseph-ayodele/upd-parser/internal/transfer"
	"github.com/joseph-ayodele/upd-parser/internal/validate"
	"github.com/joseph-ayodele/upd-parser/internal/vat"
)

var errNoPages = errors.New("document has no pages")

// Config carries the tunables of every stage.
type Config struct {
	Header header.Config
	Layout pdfsource.Config
	Tables extract.TableSettings
}

// ConfigFrom maps application configuration onto the pipeline.
func ConfigFrom(c *common.Config) Config {
	tables := extract.DefaultTableSettings()
	tables.SnapTolerance = c.Layout.SnapTolerance
	return Config{
		Header: header.Config{BandHeight: c.Header.BandHeight, BandRatio: c.Header.BandRatio},
		Layout: pdfsource.Config{RowTolerance: c.Layout.RowTolerance},
		Tables: tables,
	}
}

// Opener opens a document for parsing.
type Opener func(path string) (extract.PageSource, error)

// Parser coordinates the per-page stages and the post-passes.
type Parser struct {
	Logger   *slog.Logger
	Cfg      Config
	Open     Opener
	Header   *header.Extractor
	Transfer *transfer.Extractor
}

func NewParser(cfg Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tables == (extract.TableSettings{}) {
		cfg.Tables = extract.DefaultTableSettings()
	}
	p := &Parser{
		Logger:   logger,
		Cfg:      cfg,
		Header:   header.NewExtractor(logger, cfg.Header),
		Transfer: transfer.NewExtractor(logger),
	}
	p.Open = func(path string) (extract.PageSource, error) {
		src, err := pdfsource.Open(path, cfg.Layout, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return p
}

// Parse opens path and parses it. Only an unreadable source is an error;
// every other problem is reported through the document's validation result.
func (p *Parser) Parse(ctx context.Context, path string) (*entity.Document, error) {
	src, err := p.Open(path)
	if err != nil {
		p.Logger.Error("upd.parse.open_failed", "path", path, "err", err)
		return nil, common.UnreadableSourceError(path, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			p.Logger.Warn("upd.parse.close_failed", "path", path, "err", cerr)
		}
	}()
	return p.ParseSource(ctx, src, path)
}

// ParseSource parses an already open source. Pages are processed strictly in
// order: fallback row numbers depend on the running cross-page item count.
func (p *Parser) ParseSource(ctx context.Context, src extract.PageSource, name string) (*entity.Document, error) {
	runID := common.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = common.WithRunID(ctx, runID)
	}
	log := common.LoggerFromContext(ctx, p.Logger).With("run_id", runID, "source", name)

	n := src.PageCount()
	if n <= 0 {
		log.Error("upd.parse.no_pages")
		return nil, common.UnreadableSourceError(name, errNoPages)
	}
	log.Info("upd.parse.start", "pages", n)

	doc := &entity.Document{
		PageCount:  n,
		SourceFile: filepath.Base(name),
		Generator:  src.Creator(),
	}
	cropper, _ := src.(extract.Cropper)

	var acc table.Accumulator
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := p.pageText(log, src, i)
		if i == 0 {
			p.headerStage(log, doc, text, cropper)
		}
		p.tableStage(log, &acc, src, i)
		if i == n-1 {
			p.transferStage(log, doc, text, i)
		}
	}

	doc.Items = acc.Items()
	if t, ok := acc.Totals(); ok {
		doc.Totals = t
	} else {
		log.Warn("upd.parse.no_totals")
	}
	doc.VAT = vat.Detect(doc.Items)
	doc.Validation = validate.Validate(doc)

	log.Info("upd.parse.done",
		"invoice", doc.InvoiceNumber,
		"items", len(doc.Items),
		"vat_mode", doc.VAT.Mode,
		"vat_confidence", doc.VAT.Confidence,
		"valid", doc.Validation.IsValid,
		"errors", len(doc.Validation.Errors),
		"warnings", len(doc.Validation.Warnings),
	)
	return doc, nil
}
