// Package pdfsource implements the page layout collaborator on top of
// github.com/ledongthuc/pdf: flat page text, rectangle crops, ruled table
// grids and the document creator.
package pdfsource

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/upd-parser/internal/extract"
)

// Config tunes text reconstruction from glyph runs.
type Config struct {
	RowTolerance  float64 // points; glyphs whose baselines differ by less share a line
	WordGap       float64 // points; a wider horizontal gap becomes a space
	LineThickness float64 // points; thinner filled rectangles are ruling lines
}

func (c Config) withDefaults() Config {
	if c.RowTolerance <= 0 {
		c.RowTolerance = 2
	}
	if c.WordGap <= 0 {
		c.WordGap = 3
	}
	if c.LineThickness <= 0 {
		c.LineThickness = 2
	}
	return c
}

var ErrNoPages = errors.New("document has no pages")

// Source is a PageSource and Cropper over one open PDF file. Page layouts are
// decoded lazily and cached; a Source is not safe for concurrent use.
type Source struct {
	Logger *slog.Logger
	Cfg    Config

	file   io.Closer
	reader *pdf.Reader
	pages  map[int]*layout
}

var (
	_ extract.PageSource = (*Source)(nil)
	_ extract.Cropper    = (*Source)(nil)
)

// Open opens path. Files the reader cannot parse, or that have no pages,
// return an error.
func Open(path string, cfg Config, logger *slog.Logger) (src *Source, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open %s: malformed pdf: %v", path, r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if r.NumPage() == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", path, ErrNoPages)
	}
	return &Source{
		Logger: logger,
		Cfg:    cfg.withDefaults(),
		file:   f,
		reader: r,
		pages:  map[int]*layout{},
	}, nil
}

func (s *Source) PageCount() int { return s.reader.NumPage() }

func (s *Source) PageText(page int) (string, error) {
	l, err := s.layout(page)
	if err != nil {
		return "", err
	}
	return text(l.glyphs, s.Cfg.RowTolerance, s.Cfg.WordGap), nil
}

func (s *Source) PageTables(page int, settings extract.TableSettings) ([]extract.Table, error) {
	l, err := s.layout(page)
	if err != nil {
		return nil, err
	}
	return l.tables(settings, s.Cfg.RowTolerance, s.Cfg.WordGap), nil
}

func (s *Source) PageSize(page int) (float64, float64, error) {
	l, err := s.layout(page)
	if err != nil {
		return 0, 0, err
	}
	return l.width, l.height, nil
}

func (s *Source) PageCropText(page int, box extract.Box) (string, error) {
	l, err := s.layout(page)
	if err != nil {
		return "", err
	}
	return text(within(l.glyphs, box), s.Cfg.RowTolerance, s.Cfg.WordGap), nil
}

// Creator returns the /Info /Creator string, or "" when absent.
func (s *Source) Creator() (creator string) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Warn("pdfsource.creator.failed", "err", r)
			creator = ""
		}
	}()
	return strings.TrimSpace(s.reader.Trailer().Key("Info").Key("Creator").Text())
}

func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// layout decodes page (0-based) once. The reader panics on malformed content
// streams; that is reported as an error for the page.
func (s *Source) layout(page int) (l *layout, err error) {
	if cached, ok := s.pages[page]; ok {
		return cached, nil
	}
	if page < 0 || page >= s.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range [0,%d)", page, s.reader.NumPage())
	}
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Warn("pdfsource.page.malformed", "page", page, "err", r)
			l, err = nil, fmt.Errorf("page %d: malformed content: %v", page, r)
		}
	}()

	p := s.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing page object", page)
	}
	llx, lly, urx, ury := mediaBox(p)
	l = &layout{width: urx - llx, height: ury - lly}

	content := p.Content()
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		l.glyphs = append(l.glyphs, glyph{
			x:    t.X - llx,
			y:    ury - t.Y,
			w:    t.W,
			size: t.FontSize,
			s:    t.S,
		})
	}
	for _, r := range content.Rect {
		l.addRuling(r.Min.X-llx, ury-r.Max.Y, r.Max.X-llx, ury-r.Min.Y, s.Cfg.LineThickness)
	}

	s.pages[page] = l
	s.Logger.Debug("pdfsource.page.loaded",
		"page", page,
		"glyphs", len(l.glyphs),
		"hlines", len(l.hlines),
		"vlines", len(l.vlines),
	)
	return l, nil
}

// addRuling records a filled rectangle (top-left origin) as ruling lines: a
// thin one is a single line, a larger one contributes its four edges.
func (l *layout) addRuling(x0, y0, x1, y1, thick float64) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	w, h := x1-x0, y1-y0
	switch {
	case h <= thick && w > thick:
		l.hlines = append(l.hlines, segment{pos: (y0 + y1) / 2, from: x0, to: x1})
	case w <= thick && h > thick:
		l.vlines = append(l.vlines, segment{pos: (x0 + x1) / 2, from: y0, to: y1})
	case w > thick && h > thick:
		l.hlines = append(l.hlines, segment{pos: y0, from: x0, to: x1}, segment{pos: y1, from: x0, to: x1})
		l.vlines = append(l.vlines, segment{pos: x0, from: y0, to: y1}, segment{pos: x1, from: y0, to: y1})
	}
}

// mediaBox reads the page's MediaBox, walking up the page tree for an
// inherited one. A4 portrait is assumed when none is found.
func mediaBox(p pdf.Page) (llx, lly, urx, ury float64) {
	v := p.V
	for i := 0; i < 10 && !v.IsNull(); i++ {
		if box := v.Key("MediaBox"); box.Kind() == pdf.Array && box.Len() == 4 {
			llx, lly = number(box.Index(0)), number(box.Index(1))
			urx, ury = number(box.Index(2)), number(box.Index(3))
			if urx > llx && ury > lly {
				return llx, lly, urx, ury
			}
		}
		v = v.Key("Parent")
	}
	return 0, 0, 595.28, 841.89
}

func number(v pdf.Value) float64 {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64())
	case pdf.Real:
		return v.Float64()
	}
	return 0
}
