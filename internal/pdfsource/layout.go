package pdfsource

import (
	"math"
	"sort"
	"strings"

	"github.com/joseph-ayodele/upd-parser/internal/extract"
)

// glyph is one positioned text run with a top-left page origin; y is the baseline.
type glyph struct {
	x, y, w, size float64
	s             string
}

func (g glyph) cx() float64 { return g.x + g.w/2 }

// cy approximates the glyph's vertical centre, which sits above the baseline.
func (g glyph) cy() float64 { return g.y - g.size/3 }

// segment is a ruling line. For horizontal lines pos is y and [from,to] spans x;
// for vertical lines pos is x and [from,to] spans y.
type segment struct {
	pos, from, to float64
}

// layout is everything extracted from one page's content stream.
type layout struct {
	width, height float64
	glyphs        []glyph
	hlines        []segment
	vlines        []segment
}

// lines rebuilds reading-order text: glyphs are grouped into baselines within
// rowTol, baselines run top to bottom, glyphs left to right, and a space is
// inserted wherever the horizontal gap exceeds wordGap.
func lines(gs []glyph, rowTol, wordGap float64) []string {
	if len(gs) == 0 {
		return nil
	}
	sorted := make([]glyph, len(gs))
	copy(sorted, gs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].y < sorted[j].y })

	var bands [][]glyph
	var base float64
	for _, g := range sorted {
		if len(bands) == 0 || g.y-base > rowTol {
			bands = append(bands, []glyph{g})
			base = g.y
			continue
		}
		bands[len(bands)-1] = append(bands[len(bands)-1], g)
	}

	out := make([]string, 0, len(bands))
	for _, band := range bands {
		sort.SliceStable(band, func(i, j int) bool { return band[i].x < band[j].x })
		var b strings.Builder
		end := math.Inf(-1)
		for _, g := range band {
			if b.Len() > 0 && g.x-end > wordGap {
				b.WriteByte(' ')
			}
			b.WriteString(g.s)
			end = g.x + g.w
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func text(gs []glyph, rowTol, wordGap float64) string {
	return strings.Join(lines(gs, rowTol, wordGap), "\n")
}

// within returns the glyphs whose centre lies inside box.
func within(gs []glyph, box extract.Box) []glyph {
	var out []glyph
	for _, g := range gs {
		x, y := g.cx(), g.cy()
		if x >= box.Left && x < box.Right && y >= box.Top && y < box.Bottom {
			out = append(out, g)
		}
	}
	return out
}

// snap clusters sorted positions closer than tol and returns one
// representative (the cluster mean) per cluster.
func snap(pos []float64, tol float64) []float64 {
	if len(pos) == 0 {
		return nil
	}
	p := append([]float64(nil), pos...)
	sort.Float64s(p)
	var out []float64
	start, sum, n := p[0], 0.0, 0
	for _, v := range p {
		if v-start > tol {
			out = append(out, sum/float64(n))
			start, sum, n = v, 0, 0
		}
		sum += v
		n++
	}
	return append(out, sum/float64(n))
}

// tables reconstructs ruled grids. Horizontal rulings define row bands; within
// each band the columns are bounded by the vertical rulings that actually cross
// it, so merged header cells and narrower data rows keep their own widths.
// Consecutive bands with at least one cell form one table.
func (l *layout) tables(settings extract.TableSettings, rowTol, wordGap float64) []extract.Table {
	if settings.HorizontalStrategy != extract.StrategyLines || settings.VerticalStrategy != extract.StrategyLines {
		return nil
	}
	tol := settings.SnapTolerance

	ys := make([]float64, 0, len(l.hlines))
	for _, h := range l.hlines {
		ys = append(ys, h.pos)
	}
	rowEdges := snap(ys, tol)

	var out []extract.Table
	var cur extract.Table
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	for i := 0; i+1 < len(rowEdges); i++ {
		top, bottom := rowEdges[i], rowEdges[i+1]
		cols := l.crossing(top, bottom, tol)
		if len(cols) < 2 {
			flush()
			continue
		}
		row := make(extract.Row, 0, len(cols)-1)
		for j := 0; j+1 < len(cols); j++ {
			box := extract.Box{Left: cols[j], Top: top, Right: cols[j+1], Bottom: bottom}
			row = append(row, text(within(l.glyphs, box), rowTol, wordGap))
		}
		cur = append(cur, row)
	}
	flush()
	return out
}

// crossing returns the snapped x positions of vertical rulings spanning the
// band [top,bottom], left to right.
func (l *layout) crossing(top, bottom, tol float64) []float64 {
	var xs []float64
	for _, v := range l.vlines {
		if v.from <= top+tol && v.to >= bottom-tol {
			xs = append(xs, v.pos)
		}
	}
	return snap(xs, tol)
}
