package table

import (
	"github.com/joseph-ayodele/upd-parser/internal/entity"
	"github.com/joseph-ayodele/upd-parser/internal/extract"
)

// Accumulator collects line items across pages in page order. Fallback row
// numbers come from the running cross-page count, so numbering stays monotonic
// across pagination. The last totals row seen wins.
type Accumulator struct {
	items     []entity.LineItem
	totals    entity.Totals
	hasTotals bool
}

// PageStats reports what one AddTables call consumed.
type PageStats struct {
	Rows    int
	Items   int
	Skipped map[RowKind]int
	Totals  bool
}

// AddTables feeds every row of one page's tables, in order.
func (a *Accumulator) AddTables(tables []extract.Table) PageStats {
	st := PageStats{Skipped: map[RowKind]int{}}
	for _, t := range tables {
		for _, row := range t {
			st.Rows++
			switch kind := Classify(row); kind {
			case KindLabel, KindHeader, KindSignature:
				st.Skipped[kind]++
			case KindTotals:
				a.totals = BuildTotals(row)
				a.hasTotals = true
				st.Totals = true
			default:
				item, ok := BuildLineItem(row, len(a.items)+1)
				if !ok {
					st.Skipped[KindData]++
					continue
				}
				a.items = append(a.items, item)
				st.Items++
			}
		}
	}
	return st
}

// Items returns the accumulated items in table order.
func (a *Accumulator) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(a.items))
	copy(out, a.items)
	return out
}

// Totals returns the last declared totals row, if any was seen.
func (a *Accumulator) Totals() (entity.Totals, bool) {
	return a.totals, a.hasTotals
}
