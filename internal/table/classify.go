// Package table turns raw goods-table rows into line items and the declared
// totals row. Rows are classified, normalised to the canonical 16 columns and
// then mapped positionally.
package table

import (
	"strings"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/extract"
	"github.com/joseph-ayodele/upd-parser/internal/textnorm"
)

// RowKind labels a raw table row.
type RowKind int

const (
	KindData RowKind = iota
	KindLabel
	KindHeader
	KindSignature
	KindTotals
)

func (k RowKind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindHeader:
		return "header"
	case KindSignature:
		return "signature"
	case KindTotals:
		return "totals"
	default:
		return "data"
	}
}

// labelMarkers must all be present for a row to be the column-index row.
var labelMarkers = []string{"А", "1а", "11"}

var headerKeywords = []string{
	"Код товара", "Наименование товара", "Единица измерения",
	"условное", "нацио", "краткое", "циф-",
}

var signatureKeywords = []string{
	"Руководитель организации", "Главный бухгалтер",
	"уполномоченное лицо", "подпись", "ф.и.о.",
}

const totalsMarker = "всего к оплате"

// Classify labels a row. Checks run in priority order: label, header,
// signature, totals; anything else is data.
func Classify(row extract.Row) RowKind {
	cells := cleanedCells(row)
	if isLabelRow(cells) {
		return KindLabel
	}
	text := strings.Join(cells, " ")
	switch {
	case containsAny(text, headerKeywords):
		return KindHeader
	case containsAny(text, signatureKeywords):
		return KindSignature
	case strings.Contains(textnorm.Fold(text), totalsMarker):
		return KindTotals
	}
	return KindData
}

// NormalizeRow maps a row of any width onto exactly CanonicalColumns cells.
// 17 wide: drop the merged-header artifact in front. Wider: drop leading empty
// cells, then truncate. Narrower: pad with "".
func NormalizeRow(row extract.Row) extract.Row {
	n := constants.CanonicalColumns
	switch {
	case len(row) == n+1:
		return row[1:]
	case len(row) == n:
		return row
	case len(row) > n+1:
		out := row
		for len(out) > n && textnorm.Clean(out[0]) == "" {
			out = out[1:]
		}
		return out[:n]
	default:
		out := make(extract.Row, n)
		copy(out, row)
		return out
	}
}

func cleanedCells(row extract.Row) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		if c == "" {
			continue
		}
		out = append(out, textnorm.Clean(c))
	}
	return out
}

func isLabelRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	for _, m := range labelMarkers {
		if _, ok := set[m]; !ok {
			return false
		}
	}
	return true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
