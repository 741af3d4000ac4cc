// Package vat infers how tax relates to price on a document from the numeric
// relationships between its line items.
package vat

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
	"github.com/joseph-ayodele/upd-parser/internal/textnorm"
)

// Detect classifies the full, ordered item list. It must see every item at
// once: the decision compares match counts against the checked-set size.
func Detect(items []entity.LineItem) entity.VATInfo {
	if len(items) == 0 {
		return entity.VATInfo{
			Mode:       constants.VATModeNone,
			Rates:      []int{},
			Confidence: constants.ConfidenceLow,
			Reason:     "no line items to analyse",
		}
	}

	info := entity.VATInfo{Rates: distinctRates(items)}

	if allWithoutVAT(items) {
		info.Mode = constants.VATModeNone
		info.Confidence = constants.ConfidenceHigh
		info.Reason = "every item has no VAT rate (--/без НДС) and a zero VAT amount"
		return info
	}

	var checked, onTop, included int
	for _, it := range items {
		if it.VATRatePercent <= 0 || !it.Quantity.IsPositive() {
			continue
		}
		checked++
		gross := it.UnitPrice.Mul(it.Quantity)
		tol := constants.PerUnitTolerance.Mul(it.Quantity)
		if within(gross, it.Subtotal, tol) {
			onTop++
		}
		if within(gross, it.Total, tol) {
			included++
		}
	}

	switch {
	case checked == 0:
		info.Mode = constants.VATModeNone
		info.Confidence = constants.ConfidenceLow
		info.Reason = "no items with both a VAT rate and a quantity to analyse"
	case onTop == checked && included < checked:
		info.Mode = constants.VATModeOnTop
		info.Confidence = constants.ConfidenceHigh
		info.Reason = fmt.Sprintf("price × quantity = subtotal for all %d items: net price, VAT added on top", checked)
	case included == checked && onTop < checked:
		info.Mode = constants.VATModeIncluded
		info.Confidence = constants.ConfidenceHigh
		info.Reason = fmt.Sprintf("price × quantity = total for all %d items: gross price, VAT included", checked)
	case onTop >= included:
		// ties go to ontop, the usual convention for УПД
		info.Mode = constants.VATModeOnTop
		info.Confidence = constants.ConfidenceMedium
		info.Reason = fmt.Sprintf("ontop matched %d/%d, included matched %d/%d; defaulting to ontop", onTop, checked, included, checked)
	default:
		info.Mode = constants.VATModeIncluded
		info.Confidence = constants.ConfidenceMedium
		info.Reason = fmt.Sprintf("included matched %d/%d, ontop matched %d/%d", included, checked, onTop, checked)
	}
	return info
}

func distinctRates(items []entity.LineItem) []int {
	seen := map[int]bool{}
	out := []int{}
	for _, it := range items {
		if r := it.VATRatePercent; r > 0 && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Ints(out)
	return out
}

func allWithoutVAT(items []entity.LineItem) bool {
	for _, it := range items {
		if it.VATRatePercent != 0 || !it.VATAmount.IsZero() || !textnorm.IsNoVATString(it.VATRate) {
			return false
		}
	}
	return true
}

func within(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
