// Package validate cross-checks the arithmetic of an assembled document.
// Inconsistencies never abort a parse; they are reported as errors (hard) or
// warnings (soft) so callers can see why a document is invalid.
package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
)

// report collects findings in the order checks run.
type report struct {
	errors   []string
	warnings []string
}

func (r *report) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *report) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *report) result() entity.ValidationResult {
	errs, warns := r.errors, r.warnings
	if errs == nil {
		errs = []string{}
	}
	if warns == nil {
		warns = []string{}
	}
	return entity.ValidationResult{IsValid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// Validate checks items, declared totals and the detected VAT mode of doc.
// doc.VAT must already be set.
func Validate(doc *entity.Document) entity.ValidationResult {
	var r report
	checkItemPrices(&r, doc.Items)
	checkDeclaredTotals(&r, doc.Items, doc.Totals)

	switch doc.VAT.Mode {
	case constants.VATModeNone:
		checkNoVAT(&r, doc.Items, doc.Totals)
	case constants.VATModeOnTop:
		checkOnTop(&r, doc.Items)
	case constants.VATModeIncluded:
		checkIncluded(&r, doc.Items)
	}

	switch doc.VAT.Confidence {
	case constants.ConfidenceLow, constants.ConfidenceMedium:
		r.warnf("VAT mode detection confidence is %s: %s", doc.VAT.Confidence, doc.VAT.Reason)
	}
	return r.result()
}

func checkItemPrices(r *report, items []entity.LineItem) {
	for _, it := range items {
		if it.Quantity.IsZero() || it.UnitPrice.IsZero() {
			continue
		}
		expected := it.Quantity.Mul(it.UnitPrice)
		if diff := absDiff(expected, it.Subtotal); diff.GreaterThan(constants.ItemTolerance) {
			r.warnf("item %d (%s): price × quantity = %s != subtotal %s (diff=%s)",
				it.RowNumber, it.ProductCode, expected, it.Subtotal, diff)
		}
	}
}

// checkDeclaredTotals compares item sums against the declared totals row,
// which is treated as ground truth. Zero declared fields are not checked.
func checkDeclaredTotals(r *report, items []entity.LineItem, t entity.Totals) {
	if len(items) > 0 {
		var sub, vat, total decimal.Decimal
		for _, it := range items {
			sub = sub.Add(it.Subtotal)
			vat = vat.Add(it.VATAmount)
			total = total.Add(it.Total)
		}
		sums := []struct {
			label         string
			sum, declared decimal.Decimal
		}{
			{"subtotal", sub, t.Subtotal},
			{"VAT", vat, t.VAT},
			{"total", total, t.Total},
		}
		for _, s := range sums {
			if s.declared.IsZero() {
				continue
			}
			if diff := absDiff(s.sum, s.declared); diff.GreaterThan(constants.DocumentTolerance) {
				r.errorf("sum of item %s (%s) != declared %s (%s), diff=%s",
					s.label, s.sum, s.label, s.declared, diff)
			}
		}
	}

	if !t.Subtotal.IsZero() && !t.Total.IsZero() {
		expected := t.Subtotal.Add(t.VAT)
		if diff := absDiff(expected, t.Total); diff.GreaterThan(constants.DocumentTolerance) {
			r.warnf("declared subtotal (%s) + VAT (%s) = %s != declared total (%s)",
				t.Subtotal, t.VAT, expected, t.Total)
		}
	}
}

func checkNoVAT(r *report, items []entity.LineItem, t entity.Totals) {
	taxed := 0
	for _, it := range items {
		if !it.VATAmount.IsZero() {
			taxed++
		}
	}
	if taxed > 0 {
		r.errorf("VAT mode is none but %d item(s) carry a nonzero VAT amount", taxed)
	}
	if !t.Subtotal.IsZero() && !t.Total.IsZero() {
		if absDiff(t.Subtotal, t.Total).GreaterThan(constants.DocumentTolerance) {
			r.errorf("VAT mode is none but declared subtotal (%s) != declared total (%s)", t.Subtotal, t.Total)
		}
	}
}

func checkOnTop(r *report, items []entity.LineItem) {
	hundred := decimal.NewFromInt(100)
	for _, it := range items {
		if it.VATRatePercent <= 0 || !it.Subtotal.IsPositive() {
			continue
		}
		expected := it.Subtotal.Add(it.VATAmount)
		if absDiff(expected, it.Total).GreaterThan(constants.ItemTolerance) {
			r.warnf("item %d: ontop check failed, subtotal (%s) + VAT (%s) = %s != total (%s)",
				it.RowNumber, it.Subtotal, it.VATAmount, expected, it.Total)
		}
	}
	for _, it := range items {
		if it.VATRatePercent <= 0 || !it.Subtotal.IsPositive() {
			continue
		}
		expectedVAT := it.Subtotal.Mul(decimal.NewFromInt(int64(it.VATRatePercent))).Div(hundred)
		tol := constants.PerUnitTolerance.Mul(it.Quantity)
		if absDiff(expectedVAT, it.VATAmount).GreaterThan(tol) {
			r.warnf("item %d: VAT arithmetic, subtotal (%s) × %d%% = %s != declared VAT (%s)",
				it.RowNumber, it.Subtotal, it.VATRatePercent, expectedVAT, it.VATAmount)
		}
	}
}

func checkIncluded(r *report, items []entity.LineItem) {
	for _, it := range items {
		if it.VATRatePercent <= 0 || !it.Total.IsPositive() {
			continue
		}
		expected := it.Total.Sub(it.VATAmount)
		if absDiff(expected, it.Subtotal).GreaterThan(constants.ItemTolerance) {
			r.warnf("item %d: included check failed, total (%s) - VAT (%s) = %s != subtotal (%s)",
				it.RowNumber, it.Total, it.VATAmount, expected, it.Subtotal)
		}
	}
}

func absDiff(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}
