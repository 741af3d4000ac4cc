package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
)

var modeLabels = map[constants.VATMode]string{
	constants.VATModeNone:     "NO VAT (БезНДС / НДСНеВыделять)",
	constants.VATModeOnTop:    "VAT ON TOP (НДС сверху / СуммаВключаетНДС=false)",
	constants.VATModeIncluded: "VAT INCLUDED (НДС в сумме / СуммаВключаетНДС=true)",
}

// WriteSummary prints a human-readable report of doc: header, parties, VAT
// mode, the item table and the totals.
func WriteSummary(w io.Writer, doc *entity.Document) error {
	var b strings.Builder
	p := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }
	rule := strings.Repeat("=", 60)

	p("%s", rule)
	p("  УПД (Status %d) #%s", doc.Status, doc.InvoiceNumber)
	p("  Date: %s (%s)", doc.InvoiceDate, doc.InvoiceDateISO)
	p("  Pages: %d", doc.PageCount)
	p("  Generator: %s", doc.Generator)
	p("%s", rule)
	p("")
	p("  Seller:  %s", doc.Seller.Name)
	p("           INN %s / KPP %s", doc.Seller.INN, doc.Seller.KPP)
	p("           %s", doc.Seller.Address)
	p("")
	p("  Buyer:   %s", doc.Buyer.Name)
	p("           INN %s / KPP %s", doc.Buyer.INN, doc.Buyer.KPP)
	p("           %s", doc.Buyer.Address)
	p("")
	p("  Currency: %s (%s)", doc.Currency, doc.CurrencyCode)
	p("")

	label, ok := modeLabels[doc.VAT.Mode]
	if !ok {
		label = string(doc.VAT.Mode)
	}
	rates := "none"
	if len(doc.VAT.Rates) > 0 {
		parts := make([]string, len(doc.VAT.Rates))
		for i, r := range doc.VAT.Rates {
			parts[i] = fmt.Sprintf("%d%%", r)
		}
		rates = strings.Join(parts, ", ")
	}
	p("  VAT Mode:  %s", label)
	p("  VAT Rates: %s", rates)
	p("  Confidence: %s: %s", doc.VAT.Confidence, doc.VAT.Reason)
	p("")

	hasVAT := doc.VAT.Mode != constants.VATModeNone
	if hasVAT {
		sep := fmt.Sprintf("  %s %s %s %s %s %s %s %s", dash(4), dash(14), dash(34), dash(5), dash(11), dash(5), dash(10), dash(11))
		p("  %-4s %-14s %-34s %5s %11s %5s %10s %11s", "#", "Code", "Description", "Qty", "Price", "VAT%", "VAT", "Total")
		p("%s", sep)
		for _, it := range doc.Items {
			rate := "--"
			if it.VATRatePercent != 0 {
				rate = fmt.Sprintf("%d%%", it.VATRatePercent)
			}
			p("  %-4d %-14s %-34s %5s %11s %5s %10s %11s",
				it.RowNumber, it.ProductCode, truncate(it.Name, 34),
				it.Quantity.StringFixed(0), amount(it.UnitPrice), rate, amount(it.VATAmount), amount(it.Total))
		}
		p("%s", sep)
	} else {
		sep := fmt.Sprintf("  %s %s %s %s %s %s", dash(4), dash(14), dash(40), dash(6), dash(12), dash(12))
		p("  %-4s %-14s %-40s %6s %12s %12s", "#", "Code", "Description", "Qty", "Price", "Total")
		p("%s", sep)
		for _, it := range doc.Items {
			p("  %-4d %-14s %-40s %6s %12s %12s",
				it.RowNumber, it.ProductCode, truncate(it.Name, 40),
				it.Quantity.StringFixed(0), amount(it.UnitPrice), amount(it.Total))
		}
		p("%s", sep)
	}

	p("  %-66s %12s", "Subtotal (excl. VAT):", amount(doc.Totals.Subtotal))
	if hasVAT {
		p("  %-66s %12s", "VAT:", amount(doc.Totals.VAT))
	}
	p("  %-66s %12s", "TOTAL:", amount(doc.Totals.Total))
	p("")

	if v := doc.Transfer.TransferBasis; v != "" {
		p("  Transfer basis: %s", v)
	}
	if v := doc.Transfer.EntityShipper; v != "" {
		p("  Shipper entity: %s", v)
	}
	if v := doc.Transfer.EntityReceiver; v != "" {
		p("  Receiver entity: %s", v)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteValidationReport prints the validation outcome in the CLI's stderr
// format: a failure header with each error, every warning, or a pass line.
func WriteValidationReport(w io.Writer, v entity.ValidationResult) error {
	var b strings.Builder
	if !v.IsValid {
		fmt.Fprintf(&b, "\n  VALIDATION FAILED (%d error(s))\n", len(v.Errors))
		for _, e := range v.Errors {
			fmt.Fprintf(&b, "    ERROR: %s\n", e)
		}
	}
	for _, wr := range v.Warnings {
		fmt.Fprintf(&b, "    WARNING: %s\n", wr)
	}
	if v.IsValid && len(v.Warnings) == 0 {
		b.WriteString("\n  VALIDATION PASSED\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func dash(n int) string { return strings.Repeat("-", n) }

// amount formats d with two decimals and comma thousands separators.
func amount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var out []byte
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, intPart[i])
	}
	return sign + string(out) + "." + frac
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
