package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleDoc() *entity.Document {
	return &entity.Document{
		Status:         constants.StatusInvoiceAct,
		InvoiceNumber:  "42",
		InvoiceDate:    "3 марта 2025 г",
		InvoiceDateISO: "2025-03-03",
		Seller:         entity.Party{Name: `ООО "Ромашка"`, INN: "7701234567", KPP: "770101001"},
		Buyer:          entity.Party{Name: `ООО "Лютик"`, INN: "1655000000", KPP: "165501001"},
		Currency:       "Российский рубль",
		CurrencyCode:   "643",
		Items: []entity.LineItem{{
			RowNumber: 1, ProductCode: "A-1", Name: "Болт М8", UnitName: "шт",
			Quantity: d("2"), UnitPrice: d("10500.10"), Subtotal: d("21000.20"),
			VATRate: "20%", VATRatePercent: 20, VATAmount: d("4200.04"), Total: d("25200.24"),
		}},
		Totals:     entity.Totals{Subtotal: d("21000.20"), VAT: d("4200.04"), Total: d("25200.24")},
		VAT:        entity.VATInfo{Mode: constants.VATModeOnTop, Rates: []int{20}, Confidence: constants.ConfidenceHigh, Reason: "ok"},
		Transfer:   entity.TransferInfo{TransferBasis: "Договор № 5"},
		PageCount:  1,
		SourceFile: "42.pdf",
		Validation: entity.ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}},
	}
}

func TestMarshalDocumentKeepsDecimalsAndCyrillic(t *testing.T) {
	b, err := MarshalDocument(sampleDoc(), true)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"unit_price":10500.1`, `"total":25200.24`, `Болт М8`, `"vat_rates":[20]`} {
		if !strings.Contains(s, want) {
			t.Errorf("compact JSON missing %s", want)
		}
	}
	if strings.Count(s, "\n") != 1 {
		t.Errorf("compact output should be one line")
	}

	indented, err := MarshalDocument(sampleDoc(), false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(indented), "\n  \"buyer\": {") {
		t.Errorf("indented output not indented:\n%s", indented)
	}
}

func TestRenderedDocumentMatchesSchema(t *testing.T) {
	b, err := MarshalDocument(sampleDoc(), false)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckDocumentJSON(b); err != nil {
		t.Fatalf("schema: %v", err)
	}
}

func TestSchemaRejectsBrokenDocument(t *testing.T) {
	b, _ := MarshalDocument(sampleDoc(), true)
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	m["vat"].(map[string]any)["vat_mode"] = "sometimes"
	delete(m, "items")
	broken, _ := json.Marshal(m)
	if err := CheckDocumentJSON(broken); err == nil {
		t.Fatal("expected schema violation")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleDoc()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"УПД (Status 1) #42",
		"Date: 3 марта 2025 г (2025-03-03)",
		"INN 7701234567 / KPP 770101001",
		"VAT Mode:  VAT ON TOP",
		"VAT Rates: 20%",
		"10,500.10",
		"25,200.24",
		"Transfer basis: Договор № 5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestWriteSummaryNoVATOmitsVATColumn(t *testing.T) {
	doc := sampleDoc()
	doc.VAT = entity.VATInfo{Mode: constants.VATModeNone, Rates: []int{}, Confidence: constants.ConfidenceHigh}
	var buf bytes.Buffer
	_ = WriteSummary(&buf, doc)
	if strings.Contains(buf.String(), "VAT%") || strings.Contains(buf.String(), "  VAT:") {
		t.Fatalf("no-VAT summary shows VAT columns:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "VAT Rates: none") {
		t.Fatal("rates should read none")
	}
}

func TestWriteValidationReport(t *testing.T) {
	tests := []struct {
		name string
		v    entity.ValidationResult
		want []string
		not  []string
	}{
		{"passed", entity.ValidationResult{IsValid: true}, []string{"VALIDATION PASSED"}, []string{"FAILED"}},
		{"warnings only", entity.ValidationResult{IsValid: true, Warnings: []string{"w1"}}, []string{"WARNING: w1"}, []string{"PASSED"}},
		{"failed", entity.ValidationResult{Errors: []string{"e1", "e2"}, Warnings: []string{"w1"}},
			[]string{"VALIDATION FAILED (2 error(s))", "ERROR: e1", "ERROR: e2", "WARNING: w1"}, []string{"PASSED"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_ = WriteValidationReport(&buf, tt.v)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("missing %q in %q", w, buf.String())
				}
			}
			for _, n := range tt.not {
				if strings.Contains(buf.String(), n) {
					t.Errorf("unexpected %q in %q", n, buf.String())
				}
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := map[string]string{
		"0":           "0.00",
		"12.5":        "12.50",
		"1000":        "1,000.00",
		"1234567.891": "1,234,567.89",
		"-25200.24":   "-25,200.24",
	}
	for in, want := range tests {
		if got := amount(d(in)); got != want {
			t.Errorf("amount(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	if got := truncate("Болт М8 оцинкованный", 7); got != "Болт М8" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestDocumentXLSX(t *testing.T) {
	b, err := NewService(nil).DocumentXLSX(context.Background(), sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := f.GetSheetList(); strings.Join(got, ",") != "Summary,Items,Validation" {
		t.Fatalf("sheets = %v", got)
	}
	name, _ := f.GetCellValue("Items", "C2")
	if name != "Болт М8" {
		t.Errorf("Items!C2 = %q", name)
	}
	inv, _ := f.GetCellValue("Summary", "B4")
	if inv != "42" {
		t.Errorf("Summary!B4 = %q", inv)
	}
	rows, _ := f.GetRows("Validation")
	if len(rows) != 1 {
		t.Errorf("validation rows = %d, want header only", len(rows))
	}
}

func TestRegisterXLSX(t *testing.T) {
	rows := []RegisterRow{
		{File: "42.pdf", RunID: "r1", Doc: sampleDoc()},
		{File: "broken.pdf", RunID: "r2", Err: errors.New("UNREADABLE_SOURCE: broken.pdf")},
	}
	b, err := NewService(nil).RegisterXLSX(context.Background(), rows)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, _ := f.GetRows("Register")
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	if got[1][2] != "42" || got[1][13] != "TRUE" {
		t.Errorf("row 2 = %q", got[1])
	}
	if got[2][13] != "FALSE" || !strings.Contains(got[2][14], "UNREADABLE_SOURCE") {
		t.Errorf("row 3 = %q", got[2])
	}
}
