package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/upd-parser/internal/common"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
)

// Service produces XLSX workbooks for parsed documents.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RegisterRow is one file of a batch run: either a parsed document or the
// error that prevented parsing it.
type RegisterRow struct {
	File  string
	RunID string
	Doc   *entity.Document
	Err   error
}

// sheetWriter writes rows into one sheet, tracking the next free row.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) write(values ...any) {
	if w.err != nil {
		return
	}
	w.row++
	for i, v := range values {
		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
		}
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			w.err = err
			return
		}
	}
}

func newSheet(f *excelize.File, name string, first bool) (*sheetWriter, error) {
	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return nil, err
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name}, nil
}

// DocumentXLSX returns a workbook (as bytes) with Summary, Items and
// Validation sheets for one document.
func (s *Service) DocumentXLSX(ctx context.Context, doc *entity.Document) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sum, err := newSheet(f, "Summary", true)
	if err != nil {
		return nil, common.ExportError("create summary sheet", err)
	}
	sum.write("Field", "Value")
	for _, kv := range [][2]any{
		{"Source file", doc.SourceFile},
		{"Status", int(doc.Status)},
		{"Invoice number", doc.InvoiceNumber},
		{"Invoice date", doc.InvoiceDate},
		{"Invoice date (ISO)", doc.InvoiceDateISO},
		{"Correction number", doc.CorrectionNumber},
		{"Seller", doc.Seller.Name},
		{"Seller INN/KPP", doc.Seller.INN + "/" + doc.Seller.KPP},
		{"Seller address", doc.Seller.Address},
		{"Buyer", doc.Buyer.Name},
		{"Buyer INN/KPP", doc.Buyer.INN + "/" + doc.Buyer.KPP},
		{"Buyer address", doc.Buyer.Address},
		{"Consigner", doc.Consigner},
		{"Consignee", doc.Consignee},
		{"Payment document", doc.PaymentDocument},
		{"Shipping document", doc.ShippingDocument},
		{"Currency", fmt.Sprintf("%s (%s)", doc.Currency, doc.CurrencyCode)},
		{"Government contract", doc.GovernmentContractID},
		{"Subtotal", doc.Totals.Subtotal},
		{"VAT", doc.Totals.VAT},
		{"Total", doc.Totals.Total},
		{"VAT mode", string(doc.VAT.Mode)},
		{"VAT rates", joinRates(doc.VAT.Rates)},
		{"Detection confidence", string(doc.VAT.Confidence)},
		{"Detection reason", doc.VAT.Reason},
		{"Transfer basis", doc.Transfer.TransferBasis},
		{"Shipper entity", doc.Transfer.EntityShipper},
		{"Receiver entity", doc.Transfer.EntityReceiver},
		{"Pages", doc.PageCount},
		{"Generator", doc.Generator},
	} {
		sum.write(kv[0], kv[1])
	}
	_ = f.SetColWidth(sum.sheet, "A", "A", 24)
	_ = f.SetColWidth(sum.sheet, "B", "B", 80)

	items, err := newSheet(f, "Items", false)
	if err != nil {
		return nil, common.ExportError("create items sheet", err)
	}
	items.write("#", "Code", "Name", "Type code", "Unit code", "Unit", "Quantity", "Price",
		"Subtotal", "Excise", "VAT rate", "VAT %", "VAT", "Total", "Country code", "Country", "Customs declaration")
	for _, it := range doc.Items {
		items.write(it.RowNumber, it.ProductCode, it.Name, it.ProductTypeCode, it.UnitCode, it.UnitName,
			it.Quantity, it.UnitPrice, it.Subtotal, it.Excise, it.VATRate, it.VATRatePercent,
			it.VATAmount, it.Total, it.CountryCode, it.CountryName, it.CustomsDeclaration)
	}
	_ = f.SetColWidth(items.sheet, "B", "B", 14) // code
	_ = f.SetColWidth(items.sheet, "C", "C", 48) // name
	_ = f.SetColWidth(items.sheet, "G", "N", 12) // amounts

	val, err := newSheet(f, "Validation", false)
	if err != nil {
		return nil, common.ExportError("create validation sheet", err)
	}
	val.write("Severity", "Message")
	for _, e := range doc.Validation.Errors {
		val.write("error", e)
	}
	for _, w := range doc.Validation.Warnings {
		val.write("warning", w)
	}
	_ = f.SetColWidth(val.sheet, "B", "B", 120)

	for _, w := range []*sheetWriter{sum, items, val} {
		if w.err != nil {
			return nil, common.ExportError("write "+w.sheet, w.err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.ExportError("xlsx write", err)
	}
	s.logger.Info("export.xlsx.ok",
		"source", doc.SourceFile,
		"items", len(doc.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// RegisterXLSX returns a one-sheet register with a line per batch file.
func (s *Service) RegisterXLSX(ctx context.Context, rows []RegisterRow) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	reg, err := newSheet(f, "Register", true)
	if err != nil {
		return nil, common.ExportError("create register sheet", err)
	}
	reg.write("File", "Run ID", "Invoice number", "Invoice date", "Seller", "Seller INN", "Buyer", "Buyer INN",
		"Subtotal", "VAT", "Total", "VAT mode", "Confidence", "Valid", "Errors", "Warnings")
	for _, r := range rows {
		if r.Doc == nil {
			msg := "unknown error"
			if r.Err != nil {
				msg = r.Err.Error()
			}
			reg.write(r.File, r.RunID, "", "", "", "", "", "", "", "", "", "", "", false, msg, "")
			continue
		}
		d := r.Doc
		reg.write(r.File, r.RunID, d.InvoiceNumber, d.InvoiceDateISO, d.Seller.Name, d.Seller.INN, d.Buyer.Name, d.Buyer.INN,
			d.Totals.Subtotal, d.Totals.VAT, d.Totals.Total, string(d.VAT.Mode), string(d.VAT.Confidence),
			d.Validation.IsValid, strings.Join(d.Validation.Errors, "; "), strings.Join(d.Validation.Warnings, "; "))
	}
	if reg.err != nil {
		return nil, common.ExportError("write register", reg.err)
	}
	_ = f.SetColWidth(reg.sheet, "A", "A", 32)
	_ = f.SetColWidth(reg.sheet, "E", "H", 28)
	_ = f.SetColWidth(reg.sheet, "O", "P", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.ExportError("xlsx write", err)
	}
	s.logger.Info("export.register.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func joinRates(rates []int) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = fmt.Sprintf("%d%%", r)
	}
	return strings.Join(parts, ", ")
}
