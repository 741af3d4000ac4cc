// Package transfer reads the shipment and acceptance block, fields [8]-[19],
// from the last page of a УПД.
package transfer

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/upd-parser/internal/entity"
	"github.com/joseph-ayodele/upd-parser/internal/rules"
	"github.com/joseph-ayodele/upd-parser/internal/textnorm"
)

const basisPrefix = `Основание передачи\s*\(сдачи\)\s*/\s*получения\s*\(приемки\)\s+`

var (
	ruleBasis         = rules.MustCompile("transfer_basis", `(?s)`+basisPrefix+`(.+?)\s*\[8\]`)
	ruleBasisLine     = rules.MustCompile("transfer_basis_line", basisPrefix+`(.+?)(?:\n|$)`)
	ruleTransport     = rules.MustCompile("transport_data", `(?s)Данные о транспортировке и грузе\s*(.+?)\s*\[9\]`)
	ruleShipmentDate  = rules.MustCompile("shipment_date", `Дата отгрузки, передачи \(сдачи\)\s*(.+?)\s*\[11\]`)
	ruleShipmentNotes = rules.MustCompile("shipment_notes", `(?s)Иные сведения об отгрузке, передаче\s*(.+?)\s*\[12\]`)
	ruleEntityShipper = rules.MustCompile("entity_shipper", `(?s)комиссионера\s*/\s*агента\)\s*\n(.+?)\s*\[14\]`)
	ruleReceiptDate   = rules.MustCompile("receipt_date", `Дата получения \(приемки\)\s*(.+?)\s*\[16\]`)
	ruleReceiptNotes  = rules.MustCompile("receipt_notes", `(?s)Иные сведения о получении, приемке\s*(.+?)\s*\[17\]`)
	ruleEntityRecv    = rules.MustCompile("entity_receiver", `(?s)составителя документа\s*\n(.+?)\s*\[19\]`)
)

var (
	reParenthetical = regexp.MustCompile(`\([^()]*\)`)
	reNumericDate   = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{2,4}`)
)

// basisPlaceholder is the form's own hint line, printed when no basis is filled in.
const basisPlaceholder = "(договор; доверенность и др.)"

const shipperMarker = "[14]"

type Extractor struct {
	Logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{Logger: logger}
}

// Extract scans the last page's text. Missing markers leave fields empty.
// Signer names [10], [13], [15] and [18] sit in two interleaved signature
// columns that flat text cannot separate, so they are not read.
func (e *Extractor) Extract(text string) entity.TransferInfo {
	var info entity.TransferInfo
	text = textnorm.Spaces(text)

	if v, ok := rules.FirstOf(text, ruleBasis, ruleBasisLine); ok {
		if v = textnorm.Clean(v); v != basisPlaceholder {
			info.TransferBasis = v
		}
	}
	info.TransportData = freeText(ruleTransport, text)
	info.ShipmentDate = date(ruleShipmentDate, text)
	info.ShipmentNotes = freeText(ruleShipmentNotes, text)

	if v, ok := ruleEntityShipper.First(text); ok {
		info.EntityShipper = textnorm.Clean(v)
	}

	info.ReceiptDate = date(ruleReceiptDate, text)
	info.ReceiptNotes = freeText(ruleReceiptNotes, text)

	if v, ok := ruleEntityRecv.First(text); ok {
		v = textnorm.Clean(v)
		// the [14] block can bleed into this capture
		if i := strings.LastIndex(v, shipperMarker); i >= 0 {
			v = strings.TrimSpace(v[i+len(shipperMarker):])
		}
		info.EntityReceiver = v
	}

	e.Logger.Debug("transfer.extract.done",
		"basis", info.TransferBasis != "",
		"entity_shipper", info.EntityShipper != "",
		"entity_receiver", info.EntityReceiver != "",
	)
	return info
}

// freeText returns the captured value with the form's parenthesised hints
// removed; placeholder-only values become "".
func freeText(r *rules.Rule, text string) string {
	v, ok := r.First(text)
	if !ok {
		return ""
	}
	v = stripHints(textnorm.Clean(v))
	if v == "--" || v == "-" {
		return ""
	}
	return v
}

// date keeps the captured value only if it is a filled-in date rather than
// the blank «__» ______ 20__ template.
func date(r *rules.Rule, text string) string {
	v, ok := r.First(text)
	if !ok {
		return ""
	}
	raw, iso := textnorm.ParseRussianDate(textnorm.Clean(v))
	if iso == "" && !reNumericDate.MatchString(raw) {
		return ""
	}
	return raw
}

func stripHints(s string) string {
	for {
		out := reParenthetical.ReplaceAllString(s, "")
		if out == s {
			return textnorm.Clean(out)
		}
		s = out
	}
}
