// Package header extracts document metadata and the two parties from the
// first page of a УПД.
package header

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
	"github.com/joseph-ayodele/upd-parser/internal/extract"
	"github.com/joseph-ayodele/upd-parser/internal/rules"
	"github.com/joseph-ayodele/upd-parser/internal/textnorm"
)

// Config sizes the header band used for spatial splitting.
type Config struct {
	BandHeight float64 // points, default 140
	BandRatio  float64 // share of page height, default 0.25
}

func (c Config) withDefaults() Config {
	if c.BandHeight <= 0 {
		c.BandHeight = 140
	}
	if c.BandRatio <= 0 || c.BandRatio > 1 {
		c.BandRatio = 0.25
	}
	return c
}

// Result holds every header field. Fields whose anchors are missing keep
// their zero value.
type Result struct {
	Status               constants.DocumentStatus
	InvoiceNumber        string
	InvoiceDate          string
	InvoiceDateISO       string
	CorrectionNumber     string
	Seller               entity.Party
	Buyer                entity.Party
	Consigner            string
	Consignee            string
	PaymentDocument      string
	ShippingDocument     string
	Currency             string
	CurrencyCode         string
	GovernmentContractID string

	// Spatial reports whether address fields came from page crops.
	Spatial bool
}

// Apply copies the header fields onto doc.
func (r Result) Apply(doc *entity.Document) {
	doc.Status = r.Status
	doc.InvoiceNumber = r.InvoiceNumber
	doc.InvoiceDate = r.InvoiceDate
	doc.InvoiceDateISO = r.InvoiceDateISO
	doc.CorrectionNumber = r.CorrectionNumber
	doc.Seller = r.Seller
	doc.Buyer = r.Buyer
	doc.Consigner = r.Consigner
	doc.Consignee = r.Consignee
	doc.PaymentDocument = r.PaymentDocument
	doc.ShippingDocument = r.ShippingDocument
	doc.Currency = r.Currency
	doc.CurrencyCode = r.CurrencyCode
	doc.GovernmentContractID = r.GovernmentContractID
}

type Extractor struct {
	Logger   *slog.Logger
	Splitter *Splitter
}

func NewExtractor(logger *slog.Logger, cfg Config) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{Logger: logger, Splitter: NewSplitter(logger, cfg)}
}

// Extract scans the flat text of page for header fields. When c is non-nil
// the seller/buyer addresses and the consignee are read from cropped halves
// of the header band first; the flat-text anchors are the fallback.
func (e *Extractor) Extract(text string, c extract.Cropper, page int) Result {
	var r Result
	text = textnorm.Spaces(text)

	if v, ok := ruleStatus.First(text); ok {
		n, _ := strconv.Atoi(v)
		r.Status = constants.DocumentStatus(n)
	}
	if m := ruleInvoice.Match(text); m != nil {
		r.InvoiceNumber = strings.TrimSpace(m[0])
		r.InvoiceDate, r.InvoiceDateISO = textnorm.ParseRussianDate(m[1])
	}
	if v, ok := ruleCorrection.First(text); ok {
		if v = strings.TrimSpace(v); !placeholders[v] {
			r.CorrectionNumber = v
		}
	}

	if v, ok := ruleSeller.First(text); ok {
		r.Seller.Name = textnorm.Clean(v)
	}
	r.Seller.INN, r.Seller.KPP = taxPair(ruleSellerTax, text)
	if v, ok := ruleBuyer.First(text); ok {
		r.Buyer.Name = textnorm.Clean(v)
	}
	r.Buyer.INN, r.Buyer.KPP = taxPair(ruleBuyerTax, text)

	var halves Halves
	if c != nil {
		halves = e.Splitter.Split(c, page)
		r.Seller.Address, r.Buyer.Address = halves.Addresses()
		r.Consignee = halves.Consignee()
		r.Spatial = halves.Left != "" || halves.Right != ""
	}
	if r.Seller.Address == "" {
		if v, ok := ruleSellerAddr.First(text); ok {
			r.Seller.Address = textnorm.Clean(v)
		}
	}
	if r.Buyer.Address == "" {
		if v, ok := rules.FirstOf(text, ruleBuyerAddr, ruleBuyerAddr2); ok {
			r.Buyer.Address = textnorm.Clean(v)
		}
	}

	if v, ok := ruleConsigner.First(text); ok {
		r.Consigner = textnorm.Clean(v)
	}
	if r.Consignee == "" {
		if v, ok := ruleConsignee.First(text); ok {
			r.Consignee = textnorm.Clean(v)
		}
	}

	if v, ok := rulePayment.First(text); ok {
		v = rules.Strip(reEmptyPayment, textnorm.Clean(v))
		if !paymentPlaceholders[v] {
			r.PaymentDocument = v
		}
	}
	if v, ok := ruleShipping.First(text); ok {
		r.ShippingDocument = textnorm.Clean(v)
	}
	if v, ok := ruleCurrency.First(text); ok {
		r.Currency, r.CurrencyCode = splitCurrency(textnorm.Clean(v))
	}
	if v, ok := ruleGovContract.First(text); ok {
		if v = textnorm.Clean(v); !placeholders[v] {
			r.GovernmentContractID = v
		}
	}

	e.Logger.Debug("header.extract.done",
		"page", page,
		"invoice", r.InvoiceNumber,
		"spatial", r.Spatial,
		"seller_address", r.Seller.Address != "",
		"buyer_address", r.Buyer.Address != "",
	)
	return r
}

func taxPair(r *rules.Rule, text string) (inn, kpp string) {
	m := r.Match(text)
	if m == nil {
		return "", ""
	}
	return m[0], m[1]
}

// splitCurrency splits "Российский рубль, 643" on its last comma.
func splitCurrency(s string) (name, code string) {
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
}
