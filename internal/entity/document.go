package entity

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/upd-parser/constants"
)

// Party is the seller or buyer block of the header.
type Party struct {
	Name    string `json:"name"`
	INN     string `json:"inn"`
	KPP     string `json:"kpp"`
	Address string `json:"address"`
}

// LineItem is one row of the goods table.
type LineItem struct {
	RowNumber          int             `json:"row_number"`
	ProductCode        string          `json:"product_code"`
	Name               string          `json:"name"`
	ProductTypeCode    string          `json:"product_type_code"`
	UnitCode           string          `json:"unit_code"`
	UnitName           string          `json:"unit_name"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Excise             string          `json:"excise"`
	VATRate            string          `json:"vat_rate"`
	VATRatePercent     int             `json:"vat_rate_percent"`
	VATAmount          decimal.Decimal `json:"vat_amount"`
	Total              decimal.Decimal `json:"total"`
	CountryCode        string          `json:"country_code"`
	CountryName        string          `json:"country_name"`
	CustomsDeclaration string          `json:"customs_declaration"`
}

// Totals is the declared "Всего к оплате" row.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	VAT      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
}

// TransferInfo holds fields [8]–[19] of the transfer section.
type TransferInfo struct {
	TransferBasis       string `json:"transfer_basis"`       // [8]
	TransportData       string `json:"transport_data"`       // [9]
	ShippedBy           string `json:"shipped_by"`           // [10]
	ShipmentDate        string `json:"shipment_date"`        // [11]
	ShipmentNotes       string `json:"shipment_notes"`       // [12]
	ResponsibleShipper  string `json:"responsible_shipper"`  // [13]
	EntityShipper       string `json:"entity_shipper"`       // [14]
	ReceivedBy          string `json:"received_by"`          // [15]
	ReceiptDate         string `json:"receipt_date"`         // [16]
	ReceiptNotes        string `json:"receipt_notes"`        // [17]
	ResponsibleReceiver string `json:"responsible_receiver"` // [18]
	EntityReceiver      string `json:"entity_receiver"`      // [19]
}

// VATInfo is the detected VAT convention.
type VATInfo struct {
	Mode       constants.VATMode    `json:"vat_mode"`
	Rates      []int                `json:"vat_rates"`
	Confidence constants.Confidence `json:"detection_confidence"`
	Reason     string               `json:"detection_reason"`
}

// ValidationResult collects arithmetic inconsistencies. Warnings never affect IsValid.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Document is a fully parsed УПД. The zero value is the empty document every
// extractor starts from.
type Document struct {
	Status               constants.DocumentStatus `json:"status"`
	InvoiceNumber        string                   `json:"invoice_number"`
	InvoiceDate          string                   `json:"invoice_date"`
	InvoiceDateISO       string                   `json:"invoice_date_iso"`
	CorrectionNumber     string                   `json:"correction_number"`
	Seller               Party                    `json:"seller"`
	Buyer                Party                    `json:"buyer"`
	Consigner            string                   `json:"consigner"`
	Consignee            string                   `json:"consignee"`
	PaymentDocument      string                   `json:"payment_document"`
	ShippingDocument     string                   `json:"shipping_document"`
	Currency             string                   `json:"currency"`
	CurrencyCode         string                   `json:"currency_code"`
	GovernmentContractID string                   `json:"government_contract_id"`
	Items                []LineItem               `json:"items"`
	Totals               Totals                   `json:"totals"`
	VAT                  VATInfo                  `json:"vat"`
	Transfer             TransferInfo             `json:"transfer"`
	PageCount            int                      `json:"page_count"`
	SourceFile           string                   `json:"source_file"`
	Generator            string                   `json:"generator"`
	Validation           ValidationResult         `json:"validation"`
}
