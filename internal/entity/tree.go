package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ToMap converts the document into a plain key/value tree for serialization.
// Decimal fields become json.Number holding the exact decimal text, so encoders
// emit them as numbers without a float64 round-trip.
func (d *Document) ToMap() map[string]any {
	items := make([]any, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, it.toMap())
	}
	rates := make([]any, 0, len(d.VAT.Rates))
	for _, r := range d.VAT.Rates {
		rates = append(rates, r)
	}
	return map[string]any{
		"status":                 int(d.Status),
		"invoice_number":         d.InvoiceNumber,
		"invoice_date":           d.InvoiceDate,
		"invoice_date_iso":       d.InvoiceDateISO,
		"correction_number":      d.CorrectionNumber,
		"seller":                 d.Seller.toMap(),
		"buyer":                  d.Buyer.toMap(),
		"consigner":              d.Consigner,
		"consignee":              d.Consignee,
		"payment_document":       d.PaymentDocument,
		"shipping_document":      d.ShippingDocument,
		"currency":               d.Currency,
		"currency_code":          d.CurrencyCode,
		"government_contract_id": d.GovernmentContractID,
		"items":                  items,
		"totals": map[string]any{
			"subtotal": number(d.Totals.Subtotal),
			"vat":      number(d.Totals.VAT),
			"total":    number(d.Totals.Total),
		},
		"vat": map[string]any{
			"vat_mode":             string(d.VAT.Mode),
			"vat_rates":            rates,
			"detection_confidence": string(d.VAT.Confidence),
			"detection_reason":     d.VAT.Reason,
		},
		"transfer":    d.Transfer.toMap(),
		"page_count":  d.PageCount,
		"source_file": d.SourceFile,
		"generator":   d.Generator,
		"validation":  d.ValidationSummary(),
	}
}

// ValidationSummary is the validation block as a key/value tree.
func (d *Document) ValidationSummary() map[string]any {
	return map[string]any{
		"is_valid": d.Validation.IsValid,
		"errors":   stringsOrEmpty(d.Validation.Errors),
		"warnings": stringsOrEmpty(d.Validation.Warnings),
	}
}

func (p Party) toMap() map[string]any {
	return map[string]any{
		"name":    p.Name,
		"inn":     p.INN,
		"kpp":     p.KPP,
		"address": p.Address,
	}
}

func (it LineItem) toMap() map[string]any {
	return map[string]any{
		"row_number":          it.RowNumber,
		"product_code":        it.ProductCode,
		"name":                it.Name,
		"product_type_code":   it.ProductTypeCode,
		"unit_code":           it.UnitCode,
		"unit_name":           it.UnitName,
		"quantity":            number(it.Quantity),
		"unit_price":          number(it.UnitPrice),
		"subtotal":            number(it.Subtotal),
		"excise":              it.Excise,
		"vat_rate":            it.VATRate,
		"vat_rate_percent":    it.VATRatePercent,
		"vat_amount":          number(it.VATAmount),
		"total":               number(it.Total),
		"country_code":        it.CountryCode,
		"country_name":        it.CountryName,
		"customs_declaration": it.CustomsDeclaration,
	}
}

func (t TransferInfo) toMap() map[string]any {
	return map[string]any{
		"transfer_basis":       t.TransferBasis,
		"transport_data":       t.TransportData,
		"shipped_by":           t.ShippedBy,
		"shipment_date":        t.ShipmentDate,
		"shipment_notes":       t.ShipmentNotes,
		"responsible_shipper":  t.ResponsibleShipper,
		"entity_shipper":       t.EntityShipper,
		"received_by":          t.ReceivedBy,
		"receipt_date":         t.ReceiptDate,
		"receipt_notes":        t.ReceiptNotes,
		"responsible_receiver": t.ResponsibleReceiver,
		"entity_receiver":      t.EntityReceiver,
	}
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func stringsOrEmpty(s []string) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		out = append(out, v)
	}
	return out
}
