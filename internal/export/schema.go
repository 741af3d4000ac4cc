package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func str() map[string]any  { return map[string]any{"type": "string"} }
func num() map[string]any  { return map[string]any{"type": "number"} }
func intg() map[string]any { return map[string]any{"type": "integer"} }

func object(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func strArray() map[string]any {
	return map[string]any{"type": "array", "items": str()}
}

// DocumentSchema describes the JSON form of a parsed document.
func DocumentSchema() map[string]any {
	party := object(map[string]any{"name": str(), "inn": str(), "kpp": str(), "address": str()})
	item := object(map[string]any{
		"row_number": map[string]any{"type": "integer", "minimum": 1},
		"product_code": str(), "name": str(), "product_type_code": str(),
		"unit_code": str(), "unit_name": str(),
		"quantity": num(), "unit_price": num(), "subtotal": num(),
		"excise": str(), "vat_rate": str(), "vat_rate_percent": intg(),
		"vat_amount": num(), "total": num(),
		"country_code": str(), "country_name": str(), "customs_declaration": str(),
	})
	transfer := object(map[string]any{
		"transfer_basis": str(), "transport_data": str(), "shipped_by": str(),
		"shipment_date": str(), "shipment_notes": str(), "responsible_shipper": str(),
		"entity_shipper": str(), "received_by": str(), "receipt_date": str(),
		"receipt_notes": str(), "responsible_receiver": str(), "entity_receiver": str(),
	})
	vat := object(map[string]any{
		"vat_mode":             map[string]any{"enum": []any{"none", "ontop", "included"}},
		"vat_rates":            map[string]any{"type": "array", "items": intg()},
		"detection_confidence": map[string]any{"enum": []any{"high", "medium", "low"}},
		"detection_reason":     str(),
	})
	return object(map[string]any{
		"status":                 intg(),
		"invoice_number":         str(),
		"invoice_date":           str(),
		"invoice_date_iso":       map[string]any{"type": "string", "pattern": `^(\d{4}-\d{2}-\d{2})?$`},
		"correction_number":      str(),
		"seller":                 party,
		"buyer":                  party,
		"consigner":              str(),
		"consignee":              str(),
		"payment_document":       str(),
		"shipping_document":      str(),
		"currency":               str(),
		"currency_code":          str(),
		"government_contract_id": str(),
		"items":                  map[string]any{"type": "array", "items": item},
		"totals":                 object(map[string]any{"subtotal": num(), "vat": num(), "total": num()}),
		"vat":                    vat,
		"transfer":               transfer,
		"page_count":             map[string]any{"type": "integer", "minimum": 1},
		"source_file":            str(),
		"generator":              str(),
		"validation": object(map[string]any{
			"is_valid": map[string]any{"type": "boolean"},
			"errors":   strArray(),
			"warnings": strArray(),
		}),
	})
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// CheckDocumentJSON validates rendered document JSON against DocumentSchema.
func CheckDocumentJSON(data []byte) error {
	return ValidateJSONAgainstSchema(DocumentSchema(), data)
}
