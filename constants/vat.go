package constants

// VATMode is how tax relates to the unit price on a document.
type VATMode string

const (
	VATModeNone     VATMode = "none"     // no tax on the document
	VATModeOnTop    VATMode = "ontop"    // tax added to a net price
	VATModeIncluded VATMode = "included" // tax embedded in a gross price
)

// Confidence grades the VAT mode detection.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// NoVATRates are the raw rate strings that mean "no tax" in the rate column.
var NoVATRates = map[string]struct{}{
	"--":      {},
	"-":       {},
	"":        {},
	"без НДС": {},
	"Без НДС": {},
}

// NumericPlaceholders parse to an exact zero.
var NumericPlaceholders = map[string]struct{}{
	"--": {},
	"-":  {},
	"":   {},
	"Х":  {}, // Cyrillic Ha
	"X":  {},
}

// IsNoVATRate reports whether s is one of NoVATRates.
func IsNoVATRate(s string) bool {
	_, ok := NoVATRates[s]
	return ok
}
