package constants

import "github.com/shopspring/decimal"

// Heuristic thresholds shared by VAT detection and validation.
//
// Per-item checks use either a flat ItemTolerance or PerUnitTolerance scaled by
// quantity; document-level sums use DocumentTolerance. Keep the scales separate.
var (
	ItemTolerance     = decimal.RequireFromString("0.02")
	PerUnitTolerance  = decimal.RequireFromString("0.02")
	DocumentTolerance = decimal.RequireFromString("0.05")
)

// CanonicalColumns is the width every goods-table row is normalised to.
const CanonicalColumns = 16

// Canonical column positions after normalisation.
const (
	ColProductCode = iota
	ColRowNumber
	ColName
	ColTypeCode
	ColUnitCode
	ColUnitName
	ColQuantity
	ColUnitPrice
	ColSubtotal
	ColExcise
	ColVATRate
	ColVATAmount
	ColTotal
	ColCountryCode
	ColCountryName
	ColCustomsDecl
)
