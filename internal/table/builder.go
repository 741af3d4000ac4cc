package table

import (
	"regexp"
	"strconv"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
	"github.com/joseph-ayodele/upd-parser/internal/extract"
	"github.com/joseph-ayodele/upd-parser/internal/textnorm"
)

var reNonDigit = regexp.MustCompile(`\D`)

// BuildLineItem maps a canonical row to a LineItem. Rows with neither a name
// nor a product code are structural blanks and report ok=false. fallbackRow is
// used when the row-number cell carries no digits.
func BuildLineItem(cols extract.Row, fallbackRow int) (entity.LineItem, bool) {
	cols = NormalizeRow(cols)
	cell := func(i int) string { return textnorm.Clean(cols[i]) }

	code := cell(constants.ColProductCode)
	name := cell(constants.ColName)
	if code == "" && name == "" {
		return entity.LineItem{}, false
	}

	rate := cell(constants.ColVATRate)
	return entity.LineItem{
		RowNumber:          parseRowNumber(cell(constants.ColRowNumber), fallbackRow),
		ProductCode:        code,
		Name:               name,
		ProductTypeCode:    cell(constants.ColTypeCode),
		UnitCode:           cell(constants.ColUnitCode),
		UnitName:           cell(constants.ColUnitName),
		Quantity:           textnorm.ParseDecimal(cols[constants.ColQuantity]),
		UnitPrice:          textnorm.ParseDecimal(cols[constants.ColUnitPrice]),
		Subtotal:           textnorm.ParseDecimal(cols[constants.ColSubtotal]),
		Excise:             cell(constants.ColExcise),
		VATRate:            rate,
		VATRatePercent:     textnorm.ParseVATRatePercent(rate),
		VATAmount:          textnorm.ParseDecimal(cols[constants.ColVATAmount]),
		Total:              textnorm.ParseDecimal(cols[constants.ColTotal]),
		CountryCode:        cell(constants.ColCountryCode),
		CountryName:        cell(constants.ColCountryName),
		CustomsDeclaration: cell(constants.ColCustomsDecl),
	}, true
}

// BuildTotals reads the declared subtotal, VAT and total from a totals row
// using the same canonical mapping as line items.
func BuildTotals(cols extract.Row) entity.Totals {
	cols = NormalizeRow(cols)
	return entity.Totals{
		Subtotal: textnorm.ParseDecimal(cols[constants.ColSubtotal]),
		VAT:      textnorm.ParseDecimal(cols[constants.ColVATAmount]),
		Total:    textnorm.ParseDecimal(cols[constants.ColTotal]),
	}
}

func parseRowNumber(s string, fallback int) int {
	digits := reNonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return fallback
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return fallback
	}
	return n
}
