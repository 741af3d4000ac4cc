// Package textnorm holds the locale-aware normalisers shared by every extractor:
// whitespace collapsing, Russian decimal parsing, VAT rate parsing and dates.
package textnorm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/upd-parser/constants"
)

var (
	reNonNumeric   = regexp.MustCompile(`[^0-9.\-]`)
	rePercentRate  = regexp.MustCompile(`(\d+)\s*%`)
	reFractionRate = regexp.MustCompile(`(\d+)\s*/\s*\d+`)
	reRussianDate  = regexp.MustCompile(`«?(\d{1,2})»?\s+(\p{L}+)\s+(\d{4})`)
)

var russianMonths = map[string]int{
	"января": 1, "февраля": 2, "марта": 3, "апреля": 4,
	"мая": 5, "июня": 6, "июля": 7, "августа": 8,
	"сентября": 9, "октября": 10, "ноября": 11, "декабря": 12,
}

// Clean NFC-normalises s, collapses every run of whitespace (NBSP included)
// to one space and trims the ends.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Spaces NFC-normalises s and turns every Unicode space other than a line
// break into an ASCII space, so `\s` in a pattern matches it. Line structure
// is kept for multi-line anchors.
func Spaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r != '\n' && r != '\r' && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, norm.NFC.String(s))
}

// Fold lowercases s using Russian casing rules, for case-insensitive matching.
// A Caser is stateful, so each call gets its own.
func Fold(s string) string {
	return cases.Lower(language.Russian).String(s)
}

// ParseDecimal parses a Russian-formatted amount such as "10 500,00".
// Placeholders (--, -, Х, X, empty) and anything unparseable yield zero.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if _, ok := constants.NumericPlaceholders[s]; ok {
		return decimal.Zero
	}
	s = strings.NewReplacer("\u00a0", "", "\u202f", "", " ", "", ",", ".").Replace(s)
	s = reNonNumeric.ReplaceAllString(s, "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseVATRatePercent maps a raw rate cell to an integer percent:
// "20%" → 20, "10/110" → 10, "без НДС"/"--" → 0.
func ParseVATRatePercent(s string) int {
	s = strings.TrimSpace(s)
	if IsNoVATString(s) {
		return 0
	}
	if m := rePercentRate.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if m := reFractionRate.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// IsNoVATString reports whether a raw rate cell spells out "no VAT".
func IsNoVATString(s string) bool {
	s = strings.TrimSpace(s)
	if constants.IsNoVATRate(s) {
		return true
	}
	return Fold(s) == "без ндс"
}

// ParseRussianDate parses "17 июня 2025 г." into its trimmed raw form and
// "2025-06-17". An unrecognised date keeps the raw text and an empty ISO form.
func ParseRussianDate(s string) (raw, iso string) {
	raw = strings.TrimRight(strings.TrimSpace(s), ".")
	m := reRussianDate.FindStringSubmatch(raw)
	if m == nil {
		return raw, ""
	}
	month, ok := russianMonths[Fold(m[2])]
	if !ok {
		return raw, ""
	}
	day, _ := strconv.Atoi(m[1])
	return raw, fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}
