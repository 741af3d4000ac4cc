package vat

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(rate string, pct int, qty, price, subtotal, vat, total string) entity.LineItem {
	return entity.LineItem{
		VATRate:        rate,
		VATRatePercent: pct,
		Quantity:       d(qty),
		UnitPrice:      d(price),
		Subtotal:       d(subtotal),
		VATAmount:      d(vat),
		Total:          d(total),
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		items []entity.LineItem
		mode  constants.VATMode
		conf  constants.Confidence
		rates []int
	}{
		{
			name:  "net price",
			items: []entity.LineItem{item("20%", 20, "2", "100", "200", "40", "240")},
			mode:  constants.VATModeOnTop, conf: constants.ConfidenceHigh, rates: []int{20},
		},
		{
			name:  "gross price",
			items: []entity.LineItem{item("20%", 20, "2", "120", "200", "40", "240")},
			mode:  constants.VATModeIncluded, conf: constants.ConfidenceHigh, rates: []int{20},
		},
		{
			name: "no vat",
			items: []entity.LineItem{
				item("--", 0, "1", "50", "50", "0", "50"),
				item("без НДС", 0, "3", "10", "30", "0", "30"),
			},
			mode: constants.VATModeNone, conf: constants.ConfidenceHigh, rates: []int{},
		},
		{
			name:  "empty",
			items: nil,
			mode:  constants.VATModeNone, conf: constants.ConfidenceLow, rates: []int{},
		},
		{
			name:  "rate without quantity",
			items: []entity.LineItem{item("20%", 20, "0", "100", "200", "40", "240")},
			mode:  constants.VATModeNone, conf: constants.ConfidenceLow, rates: []int{20},
		},
		{
			name: "split decision ties to ontop",
			items: []entity.LineItem{
				item("20%", 20, "2", "100", "200", "40", "240"),
				item("10%", 10, "1", "110", "100", "10", "110"),
			},
			mode: constants.VATModeOnTop, conf: constants.ConfidenceMedium, rates: []int{10, 20},
		},
		{
			name: "included majority",
			items: []entity.LineItem{
				item("20%", 20, "1", "120", "100", "20", "120"),
				item("20%", 20, "1", "240", "200", "40", "240"),
				item("20%", 20, "1", "999", "100", "20", "120"),
			},
			mode: constants.VATModeIncluded, conf: constants.ConfidenceMedium, rates: []int{20},
		},
		{
			name: "zero rate with vat amount is not none",
			items: []entity.LineItem{
				item("--", 0, "1", "50", "50", "5", "55"),
			},
			mode: constants.VATModeNone, conf: constants.ConfidenceLow, rates: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.items)
			if got.Mode != tt.mode || got.Confidence != tt.conf {
				t.Fatalf("Detect = %s/%s (%s), want %s/%s", got.Mode, got.Confidence, got.Reason, tt.mode, tt.conf)
			}
			if !reflect.DeepEqual(got.Rates, tt.rates) {
				t.Fatalf("rates = %v, want %v", got.Rates, tt.rates)
			}
			if got.Reason == "" {
				t.Fatal("reason must be set")
			}
		})
	}
}

func TestDetectToleranceScalesWithQuantity(t *testing.T) {
	// 10 × 33.333 = 333.33, off by 0.15 from 333.18; allowed at 0.02 × 10 = 0.20
	items := []entity.LineItem{item("20%", 20, "10", "33.333", "333.18", "66.64", "399.82")}
	if got := Detect(items); got.Mode != constants.VATModeOnTop || got.Confidence != constants.ConfidenceHigh {
		t.Fatalf("Detect = %+v", got)
	}
}

func TestDetectReasonCitesCounts(t *testing.T) {
	got := Detect([]entity.LineItem{
		item("20%", 20, "2", "100", "200", "40", "240"),
		item("20%", 20, "2", "100", "200", "40", "240"),
	})
	if !strings.Contains(got.Reason, "2") {
		t.Fatalf("reason %q does not cite the count", got.Reason)
	}
}
