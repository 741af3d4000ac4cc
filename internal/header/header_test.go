package header

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/joseph-ayodele/upd-parser/constants"
	"github.com/joseph-ayodele/upd-parser/internal/extract"
)

const pageOne = `Счет-фактура № 123 от 17 июня 2025 г. (1)
Статус: 1
Исправление № -- от -- (1а)
Продавец: ООО "Ромашка" (2)
Адрес: 123456, г. Москва, ул. Ленина, д. 1 (2а)
ИНН/КПП продавца: 7701234567/770101001 (2б)
Грузоотправитель и его адрес: он же (3)
Грузополучатель и его адрес: ООО "Лютик", г. Казань (4)
К платежно-расчетному документу № -- от -- (5)
Документ об отгрузке № п/п 1 № 123 от 17.06.2025 (5а)
Покупатель: ООО "Лютик" (6)
Адрес: 420000, г. Казань, ул. Баумана, д. 2 (6а)
ИНН/КПП покупателя: 1655000000\165501001 (6б)
Валюта: наименование, код Российский рубль, 643 (7)
Идентификатор государственного контракта, договора (соглашения) (при наличии): -- (8)`

// fakeCropper serves fixed text per half, keyed by the box's left edge.
type fakeCropper struct {
	w, h        float64
	left, right string
	err         error
	boxes       []extract.Box
}

func (f *fakeCropper) PageSize(int) (float64, float64, error) { return f.w, f.h, nil }

func (f *fakeCropper) PageCropText(_ int, b extract.Box) (string, error) {
	f.boxes = append(f.boxes, b)
	if f.err != nil {
		return "", f.err
	}
	if b.Left == 0 {
		return f.left, nil
	}
	return f.right, nil
}

func TestExtractFlatText(t *testing.T) {
	r := NewExtractor(nil, Config{}).Extract(pageOne, nil, 0)

	checks := []struct{ name, got, want string }{
		{"invoice number", r.InvoiceNumber, "123"},
		{"invoice date", r.InvoiceDate, "17 июня 2025 г"},
		{"invoice iso", r.InvoiceDateISO, "2025-06-17"},
		{"correction", r.CorrectionNumber, ""},
		{"seller", r.Seller.Name, `ООО "Ромашка"`},
		{"seller address", r.Seller.Address, "123456, г. Москва, ул. Ленина, д. 1"},
		{"seller inn", r.Seller.INN, "7701234567"},
		{"seller kpp", r.Seller.KPP, "770101001"},
		{"buyer", r.Buyer.Name, `ООО "Лютик"`},
		{"buyer address", r.Buyer.Address, "420000, г. Казань, ул. Баумана, д. 2"},
		{"buyer inn", r.Buyer.INN, "1655000000"},
		{"buyer kpp", r.Buyer.KPP, "165501001"},
		{"consigner", r.Consigner, "он же"},
		{"consignee", r.Consignee, `ООО "Лютик", г. Казань`},
		{"payment", r.PaymentDocument, ""},
		{"shipping", r.ShippingDocument, "№ п/п 1 № 123 от 17.06.2025"},
		{"currency", r.Currency, "Российский рубль"},
		{"currency code", r.CurrencyCode, "643"},
		{"government contract", r.GovernmentContractID, ""},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
	if r.Status != constants.StatusInvoiceAct {
		t.Errorf("status = %d", r.Status)
	}
	if r.Spatial {
		t.Error("no cropper was given")
	}
}

func TestExtractNonBreakingSpaces(t *testing.T) {
	e := NewExtractor(nil, Config{})
	want := e.Extract(pageOne, nil, 0)
	got := e.Extract(strings.ReplaceAll(pageOne, " ", "\u00a0"), nil, 0)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NBSP text mismatch:\n got %+v\nwant %+v", got, want)
	}
	if got.InvoiceNumber != "123" || got.Seller.INN != "7701234567" {
		t.Fatalf("anchors missed: %+v", got)
	}
}

func TestExtractMissingMarkersKeepDefaults(t *testing.T) {
	r := NewExtractor(nil, Config{}).Extract("произвольный текст без маркеров", nil, 0)
	if r != (Result{}) {
		t.Fatalf("expected zero result, got %+v", r)
	}
}

func TestExtractUnparseableDateKeepsRaw(t *testing.T) {
	r := NewExtractor(nil, Config{}).Extract("Счет-фактура № А-7 от 17.06.2025 (1)", nil, 0)
	if r.InvoiceNumber != "А-7" || r.InvoiceDate != "17.06.2025" || r.InvoiceDateISO != "" {
		t.Fatalf("got %q %q %q", r.InvoiceNumber, r.InvoiceDate, r.InvoiceDateISO)
	}
}

func TestExtractKeepsRealValues(t *testing.T) {
	text := strings.Join([]string{
		"Исправление № 2 от 20 июня 2025 г. (1а)",
		"К платежно-расчетному документу № 45 от 01.06.2025 (5)",
		"договора (соглашения) (при наличии): ГК-2025/17 (8)",
	}, "\n")
	r := NewExtractor(nil, Config{}).Extract(text, nil, 0)
	if r.CorrectionNumber != "2" {
		t.Errorf("correction = %q", r.CorrectionNumber)
	}
	if r.PaymentDocument != "45 от 01.06.2025" {
		t.Errorf("payment = %q", r.PaymentDocument)
	}
	if r.GovernmentContractID != "ГК-2025/17" {
		t.Errorf("contract = %q", r.GovernmentContractID)
	}
}

func TestExtractSpatialHalves(t *testing.T) {
	c := &fakeCropper{
		w: 600, h: 800,
		left: "Статус: 1 Продавец: ООО \"Ромашка\"\nАдрес:\n123456, г. Москва Статус: 1\n" +
			"ИНН/КПП продавца: 7701234567/770101001\n" +
			"Грузополучатель и его адрес: ООО \"Лютик\",\nг. Казань, склад 3\nК платежно-расчетному",
		right: "Покупатель: ООО \"Лютик\" (6)\nАдрес: 420000, (6) г. Казань (6а)",
	}
	r := NewExtractor(nil, Config{}).Extract(pageOne, c, 0)

	if !r.Spatial {
		t.Fatal("expected spatial path")
	}
	if r.Seller.Address != "123456, г. Москва" {
		t.Errorf("seller address = %q", r.Seller.Address)
	}
	if r.Buyer.Address != "420000, г. Казань" {
		t.Errorf("buyer address = %q", r.Buyer.Address)
	}
	if r.Consignee != `ООО "Лютик", г. Казань, склад 3` {
		t.Errorf("consignee = %q", r.Consignee)
	}
	if len(c.boxes) != 2 {
		t.Fatalf("crops = %d, want 2", len(c.boxes))
	}
	want := extract.Box{Left: 0, Top: 0, Right: 300, Bottom: 140}
	if c.boxes[0] != want {
		t.Errorf("left box = %+v, want %+v", c.boxes[0], want)
	}
}

func TestExtractCropFailureFallsBackToFlatText(t *testing.T) {
	c := &fakeCropper{w: 600, h: 800, err: errors.New("broken content stream")}
	r := NewExtractor(nil, Config{}).Extract(pageOne, c, 0)
	if r.Spatial {
		t.Error("failed crops must not count as spatial")
	}
	if r.Buyer.Address != "420000, г. Казань, ул. Баумана, д. 2" {
		t.Errorf("buyer address = %q", r.Buyer.Address)
	}
	if r.Consignee != `ООО "Лютик", г. Казань` {
		t.Errorf("consignee = %q", r.Consignee)
	}
}

func TestBandUsesLesserHeight(t *testing.T) {
	s := NewSplitter(nil, Config{})
	tests := []struct {
		w, h, bottom float64
	}{
		{600, 800, 140},
		{600, 400, 100},
	}
	for _, tt := range tests {
		l, r := s.Band(tt.w, tt.h)
		if l.Bottom != tt.bottom || r.Bottom != tt.bottom {
			t.Errorf("Band(%v,%v) bottom = %v/%v, want %v", tt.w, tt.h, l.Bottom, r.Bottom, tt.bottom)
		}
		if l.Right != tt.w/2 || r.Left != tt.w/2 || r.Right != tt.w {
			t.Errorf("Band(%v,%v) midpoint wrong: %+v %+v", tt.w, tt.h, l, r)
		}
	}
}

func TestBuyerAddressLooseFallback(t *testing.T) {
	text := "Покупатель: ООО \"Лютик\"\nиные строки\nАдрес: г. Казань (6а)"
	r := NewExtractor(nil, Config{}).Extract(text, nil, 0)
	if r.Buyer.Address != "г. Казань" {
		t.Fatalf("buyer address = %q", r.Buyer.Address)
	}
}
