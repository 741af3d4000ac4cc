package header

import (
	"regexp"

	"github.com/joseph-ayodele/upd-parser/internal/rules"
)

// Flat page-text anchors. Each rule captures the field value between its
// label and the numbered field marker that closes it.
var (
	ruleStatus      = rules.MustCompile("status", `Статус:\s*(\d)`)
	ruleInvoice     = rules.MustCompile("invoice", `Счет-фактура\s*№\s*(\S+)\s+от\s+(.+?)\s*\(1\)`)
	ruleCorrection  = rules.MustCompile("correction", `Исправление\s*№\s*(.+?)\s+от\s+(.+?)\s*\(1а\)`)
	ruleSeller      = rules.MustCompile("seller", `Продавец:\s*(.+?)\s*\(2\)`)
	ruleSellerAddr  = rules.MustCompile("seller_address", `(?s)\(2\)\s*\n?\s*Адрес:\s*(.+?)\s*\(2а\)`)
	ruleSellerTax   = rules.MustCompile("seller_inn_kpp", `ИНН/КПП\s+продавца:\s*(\d+)[/\\](\d+)`)
	ruleBuyer       = rules.MustCompile("buyer", `Покупатель:\s*(.+?)\s*\(6\)`)
	ruleBuyerAddr   = rules.MustCompile("buyer_address", `(?s)\(6\)\s*\n?\s*Адрес:\s*(.+?)\s*\(6а\)`)
	ruleBuyerAddr2  = rules.MustCompile("buyer_address_loose", `(?s)Покупатель:.*?Адрес:\s*(.+?)\s*\(6а\)`)
	ruleBuyerTax    = rules.MustCompile("buyer_inn_kpp", `ИНН/КПП\s+покупателя:\s*(\d+)[/\\](\d+)`)
	ruleConsigner   = rules.MustCompile("consigner", `Грузоотправитель и его адрес:\s*(.+?)\s*\(3\)`)
	ruleConsignee   = rules.MustCompile("consignee", `(?s)Грузополучатель и его адрес:\s*(.+?)\s*\(4\)`)
	rulePayment     = rules.MustCompile("payment_document", `К платежно-расчетному документу\s*№\s*(.+?)\s*\(5\)`)
	ruleShipping    = rules.MustCompile("shipping_document", `Документ об отгрузке\s+(.+?)\s*\(5а\)`)
	ruleCurrency    = rules.MustCompile("currency", `Валюта:\s*наименование,\s*код\s+(.+?)\s*\(7\)`)
	ruleGovContract = rules.MustCompile("government_contract", `(?s)договора\s*\(соглашения\)\s*\(при наличии\):\s*(.+?)\s*\(8\)`)
)

// Anchors applied to one cropped half of the header band.
var (
	ruleLeftSellerAddr = rules.MustCompile("crop_seller_address", `(?s)Адрес:\s*\n?\s*(.+?)(?:ИНН/КПП|Грузоотправитель)`)
	ruleRightBuyerAddr = rules.MustCompile("crop_buyer_address", `(?s)Адрес:\s*(.+?)\s*\(6а\)`)
	ruleLeftConsignee  = rules.MustCompile("crop_consignee", `(?s)Грузополучатель и его адрес:\s*(.+?)(?:К платежно|$)`)
)

var (
	reStatusNoise  = regexp.MustCompile(`Статус:\s*\d\s*`)
	reFieldMarker  = regexp.MustCompile(`\(\d+[а-я]?\)`)
	reEmptyPayment = regexp.MustCompile(`^[\s\-]*от[\s\-]*$`)
)

var placeholders = map[string]bool{"": true, "--": true, "-": true}

var paymentPlaceholders = map[string]bool{"": true, "--": true, "-": true, "от --": true, "от": true}
