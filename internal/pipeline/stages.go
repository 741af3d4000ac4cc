package pipeline

import (
	"log/slog"

	"github.com/joseph-ayodele/upd-parser/internal/entity"
	"github.com/joseph-ayodele/upd-parser/internal/extract"
	"github.com/joseph-ayodele/upd-parser/internal/table"
)

// pageText returns the page's flat text; a failing page reads as empty.
func (p *Parser) pageText(log *slog.Logger, src extract.PageSource, page int) string {
	text, err := src.PageText(page)
	if err != nil {
		log.Warn("upd.page.text_failed", "page", page, "err", err)
		return ""
	}
	return text
}

func (p *Parser) headerStage(log *slog.Logger, doc *entity.Document, text string, c extract.Cropper) {
	res := p.Header.Extract(text, c, 0)
	res.Apply(doc)
	log.Info("upd.header.ok",
		"invoice", doc.InvoiceNumber,
		"date", doc.InvoiceDateISO,
		"seller_inn", doc.Seller.INN,
		"buyer_inn", doc.Buyer.INN,
		"spatial", res.Spatial,
	)
}

// tableStage feeds one page's tables into the running accumulator. A page
// whose tables cannot be read contributes no rows.
func (p *Parser) tableStage(log *slog.Logger, acc *table.Accumulator, src extract.PageSource, page int) {
	tables, err := src.PageTables(page, p.Cfg.Tables)
	if err != nil {
		log.Warn("upd.page.tables_failed", "page", page, "err", err)
		return
	}
	st := acc.AddTables(tables)
	log.Info("upd.page.items",
		"page", page,
		"tables", len(tables),
		"rows", st.Rows,
		"items", st.Items,
		"totals", st.Totals,
		"skipped_label", st.Skipped[table.KindLabel],
		"skipped_header", st.Skipped[table.KindHeader],
		"skipped_signature", st.Skipped[table.KindSignature],
		"skipped_blank", st.Skipped[table.KindData],
	)
}

func (p *Parser) transferStage(log *slog.Logger, doc *entity.Document, text string, page int) {
	doc.Transfer = p.Transfer.Extract(text)
	log.Info("upd.transfer.ok",
		"page", page,
		"basis", doc.Transfer.TransferBasis != "",
		"entity_shipper", doc.Transfer.EntityShipper != "",
		"entity_receiver", doc.Transfer.EntityReceiver != "",
	)
}
