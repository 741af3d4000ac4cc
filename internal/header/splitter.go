package header

import (
	"log/slog"

	"github.com/joseph-ayodele/upd-parser/internal/extract"
	"github.com/joseph-ayodele/upd-parser/internal/rules"
	"github.com/joseph-ayodele/upd-parser/internal/textnorm"
)

// Halves is the text of the left and right header band crops.
type Halves struct {
	Left  string
	Right string
}

// Splitter crops the header band of a page into its left (seller) and right
// (buyer) halves so their address lines are not interleaved.
type Splitter struct {
	Logger *slog.Logger
	Cfg    Config
}

func NewSplitter(logger *slog.Logger, cfg Config) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{Logger: logger, Cfg: cfg.withDefaults()}
}

// Band returns the left and right crop boxes for a page of the given size.
// The band height is the lesser of BandRatio×height and BandHeight.
func (s *Splitter) Band(width, height float64) (left, right extract.Box) {
	mid := width / 2
	bottom := height * s.Cfg.BandRatio
	if s.Cfg.BandHeight < bottom {
		bottom = s.Cfg.BandHeight
	}
	return extract.Box{Left: 0, Top: 0, Right: mid, Bottom: bottom},
		extract.Box{Left: mid, Top: 0, Right: width, Bottom: bottom}
}

// Split crops both halves of page. A failing crop is logged and yields an
// empty half; it never aborts the parse.
func (s *Splitter) Split(c extract.Cropper, page int) Halves {
	if c == nil {
		return Halves{}
	}
	w, h, err := c.PageSize(page)
	if err != nil {
		s.Logger.Warn("header.split.size_failed", "page", page, "err", err)
		return Halves{}
	}
	lb, rb := s.Band(w, h)

	var out Halves
	if out.Left, err = c.PageCropText(page, lb); err != nil {
		s.Logger.Warn("header.split.crop_failed", "page", page, "side", "left", "err", err)
		out.Left = ""
	}
	if out.Right, err = c.PageCropText(page, rb); err != nil {
		s.Logger.Warn("header.split.crop_failed", "page", page, "side", "right", "err", err)
		out.Right = ""
	}
	out.Left, out.Right = textnorm.Spaces(out.Left), textnorm.Spaces(out.Right)
	return out
}

// Addresses applies the per-half address anchors: seller from the left half,
// buyer from the right. Residual status labels and field markers are removed.
func (h Halves) Addresses() (seller, buyer string) {
	if v, ok := ruleLeftSellerAddr.First(h.Left); ok {
		seller = textnorm.Clean(rules.Strip(reStatusNoise, textnorm.Clean(v)))
	}
	if v, ok := ruleRightBuyerAddr.First(h.Right); ok {
		buyer = textnorm.Clean(rules.Strip(reFieldMarker, textnorm.Clean(v)))
	}
	return seller, buyer
}

// Consignee reads the consignee from the left half, where it is not mixed
// with the payment document line of the right column.
func (h Halves) Consignee() string {
	if v, ok := ruleLeftConsignee.First(h.Left); ok {
		return textnorm.Clean(v)
	}
	return ""
}
