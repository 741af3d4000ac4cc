package extract

// PageSource is the PDF layout collaborator: flat page text, line-ruled table
// grids and document metadata. Pages are 0-based.
type PageSource interface {
	PageCount() int
	PageText(page int) (string, error)
	PageTables(page int, settings TableSettings) ([]Table, error)
	Creator() string
	Close() error
}

// Cropper is implemented by sources that know page geometry and can extract
// the text inside a rectangle. Sources without geometry simply don't implement it.
type Cropper interface {
	PageSize(page int) (width, height float64, err error)
	PageCropText(page int, box Box) (string, error)
}

// Box is a page region in points with a top-left origin.
type Box struct {
	Left, Top, Right, Bottom float64
}

// Row is one table row; missing cells are reported as "".
type Row []string

// Table is a grid of rows in top-to-bottom order.
type Table []Row

// Line detection strategies for TableSettings.
const (
	StrategyLines = "lines"
)

// TableSettings tunes line-based table grid detection.
type TableSettings struct {
	VerticalStrategy   string
	HorizontalStrategy string
	SnapTolerance      float64 // points; ruling lines closer than this merge
}

// DefaultTableSettings matches the ruled goods table of a 1C-generated УПД.
func DefaultTableSettings() TableSettings {
	return TableSettings{
		VerticalStrategy:   StrategyLines,
		HorizontalStrategy: StrategyLines,
		SnapTolerance:      5,
	}
}
