package pdf

// BoundingBox represents a rectangular area in top-left page coordinates
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Contains checks if a point is within the bounding box
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Objects is the set of drawable objects found on a page
type Objects struct {
	Chars []CharObject
	Lines []LineObject
	Rects []RectObject
}

// CharObject represents a single glyph
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Width    float64
	Height   float64
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// LineObject represents a stroked segment
type LineObject struct {
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Width float64
}

// RectObject represents a rectangle, usually a table cell or row band
type RectObject struct {
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Width float64
}

// Word is a run of characters with no gap wider than the x tolerance
type Word struct {
	Text       string
	X0         float64
	Y0         float64
	X1         float64
	Y1         float64
	Characters []CharObject
}

// Table represents an extracted table; Rows[0] is whatever the grid found first,
// header detection is left to the caller.
type Table struct {
	Page int
	Rows [][]string
	BBox BoundingBox
}

// TextExtractionOption is a function that modifies text extraction behavior
type TextExtractionOption func(*textExtractionConfig)

type textExtractionConfig struct {
	Layout     bool
	XTolerance float64
	YTolerance float64
}

func newTextExtractionConfig(opts []TextExtractionOption) *textExtractionConfig {
	config := &textExtractionConfig{
		XTolerance: 3.0,
		YTolerance: 3.0,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithLayout keeps horizontal positions by padding with spaces, so columns
// stay aligned in the output
func WithLayout(enabled bool) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.Layout = enabled
	}
}

// WithXTolerance sets the horizontal tolerance for word grouping
func WithXTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithYTolerance sets the vertical tolerance for line grouping
func WithYTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// TableExtractionOption is a function that modifies table extraction behavior
type TableExtractionOption func(*tableExtractionConfig)

type tableExtractionConfig struct {
	VerticalStrategy   string
	HorizontalStrategy string
	MinTableSize       int
	TextTolerance      float64
}

// WithTableStrategy selects "lines" or "text" detection per axis
func WithTableStrategy(vertical, horizontal string) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.VerticalStrategy = vertical
		c.HorizontalStrategy = horizontal
	}
}

// WithMinTableSize sets the minimum number of rows for a table to be kept
func WithMinTableSize(rows int) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.MinTableSize = rows
	}
}

// WithTextTolerance sets the tolerance used when grouping cell text
func WithTextTolerance(tolerance float64) TableExtractionOption {
	return func(c *tableExtractionConfig) {
		c.TextTolerance = tolerance
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
