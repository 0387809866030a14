package pdf

// Document is an opened statement, independent of the backend that parsed it
type Document interface {
	// Backend names the library that produced the pages
	Backend() string

	// GetPages returns all pages in the document
	GetPages() []Page

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page in a PDF document
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetObjects returns all objects on the page
	GetObjects() Objects

	// ExtractText extracts text from the page, one output line per text row
	ExtractText(opts ...TextExtractionOption) string

	// ExtractWords groups the page characters into words
	ExtractWords(opts ...TextExtractionOption) []Word

	// ExtractTables extracts tables from the page
	ExtractTables(opts ...TableExtractionOption) []Table
}
