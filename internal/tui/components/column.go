package components

// ColumnType identifies the type of content in a column
type ColumnType int

const (
	ColumnTypeCategories ColumnType = iota
	ColumnTypeChannels
	ColumnTypeEpisodes
	ColumnTypeResults
)

// Row is one line of a list column. Value carries the backing object
// (a CategoryView, a CatalogItem or an Episode).
type Row struct {
	Label  string
	Detail string // right aligned, e.g. a count
	Marker string // pre-rendered, shown before the label
	Dim    bool
	Value  any
}

// Matcher returns the indexes of rows matching query, best first
type Matcher func(query string, rows []Row) []int
