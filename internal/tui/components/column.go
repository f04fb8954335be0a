package components

// ColumnType identifies the type of content in a column
type ColumnType int

const (
	ColumnTypeCategories ColumnType = iota
	ColumnTypeItems
)
