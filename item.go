package gridcore

// ItemKind identifies what a virtual item renders as.
type ItemKind uint8

const (
	ItemGroupHeader ItemKind = iota
	ItemColumnHeaders
	ItemData
	ItemFooter
)

func (k ItemKind) String() string {
	switch k {
	case ItemGroupHeader:
		return "group-header"
	case ItemColumnHeaders:
		return "column-headers"
	case ItemData:
		return "data"
	case ItemFooter:
		return "footer"
	}
	return "unknown"
}

// VirtualItem is one addressable row of the flattened layout sequence.
// Index values form a dense 0..N-1 sequence with no gaps; Height is
// always >= 0. The renderer positions items by index and height only.
type VirtualItem struct {
	Kind    ItemKind
	Index   int    // position in the flattened sequence
	Height  int    // estimated height in pixels (see WindowManager for measured overrides)
	Depth   int    // nesting level, for indentation by the renderer
	GroupID string // owning group, empty for non-grouped items
	Row     any    // opaque row handle, nil for non-data items
}

// GroupNode is one node of the row/group tree supplied by the grouping
// provider. A node either nests further groups (Children) or holds plain
// rows (Rows); the flattener only reads the tree, it never mutates it.
type GroupNode struct {
	ID       string
	Children []*GroupNode
	Rows     []any
}

// Heights holds the per-kind row height constants used during flattening.
type Heights struct {
	Row             int `toml:"row"` // one data row
	GroupHeader     int `toml:"group_header"`
	ColumnHeaderRow int `toml:"header_row"`       // one header row; multiplied by HeaderRowCount when expanded
	HeaderRowCount  int `toml:"header_rows"`      // multi-row header support
	CollapsedHeader int `toml:"collapsed_header"` // fixed height of the single collapsed column-headers item
	Footer          int `toml:"footer"`
}

// DefaultHeights returns the stock height constants.
func DefaultHeights() Heights {
	return Heights{
		Row:             36,
		GroupHeader:     44,
		ColumnHeaderRow: 40,
		HeaderRowCount:  1,
		CollapsedHeader: 40,
		Footer:          36,
	}
}

// columnHeadersHeight is the expanded column-headers item height.
func (h Heights) columnHeadersHeight() int {
	rows := h.HeaderRowCount
	if rows < 1 {
		rows = 1
	}
	return h.ColumnHeaderRow * rows
}
