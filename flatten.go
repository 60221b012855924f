package gridcore

// LayoutMode selects how column headers and footers are emitted.
type LayoutMode uint8

const (
	// LayoutGrouped emits a column-headers and footer item per group.
	LayoutGrouped LayoutMode = iota
	// LayoutStandard emits column-headers once at the top of the whole
	// sequence and a single trailing footer; group headers act as
	// sub-headers with no per-group chrome.
	LayoutStandard
)

// Placeholder is an injected data row at the top or bottom of each
// expanded group (loading rows, "add new" rows and the like).
type Placeholder struct {
	Top    bool // true = before the group's rows, false = after
	Height int
	Row    any
}

// Flattener converts a grouped, collapsible row tree into the flat,
// indexable sequence of virtual items the window manager operates on.
// Flattening is a pure function of its inputs: the same tree and
// expansion state always produce an identical sequence.
type Flattener struct {
	mode        LayoutMode
	heights     Heights
	isExpanded  func(groupID string) bool
	placeholder *Placeholder
	trailing    bool // emit a trailing footer for non-grouped datasets
}

// NewFlattener creates a flattener. isExpanded is queried once per group
// per flatten; nil means all groups are expanded.
func NewFlattener(mode LayoutMode, heights Heights, isExpanded func(string) bool) *Flattener {
	if isExpanded == nil {
		isExpanded = func(string) bool { return true }
	}
	return &Flattener{
		mode:       mode,
		heights:    heights,
		isExpanded: isExpanded,
	}
}

// Placeholder injects a placeholder data row into every expanded group.
func (f *Flattener) Placeholder(p Placeholder) *Flattener {
	f.placeholder = &p
	return f
}

// TrailingFooter controls whether non-grouped datasets end with a footer.
func (f *Flattener) TrailingFooter(on bool) *Flattener {
	f.trailing = on
	return f
}

// FlattenRows produces the trivial sequence for a flat, non-grouped
// dataset: one column-headers item, one data item per row, and an
// optional trailing footer.
func (f *Flattener) FlattenRows(rows []any) []VirtualItem {
	items := make([]VirtualItem, 0, len(rows)+2)
	items = append(items, VirtualItem{
		Kind:   ItemColumnHeaders,
		Height: f.heights.columnHeadersHeight(),
	})
	for _, row := range rows {
		items = append(items, VirtualItem{
			Kind:   ItemData,
			Height: f.heights.Row,
			Row:    row,
		})
	}
	if f.trailing {
		items = append(items, VirtualItem{Kind: ItemFooter, Height: f.heights.Footer})
	}
	for i := range items {
		items[i].Index = i
	}
	return items
}

// Flatten walks the group tree depth-first, pre-order, and emits the
// flat item sequence. A collapsed group contributes its header, a single
// collapsed column-headers item and a footer in grouped mode, and its
// header alone in standard mode; descendants of a collapsed group emit
// nothing.
func (f *Flattener) Flatten(roots []*GroupNode) []VirtualItem {
	var items []VirtualItem

	if f.mode == LayoutStandard {
		items = append(items, VirtualItem{
			Kind:   ItemColumnHeaders,
			Height: f.heights.columnHeadersHeight(),
		})
	}

	for _, g := range roots {
		items = f.descend(items, g, 0)
	}

	if f.mode == LayoutStandard {
		items = append(items, VirtualItem{Kind: ItemFooter, Height: f.heights.Footer})
	}

	for i := range items {
		items[i].Index = i
	}
	return items
}

func (f *Flattener) descend(items []VirtualItem, g *GroupNode, depth int) []VirtualItem {
	items = append(items, VirtualItem{
		Kind:    ItemGroupHeader,
		Height:  f.heights.GroupHeader,
		Depth:   depth,
		GroupID: g.ID,
	})

	expanded := f.isExpanded(g.ID)

	if f.mode == LayoutStandard {
		// Sub-header only; no per-group chrome. Collapsed groups stop here.
		if !expanded {
			return items
		}
		if len(g.Children) > 0 {
			for _, child := range g.Children {
				items = f.descend(items, child, depth+1)
			}
			return items
		}
		return f.appendRows(items, g, depth)
	}

	if !expanded {
		// Collapsed groups always contribute exactly three items,
		// regardless of row count. The collapsed column-headers item
		// uses its fixed height, not height x header row count.
		items = append(items, VirtualItem{
			Kind:    ItemColumnHeaders,
			Height:  f.heights.CollapsedHeader,
			Depth:   depth,
			GroupID: g.ID,
		})
		items = append(items, VirtualItem{
			Kind:    ItemFooter,
			Height:  f.heights.Footer,
			Depth:   depth,
			GroupID: g.ID,
		})
		return items
	}

	items = append(items, VirtualItem{
		Kind:    ItemColumnHeaders,
		Height:  f.heights.columnHeadersHeight(),
		Depth:   depth,
		GroupID: g.ID,
	})

	if f.placeholder != nil && f.placeholder.Top {
		items = f.appendPlaceholder(items, g, depth)
	}

	if len(g.Children) > 0 {
		for _, child := range g.Children {
			items = f.descend(items, child, depth+1)
		}
	} else {
		items = f.appendRows(items, g, depth)
	}

	if f.placeholder != nil && !f.placeholder.Top {
		items = f.appendPlaceholder(items, g, depth)
	}

	items = append(items, VirtualItem{
		Kind:    ItemFooter,
		Height:  f.heights.Footer,
		Depth:   depth,
		GroupID: g.ID,
	})
	return items
}

func (f *Flattener) appendRows(items []VirtualItem, g *GroupNode, depth int) []VirtualItem {
	for _, row := range g.Rows {
		items = append(items, VirtualItem{
			Kind:    ItemData,
			Height:  f.heights.Row,
			Depth:   depth,
			GroupID: g.ID,
			Row:     row,
		})
	}
	return items
}

func (f *Flattener) appendPlaceholder(items []VirtualItem, g *GroupNode, depth int) []VirtualItem {
	h := f.placeholder.Height
	if h <= 0 {
		h = f.heights.Row
	}
	return append(items, VirtualItem{
		Kind:    ItemData,
		Height:  h,
		Depth:   depth,
		GroupID: g.ID,
		Row:     f.placeholder.Row,
	})
}
