package gridcore

import (
	"reflect"
	"testing"
)

func testHeights() Heights {
	return Heights{
		Row:             10,
		GroupHeader:     12,
		ColumnHeaderRow: 8,
		HeaderRowCount:  2,
		CollapsedHeader: 9,
		Footer:          7,
	}
}

func groupOf(id string, n int) *GroupNode {
	g := &GroupNode{ID: id}
	for i := 0; i < n; i++ {
		g.Rows = append(g.Rows, id)
	}
	return g
}

func expandedExcept(collapsed ...string) func(string) bool {
	set := make(map[string]bool)
	for _, id := range collapsed {
		set[id] = true
	}
	return func(id string) bool { return !set[id] }
}

func TestFlattenGroupedItemCount(t *testing.T) {
	// k groups with r rows each: group-header + column-headers + r data
	// rows + footer per group.
	const k, r = 3, 4
	var roots []*GroupNode
	for _, id := range []string{"a", "b", "c"} {
		roots = append(roots, groupOf(id, r))
	}

	items := NewFlattener(LayoutGrouped, testHeights(), nil).Flatten(roots)

	want := k * (1 + 1 + r + 1)
	if len(items) != want {
		t.Fatalf("item count = %d, want %d", len(items), want)
	}
	for i, it := range items {
		if it.Index != i {
			t.Errorf("item %d has index %d, want dense 0..N-1", i, it.Index)
		}
		if it.Height < 0 {
			t.Errorf("item %d has negative height %d", i, it.Height)
		}
	}

	// Per-group kind sequence.
	wantKinds := []ItemKind{ItemGroupHeader, ItemColumnHeaders, ItemData, ItemData, ItemData, ItemData, ItemFooter}
	for g := 0; g < k; g++ {
		for j, kind := range wantKinds {
			if got := items[g*len(wantKinds)+j].Kind; got != kind {
				t.Errorf("group %d item %d kind = %s, want %s", g, j, got, kind)
			}
		}
	}
}

func TestFlattenCollapsedGroupTriple(t *testing.T) {
	// A collapsed group contributes exactly 3 items regardless of row
	// count, and the collapsed column-headers item keeps its fixed
	// height rather than height x header row count.
	h := testHeights()
	for _, r := range []int{0, 1, 50} {
		items := NewFlattener(LayoutGrouped, h, expandedExcept("x")).
			Flatten([]*GroupNode{groupOf("x", r)})
		if len(items) != 3 {
			t.Fatalf("r=%d: collapsed group contributed %d items, want 3", r, len(items))
		}
		if items[0].Kind != ItemGroupHeader || items[1].Kind != ItemColumnHeaders || items[2].Kind != ItemFooter {
			t.Fatalf("r=%d: kinds = %v %v %v", r, items[0].Kind, items[1].Kind, items[2].Kind)
		}
		if items[1].Height != h.CollapsedHeader {
			t.Errorf("collapsed column-headers height = %d, want %d", items[1].Height, h.CollapsedHeader)
		}
	}
}

func TestFlattenMultiRowHeaderHeight(t *testing.T) {
	h := testHeights() // HeaderRowCount 2
	items := NewFlattener(LayoutGrouped, h, nil).Flatten([]*GroupNode{groupOf("a", 1)})
	if got, want := items[1].Height, h.ColumnHeaderRow*h.HeaderRowCount; got != want {
		t.Errorf("expanded column-headers height = %d, want %d", got, want)
	}
}

func TestFlattenStandardMode(t *testing.T) {
	// Standard mode: column-headers exactly once at the top, one
	// trailing footer, groups emit only their sub-header.
	const k, r = 3, 4
	roots := []*GroupNode{groupOf("a", r), groupOf("b", r), groupOf("c", r)}

	items := NewFlattener(LayoutStandard, testHeights(), nil).Flatten(roots)

	want := 1 + k*(1+r) + 1
	if len(items) != want {
		t.Fatalf("item count = %d, want %d", len(items), want)
	}
	if items[0].Kind != ItemColumnHeaders {
		t.Errorf("first item kind = %s, want column-headers", items[0].Kind)
	}
	if items[len(items)-1].Kind != ItemFooter {
		t.Errorf("last item kind = %s, want footer", items[len(items)-1].Kind)
	}
	headers, footers := 0, 0
	for _, it := range items {
		switch it.Kind {
		case ItemColumnHeaders:
			headers++
		case ItemFooter:
			footers++
		}
	}
	if headers != 1 || footers != 1 {
		t.Errorf("column-headers x%d footer x%d, want exactly one of each", headers, footers)
	}
}

func TestFlattenStandardCollapsedGroup(t *testing.T) {
	items := NewFlattener(LayoutStandard, testHeights(), expandedExcept("a")).
		Flatten([]*GroupNode{groupOf("a", 10), groupOf("b", 2)})
	// headers + a's sub-header + b's sub-header + 2 rows + footer
	if len(items) != 1+1+1+2+1 {
		t.Fatalf("item count = %d, want 6", len(items))
	}
	for _, it := range items {
		if it.Kind == ItemData && it.GroupID == "a" {
			t.Errorf("collapsed group emitted a data row")
		}
	}
}

func TestFlattenNestedGroups(t *testing.T) {
	inner := groupOf("inner", 2)
	outer := &GroupNode{ID: "outer", Children: []*GroupNode{inner}}

	items := NewFlattener(LayoutGrouped, testHeights(), nil).Flatten([]*GroupNode{outer})

	// outer header, outer column-headers, inner header, inner
	// column-headers, 2 rows, inner footer, outer footer.
	if len(items) != 7 {
		t.Fatalf("item count = %d, want 7", len(items))
	}
	if items[0].Depth != 0 || items[2].Depth != 1 {
		t.Errorf("outer depth %d inner depth %d, want 0 and 1", items[0].Depth, items[2].Depth)
	}
	for _, it := range items {
		if it.Kind == ItemData && it.Depth != 1 {
			t.Errorf("row depth = %d, want 1", it.Depth)
		}
	}
}

func TestFlattenCollapsedParentHidesDescendants(t *testing.T) {
	// No orphaned rows: descendants of a collapsed group contribute
	// nothing, even when the nested group itself is expanded.
	inner := groupOf("inner", 5)
	outer := &GroupNode{ID: "outer", Children: []*GroupNode{inner}}

	items := NewFlattener(LayoutGrouped, testHeights(), expandedExcept("outer")).
		Flatten([]*GroupNode{outer})

	if len(items) != 3 {
		t.Fatalf("item count = %d, want the collapsed triple", len(items))
	}
	for _, it := range items {
		if it.GroupID == "inner" {
			t.Errorf("collapsed parent leaked item for nested group: %+v", it)
		}
	}
}

func TestFlattenPlaceholders(t *testing.T) {
	h := testHeights()
	top := NewFlattener(LayoutGrouped, h, nil).
		Placeholder(Placeholder{Top: true, Height: 5}).
		Flatten([]*GroupNode{groupOf("a", 2)})
	// header, column-headers, placeholder, 2 rows, footer
	if len(top) != 6 {
		t.Fatalf("item count = %d, want 6", len(top))
	}
	if top[2].Kind != ItemData || top[2].Height != 5 {
		t.Errorf("top placeholder = %+v, want data item height 5", top[2])
	}

	bottom := NewFlattener(LayoutGrouped, h, nil).
		Placeholder(Placeholder{Top: false, Height: 5}).
		Flatten([]*GroupNode{groupOf("a", 2)})
	if bottom[4].Kind != ItemData || bottom[4].Height != 5 {
		t.Errorf("bottom placeholder = %+v, want data item height 5 before footer", bottom[4])
	}

	// Collapsed groups get no placeholder.
	collapsed := NewFlattener(LayoutGrouped, h, expandedExcept("a")).
		Placeholder(Placeholder{Top: true, Height: 5}).
		Flatten([]*GroupNode{groupOf("a", 2)})
	if len(collapsed) != 3 {
		t.Errorf("collapsed group with placeholder contributed %d items, want 3", len(collapsed))
	}
}

func TestFlattenRows(t *testing.T) {
	h := testHeights()
	f := NewFlattener(LayoutGrouped, h, nil)

	items := f.FlattenRows([]any{"r1", "r2", "r3"})
	if len(items) != 4 {
		t.Fatalf("item count = %d, want 4", len(items))
	}
	if items[0].Kind != ItemColumnHeaders {
		t.Errorf("first item kind = %s, want column-headers", items[0].Kind)
	}

	empty := f.FlattenRows(nil)
	if len(empty) != 1 || empty[0].Kind != ItemColumnHeaders {
		t.Errorf("empty dataset = %+v, want lone column-headers item", empty)
	}

	withFooter := f.TrailingFooter(true).FlattenRows([]any{"r1"})
	if withFooter[len(withFooter)-1].Kind != ItemFooter {
		t.Errorf("trailing footer missing")
	}
}

func TestFlattenIdempotent(t *testing.T) {
	roots := []*GroupNode{
		groupOf("a", 3),
		{ID: "b", Children: []*GroupNode{groupOf("b1", 2), groupOf("b2", 1)}},
	}
	f := NewFlattener(LayoutGrouped, testHeights(), expandedExcept("b2"))

	first := f.Flatten(roots)
	second := f.Flatten(roots)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-flattening an unchanged tree produced a different sequence")
	}
}
