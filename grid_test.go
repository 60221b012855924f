package gridcore

import (
	"reflect"
	"testing"
	"time"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Heights = testHeights()
	cfg.Overscan = Overscan{Count: 0}
	cfg.DynamicHeights = true
	cfg.HeaderPadding = 0
	cfg.CellPadding = 0
	cfg.DebounceMs = 20
	return cfg
}

func testGridColumns() []Column {
	return []Column{
		{ID: "c", Width: 100, MinWidth: 20, MaxWidth: 300, Growable: true, Resizable: true},
		{ID: "n", Width: 150, MinWidth: 50, MaxWidth: 400, Growable: true, Resizable: true},
	}
}

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g := NewGrid(testConfig(), CellMeasurer{CellWidth: 1}, testGridColumns()...)
	g.SetGroups([]*GroupNode{groupOf("a", 4), groupOf("b", 4)})
	g.SetViewport(500, 30)
	return g
}

func TestGridWindowAndSticky(t *testing.T) {
	g := newTestGrid(t)
	if g.window.Len() != 14 {
		t.Fatalf("item count = %d, want 14", g.window.Len())
	}

	// At the top the first group header and its column-headers are both
	// sticky and inside the window.
	if got := g.VisibleIndices(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("indices at top = %v, want [0 1 2]", got)
	}

	// Scrolled into group b: its chrome pins above the window.
	g.SetScroll(90)
	st := g.Sticky()
	if !reflect.DeepEqual(st.Indices, []int{7, 8}) {
		t.Fatalf("sticky indices = %v, want [7 8]", st.Indices)
	}
	if got := g.VisibleIndices(); !reflect.DeepEqual(got, []int{7, 8, 9, 10}) {
		t.Errorf("indices at 90 = %v, want [7 8 9 10]", got)
	}
}

func TestGridExpansionToggle(t *testing.T) {
	g := newTestGrid(t)
	if !g.IsExpanded("a") {
		t.Fatalf("groups should default to expanded")
	}

	g.ToggleExpanded("a")
	// a collapses to its triple, b keeps its 7 items.
	if got := len(g.Items()); got != 10 {
		t.Errorf("item count after collapse = %d, want 10", got)
	}

	g.ToggleExpanded("a")
	if got := len(g.Items()); got != 14 {
		t.Errorf("item count after re-expand = %d, want 14", got)
	}
}

func TestGridReshapeClearsMeasuredHeights(t *testing.T) {
	g := newTestGrid(t)

	g.Measure(0, 50)
	if g.HeightOf(0) != 50 {
		t.Fatalf("measured height not applied")
	}

	// Any reshape drops the whole measurement table.
	g.ToggleExpanded("b")
	if got := g.HeightOf(0); got != testHeights().GroupHeader {
		t.Errorf("height after reshape = %d, want the estimate back", got)
	}
}

func TestGridResizeCallbacks(t *testing.T) {
	g := newTestGrid(t)

	var started string
	var moved, ended map[string]int
	g.OnResizeStart(func(s *ResizeSession) { started = s.target }).
		OnResizeMove(func(w map[string]int) { moved = w }).
		OnResizeEnd(func(w map[string]int) { ended = w })

	if err := g.StartResize("c", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if started != "c" {
		t.Errorf("start callback saw %q, want c", started)
	}

	g.MoveResize(80)
	if moved["c"] != 180 || moved["n"] != 70 {
		t.Errorf("move callback saw %v, want c=180 n=70", moved)
	}

	g.EndResize(80)
	if ended["c"] != 180 {
		t.Errorf("end callback saw %v, want c=180", ended)
	}
	if g.ResizeActive() {
		t.Errorf("session still active after EndResize")
	}
	if g.ColumnWidths()["c"] != 180 {
		t.Errorf("committed width = %d, want 180", g.ColumnWidths()["c"])
	}
}

func TestGridResizeRejectionLeavesNoSession(t *testing.T) {
	g := newTestGrid(t)

	called := false
	g.OnResizeStart(func(*ResizeSession) { called = true })

	if err := g.StartResize("ghost", 0); err != ErrUnknownColumn {
		t.Fatalf("err = %v, want ErrUnknownColumn", err)
	}
	if called || g.ResizeActive() {
		t.Errorf("rejected start still opened a session")
	}
}

func TestGridDragCoalescing(t *testing.T) {
	g := newTestGrid(t)
	g.StartResize("c", 0)

	// Three pointer samples in one frame: only the last is applied.
	g.SubmitDrag(10)
	g.SubmitDrag(30)
	g.SubmitDrag(50)
	g.FlushDrag()
	if w := g.ColumnWidths()["c"]; w != 150 {
		t.Errorf("width after flush = %d, want 150 from the last sample", w)
	}

	// Nothing pending: a second flush is a no-op.
	g.FlushDrag()
	if w := g.ColumnWidths()["c"]; w != 150 {
		t.Errorf("idle flush moved width to %d", w)
	}
	g.CancelResize()
	if w := g.ColumnWidths()["c"]; w != 100 {
		t.Errorf("width after cancel = %d, want 100", w)
	}
}

func TestGridAutosizeContent(t *testing.T) {
	g := newTestGrid(t)
	src := &stubSource{
		headers: map[string]string{"c": "", "n": ""},
		cells: map[string][]string{
			"c": {text(120)},
			"n": {text(200)},
		},
	}

	g.AutosizeContent(src)
	widths := g.ColumnWidths()
	if widths["c"] != 120 || widths["n"] != 200 {
		t.Errorf("widths = %v, want c=120 n=200", widths)
	}
}

func TestGridDebouncedAutosizeCancelledByReshape(t *testing.T) {
	g := newTestGrid(t)
	src := &stubSource{
		headers: map[string]string{"c": "", "n": ""},
		cells:   map[string][]string{"c": {text(120)}, "n": {text(200)}},
	}

	// A reshape between trigger and flush invalidates the pending work.
	g.AutosizeContentDebounced(src)
	g.ToggleExpanded("a")
	time.Sleep(80 * time.Millisecond)
	g.FlushAutosize()
	if w := g.ColumnWidths()["c"]; w != 100 {
		t.Errorf("stale autosize applied, width = %d", w)
	}

	// Undisturbed, the trailing request lands on the next flush.
	g.AutosizeContentDebounced(src)
	time.Sleep(80 * time.Millisecond)
	if w := g.ColumnWidths()["c"]; w != 100 {
		t.Errorf("timer applied widths before the host flushed, width = %d", w)
	}
	g.FlushAutosize()
	if w := g.ColumnWidths()["c"]; w != 120 {
		t.Errorf("debounced autosize never applied, width = %d", w)
	}

	// Drained: a second flush moves nothing.
	g.FlushAutosize()
	if w := g.ColumnWidths()["c"]; w != 120 {
		t.Errorf("idle flush moved width to %d", w)
	}
}

func TestGridMeasureNotificationGated(t *testing.T) {
	cfg := testConfig()
	cfg.DynamicHeights = false
	static := NewGrid(cfg, nil, testGridColumns()...)
	static.SetGroups([]*GroupNode{groupOf("a", 2)})

	var kinds []ChangeKind
	static.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })

	// Static mode and out-of-range indices record nothing, so nobody is
	// notified and sticky state is untouched.
	static.Measure(0, 50)
	static.Measure(99, 50)
	if len(kinds) != 0 {
		t.Fatalf("ignored measurements notified: %v", kinds)
	}

	dyn := newTestGrid(t)
	kinds = nil
	dyn.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })

	dyn.Measure(0, 50)
	dyn.Measure(0, 50) // identical repeat changes nothing
	want := []ChangeKind{ChangeWindow}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("change kinds = %v, want %v", kinds, want)
	}
}

func TestGridChangeNotifications(t *testing.T) {
	g := newTestGrid(t)

	var kinds []ChangeKind
	g.OnChange(func(c Change) { kinds = append(kinds, c.Kind) })

	g.SetScroll(40)
	g.SetGroups([]*GroupNode{groupOf("a", 2)})
	g.StartResize("c", 0)
	g.MoveResize(20)

	want := []ChangeKind{ChangeWindow, ChangeItems, ChangeColumns}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("change kinds = %v, want %v", kinds, want)
	}
}

func TestGridFlatRows(t *testing.T) {
	g := NewGrid(testConfig(), nil, testGridColumns()...)
	g.SetRows([]any{"r1", "r2", "r3"})

	items := g.Items()
	if len(items) != 4 {
		t.Fatalf("item count = %d, want column-headers plus 3 rows", len(items))
	}
	if items[0].Kind != ItemColumnHeaders {
		t.Errorf("first item = %s, want column-headers", items[0].Kind)
	}
}
