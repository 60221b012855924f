package gridcore

import (
	"sort"

	"github.com/olekukonko/ll"
)

// hard fallback when neither an override nor a map entry applies.
const fallbackOverscan = 4

// Overscan configures how many extra items are rendered beyond the
// strictly-visible viewport to mask scroll latency. Resolution order:
// explicit Count override, then the entry for the current breakpoint,
// then the map's "default" entry, then the hard fallback.
type Overscan struct {
	Count int            `toml:"count"` // explicit override when >= 0; -1 means unset
	Map   map[string]int `toml:"map"`   // keyed by breakpoint name, plus "default"
}

// DefaultOverscan returns an unset override with no map entries.
func DefaultOverscan() Overscan {
	return Overscan{Count: -1}
}

// Resolve returns the overscan row count for the given breakpoint.
func (o Overscan) Resolve(bp Breakpoint) int {
	if o.Count >= 0 {
		return o.Count
	}
	if n, ok := o.Map[bp.String()]; ok {
		return n
	}
	if n, ok := o.Map["default"]; ok {
		return n
	}
	return fallbackOverscan
}

// Range is a half-open [Start, End) slice of item indices.
type Range struct {
	Start, End int
}

func (r Range) Empty() bool { return r.End <= r.Start }
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start
}
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// WindowManager answers "which item indices are visible" as the scroll
// position changes, without re-measuring the whole sequence. Item
// heights start as estimates from the flattener; in dynamic mode the
// renderer reports real measured heights after commit and subsequent
// range math prefers them. The measured table is cleared whole whenever
// the item sequence changes shape, never on scroll.
type WindowManager struct {
	items    []VirtualItem
	offsets  []int // prefix sums of effective heights, len(items)+1
	dirty    bool
	measured map[int]int
	dynamic  bool

	overscan    Overscan
	breakpoints BreakpointConfig

	viewportW int
	viewportH int
	scroll    int

	pinned []int // must-stay-mounted indices, sorted ascending

	log *ll.Logger
}

// NewWindowManager creates a window manager with default overscan and
// breakpoints.
func NewWindowManager(log *ll.Logger) *WindowManager {
	if log == nil {
		log = ll.New("window")
	}
	return &WindowManager{
		measured:    make(map[int]int),
		overscan:    DefaultOverscan(),
		breakpoints: DefaultBreakpoints(),
		log:         log,
	}
}

// Overscan sets the overscan configuration.
func (w *WindowManager) Overscan(o Overscan) *WindowManager {
	w.overscan = o
	return w
}

// Breakpoints sets the thresholds used to resolve map-based overscan.
func (w *WindowManager) Breakpoints(bc BreakpointConfig) *WindowManager {
	w.breakpoints = bc
	return w
}

// DynamicHeights enables measured-height overrides.
func (w *WindowManager) DynamicHeights(on bool) *WindowManager {
	w.dynamic = on
	return w
}

// SetItems replaces the item sequence. This is a shape change: the
// measured-size table is cleared whole and offsets are rebuilt.
func (w *WindowManager) SetItems(items []VirtualItem) {
	w.items = items
	w.measured = make(map[int]int)
	w.pinned = nil
	w.dirty = true
	w.clampScroll()
}

// Items returns the current item sequence.
func (w *WindowManager) Items() []VirtualItem { return w.items }

// Len returns the item count.
func (w *WindowManager) Len() int { return len(w.items) }

// SetViewport records the viewport size in pixels.
func (w *WindowManager) SetViewport(width, height int) {
	w.viewportW = width
	w.viewportH = height
	w.clampScroll()
}

// SetScroll records the scroll offset in pixels, clamped to content.
func (w *WindowManager) SetScroll(offset int) {
	w.scroll = offset
	w.clampScroll()
}

// Scroll returns the current scroll offset.
func (w *WindowManager) Scroll() int { return w.scroll }

// Viewport returns the recorded viewport size.
func (w *WindowManager) Viewport() (width, height int) {
	return w.viewportW, w.viewportH
}

// ScrollToIndex scrolls so the item at index sits at the viewport top.
func (w *WindowManager) ScrollToIndex(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(w.items) {
		index = len(w.items) - 1
	}
	if index < 0 {
		return
	}
	w.SetScroll(w.OffsetOf(index))
}

// Measure records the real rendered height of an item and reports
// whether anything changed. Ignored unless dynamic heights are enabled;
// estimates keep serving items never yet rendered.
func (w *WindowManager) Measure(index, height int) bool {
	if !w.dynamic || index < 0 || index >= len(w.items) || height < 0 {
		return false
	}
	if prev, ok := w.measured[index]; ok && prev == height {
		return false
	}
	w.measured[index] = height
	w.dirty = true
	return true
}

// HeightOf returns the effective height of an item: the measured value
// once the renderer has reported one, the estimate otherwise. Zero is
// legal; zero-height items occupy no scroll space but keep their index.
func (w *WindowManager) HeightOf(index int) int {
	if index < 0 || index >= len(w.items) {
		return 0
	}
	if h, ok := w.measured[index]; ok {
		return h
	}
	return w.items[index].Height
}

// OffsetOf returns the pixel offset of the item's top edge.
func (w *WindowManager) OffsetOf(index int) int {
	w.rebuild()
	if index < 0 || len(w.items) == 0 {
		return 0
	}
	if index >= len(w.items) {
		return w.offsets[len(w.items)]
	}
	return w.offsets[index]
}

// TotalHeight returns the summed effective height of all items.
func (w *WindowManager) TotalHeight() int {
	w.rebuild()
	if len(w.items) == 0 {
		return 0
	}
	return w.offsets[len(w.items)]
}

// SetPinned declares externally-managed must-stay-mounted indices
// (the active sticky stack). They are merged into every visible set
// even when outside the natural scroll window.
func (w *WindowManager) SetPinned(indices []int) {
	w.pinned = w.pinned[:0]
	for _, i := range indices {
		if i >= 0 && i < len(w.items) {
			w.pinned = append(w.pinned, i)
		}
	}
	sort.Ints(w.pinned)
}

// VisibleRange computes the natural scroll window plus overscan. Zero
// items yield an empty range; a degenerate viewport still returns the
// item under the scroll offset so the renderer never goes dead.
func (w *WindowManager) VisibleRange() Range {
	if len(w.items) == 0 {
		return Range{}
	}
	w.rebuild()

	start := w.indexAt(w.scroll)
	if w.viewportH <= 0 {
		return Range{Start: start, End: start + 1}
	}
	end := w.indexAt(w.scroll+w.viewportH-1) + 1

	over := w.overscan.Resolve(w.breakpoints.Active(w.viewportW))
	start -= over
	end += over
	if start < 0 {
		start = 0
	}
	if end > len(w.items) {
		end = len(w.items)
	}
	return Range{Start: start, End: end}
}

// VisibleIndices returns the visible range merged with the pinned
// indices, sorted ascending. Sticky items never unmount while active.
func (w *WindowManager) VisibleIndices() []int {
	r := w.VisibleRange()
	out := make([]int, 0, r.Len()+len(w.pinned))
	for _, i := range w.pinned {
		if i < r.Start {
			out = append(out, i)
		}
	}
	for i := r.Start; i < r.End; i++ {
		out = append(out, i)
	}
	for _, i := range w.pinned {
		if i >= r.End {
			out = append(out, i)
		}
	}
	return out
}

// indexAt returns the index of the item occupying pixel offset y.
func (w *WindowManager) indexAt(y int) int {
	n := len(w.items)
	if y <= 0 || n == 0 {
		return 0
	}
	// First item whose bottom edge is past y.
	i := sort.Search(n, func(i int) bool { return w.offsets[i+1] > y })
	if i >= n {
		return n - 1
	}
	return i
}

// rebuild recomputes the prefix-sum offsets when estimates or measured
// values changed.
func (w *WindowManager) rebuild() {
	if !w.dirty && w.offsets != nil && len(w.offsets) == len(w.items)+1 {
		return
	}
	if cap(w.offsets) < len(w.items)+1 {
		w.offsets = make([]int, len(w.items)+1)
	} else {
		w.offsets = w.offsets[:len(w.items)+1]
	}
	w.offsets[0] = 0
	for i := range w.items {
		w.offsets[i+1] = w.offsets[i] + w.HeightOf(i)
	}
	w.dirty = false
}

func (w *WindowManager) clampScroll() {
	w.rebuild()
	max := w.TotalHeight() - w.viewportH
	if max < 0 {
		max = 0
	}
	if w.scroll > max {
		w.scroll = max
	}
	if w.scroll < 0 {
		w.scroll = 0
	}
}
