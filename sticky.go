package gridcore

import "sort"

// StickyMode selects the sticky-header topology.
type StickyMode uint8

const (
	// StickyStandard pins the sequence-wide column-headers item at
	// index 0 plus the group header active at the scroll position.
	StickyStandard StickyMode = iota
	// StickyGrouped pins the active group header plus that group's own
	// column-headers item.
	StickyGrouped
)

// StickyState is the resolved sticky stack: the pinned indices sorted
// ascending and each index's vertical offset, the cumulative height of
// the layers stacked above it. The topmost layer sits at offset 0.
type StickyState struct {
	Indices []int
	Offsets map[int]int
}

// StickyResolver determines which item indices must be pinned to the
// top of the viewport for a given visible range. Group-header positions
// are indexed once per shape change so per-scroll resolution costs
// O(log N) plus the active sticky count.
type StickyResolver struct {
	mode         StickyMode
	items        []VirtualItem
	groupHeaders []int // sorted indices of group-header items
	heightOf     func(index int) int
}

// NewStickyResolver indexes the item sequence. heightOf supplies the
// effective (possibly measured) item height; nil falls back to the
// items' estimates.
func NewStickyResolver(mode StickyMode, items []VirtualItem, heightOf func(int) int) *StickyResolver {
	r := &StickyResolver{mode: mode, items: items, heightOf: heightOf}
	if r.heightOf == nil {
		r.heightOf = func(i int) int {
			if i < 0 || i >= len(items) {
				return 0
			}
			return items[i].Height
		}
	}
	for i, it := range items {
		if it.Kind == ItemGroupHeader {
			r.groupHeaders = append(r.groupHeaders, i)
		}
	}
	return r
}

// Resolve computes the sticky stack for the current visible range.
// Called on every range change, so it stays cheap.
func (r *StickyResolver) Resolve(visible Range) StickyState {
	state := StickyState{Offsets: make(map[int]int)}
	if len(r.items) == 0 {
		return state
	}

	// Stacking order, outermost first.
	var stack []int
	switch r.mode {
	case StickyStandard:
		stack = append(stack, 0)
		if gh, ok := r.activeGroupHeader(visible.Start); ok && gh != 0 {
			stack = append(stack, gh)
		}
	case StickyGrouped:
		gh, ok := r.activeGroupHeader(visible.Start)
		if !ok {
			return state
		}
		stack = append(stack, gh)
		if ch, ok := r.columnHeadersAfter(gh); ok {
			stack = append(stack, ch)
		}
	}

	offset := 0
	for _, idx := range stack {
		state.Offsets[idx] = offset
		offset += r.heightOf(idx)
	}
	state.Indices = append(state.Indices, stack...)
	sort.Ints(state.Indices)
	return state
}

// activeGroupHeader returns the closest group-header index at or before
// start; if the range starts before any group header, the first one.
func (r *StickyResolver) activeGroupHeader(start int) (int, bool) {
	if len(r.groupHeaders) == 0 {
		return 0, false
	}
	// First group header strictly after start.
	i := sort.Search(len(r.groupHeaders), func(i int) bool {
		return r.groupHeaders[i] > start
	})
	if i == 0 {
		return r.groupHeaders[0], true
	}
	return r.groupHeaders[i-1], true
}

// columnHeadersAfter finds the column-headers item immediately
// following the group header. A nested group header appearing first
// means the active group has no visible column-headers of its own, and
// the scan stops.
func (r *StickyResolver) columnHeadersAfter(groupHeader int) (int, bool) {
	for i := groupHeader + 1; i < len(r.items); i++ {
		switch r.items[i].Kind {
		case ItemColumnHeaders:
			return i, true
		case ItemGroupHeader:
			return 0, false
		}
	}
	return 0, false
}
