package gridcore

import (
	"os"

	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"
)

// ChangeKind identifies which output surface of the grid changed.
type ChangeKind uint8

const (
	ChangeItems   ChangeKind = iota // item sequence reshaped
	ChangeWindow                    // visible range or heights moved
	ChangeColumns                   // column widths reassigned
)

// Change is delivered to listeners after the grid's outputs move.
type Change struct {
	Kind ChangeKind
}

// Grid wires the flattener, window manager, sticky resolver, resize
// solver and sizing oracle into one instance. It owns the column set
// and the expansion state; the grouping provider, renderer and input
// router stay external and talk to it through the methods below.
//
// Everything is synchronous and single-writer: only the active resize
// session mutates column widths, only the window manager mutates
// measured sizes. The debounced autosize path re-checks a generation
// counter before applying, so superseded work is cancelled rather than
// queued.
type Grid struct {
	cfg Config
	log *ll.Logger

	cols   *ColumnSet
	flat   *Flattener
	window *WindowManager
	resize *ResizeSolver
	oracle *SizingOracle
	sticky *StickyResolver

	roots    []*GroupNode
	rows     []any
	grouped  bool
	expanded map[string]bool

	stickyState StickyState

	gen      Generation
	debounce *Debouncer
	drag     Coalescer[int]
	fit      Coalescer[fitRequest]

	listeners     []func(Change)
	onResizeStart func(*ResizeSession)
	onResizeMove  func(map[string]int)
	onResizeEnd   func(map[string]int)
}

// NewGrid creates a grid with the given configuration, measurer and
// columns. A nil measurer leaves autosizing in the unready state until
// SetMeasurer is called.
func NewGrid(cfg Config, measurer TextMeasurer, cols ...Column) *Grid {
	log := ll.New("gridcore").Handler(lh.NewTextHandler(os.Stderr))
	if cfg.Debug {
		log.Enable()
	}

	g := &Grid{
		cfg:      cfg,
		log:      log,
		cols:     NewColumnSet(cols...),
		expanded: make(map[string]bool),
		debounce: NewDebouncer(cfg.debounce()),
	}
	g.flat = NewFlattener(cfg.layoutMode(), cfg.Heights, g.IsExpanded)
	g.window = NewWindowManager(log).
		Overscan(cfg.Overscan).
		Breakpoints(cfg.Breakpoints).
		DynamicHeights(cfg.DynamicHeights)
	g.resize = NewResizeSolver(g.cols, log).RTL(cfg.RTL)
	g.oracle = NewSizingOracle(measurer, log).
		Padding(cfg.HeaderPadding, cfg.CellPadding).
		SampleCap(cfg.SampleCap)
	g.reflatten()
	return g
}

// SetMeasurer replaces the text-measurement facility, typically once
// the renderer has mounted its measurement surface.
func (g *Grid) SetMeasurer(m TextMeasurer) {
	g.oracle.measurer = m
}

// Columns returns the live column set.
func (g *Grid) Columns() *ColumnSet { return g.cols }

// ColumnWidths returns the id -> width map exposed to the renderer.
func (g *Grid) ColumnWidths() map[string]int { return g.cols.Widths() }

// Flattener returns the flattener for placeholder/footer options; call
// Refresh after changing them.
func (g *Grid) Flattener() *Flattener { return g.flat }

// --- data --------------------------------------------------------------

// SetRows installs a flat, non-grouped dataset.
func (g *Grid) SetRows(rows []any) {
	g.rows = rows
	g.grouped = false
	g.reflatten()
}

// SetGroups installs a grouped row tree. The grid reads the tree; the
// grouping provider keeps owning it.
func (g *Grid) SetGroups(roots []*GroupNode) {
	g.roots = roots
	g.grouped = true
	g.reflatten()
}

// IsExpanded reports a group's expansion state. Groups default to
// expanded.
func (g *Grid) IsExpanded(groupID string) bool {
	if v, ok := g.expanded[groupID]; ok {
		return v
	}
	return true
}

// SetExpanded records a group's expansion state and reshapes the
// sequence.
func (g *Grid) SetExpanded(groupID string, on bool) {
	if g.IsExpanded(groupID) == on {
		return
	}
	g.expanded[groupID] = on
	g.reflatten()
}

// ToggleExpanded flips a group's expansion state.
func (g *Grid) ToggleExpanded(groupID string) {
	g.SetExpanded(groupID, !g.IsExpanded(groupID))
}

// Refresh re-flattens from the current tree, for callers that mutated
// the tree in place or changed flattener options.
func (g *Grid) Refresh() { g.reflatten() }

// reflatten rebuilds the item sequence. A reshape invalidates all
// in-flight async work and clears measured heights (the window manager
// does that on SetItems).
func (g *Grid) reflatten() {
	g.gen.Next()
	var items []VirtualItem
	if g.grouped {
		items = g.flat.Flatten(g.roots)
	} else {
		items = g.flat.FlattenRows(g.rows)
	}
	g.window.SetItems(items)
	g.sticky = NewStickyResolver(g.cfg.stickyMode(), items, g.window.HeightOf)
	g.syncSticky()
	g.log.Debugf("reflatten: %d items", len(items))
	g.notify(Change{Kind: ChangeItems})
}

// --- layout outputs ----------------------------------------------------

// Items returns the flattened virtual item sequence.
func (g *Grid) Items() []VirtualItem { return g.window.Items() }

// HeightOf returns the effective height of the item at index.
func (g *Grid) HeightOf(index int) int { return g.window.HeightOf(index) }

// TotalHeight returns the full content height in pixels.
func (g *Grid) TotalHeight() int { return g.window.TotalHeight() }

// VisibleRange returns the current window including overscan.
func (g *Grid) VisibleRange() Range { return g.window.VisibleRange() }

// VisibleIndices returns the window merged with the active sticky
// indices.
func (g *Grid) VisibleIndices() []int { return g.window.VisibleIndices() }

// Sticky returns the resolved sticky stack for the current window.
func (g *Grid) Sticky() StickyState { return g.stickyState }

// --- viewport / scroll -------------------------------------------------

// SetViewport feeds the live viewport size from the scroll container.
func (g *Grid) SetViewport(width, height int) {
	g.window.SetViewport(width, height)
	g.syncSticky()
	g.notify(Change{Kind: ChangeWindow})
}

// SetScroll feeds the live scroll offset from the scroll container.
func (g *Grid) SetScroll(offset int) {
	g.window.SetScroll(offset)
	g.syncSticky()
	g.notify(Change{Kind: ChangeWindow})
}

// ScrollBy scrolls by a pixel delta.
func (g *Grid) ScrollBy(delta int) {
	g.SetScroll(g.window.Scroll() + delta)
}

// ScrollToIndex scrolls the item at index to the viewport top.
func (g *Grid) ScrollToIndex(index int) {
	g.window.ScrollToIndex(index)
	g.syncSticky()
	g.notify(Change{Kind: ChangeWindow})
}

// Measure records a real rendered item height (dynamic mode). The
// renderer calls this strictly after its commit, never against stale
// geometry. Ignored measurements (static mode, out-of-range index, an
// unchanged value) move nothing and notify nobody.
func (g *Grid) Measure(index, height int) {
	if !g.window.Measure(index, height) {
		return
	}
	g.syncSticky()
	g.notify(Change{Kind: ChangeWindow})
}

func (g *Grid) syncSticky() {
	g.stickyState = g.sticky.Resolve(g.window.VisibleRange())
	g.window.SetPinned(g.stickyState.Indices)
}

// --- resize ------------------------------------------------------------

// OnResizeStart registers the drag-start callback (cursor/visual
// affordances on the renderer side).
func (g *Grid) OnResizeStart(fn func(*ResizeSession)) *Grid {
	g.onResizeStart = fn
	return g
}

// OnResizeMove registers the continuous width-feedback callback.
func (g *Grid) OnResizeMove(fn func(map[string]int)) *Grid {
	g.onResizeMove = fn
	return g
}

// OnResizeEnd registers the commit callback.
func (g *Grid) OnResizeEnd(fn func(map[string]int)) *Grid {
	g.onResizeEnd = fn
	return g
}

// StartResize begins a pairwise shift drag. Configuration errors are
// logged no-ops at the grid surface; the error is returned for callers
// that care.
func (g *Grid) StartResize(columnID string, pointer int) error {
	if err := g.resize.Start(columnID, pointer); err != nil {
		return err
	}
	if g.onResizeStart != nil {
		g.onResizeStart(g.resize.Session())
	}
	return nil
}

// StartGroupResize begins a group-proportional drag over the leaf
// columns under one group header.
func (g *Grid) StartGroupResize(columnIDs []string, pointer int) error {
	if err := g.resize.StartGroup(columnIDs, pointer); err != nil {
		return err
	}
	if g.onResizeStart != nil {
		g.onResizeStart(g.resize.Session())
	}
	return nil
}

// MoveResize applies a pointer move to the active drag immediately.
func (g *Grid) MoveResize(pointer int) {
	changed := g.resize.Move(pointer)
	if len(changed) == 0 {
		return
	}
	if g.onResizeMove != nil {
		g.onResizeMove(changed)
	}
	g.notify(Change{Kind: ChangeColumns})
}

// SubmitDrag records a pointer move for the next frame; only the most
// recent coordinate survives until FlushDrag runs.
func (g *Grid) SubmitDrag(pointer int) { g.drag.Submit(pointer) }

// FlushDrag applies the latest submitted pointer move, if any. The
// renderer calls this once per animation frame.
func (g *Grid) FlushDrag() {
	if p, ok := g.drag.Take(); ok {
		g.MoveResize(p)
	}
}

// EndResize commits the drag at the final pointer position.
func (g *Grid) EndResize(pointer int) {
	final := g.resize.End(pointer)
	if final == nil {
		return
	}
	g.drag.Take() // drop any uncommitted frame
	if g.onResizeEnd != nil {
		g.onResizeEnd(final)
	}
	g.notify(Change{Kind: ChangeColumns})
}

// CancelResize drops the active drag and restores start widths.
func (g *Grid) CancelResize() {
	g.resize.Cancel()
	g.drag.Take()
	g.notify(Change{Kind: ChangeColumns})
}

// ResizeActive reports whether a drag session is in flight.
func (g *Grid) ResizeActive() bool { return g.resize.Active() }

// --- autosize ----------------------------------------------------------

// AutosizeContent applies fit-content widths synchronously.
func (g *Grid) AutosizeContent(src ContentSource) {
	if changed := g.oracle.FitContent(g.cols, src); len(changed) > 0 {
		g.notify(Change{Kind: ChangeColumns})
	}
}

// AutosizeFill applies fill-container widths against the current
// viewport width.
func (g *Grid) AutosizeFill(src ContentSource) {
	width, _ := g.window.Viewport()
	if changed := g.oracle.FillContainer(g.cols, src, width); len(changed) > 0 {
		g.notify(Change{Kind: ChangeColumns})
	}
}

// fitRequest is a pending debounced autosize: the source to measure and
// the generation it was scheduled under.
type fitRequest struct {
	src ContentSource
	gen uint64
}

// AutosizeContentDebounced coalesces rapid triggers into one trailing
// request. The timer goroutine only parks the request in the coalescer;
// the host picks it up with FlushAutosize on its own loop, so column
// state keeps a single writer. A reshape in the meantime invalidates
// the pending request.
func (g *Grid) AutosizeContentDebounced(src ContentSource) {
	gen := g.gen.Current()
	g.debounce.Trigger(func() {
		g.fit.Submit(fitRequest{src: src, gen: gen})
	})
}

// FlushAutosize applies the latest debounced autosize request, if any.
// The host calls this once per frame, like FlushDrag. Requests
// superseded by a reshape are dropped.
func (g *Grid) FlushAutosize() {
	req, ok := g.fit.Take()
	if !ok {
		return
	}
	if !g.gen.Valid(req.gen) {
		return
	}
	g.AutosizeContent(req.src)
}

// --- listeners ---------------------------------------------------------

// OnChange registers a listener for output changes.
func (g *Grid) OnChange(fn func(Change)) *Grid {
	g.listeners = append(g.listeners, fn)
	return g
}

func (g *Grid) notify(c Change) {
	for _, fn := range g.listeners {
		fn(c)
	}
}
