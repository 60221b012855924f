package gridcore

import (
	"math"

	"github.com/olekukonko/ll"
)

// ResizeMode selects the width-redistribution algorithm for a drag.
type ResizeMode uint8

const (
	// ResizeShift redistributes width pairwise between the dragged
	// column and its immediate neighbor.
	ResizeShift ResizeMode = iota
	// ResizeGroup redistributes a delta across all leaf columns under a
	// group header, weighted by their share of the group's total width.
	ResizeGroup
)

// redistribution tolerances for group-proportional resize. The bounded
// iteration count keeps per-frame drag latency flat; pathological
// min/max sets settle within the epsilon rather than exactly.
const (
	overflowEpsilon = 0.5
	overflowPasses  = 3
)

// ResizeSession captures the state of one drag: the pointer anchor and
// every affected column's width at drag start. All move math runs
// against these start values, never against intermediate widths, so a
// drag is stateless with respect to its own feedback.
type ResizeSession struct {
	Mode   ResizeMode
	anchor int            // pointer coordinate at drag start
	start  map[string]int // column id -> width at drag start
	target string         // dragged column (shift mode)
	peer   string         // absorbing neighbor (shift mode)
	group  []string       // leaf columns under the header (group mode)
}

// Columns returns the ids affected by this session.
func (s *ResizeSession) Columns() []string {
	if s.Mode == ResizeShift {
		return []string{s.target, s.peer}
	}
	return s.group
}

// ResizeSolver turns pointer-drag deltas into new column width
// assignments under min/max constraints. At most one session is active
// per solver; starting a new drag atomically replaces any session still
// in flight.
type ResizeSolver struct {
	cols    *ColumnSet
	rtl     bool
	log     *ll.Logger
	session *ResizeSession
}

// NewResizeSolver creates a solver over the given column set.
func NewResizeSolver(cols *ColumnSet, log *ll.Logger) *ResizeSolver {
	if log == nil {
		log = ll.New("resize")
	}
	return &ResizeSolver{cols: cols, log: log}
}

// RTL flips the pointer-delta sign for right-to-left layouts.
func (r *ResizeSolver) RTL(on bool) *ResizeSolver {
	r.rtl = on
	return r
}

// Active reports whether a drag session is in flight.
func (r *ResizeSolver) Active() bool { return r.session != nil }

// Session returns the active session, or nil.
func (r *ResizeSolver) Session() *ResizeSession { return r.session }

// Start begins a pairwise shift drag on the given column. The immediate
// next sibling absorbs the opposite delta; if either column is not
// resizable, or the column is unknown or last, the whole operation is
// rejected and no session starts.
func (r *ResizeSolver) Start(columnID string, pointer int) error {
	idx := r.cols.IndexOf(columnID)
	if idx < 0 {
		r.log.Warnf("resize start: unknown column %q", columnID)
		return ErrUnknownColumn
	}
	c := r.cols.At(idx)
	n := r.cols.At(idx + 1)
	if n == nil {
		r.log.Warnf("resize start: column %q has no following sibling", columnID)
		return ErrColumnFixed
	}
	if !c.Resizable || !n.Resizable {
		r.log.Warnf("resize start: %q/%q not resizable", c.ID, n.ID)
		return ErrColumnFixed
	}

	// Supersedes any in-flight session for this grid instance.
	r.session = &ResizeSession{
		Mode:   ResizeShift,
		anchor: pointer,
		target: c.ID,
		peer:   n.ID,
		start: map[string]int{
			c.ID: c.Width,
			n.ID: n.Width,
		},
	}
	r.log.Debugf("shift session: %q anchor=%d start=%d peer=%q", c.ID, pointer, c.Width, n.Width)
	return nil
}

// StartGroup begins a group-proportional drag spanning the given leaf
// columns. Unknown ids reject the operation.
func (r *ResizeSolver) StartGroup(columnIDs []string, pointer int) error {
	if len(columnIDs) == 0 {
		return ErrUnknownColumn
	}
	start := make(map[string]int, len(columnIDs))
	for _, id := range columnIDs {
		c, ok := r.cols.Get(id)
		if !ok {
			r.log.Warnf("group resize start: unknown column %q", id)
			return ErrUnknownColumn
		}
		start[id] = c.Width
	}
	r.session = &ResizeSession{
		Mode:   ResizeGroup,
		anchor: pointer,
		group:  append([]string(nil), columnIDs...),
		start:  start,
	}
	r.log.Debugf("group session: %d columns anchor=%d", len(columnIDs), pointer)
	return nil
}

// Move recomputes widths for the current pointer position and applies
// them, returning the changed id -> width assignments. A nil map means
// the move was a no-op; there is no error path during a drag.
func (r *ResizeSolver) Move(pointer int) map[string]int {
	s := r.session
	if s == nil {
		return nil
	}
	delta := pointer - s.anchor
	if r.rtl {
		delta = -delta
	}
	var changed map[string]int
	if s.Mode == ResizeShift {
		changed = r.shift(s, delta)
	} else {
		changed = r.proportional(s, delta)
	}
	for id, w := range changed {
		r.cols.SetWidth(id, w)
	}
	return changed
}

// End applies the final pointer position, commits, and clears the
// session. The returned map holds the committed widths of every column
// the session touched.
func (r *ResizeSolver) End(pointer int) map[string]int {
	s := r.session
	if s == nil {
		return nil
	}
	r.Move(pointer)
	final := make(map[string]int, len(s.start))
	for id := range s.start {
		if c, ok := r.cols.Get(id); ok {
			final[id] = c.Width
		}
	}
	r.session = nil
	r.log.Debugf("session committed: %v", final)
	return final
}

// Cancel drops the session, restoring the start widths.
func (r *ResizeSolver) Cancel() {
	s := r.session
	if s == nil {
		return
	}
	for id, w := range s.start {
		r.cols.SetWidth(id, w)
	}
	r.session = nil
}

// shift computes the pairwise assignment: the dragged column takes the
// clamped delta, the neighbor absorbs the exact opposite, and the
// permitted delta is bounded by how far the neighbor can move. Moves
// with less than a pixel of neighbor room are no-ops, not errors.
func (r *ResizeSolver) shift(s *ResizeSession, delta int) map[string]int {
	c, ok := r.cols.Get(s.target)
	if !ok {
		return nil
	}
	n, ok := r.cols.Get(s.peer)
	if !ok {
		return nil
	}
	startC := s.start[c.ID]
	startN := s.start[n.ID]

	desired := c.clampWidth(startC + delta)
	want := desired - startC
	if want == 0 {
		return nil
	}

	if want > 0 {
		room := startN - n.MinWidth
		if room < 1 {
			return nil
		}
		if want > room {
			want = room
		}
	} else {
		room := n.effectiveMax() - startN
		if room < 1 {
			return nil
		}
		if -want > room {
			want = -room
		}
	}

	return map[string]int{
		c.ID: startC + want,
		n.ID: startN - want,
	}
}

// proportional distributes the group delta across the leaves by their
// share of the group's start width, clamps each leaf into its bounds,
// and redistributes the clamped overflow for a bounded number of passes.
func (r *ResizeSolver) proportional(s *ResizeSession, delta int) map[string]int {
	type leaf struct {
		col   *Column
		start float64
		width float64
	}
	leaves := make([]leaf, 0, len(s.group))
	var startW, sumMin, sumMax float64
	for _, id := range s.group {
		c, ok := r.cols.Get(id)
		if !ok {
			return nil
		}
		w := float64(s.start[id])
		leaves = append(leaves, leaf{col: c, start: w, width: w})
		startW += w
		sumMin += float64(c.MinWidth)
		if c.MaxWidth > 0 {
			sumMax += float64(c.MaxWidth)
		} else {
			sumMax += math.Inf(1)
		}
	}
	if startW <= 0 {
		// Degenerate zero-width group; dividing shares is meaningless.
		return nil
	}

	desired := startW + float64(delta)
	if desired < sumMin {
		desired = sumMin
	}
	if desired > sumMax {
		desired = sumMax
	}
	actualDelta := desired - startW
	if actualDelta == 0 {
		return nil
	}

	// First pass: ideal proportional assignment, clamped per leaf.
	var overflow float64
	for i := range leaves {
		l := &leaves[i]
		ideal := l.start + actualDelta*(l.start/startW)
		clamped := clampf(ideal, float64(l.col.MinWidth), maxf(l.col))
		overflow += ideal - clamped
		l.width = clamped
	}

	// Redistribute what clamping swallowed among leaves that can still
	// move in the needed direction. Convergence is not guaranteed for
	// pathological constraint sets; the pass cap bounds the work.
	for pass := 0; pass < overflowPasses && math.Abs(overflow) > overflowEpsilon; pass++ {
		var movable float64
		for i := range leaves {
			l := &leaves[i]
			if room(l.width, l.col, overflow) > 0 {
				movable += l.width
			}
		}
		if movable <= 0 {
			break
		}
		spill := overflow
		overflow = 0
		for i := range leaves {
			l := &leaves[i]
			if room(l.width, l.col, spill) <= 0 {
				continue
			}
			ideal := l.width + spill*(l.width/movable)
			clamped := clampf(ideal, float64(l.col.MinWidth), maxf(l.col))
			overflow += ideal - clamped
			l.width = clamped
		}
	}

	changed := make(map[string]int, len(leaves))
	for i := range leaves {
		l := &leaves[i]
		w := int(math.Round(l.width))
		changed[l.col.ID] = l.col.clampWidth(w)
	}
	return changed
}

// room is how far a leaf at width w can still move in the direction of
// the outstanding overflow.
func room(w float64, c *Column, overflow float64) float64 {
	if overflow > 0 {
		return maxf(c) - w
	}
	return w - float64(c.MinWidth)
}

func maxf(c *Column) float64 {
	if c.MaxWidth <= 0 {
		return math.Inf(1)
	}
	return float64(c.MaxWidth)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
