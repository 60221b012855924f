package gridcore

import "math"

// Pin anchors a column to an edge of the grid; the renderer excludes
// pinned columns from horizontal scrolling.
type Pin uint8

const (
	PinNone Pin = iota
	PinLeft
	PinRight
)

func (p Pin) String() string {
	switch p {
	case PinLeft:
		return "left"
	case PinRight:
		return "right"
	}
	return "none"
}

// Column is the sizing state of one grid column. MinWidth <= Width <=
// MaxWidth holds after every mutation; MaxWidth 0 means unbounded.
type Column struct {
	ID        string
	Width     int
	MinWidth  int
	MaxWidth  int
	Growable  bool // eligible for autosize and fill scaling
	Resizable bool // eligible as a drag target or shift neighbor
	Pin       Pin
}

// effectiveMax returns MaxWidth with 0 mapped to unbounded.
func (c *Column) effectiveMax() int {
	if c.MaxWidth <= 0 {
		return math.MaxInt
	}
	return c.MaxWidth
}

// clampWidth clamps w into the column's bounds.
func (c *Column) clampWidth(w int) int {
	if w < c.MinWidth {
		w = c.MinWidth
	}
	if max := c.effectiveMax(); w > max {
		w = max
	}
	return w
}

// growRoom is how much the column can still grow.
func (c *Column) growRoom() int {
	room := c.effectiveMax() - c.Width
	if room < 0 {
		return 0
	}
	return room
}

// shrinkRoom is how much the column can still shrink.
func (c *Column) shrinkRoom() int {
	room := c.Width - c.MinWidth
	if room < 0 {
		return 0
	}
	return room
}

// ColumnSet is the ordered collection of columns for one grid instance.
// Only the active resize session and the autosizer mutate widths, and
// every write goes through SetWidth so the bounds invariant holds.
type ColumnSet struct {
	cols []*Column
	byID map[string]*Column
}

// NewColumnSet creates a column set. Columns with a zero Width start at
// their MinWidth. Resizable is never inferred from Growable; pass what
// you mean.
func NewColumnSet(cols ...Column) *ColumnSet {
	s := &ColumnSet{byID: make(map[string]*Column, len(cols))}
	for i := range cols {
		c := cols[i]
		if c.Width == 0 {
			c.Width = c.MinWidth
		}
		c.Width = c.clampWidth(c.Width)
		p := &c
		s.cols = append(s.cols, p)
		s.byID[c.ID] = p
	}
	return s
}

// Len returns the number of columns.
func (s *ColumnSet) Len() int { return len(s.cols) }

// At returns the column at position i, or nil if out of bounds.
func (s *ColumnSet) At(i int) *Column {
	if i < 0 || i >= len(s.cols) {
		return nil
	}
	return s.cols[i]
}

// Get returns the column with the given id.
func (s *ColumnSet) Get(id string) (*Column, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// IndexOf returns the position of the column with the given id, or -1.
func (s *ColumnSet) IndexOf(id string) int {
	for i, c := range s.cols {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// SetWidth assigns a width, clamped to the column's bounds. Unknown ids
// return ErrUnknownColumn.
func (s *ColumnSet) SetWidth(id string, w int) error {
	c, ok := s.byID[id]
	if !ok {
		return ErrUnknownColumn
	}
	c.Width = c.clampWidth(w)
	return nil
}

// Widths returns the live id -> width map exposed to the renderer.
func (s *ColumnSet) Widths() map[string]int {
	m := make(map[string]int, len(s.cols))
	for _, c := range s.cols {
		m[c.ID] = c.Width
	}
	return m
}

// TotalWidth sums the current column widths.
func (s *ColumnSet) TotalWidth() int {
	total := 0
	for _, c := range s.cols {
		total += c.Width
	}
	return total
}

// IDs returns the column ids in display order.
func (s *ColumnSet) IDs() []string {
	ids := make([]string, len(s.cols))
	for i, c := range s.cols {
		ids[i] = c.ID
	}
	return ids
}
