package gridcore

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/ll"
)

// TextMeasurer reports the rendered pixel width of text. The renderer
// supplies the real implementation; the bundled measurers approximate
// with display-cell counts for terminal hosts and tests.
type TextMeasurer interface {
	Measure(text string) int
}

// BatchMeasurer is a TextMeasurer with an explicit batch lifecycle: one
// offscreen measurement surface is prepared per batch and reused across
// every measurement in it, avoiding per-cell reflow. BeginBatch returns
// an error while the surface is not mounted yet; the caller retries
// after the next layout pass.
type BatchMeasurer interface {
	TextMeasurer
	BeginBatch() error
	EndBatch()
}

// CellMeasurer measures text as display cells times a fixed cell width.
type CellMeasurer struct {
	CellWidth int
}

func (m CellMeasurer) Measure(text string) int {
	w := m.CellWidth
	if w <= 0 {
		w = 1
	}
	return runewidth.StringWidth(text) * w
}

// StyledMeasurer measures styled text, ignoring ANSI escape sequences.
type StyledMeasurer struct {
	CellWidth int
}

func (m StyledMeasurer) Measure(text string) int {
	w := m.CellWidth
	if w <= 0 {
		w = 1
	}
	return lipgloss.Width(text) * w
}

// ContentSource supplies the text the oracle measures: the header label
// and a sample of rendered cell values per column.
type ContentSource interface {
	HeaderLabel(columnID string) string
	// CellSample returns at most limit rendered cell values.
	CellSample(columnID string, limit int) []string
}

// defaultSampleCap bounds the number of cell values measured per column
// so autosizing stays cheap on large datasets.
const defaultSampleCap = 100

// SizingOracle computes target column widths for the fit-content and
// fill-container policies.
type SizingOracle struct {
	measurer      TextMeasurer
	headerPadding int // room for sort/menu affordances next to the label
	cellPadding   int
	sampleCap     int
	log           *ll.Logger
}

// NewSizingOracle creates an oracle over the given measurer.
func NewSizingOracle(m TextMeasurer, log *ll.Logger) *SizingOracle {
	if log == nil {
		log = ll.New("autosize")
	}
	return &SizingOracle{
		measurer:      m,
		headerPadding: 28,
		cellPadding:   16,
		sampleCap:     defaultSampleCap,
		log:           log,
	}
}

// Padding overrides the header and cell padding constants.
func (o *SizingOracle) Padding(header, cell int) *SizingOracle {
	o.headerPadding = header
	o.cellPadding = cell
	return o
}

// SampleCap overrides the per-column sample limit.
func (o *SizingOracle) SampleCap(n int) *SizingOracle {
	if n > 0 {
		o.sampleCap = n
	}
	return o
}

// ContentWidth measures one column: the widest of its header label and
// sampled cell values, plus padding, clamped into the column's bounds.
func (o *SizingOracle) ContentWidth(c *Column, src ContentSource) (int, error) {
	if o.measurer == nil {
		return 0, ErrNotMounted
	}
	widest := o.measurer.Measure(src.HeaderLabel(c.ID)) + o.headerPadding
	for _, cell := range src.CellSample(c.ID, o.sampleCap) {
		if w := o.measurer.Measure(cell) + o.cellPadding; w > widest {
			widest = w
		}
	}
	return c.clampWidth(widest), nil
}

// FitContent applies content-based widths to every growable column and
// returns the changed assignments. Non-growable columns are left
// untouched. An unready measurement surface yields an empty result; the
// caller retries after the next layout pass.
func (o *SizingOracle) FitContent(cols *ColumnSet, src ContentSource) map[string]int {
	if err := o.beginBatch(); err != nil {
		o.log.Warnf("fit-content: %v", err)
		return nil
	}
	defer o.endBatch()

	changed := make(map[string]int)
	for i := 0; i < cols.Len(); i++ {
		c := cols.At(i)
		if !c.Growable {
			continue
		}
		w, err := o.ContentWidth(c, src)
		if err != nil {
			o.log.Warnf("fit-content %q: %v", c.ID, err)
			return nil
		}
		if w != c.Width {
			changed[c.ID] = w
		}
		cols.SetWidth(c.ID, w)
	}
	return changed
}

// FillContainer sizes columns so their content fills the container.
// Content widths are computed first; when their total falls short of
// the container, every growable column is scaled by the shortfall
// factor and re-clamped to its own max. Columns that hit their cap keep
// it without further redistribution - horizontal slack is accepted
// there, unlike in the resize solver. When content already meets or
// exceeds the container, the unscaled content widths stand and
// horizontal scrolling is expected.
func (o *SizingOracle) FillContainer(cols *ColumnSet, src ContentSource, containerWidth int) map[string]int {
	if containerWidth <= 0 {
		o.log.Debugf("fill: container width %d, nothing to do", containerWidth)
		return nil
	}
	if err := o.beginBatch(); err != nil {
		o.log.Warnf("fill: %v", err)
		return nil
	}
	defer o.endBatch()

	// Content basis: measured width for growable columns, the current
	// width for fixed ones (they participate in the total but never
	// scale).
	basis := make([]int, cols.Len())
	total := 0
	for i := 0; i < cols.Len(); i++ {
		c := cols.At(i)
		if c.Growable {
			w, err := o.ContentWidth(c, src)
			if err != nil {
				o.log.Warnf("fill %q: %v", c.ID, err)
				return nil
			}
			basis[i] = w
		} else {
			basis[i] = c.Width
		}
		total += basis[i]
	}
	if total <= 0 {
		return nil
	}

	factor := 1.0
	if total < containerWidth {
		factor = float64(containerWidth) / float64(total)
	}

	changed := make(map[string]int)
	for i := 0; i < cols.Len(); i++ {
		c := cols.At(i)
		if !c.Growable {
			continue
		}
		w := c.clampWidth(int(math.Round(float64(basis[i]) * factor)))
		if w != c.Width {
			changed[c.ID] = w
		}
		cols.SetWidth(c.ID, w)
	}
	return changed
}

func (o *SizingOracle) beginBatch() error {
	if o.measurer == nil {
		return ErrNotMounted
	}
	if b, ok := o.measurer.(BatchMeasurer); ok {
		return b.BeginBatch()
	}
	return nil
}

func (o *SizingOracle) endBatch() {
	if b, ok := o.measurer.(BatchMeasurer); ok {
		b.EndBatch()
	}
}
