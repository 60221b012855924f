package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"gridcore"
)

// Demo dataset: instruments grouped by sector. One terminal cell is one
// "pixel", so all heights are 1 and widths are cell counts.

type instrument struct {
	Symbol string
	Name   string
	Price  float64
	Change float64
}

var sectors = []*gridcore.GroupNode{
	{ID: "tech", Rows: rows(
		instrument{"AAPL", "Apple Inc.", 228.50, 1.2},
		instrument{"MSFT", "Microsoft Corporation", 512.04, -0.4},
		instrument{"NVDA", "NVIDIA Corporation", 181.77, 3.1},
		instrument{"GOOG", "Alphabet Inc.", 211.30, 0.7},
	)},
	{ID: "energy", Rows: rows(
		instrument{"XOM", "Exxon Mobil", 112.19, -1.1},
		instrument{"CVX", "Chevron", 158.32, -0.2},
	)},
	{ID: "finance", Rows: rows(
		instrument{"JPM", "JPMorgan Chase & Co.", 301.41, 0.9},
		instrument{"GS", "Goldman Sachs", 744.60, 1.8},
		instrument{"BAC", "Bank of America", 51.22, 0.1},
	)},
}

func rows(ins ...instrument) []any {
	out := make([]any, len(ins))
	for i, v := range ins {
		out[i] = v
	}
	return out
}

// source feeds the sizing oracle from the dataset.
type source struct{}

func (source) HeaderLabel(columnID string) string {
	switch columnID {
	case "symbol":
		return "Symbol"
	case "name":
		return "Name"
	case "price":
		return "Price"
	case "change":
		return "Change"
	}
	return columnID
}

func (source) CellSample(columnID string, limit int) []string {
	var out []string
	for _, g := range sectors {
		for _, r := range g.Rows {
			if len(out) >= limit {
				return out
			}
			out = append(out, cellText(r.(instrument), columnID))
		}
	}
	return out
}

func cellText(in instrument, columnID string) string {
	switch columnID {
	case "symbol":
		return in.Symbol
	case "name":
		return in.Name
	case "price":
		return strconv.FormatFloat(in.Price, 'f', 2, 64)
	case "change":
		return fmt.Sprintf("%+.1f%%", in.Change)
	}
	return ""
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	groupStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	footerStyle = lipgloss.NewStyle().Faint(true)
	stickyStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type model struct {
	grid   *gridcore.Grid
	width  int
	height int
	drag   int // synthetic pointer coordinate while resizing
	status string
}

func newModel() model {
	cfg := gridcore.DefaultConfig()
	cfg.Heights = gridcore.Heights{
		Row:             1,
		GroupHeader:     1,
		ColumnHeaderRow: 1,
		HeaderRowCount:  1,
		CollapsedHeader: 1,
		Footer:          1,
	}
	cfg.HeaderPadding = 3
	cfg.CellPadding = 2

	grid := gridcore.NewGrid(cfg, gridcore.CellMeasurer{CellWidth: 1},
		gridcore.Column{ID: "symbol", Width: 8, MinWidth: 6, MaxWidth: 12, Growable: true, Resizable: true},
		gridcore.Column{ID: "name", Width: 24, MinWidth: 10, Growable: true, Resizable: true},
		gridcore.Column{ID: "price", Width: 10, MinWidth: 8, MaxWidth: 14, Growable: true, Resizable: true},
		gridcore.Column{ID: "change", Width: 8, MinWidth: 7, MaxWidth: 10, Growable: true, Resizable: true},
	)
	grid.SetGroups(sectors)

	m := model{grid: grid}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		m.width, m.height = w, h
		grid.SetViewport(w, h-2)
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.grid.SetViewport(msg.Width, msg.Height-2)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "j", "down":
			m.grid.ScrollBy(1)
		case "k", "up":
			m.grid.ScrollBy(-1)
		case "ctrl+d":
			m.grid.ScrollBy(m.height / 2)
		case "ctrl+u":
			m.grid.ScrollBy(-m.height / 2)
		case "g":
			m.grid.SetScroll(0)
		case "G":
			m.grid.SetScroll(m.grid.TotalHeight())
		case " ":
			if id := m.activeGroup(); id != "" {
				m.grid.ToggleExpanded(id)
				m.status = "toggled " + id
			}
		case "h", "l":
			if !m.grid.ResizeActive() {
				m.drag = 0
				if err := m.grid.StartResize("name", m.drag); err != nil {
					m.status = err.Error()
					break
				}
			}
			if msg.String() == "l" {
				m.drag += 2
			} else {
				m.drag -= 2
			}
			m.grid.MoveResize(m.drag)
			m.status = fmt.Sprintf("resizing name -> %d", m.grid.ColumnWidths()["name"])
		case "enter":
			if m.grid.ResizeActive() {
				m.grid.EndResize(m.drag)
				m.status = "resize committed"
			}
		case "a":
			m.grid.AutosizeContent(source{})
			m.status = "fit content"
		case "f":
			m.grid.AutosizeFill(source{})
			m.status = "fill container"
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	sticky := m.grid.Sticky()
	items := m.grid.Items()
	for _, idx := range sticky.Indices {
		b.WriteString(stickyStyle.Render(m.line(items[idx])))
		b.WriteByte('\n')
	}

	budget := m.height - 2 - len(sticky.Indices)
	r := m.grid.VisibleRange()
	for i := r.Start; i < r.End && budget > 0; i++ {
		if _, isSticky := sticky.Offsets[i]; isSticky {
			continue
		}
		b.WriteString(m.line(items[i]))
		b.WriteByte('\n')
		budget--
	}

	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"j/k scroll  space fold  h/l resize  enter commit  a fit  f fill  q quit  | %s", m.status)))
	return b.String()
}

func (m model) line(it gridcore.VirtualItem) string {
	indent := strings.Repeat("  ", it.Depth)
	switch it.Kind {
	case gridcore.ItemGroupHeader:
		marker := "▾"
		if !m.grid.IsExpanded(it.GroupID) {
			marker = "▸"
		}
		return groupStyle.Render(fmt.Sprintf("%s%s %s", indent, marker, strings.ToUpper(it.GroupID)))
	case gridcore.ItemColumnHeaders:
		return headerStyle.Render(indent + m.row(func(id string) string { return source{}.HeaderLabel(id) }))
	case gridcore.ItemFooter:
		return footerStyle.Render(indent + strings.Repeat("─", maxInt(0, m.width-len(indent))))
	default:
		in := it.Row.(instrument)
		return indent + m.row(func(id string) string { return cellText(in, id) })
	}
}

// row lays the four cells out at the grid's live column widths.
func (m model) row(cell func(columnID string) string) string {
	var b strings.Builder
	widths := m.grid.ColumnWidths()
	for _, id := range m.grid.Columns().IDs() {
		w := widths[id]
		b.WriteString(fmt.Sprintf("%-*s", w, fitCell(cell(id), w)))
	}
	return b.String()
}

// fitCell truncates text to w display cells, never mid-rune.
func fitCell(text string, w int) string {
	if lipgloss.Width(text) <= w {
		return text
	}
	return runewidth.Truncate(text, w, "…")
}

// activeGroup returns the group whose header is currently sticky.
func (m model) activeGroup() string {
	items := m.grid.Items()
	for _, idx := range m.grid.Sticky().Indices {
		if items[idx].Kind == gridcore.ItemGroupHeader {
			return items[idx].GroupID
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func main() {
	if _, err := tea.NewProgram(newModel(), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "gridview:", err)
		os.Exit(1)
	}
}
