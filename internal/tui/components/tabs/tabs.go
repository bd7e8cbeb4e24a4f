package tabs

import (
	"github.com/charmbracelet/lipgloss"
)

// TabGroup is a row of mutually exclusive tabs. The group owns the selected
// index; individual tabs carry no state of their own.
type TabGroup struct {
	labels   []string
	selected int

	Active   lipgloss.Style
	Inactive lipgloss.Style
}

func New(labels ...string) TabGroup {
	return TabGroup{
		labels:   labels,
		Active:   lipgloss.NewStyle().Bold(true),
		Inactive: lipgloss.NewStyle().Faint(true),
	}
}

func (g TabGroup) Selected() int {
	return g.selected
}

func (g TabGroup) Label() string {
	if len(g.labels) == 0 {
		return ""
	}
	return g.labels[g.selected]
}

func (g TabGroup) Len() int {
	return len(g.labels)
}

// Select activates tab i. Out of range indexes are ignored.
func (g *TabGroup) Select(i int) {
	if i >= 0 && i < len(g.labels) {
		g.selected = i
	}
}

func (g *TabGroup) Next() {
	if len(g.labels) > 0 {
		g.selected = (g.selected + 1) % len(g.labels)
	}
}

func (g *TabGroup) Prev() {
	if len(g.labels) > 0 {
		g.selected = (g.selected - 1 + len(g.labels)) % len(g.labels)
	}
}

func (g TabGroup) View() string {
	rendered := make([]string, len(g.labels))
	for i, l := range g.labels {
		if i == g.selected {
			rendered[i] = g.Active.Render(l)
		} else {
			rendered[i] = g.Inactive.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
