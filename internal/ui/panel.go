package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todoclient/internal/model"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box around lines using the theme borders.
func (p *Printer) Panel(lines []string) {
	t := p.theme
	maxw := 0
	for _, ln := range lines {
		if w := lipgloss.Width(ln); w > maxw {
			maxw = w
		}
	}
	fmt.Fprintln(p.out, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		pad := strings.Repeat(" ", maxw-lipgloss.Width(ln))
		fmt.Fprintln(p.out, t.V+" "+ln+pad+" "+t.V)
	}
	fmt.Fprintln(p.out, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// TodoLine renders one todo as "#id box title  detail".
func (p *Printer) TodoLine(td model.Todo) string {
	t := p.theme
	box := p.C(t.Pending, t.Box(td.Completed))
	title := td.Title
	if td.Completed {
		box = p.C(t.Success, t.Box(true))
		title = p.C(t.Muted, title)
	}
	line := fmt.Sprintf("%s %s %s", p.C(t.Accent, fmt.Sprintf("#%-3d", td.ID)), box, title)
	if td.Detail != "" {
		line += "  " + p.C(t.Muted, td.Detail)
	}
	return line
}

// ListView is what List renders.
type ListView struct {
	Todos        []model.Todo
	Filter       model.Filter
	EmptyMessage string
	Completed    int
	Total        int
	Group        bool
}

// List prints todos in a panel with a progress header. Grouped output
// splits pending and done todos.
func (p *Printer) List(v ListView) {
	t := p.theme
	header := fmt.Sprintf("%s  %s  %d/%d done",
		p.C(t.Title, "Todos"), p.C(t.Muted, v.Filter.String()), v.Completed, v.Total)
	lines := []string{header, ProgressBar(v.Completed, v.Total, 20), ""}

	if len(v.Todos) == 0 {
		lines = append(lines, p.C(t.Muted, v.EmptyMessage))
		p.Panel(lines)
		return
	}

	if !v.Group {
		for _, td := range v.Todos {
			lines = append(lines, p.TodoLine(td))
		}
		p.Panel(lines)
		return
	}

	var pending, done []string
	for _, td := range v.Todos {
		if td.Completed {
			done = append(done, p.TodoLine(td))
		} else {
			pending = append(pending, p.TodoLine(td))
		}
	}
	if len(pending) > 0 {
		lines = append(lines, p.C(t.Pending, t.SymPending+" Pending"))
		lines = append(lines, pending...)
	}
	if len(done) > 0 {
		if len(pending) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, p.C(t.Success, t.SymDone+" Done"))
		lines = append(lines, done...)
	}
	p.Panel(lines)
}
