package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"relDB/internal/types"
)

const cellWidth = 15

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	headerStyle = lipgloss.NewStyle().Bold(true).Width(cellWidth).Align(lipgloss.Right)
	cellStyle   = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)
	ruleStyle   = lipgloss.NewStyle().Faint(true)
)

func fit(s string) string {
	if r := []rune(s); len(r) > cellWidth {
		return string(r[:cellWidth-1]) + "…"
	}
	return s
}

func renderRow(b *strings.Builder, style lipgloss.Style, cells []string) {
	b.WriteString("| ")
	for _, c := range cells {
		b.WriteString(style.Render(fit(c)))
	}
	b.WriteString(" |\n")
}

func tupleStrings(tup types.Tuple) []string {
	out := make([]string, len(tup))
	for i, v := range tup {
		out[i] = v.String()
	}
	return out
}

// Render returns the fixed-width dump of the table: a title, the
// attribute names and one line per tuple, each cell 15 characters wide.
func (t *Table) Render() string {
	rule := ruleStyle.Render("|-"+strings.Repeat("-", cellWidth*t.schema.Arity())+"-|") + "\n"

	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Table "+t.Name()) + "\n")
	b.WriteString(rule)
	renderRow(&b, headerStyle, t.schema.Attributes())
	b.WriteString(rule)
	for _, tup := range t.tuples {
		renderRow(&b, cellStyle, tupleStrings(tup))
	}
	b.WriteString(rule)
	return b.String()
}

// RenderIndex lists the index entries as "key -> tuple" lines in backend
// order.
func (t *Table) RenderIndex() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Index for "+t.Name()) + "\n")
	b.WriteString("-------------------\n")
	t.IndexEntries(func(k types.KeyType, tup types.Tuple) bool {
		fmt.Fprintf(&b, "%s -> [%s]\n", k, strings.Join(tupleStrings(tup), ", "))
		return true
	})
	b.WriteString("-------------------\n")
	return b.String()
}

// Print writes Render to w.
func (t *Table) Print(w io.Writer) error {
	_, err := io.WriteString(w, t.Render())
	return err
}
