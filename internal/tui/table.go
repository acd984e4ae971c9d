package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TableColumn defines a column in a table.
type TableColumn struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment defines text alignment in a column.
type Alignment int

// Alignment constants.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table renders fixed-width columns. Cells wider than their column are
// truncated with an ellipsis; widths count terminal cells, not bytes.
type Table struct {
	w       io.Writer
	styles  *TableStyles
	columns []TableColumn
}

// NewTable creates a new table with the given columns.
func NewTable(w io.Writer, columns []TableColumn) *Table {
	return &Table{
		w:       w,
		styles:  NewTableStyles(),
		columns: columns,
	}
}

// WriteHeader writes the table header row.
func (t *Table) WriteHeader() {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	_, _ = fmt.Fprintln(t.w, t.styles.Header.Render(t.line(names)))
}

// WriteRow writes a data row to the table.
func (t *Table) WriteRow(values ...string) {
	_, _ = fmt.Fprintln(t.w, t.line(values))
}

// WriteStyledRow writes a data row with the cell at styledIndex rendered in
// color. The cell is fitted to its column before styling so escape codes
// never count toward the width.
func (t *Table) WriteStyledRow(values []string, styledIndex int, color lipgloss.TerminalColor) {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		cells[i] = fit(value, col)
		if i == styledIndex {
			cells[i] = t.styles.Cell.Foreground(color).Render(cells[i])
		}
	}
	_, _ = fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, " "), " "))
}

func (t *Table) line(values []string) string {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		cells[i] = fit(value, col)
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

// fit truncates or pads value to the column width.
func fit(value string, col TableColumn) string {
	if col.Width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) > col.Width {
		value = runewidth.Truncate(value, col.Width, "…")
	}
	if col.Align == AlignRight {
		return runewidth.FillLeft(value, col.Width)
	}
	return runewidth.FillRight(value, col.Width)
}
