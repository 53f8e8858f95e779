package tui

import (
	"strings"

	"github.com/naveenspark/aula/internal/views"
)

// renderTable draws a header row and rows sized by the column widths.
// cursor < 0 draws no selection.
func renderTable(cols []views.Column, rows [][]string, cursor int, maxWidth int) string {
	var b strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = padRight(c.Header, colWidth(c))
	}
	b.WriteString("   " + sectionHeaderStyle.Render(truncStr(strings.Join(header, "  "), maxWidth)) + "\n")

	for i, row := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			v := ""
			if j < len(row) {
				v = row[j]
			}
			cells[j] = padRight(v, colWidth(c))
		}
		line := truncStr(strings.Join(cells, "  "), maxWidth)
		if i == cursor {
			b.WriteString(" " + accentStyle.Render("▸") + " " + selectedRowBg.Render(selectedStyle.Render(line)) + "\n")
			continue
		}
		b.WriteString("   " + normalStyle.Render(line) + "\n")
	}
	return b.String()
}

func colWidth(c views.Column) int {
	if c.Width > 0 {
		return c.Width
	}
	return 16
}
