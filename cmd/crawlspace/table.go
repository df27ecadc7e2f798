package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is one column of a plain-text table. Width 0 means fit content.
type column struct {
	title string
	width int
}

// writeTable prints rows aligned by display width, truncating cells wider
// than their column.
func writeTable(w io.Writer, cols []column, rows [][]string) {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = c.width
		if widths[i] == 0 {
			widths[i] = runewidth.StringWidth(c.title)
			for _, r := range rows {
				if i < len(r) {
					widths[i] = max(widths[i], runewidth.StringWidth(r[i]))
				}
			}
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(cols))
		for i := range cols {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "\n", " | ")
			}
			cell = runewidth.Truncate(cell, widths[i], "...")
			if i < len(cols)-1 {
				cell = runewidth.FillRight(cell, widths[i])
			}
			parts[i] = cell
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	line(titles)
	for _, r := range rows {
		line(r)
	}
}
