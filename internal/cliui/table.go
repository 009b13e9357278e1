// Package cliui holds small plain-text rendering helpers shared by the
// report renderer and the listing commands.
package cliui

import (
	"io"
	"strings"
	"unicode/utf8"
)

type Column struct {
	Name       string
	MaxWidth   int
	AlignRight bool
}

// RenderTable writes a padded plain-text table with a dashed header rule.
func RenderTable(w io.Writer, cols []Column, rows [][]string) {
	if len(cols) == 0 {
		return
	}
	widths := computeWidths(cols, rows)
	for i, c := range cols {
		_, _ = io.WriteString(w, padCell(c.Name, widths[i], c.AlignRight))
		if i < len(cols)-1 {
			_, _ = io.WriteString(w, "  ")
		}
	}
	_, _ = io.WriteString(w, "\n")
	for i, c := range cols {
		_, _ = io.WriteString(w, strings.Repeat("-", maxInt(widths[i], runeLen(c.Name))))
		if i < len(cols)-1 {
			_, _ = io.WriteString(w, "  ")
		}
	}
	_, _ = io.WriteString(w, "\n")
	for _, row := range rows {
		for i, c := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cell = Truncate(cell, widths[i])
			_, _ = io.WriteString(w, padCell(cell, widths[i], c.AlignRight))
			if i < len(cols)-1 {
				_, _ = io.WriteString(w, "  ")
			}
		}
		_, _ = io.WriteString(w, "\n")
	}
}

func computeWidths(cols []Column, rows [][]string) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runeLen(c.Name)
	}
	for _, row := range rows {
		for i := range cols {
			if i >= len(row) {
				continue
			}
			widths[i] = maxInt(widths[i], runeLen(row[i]))
		}
	}
	for i := range cols {
		if cols[i].MaxWidth > 0 && widths[i] > cols[i].MaxWidth {
			widths[i] = cols[i].MaxWidth
		}
	}
	return widths
}

func padCell(s string, width int, right bool) string {
	n := runeLen(s)
	if n >= width {
		return s
	}
	pad := strings.Repeat(" ", width-n)
	if right {
		return pad + s
	}
	return s + pad
}

// Truncate trims s to at most max runes, appending "..." when it cuts.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runeLen(s) <= max {
		return s
	}
	rs := []rune(s)
	if max <= 3 {
		return string(rs[:max])
	}
	return string(rs[:max-3]) + "..."
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
