package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// styled is true when stdout is a terminal. Piped output stays plain.
var styled = term.IsTerminal(int(os.Stdout.Fd()))

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

func heading(s string) string {
	if !styled {
		return s
	}
	return headingStyle.Render(s)
}

// table lays rows out in columns separated by two spaces.
func table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	line := func(cells []string, style func(col int, s string) string) {
		for i, cell := range cells {
			last := i == len(cells)-1
			if !last {
				cell += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			}
			b.WriteString(style(i, cell))
			if !last {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}

	line(header, func(_ int, s string) string {
		if !styled {
			return s
		}
		return headerStyle.Render(s)
	})
	for _, row := range rows {
		line(row, func(col int, s string) string {
			if !styled || col != 0 {
				return s
			}
			return nameStyle.Render(s)
		})
	}
	return b.String()
}
