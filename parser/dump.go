package parser

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Dump lists the lines with their index and anchor markers, cutting each line
// to width display columns (no limit when width <= 0). Markers:
// M method, B breakpoint, L last added, T test start.
func (f *File) Dump(width int) string {
	var b strings.Builder
	for i, l := range f.lines {
		marks := []byte("    ")
		if i == f.methodStart {
			marks[0] = 'M'
		}
		if i == f.breakpoint {
			marks[1] = 'B'
		}
		if i == f.lastAdded {
			marks[2] = 'L'
		}
		if i == f.testStart {
			marks[3] = 'T'
		}

		text := strings.ReplaceAll(l.indented(), "\t", "    ")
		if width > 0 {
			text = runewidth.Truncate(text, width, "…")
		}
		fmt.Fprintf(&b, "%4d %s %s\n", i, marks, text)
	}
	return b.String()
}
