package parser

import (
	"strings"

	"magictest/syntax"
)

// Snapshot is a frozen copy of a File's lines and anchors. Rendering a
// snapshot never touches the File it came from.
type Snapshot struct {
	lines       []*Line
	syn         *syntax.Syntax
	methodStart int
	breakpoint  int
	testStart   int
}

// Snapshot copies the current lines and anchors.
func (f *File) Snapshot() Snapshot {
	return Snapshot{
		lines:       cloneLines(f.lines),
		syn:         f.syn,
		methodStart: f.methodStart,
		breakpoint:  f.breakpoint,
		testStart:   f.testStart,
	}
}

// Render applies the pause and breakpoint passes to a working copy and joins
// the result with newlines. Rendering the same snapshot twice gives the same text.
func (s Snapshot) Render() string {
	working := cloneLines(s.lines)

	pauses := s.pausePoints()
	for i := range pauses {
		// the chain now continues through the pause into the next step
		working[i].NotFinal()
	}
	if p := s.breakpointFix(); p >= 0 {
		working[p].NotFinal()
	}

	out := make([]string, 0, len(working)+len(pauses))
	for i, l := range working {
		out = append(out, l.Render())
		if pauses[i] {
			out = append(out, s.pauseAfter(l).Render())
		}
	}
	return strings.Join(out, "\n")
}

// pausePoints returns the interactive lines that need a pause after them:
// every click or press that is the previous non-helper line of a test line,
// unless a pause already follows it.
func (s Snapshot) pausePoints() map[int]bool {
	points := make(map[int]bool)
	skip := func(l *Line) bool { return l.IsHelper() || l.IsEmpty() }
	for _, t := range testIndices(s.lines, s.testStart, s.breakpoint) {
		p := previousIndex(s.lines, t, skip)
		if p < 0 || !s.lines[p].IsClickOrPress() {
			continue
		}
		if next, ok := lineAt(s.lines, nextIndex(s.lines, p, (*Line).IsEmpty)); ok && next.IsPause() {
			continue
		}
		points[p] = true
	}
	return points
}

// breakpointFix returns the line to reopen when the breakpoint is chained
// onto the statement above it, or -1.
func (s Snapshot) breakpointFix() int {
	if !s.lines[s.breakpoint].IsMacroCall() {
		return -1
	}
	return previousIndex(s.lines, s.breakpoint, (*Line).IsEmpty)
}

func (s Snapshot) pauseAfter(l *Line) *Line {
	return &Line{content: l.Indent() + s.syn.Pause, syn: s.syn}
}

func cloneLines(lines []*Line) []*Line {
	out := make([]*Line, len(lines))
	for i, l := range lines {
		c := *l
		out[i] = &c
	}
	return out
}

func lineAt(lines []*Line, i int) (*Line, bool) {
	if i < 0 || i >= len(lines) {
		return nil, false
	}
	return lines[i], true
}

// previousIndex returns the nearest index before from whose line is not
// skipped, or -1.
func previousIndex(lines []*Line, from int, skip func(*Line) bool) int {
	for i := from - 1; i >= 0; i-- {
		if !skip(lines[i]) {
			return i
		}
	}
	return -1
}

// nextIndex returns the nearest index after from whose line is not skipped, or -1.
func nextIndex(lines []*Line, from int, skip func(*Line) bool) int {
	for i := from + 1; i < len(lines); i++ {
		if !skip(lines[i]) {
			return i
		}
	}
	return -1
}

// testIndices lists the non-blank lines strictly between start and breakpoint.
func testIndices(lines []*Line, start, breakpoint int) []int {
	if start < 0 {
		return nil
	}
	var out []int
	for i := start + 1; i < breakpoint && i < len(lines); i++ {
		if !lines[i].IsEmpty() {
			out = append(out, i)
		}
	}
	return out
}
