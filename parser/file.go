package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"magictest/logger"
	"magictest/syntax"
)

var (
	ErrMethodNotFound     = errors.New("method declaration not found")
	ErrBreakpointNotFound = errors.New("breakpoint not found in method")
	ErrInvalidSyntax      = errors.New("invalid syntax table")
)

// ConfigError is returned by FromContent when the source cannot host a
// recording session. It unwraps to one of the sentinel errors above.
type ConfigError struct {
	Method string
	Syntax string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("parser: method %q (%s): %v", e.Method, e.Syntax, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// File is the line engine for one test method. It owns the line sequence
// and a set of anchors kept as indices into it; every insertion or removal
// shifts the anchors at or after the edit point.
//
// A File is not safe for concurrent use.
type File struct {
	content string
	method  string
	syn     *syntax.Syntax

	lines []*Line

	methodStart int
	breakpoint  int
	lastAdded   int
	testStart   int

	current     *Line // line being visited by ForEachLine
	writingTest bool
}

// Option configures FromContent.
type Option func(*options)

type options struct {
	syn      *syntax.Syntax
	filename string
}

// WithSyntax sets the classification table. It takes precedence over WithFilename.
func WithSyntax(s *syntax.Syntax) Option {
	return func(o *options) { o.syn = s }
}

// WithFilename picks the classification table from the file's language.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// FromContent splits content into lines and locates the method declaration,
// the breakpoint and the last recorded action of method.
func FromContent(content, method string, opts ...Option) (*File, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	syn := o.syn
	switch {
	case syn != nil:
	case o.filename != "":
		syn = syntax.Detect(o.filename, []byte(content))
	default:
		syn = syntax.Default()
	}
	if err := syn.Validate(); err != nil {
		return nil, &ConfigError{Method: method, Syntax: syn.Name, Err: fmt.Errorf("%w: %v", ErrInvalidSyntax, err)}
	}

	f := &File{
		content:   content,
		method:    method,
		syn:       syn,
		testStart: -1,
	}
	for _, raw := range strings.Split(content, "\n") {
		f.lines = append(f.lines, parseLine(raw, syn))
	}

	if err := f.locateAnchors(); err != nil {
		return nil, &ConfigError{Method: method, Syntax: syn.Name, Err: err}
	}
	f.lastAdded = f.lastActionIndex()
	// Until StartWritingTest says otherwise, the recorded region is
	// everything appended after the last action found at construction.
	f.testStart = f.lastAdded

	if logger.Enabled(logger.LogLevelDebug) {
		logger.Debug("parser: %s: method at %d, breakpoint at %d, last action at %d\n%s",
			method, f.methodStart, f.breakpoint, f.lastAdded, f.Dump(120))
	}
	return f, nil
}

func (f *File) locateAnchors() error {
	f.methodStart = slices.IndexFunc(f.lines, func(l *Line) bool {
		return f.syn.MatchesMethod(l.Text(), f.method)
	})
	if f.methodStart < 0 {
		return ErrMethodNotFound
	}

	f.breakpoint = -1
	for i := f.methodStart + 1; i < len(f.lines); i++ {
		if f.lines[i].IsBreakpoint() {
			f.breakpoint = i
			break
		}
	}
	if f.breakpoint < 0 {
		return ErrBreakpointNotFound
	}
	return nil
}

// lastActionIndex is the nearest non-blank line above the breakpoint, or the
// method declaration when the breakpoint is the first statement.
func (f *File) lastActionIndex() int {
	for i := f.breakpoint - 1; i > f.methodStart; i-- {
		if !f.lines[i].IsEmpty() {
			return i
		}
	}
	return f.methodStart
}

func (f *File) Method() string         { return f.method }
func (f *File) Syntax() *syntax.Syntax { return f.syn }
func (f *File) Len() int               { return len(f.lines) }
func (f *File) Lines() []*Line         { return slices.Clone(f.lines) }
func (f *File) MethodLine() *Line      { return f.lines[f.methodStart] }
func (f *File) BreakpointLine() *Line  { return f.lines[f.breakpoint] }
func (f *File) LastLineAdded() *Line   { return f.lines[f.lastAdded] }
func (f *File) WritingTest() bool      { return f.writingTest }

// LastAction returns the nearest non-blank line above the breakpoint,
// recomputed from the current lines.
func (f *File) LastAction() *Line {
	return f.lines[f.lastActionIndex()]
}

// Contains reports whether this exact line object is in the file.
func (f *File) Contains(l *Line) bool { return l != nil && f.indexOf(l) >= 0 }

func (f *File) indexOf(l *Line) int        { return slices.Index(f.lines, l) }
func (f *File) lineAt(i int) (*Line, bool) { return lineAt(f.lines, i) }

// TestStartLine returns the line the recorded region starts after, or nil.
func (f *File) TestStartLine() *Line {
	l, _ := f.lineAt(f.testStart)
	return l
}

// IsLastAction reports whether l's text contains the current last action's text.
func (f *File) IsLastAction(l *Line) bool {
	if l == nil {
		return false
	}
	return strings.Contains(l.Text(), f.LastAction().Text())
}

// TestLines returns the non-blank lines after the test start and before the breakpoint.
func (f *File) TestLines() []*Line {
	var out []*Line
	for _, i := range testIndices(f.lines, f.testStart, f.breakpoint) {
		out = append(out, f.lines[i])
	}
	return out
}

// PreviousLineTo returns the nearest line above l, skipping helper calls when
// ignoreHelpers is set. It returns nil when l is the first line or not in the file.
func (f *File) PreviousLineTo(l *Line, ignoreHelpers bool) *Line {
	idx := f.indexOf(l)
	if idx < 0 {
		return nil
	}
	skip := func(*Line) bool { return false }
	if ignoreHelpers {
		skip = (*Line).IsHelper
	}
	p, _ := f.lineAt(previousIndex(f.lines, idx, skip))
	return p
}

// IsFirstClick reports whether no click or press appears between l and the
// method declaration, both exclusive. With ignoreHelpers set, lines that are
// helpers are not counted even if they also look like clicks.
func (f *File) IsFirstClick(l *Line, ignoreHelpers bool) bool {
	idx := f.indexOf(l)
	if idx < 0 {
		return true
	}
	for i := idx - 1; i >= 0 && i != f.methodStart; i-- {
		line := f.lines[i]
		if ignoreHelpers && line.IsHelper() {
			continue
		}
		if line.IsClickOrPress() {
			return false
		}
	}
	return true
}

// AddContentAfterLine inserts l right after ref and makes it the insertion
// anchor for AddTestLine. It is a no-op when ref is not in the file or l
// already is.
func (f *File) AddContentAfterLine(ref, l *Line, final bool) {
	if l == nil {
		return
	}
	idx := f.indexOf(ref)
	if idx < 0 {
		logger.Warn("parser: %s: reference line not found, dropping %q", f.method, l.Text())
		return
	}
	if f.Contains(l) {
		logger.Warn("parser: %s: line %q already present, not inserting twice", f.method, l.Text())
		return
	}

	// recorded steps sit right above the breakpoint, so they share its indentation
	l.adopt(f.syn, f.lines[f.breakpoint].Indent())
	if final {
		l.Final()
	}

	pos := idx + 1
	f.lines = slices.Insert(f.lines, pos, l)
	f.shift(pos, 1)
	f.lastAdded = pos
	logger.Debug("parser: %s: inserted %q at %d", f.method, l.Text(), pos)
}

// AddTestLine appends l after the most recently added line.
func (f *File) AddTestLine(l *Line, final bool) {
	f.AddContentAfterLine(f.lines[f.lastAdded], l, final)
}

// AddTestLines appends ls in order; only the last one is final.
func (f *File) AddTestLines(ls []*Line) {
	for i, l := range ls {
		f.AddTestLine(l, i == len(ls)-1)
	}
}

// RemoveLine drops every line equal to l. The method declaration and the
// breakpoint are never removed.
func (f *File) RemoveLine(l *Line) {
	for i := len(f.lines) - 1; i >= 0; i-- {
		if i == f.methodStart || i == f.breakpoint || !f.lines[i].Equal(l) {
			continue
		}
		f.lines = slices.Delete(f.lines, i, i+1)
		f.unshift(i)
		logger.Debug("parser: %s: removed %q at %d", f.method, l.Text(), i)
	}
}

// StartWritingTest marks the line currently visited by ForEachLine as the
// start of the recorded region.
func (f *File) StartWritingTest() {
	f.writingTest = true
	if f.current == nil {
		logger.Warn("parser: %s: StartWritingTest called outside ForEachLine, keeping test start", f.method)
		return
	}
	if idx := f.indexOf(f.current); idx >= 0 {
		f.testStart = idx
	}
}

func (f *File) StopWritingTest() {
	f.writingTest = false
}

// ForEachLine visits every line in order. Lines inserted by visit are not
// visited during the same pass.
func (f *File) ForEachLine(visit func(l *Line, i int)) {
	defer func() { f.current = nil }()
	for i, l := range slices.Clone(f.lines) {
		f.current = l
		visit(l, i)
	}
}

// ForEachTestLine visits the lines returned by TestLines.
func (f *File) ForEachTestLine(visit func(l *Line)) {
	for _, l := range f.TestLines() {
		visit(l)
	}
}

// Output renders the method with pauses after interactions and the chain
// before a chained breakpoint kept open. The file itself is not modified.
func (f *File) Output() string {
	defer logger.Trace("parser.Output")()
	return f.Snapshot().Render()
}

// shift moves every anchor at or after pos by delta.
func (f *File) shift(pos, delta int) {
	for _, a := range []*int{&f.methodStart, &f.breakpoint, &f.lastAdded, &f.testStart} {
		if *a >= pos {
			*a += delta
		}
	}
}

// unshift accounts for the removal of the line at pos. Anchors pointing at
// it fall back to the line above.
func (f *File) unshift(pos int) {
	for _, a := range []*int{&f.methodStart, &f.breakpoint, &f.lastAdded, &f.testStart} {
		if *a >= pos {
			*a--
		}
	}
}
