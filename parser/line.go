package parser

import (
	"strings"
	"unicode"

	"magictest/syntax"
)

// Line is one physical line of a test method. Its content never changes;
// a File only binds it to a syntax, lends it an indentation for rendering
// and toggles its finality.
type Line struct {
	content string
	final   bool

	// indent is borrowed from the file when content has none of its own.
	indent string

	// Lines read from source render verbatim until Final or NotFinal is
	// called on them. terminated records whether the source line ended
	// the statement.
	parsed      bool
	terminated  bool
	finalitySet bool

	syn *syntax.Syntax
}

// NewLine wraps content as a non-final line bound to the default syntax.
func NewLine(content string) *Line {
	return &Line{content: content, syn: syntax.Default()}
}

// NewLines wraps each content string with NewLine.
func NewLines(contents ...string) []*Line {
	lines := make([]*Line, len(contents))
	for i, c := range contents {
		lines[i] = NewLine(c)
	}
	return lines
}

// Pause returns a wait step for the default syntax.
func Pause() *Line {
	return NewLine(syntax.Default().Pause)
}

func parseLine(content string, syn *syntax.Syntax) *Line {
	return &Line{
		content:    content,
		parsed:     true,
		terminated: syn.Terminator != "" && strings.HasSuffix(strings.TrimSpace(content), syn.Terminator),
		syn:        syn,
	}
}

// Content returns the line exactly as it was created or read.
func (l *Line) Content() string { return l.content }

// Text returns the line with surrounding whitespace removed.
func (l *Line) Text() string { return strings.TrimSpace(l.content) }

// Indent returns the line's leading whitespace, or the indentation lent by
// its File when the content has none.
func (l *Line) Indent() string {
	if own := l.content[:len(l.content)-len(l.body())]; own != "" {
		return own
	}
	return l.indent
}

func (l *Line) body() string { return strings.TrimLeftFunc(l.content, unicode.IsSpace) }

// Terminated reports whether the source line ended with the statement terminator.
func (l *Line) Terminated() bool { return l.terminated }

func (l *Line) IsEmpty() bool        { return l.Text() == "" }
func (l *Line) IsHelper() bool       { return l.syn.IsHelper(l.Text()) }
func (l *Line) IsClickOrPress() bool { return l.syn.IsClickOrPress(l.Text()) }
func (l *Line) IsMacroCall() bool    { return l.syn.IsMacroCall(l.Text()) }
func (l *Line) IsBreakpoint() bool   { return l.syn.IsBreakpoint(l.Text()) }
func (l *Line) IsPause() bool        { return l.syn.IsPause(l.Text()) }

// Final marks the line as terminating its statement.
func (l *Line) Final() { l.final, l.finalitySet = true, true }

// NotFinal marks the line as continuing a fluent chain.
func (l *Line) NotFinal() { l.final, l.finalitySet = false, true }

func (l *Line) IsFinal() bool { return l.final }

// Equal reports value equality: same content and same finality. Borrowed
// indentation is not part of the value.
func (l *Line) Equal(other *Line) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.content == other.content && l.final == other.final
}

// Render returns the line as it should appear in the output: the trimmed
// text behind its indentation, with the terminator when final and the
// continuation otherwise. A line read from source whose finality was never
// set renders verbatim, so untouched files round-trip exactly.
func (l *Line) Render() string {
	if l.parsed && !l.finalitySet {
		return l.content
	}

	body := l.Text()
	if body == "" {
		return ""
	}
	term := l.syn.Terminator
	if term != "" {
		body = strings.TrimSuffix(body, term)
	}
	if l.final {
		return l.Indent() + body + term
	}
	return l.Indent() + body + l.syn.Continuation
}

func (l *Line) String() string { return l.Render() }

// indented is the content with any borrowed indentation in front.
func (l *Line) indented() string {
	if l.IsEmpty() {
		return l.content
	}
	return l.Indent() + l.body()
}

// adopt binds a caller-built line to a file's syntax and lends it indent
// for rendering. The content is left alone.
func (l *Line) adopt(syn *syntax.Syntax, indent string) {
	l.syn = syn
	l.indent = indent
}
