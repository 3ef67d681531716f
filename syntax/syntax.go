package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Classifier decides what a single line of recorded test code represents.
// All methods receive whitespace-trimmed text and are case-sensitive.
type Classifier interface {
	IsHelper(code string) bool
	IsClickOrPress(code string) bool
	IsMacroCall(code string) bool
	IsBreakpoint(code string) bool
	IsPause(code string) bool
}

// Syntax is a table of call spellings for one browser-testing dialect.
// Matching is substring based; a spelling that starts with an identifier
// character only matches when it is not glued to a preceding identifier,
// so "m(" matches "$this->m()" but not "->from(".
type Syntax struct {
	Name string

	// MethodDeclaration is a fmt pattern with a single %s for the method name.
	MethodDeclaration string

	Helpers     []string // calls that are not user-observable actions
	Clicks      []string // click and key-press interactions
	Breakpoints []string // recording breakpoint markers

	// Macro is the breakpoint call as it appears when chained onto the
	// preceding statement (e.g. "->magic()").
	Macro         string
	ChainOperator string

	Terminator   string // appended to final lines
	Continuation string // appended to non-final lines
	Pause        string // body of the wait step inserted after interactions
}

// Compile-time check
var _ Classifier = (*Syntax)(nil)

// IsHelper reports whether code calls one of the helper spellings.
func (s *Syntax) IsHelper(code string) bool {
	return containsAnyCall(code, s.Helpers)
}

// IsClickOrPress reports whether code is a click or key-press interaction.
func (s *Syntax) IsClickOrPress(code string) bool {
	return containsAnyCall(code, s.Clicks)
}

// IsBreakpoint reports whether code contains a breakpoint marker.
func (s *Syntax) IsBreakpoint(code string) bool {
	return containsAnyCall(code, s.Breakpoints)
}

// IsMacroCall reports whether code is the breakpoint marker chained onto the
// previous statement rather than a statement of its own.
func (s *Syntax) IsMacroCall(code string) bool {
	if s.Macro == "" || s.ChainOperator == "" {
		return false
	}
	return strings.HasPrefix(code, s.ChainOperator) && strings.Contains(code, s.Macro)
}

// IsPause reports whether code is a wait step of the same kind as Pause.
func (s *Syntax) IsPause(code string) bool {
	if s.Pause == "" {
		return false
	}
	return containsCall(code, callPrefix(s.Pause))
}

// MatchesMethod reports whether code declares the named method.
func (s *Syntax) MatchesMethod(code, method string) bool {
	decl := fmt.Sprintf(s.MethodDeclaration, method)
	for offset := 0; offset < len(code); {
		idx := strings.Index(code[offset:], decl)
		if idx < 0 {
			return false
		}
		end := offset + idx + len(decl)
		// "public function test" must not match "public function testLogin"
		if end >= len(code) || !endsIdentifier(decl) || !isIdentRune(firstRune(code[end:])) {
			return true
		}
		offset = offset + idx + 1
	}
	return false
}

// Clone returns a deep copy, safe to modify without affecting s.
func (s *Syntax) Clone() *Syntax {
	c := *s
	c.Helpers = append([]string(nil), s.Helpers...)
	c.Clicks = append([]string(nil), s.Clicks...)
	c.Breakpoints = append([]string(nil), s.Breakpoints...)
	return &c
}

// Validate checks that the table can drive the line engine.
func (s *Syntax) Validate() error {
	if strings.Count(s.MethodDeclaration, "%s") != 1 {
		return fmt.Errorf("syntax %q: method declaration %q must contain exactly one %%s", s.Name, s.MethodDeclaration)
	}
	if len(s.Breakpoints) == 0 {
		return fmt.Errorf("syntax %q: no breakpoint spellings", s.Name)
	}
	for _, b := range s.Breakpoints {
		if b == "" {
			return fmt.Errorf("syntax %q: empty breakpoint spelling", s.Name)
		}
	}
	if strings.TrimSpace(s.Pause) == "" {
		return fmt.Errorf("syntax %q: empty pause step", s.Name)
	}
	return nil
}

func containsAnyCall(code string, spellings []string) bool {
	for _, spelling := range spellings {
		if containsCall(code, spelling) {
			return true
		}
	}
	return false
}

func containsCall(code, spelling string) bool {
	if spelling == "" {
		return false
	}
	if !isIdentRune(firstRune(spelling)) {
		return strings.Contains(code, spelling)
	}
	for offset := 0; offset < len(code); {
		idx := strings.Index(code[offset:], spelling)
		if idx < 0 {
			return false
		}
		at := offset + idx
		if at == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(code[:at])
		if !isIdentRune(prev) {
			return true
		}
		offset = at + 1
	}
	return false
}

// callPrefix cuts a call down to its name and opening parenthesis, or to
// its first word for paren-less calls like "sleep 0.5".
func callPrefix(call string) string {
	if idx := strings.Index(call, "("); idx >= 0 {
		return call[:idx+1]
	}
	if fields := strings.Fields(call); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func endsIdentifier(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return isIdentRune(r)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
