package syntax

import (
	"errors"
	"fmt"
	"sync"

	"magictest/logger"

	"github.com/go-enry/go-enry/v2"
)

// ErrUnknownLanguage is returned when no table is registered for a language.
var ErrUnknownLanguage = errors.New("unknown language")

// Dusk returns the table for Laravel Dusk browser tests written in PHP.
func Dusk() *Syntax {
	return &Syntax{
		Name:              "dusk",
		MethodDeclaration: "public function %s",
		Helpers: []string{
			"->pause(",
			"->waitFor",
			"->waitUntil",
			"->screenshot(",
			"->dump(",
			"->storeSource(",
			"->storeConsoleLog(",
		},
		Clicks: []string{
			"->click(",
			"->clickLink(",
			"->clickAtPoint(",
			"->clickAtXPath(",
			"->clickAndWaitForReload(",
			"->doubleClick(",
			"->rightClick(",
			"->press(",
			"->pressAndWaitFor(",
		},
		Breakpoints:   []string{"MagicTestManager::run", "magic_test(", "->magic(", "m("},
		Macro:         "->magic()",
		ChainOperator: "->",
		Terminator:    ";",
		Continuation:  "",
		Pause:         "->pause(500)",
	}
}

// Capybara returns the table for Rails system tests driven by Capybara.
func Capybara() *Syntax {
	return &Syntax{
		Name:              "capybara",
		MethodDeclaration: `test "%s"`,
		Helpers:           []string{"sleep", "save_screenshot", "save_page", "puts"},
		Clicks: []string{
			"click_on",
			"click_link",
			"click_button",
			"click_link_or_button",
			".click",
			"send_keys",
		},
		Breakpoints:   []string{"magic_test"},
		ChainOperator: ".",
		Pause:         "sleep 0.5",
	}
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() *Syntax{
		"PHP":  Dusk,
		"Ruby": Capybara,
	}
)

// Default returns the table used when nothing else is configured.
func Default() *Syntax {
	return Dusk()
}

// Register makes a table available for a linguist language name ("PHP", "Ruby", ...).
// The constructor is called on every lookup so callers always get a fresh copy.
func Register(language string, newSyntax func() *Syntax) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[language] = newSyntax
}

// Lookup returns a fresh table for the given language.
func Lookup(language string) (*Syntax, error) {
	registryMu.RLock()
	newSyntax, ok := registry[language]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	return newSyntax(), nil
}

// Detect picks a table from a source file's name and content, falling back
// to Default when the language cannot be identified or has no table.
func Detect(filename string, content []byte) *Syntax {
	language := enry.GetLanguage(filename, content)
	s, err := Lookup(language)
	if err != nil {
		logger.Debug("syntax: %s detected as %q, using %s: %v", filename, language, Default().Name, err)
		return Default()
	}
	logger.Debug("syntax: %s detected as %q, using %s", filename, language, s.Name)
	return s
}
