package syntax

import (
	"encoding/json"
	"fmt"
	"os"
)

// EnvConfig names the environment variable FromEnv reads.
const EnvConfig = "MAGICTEST_SYNTAX"

// Config overrides parts of a registered table. Nil fields keep the base
// table's value; a present field replaces it entirely.
type Config struct {
	Language          string    `json:"language"` // base table, linguist name ("PHP", "Ruby")
	Name              *string   `json:"name"`
	MethodDeclaration *string   `json:"method_declaration"`
	Helpers           *[]string `json:"helpers"`
	Clicks            *[]string `json:"clicks"`
	Breakpoints       *[]string `json:"breakpoints"`
	Macro             *string   `json:"macro"`
	ChainOperator     *string   `json:"chain_operator"`
	Terminator        *string   `json:"terminator"`
	Continuation      *string   `json:"continuation"`
	Pause             *string   `json:"pause"`
}

// Apply returns a copy of base with the configured overrides.
func (c *Config) Apply(base *Syntax) *Syntax {
	s := base.Clone()
	setString(&s.Name, c.Name)
	setString(&s.MethodDeclaration, c.MethodDeclaration)
	setList(&s.Helpers, c.Helpers)
	setList(&s.Clicks, c.Clicks)
	setList(&s.Breakpoints, c.Breakpoints)
	setString(&s.Macro, c.Macro)
	setString(&s.ChainOperator, c.ChainOperator)
	setString(&s.Terminator, c.Terminator)
	setString(&s.Continuation, c.Continuation)
	setString(&s.Pause, c.Pause)
	return s
}

// LoadConfig decodes a JSON Config and builds the resulting table.
func LoadConfig(data []byte) (*Syntax, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid syntax config: %w", err)
	}

	base := Default()
	if config.Language != "" {
		var err error
		if base, err = Lookup(config.Language); err != nil {
			return nil, fmt.Errorf("invalid syntax config: %w", err)
		}
	}

	s := config.Apply(base)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid syntax config: %w", err)
	}
	return s, nil
}

// FromEnv loads the table configured in MAGICTEST_SYNTAX, or Default when unset.
func FromEnv() (*Syntax, error) {
	raw := os.Getenv(EnvConfig)
	if raw == "" {
		return Default(), nil
	}
	return LoadConfig([]byte(raw))
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setList(dst *[]string, src *[]string) {
	if src != nil {
		*dst = append([]string(nil), (*src)...)
	}
}
