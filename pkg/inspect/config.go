// Package inspect renders values as compact, human-readable text
// for assertion failure messages and diff reports.
package inspect

import (
	"fmt"
	"sync"
)

// Config controls how values and reports are laid out.
type Config struct {
	// Depth is the nesting depth rendered before collections
	// collapse to "...".
	Depth int `json:"depth" yaml:"depth"`

	// PreferredWidth is the line width collection rendering
	// tries to stay within.
	PreferredWidth int `json:"preferred_width" yaml:"preferred_width"`

	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int `json:"indent_width" yaml:"indent_width"`

	// Indent enables nested indentation. When false, nested
	// lines are emitted flush left.
	Indent bool `json:"indent" yaml:"indent"`
}

// DefaultConfig returns the built-in layout settings.
func DefaultConfig() Config {
	return Config{
		Depth:          3,
		PreferredWidth: 80,
		IndentWidth:    2,
		Indent:         true,
	}
}

// Validate reports settings that cannot produce output.
func (c Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", c.Depth)
	}
	if c.IndentWidth < 0 {
		return fmt.Errorf(
			"indent width must not be negative, got %d",
			c.IndentWidth,
		)
	}
	if c.PreferredWidth < 20 {
		return fmt.Errorf(
			"preferred width must be at least 20, got %d",
			c.PreferredWidth,
		)
	}
	return nil
}

var (
	defaultMu     sync.RWMutex
	defaultConfig = DefaultConfig()
)

// SetDefault replaces the process-wide default configuration.
// It is meant to be called once at startup.
func SetDefault(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid inspect config: %w", err)
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultConfig = cfg
	return nil
}

// Default returns the process-wide default configuration.
func Default() Config {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultConfig
}
