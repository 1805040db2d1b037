// Package env loads dotenv files into the process environment
// so that SETCHECK_* settings can live next to the bank files.
package env

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/subosito/gotenv"
)

// Loader reads variables from .env files. Only keys starting
// with the prefix are kept; an empty prefix keeps every key.
type Loader struct {
	mu     sync.RWMutex
	prefix string
	vars   map[string]string
	loaded bool
}

// NewLoader creates a Loader for keys starting with prefix.
func NewLoader(prefix string) *Loader {
	return &Loader{
		prefix: prefix,
		vars:   make(map[string]string),
	}
}

// Load reads variables from a .env file. Comments, quoting and
// "export " prefixes follow gotenv.
func (l *Loader) Load(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open env file %s: %w", path, err)
	}
	defer file.Close()

	for key, value := range gotenv.Parse(file) {
		if strings.HasPrefix(key, l.prefix) {
			l.vars[key] = value
		}
	}
	l.loaded = true
	return nil
}

// Loaded reports whether a file has been loaded.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Get retrieves a variable. The process environment takes
// precedence over loaded files.
func (l *Loader) Get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.vars[key]
}

// GetWithDefault retrieves a variable with a default fallback.
func (l *Loader) GetWithDefault(key, defaultValue string) string {
	if v := l.Get(key); v != "" {
		return v
	}
	return defaultValue
}

// Apply exports loaded variables that are not already set in the
// process environment, and returns their keys in sorted order.
func (l *Loader) Apply() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var applied []string
	for k, v := range l.vars {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return applied, fmt.Errorf("set %s: %w", k, err)
		}
		applied = append(applied, k)
	}
	sort.Strings(applied)
	return applied, nil
}

// All returns all loaded variables.
func (l *Loader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make(map[string]string, len(l.vars))
	for k, v := range l.vars {
		result[k] = v
	}
	return result
}
