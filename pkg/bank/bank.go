// Package bank loads assertion cases from YAML or JSON files and
// runs them against an assertion engine.
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Bank manages collections of cases loaded from files.
type Bank struct {
	mu      sync.RWMutex
	cases   map[string]*Case
	order   []string
	sources []string
}

// New creates a new empty Bank.
func New() *Bank {
	return &Bank{
		cases: make(map[string]*Case),
	}
}

// ReadFile decodes a bank file. The format follows the
// extension: .yaml and .yml are YAML, anything else is JSON.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file %s: %w", path, err)
	}

	var file File
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse bank file %s: %w", path, err)
	}
	return &file, nil
}

// LoadFile loads cases from a bank file. A case with an ID that
// is already loaded replaces the earlier one.
func (b *Bank) LoadFile(path string) error {
	file, err := ReadFile(path)
	if err != nil {
		return err
	}

	for i := range file.Cases {
		if file.Cases[i].ID == "" {
			return fmt.Errorf("case at index %d in %s has no ID", i, path)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range file.Cases {
		c := &file.Cases[i]
		if _, exists := b.cases[c.ID]; !exists {
			b.order = append(b.order, c.ID)
		}
		b.cases[c.ID] = c
	}
	b.sources = append(b.sources, path)
	return nil
}

// LoadDir loads all .json, .yaml and .yml files from a
// directory in name order.
func (b *Bank) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read bank directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !IsBankFile(entry.Name()) {
			continue
		}
		if err := b.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// IsBankFile reports whether name has a bank file extension.
func IsBankFile(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Get retrieves a case by ID.
func (b *Bank) Get(id string) (*Case, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.cases[id]
	return c, ok
}

// All returns all loaded cases in load order.
func (b *Bank) All() []*Case {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]*Case, 0, len(b.order))
	for _, id := range b.order {
		result = append(result, b.cases[id])
	}
	return result
}

// Count returns the number of loaded cases.
func (b *Bank) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.cases)
}

// Sources returns the list of loaded file paths.
func (b *Bank) Sources() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]string, len(b.sources))
	copy(result, b.sources)
	return result
}
