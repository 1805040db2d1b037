// Package plugin bundles assertions so they can be installed on
// an engine by name.
package plugin

import (
	"fmt"
	"sort"
	"sync"

	"digital.vasic.setmatch/pkg/assertion"
)

// Plugin defines the interface for extending an assertion engine.
type Plugin interface {
	// Name returns the plugin's unique name.
	Name() string
	// Version returns the plugin's version string.
	Version() string
	// Install registers the plugin's types and assertions.
	Install(engine assertion.Engine) error
}

type funcPlugin struct {
	name    string
	version string
	install func(assertion.Engine) error
}

func (p funcPlugin) Name() string    { return p.name }
func (p funcPlugin) Version() string { return p.version }

func (p funcPlugin) Install(engine assertion.Engine) error {
	return p.install(engine)
}

// New creates a Plugin from an install function.
func New(name, version string, install func(assertion.Engine) error) Plugin {
	return funcPlugin{name: name, version: version, install: install}
}

// Registry manages plugin registration and installation.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// DefaultRegistry returns a registry holding the bundled plugins.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := r.Register(Subsets()); err != nil {
		panic(err)
	}
	return r
}

// Register adds a plugin to the registry.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin cannot be nil")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin %q already registered", name)
	}

	r.plugins[name] = p
	return nil
}

// Get retrieves a registered plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Install installs the named plugins on engine, in the order
// given.
func (r *Registry) Install(engine assertion.Engine, names ...string) error {
	for _, name := range names {
		p, ok := r.Get(name)
		if !ok {
			return fmt.Errorf("plugin %q not found", name)
		}
		if err := p.Install(engine); err != nil {
			return fmt.Errorf("install plugin %q: %w", name, err)
		}
	}
	return nil
}

// InstallAll installs every registered plugin on engine in name
// order.
func (r *Registry) InstallAll(engine assertion.Engine) error {
	return r.Install(engine, r.List()...)
}

// List returns all registered plugin names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}
