// Package plugin extends a rule registry with named packs of
// rule definitions.
package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/rule"
)

// ErrNoRegistry is returned when a plugin is initialized
// without a rule registry.
var ErrNoRegistry = errors.New("plugin context has no rule registry")

// Plugin extends a rule registry.
type Plugin interface {
	// Name returns the plugin's unique name.
	Name() string
	// Version returns the plugin's version string.
	Version() string
	// Init registers the plugin's rules.
	Init(ctx *PluginContext) error
}

// PluginContext gives plugins access to the engine during
// initialization.
type PluginContext struct {
	Rules  *rule.Registry
	Logger logging.Logger
	Config map[string]any
}

// Registry manages plugin registration and initialization.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	loaded  map[string]bool
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		loaded:  make(map[string]bool),
	}
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

// InitAll initializes, in name order, every plugin that has
// not been loaded yet.
func (r *Registry) InitAll(ctx *PluginContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.sortedNames() {
		if err := r.init(name, ctx); err != nil {
			return err
		}
	}
	return nil
}

// Init initializes a specific plugin by name.
func (r *Registry) Init(name string, ctx *PluginContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plugins[name]; !ok {
		return fmt.Errorf("plugin %q not found", name)
	}
	return r.init(name, ctx)
}

func (r *Registry) init(name string, ctx *PluginContext) error {
	if r.loaded[name] {
		return nil
	}
	p := r.plugins[name]
	if err := p.Init(ctx); err != nil {
		return fmt.Errorf("init plugin %q: %w", name, err)
	}
	r.loaded[name] = true

	var logger logging.Logger
	if ctx != nil {
		logger = ctx.Logger
	}
	logging.OrNull(logger).Debug("plugin loaded",
		logging.StringField("plugin", name),
		logging.StringField("version", p.Version()),
	)
	return nil
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered plugin names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

// IsLoaded checks if a plugin has been initialized.
func (r *Registry) IsLoaded(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded[name]
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}
