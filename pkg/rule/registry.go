package rule

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds rule definitions by name. It is safe for
// concurrent use; changes apply to validation passes started
// after the change.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Definition
}

// NewRegistry creates a Registry with the built-in rules
// registered.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, def := range builtinDefinitions() {
		r.rules[def.Name] = normalize(def)
	}
	return r
}

// NewEmptyRegistry creates a Registry without any rules.
func NewEmptyRegistry() *Registry {
	return &Registry{rules: make(map[string]Definition)}
}

func normalize(def Definition) Definition {
	if def.Priority == 0 {
		def.Priority = PriorityDefault
	}
	if len(def.Elements) > 0 {
		def.Elements = append(
			[]RequirementType(nil), def.Elements...,
		)
	}
	return def
}

func checkDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if def.Validate == nil {
		return fmt.Errorf(
			"%w: %s has no implementation",
			ErrInvalidDefinition, def.Name,
		)
	}
	if def.RequirementType == RequirementArray &&
		len(def.Elements) == 0 {
		return fmt.Errorf(
			"%w: %s declares an array requirement without elements",
			ErrInvalidDefinition, def.Name,
		)
	}
	return nil
}

// Add registers a new rule. It returns ErrDuplicateRule if the
// name is taken; use Update to replace a rule.
func (r *Registry) Add(def Definition) error {
	if err := checkDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, def.Name)
	}
	r.rules[def.Name] = normalize(def)
	return nil
}

// Update replaces an existing rule definition.
func (r *Registry) Update(def Definition) error {
	if err := checkDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[def.Name]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownRule, def.Name)
	}
	r.rules[def.Name] = normalize(def)
	return nil
}

// Remove unregisters a rule. Constraints still naming it fail
// with ErrMissingImplementation on their next evaluation.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	delete(r.rules, name)
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.rules[name]
	if !ok {
		return Definition{}, fmt.Errorf(
			"%w: %s", ErrUnknownRule, name,
		)
	}
	return def, nil
}

// Has reports whether a rule is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rules[name]
	return ok
}

// Resolve returns the definitions of the given names as one
// consistent snapshot. Unregistered names are absent from the
// result.
func (r *Registry) Resolve(names ...string) map[string]Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Definition, len(names))
	for _, name := range names {
		if def, ok := r.rules[name]; ok {
			out[name] = def
		}
	}
	return out
}

// Names returns the registered rule names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
