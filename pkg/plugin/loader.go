package plugin

import (
	"fmt"

	"digital.vasic.constraints/pkg/rule"
)

// RuleSource is implemented by plugins that can list the rules
// they register.
type RuleSource interface {
	Definitions() []rule.Definition
}

// Loader registers plugins and initializes them against a
// single plugin context.
type Loader struct {
	registry *Registry
	ctx      *PluginContext
}

// NewLoader creates a loader that initializes plugins with ctx.
func NewLoader(registry *Registry, ctx *PluginContext) *Loader {
	return &Loader{registry: registry, ctx: ctx}
}

// Load registers and initializes plugins in order and stops at
// the first failure. A failing plugin that is a RuleSource has
// the rules it managed to add removed again, so the rule
// registry never holds half a pack.
func (l *Loader) Load(plugins ...Plugin) error {
	for _, p := range plugins {
		if err := l.registry.Register(p); err != nil {
			return fmt.Errorf("load plugin: %w", err)
		}
		before := l.ruleNames()
		if err := l.registry.Init(p.Name(), l.ctx); err != nil {
			l.rollback(p, before)
			return fmt.Errorf("load plugin: %w", err)
		}
	}
	return nil
}

func (l *Loader) ruleNames() map[string]bool {
	if l.ctx == nil || l.ctx.Rules == nil {
		return nil
	}
	names := make(map[string]bool)
	for _, n := range l.ctx.Rules.Names() {
		names[n] = true
	}
	return names
}

func (l *Loader) rollback(p Plugin, before map[string]bool) {
	src, ok := p.(RuleSource)
	if !ok || before == nil {
		return
	}
	for _, def := range src.Definitions() {
		if !before[def.Name] {
			_ = l.ctx.Rules.Remove(def.Name)
		}
	}
}
