package plugin

import (
	"fmt"

	"digital.vasic.constraints/pkg/rule"
)

// Pack is a plugin registering a fixed set of rules.
type Pack struct {
	name    string
	version string
	defs    []rule.Definition
}

var _ Plugin = (*Pack)(nil)

// NewPack creates a pack of rule definitions.
func NewPack(name, version string, defs ...rule.Definition) *Pack {
	return &Pack{name: name, version: version, defs: defs}
}

// Name returns the pack name.
func (p *Pack) Name() string { return p.name }

// Version returns the pack version.
func (p *Pack) Version() string { return p.version }

// Definitions returns the rules of the pack.
func (p *Pack) Definitions() []rule.Definition {
	out := make([]rule.Definition, len(p.defs))
	copy(out, p.defs)
	return out
}

// Init adds every rule of the pack to ctx.Rules. Rules added
// before a failing one stay registered.
func (p *Pack) Init(ctx *PluginContext) error {
	if ctx == nil || ctx.Rules == nil {
		return ErrNoRegistry
	}
	for _, def := range p.defs {
		if err := ctx.Rules.Add(def); err != nil {
			return fmt.Errorf("pack %s: %w", p.name, err)
		}
	}
	return nil
}
