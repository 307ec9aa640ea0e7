package plugin

import (
	"fmt"
	"testing"

	"digital.vasic.constraints/pkg/rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlugin struct {
	name    string
	version string
	initErr error
	inited  bool
	order   *[]string
}

func (m *mockPlugin) Name() string    { return m.name }
func (m *mockPlugin) Version() string { return m.version }
func (m *mockPlugin) Init(ctx *PluginContext) error {
	if m.initErr != nil {
		return m.initErr
	}
	m.inited = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
	return nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	err := r.Register(&mockPlugin{name: "test", version: "1.0"})
	assert.NoError(t, err)
	assert.Equal(t, 1, r.Count())

	// Duplicate
	err = r.Register(&mockPlugin{name: "test", version: "1.0"})
	assert.Error(t, err)

	// Nil plugin
	err = r.Register(nil)
	assert.Error(t, err)

	// Empty name
	err = r.Register(&mockPlugin{name: "", version: "1.0"})
	assert.Error(t, err)
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockPlugin{name: "test", version: "1.0"}))

	p, ok := r.Get("test")
	assert.True(t, ok)
	assert.Equal(t, "test", p.Name())

	_, ok = r.Get("nonexistent")
	assert.False(t, ok)
}

func TestRegistry_InitAll(t *testing.T) {
	r := NewRegistry()
	var order []string
	p2 := &mockPlugin{name: "p2", version: "1.0", order: &order}
	p1 := &mockPlugin{name: "p1", version: "1.0", order: &order}
	require.NoError(t, r.Register(p2))
	require.NoError(t, r.Register(p1))

	err := r.InitAll(&PluginContext{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, order)
	assert.True(t, r.IsLoaded("p1"))
	assert.True(t, r.IsLoaded("p2"))

	// Loaded plugins are not initialized twice.
	require.NoError(t, r.InitAll(&PluginContext{}))
	assert.Len(t, order, 2)
}

func TestRegistry_InitAll_Error(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockPlugin{
		name: "bad", version: "1.0", initErr: fmt.Errorf("init failed"),
	}))

	err := r.InitAll(&PluginContext{})
	assert.ErrorContains(t, err, `init plugin "bad"`)
	assert.False(t, r.IsLoaded("bad"))
}

func TestRegistry_Init_AlreadyLoaded(t *testing.T) {
	r := NewRegistry()
	p := &mockPlugin{name: "test", version: "1.0"}
	require.NoError(t, r.Register(p))
	require.NoError(t, r.InitAll(&PluginContext{}))

	// Second init should be no-op
	err := r.Init("test", &PluginContext{})
	assert.NoError(t, err)
}

func TestRegistry_Init_NotFound(t *testing.T) {
	r := NewRegistry()
	err := r.Init("nonexistent", &PluginContext{})
	assert.Error(t, err)
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&mockPlugin{name: "b"}))
	require.NoError(t, r.Register(&mockPlugin{name: "a"}))
	assert.Equal(t, []string{"a", "b"}, r.List())
}

func TestPack_Init(t *testing.T) {
	always := rule.Definition{
		Name: "always",
		Validate: rule.Check(func(rule.Value, any) bool {
			return true
		}),
	}
	pack := NewPack("extra", "1.2.0", always)
	assert.Equal(t, "extra", pack.Name())
	assert.Equal(t, "1.2.0", pack.Version())
	assert.Len(t, pack.Definitions(), 1)

	rules := rule.NewEmptyRegistry()
	r := NewRegistry()
	require.NoError(t, r.Register(pack))
	require.NoError(t, r.InitAll(&PluginContext{Rules: rules}))
	assert.True(t, rules.Has("always"))
}

func TestPack_Init_Errors(t *testing.T) {
	pack := NewPack("p", "1", rule.Definition{
		Name: "required",
		Validate: rule.Check(func(rule.Value, any) bool {
			return true
		}),
	})

	assert.ErrorIs(t, pack.Init(&PluginContext{}), ErrNoRegistry)
	assert.ErrorIs(t, pack.Init(nil), ErrNoRegistry)
	assert.ErrorIs(t,
		pack.Init(&PluginContext{Rules: rule.NewRegistry()}),
		rule.ErrDuplicateRule,
	)
}
