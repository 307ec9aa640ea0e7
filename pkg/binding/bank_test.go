package binding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupYAML = `
version: "1"
forms:
  - name: signup
    fields:
      - name: email
        native:
          type: email
          required: true
      - name: age
        native:
          type: number
          min: "18"
          max: "130"
      - name: nickname
        whitespace: squish
        constraints:
          - name: length
            requirements: [3, 12]
          - name: pattern
            requirements: "[a-z ]+"
`

const contactJSON = `{
  "version": "1",
  "forms": [
    {"name": "contact", "fields": [
      {"name": "message", "native": {"required": true}}
    ]}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseYAML(t *testing.T) {
	file, err := ParseYAML([]byte(signupYAML))
	require.NoError(t, err)
	require.Len(t, file.Forms, 1)

	decl := file.Forms[0]
	assert.Equal(t, "signup", decl.Name)
	require.Len(t, decl.Fields, 3)
	assert.True(t, decl.Fields[0].Native.Required)
	assert.Equal(t, "18", decl.Fields[1].Native.Min)
	assert.Equal(t, "squish", decl.Fields[2].Whitespace)
	assert.Equal(t, []any{3, 12}, decl.Fields[2].Constraints[0].Requirements)

	_, err = ParseYAML([]byte("forms: [unterminated"))
	assert.Error(t, err)
}

func TestBank_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "signup.yaml", signupYAML)
	writeFile(t, dir, "contact.json", contactJSON)
	writeFile(t, dir, "README.md", "not a declaration")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	b := NewBank()
	require.NoError(t, b.LoadDir(dir))
	assert.Equal(t, 2, b.Count())
	assert.Len(t, b.Sources(), 2)

	all := b.All()
	assert.Equal(t, "contact", all[0].Name)
	assert.Equal(t, "signup", all[1].Name)

	decl, ok := b.Get("contact")
	require.True(t, ok)
	assert.True(t, decl.Fields[0].Native.Required)

	_, ok = b.Get("missing")
	assert.False(t, ok)
}

func TestBank_Errors(t *testing.T) {
	dir := t.TempDir()
	b := NewBank()

	assert.Error(t, b.LoadFile(filepath.Join(dir, "absent.yaml")))
	assert.Error(t, b.LoadDir(filepath.Join(dir, "absent")))

	bad := writeFile(t, dir, "bad.yaml", "forms:\n  - fields: []\n")
	assert.ErrorContains(t, b.LoadFile(bad), "has no name")
	assert.Zero(t, b.Count())
}

func TestBank_Add(t *testing.T) {
	b := NewBank()
	b.Add(FormDeclaration{Name: "x"})
	_, ok := b.Get("x")
	assert.True(t, ok)
	assert.Empty(t, b.Sources())
}
