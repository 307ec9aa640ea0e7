package binding

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Bank holds form declarations loaded from files, keyed by
// form name.
type Bank struct {
	mu      sync.RWMutex
	forms   map[string]FormDeclaration
	sources []string
}

// NewBank creates an empty Bank.
func NewBank() *Bank {
	return &Bank{forms: make(map[string]FormDeclaration)}
}

// LoadFile loads the forms declared in a YAML or JSON file. A
// later form with the same name replaces an earlier one.
func (b *Bank) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read declaration file %s: %w", path, err)
	}
	file, err := ParseYAML(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, decl := range file.Forms {
		if decl.Name == "" {
			return fmt.Errorf("form at index %d in %s has no name", i, path)
		}
		b.forms[decl.Name] = decl
	}
	b.sources = append(b.sources, path)
	return nil
}

// LoadDir loads every .yaml, .yml and .json file of dir.
func (b *Bank) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read declaration directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		if err := b.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Add registers a declaration built in code, such as one
// derived from OpenAPI.
func (b *Bank) Add(decl FormDeclaration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forms[decl.Name] = decl
}

// Get retrieves a form declaration by name.
func (b *Bank) Get(name string) (FormDeclaration, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	decl, ok := b.forms[name]
	return decl, ok
}

// All returns the declarations sorted by name.
func (b *Bank) All() []FormDeclaration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]FormDeclaration, 0, len(b.forms))
	for _, decl := range b.forms {
		out = append(out, decl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Count returns the number of declarations.
func (b *Bank) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.forms)
}

// Sources returns the loaded file paths.
func (b *Bank) Sources() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.sources))
	copy(out, b.sources)
	return out
}
