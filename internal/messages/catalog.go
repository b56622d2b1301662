// Package messages renders diagnostic codes into localized text.
//
// Built-in catalogs are embedded TOML files, one per language. A Registry
// layers per-language overrides on top of them and resolves templates with
// the fallback chain override -> catalog -> default language -> generic.
package messages

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
)

// DefaultLanguage is used when the active language has no template for a code.
const DefaultLanguage = "en"

const genericTemplate = "unknown error {code}"

//go:embed catalogs/*.toml
var catalogFS embed.FS

// Catalog is one language's message table.
type Catalog struct {
	Language string            `toml:"language"`
	Name     string            `toml:"name"`
	Unknown  string            `toml:"unknown"`
	Messages map[string]string `toml:"messages"`
}

var (
	builtinOnce sync.Once
	builtin     map[string]*Catalog
	builtinErr  error
)

// Builtin returns the embedded catalogs keyed by language code.
// The returned catalogs are shared and must not be modified.
func Builtin() (map[string]*Catalog, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = loadCatalogs()
	})
	return builtin, builtinErr
}

func loadCatalogs() (map[string]*Catalog, error) {
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		return nil, fmt.Errorf("read catalogs: %w", err)
	}
	out := make(map[string]*Catalog, len(entries))
	for _, e := range entries {
		name := path.Join("catalogs", e.Name())
		data, err := catalogFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var c Catalog
		if _, err := toml.Decode(string(data), &c); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		if c.Language == "" {
			return nil, fmt.Errorf("%s: missing language", name)
		}
		out[c.Language] = &c
	}
	if _, ok := out[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default catalog %q missing", DefaultLanguage)
	}
	return out, nil
}

// LoadCatalogFile reads an additional catalog from disk.
func LoadCatalogFile(filename string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.DecodeFile(filename, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	if c.Language == "" {
		return nil, fmt.Errorf("%s: missing language", filename)
	}
	return &c, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
