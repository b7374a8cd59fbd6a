// Package i18n provides locale-keyed text lookup backed by embedded
// YAML catalogs. Business logic depends only on the Resolver
// capability; new languages are added by dropping in another catalog
// file, not by branching on locale codes.
package i18n

import (
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var localeFS embed.FS

// DefaultLanguage is used when a caller passes an unknown locale code.
const DefaultLanguage = "en"

// Resolver looks up the localized string for a key. Implementations
// never fail: an unknown key resolves to the key itself.
type Resolver interface {
	Resolve(key, lang string) string
}

// Language pairs a locale code with its display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Catalog is a Resolver over the embedded locale tables.
type Catalog struct {
	tables map[string]map[string]string
}

// Load parses every embedded locale file. The locale code is the file
// name without extension.
func Load() (*Catalog, error) {
	entries, err := localeFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read locale dir: %w", err)
	}
	tables := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		var table map[string]string
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		code := strings.TrimSuffix(name, filepath.Ext(name))
		if len(table) == 0 {
			return nil, fmt.Errorf("locale %s is empty", code)
		}
		tables[code] = table
	}
	if _, ok := tables[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default locale %q is missing", DefaultLanguage)
	}
	return &Catalog{tables: tables}, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog, loading it on first use.
// The embedded files are validated by tests, so a parse failure here
// is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(fmt.Sprintf("i18n: embedded locale catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Resolve returns the localized string for key under lang. Unknown
// locales fall back to the default language; unknown keys resolve to
// the key itself, verbatim.
func (c *Catalog) Resolve(key, lang string) string {
	table, ok := c.tables[lang]
	if !ok {
		table = c.tables[DefaultLanguage]
	}
	if text, ok := table[key]; ok {
		return text
	}
	return key
}

// Supported reports whether lang has a locale table.
func (c *Catalog) Supported(lang string) bool {
	_, ok := c.tables[lang]
	return ok
}

// Languages lists the available locales sorted by code.
func (c *Catalog) Languages() []Language {
	out := make([]Language, 0, len(c.tables))
	for code := range c.tables {
		out = append(out, Language{Code: code, Name: c.Resolve("language_name", code)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
