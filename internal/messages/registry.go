package messages

import (
	"fmt"
	"maps"
	"strings"

	"golang.org/x/text/language"
)

// UnknownLanguageError is returned by SetLanguage for codes without a catalog.
type UnknownLanguageError struct {
	Language  string
	Available []string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (available: %s)", e.Language, strings.Join(e.Available, ", "))
}

// Registry holds the active language and message overrides of one engine.
// It is not safe for concurrent use.
type Registry struct {
	catalogs  map[string]*Catalog
	active    string
	overrides map[string]map[string]string // language -> code -> template
}

// NewRegistry creates a registry over the embedded catalogs with DefaultLanguage active.
func NewRegistry() (*Registry, error) {
	cats, err := Builtin()
	if err != nil {
		return nil, err
	}
	return &Registry{
		catalogs:  maps.Clone(cats),
		active:    DefaultLanguage,
		overrides: make(map[string]map[string]string),
	}, nil
}

// MustRegistry is NewRegistry for callers that treat broken embedded data as fatal.
func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// AddCatalog installs or replaces a catalog.
func (r *Registry) AddCatalog(c *Catalog) {
	r.catalogs[c.Language] = c
}

// Language returns the active language code.
func (r *Registry) Language() string {
	return r.active
}

// Languages returns the available language codes, sorted.
func (r *Registry) Languages() []string {
	return sortedKeys(r.catalogs)
}

// LanguageName returns the display name of a catalog.
func (r *Registry) LanguageName(code string) string {
	if c, ok := r.catalogs[code]; ok && c.Name != "" {
		return c.Name
	}
	return code
}

// SetLanguage switches the active language. Codes are matched by their base
// language ("de-CH" selects "de"). An unsupported code leaves the registry
// unchanged and returns *UnknownLanguageError.
func (r *Registry) SetLanguage(code string) error {
	resolved, ok := r.resolveLanguage(code)
	if !ok {
		return &UnknownLanguageError{Language: code, Available: r.Languages()}
	}
	r.active = resolved
	return nil
}

func (r *Registry) resolveLanguage(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if _, ok := r.catalogs[code]; ok {
		return code, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	if _, ok := r.catalogs[base.String()]; ok {
		return base.String(), true
	}
	return "", false
}

// SetMessage installs a template override for code in the active language.
// Unknown codes are stored as well and take effect once such a code is rendered.
func (r *Registry) SetMessage(code, template string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	m := r.overrides[r.active]
	if m == nil {
		m = make(map[string]string)
		r.overrides[r.active] = m
	}
	m[code] = template
}

// Template resolves the template for code following the fallback chain.
func (r *Registry) Template(code string) string {
	if t, ok := r.lookup(r.active, code); ok {
		return t
	}
	if t, ok := r.lookup(DefaultLanguage, code); ok {
		return t
	}
	if c, ok := r.catalogs[r.active]; ok && c.Unknown != "" {
		return c.Unknown
	}
	return genericTemplate
}

func (r *Registry) lookup(lang, code string) (string, bool) {
	if t, ok := r.overrides[lang][code]; ok {
		return t, true
	}
	if c, ok := r.catalogs[lang]; ok {
		if t, ok := c.Messages[code]; ok {
			return t, true
		}
	}
	return "", false
}

// Render formats the message for code with positional arguments.
func (r *Registry) Render(code string, args []string) string {
	return Format(r.Template(code), code, args)
}

// Clone returns an independent copy, sharing only the read-only catalogs.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		catalogs:  maps.Clone(r.catalogs),
		active:    r.active,
		overrides: make(map[string]map[string]string, len(r.overrides)),
	}
	for lang, m := range r.overrides {
		c.overrides[lang] = maps.Clone(m)
	}
	return c
}

// Overrides returns a copy of the overrides for lang.
func (r *Registry) Overrides(lang string) map[string]string {
	return maps.Clone(r.overrides[lang])
}
