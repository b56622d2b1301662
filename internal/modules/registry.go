package modules

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"tpyparser/internal/symbols"
)

// snapshotSchema is bumped whenever the encoded Module shape changes.
const snapshotSchema uint16 = 1

// BuiltinsModule holds the names visible without an import.
const BuiltinsModule = "builtins"

// Registry maps module names to loaded modules. Replacing a module swaps the
// whole value under the lock, so readers see either the old or the new
// module, never a mix.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewRegistry creates a registry preloaded with the embedded built-in
// modules.
func NewRegistry() *Registry {
	base := builtinModules()
	r := &Registry{modules: make(map[string]*Module, len(base)+8)}
	for name, m := range base {
		r.modules[name] = m
	}
	return r
}

// NewEmptyRegistry creates a registry without built-in modules.
func NewEmptyRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Define loads body and installs it under name, replacing any earlier
// module of that name. The loaded module is returned even when it has
// problems; an empty name installs nothing.
func (r *Registry) Define(name, body string, format Format) *Module {
	m := Load(name, body, format)
	if name != "" {
		r.Put(m)
	}
	return m
}

// Put installs m, replacing a module of the same name.
func (r *Registry) Put(m *Module) {
	if m == nil {
		return
	}
	r.mu.Lock()
	r.modules[m.Name] = m
	r.mu.Unlock()
}

// Get returns the module registered under name.
func (r *Registry) Get(name string) (*Module, bool) {
	r.mu.RLock()
	m, ok := r.modules[name]
	r.mu.RUnlock()
	return m, ok
}

// Remove drops a module; it reports whether one was registered.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[name]; !ok {
		return false
	}
	delete(r.modules, name)
	return true
}

// Names lists registered module names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.modules))
	for name := range r.modules {
		out = append(out, name)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}

// Clone returns an independent registry sharing the (immutable) modules.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &Registry{modules: make(map[string]*Module, len(r.modules))}
	for name, m := range r.modules {
		out.modules[name] = m
	}
	return out
}

// Module implements symbols.Resolver.
func (r *Registry) Module(name string) *symbols.Symbol {
	if m, ok := r.Get(name); ok {
		return m.Symbol
	}
	return nil
}

// Builtin implements symbols.Resolver.
func (r *Registry) Builtin(name string) *symbols.Symbol {
	m, ok := r.Get(BuiltinsModule)
	if !ok {
		return nil
	}
	return m.Member(name)
}

type snapshot struct {
	Schema  uint16    `msgpack:"schema"`
	Modules []*Module `msgpack:"modules"`
}

// Snapshot encodes every module so another registry can be restored from
// it.
func (r *Registry) Snapshot() ([]byte, error) {
	names := r.Names()
	snap := snapshot{Schema: snapshotSchema, Modules: make([]*Module, 0, len(names))}
	for _, name := range names {
		if m, ok := r.Get(name); ok {
			snap.Modules = append(snap.Modules, m)
		}
	}
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, fmt.Errorf("encode module snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore replaces the registry contents with a snapshot. On error the
// registry is left unchanged.
func (r *Registry) Restore(data []byte) error {
	var snap snapshot
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return fmt.Errorf("decode module snapshot: %w", err)
	}
	if snap.Schema != snapshotSchema {
		return fmt.Errorf("module snapshot schema %d, want %d", snap.Schema, snapshotSchema)
	}
	modules := make(map[string]*Module, len(snap.Modules))
	for _, m := range snap.Modules {
		if m != nil && m.Symbol != nil {
			modules[m.Name] = m
		}
	}
	r.mu.Lock()
	r.modules = modules
	r.mu.Unlock()
	return nil
}
