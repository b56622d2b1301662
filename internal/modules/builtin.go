package modules

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"tpyparser/internal/symbols"
)

//go:embed stubs/*.pyi
var stubFiles embed.FS

// builtinModules loads the embedded stubs once per process. The modules are
// shared by every registry and never modified after loading.
var builtinModules = sync.OnceValue(func() map[string]*Module {
	out := make(map[string]*Module)
	entries, err := fs.ReadDir(stubFiles, "stubs")
	if err != nil {
		panic(err)
	}
	for _, ent := range entries {
		data, err := stubFiles.ReadFile(path.Join("stubs", ent.Name()))
		if err != nil {
			panic(err)
		}
		name := strings.TrimSuffix(ent.Name(), ".pyi")
		m := Load(name, string(data), FormatStub)
		prov := symbols.ProvStub
		if name == BuiltinsModule {
			prov = symbols.ProvBuiltin
		}
		m.Symbol.Provenance = prov
		stamp(m.Symbol.Members, name, prov)
		out[name] = m
	}
	return out
})

// BuiltinNames lists the embedded module names in sorted order.
func BuiltinNames() []string {
	var out []string
	for name := range builtinModules() {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
