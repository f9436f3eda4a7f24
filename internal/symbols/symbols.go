// Package symbols models the documented surface of a module: the ordered
// symbol metadata extracted from source, the name → URL index used for
// cross-reference linking, and the selector engine that partitions symbols
// into reference groups.
package symbols

// Kind classifies a documented symbol.
type Kind string

const (
	KindFunc  Kind = "func"
	KindType  Kind = "type"
	KindConst Kind = "const"
	KindVar   Kind = "var"
)

// Symbol is one documented unit of a module.
type Symbol struct {
	Name      string // Bare symbol name
	Kind      Kind
	Signature string // Declaration as written, single line
	Doc       string // Raw documentation block
}

// Module is the documentation metadata for one module, in the source
// language's own deterministic iteration order.
type Module struct {
	Name       string
	ImportPath string
	Doc        string
	Symbols    []Symbol
}

// Symbol returns the named symbol, or nil when not documented.
func (m *Module) Symbol(name string) *Symbol {
	for i := range m.Symbols {
		if m.Symbols[i].Name == name {
			return &m.Symbols[i]
		}
	}
	return nil
}

// Names returns the symbol names in module order.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Symbols))
	for _, s := range m.Symbols {
		names = append(names, s.Name)
	}
	return names
}

// Index maps a bare symbol name to the relative URL of its page.
type Index map[string]string

// BuildIndex builds the name → URL lookup over a module's symbols.
//
// Names are unique within one index; a later duplicate definition overwrites
// an earlier one (last-write-wins, in module order).
func BuildIndex(m *Module) Index {
	idx := make(Index, len(m.Symbols))
	for _, s := range m.Symbols {
		idx[s.Name] = PageURL(s.Name)
	}
	return idx
}

// PageURL returns the root-relative URL of a symbol's reference page, so
// links resolve identically from any page depth.
func PageURL(name string) string {
	return "/reference/" + Slug(name) + "/"
}
