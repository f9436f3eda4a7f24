package symbols

import (
	"fmt"
	"go/ast"
	"go/doc"
	"go/parser"
	"go/printer"
	"go/token"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/refsite/internal/logfields"
)

// LoadModule extracts documentation metadata from the Go package rooted at dir.
//
// Symbols appear in go/doc's own deterministic order: constants, variables,
// functions, then types (each group sorted the way go/doc presents them).
// Unexported symbols are not documented and are skipped.
func LoadModule(dir string) (*Module, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse package at %s: %w", dir, err)
	}

	var astPkg *ast.Package
	for name, p := range pkgs {
		if strings.HasSuffix(name, "_test") {
			continue
		}
		astPkg = p
		break
	}
	if astPkg == nil {
		return nil, fmt.Errorf("no Go package found at %s", dir)
	}

	docPkg := doc.New(astPkg, "./", 0)
	m := &Module{
		Name:       docPkg.Name,
		ImportPath: docPkg.ImportPath,
		Doc:        docPkg.Doc,
	}

	for _, v := range docPkg.Consts {
		appendValues(m, fset, v, KindConst)
	}
	for _, v := range docPkg.Vars {
		appendValues(m, fset, v, KindVar)
	}
	for _, f := range docPkg.Funcs {
		appendFunc(m, fset, f)
	}
	for _, t := range docPkg.Types {
		if !ast.IsExported(t.Name) {
			continue
		}
		m.Symbols = append(m.Symbols, Symbol{
			Name:      t.Name,
			Kind:      KindType,
			Signature: firstLine(printDecl(fset, t.Decl)),
			Doc:       t.Doc,
		})
		for _, v := range t.Consts {
			appendValues(m, fset, v, KindConst)
		}
		for _, v := range t.Vars {
			appendValues(m, fset, v, KindVar)
		}
		for _, f := range t.Funcs {
			appendFunc(m, fset, f)
		}
		for _, f := range t.Methods {
			appendFunc(m, fset, f)
		}
	}

	slog.Debug("Loaded module documentation", logfields.Module(m.Name), logfields.Count(len(m.Symbols)))
	return m, nil
}

func appendValues(m *Module, fset *token.FileSet, v *doc.Value, kind Kind) {
	for _, name := range v.Names {
		if !ast.IsExported(name) {
			continue
		}
		m.Symbols = append(m.Symbols, Symbol{
			Name:      name,
			Kind:      kind,
			Signature: firstLine(printDecl(fset, v.Decl)),
			Doc:       v.Doc,
		})
	}
}

func appendFunc(m *Module, fset *token.FileSet, f *doc.Func) {
	if !ast.IsExported(f.Name) {
		return
	}
	name := f.Name
	if f.Recv != "" {
		name = strings.TrimLeft(f.Recv, "*") + "." + f.Name
	}
	sig := printDecl(fset, f.Decl)
	// Drop the function body; signatures are shown on one line in tables.
	if i := strings.Index(sig, " {"); i > 0 {
		sig = sig[:i]
	}
	m.Symbols = append(m.Symbols, Symbol{
		Name:      name,
		Kind:      KindFunc,
		Signature: firstLine(sig),
		Doc:       f.Doc,
	})
}

func printDecl(fset *token.FileSet, decl ast.Node) string {
	if decl == nil {
		return ""
	}
	var b strings.Builder
	if err := printer.Fprint(&b, fset, decl); err != nil {
		return ""
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
