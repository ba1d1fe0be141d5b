// Package loader supplies the syntax trees and type information the
// generator reads. Production runs go through go/packages; tests can type
// check in-memory sources with Check.
package loader

import (
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// GeneratedHeader is the first line of every file uibindgen writes.
const GeneratedHeader = "// Code generated by uibindgen. DO NOT EDIT."

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Package is one type-checked Go package. It is read-only for the duration
// of a generation pass.
type Package struct {
	PkgPath string
	Name    string
	Dir     string
	Fset    *token.FileSet
	Files   []*ast.File
	Types   *types.Package
	Info    *types.Info
	// Generated lists the files of the package written by a previous run.
	// They are type checked without declarations.
	Generated []string
	// TypeErrors are type errors tolerated because the package had
	// Generated files. Hand-written code referring to generated
	// declarations fails to resolve until the files are written again.
	TypeErrors []error
}

// Load loads the packages matching patterns relative to dir.
//
// Files written by a previous run are type checked without their
// declarations, so stale output never blocks regenerating it. The files
// named in keep are parsed in full; they do not depend on the loaded code.
// Other packages with errors are rejected, since generated code would be
// derived from incomplete type information.
func Load(dir string, keep []string, patterns ...string) ([]*Package, error) {
	gen := &generatedFiles{keep: keep}
	cfg := &packages.Config{
		Mode:      loadMode,
		Dir:       dir,
		Tests:     false,
		ParseFile: gen.parseFile,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	var errs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		tolerant := slices.ContainsFunc(p.CompiledGoFiles, gen.contains)
		for _, e := range p.Errors {
			if tolerant && e.Kind == packages.TypeError {
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %s", p.PkgPath, e.Msg))
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("packages contain errors: %w", errors.Join(errs...))
	}

	result := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if len(p.Syntax) == 0 {
			continue
		}

		var generated []string
		for _, f := range p.CompiledGoFiles {
			if gen.contains(f) {
				generated = append(generated, f)
			}
		}
		var typeErrs []error
		for _, e := range p.Errors {
			typeErrs = append(typeErrs, fmt.Errorf("%s: %s", e.Pos, e.Msg))
		}

		syntax := handWritten(p.Syntax)
		if len(syntax) == 0 {
			continue
		}
		result = append(result, &Package{
			PkgPath:    p.PkgPath,
			Name:       p.Name,
			Dir:        filepath.Dir(p.Fset.File(syntax[0].Pos()).Name()),
			Fset:       p.Fset,
			Files:      syntax,
			Types:      p.Types,
			Info:       p.TypesInfo,
			Generated:  generated,
			TypeErrors: typeErrs,
		})
	}

	slices.SortFunc(result, func(a, b *Package) int {
		return strings.Compare(a.PkgPath, b.PkgPath)
	})

	return result, nil
}

// generatedFiles is a packages.Config.ParseFile hook that strips the
// declarations of files carrying GeneratedHeader. packages parses files
// concurrently.
type generatedFiles struct {
	keep []string

	mu    sync.Mutex
	names map[string]bool
}

func (g *generatedFiles) parseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	f, err := parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
	if err != nil || !IsBindingFile(f) || slices.Contains(g.keep, filepath.Clean(filename)) {
		return f, err
	}

	g.mu.Lock()
	if g.names == nil {
		g.names = make(map[string]bool)
	}
	g.names[filename] = true
	g.mu.Unlock()

	return &ast.File{
		Doc:       f.Doc,
		Package:   f.Package,
		Name:      f.Name,
		FileStart: f.FileStart,
		FileEnd:   f.FileEnd,
		Comments:  f.Comments[:1],
	}, nil
}

func (g *generatedFiles) contains(filename string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.names[filename]
}

// IsBindingFile reports whether f was written by uibindgen. Files of other
// generators are left alone; hand-written code may depend on them.
func IsBindingFile(f *ast.File) bool {
	if len(f.Comments) == 0 || f.Comments[0].Pos() > f.Package {
		return false
	}
	first := f.Comments[0].List[0]
	return first.Text == GeneratedHeader
}

// Check parses and type checks sources as a single package. Keys of
// sources are file names; files are processed in sorted name order.
func Check(pkgPath string, sources map[string]string) (*Package, error) {
	fset := token.NewFileSet()

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)

	files := make([]*ast.File, 0, len(names))
	for _, name := range names {
		f, err := parser.ParseFile(fset, name, sources[name], parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		files = append(files, f)
	}

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check(pkgPath, fset, files, info)
	if err != nil {
		return nil, fmt.Errorf("type check %s: %w", pkgPath, err)
	}

	return &Package{
		PkgPath: pkgPath,
		Name:    pkg.Name(),
		Dir:     ".",
		Fset:    fset,
		Files:   files,
		Types:   pkg,
		Info:    info,
	}, nil
}

// handWritten drops files produced by a previous run so that their
// declarations never feed back into collection.
func handWritten(syntax []*ast.File) []*ast.File {
	var kept []*ast.File
	for _, f := range syntax {
		if ast.IsGenerated(f) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
