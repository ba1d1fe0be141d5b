package codegen

import (
	"cmp"
	"fmt"
	gotypes "go/types"
	"path"
	"slices"
)

// Import is one import of a generated file.
type Import struct {
	Alias string
	Path  string
}

// Explicit reports whether the import needs its alias spelled out.
func (i Import) Explicit() bool {
	return i.Alias != path.Base(i.Path)
}

// Imports collects the imports of one generated file and hands out
// collision free aliases.
type Imports struct {
	self    string
	byPath  map[string]string
	byAlias map[string]string
}

// NewImports returns an empty set for a file in the package with import
// path self. References to self are never imported.
func NewImports(self string) *Imports {
	return &Imports{
		self:    self,
		byPath:  map[string]string{},
		byAlias: map[string]string{},
	}
}

// Add registers importPath under the preferred alias name and returns the
// alias actually used. Adding the same path again returns the first alias.
func (im *Imports) Add(importPath, name string) string {
	if importPath == im.self {
		return ""
	}
	if alias, ok := im.byPath[importPath]; ok {
		return alias
	}

	alias := name
	for i := 1; ; i++ {
		if _, taken := im.byAlias[alias]; !taken {
			break
		}
		alias = fmt.Sprintf("%s%d", name, i)
	}

	im.byPath[importPath] = alias
	im.byAlias[alias] = importPath
	return alias
}

// Qualifier is a go/types qualifier that imports every package it sees.
func (im *Imports) Qualifier(p *gotypes.Package) string {
	return im.Add(p.Path(), p.Name())
}

// List returns the imports sorted by path.
func (im *Imports) List() []Import {
	list := make([]Import, 0, len(im.byPath))
	for p, alias := range im.byPath {
		list = append(list, Import{Alias: alias, Path: p})
	}
	slices.SortFunc(list, func(a, b Import) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return list
}
