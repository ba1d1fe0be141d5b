package codegen

import (
	"bytes"
	"fmt"

	"github.com/Yamashou/uibindgen/symbols"
)

// Framework locates the runtime package generated code refers to.
type Framework struct {
	Import string
	Alias  string
}

// File accumulates the body of one generated file for a type group. Imports
// are registered while the body is written and emitted by Render.
type File struct {
	Group   *TypeGroup
	Imports *Imports
	Mapper  *TypeMapper
	Body    bytes.Buffer

	ui string
}

// NewFile starts a file for g.
func NewFile(g *TypeGroup, fw Framework) *File {
	pkg := g.Owner.Pkg()
	im := NewImports(pkg.Path())
	return &File{
		Group:   g,
		Imports: im,
		Mapper:  NewTypeMapper(pkg, im),
		ui:      im.Add(fw.Import, fw.Alias),
	}
}

// UI qualifies a framework identifier, e.g. UI("Q") is "ui.Q".
func (f *File) UI(name string) string {
	if f.ui == "" {
		return name
	}
	return f.ui + "." + name
}

// Render assembles and formats the file under the given name, placed next
// to the group's source.
func (f *File) Render(name string) (*Unit, error) {
	var buf bytes.Buffer
	WriteFileHeader(&buf, f.Group.Owner.Pkg().Name(), f.Imports.List())
	buf.Write(f.Body.Bytes())

	src, err := Format(name, buf.Bytes())
	if err != nil {
		return nil, err
	}

	return &Unit{
		Dir:    f.Group.Dir(),
		Name:   name,
		Source: src,
	}, nil
}

// Warn returns a warning diagnostic about m.
func Warn(m *symbols.Member, err error) Diagnostic {
	return Diagnostic{
		Severity: Warning,
		Pos:      m.Pos,
		Owner:    m.Owner.Name(),
		Member:   m.Name,
		Err:      err,
	}
}

// Fail returns an error diagnostic about g.
func Fail(g *TypeGroup, err error) Diagnostic {
	d := Diagnostic{
		Severity: Error,
		Owner:    g.Name(),
		Err:      fmt.Errorf("%s skipped: %w", g.Name(), err),
	}
	if len(g.Members) > 0 {
		d.Pos = g.Members[0].Pos
	}
	return d
}
