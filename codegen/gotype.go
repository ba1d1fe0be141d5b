package codegen

import (
	"errors"
	"fmt"
	gotypes "go/types"

	"github.com/99designs/gqlgen/codegen/templates"
)

// ErrUnmappedType reports a trait member whose type has no attribute
// description in the framework.
var ErrUnmappedType = errors.New("unmapped type")

// Category is the attribute description family a member type binds to.
type Category int

const (
	Unmapped Category = iota
	Int
	Bool
	Color
	String
)

func (c Category) String() string {
	switch c {
	case Int:
		return "Int"
	case Bool:
		return "Bool"
	case Color:
		return "Color"
	case String:
		return "String"
	}
	return "Unmapped"
}

// colorTypeName is matched by simple name, like the framework base type.
const colorTypeName = "Color"

// Mapping describes how a member type is spelled in generated code.
type Mapping struct {
	// Display is the type relative to the generated package, e.g. "int" or
	// "ui.Label". It does not register imports and is meant for messages.
	Display string
	// Qualified is the spelling used inside generated code. Packages it
	// references are registered with the unit's Imports.
	Qualified string
	// FullName is the import path qualified spelling, e.g.
	// "*example.com/ui.Label". It is stable across packages.
	FullName string
	Category Category
	// Name is the category name, or the type's own simple name when the
	// category is Unmapped.
	Name string
}

// Unmapped returns an *UnmappedTypeError for Unmapped mappings, nil otherwise.
func (m Mapping) Unmapped() error {
	if m.Category != Unmapped {
		return nil
	}
	return &UnmappedTypeError{Type: m.Display, Fallback: m.Name}
}

// UnmappedTypeError names the type and the fallback name used in its place.
type UnmappedTypeError struct {
	Type     string
	Fallback string
}

func (e *UnmappedTypeError) Error() string {
	return fmt.Sprintf("no attribute description for type %s, using %s", e.Type, e.Fallback)
}

func (e *UnmappedTypeError) Is(target error) bool {
	return target == ErrUnmappedType
}

// TypeMapper maps member types to their generated spellings and categories.
type TypeMapper struct {
	pkg     *gotypes.Package
	imports *Imports
}

// NewTypeMapper returns a mapper for code generated into pkg. Qualified
// names register their packages with imports.
func NewTypeMapper(pkg *gotypes.Package, imports *Imports) *TypeMapper {
	return &TypeMapper{
		pkg:     pkg,
		imports: imports,
	}
}

// Map maps t and registers the imports its Qualified spelling needs.
func (m *TypeMapper) Map(t gotypes.Type) Mapping {
	mapping := m.Classify(t)
	mapping.Qualified = gotypes.TypeString(t, m.imports.Qualifier)
	return mapping
}

// Classify maps t without touching the imports. Qualified is left empty.
func (m *TypeMapper) Classify(t gotypes.Type) Mapping {
	category, name := categoryOf(t)
	return Mapping{
		Display:  gotypes.TypeString(t, m.relative),
		FullName: gotypes.TypeString(t, nil),
		Category: category,
		Name:     name,
	}
}

func (m *TypeMapper) relative(p *gotypes.Package) string {
	if p == m.pkg {
		return ""
	}
	return p.Name()
}

func categoryOf(t gotypes.Type) (Category, string) {
	switch tt := gotypes.Unalias(t).(type) {
	case *gotypes.Basic:
		switch tt.Kind() {
		case gotypes.Int, gotypes.Int8, gotypes.Int16, gotypes.Int32:
			return Int, Int.String()
		case gotypes.Bool:
			return Bool, Bool.String()
		case gotypes.String:
			return String, String.String()
		}
		return Unmapped, templates.ToGo(tt.Name())
	case *gotypes.Named:
		if tt.Obj().Name() == colorTypeName {
			return Color, Color.String()
		}
		return Unmapped, templates.ToGo(tt.Obj().Name())
	case *gotypes.Pointer:
		_, name := categoryOf(tt.Elem())
		return Unmapped, name
	}
	return Unmapped, "Value"
}
