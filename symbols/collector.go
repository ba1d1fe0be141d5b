// Package symbols finds the struct members that carry marker directives and
// belong to a type deriving from the configured framework base type.
package symbols

import (
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/tools/go/ast/inspector"

	"github.com/Yamashou/uibindgen/loader"
	"github.com/Yamashou/uibindgen/marker"
)

// MemberKind distinguishes the two declaration shapes that can be bound.
type MemberKind int

const (
	// Field is a named struct field.
	Field MemberKind = iota + 1
	// Property is a setter method SetX(v V) standing for a property X.
	Property
)

func (k MemberKind) String() string {
	switch k {
	case Field:
		return "field"
	case Property:
		return "property"
	}
	return "invalid"
}

const setterPrefix = "Set"

// Member is a field- or property-like declaration carrying markers.
type Member struct {
	// Name is the field name, or the property name derived from the setter.
	Name string
	Kind MemberKind
	// Setter is the method name for properties, empty for fields.
	Setter string
	// Type is the declared type: the field type or the setter parameter type.
	Type    types.Type
	Owner   *types.TypeName
	Markers []marker.Instance
	Pos     token.Position
}

// Has reports whether m carries at least one marker of kind k.
func (m *Member) Has(k marker.Kind) bool {
	return slices.ContainsFunc(m.Markers, func(inst marker.Instance) bool {
		return inst.Kind == k
	})
}

// String returns Owner.Name.
func (m *Member) String() string {
	return m.Owner.Name() + "." + m.Name
}

// Base names a type either by simple name ("VisualElement"), matched by
// name only, or by import path qualified name ("example.com/ui.VisualElement"),
// matched by package path and name.
type Base struct {
	Path string
	Name string
}

// ParseBase parses the configured spelling of a base type.
func ParseBase(s string) Base {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return Base{Path: s[:i], Name: s[i+1:]}
	}
	return Base{Name: s}
}

func (b Base) String() string {
	if b.Path == "" {
		return b.Name
	}
	return b.Path + "." + b.Name
}

// Is reports whether t, or the type t points to, is the base type.
func (b Base) Is(t types.Type) bool {
	named := namedOf(t)
	if named == nil {
		return false
	}
	obj := named.Obj()
	if obj.Name() != b.Name {
		return false
	}
	if b.Path == "" {
		return true
	}
	return obj.Pkg() != nil && obj.Pkg().Path() == b.Path
}

// EmbeddedIn walks the embedded fields of t depth first and reports
// whether one of them is the base type. t itself does not count.
func (b Base) EmbeddedIn(t types.Type) bool {
	seen := map[*types.TypeName]bool{}

	var walk func(t types.Type) bool
	walk = func(t types.Type) bool {
		named := namedOf(t)
		if named == nil || seen[named.Obj()] {
			return false
		}
		seen[named.Obj()] = true

		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			return false
		}
		for i := range st.NumFields() {
			f := st.Field(i)
			if !f.Embedded() {
				continue
			}
			if b.Is(f.Type()) || walk(f.Type()) {
				return true
			}
		}
		return false
	}

	return walk(t)
}

// Collector scans packages for bindable members.
type Collector struct {
	base   Base
	kinds  []marker.Kind
	logger *slog.Logger
}

// NewCollector returns a collector accepting members whose containing type
// embeds, directly or transitively, a type named base and that carry at
// least one marker of the given kinds.
//
// base is either a simple type name ("VisualElement"), matched by name
// only, or an import path qualified name ("example.com/ui.VisualElement"),
// matched by package path and name.
func NewCollector(base string, kinds []marker.Kind, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		base:   ParseBase(base),
		kinds:  kinds,
		logger: logger,
	}
}

// Collect returns the accepted members of pkg in document order.
func (c *Collector) Collect(pkg *loader.Package) []*Member {
	var members []*Member

	in := inspector.New(pkg.Files)
	in.Preorder([]ast.Node{(*ast.TypeSpec)(nil), (*ast.FuncDecl)(nil)}, func(n ast.Node) {
		switch decl := n.(type) {
		case *ast.TypeSpec:
			members = append(members, c.fields(pkg, decl)...)
		case *ast.FuncDecl:
			if m := c.property(pkg, decl); m != nil {
				members = append(members, m)
			}
		}
	})

	return members
}

func (c *Collector) fields(pkg *loader.Package, spec *ast.TypeSpec) []*Member {
	st, ok := spec.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil
	}

	var (
		members []*Member
		owner   *types.TypeName
		derived *bool
	)
	for _, field := range st.Fields.List {
		if !marker.HasDirective(field.Doc) {
			continue
		}
		markers := c.recognized(marker.FromComments(field.Doc))
		if markers == nil {
			continue
		}
		if len(field.Names) == 0 {
			c.logger.Debug("skipping embedded field with markers", "pos", pkg.Fset.Position(field.Pos()))
			continue
		}

		if owner == nil {
			obj, ok := pkg.Info.Defs[spec.Name].(*types.TypeName)
			if !ok {
				return nil
			}
			owner = obj
		}
		if derived == nil {
			d := c.base.EmbeddedIn(owner.Type())
			derived = &d
		}
		if !*derived {
			c.logger.Debug("skipping member of type without base", "type", owner.Name(), "base", c.base)
			return nil
		}

		for _, name := range field.Names {
			v, ok := pkg.Info.Defs[name].(*types.Var)
			if !ok || !v.IsField() {
				continue
			}
			members = append(members, &Member{
				Name:    name.Name,
				Kind:    Field,
				Type:    v.Type(),
				Owner:   owner,
				Markers: markers,
				Pos:     pkg.Fset.Position(name.Pos()),
			})
		}
	}
	return members
}

func (c *Collector) property(pkg *loader.Package, decl *ast.FuncDecl) *Member {
	if decl.Recv == nil || !marker.HasDirective(decl.Doc) {
		return nil
	}
	markers := c.recognized(marker.FromComments(decl.Doc))
	if markers == nil {
		return nil
	}

	fn, ok := pkg.Info.Defs[decl.Name].(*types.Func)
	if !ok {
		return nil
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || !isSetter(fn.Name(), sig) {
		c.logger.Debug("skipping method that is not a setter", "method", fn.FullName())
		return nil
	}

	owner := receiverTypeName(sig.Recv().Type())
	if owner == nil || !c.base.EmbeddedIn(owner.Type()) {
		return nil
	}

	return &Member{
		Name:    strings.TrimPrefix(fn.Name(), setterPrefix),
		Kind:    Property,
		Setter:  fn.Name(),
		Type:    sig.Params().At(0).Type(),
		Owner:   owner,
		Markers: markers,
		Pos:     pkg.Fset.Position(decl.Name.Pos()),
	}
}

// recognized returns instances if at least one has a kind the collector
// accepts, nil otherwise. All instances are kept so that extraction sees
// the complete attribute list.
func (c *Collector) recognized(instances []marker.Instance) []marker.Instance {
	for _, inst := range instances {
		if slices.Contains(c.kinds, inst.Kind) {
			return instances
		}
	}
	return nil
}

func isSetter(name string, sig *types.Signature) bool {
	return len(name) > len(setterPrefix) &&
		strings.HasPrefix(name, setterPrefix) &&
		sig.Recv() != nil &&
		sig.Params().Len() == 1 &&
		sig.Results().Len() == 0 &&
		!sig.Variadic()
}

func receiverTypeName(t types.Type) *types.TypeName {
	named := namedOf(t)
	if named == nil {
		return nil
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}
	return named.Origin().Obj()
}

func namedOf(t types.Type) *types.Named {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	named, _ := t.(*types.Named)
	return named
}
