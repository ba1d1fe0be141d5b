// Package extract validates the marker instances of a member against the
// schema of their kind and turns them into binding data.
//
// Every function returns (nil, nil) when the member carries no marker of the
// requested kind. Errors are fatal for the member's containing type.
package extract

import (
	"go/ast"
	"go/constant"
	"go/types"

	"github.com/Yamashou/uibindgen/marker"
	"github.com/Yamashou/uibindgen/symbols"
)

// ElementBinding binds a member to a named element of the element tree.
type ElementBinding struct {
	Name string
}

// TraitBinding binds a member to a value of the attribute bag.
type TraitBinding struct {
	Name string
	Type types.Type
	// Default is the default value as Go source text. Nil means no default.
	Default *string
}

// ComponentBinding binds a member to a component found in Scope.
type ComponentBinding struct {
	Scope marker.Scope
	// Fallback is set when an unknown scope was replaced by This.
	Fallback error
}

// Options tunes validation.
type Options struct {
	// StrictScope rejects component scopes other than This, Parent and
	// Children instead of falling back to This.
	StrictScope bool
}

// Element extracts the element binding of m.
func Element(m *symbols.Member) (*ElementBinding, error) {
	inst, err := lookup(m, marker.Element)
	if inst == nil || err != nil {
		return nil, err
	}

	name, err := bindingName(m, inst)
	if err != nil {
		return nil, err
	}
	return &ElementBinding{Name: name}, nil
}

// Trait extracts the trait binding of m. A boolean member's default written
// as True or False is normalized to the Go literal.
func Trait(m *symbols.Member) (*TraitBinding, error) {
	inst, err := lookup(m, marker.Trait)
	if inst == nil || err != nil {
		return nil, err
	}

	name, err := bindingName(m, inst)
	if err != nil {
		return nil, err
	}

	return &TraitBinding{
		Name:    name,
		Type:    m.Type,
		Default: defaultText(inst.Args[1], m.Type),
	}, nil
}

// Component extracts the component binding of m.
func Component(m *symbols.Member, opts Options) (*ComponentBinding, error) {
	inst, err := lookup(m, marker.Component)
	if inst == nil || err != nil {
		return nil, err
	}

	if len(inst.Args) == 0 {
		return &ComponentBinding{Scope: marker.This}, nil
	}

	arg := inst.Args[0]
	if scope, ok := decodeScope(arg); ok {
		return &ComponentBinding{Scope: scope}, nil
	}

	argErr := &ArgumentError{
		Member: m.String(),
		Kind:   marker.Component,
		Index:  0,
		Reason: "unknown scope " + arg.Text,
	}
	if opts.StrictScope {
		return nil, argErr
	}
	return &ComponentBinding{Scope: marker.This, Fallback: argErr}, nil
}

// lookup returns the single instance of kind on m after checking how often
// it was applied and how many arguments it has.
func lookup(m *symbols.Member, kind marker.Kind) (*marker.Instance, error) {
	var (
		found *marker.Instance
		count int
	)
	for i := range m.Markers {
		if m.Markers[i].Kind != kind {
			continue
		}
		count++
		if found == nil {
			found = &m.Markers[i]
		}
	}

	switch {
	case count == 0:
		return nil, nil
	case count > 1:
		return nil, &UsageError{Member: m.String(), Kind: kind, Count: count}
	}

	if found.Err != nil {
		return nil, &ArgumentError{
			Member: m.String(),
			Kind:   kind,
			Reason: "cannot parse marker",
			Err:    found.Err,
		}
	}

	lo, hi := kind.Arity()
	if n := len(found.Args); n < lo || n > hi {
		return nil, &ArityError{Member: m.String(), Kind: kind, Min: lo, Max: hi, Got: n}
	}

	return found, nil
}

func bindingName(m *symbols.Member, inst *marker.Instance) (string, error) {
	arg := inst.Args[0]
	if arg.Value == nil || arg.Value.Kind() != constant.String {
		return "", &ArgumentError{
			Member: m.String(),
			Kind:   inst.Kind,
			Index:  0,
			Reason: "binding name must be a string literal, got " + arg.Text,
		}
	}
	return constant.StringVal(arg.Value), nil
}

func defaultText(arg marker.Arg, t types.Type) *string {
	if arg.IsNil() {
		return nil
	}

	text := arg.Text
	if isBoolean(t) {
		switch text {
		case "True":
			text = "true"
		case "False":
			text = "false"
		}
	}
	return &text
}

func decodeScope(arg marker.Arg) (marker.Scope, bool) {
	if arg.Value != nil {
		if arg.Value.Kind() != constant.Int {
			return marker.This, false
		}
		n, exact := constant.Int64Val(arg.Value)
		if !exact {
			return marker.This, false
		}
		return marker.ScopeFromOrdinal(n)
	}

	switch e := arg.Expr.(type) {
	case *ast.Ident:
		return marker.ScopeFromName(e.Name)
	case *ast.SelectorExpr:
		return marker.ScopeFromName(e.Sel.Name)
	}
	return marker.This, false
}

func isBoolean(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsBoolean != 0
}
