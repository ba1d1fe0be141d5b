// Package marker defines the closed set of marker directives understood by
// the generator and parses them out of doc comments.
//
// A marker is a directive comment placed directly above a struct field or a
// setter method:
//
//	//uibind:element("title")
//	//uibind:trait("player-health", 0)
//	//uibind:component(Parent)
//
// The text after the prefix is parsed as a Go expression. A bare identifier
// is a marker without arguments; a call supplies positional arguments.
package marker

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"unicode"
)

// Prefix introduces a marker directive.
const Prefix = "//uibind:"

// Kind identifies a marker. Kinds are resolved from directive names once,
// at parse time; everything downstream compares Kind values.
type Kind uint8

const (
	Element Kind = iota + 1
	Trait
	Component
)

var kindNames = map[Kind]string{
	Element:   "element",
	Trait:     "trait",
	Component: "component",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// Kinds returns every marker kind in declaration order.
func Kinds() []Kind {
	return []Kind{Element, Trait, Component}
}

// String returns the directive name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Arity returns the accepted range of constructor arguments.
func (k Kind) Arity() (minArgs, maxArgs int) {
	switch k {
	case Element:
		return 1, 1
	case Trait:
		return 2, 2
	case Component:
		return 0, 1
	}
	return 0, 0
}

// ErrSyntax is returned for a directive with a recognized name whose
// argument list is not a valid expression.
var ErrSyntax = errors.New("invalid marker syntax")

// Instance is one application of a marker to a member.
type Instance struct {
	Kind Kind
	Args []Arg
	Pos  token.Pos
	// Err is set when the directive named a known kind but its payload
	// could not be parsed. Extraction reports it.
	Err error
}

// Arg is one positional marker argument.
type Arg struct {
	Expr ast.Expr
	// Text is the argument as written in the source.
	Text string
	// Value is the constant value of a literal argument, nil otherwise.
	Value constant.Value
}

// IsNil reports whether the argument is the nil literal.
func (a Arg) IsNil() bool {
	id, ok := a.Expr.(*ast.Ident)
	return ok && id.Name == "nil"
}

// Parse parses a single comment. It returns false when the comment is not a
// directive for a known marker kind.
func Parse(c *ast.Comment) (Instance, bool) {
	payload, ok := strings.CutPrefix(c.Text, Prefix)
	if !ok {
		return Instance{}, false
	}
	payload = strings.TrimSpace(payload)

	kind, ok := kindsByName[leadingIdent(payload)]
	if !ok {
		return Instance{}, false
	}

	inst := Instance{Kind: kind, Pos: c.Slash}
	args, err := parseArgs(payload)
	if err != nil {
		inst.Err = fmt.Errorf("%w: %s: %w", ErrSyntax, payload, err)
		return inst, true
	}
	inst.Args = args
	return inst, true
}

// FromComments returns the marker instances found in groups, in order.
func FromComments(groups ...*ast.CommentGroup) []Instance {
	var instances []Instance
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if inst, ok := Parse(c); ok {
				instances = append(instances, inst)
			}
		}
	}
	return instances
}

// HasDirective reports whether any comment in groups starts with Prefix,
// whether or not it names a known kind.
func HasDirective(groups ...*ast.CommentGroup) bool {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if strings.HasPrefix(c.Text, Prefix) {
				return true
			}
		}
	}
	return false
}

func parseArgs(payload string) ([]Arg, error) {
	expr, err := parser.ParseExpr(payload)
	if err != nil {
		return nil, err
	}

	switch e := expr.(type) {
	case *ast.Ident:
		return nil, nil
	case *ast.CallExpr:
		if _, ok := e.Fun.(*ast.Ident); !ok {
			return nil, fmt.Errorf("unexpected %s", types.ExprString(e.Fun))
		}
		if e.Ellipsis.IsValid() {
			return nil, errors.New("variadic arguments are not supported")
		}
		args := make([]Arg, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, Arg{
				Expr:  a,
				Text:  types.ExprString(a),
				Value: constantOf(a),
			})
		}
		return args, nil
	}
	return nil, fmt.Errorf("unexpected %s", types.ExprString(expr))
}

func constantOf(expr ast.Expr) constant.Value {
	switch e := expr.(type) {
	case *ast.BasicLit:
		v := constant.MakeFromLiteral(e.Value, e.Kind, 0)
		if v.Kind() == constant.Unknown {
			return nil
		}
		return v
	case *ast.ParenExpr:
		return constantOf(e.X)
	case *ast.UnaryExpr:
		if e.Op != token.SUB && e.Op != token.ADD {
			return nil
		}
		v := constantOf(e.X)
		if v == nil {
			return nil
		}
		switch v.Kind() {
		case constant.Int, constant.Float, constant.Complex:
			return constant.UnaryOp(e.Op, v, 0)
		}
		return nil
	case *ast.Ident:
		switch e.Name {
		case "true":
			return constant.MakeBool(true)
		case "false":
			return constant.MakeBool(false)
		}
	}
	return nil
}

func leadingIdent(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if end < 0 {
		return s
	}
	return s[:end]
}
