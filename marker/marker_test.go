package marker

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type parsedArg struct {
	Text  string
	Value string
	IsNil bool
}

func project(inst Instance) (Kind, []parsedArg) {
	var args []parsedArg
	for _, a := range inst.Args {
		p := parsedArg{Text: a.Text, IsNil: a.IsNil()}
		if a.Value != nil {
			p.Value = a.Value.ExactString()
		}
		args = append(args, p)
	}
	return inst.Kind, args
}

func TestParse(t *testing.T) {
	t.Parallel()

	type args struct {
		text string
	}

	type want struct {
		ok     bool
		kind   Kind
		args   []parsedArg
		syntax bool
	}

	tests := []struct {
		name string
		args args
		want want
	}{
		{
			name: "element with a string name",
			args: args{text: `//uibind:element("title")`},
			want: want{
				ok:   true,
				kind: Element,
				args: []parsedArg{{Text: `"title"`, Value: `"title"`}},
			},
		},
		{
			name: "trait with an integer default",
			args: args{text: `//uibind:trait("player-health", 0)`},
			want: want{
				ok:   true,
				kind: Trait,
				args: []parsedArg{
					{Text: `"player-health"`, Value: `"player-health"`},
					{Text: "0", Value: "0"},
				},
			},
		},
		{
			name: "trait with a pascal case boolean keeps its text",
			args: args{text: `//uibind:trait("visible", True)`},
			want: want{
				ok:   true,
				kind: Trait,
				args: []parsedArg{
					{Text: `"visible"`, Value: `"visible"`},
					{Text: "True"},
				},
			},
		},
		{
			name: "trait with a nil default",
			args: args{text: `//uibind:trait("tint", nil)`},
			want: want{
				ok:   true,
				kind: Trait,
				args: []parsedArg{
					{Text: `"tint"`, Value: `"tint"`},
					{Text: "nil", IsNil: true},
				},
			},
		},
		{
			name: "negative numbers are constants",
			args: args{text: `//uibind:trait("offset", -3)`},
			want: want{
				ok:   true,
				kind: Trait,
				args: []parsedArg{
					{Text: `"offset"`, Value: `"offset"`},
					{Text: "-3", Value: "-3"},
				},
			},
		},
		{
			name: "component without arguments",
			args: args{text: `//uibind:component`},
			want: want{ok: true, kind: Component},
		},
		{
			name: "component with empty argument list",
			args: args{text: `//uibind:component()`},
			want: want{ok: true, kind: Component, args: nil},
		},
		{
			name: "component with a scope name",
			args: args{text: `//uibind:component(Parent)`},
			want: want{
				ok:   true,
				kind: Component,
				args: []parsedArg{{Text: "Parent"}},
			},
		},
		{
			name: "unknown marker names are ignored",
			args: args{text: `//uibind:unknown("x")`},
			want: want{ok: false},
		},
		{
			name: "plain comments are ignored",
			args: args{text: `// element("x")`},
			want: want{ok: false},
		},
		{
			name: "a space after the slashes is not a directive",
			args: args{text: `// uibind:element("x")`},
			want: want{ok: false},
		},
		{
			name: "broken argument list is a syntax error",
			args: args{text: `//uibind:element("x"`},
			want: want{ok: true, kind: Element, syntax: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inst, ok := Parse(&ast.Comment{Text: tt.args.text})
			if diff := cmp.Diff(tt.want.ok, ok); diff != "" {
				t.Fatalf("ok diff(-want +got): %s", diff)
			}
			if !ok {
				return
			}

			if got := errors.Is(inst.Err, ErrSyntax); got != tt.want.syntax {
				t.Fatalf("syntax error = %v, want %v (err: %v)", got, tt.want.syntax, inst.Err)
			}
			if tt.want.syntax {
				return
			}

			kind, args := project(inst)
			if diff := cmp.Diff(tt.want.kind, kind); diff != "" {
				t.Errorf("kind diff(-want +got): %s", diff)
			}
			if diff := cmp.Diff(tt.want.args, args); diff != "" {
				t.Errorf("args diff(-want +got): %s", diff)
			}
		})
	}
}

func TestFromComments(t *testing.T) {
	t.Parallel()

	src := `package p

type T struct {
	// Title is the heading.
	//uibind:element("title")
	//uibind:element("other")
	//uibind:note("ignored")
	Title string
}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}

	field := f.Decls[0].(*ast.GenDecl).Specs[0].(*ast.TypeSpec).Type.(*ast.StructType).Fields.List[0]
	got := FromComments(field.Doc)

	var kinds []Kind
	for _, inst := range got {
		kinds = append(kinds, inst.Kind)
	}
	if diff := cmp.Diff([]Kind{Element, Element}, kinds); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}

	if !HasDirective(field.Doc) {
		t.Errorf("HasDirective() = false, want true")
	}
	if HasDirective(nil) {
		t.Errorf("HasDirective(nil) = true, want false")
	}
}

func TestKind_Arity(t *testing.T) {
	t.Parallel()

	type arity struct{ Min, Max int }
	got := map[string]arity{}
	for _, k := range Kinds() {
		lo, hi := k.Arity()
		got[k.String()] = arity{lo, hi}
	}

	want := map[string]arity{
		"element":   {1, 1},
		"trait":     {2, 2},
		"component": {0, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestScope(t *testing.T) {
	t.Parallel()

	for n, want := range map[int64]Scope{0: This, 1: Parent, 2: Children} {
		got, ok := ScopeFromOrdinal(n)
		if !ok || got != want {
			t.Errorf("ScopeFromOrdinal(%d) = %v, %v; want %v, true", n, got, ok, want)
		}
		byName, ok := ScopeFromName(want.String())
		if !ok || byName != want {
			t.Errorf("ScopeFromName(%q) = %v, %v; want %v, true", want.String(), byName, ok, want)
		}
	}

	if got, ok := ScopeFromOrdinal(7); ok || got != This {
		t.Errorf("ScopeFromOrdinal(7) = %v, %v; want This, false", got, ok)
	}
	if _, ok := ScopeFromName("Sibling"); ok {
		t.Errorf("ScopeFromName(Sibling) ok = true, want false")
	}
}

func TestDeclarations(t *testing.T) {
	t.Parallel()

	first, err := Declarations("uibind")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Declarations("uibind")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("declarations are not stable (-first +second): %s", diff)
	}

	for _, want := range []string{
		"package uibind",
		"Parent   Scope = 1",
		"Children Scope = 2",
		`//	//uibind:trait(name string, defaultValue any)`,
	} {
		if !strings.Contains(string(first), want) {
			t.Errorf("declarations missing %q", want)
		}
	}
}
