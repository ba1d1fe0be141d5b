package codegen

import (
	"errors"
	"go/token"
	"go/types"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTypeMapper_Map(t *testing.T) {
	t.Parallel()

	hud := types.NewPackage("example.com/hud", "hud")
	ui := types.NewPackage("example.com/ui", "ui")

	named := func(pkg *types.Package, name string) *types.Named {
		return types.NewNamed(types.NewTypeName(token.NoPos, pkg, name, nil), types.NewStruct(nil, nil), nil)
	}

	type args struct {
		t types.Type
	}

	tests := []struct {
		name    string
		args    args
		want    Mapping
		imports []Import
	}{
		{
			name: "int",
			args: args{t: types.Typ[types.Int]},
			want: Mapping{Display: "int", Qualified: "int", FullName: "int", Category: Int, Name: "Int"},
		},
		{
			name: "int16 is an integer too",
			args: args{t: types.Typ[types.Int16]},
			want: Mapping{Display: "int16", Qualified: "int16", FullName: "int16", Category: Int, Name: "Int"},
		},
		{
			name: "bool",
			args: args{t: types.Typ[types.Bool]},
			want: Mapping{Display: "bool", Qualified: "bool", FullName: "bool", Category: Bool, Name: "Bool"},
		},
		{
			name: "string",
			args: args{t: types.Typ[types.String]},
			want: Mapping{Display: "string", Qualified: "string", FullName: "string", Category: String, Name: "String"},
		},
		{
			name:    "Color from any package",
			args:    args{t: named(ui, "Color")},
			want:    Mapping{Display: "ui.Color", Qualified: "ui.Color", FullName: "example.com/ui.Color", Category: Color, Name: "Color"},
			imports: []Import{{Alias: "ui", Path: "example.com/ui"}},
		},
		{
			name: "float falls back to its own name",
			args: args{t: types.Typ[types.Float32]},
			want: Mapping{Display: "float32", Qualified: "float32", FullName: "float32", Category: Unmapped, Name: "Float32"},
		},
		{
			name: "local pointer type is unqualified",
			args: args{t: types.NewPointer(named(hud, "Gauge"))},
			want: Mapping{Display: "*Gauge", Qualified: "*Gauge", FullName: "*example.com/hud.Gauge", Category: Unmapped, Name: "Gauge"},
		},
		{
			name:    "foreign pointer type is imported",
			args:    args{t: types.NewPointer(named(ui, "Label"))},
			want:    Mapping{Display: "*ui.Label", Qualified: "*ui.Label", FullName: "*example.com/ui.Label", Category: Unmapped, Name: "Label"},
			imports: []Import{{Alias: "ui", Path: "example.com/ui"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			im := NewImports(hud.Path())
			got := NewTypeMapper(hud, im).Map(tt.args.t)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("diff(-want +got): %s", diff)
			}
			if diff := cmp.Diff(tt.imports, im.List(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("imports diff(-want +got): %s", diff)
			}
		})
	}
}

func TestTypeMapper_Classify(t *testing.T) {
	t.Parallel()

	hud := types.NewPackage("example.com/hud", "hud")
	ui := types.NewPackage("example.com/ui", "ui")
	color := types.NewNamed(types.NewTypeName(token.NoPos, ui, "Color", nil), types.NewStruct(nil, nil), nil)

	im := NewImports(hud.Path())
	got := NewTypeMapper(hud, im).Classify(color)

	want := Mapping{Display: "ui.Color", FullName: "example.com/ui.Color", Category: Color, Name: "Color"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	if len(im.List()) != 0 {
		t.Errorf("Classify registered imports: %+v", im.List())
	}
}

func TestMapping_Unmapped(t *testing.T) {
	t.Parallel()

	mapped := Mapping{Display: "int", Category: Int, Name: "Int"}
	if err := mapped.Unmapped(); err != nil {
		t.Errorf("Unmapped() = %v, want nil", err)
	}

	unmapped := Mapping{Display: "float64", Category: Unmapped, Name: "Float64"}
	err := unmapped.Unmapped()
	if !errors.Is(err, ErrUnmappedType) {
		t.Fatalf("Unmapped() = %v, want ErrUnmappedType", err)
	}
	if diff := cmp.Diff("no attribute description for type float64, using Float64", err.Error()); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
}

func TestImports(t *testing.T) {
	t.Parallel()

	im := NewImports("example.com/hud")

	if got := im.Add("example.com/hud", "hud"); got != "" {
		t.Errorf("Add(self) = %q, want empty", got)
	}
	if got := im.Add("example.com/ui", "ui"); got != "ui" {
		t.Errorf("Add(ui) = %q, want ui", got)
	}
	if got := im.Add("example.com/other/ui", "ui"); got != "ui1" {
		t.Errorf("Add(other ui) = %q, want ui1", got)
	}
	if got := im.Add("example.com/ui", "renamed"); got != "ui" {
		t.Errorf("Add(ui) again = %q, want ui", got)
	}

	want := []Import{
		{Alias: "ui1", Path: "example.com/other/ui"},
		{Alias: "ui", Path: "example.com/ui"},
	}
	if diff := cmp.Diff(want, im.List()); diff != "" {
		t.Errorf("diff(-want +got): %s", diff)
	}
	if list := im.List(); !list[0].Explicit() || list[1].Explicit() {
		t.Errorf("Explicit() mismatch: %+v", im.List())
	}
}
