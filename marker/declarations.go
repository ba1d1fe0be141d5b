package marker

import (
	"bytes"
	"text/template"
)

// DeclarationsFilename is the default file name of the declarations unit.
const DeclarationsFilename = "markers_gen.go"

var declarationsTemplate = template.Must(template.New("markers").Parse(`// Code generated by uibindgen. DO NOT EDIT.

// Package {{.Package}} declares the markers understood by uibindgen.
//
// Markers are directive comments placed directly above a struct field or a
// setter method (SetX with a single parameter) of a type that embeds the
// framework base type. Each marker may appear at most once per member.
//
//	//{{.Prefix}}{{.Element}}(name string)
//	//{{.Prefix}}{{.Trait}}(name string, defaultValue any)
//	//{{.Prefix}}{{.Component}}(scope Scope)
//
// The scope of {{.Component}} defaults to This when omitted.
package {{.Package}}

// Scope selects which part of the element tree a component lookup searches.
type Scope int

// This searches the element itself. Parent also searches its ancestors and
// Children its descendants.
const (
	This     Scope = {{.This}}
	Parent   Scope = {{.Parent}}
	Children Scope = {{.Children}}
)

// Marker names accepted after the "{{.Prefix}}" directive prefix.
const (
	ElementMarker   = "{{.Element}}"
	TraitMarker     = "{{.Trait}}"
	ComponentMarker = "{{.Component}}"
)
`))

// Declarations renders the declarations unit for package pkg. The output
// depends only on pkg, so publishing it repeatedly is idempotent.
func Declarations(pkg string) ([]byte, error) {
	data := map[string]any{
		"Package":   pkg,
		"Prefix":    Prefix[len("//"):],
		"Element":   Element.String(),
		"Trait":     Trait.String(),
		"Component": Component.String(),
		"This":      int(This),
		"Parent":    int(Parent),
		"Children":  int(Children),
	}

	var buf bytes.Buffer
	if err := declarationsTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
