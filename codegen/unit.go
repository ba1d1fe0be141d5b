package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"path/filepath"

	"github.com/ettle/strcase"
	"golang.org/x/tools/imports"

	"github.com/Yamashou/uibindgen/loader"
)

// GeneratedHeader starts every generated file. The loader recognizes it, so
// a later run neither collects members from generated files nor type checks
// their stale declarations.
const GeneratedHeader = loader.GeneratedHeader

// Unit is one generated source file.
type Unit struct {
	Dir    string
	Name   string
	Source []byte
}

// Path returns the file path of u.
func (u *Unit) Path() string {
	return filepath.Join(u.Dir, u.Name)
}

// FileName returns the suggested file name for generated code of typeName,
// e.g. FileName("HealthBar", "ui") is "health_bar_ui_gen.go".
func FileName(typeName, suffix string) string {
	return fmt.Sprintf("%s_%s_gen.go", strcase.ToSnake(typeName), suffix)
}

// Format formats src like gofmt. Imports are neither added nor removed.
func Format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return out, nil
}

// WriteFileHeader writes the generated header, the package clause and the
// import block for list.
func WriteFileHeader(buf *bytes.Buffer, pkgName string, list []Import) {
	buf.WriteString(GeneratedHeader + "\n\n")
	fmt.Fprintf(buf, "package %s\n\n", pkgName)

	if len(list) == 0 {
		return
	}
	buf.WriteString("import (\n")
	for _, imp := range list {
		if imp.Explicit() {
			fmt.Fprintf(buf, "\t%s %q\n", imp.Alias, imp.Path)
			continue
		}
		fmt.Fprintf(buf, "\t%q\n", imp.Path)
	}
	buf.WriteString(")\n\n")
}

// Severity classifies a Diagnostic.
type Severity int

const (
	Warning Severity = iota + 1
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Diagnostic is a problem found while generating code for one type.
// Error diagnostics mean no unit was produced for the type.
type Diagnostic struct {
	Severity Severity
	Pos      token.Position
	Owner    string
	Member   string
	Err      error
}

func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %v", d.Pos, d.Severity, d.Err)
	}
	return fmt.Sprintf("%s: %s: %v", d.Owner, d.Severity, d.Err)
}
