package traitgen

import (
	"errors"

	"github.com/99designs/gqlgen/codegen/templates"

	"github.com/Yamashou/uibindgen/codegen"
	"github.com/Yamashou/uibindgen/extract"
)

// descriptorPrefix は Traits 構造体の記述子フィールド名の接頭辞。
const descriptorPrefix = "trait"

// CodeGenerator orchestrates member analysis and formatting for one type group
type CodeGenerator struct {
	formatter *CodeFormatter
}

// NewCodeGenerator creates a new CodeGenerator
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		formatter: NewCodeFormatter(),
	}
}

// Analyze extracts the trait and element bindings of every member in the
// file's group. All extraction errors of the group are joined.
func (g *CodeGenerator) Analyze(file *codegen.File) (*TypeInfo, []codegen.Diagnostic, error) {
	group := file.Group
	if err := group.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		typeInfo = &TypeInfo{TypeName: group.Name()}
		diags    []codegen.Diagnostic
		errs     []error
	)
	for _, m := range group.Members {
		trait, err := extract.Trait(m)
		if err != nil {
			errs = append(errs, err)
		} else if trait != nil {
			mapping := file.Mapper.Classify(trait.Type)
			if err := mapping.Unmapped(); err != nil {
				diags = append(diags, codegen.Warn(m, err))
			}
			typeInfo.Traits = append(typeInfo.Traits, TraitInfo{
				Member:  m,
				Binding: trait,
				Mapping: mapping,
				Field:   descriptorPrefix + templates.ToGo(m.Name),
			})
		}

		element, err := extract.Element(m)
		if err != nil {
			errs = append(errs, err)
		} else if element != nil {
			typeInfo.Elements = append(typeInfo.Elements, ElementInfo{
				Member:  m,
				Binding: element,
				Mapping: file.Mapper.Map(m.Type),
			})
		}
	}

	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	return typeInfo, diags, nil
}

// Emit writes the declarations for typeInfo into the file body. Trait
// declarations are skipped without trait members, QueryElements without
// element members.
func (g *CodeGenerator) Emit(file *codegen.File, typeInfo *TypeInfo) {
	if len(typeInfo.Traits) > 0 {
		file.Body.WriteString(g.formatter.FormatTraitsDecl(file, typeInfo))
		file.Body.WriteString(g.formatter.FormatFactoryDecl(file, typeInfo))
		file.Body.WriteString(g.formatter.FormatConstructor(file, typeInfo))
		file.Body.WriteString(g.formatter.FormatInitMethod(file, typeInfo, g.initStatements(typeInfo)))
	}

	if len(typeInfo.Elements) > 0 {
		file.Body.WriteString(g.formatter.FormatQueryMethod(typeInfo.TypeName, g.queryStatements(file, typeInfo)))
	}
}

// initStatements は Init メソッド本体の代入文を生成する。
// フィールドは代入、プロパティは setter 呼び出しになる。
func (g *CodeGenerator) initStatements(typeInfo *TypeInfo) []codegen.Statement {
	stmts := make([]codegen.Statement, 0, len(typeInfo.Traits))
	for _, trait := range typeInfo.Traits {
		value := "t." + trait.Field + ".GetValueFromBag(bag, cc)"
		stmts = append(stmts, codegen.Bind(selfVar, trait.Member.Name, trait.Member.Setter, value))
	}
	return stmts
}

// queryStatements は QueryElements メソッド本体の代入文を生成する。
func (g *CodeGenerator) queryStatements(file *codegen.File, typeInfo *TypeInfo) []codegen.Statement {
	stmts := make([]codegen.Statement, 0, len(typeInfo.Elements))
	for _, element := range typeInfo.Elements {
		value := g.formatter.FormatQuery(file, element.Mapping.Qualified, element.Binding.Name)
		stmts = append(stmts, codegen.Bind(queryReceiver, element.Member.Name, element.Member.Setter, value))
	}
	return stmts
}
