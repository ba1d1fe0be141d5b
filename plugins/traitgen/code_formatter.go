package traitgen

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Yamashou/uibindgen/codegen"
)

const (
	// selfVar は Init メソッド内で要素を所有型として参照する変数名。
	selfVar = "self"
	// queryReceiver は QueryElements メソッドのレシーバ名。
	queryReceiver = "e"
)

// CodeFormatter は生成されるコードをフォーマットする。
type CodeFormatter struct{}

// NewCodeFormatter は新しい CodeFormatter を作成する。
func NewCodeFormatter() *CodeFormatter {
	return &CodeFormatter{}
}

// TraitsTypeName は所有型の Traits 構造体名を返す（例: "HealthBarTraits"）。
func TraitsTypeName(typeName string) string {
	return typeName + "Traits"
}

// FactoryTypeName は所有型のファクトリ型名を返す（例: "HealthBarFactory"）。
func FactoryTypeName(typeName string) string {
	return typeName + "Factory"
}

// FormatTraitsDecl は Traits 構造体の型定義をフォーマットする。
//
// 例:
//
//	type HealthBarTraits struct {
//		ui.VisualElementTraits
//
//		traitPlayerHealth ui.IntAttributeDescription
//	}
func (f *CodeFormatter) FormatTraitsDecl(file *codegen.File, typeInfo *TypeInfo) string {
	var buf bytes.Buffer
	name := TraitsTypeName(typeInfo.TypeName)

	fmt.Fprintf(&buf, "// %s reads the attributes of %s from an attribute bag.\n", name, typeInfo.TypeName)
	fmt.Fprintf(&buf, "type %s struct {\n", name)
	fmt.Fprintf(&buf, "\t%s\n\n", file.UI("VisualElementTraits"))
	for _, trait := range typeInfo.Traits {
		fmt.Fprintf(&buf, "\t%s %s\n", trait.Field, f.descriptorType(file, trait))
	}
	buf.WriteString("}\n\n")

	return buf.String()
}

// FormatFactoryDecl はファクトリ型のエイリアス宣言をフォーマットする。
func (f *CodeFormatter) FormatFactoryDecl(file *codegen.File, typeInfo *TypeInfo) string {
	name := FactoryTypeName(typeInfo.TypeName)
	return fmt.Sprintf("// %s creates %s elements.\ntype %s = %s[%s, *%s]\n\n",
		name, typeInfo.TypeName,
		name, file.UI("UxmlFactory"), typeInfo.TypeName, TraitsTypeName(typeInfo.TypeName))
}

// FormatConstructor は記述子を初期化するコンストラクタをフォーマットする。
//
// デフォルト値が nil の記述子は DefaultValue を省略する。
func (f *CodeFormatter) FormatConstructor(file *codegen.File, typeInfo *TypeInfo) string {
	var buf bytes.Buffer
	name := TraitsTypeName(typeInfo.TypeName)

	fmt.Fprintf(&buf, "// New%s returns %s with its attribute descriptions set up.\n", name, name)
	fmt.Fprintf(&buf, "func New%s() *%s {\n", name, name)
	fmt.Fprintf(&buf, "\treturn &%s{\n", name)
	for _, trait := range typeInfo.Traits {
		fmt.Fprintf(&buf, "\t\t%s: %s{Name: %s", trait.Field, f.descriptorType(file, trait), strconv.Quote(trait.Binding.Name))
		if trait.Binding.Default != nil {
			fmt.Fprintf(&buf, ", DefaultValue: %s", *trait.Binding.Default)
		}
		buf.WriteString("},\n")
	}
	buf.WriteString("\t}\n")
	buf.WriteString("}\n\n")

	return buf.String()
}

// FormatInitMethod は Init メソッドをフォーマットする。
//
// 基底の Init を呼び出した後、要素を所有型に変換して body を実行する。
func (f *CodeFormatter) FormatInitMethod(file *codegen.File, typeInfo *TypeInfo, body []codegen.Statement) string {
	var buf bytes.Buffer
	name := TraitsTypeName(typeInfo.TypeName)

	buf.WriteString("// Init assigns the attribute values found in bag to ve.\n")
	fmt.Fprintf(&buf, "func (t *%s) Init(ve %s, bag %s, cc %s) {\n",
		name, file.UI("Element"), file.UI("AttributeBag"), file.UI("CreationContext"))

	codegen.WriteBlock(&buf, 1, append([]codegen.Statement{
		&codegen.Call{Func: "t.VisualElementTraits.Init", Args: []string{"ve", "bag", "cc"}},
		&codegen.RawStatement{Code: fmt.Sprintf("%s := ve.(*%s)", selfVar, typeInfo.TypeName)},
	}, body...))

	buf.WriteString("}\n\n")

	return buf.String()
}

// FormatQueryMethod は QueryElements メソッドをフォーマットする。
func (f *CodeFormatter) FormatQueryMethod(typeName string, body []codegen.Statement) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "// QueryElements looks up the named descendants of %s.\n", queryReceiver)
	fmt.Fprintf(&buf, "func (%s *%s) QueryElements() {\n", queryReceiver, typeName)
	codegen.WriteBlock(&buf, 1, body)
	buf.WriteString("}\n")

	return buf.String()
}

// FormatQuery は名前による要素検索式をフォーマットする。
//
// 例: ui.Q[*ui.Label](e, "title")
func (f *CodeFormatter) FormatQuery(file *codegen.File, qualified, name string) string {
	return fmt.Sprintf("%s[%s](%s, %s)", file.UI("Q"), qualified, queryReceiver, strconv.Quote(name))
}

func (f *CodeFormatter) descriptorType(file *codegen.File, trait TraitInfo) string {
	return file.UI(trait.Mapping.Name + "AttributeDescription")
}
