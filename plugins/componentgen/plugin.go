// Package componentgen は component マーカーからコンポーネント取得コードを生成する。
//
// 型ごとに AcquireComponents メソッドを生成し、マーカーのスコープに応じて
// GetComponent / GetComponentInParent / GetComponentInChildren の呼び出し結果を
// メンバーに代入する。
package componentgen

import (
	"errors"
	"fmt"
	"go/types"

	"github.com/Yamashou/uibindgen/codegen"
	"github.com/Yamashou/uibindgen/extract"
	"github.com/Yamashou/uibindgen/marker"
	"github.com/Yamashou/uibindgen/symbols"
)

// receiver は AcquireComponents メソッドのレシーバ名。
const receiver = "c"

// ErrNotComponent は取得対象になれない型のメンバーに対する警告。
var ErrNotComponent = errors.New("member type is not a component")

// Options は componentgen の設定を表す。
type Options struct {
	Framework codegen.Framework
	// Suffix は生成ファイル名の接尾辞（例: "components"）。
	Suffix string
	// StrictScope が true の場合、未知のスコープはエラーになる。
	// false の場合は This にフォールバックし、警告を返す。
	StrictScope bool
	// ComponentBase が空でない場合、メンバーの型はこの型そのものか、
	// この型を埋め込んでいなければならない。形式は symbols.ParseBase と同じ。
	ComponentBase string
}

// Plugin は component マーカーを持つ型のコードを生成する。
type Plugin struct {
	opts Options
	base symbols.Base
}

// New は新しい componentgen プラグインインスタンスを作成する。
func New(opts Options) *Plugin {
	p := &Plugin{opts: opts}
	if opts.ComponentBase != "" {
		p.base = symbols.ParseBase(opts.ComponentBase)
	}
	return p
}

// Name はプラグイン名を返す。
func (p *Plugin) Name() string {
	return "componentgen"
}

// Kinds はこのプラグインが収集対象とするマーカーの種類を返す。
func (p *Plugin) Kinds() []marker.Kind {
	return []marker.Kind{marker.Component}
}

// UnitName は typeName の生成ファイル名を返す。
func (p *Plugin) UnitName(typeName string) string {
	return codegen.FileName(typeName, p.opts.Suffix)
}

// Generate は型グループ 1 つ分の AcquireComponents メソッドを生成する。
func (p *Plugin) Generate(g *codegen.TypeGroup) (*codegen.Unit, []codegen.Diagnostic, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	file := codegen.NewFile(g, p.opts.Framework)

	var (
		body  []codegen.Statement
		diags []codegen.Diagnostic
		errs  []error
	)
	for _, m := range g.Members {
		binding, err := extract.Component(m, extract.Options{StrictScope: p.opts.StrictScope})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if binding == nil {
			continue
		}
		if binding.Fallback != nil {
			diags = append(diags, codegen.Warn(m, binding.Fallback))
		}
		if !p.isComponent(m.Type) {
			// 取得できない型のメンバーは除外し、警告だけを返す
			err := fmt.Errorf("%w: %s has type %s", ErrNotComponent, m, file.Mapper.Classify(m.Type).Display)
			diags = append(diags, codegen.Warn(m, err))
			continue
		}

		mapping := file.Mapper.Map(m.Type)
		value := fmt.Sprintf("%s[%s](%s)", file.UI(acquireFunc(binding.Scope)), mapping.Qualified, receiver)
		body = append(body, codegen.Bind(receiver, m.Name, m.Setter, value))
	}

	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("%s: %w", p.Name(), errors.Join(errs...))
	}
	if len(body) == 0 {
		return nil, diags, nil
	}

	fmt.Fprintf(&file.Body, "// AcquireComponents resolves the components %s depends on.\n", receiver)
	fmt.Fprintf(&file.Body, "func (%s *%s) AcquireComponents() {\n", receiver, g.Name())
	codegen.WriteBlock(&file.Body, 1, body)
	file.Body.WriteString("}\n")

	unit, err := file.Render(p.UnitName(g.Name()))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	return unit, diags, nil
}

// isComponent はメンバーの型が取得対象になれるかを返す。
// 名前付き型（またはそのポインタ）であることを要求し、ComponentBase が
// 設定されていればその型であるか、その型を埋め込んでいることも要求する。
func (p *Plugin) isComponent(t types.Type) bool {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	if _, ok := t.(*types.Named); !ok {
		return false
	}
	if p.base.Name == "" {
		return true
	}
	return p.base.Is(t) || p.base.EmbeddedIn(t)
}

// acquireFunc はスコープに対応する取得関数名を返す。
func acquireFunc(scope marker.Scope) string {
	switch scope {
	case marker.Parent:
		return "GetComponentInParent"
	case marker.Children:
		return "GetComponentInChildren"
	}
	return "GetComponent"
}
