// Package traitgen は UI 要素型の属性バインディングコードを生成する。
//
// VisualElement を埋め込む型のメンバーに付けられたマーカーから、型ごとに
// 以下を含むファイルを生成する:
//   - trait マーカー: 属性記述子を持つ <Type>Traits 構造体、ファクトリ型、
//     コンストラクタ、属性バッグから値を読み込む Init メソッド
//   - element マーカー: 名前で子要素を検索して代入する QueryElements メソッド
package traitgen

import (
	"fmt"

	"github.com/Yamashou/uibindgen/codegen"
	"github.com/Yamashou/uibindgen/marker"
)

// Options は traitgen の設定を表す。
type Options struct {
	Framework codegen.Framework
	// Suffix は生成ファイル名の接尾辞（例: "ui" なら health_bar_ui_gen.go）。
	Suffix string
}

// Plugin は trait / element マーカーを持つ型のコードを生成する。
type Plugin struct {
	opts      Options
	generator *CodeGenerator
}

// New は新しい traitgen プラグインインスタンスを作成する。
func New(opts Options) *Plugin {
	return &Plugin{
		opts:      opts,
		generator: NewCodeGenerator(),
	}
}

// Name はプラグイン名を返す。
func (p *Plugin) Name() string {
	return "traitgen"
}

// Kinds はこのプラグインが収集対象とするマーカーの種類を返す。
func (p *Plugin) Kinds() []marker.Kind {
	return []marker.Kind{marker.Trait, marker.Element}
}

// UnitName は typeName の生成ファイル名を返す。
func (p *Plugin) UnitName(typeName string) string {
	return codegen.FileName(typeName, p.opts.Suffix)
}

// Generate は型グループ 1 つ分のファイルを生成する。
//
// 生成対象のメンバーが 1 つもない場合、ユニットは nil になる。
// 抽出エラーはグループ全体を失敗させる。
func (p *Plugin) Generate(g *codegen.TypeGroup) (*codegen.Unit, []codegen.Diagnostic, error) {
	file := codegen.NewFile(g, p.opts.Framework)

	typeInfo, diags, err := p.generator.Analyze(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if typeInfo.Empty() {
		return nil, diags, nil
	}

	p.generator.Emit(file, typeInfo)

	unit, err := file.Render(p.UnitName(g.Name()))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	return unit, diags, nil
}
