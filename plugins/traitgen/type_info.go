package traitgen

import (
	"github.com/Yamashou/uibindgen/codegen"
	"github.com/Yamashou/uibindgen/extract"
	"github.com/Yamashou/uibindgen/symbols"
)

// TypeInfo はコード生成に必要な型グループの解析結果を保持する。
type TypeInfo struct {
	TypeName string        // 所有型の名前（例: "HealthBar"）
	Traits   []TraitInfo   // trait マーカーを持つメンバー（グループ順）
	Elements []ElementInfo // element マーカーを持つメンバー（グループ順）
}

// Empty は生成すべきメンバーが存在しないかを返す。
func (t *TypeInfo) Empty() bool {
	return len(t.Traits) == 0 && len(t.Elements) == 0
}

// TraitInfo は trait マーカー付きメンバー 1 つ分の情報を保持する。
type TraitInfo struct {
	Member  *symbols.Member
	Binding *extract.TraitBinding
	Mapping codegen.Mapping
	Field   string // Traits 構造体上の記述子フィールド名（例: "traitPlayerHealth"）
}

// ElementInfo は element マーカー付きメンバー 1 つ分の情報を保持する。
type ElementInfo struct {
	Member  *symbols.Member
	Binding *extract.ElementBinding
	Mapping codegen.Mapping
}
