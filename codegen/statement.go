package codegen

import (
	"bytes"
	"fmt"
	"strings"
)

// Statement は生成コード中の 1 つのステートメントを表す。
//
// String メソッドは指定されたインデントレベルで文字列表現を返す。
type Statement interface {
	String(indent int) string
}

// Assignment は代入文を表す。
//
// 例: self.PlayerHealth = t.traitPlayerHealth.GetValueFromBag(bag, cc)
type Assignment struct {
	Target string // 代入先
	Value  string // 代入する値
}

// String は代入文の文字列表現を返す。
func (a *Assignment) String(_ int) string {
	return fmt.Sprintf("%s = %s", a.Target, a.Value)
}

// Call は関数またはメソッドの呼び出し文を表す。
//
// 例: self.SetTint(t.traitTint.GetValueFromBag(bag, cc))
type Call struct {
	Func string   // 呼び出す関数
	Args []string // 引数
}

// String は呼び出し文の文字列表現を返す。
func (c *Call) String(_ int) string {
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(c.Args, ", "))
}

// RawStatement は生の Go コードを表す。
//
// String() メソッドで文字列をそのまま返す。
type RawStatement struct {
	Code string // Go コード
}

// String は生のコードをそのまま返す。
func (r *RawStatement) String(_ int) string {
	return r.Code
}

// Bind はメンバーへ値を格納するステートメントを返す。
//
// setter が空の場合はフィールドへの代入、そうでなければ setter の呼び出しになる。
func Bind(receiver, field, setter, value string) Statement {
	if setter == "" {
		return &Assignment{Target: receiver + "." + field, Value: value}
	}
	return &Call{Func: receiver + "." + setter, Args: []string{value}}
}

// WriteBlock は stmts を indent レベルで 1 行ずつ buf に書き込む。
func WriteBlock(buf *bytes.Buffer, indent int, stmts []Statement) {
	tabs := strings.Repeat("\t", indent)
	for _, stmt := range stmts {
		buf.WriteString(tabs)
		buf.WriteString(stmt.String(indent))
		buf.WriteString("\n")
	}
}
