// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザー投稿テキスト（コメント本文・プロジェクト説明など）を
// サニタイズし、XSS攻撃などのセキュリティリスクからユーザーを保護する。
// 投稿テキストはプレーンテキストとして扱うため、bluemondayの厳格ポリシーで
// 全てのHTMLタグを除去する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はユーザー投稿テキストのサニタイズ機能のインターフェースを定義する。
// コメント・プロジェクト投稿の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力から全てのHTMLタグを除去し、前後の空白を取り除いたテキストを返す。
	// script, iframe, styleタグおよびon*イベント属性を含む一切のマークアップを許可しない。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 全タグを除去するStrictPolicyを使用する。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力から全てのHTMLタグを除去したテキストを返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
