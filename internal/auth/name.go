package auth

import (
	"strings"
	"unicode"
)

// EmailPrefixToName はメールアドレスのローカル部を表示名に変換する。
// ドットとアンダースコアを空白に、数字を除去し、各語の先頭を大文字にする。
// 変換結果が空になる場合は "User" を返す。
//
//	"john.doe42@example.com" のローカル部 "john.doe42" → "John Doe"
func EmailPrefixToName(emailPrefix string) string {
	if emailPrefix == "" {
		return "User"
	}

	cleaned := strings.NewReplacer(".", " ", "_", " ").Replace(emailPrefix)
	cleaned = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, cleaned)

	words := strings.Fields(cleaned)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	name := strings.Join(words, " ")
	if name == "" {
		return "User"
	}
	return name
}
