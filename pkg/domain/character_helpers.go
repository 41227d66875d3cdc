package domain

import (
	"sort"
)

// CharacterSet は正規化キーをキーにしたキャラクター定義の集合です。
type CharacterSet map[string]CharacterTemplate

// Add はテンプレートを正規化キーで登録します。同じキーがあれば後勝ちで上書きします。
func (s CharacterSet) Add(c CharacterTemplate) {
	s[c.Key()] = c
}

// Find は表記ゆれを吸収してキャラクター情報を特定します。
// "claude code" と "CLAUDECODE" は同じキャラクターとして扱われます。
func (s CharacterSet) Find(name string) (CharacterTemplate, bool) {
	if s == nil {
		return CharacterTemplate{}, false
	}
	c, ok := s[NormalizeCharacterKey(name)]
	if !ok {
		return CharacterTemplate{}, false
	}
	return c.Clone(), true
}

// Keys は登録済みの正規化キーをソートして返します。
// 常に同じ順序を得るためのものです。
func (s CharacterSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
