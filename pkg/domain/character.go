package domain

import (
	"fmt"
	"maps"
	"strings"
	"unicode"
)

// EmotionAsset は感情ごとの参照画像と、任意の英語表現プロンプトを保持します。
type EmotionAsset struct {
	ReferenceImage string `yaml:"reference_image,omitempty"`
	Prompt         string `yaml:"prompt,omitempty"`
}

// ToolAsset は小道具ごとの参照画像を保持します。
type ToolAsset struct {
	ReferenceImage string `yaml:"reference_image,omitempty"`
}

// CharacterTemplate はキャラクターの再利用可能な外見定義です。
// 一度ロードされた後は読み取り専用として共有されます。
type CharacterTemplate struct {
	Name       string                  `yaml:"name"`
	BasePrompt string                  `yaml:"base_prompt"`
	Emotions   map[string]EmotionAsset `yaml:"emotions,omitempty"`
	Tools      map[string]ToolAsset    `yaml:"tools,omitempty"`
}

// Key は画像アセットの解決に使う正規化済みの識別子を返します。
func (c CharacterTemplate) Key() string {
	return NormalizeCharacterKey(c.Name)
}

// String はキャラクターの情報を文字列で返すのだ。
func (c CharacterTemplate) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Key())
}

// EmotionImage は感情ラベルに対応する参照画像を返します。
func (c CharacterTemplate) EmotionImage(label string) (string, bool) {
	e, ok := c.Emotions[label]
	if !ok || e.ReferenceImage == "" {
		return "", false
	}
	return e.ReferenceImage, true
}

// ToolImage は小道具ラベルに対応する参照画像を返します。
func (c CharacterTemplate) ToolImage(label string) (string, bool) {
	t, ok := c.Tools[label]
	if !ok || t.ReferenceImage == "" {
		return "", false
	}
	return t.ReferenceImage, true
}

// Clone はマップを含めたコピーを返します。
// 内部キャッシュが呼び出し元によって変更されるのを防ぐためのものなのだ。
func (c CharacterTemplate) Clone() CharacterTemplate {
	copied := c
	if c.Emotions != nil {
		copied.Emotions = maps.Clone(c.Emotions)
	}
	if c.Tools != nil {
		copied.Tools = maps.Clone(c.Tools)
	}
	return copied
}

// NormalizeCharacterKey はキャラクター名を大文字化し、空白をすべて取り除きます。
// 例: "claude code" -> "CLAUDECODE"
func NormalizeCharacterKey(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, name)
}

// LayoutPattern はコマ割りのテンプレートです。
type LayoutPattern struct {
	ID                string         `yaml:"-"`
	LayoutConstraints string         `yaml:"layout_constraints"`
	PanelPositions    map[int]string `yaml:"panel_positions"`
	ReferenceImage    string         `yaml:"reference_image,omitempty"`
}

// Position は 1 始まりのパネル番号に対応するページ上の位置ラベルを返します。
func (l LayoutPattern) Position(index int) (string, bool) {
	label, ok := l.PanelPositions[index]
	if !ok || label == "" {
		return "", false
	}
	return label, true
}

// Clone はマップを含めたコピーを返します。
func (l LayoutPattern) Clone() LayoutPattern {
	copied := l
	if l.PanelPositions != nil {
		copied.PanelPositions = maps.Clone(l.PanelPositions)
	}
	return copied
}
