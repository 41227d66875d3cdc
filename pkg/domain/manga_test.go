package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestPanels_UniqueCharacterNames(t *testing.T) {
	panels := Panels{
		{Number: 1, Characters: []CharacterAppearance{{Name: "TEN"}}},
		{Number: 2, Characters: []CharacterAppearance{{Name: "claude code"}}},
		{Number: 3, Characters: []CharacterAppearance{{Name: "ten"}}},
		{Number: 4, Characters: []CharacterAppearance{{Name: "CLAUDECODE"}}},
	}

	got := panels.UniqueCharacterNames()
	want := []string{"TEN", "claude code"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("初登場順の重複排除が正しくないのだ (-want +got):\n%s", diff)
	}
}

func TestPageDocument_FindCharacter(t *testing.T) {
	doc := &PageDocument{Characters: []CharacterTemplate{{Name: "CLAUDECODE", BasePrompt: "robot"}}}

	c, ok := doc.FindCharacter("claude code")
	if !ok || c.BasePrompt != "robot" {
		t.Errorf("正規化キーでキャラクターが見つからないのだ: %+v", c)
	}

	var nilDoc *PageDocument
	if _, ok := nilDoc.FindCharacter("TEN"); ok {
		t.Error("nil ドキュメントで ok=true が返りました")
	}
}

func TestComicPageFile_YAML(t *testing.T) {
	t.Run("元のYAML形式のキー名で読み込めるのだ", func(t *testing.T) {
		input := `
comic_page:
  language: Japanese
  writing-mode: vertical-rl
  color_mode: カラー
  aspect_ratio: "1:1.4"
  layout_constraints: 3段構成
  character_infos:
    - name: TEN
      base_prompt: short hair
  panels:
    - number: 1
      page_position: 上段
      characters:
        - name: TEN
          facing: 右
          lines:
            - text: こんにちは
              char_text_position: left
              type: speech
      camera_angle: medium shot
`
		var f ComicPageFile
		if err := yaml.Unmarshal([]byte(input), &f); err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}
		doc := f.ComicPage
		if doc == nil {
			t.Fatal("comic_page が nil なのだ")
		}
		if doc.WritingMode != "vertical-rl" || doc.AspectRatio != "1:1.4" {
			t.Errorf("スタイル項目が正しくないのだ: %+v", doc)
		}
		line, ok := doc.Panels[0].Characters[0].Dialogue()
		if !ok || line.Text != "こんにちは" || line.CharTextPosition != "left" {
			t.Errorf("セリフが正しくパースされていないのだ: %+v", line)
		}
	})
}

func TestGenerationBatch(t *testing.T) {
	b := &GenerationBatch{Attempts: []AttemptResult{
		{Index: 1, Path: "a_1.png"},
		{Index: 2, Err: "no image payload in response"},
		{Index: 3, Path: "a_3.png"},
	}}

	if diff := cmp.Diff([]string{"a_1.png", "a_3.png"}, b.Successes()); diff != "" {
		t.Errorf("Successes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"no image payload in response"}, b.Failures()); diff != "" {
		t.Errorf("Failures (-want +got):\n%s", diff)
	}
	if !b.Succeeded() {
		t.Error("成功が1件以上あるのに Succeeded が false なのだ")
	}

	empty := &GenerationBatch{Attempts: []AttemptResult{{Index: 1, Err: "boom"}}}
	if empty.Succeeded() {
		t.Error("成功0件で Succeeded が true なのだ")
	}
}
