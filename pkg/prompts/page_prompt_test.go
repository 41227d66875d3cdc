package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-manga-script/pkg/domain"
)

func sampleDocument() *domain.PageDocument {
	return &domain.PageDocument{
		Language:          "Japanese",
		Style:             "japanese manga, chibi/deformed style",
		WritingMode:       "vertical-rl",
		ColorMode:         "カラー",
		AspectRatio:       "1:1.4",
		Instructions:      "添付画像を外見の基準にしてください。",
		LayoutConstraints: "縦3段",
		Characters: []domain.CharacterTemplate{
			{Name: "TEN", BasePrompt: "short black hair"},
			{Name: "CLAUDECODE", BasePrompt: "small orange robot"},
		},
		Panels: []domain.PanelSpec{
			{
				Number: 1, PagePosition: "上段", Background: "部屋", Description: "机の前に\n座っている",
				Characters: []domain.CharacterAppearance{{
					Name: "TEN", PanelPosition: "center", Emotion: "troubled", Facing: "右", Shot: "全身",
					Pose: "机の前に座っている",
					Lines: []domain.DialogueLine{{Text: `彼は"無理"と言った`, CharTextPosition: "left", Type: "speech"}},
				}},
				CameraAngle: "medium shot",
			},
			{
				Number: 2, PagePosition: "中段", Background: "部屋",
				Characters: []domain.CharacterAppearance{{
					Name: "CLAUDECODE", PanelPosition: "center", Emotion: "thumbs up", Facing: "左", Shot: "バストアップ",
				}},
				CameraAngle: "medium shot",
			},
		},
	}
}

func TestBuildPagePrompt(t *testing.T) {
	prompt := BuildPagePrompt(sampleDocument())

	t.Run("セクションが決まった順序で並ぶこと", func(t *testing.T) {
		sections := []string{
			pageHeader,
			"=== LAYOUT CONSTRAINTS ===",
			"=== STYLE SPECIFICATIONS ===",
			"=== INSTRUCTIONS ===",
			"=== CHARACTER DESIGNS ===",
			"=== PANEL DETAILS ===",
			"IMPORTANT:",
		}
		last := -1
		for _, s := range sections {
			idx := strings.Index(prompt, s)
			if idx < 0 {
				t.Fatalf("セクション %q が見つかりません", s)
			}
			if idx <= last {
				t.Errorf("セクション %q の順序が正しくありません", s)
			}
			last = idx
		}
	})

	t.Run("キャラクター設計が空行区切りで出力されること", func(t *testing.T) {
		want := "Character: TEN\nshort black hair\n\nCharacter: CLAUDECODE\nsmall orange robot"
		if !strings.Contains(prompt, want) {
			t.Errorf("キャラクター設計が期待通りではありません:\n%s", prompt)
		}
	})

	t.Run("パネルごとの詳細が出力されること", func(t *testing.T) {
		for _, want := range []string{
			"Panel 1 (位置: 上段):",
			"Panel 2 (位置: 中段):",
			"  Scene description: 机の前に 座っている\n",
			"    Facing: 右\n",
			"    Shot type: 全身\n",
			"    Dialogue: \"彼は'無理'と言った\"\n",
			"    Dialogue: \"\"\n",
			"  Camera angle: medium shot\n",
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("%q が含まれていません", want)
			}
		}
	})

	t.Run("締めの指示に言語と縦横比が入ること", func(t *testing.T) {
		if !strings.Contains(prompt, "dialogue in Japanese") {
			t.Error("セリフの言語指定がありません")
		}
		if !strings.Contains(prompt, "aspect ratio of 1:1.4 (width:height)") {
			t.Error("縦横比の指定がありません")
		}
	})

	t.Run("同じ入力から同じ文字列になること", func(t *testing.T) {
		if again := BuildPagePrompt(sampleDocument()); again != prompt {
			t.Error("2回の出力が一致しません")
		}
	})

	t.Run("nil ドキュメントは空文字になること", func(t *testing.T) {
		if BuildPagePrompt(nil) != "" {
			t.Error("空文字が期待されました")
		}
	})
}
