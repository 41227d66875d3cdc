package compiler

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shouni/go-manga-script/pkg/director"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/templates"
)

const testCharacters = `
character_infos:
  - name: TEN
    base_prompt: short black hair
  - name: CLAUDECODE
    base_prompt: small orange robot
    emotions:
      発見:
        prompt: sparkling eyes, arms up
`

const testLayouts = `
pattern_3panel:
  layout_constraints: 縦3段
  panel_positions:
    1: 上段
    2: 中段
    3: 下段
`

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	store, err := templates.Parse([]byte(testCharacters), []byte(testLayouts), "")
	if err != nil {
		t.Fatalf("テンプレートの構築に失敗しました: %v", err)
	}
	return New(store)
}

func fourSceneStory() *domain.Story {
	return &domain.Story{
		Scenes: []domain.SceneDescriptor{
			{Character: "TEN", Emotion: "悩み", Dialogue: "うーん…", Description: "机の前に座っている"},
			{Character: "claude code", Emotion: "発見", Dialogue: "見つけました！", Description: "驚いた表情"},
			{Character: "TEN", Dialogue: "  ", Background: "夜の部屋"},
			{Character: "GUEST", Emotion: "喜び", Dialogue: "やった"},
		},
	}
}

func TestCompile(t *testing.T) {
	c := newTestCompiler(t)
	doc, err := c.Compile(fourSceneStory())
	if err != nil {
		t.Fatalf("予期せぬエラー: %v", err)
	}

	t.Run("パネル番号が1から連番になること", func(t *testing.T) {
		if len(doc.Panels) != 4 {
			t.Fatalf("パネル数 期待値 4, 実際の値 %d", len(doc.Panels))
		}
		for i, p := range doc.Panels {
			if p.Number != i+1 {
				t.Errorf("パネル %d の番号が %d です", i+1, p.Number)
			}
		}
	})

	t.Run("視線が交互になり吹き出しが反対側になること", func(t *testing.T) {
		for _, p := range doc.Panels {
			a := p.Characters[0]
			want := director.FacingLeft
			if p.Number%2 == 1 {
				want = director.FacingRight
			}
			if a.Facing != want {
				t.Errorf("パネル %d: 向き 期待値 %q, 実際の値 %q", p.Number, want, a.Facing)
			}
			if line, ok := a.Dialogue(); ok {
				if line.CharTextPosition != director.BubbleSideFor(a.Facing) {
					t.Errorf("パネル %d: 吹き出し位置 %q が向き %q と矛盾しています", p.Number, line.CharTextPosition, a.Facing)
				}
				if line.Type != director.DialogueTypeSpeech {
					t.Errorf("パネル %d: 種別 %q", p.Number, line.Type)
				}
			}
		}
	})

	t.Run("空白だけのセリフは吹き出しにならないこと", func(t *testing.T) {
		if _, ok := doc.Panels[2].Characters[0].Dialogue(); ok {
			t.Error("空白セリフなのに吹き出しが作られました")
		}
	})

	t.Run("既定値と推論結果が入ること", func(t *testing.T) {
		p1 := doc.Panels[0]
		if p1.PagePosition != "上段" || p1.Characters[0].Shot != director.ShotFullBody {
			t.Errorf("パネル1: %+v", p1)
		}
		if p1.Background != DefaultBackground {
			t.Errorf("背景の既定値が入っていません: %q", p1.Background)
		}
		if doc.Panels[3].PagePosition != director.DefaultPagePosition {
			t.Errorf("位置未定義のパネルが %q です", doc.Panels[3].PagePosition)
		}
		p3 := doc.Panels[2].Characters[0]
		if p3.EmotionLabel != DefaultEmotion || p3.Emotion != "neutral, calm expression" {
			t.Errorf("感情の既定値が正しくありません: %+v", p3)
		}
		if doc.Panels[1].Characters[0].Emotion != "sparkling eyes, arms up" {
			t.Errorf("テンプレートの感情指定が使われていません: %q", doc.Panels[1].Characters[0].Emotion)
		}
		if doc.Panels[1].Characters[0].Name != "CLAUDECODE" {
			t.Errorf("テンプレートの表示名に揃っていません: %q", doc.Panels[1].Characters[0].Name)
		}
		if doc.Panels[0].CameraAngle != director.DefaultCameraAngle {
			t.Errorf("カメラアングル: %q", doc.Panels[0].CameraAngle)
		}
	})

	t.Run("定義済みキャラクターだけが初登場順で含まれること", func(t *testing.T) {
		var names []string
		for _, ch := range doc.Characters {
			names = append(names, ch.Name)
		}
		if diff := cmp.Diff([]string{"TEN", "CLAUDECODE"}, names); diff != "" {
			t.Errorf("キャラクター一覧 (-want +got):\n%s", diff)
		}
	})

	t.Run("固定のスタイル項目が入ること", func(t *testing.T) {
		if doc.Language != Language || doc.WritingMode != WritingMode || doc.AspectRatio != AspectRatio {
			t.Errorf("スタイル項目: %+v", doc)
		}
		if doc.LayoutConstraints != "縦3段" || doc.LayoutPattern != DefaultLayoutPattern {
			t.Errorf("レイアウト: %q / %q", doc.LayoutPattern, doc.LayoutConstraints)
		}
	})
}

func TestCompile_Deterministic(t *testing.T) {
	c := newTestCompiler(t)
	a, err := c.Compile(fourSceneStory())
	if err != nil {
		t.Fatalf("予期せぬエラー: %v", err)
	}
	b, err := c.Compile(fourSceneStory())
	if err != nil {
		t.Fatalf("予期せぬエラー: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("2回のコンパイル結果が異なります (-a +b):\n%s", diff)
	}
}

func TestCompile_Errors(t *testing.T) {
	c := newTestCompiler(t)

	t.Run("レイアウトが存在しない", func(t *testing.T) {
		story := &domain.Story{LayoutPattern: "pattern_9panel", Scenes: []domain.SceneDescriptor{{Character: "TEN"}}}
		_, err := c.Compile(story)
		if !errors.Is(err, domain.ErrLayoutNotFound) {
			t.Errorf("ErrLayoutNotFound が期待されましたが %v でした", err)
		}
	})

	t.Run("シーンが無い", func(t *testing.T) {
		_, err := c.Compile(&domain.Story{})
		if !errors.Is(err, domain.ErrNoScenes) {
			t.Errorf("ErrNoScenes が期待されましたが %v でした", err)
		}
	})

	t.Run("キャラクター名が空のシーン", func(t *testing.T) {
		story := &domain.Story{Scenes: []domain.SceneDescriptor{{Character: "TEN"}, {Character: "   "}}}
		if _, err := c.Compile(story); err == nil {
			t.Error("エラーが期待されましたが nil でした")
		}
	})
}
