package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shouni/go-manga-script/pkg/domain"
)

func TestFileNames(t *testing.T) {
	if got := ExpandedFileName("stories/day1.yaml"); got != "day1_expanded.yaml" {
		t.Errorf("実際の値 %q", got)
	}
	if got := GeneratedFileName("out/day1_expanded.yaml"); got != "day1_expanded_generated.png" {
		t.Errorf("実際の値 %q", got)
	}
}

func TestPageDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "page_expanded.yaml")

	doc := &domain.PageDocument{
		Language:          "Japanese",
		WritingMode:       "vertical-rl",
		AspectRatio:       "1:1.4",
		LayoutConstraints: "縦3段",
		Characters:        []domain.CharacterTemplate{{Name: "TEN", BasePrompt: "short hair"}},
		Panels: []domain.PanelSpec{{
			Number: 1, PagePosition: "上段",
			Characters: []domain.CharacterAppearance{{
				Name: "TEN", Facing: "右",
				Lines: []domain.DialogueLine{{Text: "やあ", CharTextPosition: "left", Type: "speech"}},
			}},
			Effects:    []string{},
			Monologues: []string{},
		}},
	}

	if err := WritePageDocument(ctx, NewLocalWriter(), path, doc); err != nil {
		t.Fatalf("保存に失敗しました: %v", err)
	}
	got, err := ReadPageDocument(path)
	if err != nil {
		t.Fatalf("読み込みに失敗しました: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("保存と読み込みで内容が変わりました (-want +got):\n%s", diff)
	}
}

func TestReadPageDocument_MissingRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("title: not a page\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPageDocument(path); !errors.Is(err, domain.ErrNoDocument) {
		t.Errorf("ErrNoDocument が期待されましたが %v でした", err)
	}
}

func TestParseStory(t *testing.T) {
	story, err := ParseStory([]byte(`
title: デバッグの日
layout_pattern: pattern_4panel
scenes:
  - character: TEN
    emotion: 悩み
    dialogue: バグが取れない…
    description: 机の前に座っている
    props: [laptop]
  - character: claude code
`))
	if err != nil {
		t.Fatalf("予期せぬエラー: %v", err)
	}
	if story.LayoutPattern != "pattern_4panel" || len(story.Scenes) != 2 {
		t.Errorf("実際の値 %+v", story)
	}
	if diff := cmp.Diff([]string{"laptop"}, story.Scenes[0].Props); diff != "" {
		t.Errorf("props (-want +got):\n%s", diff)
	}
}

func TestAssetManager_SaveFile(t *testing.T) {
	dir := t.TempDir()
	am := NewAssetManager(NewLocalWriter(), dir)
	path, err := am.SaveFile(context.Background(), "report.yaml", []byte("ok"))
	if err != nil {
		t.Fatalf("予期せぬエラー: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ok" {
		t.Errorf("保存内容が正しくありません: %q (err=%v)", data, err)
	}
}
