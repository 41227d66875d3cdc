package workflow

import (
	"context"
	"io"
	"testing"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"

	"github.com/shouni/go-manga-script/pkg/asset"
	"github.com/shouni/go-manga-script/pkg/config"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/publisher"
	"github.com/shouni/go-manga-script/pkg/templates"
)

type noopClient struct{}

func (noopClient) GenerateContent(context.Context, string, string) (*gemini.Response, error) {
	return &gemini.Response{}, nil
}

func (noopClient) GenerateWithParts(context.Context, string, []*genai.Part, gemini.GenerateOptions) (*gemini.Response, error) {
	return &gemini.Response{}, nil
}

func (noopClient) IsVertexAI() bool { return false }

func (noopClient) UploadFile(context.Context, io.Reader, string, string) (string, string, error) {
	return "", "", nil
}

func (noopClient) DeleteFile(context.Context, string) error { return nil }

func TestNew(t *testing.T) {
	store, err := templates.Parse(nil, []byte("pattern_3panel:\n  layout_constraints: x\n"), "")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("必須の依存関係が無いとエラーになること", func(t *testing.T) {
		if _, err := New(ManagerArgs{Config: config.DefaultConfig(), Writer: publisher.NewLocalWriter()}); err == nil {
			t.Error("Store 無しでエラーになりませんでした")
		}
		if _, err := New(ManagerArgs{Config: config.DefaultConfig(), Store: store}); err == nil {
			t.Error("Writer 無しでエラーになりませんでした")
		}
	})

	t.Run("クライアント無しでも展開はできること", func(t *testing.T) {
		m, err := New(ManagerArgs{Config: config.DefaultConfig(), Store: store, Writer: publisher.NewLocalWriter()})
		if err != nil {
			t.Fatalf("予期せぬエラー: %v", err)
		}
		sr, err := m.BuildScriptRunner()
		if err != nil {
			t.Fatalf("予期せぬエラー: %v", err)
		}
		doc, err := sr.Run(context.Background(), &domain.Story{Scenes: []domain.SceneDescriptor{{Character: "TEN"}}})
		if err != nil || len(doc.Panels) != 1 {
			t.Errorf("展開に失敗しました: %v", err)
		}
		if _, err := m.BuildPageRunner(); err == nil {
			t.Error("クライアント無しで PageRunner が作成できてしまいました")
		}
	})

	t.Run("一貫性モードの切り替え", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Consistency = true
		m, err := New(ManagerArgs{Config: cfg, Store: store, AIClient: noopClient{}, Writer: publisher.NewLocalWriter()})
		if err != nil {
			t.Fatalf("予期せぬエラー: %v", err)
		}
		if m.Mode() != asset.ModeConsistency {
			t.Error("一貫性モードになっていません")
		}
		if _, err := m.BuildPageRunner(); err != nil {
			t.Errorf("予期せぬエラー: %v", err)
		}
	})
}
