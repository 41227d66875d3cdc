package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/shouni/go-manga-script/examples"
	"github.com/shouni/go-manga-script/internal/config"
	"github.com/shouni/go-manga-script/pkg/publisher"
	"github.com/shouni/go-manga-script/pkg/templates"
	"github.com/shouni/go-manga-script/pkg/workflow"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// BuildAppContext は設定からテンプレート、AIクライアント、ワークフローを組み立てます。
// needImages が false の場合は AI クライアントを初期化しません。
func BuildAppContext(ctx context.Context, cfg *config.Config, needImages bool) (*AppContext, error) {
	lib := cfg.LibraryConfig()
	if needImages {
		if err := lib.ValidateForGeneration(); err != nil {
			return nil, fmt.Errorf("画像生成の設定が不足しています: %w", err)
		}
	}

	store, err := LoadTemplates(lib.TemplatesDir)
	if err != nil {
		return nil, err
	}

	var aiClient gemini.GenerativeModel
	if needImages {
		aiClient, err = InitializeAIClient(ctx, lib.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
	}

	writer := publisher.NewLocalWriter()
	wf, err := workflow.New(workflow.ManagerArgs{
		Config:   lib,
		Store:    store,
		AIClient: aiClient,
		Writer:   writer,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}

	appCtx := NewAppContext(cfg, lib, writer, wf)
	return &appCtx, nil
}

// LoadTemplates はテンプレートディレクトリを読み込みます。
// ディレクトリ自体が存在しない場合は、同梱のサンプルテンプレートを使います。
func LoadTemplates(dir string) (templates.Store, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		slog.Warn("テンプレートディレクトリが無いため同梱のサンプルを使います", "dir", dir)
		catalog, err := examples.Catalog()
		if err != nil {
			return nil, fmt.Errorf("同梱テンプレートの読み込みに失敗しました: %w", err)
		}
		return catalog, nil
	}
	catalog, err := templates.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}
