package workflow

import (
	"context"

	"github.com/shouni/go-manga-script/pkg/asset"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/runner"
)

// Workflow は、漫画生成ワークフローの各工程を担当するRunnerを構築するためのインターフェースを定義します。
type Workflow interface {
	BuildScriptRunner() (ScriptRunner, error)
	BuildPageRunner() (PageRunner, error)
	Mode() asset.Mode
}

// ScriptRunner は、簡易ストーリーを展開済みのページ仕様に変換する責務を持ちます。
type ScriptRunner interface {
	Run(ctx context.Context, story *domain.Story) (*domain.PageDocument, error)
	RunAndSave(ctx context.Context, storyPath, outputPath string) (*domain.PageDocument, string, error)
}

// PageRunner は、ページ仕様からページ画像を生成する責務を持ちます。
type PageRunner interface {
	Run(ctx context.Context, doc *domain.PageDocument, opts runner.PageOptions) (*domain.GenerationBatch, error)
	RunFromFile(ctx context.Context, docPath string, opts runner.PageOptions) (*domain.GenerationBatch, error)
}
