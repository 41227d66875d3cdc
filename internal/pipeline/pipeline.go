package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-script/internal/builder"
	"github.com/shouni/go-manga-script/internal/config"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/publisher"
	"github.com/shouni/go-manga-script/pkg/runner"
)

// ErrNoSuccess は全ての生成試行が失敗したことを示すのだ。
var ErrNoSuccess = errors.New("ページ画像を1枚も生成できませんでした")

// ExecuteExpand は簡易ストーリーを展開し、ページ仕様 YAML を保存するのだ。
// 保存先のパスを返すのだ。
func ExecuteExpand(ctx context.Context, cfg *config.Config, storyPath string) (string, error) {
	appCtx, err := builder.BuildAppContext(ctx, cfg, false)
	if err != nil {
		return "", err
	}
	_, path, err := runExpandStep(ctx, appCtx, storyPath)
	return path, err
}

// ExecuteGenerate はページ仕様 YAML から画像を生成するのだ。
// 1枚も成功しなかった場合は ErrNoSuccess を返すのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config, docPath string) (*domain.GenerationBatch, error) {
	appCtx, err := builder.BuildAppContext(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	pageRunner, err := appCtx.Workflow.BuildPageRunner()
	if err != nil {
		return nil, fmt.Errorf("PageRunnerの構築に失敗したのだ: %w", err)
	}
	batch, err := pageRunner.RunFromFile(ctx, docPath, pageOptions(appCtx, cfg.Options.OutputName))
	if err != nil {
		return nil, fmt.Errorf("ページ画像の生成に失敗したのだ: %w", err)
	}
	return reportBatch(ctx, batch)
}

// ExecuteStory は展開と画像生成を続けて実行するのだ。
func ExecuteStory(ctx context.Context, cfg *config.Config, storyPath string) (*domain.GenerationBatch, error) {
	appCtx, err := builder.BuildAppContext(ctx, cfg, true)
	if err != nil {
		return nil, err
	}

	doc, docPath, err := runExpandStep(ctx, appCtx, storyPath)
	if err != nil {
		return nil, err
	}

	pageRunner, err := appCtx.Workflow.BuildPageRunner()
	if err != nil {
		return nil, fmt.Errorf("PageRunnerの構築に失敗したのだ: %w", err)
	}
	fileName := cfg.Options.OutputName
	if fileName == "" {
		fileName = publisher.GeneratedFileName(docPath)
	}
	batch, err := pageRunner.Run(ctx, doc, pageOptions(appCtx, fileName))
	if err != nil {
		return nil, fmt.Errorf("ページ画像の生成に失敗したのだ: %w", err)
	}
	return reportBatch(ctx, batch)
}

func runExpandStep(ctx context.Context, appCtx *builder.AppContext, storyPath string) (*domain.PageDocument, string, error) {
	scriptRunner, err := appCtx.Workflow.BuildScriptRunner()
	if err != nil {
		return nil, "", fmt.Errorf("ScriptRunnerの構築に失敗したのだ: %w", err)
	}

	doc, path, err := scriptRunner.RunAndSave(ctx, storyPath, appCtx.Config.Options.OutputFile)
	if err != nil {
		return nil, "", fmt.Errorf("ストーリーの展開に失敗したのだ: %w", err)
	}
	slog.InfoContext(ctx, "ページ仕様を保存したのだ", "path", path, "panels", len(doc.Panels))
	return doc, path, nil
}

func pageOptions(appCtx *builder.AppContext, fileName string) runner.PageOptions {
	return runner.PageOptions{
		Attempts:  appCtx.Library.Attempts,
		FileName:  fileName,
		SessionID: appCtx.Config.ResolveSession(),
		Mode:      appCtx.Workflow.Mode(),
	}
}

// reportBatch は試行ごとの結果をログに出すのだ。成功が0件なら ErrNoSuccess なのだ。
func reportBatch(ctx context.Context, batch *domain.GenerationBatch) (*domain.GenerationBatch, error) {
	for _, a := range batch.Attempts {
		if a.OK() {
			slog.InfoContext(ctx, "生成成功", "batch", batch.ID, "attempt", a.Index, "path", a.Path)
		} else {
			slog.WarnContext(ctx, "生成失敗", "batch", batch.ID, "attempt", a.Index, "error", a.Err)
		}
	}
	if !batch.Succeeded() {
		return batch, ErrNoSuccess
	}
	return batch, nil
}
