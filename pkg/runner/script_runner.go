package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shouni/go-manga-script/pkg/compiler"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/publisher"
)

// MangaScriptRunner は簡易ストーリーを読み込み、展開済みのページ仕様を保存します。
type MangaScriptRunner struct {
	compiler *compiler.Compiler
	writer   publisher.OutputWriter
}

// NewMangaScriptRunner は MangaScriptRunner を初期化します。
func NewMangaScriptRunner(c *compiler.Compiler, writer publisher.OutputWriter) *MangaScriptRunner {
	return &MangaScriptRunner{
		compiler: c,
		writer:   writer,
	}
}

// Run はストーリーをページ仕様に展開します。ファイルへの保存は行いません。
func (r *MangaScriptRunner) Run(ctx context.Context, story *domain.Story) (*domain.PageDocument, error) {
	doc, err := r.compiler.Compile(story)
	if err != nil {
		return nil, fmt.Errorf("ストーリーの展開に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "MangaScriptRunner: ページ仕様を生成しました",
		"title", story.Title,
		"panels", len(doc.Panels))
	return doc, nil
}

// RunAndSave はストーリーファイルを展開し、<stem>_expanded.yaml として保存します。
// outputPath が空の場合はストーリーと同じディレクトリに保存します。
func (r *MangaScriptRunner) RunAndSave(ctx context.Context, storyPath, outputPath string) (*domain.PageDocument, string, error) {
	story, err := publisher.ReadStory(storyPath)
	if err != nil {
		return nil, "", err
	}

	doc, err := r.Run(ctx, story)
	if err != nil {
		return nil, "", err
	}

	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(storyPath), publisher.ExpandedFileName(storyPath))
	}
	if err := publisher.WritePageDocument(ctx, r.writer, outputPath, doc); err != nil {
		return nil, "", err
	}

	slog.InfoContext(ctx, "展開済みページ仕様を保存しました", "path", outputPath)
	return doc, outputPath, nil
}
