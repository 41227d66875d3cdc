package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shouni/go-manga-script/pkg/asset"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/generator"
	"github.com/shouni/go-manga-script/pkg/prompts"
	"github.com/shouni/go-manga-script/pkg/publisher"

	"gopkg.in/yaml.v3"
)

// PageOptions は1回のページ生成の実行パラメータです。
type PageOptions struct {
	Attempts  int
	FileName  string
	SessionID string
	Mode      asset.Mode
}

// MangaPageRunner はページ仕様から参照画像を集め、画像生成バッチを実行します。
type MangaPageRunner struct {
	resolver *asset.Resolver
	loader   *asset.Loader
	batch    *generator.BatchGenerator
	writer   publisher.OutputWriter
}

// NewMangaPageRunner は、解決器、ローダー、生成エンジン、およびライターを依存性として注入し、MangaPageRunner を初期化します。
func NewMangaPageRunner(
	resolver *asset.Resolver,
	loader *asset.Loader,
	batch *generator.BatchGenerator,
	writer publisher.OutputWriter,
) *MangaPageRunner {
	return &MangaPageRunner{
		resolver: resolver,
		loader:   loader,
		batch:    batch,
		writer:   writer,
	}
}

// Run は、ページ仕様を基に指定回数だけページ画像を生成します。
// 一部の試行が失敗してもエラーにはならず、結果は GenerationBatch に記録されます。
func (r *MangaPageRunner) Run(ctx context.Context, doc *domain.PageDocument, opts PageOptions) (*domain.GenerationBatch, error) {
	if doc == nil {
		return nil, domain.ErrNoDocument
	}

	prompt := prompts.BuildPagePrompt(doc)
	refs := r.resolver.Resolve(doc, opts.Mode)
	images, err := r.loader.Load(ctx, refs)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "MangaPageRunner: ページ生成を開始します",
		"panels", len(doc.Panels),
		"mode", opts.Mode.String(),
		"references", len(images),
		"prompt_length", len(prompt))

	batch, err := r.batch.Run(ctx, generator.BatchRequest{
		Document:   doc,
		Prompt:     prompt,
		References: images,
		Attempts:   opts.Attempts,
		FileName:   opts.FileName,
		SessionID:  opts.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("ページ画像の生成に失敗しました: %w", err)
	}

	r.saveReport(ctx, batch)
	return batch, nil
}

// RunFromFile は展開済みページ仕様のファイルを読み込んで Run を実行します。
// ファイル名が未指定の場合は <stem>_generated.png を使います。
func (r *MangaPageRunner) RunFromFile(ctx context.Context, docPath string, opts PageOptions) (*domain.GenerationBatch, error) {
	doc, err := publisher.ReadPageDocument(docPath)
	if err != nil {
		return nil, err
	}
	if opts.FileName == "" {
		opts.FileName = publisher.GeneratedFileName(docPath)
	}
	return r.Run(ctx, doc, opts)
}

// saveReport は成功した画像と同じフォルダにバッチ結果を保存します。保存の失敗は警告に留めます。
func (r *MangaPageRunner) saveReport(ctx context.Context, batch *domain.GenerationBatch) {
	successes := batch.Successes()
	if len(successes) == 0 {
		return
	}
	data, err := yaml.Marshal(batch)
	if err != nil {
		slog.WarnContext(ctx, "バッチ結果のYAML変換に失敗しました", "error", err)
		return
	}
	am := publisher.NewAssetManager(r.writer, filepath.Dir(successes[0]))
	path, err := am.SaveFile(ctx, fmt.Sprintf("batch_%s.yaml", batch.ID), data)
	if err != nil {
		slog.WarnContext(ctx, "バッチ結果の保存に失敗しました", "error", err)
		return
	}
	slog.InfoContext(ctx, "バッチ結果を保存しました", "path", path)
}
