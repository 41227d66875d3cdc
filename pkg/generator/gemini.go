package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-manga-script/pkg/asset"

	imagekit "github.com/shouni/gemini-image-kit/generator"
	"github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
)

const (
	// DefaultImageModel は画像生成に使うモデルです。
	DefaultImageModel = "gemini-2.5-flash-image-preview"
	// PageAspectRatio はAPIに渡す縦横比です。プロンプト側では 1:1.4 を指示します。
	PageAspectRatio = "3:4"

	// referenceCacheTTL は File API の URI をキャッシュしておく期間です。
	referenceCacheTTL = 1 * time.Hour
)

// ReferenceSource は参照画像を読み出す入口です。asset.Loader が実装します。
type ReferenceSource interface {
	ports.ContentReader
	ports.Downloader
}

// PageImageGenerator は画像生成キットのうち、ページ生成で使うメソッドだけを切り出したものです。
type PageImageGenerator interface {
	GenerateMangaPage(ctx context.Context, req ports.ImagePageRequest) (*ports.ImageResponse, error)
}

// ImageRequest は1回の画像生成リクエストです。
type ImageRequest struct {
	Prompt     string
	References []asset.Image
}

// ImageGenerator は外部の画像生成サービスとの境界です。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ports.ImageResponse, error)
}

// NewPageImageGenerator は Gemini クライアントから画像生成キットのページ生成器を組み立てます。
// 参照画像は source から読み込み、File API の URI は imageCache に保持します。
func NewPageImageGenerator(client gemini.GenerativeModel, source ReferenceSource, imageCache ports.ImageCacher) (*imagekit.GeminiGenerator, error) {
	core, err := imagekit.NewGeminiImageCore(client, source, source, imageCache, referenceCacheTTL, false)
	if err != nil {
		return nil, fmt.Errorf("画像生成コアの初期化に失敗しました: %w", err)
	}
	gen, err := imagekit.NewGeminiGenerator(core)
	if err != nil {
		return nil, fmt.Errorf("画像生成器の初期化に失敗しました: %w", err)
	}
	return gen, nil
}

// GeminiImageGenerator はページ仕様の指示文と参照画像を画像生成キットのページ要求に変換します。
type GeminiImageGenerator struct {
	pages       PageImageGenerator
	model       string
	aspectRatio string
}

// NewGeminiImageGenerator は GeminiImageGenerator を生成します。
func NewGeminiImageGenerator(pages PageImageGenerator, model, aspectRatio string) *GeminiImageGenerator {
	if strings.TrimSpace(model) == "" {
		model = DefaultImageModel
	}
	return &GeminiImageGenerator{
		pages:       pages,
		model:       model,
		aspectRatio: normalizeAspectRatio(aspectRatio),
	}
}

// GenerateImage は参照画像を先に、指示文を最後に並べて1ページを生成します。
func (g *GeminiImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*ports.ImageResponse, error) {
	if g == nil || g.pages == nil {
		return nil, fmt.Errorf("画像生成クライアントが設定されていません")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("プロンプトが空です")
	}

	images := make([]ports.ImageURI, 0, len(req.References))
	for _, ref := range req.References {
		images = append(images, ports.ImageURI{ReferenceURL: ref.Path})
	}

	slog.InfoContext(ctx, "Gemini API に画像生成をリクエストします",
		"model", g.model,
		"references", len(images),
		"prompt_length", len(req.Prompt))

	resp, err := g.pages.GenerateMangaPage(ctx, ports.ImagePageRequest{
		GenerationOptions: ports.GenerationOptions{
			Model:       g.model,
			Prompt:      req.Prompt,
			AspectRatio: g.aspectRatio,
		},
		Images: images,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成APIの呼び出しに失敗しました: %w", err)
	}
	return resp, nil
}

func normalizeAspectRatio(value string) string {
	value = strings.TrimSpace(value)
	switch value {
	case "1:1", "2:3", "3:2", "3:4", "4:3", "9:16", "16:9":
		return value
	default:
		return PageAspectRatio
	}
}
