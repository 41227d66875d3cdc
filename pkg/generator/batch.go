package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-manga-script/pkg/asset"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/prompts"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// MinAttempts は1バッチあたりの最小試行回数です。
	MinAttempts = 1
	// MaxAttempts は1バッチあたりの最大試行回数です。
	MaxAttempts = 4

	// DefaultFileName は出力ファイル名が指定されなかった場合に使います。
	DefaultFileName = "manga_page.png"
)

// PathAllocator は出力ファイルのパスを決定します。asset.Allocator が実装します。
type PathAllocator interface {
	Allocate(fileName, sessionID string) (string, error)
}

// OutputWriter はデータを保存先に書き込みます。publisher.LocalWriter が実装します。
type OutputWriter interface {
	Write(ctx context.Context, path string, data []byte) error
}

// BatchRequest は同じページを K 回生成するための入力です。
// Prompt が空なら Document から組み立てます。
type BatchRequest struct {
	Document   *domain.PageDocument
	Prompt     string
	References []asset.Image
	Attempts   int
	FileName   string
	SessionID  string
}

// BatchGenerator は同じ指示文で複数回の生成を順に実行し、成否をまとめます。
type BatchGenerator struct {
	images    ImageGenerator
	allocator PathAllocator
	writer    OutputWriter
	limiter   *rate.Limiter
}

// NewBatchGenerator は BatchGenerator を生成します。interval が 0 以下なら試行間の待機を行いません。
func NewBatchGenerator(images ImageGenerator, allocator PathAllocator, writer OutputWriter, interval time.Duration) *BatchGenerator {
	var limiter *rate.Limiter
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return &BatchGenerator{
		images:    images,
		allocator: allocator,
		writer:    writer,
		limiter:   limiter,
	}
}

// ClampAttempts は試行回数を 1〜4 の範囲に収めます。
func ClampAttempts(n int) int {
	if n < MinAttempts {
		return MinAttempts
	}
	if n > MaxAttempts {
		return MaxAttempts
	}
	return n
}

// Run は試行を順番に実行します。個々の試行の失敗は結果に記録して次の試行に進み、エラーにはしません。
// エラーが返るのは指示文を組み立てられない場合と、出力ファイル名が不正な場合だけです。
func (g *BatchGenerator) Run(ctx context.Context, req BatchRequest) (*domain.GenerationBatch, error) {
	prompt := req.Prompt
	if strings.TrimSpace(prompt) == "" {
		if req.Document == nil {
			return nil, domain.ErrNoDocument
		}
		prompt = prompts.BuildPagePrompt(req.Document)
	}

	total := ClampAttempts(req.Attempts)
	baseName := req.FileName
	if strings.TrimSpace(baseName) == "" {
		baseName = DefaultFileName
	}
	baseName = asset.EnsurePNGName(baseName)
	if err := asset.CheckPathSegment(baseName); err != nil {
		return nil, fmt.Errorf("出力ファイル名にはディレクトリを含められません: %w", err)
	}

	batch := &domain.GenerationBatch{ID: uuid.NewString()}
	slog.InfoContext(ctx, "画像生成バッチを開始します",
		"batch_id", batch.ID,
		"attempts", total,
		"references", len(req.References))

	run := &batchRun{
		BatchGenerator: g,
		batchID:        batch.ID,
		request:        ImageRequest{Prompt: prompt, References: req.References},
		sessionID:      req.SessionID,
	}
	for i := 1; i <= total; i++ {
		fileName, err := asset.IndexedFileName(baseName, i, total)
		if err != nil {
			batch.Attempts = append(batch.Attempts, failed(i, fmt.Errorf("ファイル名の生成に失敗しました: %w", err)))
			continue
		}
		batch.Attempts = append(batch.Attempts, run.attempt(ctx, i, fileName))
	}

	slog.InfoContext(ctx, "画像生成バッチが完了しました",
		"batch_id", batch.ID,
		"succeeded", len(batch.Successes()),
		"failed", len(batch.Failures()))
	return batch, nil
}

// batchRun は1回の Run の間だけ保持する状態です。出力ディレクトリは最初の成功時に一度だけ決まります。
type batchRun struct {
	*BatchGenerator
	batchID   string
	request   ImageRequest
	sessionID string
	outputDir string
}

func (r *batchRun) attempt(ctx context.Context, index int, fileName string) domain.AttemptResult {
	log := slog.With("batch_id", r.batchID, "attempt", index)

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			log.Warn("レート制限の待機が中断されました", "error", err)
			return failed(index, fmt.Errorf("リミッター待機中にエラーが発生しました: %w", err))
		}
	}

	resp, err := r.images.GenerateImage(ctx, r.request)
	if err != nil {
		log.Warn("画像生成に失敗しました", "error", err)
		return failed(index, err)
	}

	payload, ok := ExtractImagePayload(resp)
	if !ok {
		log.Warn("応答に画像が含まれていません")
		return failed(index, ErrNoImagePayload)
	}

	raw, err := NormalizePayload(payload.Data)
	if err != nil {
		log.Warn("画像データを復元できませんでした", "mime_type", payload.MimeType, "size", len(payload.Data))
		return failed(index, err)
	}

	decoded, err := DecodeAsPNG(raw)
	if err != nil {
		log.Warn("画像データの解析に失敗しました", "error", err)
		return failed(index, err)
	}

	path, err := r.outputPath(fileName)
	if err != nil {
		log.Error("出力先の決定に失敗しました", "error", err)
		return failed(index, err)
	}

	if err := r.writer.Write(ctx, path, decoded.PNG); err != nil {
		log.Error("画像の保存に失敗しました", "path", path, "error", err)
		return failed(index, err)
	}

	log.Info("画像を保存しました",
		"path", path,
		"width", decoded.Width,
		"height", decoded.Height,
		"source_format", decoded.Format)
	return domain.AttemptResult{
		Index:    index,
		Path:     path,
		Width:    decoded.Width,
		Height:   decoded.Height,
		MimeType: "image/png",
	}
}

func (r *batchRun) outputPath(fileName string) (string, error) {
	if r.outputDir != "" {
		return filepath.Join(r.outputDir, fileName), nil
	}
	path, err := r.allocator.Allocate(fileName, r.sessionID)
	if err != nil {
		return "", err
	}
	r.outputDir = filepath.Dir(path)
	return path, nil
}

func failed(index int, err error) domain.AttemptResult {
	msg := truncate(err.Error(), 300)
	if msg == "" {
		msg = "unknown error"
	}
	return domain.AttemptResult{Index: index, Err: msg}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
