package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/gemini-image-kit/ports"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = 1 * time.Hour
	maxConcurrentReads     = 4
)

var (
	_ ports.ContentReader = (*Loader)(nil)
	_ ports.Downloader    = (*Loader)(nil)
)

// Image は読み込み済みの参照画像です。
type Image struct {
	Reference
	Data     []byte
	MimeType string
}

// Loader は参照画像のバイト列を読み込みます。
// 同じパスの読み込みはキャッシュされ、同時に要求された場合も1回にまとめられます。
type Loader struct {
	cache    *cache.Cache
	group    singleflight.Group
	readFile func(string) ([]byte, error)
}

// NewLoader は Loader を生成します。c が nil の場合は既定の期限でキャッシュを作ります。
func NewLoader(c *cache.Cache) *Loader {
	if c == nil {
		c = cache.New(defaultCacheExpiration, cacheCleanupInterval)
	}
	return &Loader{cache: c, readFile: os.ReadFile}
}

// Load は参照画像を並行して読み込み、入力と同じ順序で返します。
// 読み込めないファイルは警告を出して結果から除外し、処理は中断しません。
// エラーが返るのはコンテキストがキャンセルされた場合だけです。
func (l *Loader) Load(ctx context.Context, refs []Reference) ([]Image, error) {
	results := make([]*Image, len(refs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentReads)
	for i, ref := range refs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			data, err := l.read(ref.Path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					slog.Warn("参照画像が見つからないためスキップします", "kind", ref.Kind, "key", ref.Key, "path", ref.Path)
				} else {
					slog.Warn("参照画像の読み込みに失敗したためスキップします", "path", ref.Path, "error", err)
				}
				return nil
			}
			results[i] = &Image{Reference: ref, Data: data, MimeType: http.DetectContentType(data)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("参照画像の読み込みが中断されました: %w", err)
	}

	images := make([]Image, 0, len(refs))
	for _, img := range results {
		if img != nil {
			images = append(images, *img)
		}
	}
	slog.InfoContext(ctx, "参照画像を読み込みました", "requested", len(refs), "loaded", len(images))
	return images, nil
}

// read はキャッシュを確認し、無ければ singleflight 経由でファイルを読みます。
func (l *Loader) read(path string) ([]byte, error) {
	if v, ok := l.cache.Get(path); ok {
		if data, ok := v.([]byte); ok {
			return data, nil
		}
	}

	val, err, _ := l.group.Do(path, func() (interface{}, error) {
		// 待機中に他のゴルーチンが読み込みを終えている可能性があるため再確認します
		if v, ok := l.cache.Get(path); ok {
			return v, nil
		}
		data, err := l.readFile(path)
		if err != nil {
			return nil, err
		}
		l.cache.Set(path, data, cache.DefaultExpiration)
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	data, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return data, nil
}

// Open はローカルの参照画像をキャッシュ経由で開きます。画像生成コアの ContentReader として使います。
func (l *Loader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := l.read(uri)
	if err != nil {
		return nil, fmt.Errorf("参照画像を開けませんでした: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// GetStream は Open と同じです。画像生成コアは gs:// 以外をこちらで取得します。
func (l *Loader) GetStream(ctx context.Context, url string) (io.ReadCloser, error) {
	return l.Open(ctx, url)
}

// FetchStream は参照画像を開いて fn に渡します。
func (l *Loader) FetchStream(ctx context.Context, url string, fn func(io.Reader) error) error {
	rc, err := l.Open(ctx, url)
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(rc)
}
