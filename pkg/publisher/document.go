package publisher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-manga-script/pkg/domain"

	"gopkg.in/yaml.v3"
)

const (
	expandedSuffix  = "_expanded.yaml"
	generatedSuffix = "_generated.png"
)

// ExpandedFileName はストーリーファイルから展開済みページ仕様のファイル名を作ります。
// 例: "stories/day1.yaml" -> "day1_expanded.yaml"
func ExpandedFileName(storyPath string) string {
	return stem(storyPath) + expandedSuffix
}

// GeneratedFileName は入力ファイルから生成画像の既定ファイル名を作ります。
// 例: "day1_expanded.yaml" -> "day1_expanded_generated.png"
func GeneratedFileName(inputPath string) string {
	return stem(inputPath) + generatedSuffix
}

func stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadStory は簡易ストーリーの YAML を読み込みます。
func ReadStory(path string) (*domain.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ストーリーファイルの読み込みに失敗しました: %w", err)
	}
	return ParseStory(data)
}

// ParseStory は簡易ストーリーの YAML バイト列をパースします。
func ParseStory(data []byte) (*domain.Story, error) {
	var story domain.Story
	if err := yaml.Unmarshal(data, &story); err != nil {
		return nil, fmt.Errorf("ストーリーのYAMLパースに失敗しました: %w", err)
	}
	return &story, nil
}

// ReadPageDocument は comic_page をルートに持つページ仕様の YAML を読み込みます。
func ReadPageDocument(path string) (*domain.PageDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ページ仕様ファイルの読み込みに失敗しました: %w", err)
	}
	var f domain.ComicPageFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ページ仕様のYAMLパースに失敗しました: %w", err)
	}
	if f.ComicPage == nil {
		return nil, fmt.Errorf("'%s' に comic_page キーがありません: %w", path, domain.ErrNoDocument)
	}
	return f.ComicPage, nil
}

// MarshalPageDocument はページ仕様を comic_page ルートの YAML に変換します。
func MarshalPageDocument(doc *domain.PageDocument) ([]byte, error) {
	if doc == nil {
		return nil, domain.ErrNoDocument
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(domain.ComicPageFile{ComicPage: doc}); err != nil {
		return nil, fmt.Errorf("ページ仕様のYAML変換に失敗しました: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("ページ仕様のYAML変換に失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePageDocument はページ仕様を YAML で保存します。
func WritePageDocument(ctx context.Context, w OutputWriter, path string, doc *domain.PageDocument) error {
	data, err := MarshalPageDocument(doc)
	if err != nil {
		return err
	}
	if err := w.Write(ctx, path, data); err != nil {
		return fmt.Errorf("ページ仕様の保存に失敗しました: %w", err)
	}
	return nil
}
