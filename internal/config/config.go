package config

import (
	"time"

	libcfg "github.com/shouni/go-manga-script/pkg/config"
	"github.com/shouni/go-manga-script/pkg/generator"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultStoryTemplatesDir = libcfg.DefaultTemplatesDir
	DefaultCharactersDir     = libcfg.DefaultCharactersDir
	DefaultOutputRoot        = libcfg.DefaultOutputRoot
	DefaultInterval          = libcfg.DefaultRateInterval
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	ImageModel   string
	SessionID    string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// APIキーは GOOGLE_API_KEY を優先し、無ければ GEMINI_API_KEY を使うのだ。
func LoadConfig() *Config {
	apiKey := envutil.GetEnv("GOOGLE_API_KEY", "")
	if apiKey == "" {
		apiKey = envutil.GetEnv("GEMINI_API_KEY", "")
	}
	return &Config{
		GeminiAPIKey: apiKey,
		ImageModel:   envutil.GetEnv("IMAGE_GEMINI_MODEL", libcfg.DefaultImageModel),
		SessionID:    envutil.GetEnv("MANGA_SESSION_ID", ""),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 入力関連
	TemplatesDir  string // --templates
	CharactersDir string // --characters-dir
	OutputFile    string // --output

	// 画像生成関連
	OutputRoot  string        // --output-root
	OutputName  string        // --output-name
	Session     string        // --session
	Attempts    int           // --attempts
	Consistency bool          // --consistency
	ImageModel  string        // --image-model
	Interval    time.Duration // --interval
	IntervalSet bool          // --interval が明示されたか。0 を指定すると間隔を空けないのだ
}

// LibraryConfig は環境設定と CLI フラグをまとめて、ライブラリ側の設定に変換するのだ。
// 試行回数は 1〜4 に丸めるのだ。
func (c *Config) LibraryConfig() libcfg.Config {
	lib := libcfg.DefaultConfig()
	lib.GeminiAPIKey = c.GeminiAPIKey
	lib.ImageModel = c.ImageModel

	opts := c.Options
	if opts.ImageModel != "" {
		lib.ImageModel = opts.ImageModel
	}
	if opts.TemplatesDir != "" {
		lib.TemplatesDir = opts.TemplatesDir
	}
	if opts.CharactersDir != "" {
		lib.CharactersDir = opts.CharactersDir
	}
	if opts.OutputRoot != "" {
		lib.OutputRoot = opts.OutputRoot
	}
	if opts.Attempts != 0 {
		lib.Attempts = generator.ClampAttempts(opts.Attempts)
	}
	if opts.IntervalSet || opts.Interval > 0 {
		lib.RateInterval = opts.Interval
	}
	lib.Consistency = opts.Consistency
	return lib
}

// ResolveSession はフラグ、環境変数の順にセッション名を決めるのだ。空なら自動採番になるのだ。
func (c *Config) ResolveSession() string {
	if c.Options.Session != "" {
		return c.Options.Session
	}
	return c.SessionID
}
