package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// デフォルト値の定義
const (
	DefaultImageModel    = "gemini-2.5-flash-image-preview"
	DefaultAspectRatio   = "3:4"
	DefaultAttempts      = 1
	DefaultRateInterval  = 10 * time.Second
	DefaultOutputRoot    = "output"
	DefaultTemplatesDir  = "templates"
	DefaultCharactersDir = "characters"
)

// Config は go-manga-script の各コンポーネントを動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	ImageModel   string
	AspectRatio  string // API に渡す縦横比
	GeminiAPIKey string

	// --- Generation Settings ---
	Attempts     int
	RateInterval time.Duration
	Consistency  bool // 感情・小道具ごとの参照画像を使う

	// --- Paths ---
	OutputRoot    string
	TemplatesDir  string
	CharactersDir string
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		ImageModel:    DefaultImageModel,
		AspectRatio:   DefaultAspectRatio,
		Attempts:      DefaultAttempts,
		RateInterval:  DefaultRateInterval,
		OutputRoot:    DefaultOutputRoot,
		TemplatesDir:  DefaultTemplatesDir,
		CharactersDir: DefaultCharactersDir,
	}
}

// Validate は設定値の整合性を検証します。APIキーの有無は画像生成時にのみ確認します。
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ImageModel, validation.Required),
		validation.Field(&c.AspectRatio, validation.Required, validation.In("1:1", "2:3", "3:2", "3:4", "4:3", "9:16", "16:9")),
		validation.Field(&c.Attempts, validation.Required, validation.Min(1), validation.Max(4)),
		validation.Field(&c.RateInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.OutputRoot, validation.Required),
		validation.Field(&c.TemplatesDir, validation.Required),
		validation.Field(&c.CharactersDir, validation.Required),
	)
}

// ValidateForGeneration は画像生成に必要な設定が揃っているかを検証します。
func (c Config) ValidateForGeneration() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.GeminiAPIKey, validation.Required.Error("GOOGLE_API_KEY または GEMINI_API_KEY が必要です")),
	)
}
