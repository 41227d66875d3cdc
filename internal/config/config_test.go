package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("GOOGLE_API_KEY が優先されるのだ", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "google")
		t.Setenv("GEMINI_API_KEY", "gemini")
		if got := LoadConfig().GeminiAPIKey; got != "google" {
			t.Errorf("期待値 'google', 実際の値 %q", got)
		}
	})

	t.Run("GEMINI_API_KEY にフォールバックするのだ", func(t *testing.T) {
		t.Setenv("GOOGLE_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "gemini")
		if got := LoadConfig().GeminiAPIKey; got != "gemini" {
			t.Errorf("期待値 'gemini', 実際の値 %q", got)
		}
	})
}

func TestLibraryConfig(t *testing.T) {
	t.Setenv("MANGA_SESSION_ID", "env-session")
	cfg := LoadConfig()
	cfg.Options = GenerateOptions{
		Attempts:    3,
		Consistency: true,
		OutputRoot:  "out",
		Interval:    time.Second,
	}

	lib := cfg.LibraryConfig()
	if lib.Attempts != 3 || !lib.Consistency || lib.OutputRoot != "out" || lib.RateInterval != time.Second {
		t.Errorf("フラグが反映されていないのだ: %+v", lib)
	}
	if err := lib.Validate(); err != nil {
		t.Errorf("変換後の設定が不正なのだ: %v", err)
	}

	if got := cfg.ResolveSession(); got != "env-session" {
		t.Errorf("環境変数のセッションが使われていないのだ: %q", got)
	}
	cfg.Options.Session = "flag"
	if got := cfg.ResolveSession(); got != "flag" {
		t.Errorf("フラグのセッションが優先されていないのだ: %q", got)
	}
}

func TestLibraryConfig_ClampsAttempts(t *testing.T) {
	cfg := LoadConfig()
	cfg.Options.Attempts = 9
	if got := cfg.LibraryConfig().Attempts; got != 4 {
		t.Errorf("試行回数が丸められていないのだ: %d", got)
	}
}

func TestLibraryConfig_Interval(t *testing.T) {
	tests := []struct {
		name string
		opts GenerateOptions
		want time.Duration
	}{
		{"未指定なら既定値なのだ", GenerateOptions{}, DefaultInterval},
		{"明示した値が使われるのだ", GenerateOptions{Interval: 3 * time.Second, IntervalSet: true}, 3 * time.Second},
		{"明示した 0 で間隔を空けないのだ", GenerateOptions{Interval: 0, IntervalSet: true}, 0},
		{"フラグの既定値はそのまま使われるのだ", GenerateOptions{Interval: DefaultInterval}, DefaultInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			cfg.Options = tt.opts
			lib := cfg.LibraryConfig()
			if lib.RateInterval != tt.want {
				t.Errorf("期待値 %v, 実際の値 %v", tt.want, lib.RateInterval)
			}
			if err := lib.Validate(); err != nil {
				t.Errorf("変換後の設定が不正なのだ: %v", err)
			}
		})
	}
}
