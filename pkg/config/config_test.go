package config

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("デフォルト設定は有効であること", func(t *testing.T) {
		if err := DefaultConfig().Validate(); err != nil {
			t.Errorf("予期せぬエラー: %v", err)
		}
	})

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"試行回数が範囲外", func(c *Config) { c.Attempts = 5 }},
		{"試行回数が0", func(c *Config) { c.Attempts = 0 }},
		{"未対応の縦横比", func(c *Config) { c.AspectRatio = "1:1.4" }},
		{"負の待機時間", func(c *Config) { c.RateInterval = -time.Second }},
		{"出力先が空", func(c *Config) { c.OutputRoot = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Error("エラーが期待されましたが nil でした")
			}
		})
	}
}

func TestConfig_ValidateForGeneration(t *testing.T) {
	c := DefaultConfig()
	if err := c.ValidateForGeneration(); err == nil {
		t.Error("APIキーが無いのにエラーになりませんでした")
	}
	c.GeminiAPIKey = "dummy"
	if err := c.ValidateForGeneration(); err != nil {
		t.Errorf("予期せぬエラー: %v", err)
	}
}
