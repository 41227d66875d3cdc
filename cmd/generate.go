package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-script/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、ページ仕様 YAML からページ画像を生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate <page.yaml>",
	Short: "ページ仕様から漫画ページ画像を生成するのだ。",
	Long: `展開済みのページ仕様を読み込み、キャラクターの参照画像と一緒に
画像生成モデルへ送って、ページ画像を保存するのだ。
1枚も生成できなかった場合は終了コード 1 で終わるのだ。`,
	Example: "  manga-script generate story_expanded.yaml --attempts 3 --consistency",
	Args:    cobra.ExactArgs(1),
	RunE:    generateCommand,
}

func init() {
	addGenerateFlags(generateCmd)
}

func generateCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	slog.Info("ページ画像の生成を開始するのだ！",
		"input", args[0],
		"attempts", cfg.Options.Attempts,
		"consistency", cfg.Options.Consistency)

	batch, err := pipeline.ExecuteGenerate(cmd.Context(), cfg, args[0])
	if err != nil {
		return fmt.Errorf("画像生成中にエラーが発生したのだ: %w", err)
	}
	slog.Info("すべての生成工程が完了したのだ！", "batch", batch.ID, "success", len(batch.Successes()))
	return nil
}
