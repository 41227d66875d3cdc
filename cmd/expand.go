package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-script/internal/pipeline"

	"github.com/spf13/cobra"
)

// expandCmd は、簡易ストーリーをページ仕様 YAML に展開するのだ。
var expandCmd = &cobra.Command{
	Use:     "expand <story.yaml>",
	Short:   "簡易ストーリーをページ仕様に展開するのだ。",
	Example: "  manga-script expand examples/stories/simple_story.yaml",
	Args:    cobra.ExactArgs(1),
	RunE:    expandCommand,
}

func init() {
	expandCmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "ページ仕様の保存先なのだ。省略時は <stem>_expanded.yaml なのだ。")
}

func expandCommand(cmd *cobra.Command, args []string) error {
	path, err := pipeline.ExecuteExpand(cmd.Context(), loadConfig(), args[0])
	if err != nil {
		return fmt.Errorf("展開中にエラーが発生したのだ: %w", err)
	}
	slog.Info("展開が完了したのだ！", "output", path)
	return nil
}
