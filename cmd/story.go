package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-manga-script/internal/pipeline"

	"github.com/spf13/cobra"
)

// storyCmd は、展開と画像生成を一気に行うのだ！
var storyCmd = &cobra.Command{
	Use:     "story <story.yaml>",
	Short:   "簡易ストーリーから漫画ページ画像までを一括生成するのだ！",
	Example: "  manga-script story examples/stories/simple_story.yaml -n 2",
	Args:    cobra.ExactArgs(1),
	RunE:    storyCommand,
}

func init() {
	storyCmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "ページ仕様の保存先なのだ。")
	addGenerateFlags(storyCmd)
}

func storyCommand(cmd *cobra.Command, args []string) error {
	batch, err := pipeline.ExecuteStory(cmd.Context(), loadConfig(), args[0])
	if err != nil {
		return fmt.Errorf("一括生成中にエラーが発生したのだ: %w", err)
	}
	slog.Info("漫画ページが完成したのだ！", "batch", batch.ID, "files", batch.Successes())
	return nil
}
