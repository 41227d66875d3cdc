package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/shouni/go-manga-script/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// opts は CLI フラグの値を受け取るのだ。
var opts config.GenerateOptions

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "manga-script",
	Short: "簡易ストーリーから漫画ページの仕様と画像を作るのだ。",
	Long: `簡易ストーリー YAML をテンプレートで展開してページ仕様にし、
Gemini の画像生成モデルで1枚の漫画ページ画像を生成するのだ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(expandCmd, generateCmd, storyCmd)
}

// addAppFlags は、全サブコマンド共通のフラグを定義するのだ。
func addAppFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
	cmd.PersistentFlags().StringVar(&opts.TemplatesDir, "templates", config.DefaultStoryTemplatesDir, "テンプレート YAML のディレクトリなのだ。")
	cmd.PersistentFlags().StringVar(&opts.CharactersDir, "characters-dir", config.DefaultCharactersDir, "キャラクター基準画像（<KEY>_ORIGIN.png）のディレクトリなのだ。")
	cmd.PersistentFlags().StringVar(&opts.OutputRoot, "output-root", config.DefaultOutputRoot, "生成画像の保存ルートなのだ。")
}

// addGenerateFlags は画像生成を伴うコマンドのフラグを定義するのだ。
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&opts.Attempts, "attempts", "n", 1, "同じページを何回生成するか（1〜4）なのだ。")
	cmd.Flags().StringVar(&opts.Session, "session", "", "出力先のセッション名なのだ。省略時は自動採番なのだ。")
	cmd.Flags().StringVar(&opts.OutputName, "output-name", "", "出力ファイル名なのだ。")
	cmd.Flags().BoolVar(&opts.Consistency, "consistency", false, "感情・小道具ごとの参照画像も送るのだ。")
	cmd.Flags().DurationVar(&opts.Interval, "interval", config.DefaultInterval, "試行の間隔なのだ（0 で間隔を空けない）。")
	cmd.Flags().StringVar(&opts.ImageModel, "image-model", "", "使用する Gemini 画像モデル名なのだ。")
}

// preRunAppE は、.env の読み込みとロガーの初期化を行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	opts.IntervalSet = cmd.Flags().Changed("interval")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn(".env の読み込みに失敗したのだ", "error", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数とフラグから設定を組み立てるのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("コマンドの実行に失敗したのだ", "error", err)
		os.Exit(1)
	}
}
