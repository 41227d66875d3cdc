package builder

import (
	"github.com/shouni/go-manga-script/internal/config"
	libcfg "github.com/shouni/go-manga-script/pkg/config"
	"github.com/shouni/go-manga-script/pkg/publisher"
	"github.com/shouni/go-manga-script/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config   *config.Config         // Configは、環境変数と CLI フラグから組み立てた設定です。
	Library  libcfg.Config          // Libraryは、ライブラリ側に渡す設定です（モデル名、試行回数、パスなど）。
	Writer   publisher.OutputWriter // Writerは、生成された内容を保存するための出力先です。
	Workflow workflow.Workflow      // Workflowは、各工程の Runner を構築します。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config, lib libcfg.Config, writer publisher.OutputWriter, wf workflow.Workflow) AppContext {
	return AppContext{
		Config:   cfg,
		Library:  lib,
		Writer:   writer,
		Workflow: wf,
	}
}
