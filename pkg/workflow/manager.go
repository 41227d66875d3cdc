package workflow

import (
	"fmt"
	"time"

	"github.com/shouni/go-manga-script/pkg/asset"
	"github.com/shouni/go-manga-script/pkg/compiler"
	"github.com/shouni/go-manga-script/pkg/config"
	"github.com/shouni/go-manga-script/pkg/generator"
	"github.com/shouni/go-manga-script/pkg/publisher"
	"github.com/shouni/go-manga-script/pkg/runner"
	"github.com/shouni/go-manga-script/pkg/templates"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/gemini"
)

const (
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = 1 * time.Hour
)

// ManagerArgs は Manager の初期化に必要な依存関係です。
// AIClient は画像生成を行わない場合（展開のみ）には nil でも構いません。
type ManagerArgs struct {
	Config   config.Config
	Store    templates.Store
	AIClient gemini.GenerativeModel
	Writer   publisher.OutputWriter
}

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg       config.Config
	store     templates.Store
	aiClient  gemini.GenerativeModel
	writer    publisher.OutputWriter
	cache     *cache.Cache
	loader    *asset.Loader
	allocator *asset.Allocator
}

// New は、設定とテンプレートを基に新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	if args.Store == nil {
		return nil, fmt.Errorf("Store は必須です")
	}
	if args.Writer == nil {
		return nil, fmt.Errorf("OutputWriter は必須です")
	}
	if err := args.Config.Validate(); err != nil {
		return nil, fmt.Errorf("設定が不正です: %w", err)
	}

	// 参照画像のバイト列と File API の URI を同じキャッシュで保持します
	imageCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	return &Manager{
		cfg:       args.Config,
		store:     args.Store,
		aiClient:  args.AIClient,
		writer:    args.Writer,
		cache:     imageCache,
		loader:    asset.NewLoader(imageCache),
		allocator: asset.NewAllocator(args.Config.OutputRoot),
	}, nil
}

// BuildScriptRunner は、ストーリー展開を担当する Runner を作成します。
func (m *Manager) BuildScriptRunner() (ScriptRunner, error) {
	return runner.NewMangaScriptRunner(compiler.New(m.store), m.writer), nil
}

// BuildPageRunner は、ページ画像生成を担当する Runner を作成します。
func (m *Manager) BuildPageRunner() (PageRunner, error) {
	if m.aiClient == nil {
		return nil, fmt.Errorf("画像生成クライアントが設定されていません")
	}
	pages, err := generator.NewPageImageGenerator(m.aiClient, m.loader, m.cache)
	if err != nil {
		return nil, err
	}
	imgGen := generator.NewGeminiImageGenerator(pages, m.cfg.ImageModel, m.cfg.AspectRatio)
	batch := generator.NewBatchGenerator(imgGen, m.allocator, m.writer, m.cfg.RateInterval)

	return runner.NewMangaPageRunner(
		asset.NewResolver(m.cfg.CharactersDir),
		m.loader,
		batch,
		m.writer,
	), nil
}

// Mode は設定に応じた参照画像の収集モードを返します。
func (m *Manager) Mode() asset.Mode {
	if m.cfg.Consistency {
		return asset.ModeConsistency
	}
	return asset.ModeBase
}
