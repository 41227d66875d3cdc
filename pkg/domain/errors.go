package domain

import "errors"

// 構造的なエラー。これらは処理全体を中断させます。
var (
	ErrLayoutNotFound = errors.New("layout pattern not found")
	ErrNoScenes       = errors.New("story has no scenes")
	ErrNoDocument     = errors.New("page document is missing")
)
