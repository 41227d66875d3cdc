package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultOutputRoot は生成画像の保存先ルートです。
	DefaultOutputRoot = "output"
	// SessionEnvKey はセッションフォルダを固定するための環境変数です。
	SessionEnvKey = "MANGA_SESSION_ID"
)

// ErrUnsafePathSegment はセッション名やファイル名にディレクトリ区切りや ".." が含まれていることを表します。
var ErrUnsafePathSegment = errors.New("パスの区切りや .. は使えません")

// CheckPathSegment は name が1階層分の名前として安全かどうかを検証します。
func CheckPathSegment(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: %w", name, ErrUnsafePathSegment)
	}
	return nil
}

// Allocator は出力先を <Root>/<YYYY-MM>/<DD>/<session>/<fileName> の形で決定します。
type Allocator struct {
	Root   string
	Now    func() time.Time
	Getenv func(string) string
}

// NewAllocator は現在時刻と実際の環境変数を使う Allocator を生成します。
func NewAllocator(root string) *Allocator {
	if root == "" {
		root = DefaultOutputRoot
	}
	return &Allocator{Root: root, Now: time.Now, Getenv: os.Getenv}
}

// Allocate は出力ファイルのパスを決め、親ディレクトリを作成します。
// セッションは sessionID、環境変数 MANGA_SESSION_ID、既存の数値フォルダの最大値+1 の順で決まります。
// 連番の採番はプロセス間で排他されないため、同時に実行すると同じ番号になることがあります。
func (a *Allocator) Allocate(fileName, sessionID string) (string, error) {
	if err := CheckPathSegment(fileName); err != nil {
		return "", fmt.Errorf("ファイル名が不正です: %w", err)
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	t := now()
	dayDir := filepath.Join(a.Root, t.Format("2006-01"), t.Format("02"))

	session := strings.TrimSpace(sessionID)
	if session == "" && a.Getenv != nil {
		session = strings.TrimSpace(a.Getenv(SessionEnvKey))
	}
	if session != "" {
		if err := CheckPathSegment(session); err != nil {
			return "", fmt.Errorf("セッション名が不正です: %w", err)
		}
	} else {
		next, err := nextSessionNumber(dayDir)
		if err != nil {
			return "", err
		}
		session = strconv.Itoa(next)
	}

	dir := filepath.Join(dayDir, session)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}
	return filepath.Join(dir, fileName), nil
}

// nextSessionNumber は数字だけの名前を持つサブディレクトリの最大値+1 を返します。
func nextSessionNumber(dayDir string) (int, error) {
	entries, err := os.ReadDir(dayDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("セッションフォルダの走査に失敗しました: %w", err)
	}

	highest := 0
	for _, e := range entries {
		if !e.IsDir() || !isDigits(e.Name()) {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
