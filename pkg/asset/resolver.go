package asset

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shouni/go-manga-script/pkg/domain"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultCharactersDir はキャラクターの基準画像を置くディレクトリです。
	DefaultCharactersDir = "characters"
	// OriginSuffix はキャラクター基準画像のファイル名の接尾辞です。
	OriginSuffix = "_ORIGIN.png"
)

// Mode は参照画像の集め方です。
type Mode int

const (
	// ModeBase はキャラクターごとに基準画像を1枚だけ添付します。
	ModeBase Mode = iota
	// ModeConsistency は感情ごと・小道具ごとの画像を添付します。
	ModeConsistency
)

func (m Mode) String() string {
	if m == ModeConsistency {
		return "consistency"
	}
	return "base"
}

// Kind は参照画像の種類です。
type Kind string

const (
	// KindLayout はコマ割りの参照画像です。
	KindLayout Kind = "layout"
	// KindCharacter はキャラクターの基準画像（<KEY>_ORIGIN.png）です。
	KindCharacter Kind = "character"
	// KindEmotion は感情ラベルごとの参照画像です。
	KindEmotion Kind = "emotion"
	// KindProp は小道具ごとの参照画像です。
	KindProp Kind = "prop"
)

// Reference は生成リクエストに添付する参照画像1枚分です。
type Reference struct {
	Kind Kind
	Key  string
	Path string
}

// Resolver はページ仕様から参照画像の一覧を組み立てます。
type Resolver struct {
	CharactersDir string
}

// NewResolver は Resolver を生成します。dir が空なら DefaultCharactersDir を使います。
func NewResolver(dir string) *Resolver {
	if dir == "" {
		dir = DefaultCharactersDir
	}
	return &Resolver{CharactersDir: dir}
}

// CharacterImagePath はキャラクターの基準画像のパスを返します。
// 例: "claude code" -> "characters/CLAUDECODE_ORIGIN.png"
func (r *Resolver) CharacterImagePath(name string) string {
	return filepath.Join(r.CharactersDir, domain.NormalizeCharacterKey(name)+OriginSuffix)
}

// Resolve はレイアウト画像、キャラクター画像の順に参照画像を並べます。
// 同じファイルを指す参照は最初の1件だけが残ります。ファイルの存在はここでは確認しません。
func (r *Resolver) Resolve(doc *domain.PageDocument, mode Mode) []Reference {
	if doc == nil {
		return nil
	}

	c := newCollector()
	if doc.LayoutReferenceImage != "" {
		c.add(Reference{Kind: KindLayout, Key: doc.LayoutPattern, Path: doc.LayoutReferenceImage})
	} else {
		slog.Warn("レイアウトに参照画像が設定されていません", "pattern", doc.LayoutPattern)
	}

	for _, name := range domain.Panels(doc.Panels).UniqueCharacterNames() {
		key := domain.NormalizeCharacterKey(name)
		base := Reference{Kind: KindCharacter, Key: key, Path: r.CharacterImagePath(name)}
		if mode != ModeConsistency {
			c.add(base)
			continue
		}

		tmpl, found := doc.FindCharacter(name)
		r.collectConsistency(c, doc, key, base, tmpl, found)
	}

	slog.Debug("参照画像を解決しました", "mode", mode.String(), "count", len(c.refs))
	return c.refs
}

// collectConsistency は1キャラクター分の感情画像と小道具画像を集めます。
func (r *Resolver) collectConsistency(c *collector, doc *domain.PageDocument, key string, base Reference, tmpl domain.CharacterTemplate, found bool) {
	for _, p := range doc.Panels {
		for _, a := range p.Characters {
			if domain.NormalizeCharacterKey(a.Name) != key {
				continue
			}

			img, ok := "", false
			if found {
				img, ok = tmpl.EmotionImage(a.EmotionLabel)
			}
			if ok {
				c.add(Reference{Kind: KindEmotion, Key: key + ":" + a.EmotionLabel, Path: img})
			} else {
				if !c.has(base.Path) {
					slog.Warn("感情画像が無いため基準画像で代用します",
						"character", key,
						"emotion", a.EmotionLabel)
				}
				c.add(base)
			}

			for _, prop := range a.Props {
				if !found {
					continue
				}
				if img, ok := tmpl.ToolImage(prop); ok {
					c.add(Reference{Kind: KindProp, Key: key + ":" + prop, Path: img})
				} else {
					slog.Warn("小道具画像が定義されていません", "character", key, "prop", prop)
				}
			}
		}
	}
}

// collector は参照画像をパスの同一性で重複排除しながら順に集めます。
type collector struct {
	seen map[string]struct{}
	refs []Reference
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

func identity(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func (c *collector) has(p string) bool {
	_, ok := c.seen[identity(p)]
	return ok
}

func (c *collector) add(ref Reference) {
	id := identity(ref.Path)
	if _, ok := c.seen[id]; ok {
		return
	}
	c.seen[id] = struct{}{}
	c.refs = append(c.refs, ref)
}

// IndexedFileName は複数枚生成時のファイル名に連番を付けます。
// total が1以下なら fileName をそのまま返します。
// 例: "page.png", 2, 3 -> "page_2.png"
func IndexedFileName(fileName string, index, total int) (string, error) {
	if total <= 1 {
		return fileName, nil
	}
	return urlpath.GenerateIndexedPath(fileName, index)
}

// EnsurePNGName は拡張子を .png に揃えます。
func EnsurePNGName(fileName string) string {
	ext := filepath.Ext(fileName)
	if strings.EqualFold(ext, ".png") {
		return fileName
	}
	return strings.TrimSuffix(fileName, ext) + ".png"
}
