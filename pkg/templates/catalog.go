package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-manga-script/pkg/domain"

	"gopkg.in/yaml.v3"
)

const (
	// CharacterTemplatesFile はキャラクター定義ファイルの既定名です。
	CharacterTemplatesFile = "character_templates.yaml"
	// LayoutPatternsFile はコマ割りパターン定義ファイルの既定名です。
	LayoutPatternsFile = "layout_patterns.yaml"
)

// Store はキャラクターとレイアウトの読み取り専用の参照先です。
// 見つからない場合はエラーではなく ok=false を返します。
type Store interface {
	Character(name string) (domain.CharacterTemplate, bool)
	Layout(id string) (domain.LayoutPattern, bool)
}

// Catalog は YAML から構築される Store の実装です。
// 構築後は変更されないため、複数のゴルーチンから安全に参照できます。
type Catalog struct {
	characters domain.CharacterSet
	layouts    map[string]domain.LayoutPattern
}

// characterFile は character_templates.yaml のルート構造です。
type characterFile struct {
	CharacterInfos characterList `yaml:"character_infos"`
}

// characterList はリスト形式と「名前 → 定義」のマップ形式の両方を受け付けます。
type characterList []domain.CharacterTemplate

func (l *characterList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []domain.CharacterTemplate
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
	case yaml.MappingNode:
		items := make([]domain.CharacterTemplate, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var c domain.CharacterTemplate
			if err := node.Content[i+1].Decode(&c); err != nil {
				return fmt.Errorf("キャラクター '%s' の定義が不正です: %w", node.Content[i].Value, err)
			}
			if c.Name == "" {
				c.Name = node.Content[i].Value
			}
			items = append(items, c)
		}
		*l = items
	default:
		return fmt.Errorf("character_infos はリストかマップである必要があります (line %d)", node.Line)
	}
	return nil
}

// Parse はキャラクター定義とレイアウト定義の YAML バイト列から Catalog を構築します。
// baseDir が空でなければ、相対パスの reference_image をその配下のパスに解決します。
func Parse(charYAML, layoutYAML []byte, baseDir string) (*Catalog, error) {
	c := &Catalog{
		characters: domain.CharacterSet{},
		layouts:    make(map[string]domain.LayoutPattern),
	}

	if len(charYAML) > 0 {
		var f characterFile
		if err := yaml.Unmarshal(charYAML, &f); err != nil {
			return nil, fmt.Errorf("キャラクター定義のYAMLパースに失敗しました: %w", err)
		}
		for _, tmpl := range f.CharacterInfos {
			if tmpl.Key() == "" {
				slog.Warn("名前のないキャラクター定義をスキップします")
				continue
			}
			c.characters.Add(resolveCharacterPaths(tmpl, baseDir))
		}
	}

	if len(layoutYAML) > 0 {
		var layouts map[string]domain.LayoutPattern
		if err := yaml.Unmarshal(layoutYAML, &layouts); err != nil {
			return nil, fmt.Errorf("レイアウト定義のYAMLパースに失敗しました: %w", err)
		}
		for id, l := range layouts {
			l.ID = id
			l.ReferenceImage = resolvePath(l.ReferenceImage, baseDir)
			c.layouts[id] = l
		}
	}

	return c, nil
}

// LoadDir はディレクトリから2つの定義ファイルを読み込みます。
// ファイルが存在しない場合は警告を出して空のまま続行し、壊れたファイルはエラーにします。
func LoadDir(dir string) (*Catalog, error) {
	charYAML, err := readOptional(filepath.Join(dir, CharacterTemplatesFile))
	if err != nil {
		return nil, err
	}
	layoutYAML, err := readOptional(filepath.Join(dir, LayoutPatternsFile))
	if err != nil {
		return nil, err
	}

	c, err := Parse(charYAML, layoutYAML, dir)
	if err != nil {
		return nil, fmt.Errorf("テンプレートディレクトリ '%s' の読み込みに失敗しました: %w", dir, err)
	}

	slog.Info("テンプレートを読み込みました",
		"dir", dir,
		"characters", c.characters.Keys(),
		"layouts", len(c.layouts))
	return c, nil
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("テンプレートファイルが見つかりません", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("テンプレートファイルの読み込みに失敗しました: %w", err)
	}
	return data, nil
}

// Character は正規化キーでキャラクター定義を引きます。戻り値はコピーです。
func (c *Catalog) Character(name string) (domain.CharacterTemplate, bool) {
	return c.characters.Find(name)
}

// Layout はパターンIDでレイアウトを引きます。戻り値はコピーです。
func (c *Catalog) Layout(id string) (domain.LayoutPattern, bool) {
	l, ok := c.layouts[id]
	if !ok {
		return domain.LayoutPattern{}, false
	}
	return l.Clone(), true
}

func resolveCharacterPaths(c domain.CharacterTemplate, baseDir string) domain.CharacterTemplate {
	c = c.Clone()
	for label, e := range c.Emotions {
		e.ReferenceImage = resolvePath(e.ReferenceImage, baseDir)
		c.Emotions[label] = e
	}
	for label, t := range c.Tools {
		t.ReferenceImage = resolvePath(t.ReferenceImage, baseDir)
		c.Tools[label] = t
	}
	return c
}

func resolvePath(p, baseDir string) string {
	if p == "" || baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
