package domain

// Panels は PanelSpec のスライスに対するヘルパーを提供します。
type Panels []PanelSpec

// UniqueCharacterNames はパネルに登場するキャラクター名を、初登場順かつ正規化キーで重複なく抽出します。
func (ps Panels) UniqueCharacterNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, panel := range ps {
		for _, c := range panel.Characters {
			key := NormalizeCharacterKey(c.Name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, c.Name)
		}
	}
	return names
}

// FindCharacter はページに含まれるキャラクター定義を正規化キーで探します。
func (d *PageDocument) FindCharacter(name string) (CharacterTemplate, bool) {
	if d == nil {
		return CharacterTemplate{}, false
	}
	key := NormalizeCharacterKey(name)
	for _, c := range d.Characters {
		if c.Key() == key {
			return c, true
		}
	}
	return CharacterTemplate{}, false
}
