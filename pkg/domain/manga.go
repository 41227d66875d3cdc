package domain

// Story は作者が書く簡易ストーリー全体の構造です。
type Story struct {
	Title         string            `yaml:"title,omitempty"`
	LayoutPattern string            `yaml:"layout_pattern,omitempty"`
	Scenes        []SceneDescriptor `yaml:"scenes"`
}

// SceneDescriptor は1つの場面（1コマ）の簡潔な記述です。並び順がパネル番号と視線の交互配置を決めます。
type SceneDescriptor struct {
	Character   string   `yaml:"character"`
	Emotion     string   `yaml:"emotion,omitempty"`
	Dialogue    string   `yaml:"dialogue,omitempty"`
	Background  string   `yaml:"background,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Props       []string `yaml:"props,omitempty"`
}

// DialogueLine は吹き出し1つ分のセリフです。
type DialogueLine struct {
	Text             string `yaml:"text"`
	CharTextPosition string `yaml:"char_text_position"`
	Type             string `yaml:"type"`
}

// CharacterAppearance はパネル内でのキャラクターの描写指示です。
type CharacterAppearance struct {
	Name          string         `yaml:"name"`
	PanelPosition string         `yaml:"panel_position"`
	Emotion       string         `yaml:"emotion"`
	EmotionLabel  string         `yaml:"emotion_label,omitempty"`
	Facing        string         `yaml:"facing"`
	Shot          string         `yaml:"shot"`
	Pose          string         `yaml:"pose"`
	Description   string         `yaml:"description"`
	Props         []string       `yaml:"props,omitempty"`
	Lines         []DialogueLine `yaml:"lines"`
}

// Dialogue は最初のセリフと、その吹き出し位置を返します。セリフがなければ ok は false です。
func (a CharacterAppearance) Dialogue() (line DialogueLine, ok bool) {
	if len(a.Lines) == 0 {
		return DialogueLine{}, false
	}
	return a.Lines[0], true
}

// PanelSpec はコンパイル済みの1コマです。
type PanelSpec struct {
	Number       int                   `yaml:"number"`
	PagePosition string                `yaml:"page_position"`
	Background   string                `yaml:"background"`
	Description  string                `yaml:"description"`
	Characters   []CharacterAppearance `yaml:"characters"`
	Effects      []string              `yaml:"effects"`
	Monologues   []string              `yaml:"monologues"`
	CameraAngle  string                `yaml:"camera_angle"`
}

// PageDocument はコンパイラが出力し、プロンプト組み立てに渡される1ページ分の完全な仕様です。
type PageDocument struct {
	Language             string              `yaml:"language"`
	Style                string              `yaml:"style"`
	WritingMode          string              `yaml:"writing-mode"`
	ColorMode            string              `yaml:"color_mode"`
	AspectRatio          string              `yaml:"aspect_ratio"`
	Instructions         string              `yaml:"instructions"`
	LayoutPattern        string              `yaml:"layout_pattern,omitempty"`
	LayoutConstraints    string              `yaml:"layout_constraints"`
	LayoutReferenceImage string              `yaml:"layout_reference_image,omitempty"`
	Characters           []CharacterTemplate `yaml:"character_infos"`
	Panels               []PanelSpec         `yaml:"panels"`
}

// ComicPageFile はページ仕様をファイルに保存する際のルート構造です。
type ComicPageFile struct {
	ComicPage *PageDocument `yaml:"comic_page"`
}
