package compiler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-manga-script/pkg/director"
	"github.com/shouni/go-manga-script/pkg/domain"
	"github.com/shouni/go-manga-script/pkg/templates"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultLayoutPattern はストーリーがレイアウトを指定しない場合のパターンIDです。
	DefaultLayoutPattern = "pattern_3panel"
	// DefaultEmotion はシーンに感情ラベルが無い場合のラベルです。
	DefaultEmotion = "通常"
	// DefaultBackground はシーンに背景が無い場合の背景です。
	DefaultBackground = "シンプルな背景"

	// Language はセリフを描く言語です。
	Language = "Japanese"
	// Style は画風の指定です。
	Style = "japanese manga, chibi/deformed style"
	// WritingMode はセリフの組み方向です。
	WritingMode = "vertical-rl"
	// ColorMode は彩色の指定です。
	ColorMode = "カラー"
	// AspectRatio はプロンプトで指示するページの縦横比です。
	AspectRatio = "1:1.4"

	// Instructions はページ仕様の先頭に置く生成指示です。
	Instructions = "このYAMLは漫画ページの仕様です。添付の画像データ（キャラクター等、コマ割り画像）がある場合は、" +
		"それらを外見の基準として忠実に反映し、このプロンプトの指示に従ってページを生成してください。"
)

// Compiler は簡易ストーリーを完全なページ仕様に展開します。
type Compiler struct {
	store templates.Store
}

// New は Compiler を生成します。
func New(store templates.Store) *Compiler {
	return &Compiler{store: store}
}

// Validate はストーリーの構造を検証します。
func Validate(story *domain.Story) error {
	if story == nil || len(story.Scenes) == 0 {
		return domain.ErrNoScenes
	}
	for i := range story.Scenes {
		s := &story.Scenes[i]
		err := validation.ValidateStruct(s,
			validation.Field(&s.Character, validation.Required, validation.By(notBlank)),
		)
		if err != nil {
			return fmt.Errorf("シーン %d が不正です: %w", i+1, err)
		}
	}
	return nil
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}

// Compile はストーリーを検証し、パネル番号、視線、ショット、吹き出し位置を補完したページ仕様を返します。
// 同じ入力と同じテンプレートからは常に同じ結果が得られます。
func (c *Compiler) Compile(story *domain.Story) (*domain.PageDocument, error) {
	if err := Validate(story); err != nil {
		return nil, err
	}

	patternID := story.LayoutPattern
	if strings.TrimSpace(patternID) == "" {
		patternID = DefaultLayoutPattern
	}
	pattern, ok := c.store.Layout(patternID)
	if !ok {
		return nil, fmt.Errorf("レイアウトパターン '%s' が見つかりません: %w", patternID, domain.ErrLayoutNotFound)
	}

	doc := &domain.PageDocument{
		Language:             Language,
		Style:                Style,
		WritingMode:          WritingMode,
		ColorMode:            ColorMode,
		AspectRatio:          AspectRatio,
		Instructions:         Instructions,
		LayoutPattern:        patternID,
		LayoutConstraints:    pattern.LayoutConstraints,
		LayoutReferenceImage: pattern.ReferenceImage,
		Panels:               make([]domain.PanelSpec, 0, len(story.Scenes)),
	}

	for i, scene := range story.Scenes {
		doc.Panels = append(doc.Panels, c.buildPanel(i+1, scene, pattern))
	}

	for _, name := range domain.Panels(doc.Panels).UniqueCharacterNames() {
		tmpl, ok := c.store.Character(name)
		if !ok {
			slog.Warn("キャラクター定義が見つからないため、外見情報なしで続行します", "character", name)
			continue
		}
		doc.Characters = append(doc.Characters, tmpl)
	}

	slog.Info("ストーリーを展開しました",
		"layout", patternID,
		"panels", len(doc.Panels),
		"characters", len(doc.Characters))
	return doc, nil
}

func (c *Compiler) buildPanel(number int, scene domain.SceneDescriptor, pattern domain.LayoutPattern) domain.PanelSpec {
	emotion := strings.TrimSpace(scene.Emotion)
	if emotion == "" {
		emotion = DefaultEmotion
	}
	background := strings.TrimSpace(scene.Background)
	if background == "" {
		background = DefaultBackground
	}

	name := strings.TrimSpace(scene.Character)
	tmpl, found := c.store.Character(name)
	if found {
		name = tmpl.Name
	}

	facing := director.FacingFor(number)
	appearance := domain.CharacterAppearance{
		Name:          name,
		PanelPosition: director.DefaultCharacterPosition,
		Emotion:       director.EmotionPrompt(tmpl, found, name, emotion),
		EmotionLabel:  emotion,
		Facing:        facing,
		Shot:          director.ShotTypeFor(scene.Description),
		Pose:          scene.Description,
		Description:   scene.Description,
		Props:         scene.Props,
		Lines:         []domain.DialogueLine{},
	}
	if text := strings.TrimSpace(scene.Dialogue); text != "" {
		appearance.Lines = append(appearance.Lines, domain.DialogueLine{
			Text:             text,
			CharTextPosition: director.BubbleSideFor(facing),
			Type:             director.DialogueTypeSpeech,
		})
	}

	return domain.PanelSpec{
		Number:       number,
		PagePosition: director.PanelPosition(pattern, number),
		Background:   background,
		Description:  scene.Description,
		Characters:   []domain.CharacterAppearance{appearance},
		Effects:      []string{},
		Monologues:   []string{},
		CameraAngle:  director.DefaultCameraAngle,
	}
}
