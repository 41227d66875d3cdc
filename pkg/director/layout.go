package director

import (
	"github.com/shouni/go-manga-script/pkg/domain"
)

const (
	// FacingRight は奇数パネルのキャラクターの向きです。
	FacingRight = "右"
	// FacingLeft は偶数パネルのキャラクターの向きです。
	FacingLeft = "左"

	// BubbleRight / BubbleLeft は吹き出しをキャラクターのどちら側に置くかを表します。
	BubbleRight = "right"
	BubbleLeft  = "left"

	// DialogueTypeSpeech は通常のセリフの吹き出し種別です。
	DialogueTypeSpeech = "speech"

	// DefaultPagePosition はレイアウトに位置ラベルが無いパネルに使う値です。
	DefaultPagePosition = "middle"
	// DefaultCharacterPosition はパネル内でのキャラクターの配置です。
	DefaultCharacterPosition = "center"
	// DefaultCameraAngle は全パネル共通のカメラアングルです。
	DefaultCameraAngle = "medium shot"
)

// FacingFor は 1 始まりのパネル番号から視線の向きを返します。
// 奇数と偶数で向きを交互にして、会話のキャッチボールに見せます。
func FacingFor(panelNumber int) string {
	if panelNumber%2 == 1 {
		return FacingRight
	}
	return FacingLeft
}

// BubbleSideFor は視線と反対側に吹き出しを置くための位置を返します。
func BubbleSideFor(facing string) string {
	if facing == FacingLeft {
		return BubbleRight
	}
	return BubbleLeft
}

// PanelPosition はレイアウトからパネルのページ上の位置ラベルを返します。
func PanelPosition(pattern domain.LayoutPattern, panelNumber int) string {
	if label, ok := pattern.Position(panelNumber); ok {
		return label
	}
	return DefaultPagePosition
}
