package director

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shouni/go-manga-script/pkg/domain"
)

const (
	// ShotFullBody は立ち姿や座り姿など全身を写すショットです。
	ShotFullBody = "全身"
	// ShotCloseUp は顔や表情に寄るショットです。
	ShotCloseUp = "顔のクローズアップ"
	// ShotBustUp はどのキーワードにも該当しない場合の既定のショットです。
	ShotBustUp = "バストアップ"

	// DefaultEmotionPrompt はどの表にも該当しない感情の表現です。
	DefaultEmotionPrompt = "neutral expression"
)

// shotRule は上から順に評価され、最初に一致したものが採用されます。
type shotRule struct {
	shot     string
	keywords []string
}

var shotRules = []shotRule{
	{ShotFullBody, []string{"全身", "立っている", "座っている", "full body", "standing", "sitting"}},
	{ShotCloseUp, []string{"顔", "表情", "クローズアップ", "close-up", "face", "expression"}},
}

// ShotTypeFor は場面の説明文からショットの種類を推測します。
// 英語のキーワードは単語単位で、日本語のキーワードは部分一致で照合します。大文字小文字は区別します。
func ShotTypeFor(description string) string {
	for _, rule := range shotRules {
		for _, kw := range rule.keywords {
			if matchKeyword(description, kw) {
				return rule.shot
			}
		}
	}
	return ShotBustUp
}

func matchKeyword(description, kw string) bool {
	if !isASCII(kw) {
		return strings.Contains(description, kw)
	}
	return containsWord(description, kw)
}

// containsWord は kw の前後が英数字でない位置に現れるかを調べます。
func containsWord(s, kw string) bool {
	for offset := 0; offset <= len(s)-len(kw); {
		i := strings.Index(s[offset:], kw)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(kw)
		if !wordRuneBefore(s, start) && !wordRuneAfter(s, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

// isWordRune は英単語の一部とみなす文字です。日本語の文字は区切りとして扱います。
func isWordRune(r rune) bool {
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// builtinEmotions は既定のキャスト向けの感情表現テーブルです。キーは正規化済みのキャラクター名です。
var builtinEmotions = map[string]map[string]string{
	"TEN": {
		"通常": "neutral, calm expression",
		"悩み": "troubled, thinking hard, hand on chin",
		"驚き": "surprised, eyes wide, mouth open",
		"喜び": "happy, smiling brightly, excited",
		"決意": "determined, confident, fist clenched",
		"説明": "explaining, pointing, gesturing",
	},
	"CLAUDECODE": {
		"通常":  "neutral, standing ready",
		"提案":  "suggesting, one finger raised, helpful gesture",
		"作業中": "working, focused, typing gesture",
		"発見":  "excited discovery, both hands raised",
		"承認":  "thumbs up, approving gesture",
		"説明":  "explaining, gesturing, helpful pose",
	},
}

// EmotionPrompt は感情ラベルを画像モデル向けの英語表現に変換します。
// テンプレートの prompt 指定、組み込みテーブル、既定値の順に探します。
func EmotionPrompt(tmpl domain.CharacterTemplate, found bool, name, label string) string {
	if found {
		if e, ok := tmpl.Emotions[label]; ok && strings.TrimSpace(e.Prompt) != "" {
			return e.Prompt
		}
	}
	if table, ok := builtinEmotions[domain.NormalizeCharacterKey(name)]; ok {
		if p, ok := table[label]; ok {
			return p
		}
	}
	return DefaultEmotionPrompt
}
