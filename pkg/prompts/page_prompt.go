package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-manga-script/pkg/domain"
)

const (
	pageHeader = "Generate a complete manga page following these specifications:"

	fallbackPagePosition = "middle"
	fallbackCharPosition = "center"
	fallbackCameraAngle  = "medium shot"
	fallbackLanguage     = "Japanese"
	fallbackAspectRatio  = "1:1.4"
	fallbackWritingMode  = "vertical-rl"
)

// sanitizeInline は改行を空白に畳み、1行のテキストに正規化します。
func sanitizeInline(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

// formatDialogue はダイアログの正規化のみを行います。
func formatDialogue(s string) string {
	s = sanitizeInline(s)
	// セリフは引用符で囲んで出力するため、内側のダブルクォートはシングルクォートにします
	return strings.ReplaceAll(s, "\"", "'")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// BuildPagePrompt はページ仕様を画像生成モデル向けの単一の指示文に変換します。
// セクションの順序と書式は固定で、同じ入力からは常に同じ文字列が得られます。
func BuildPagePrompt(doc *domain.PageDocument) string {
	if doc == nil {
		return ""
	}

	var w strings.Builder
	w.WriteString(pageHeader)
	w.WriteString("\n\n")

	writeLayoutConstraints(&w, doc)
	writeStyleSpecifications(&w, doc)
	writeInstructions(&w, doc)
	writeCharacterDesigns(&w, doc)
	writePanelDetails(&w, doc)
	writeClosingDirectives(&w, doc)

	return w.String()
}

func writeLayoutConstraints(w *strings.Builder, doc *domain.PageDocument) {
	w.WriteString("=== LAYOUT CONSTRAINTS ===\n")
	w.WriteString(strings.TrimSpace(doc.LayoutConstraints))
	w.WriteString("\n\n")
}

func writeStyleSpecifications(w *strings.Builder, doc *domain.PageDocument) {
	w.WriteString("=== STYLE SPECIFICATIONS ===\n")
	fmt.Fprintf(w, "- Language: %s\n", orDefault(doc.Language, fallbackLanguage))
	fmt.Fprintf(w, "- Art style: %s\n", sanitizeInline(doc.Style))
	fmt.Fprintf(w, "- Color mode: %s\n", sanitizeInline(doc.ColorMode))
	fmt.Fprintf(w, "- Aspect ratio: %s\n", orDefault(doc.AspectRatio, fallbackAspectRatio))
	fmt.Fprintf(w, "- Writing mode: %s\n\n", orDefault(doc.WritingMode, fallbackWritingMode))
}

func writeInstructions(w *strings.Builder, doc *domain.PageDocument) {
	w.WriteString("=== INSTRUCTIONS ===\n")
	w.WriteString(strings.TrimSpace(doc.Instructions))
	w.WriteString("\n\n")
}

func writeCharacterDesigns(w *strings.Builder, doc *domain.PageDocument) {
	w.WriteString("=== CHARACTER DESIGNS ===\n")
	designs := make([]string, 0, len(doc.Characters))
	for _, c := range doc.Characters {
		designs = append(designs, fmt.Sprintf("Character: %s\n%s", c.Name, strings.TrimSpace(c.BasePrompt)))
	}
	w.WriteString(strings.Join(designs, "\n\n"))
	w.WriteString("\n\n")
}

func writePanelDetails(w *strings.Builder, doc *domain.PageDocument) {
	w.WriteString("=== PANEL DETAILS ===\n")
	for _, p := range doc.Panels {
		fmt.Fprintf(w, "\nPanel %d (位置: %s):\n", p.Number, orDefault(p.PagePosition, fallbackPagePosition))
		fmt.Fprintf(w, "  Background: %s\n", sanitizeInline(p.Background))
		fmt.Fprintf(w, "  Scene description: %s\n", sanitizeInline(p.Description))
		w.WriteString("  Characters:\n")
		for _, c := range p.Characters {
			dialogue := ""
			if line, ok := c.Dialogue(); ok {
				dialogue = line.Text
			}
			fmt.Fprintf(w, "  - Character: %s\n", c.Name)
			fmt.Fprintf(w, "    Position: %s\n", orDefault(c.PanelPosition, fallbackCharPosition))
			fmt.Fprintf(w, "    Emotion: %s\n", sanitizeInline(c.Emotion))
			fmt.Fprintf(w, "    Facing: %s\n", c.Facing)
			fmt.Fprintf(w, "    Shot type: %s\n", c.Shot)
			fmt.Fprintf(w, "    Pose: %s\n", sanitizeInline(c.Pose))
			fmt.Fprintf(w, "    Dialogue: \"%s\"\n", formatDialogue(dialogue))
		}
		for _, m := range p.Monologues {
			fmt.Fprintf(w, "  Monologue: \"%s\"\n", formatDialogue(m))
		}
		if len(p.Effects) > 0 {
			fmt.Fprintf(w, "  Effects: %s\n", sanitizeInline(strings.Join(p.Effects, ", ")))
		}
		fmt.Fprintf(w, "  Camera angle: %s\n", orDefault(p.CameraAngle, fallbackCameraAngle))
	}
	w.WriteString("\n")
}

func writeClosingDirectives(w *strings.Builder, doc *domain.PageDocument) {
	w.WriteString("IMPORTANT:\n")
	w.WriteString("- Use the attached character reference images to maintain consistent character designs\n")
	w.WriteString("- Follow the layout constraints strictly\n")
	fmt.Fprintf(w, "- Include speech bubbles with the specified dialogue in %s\n", orDefault(doc.Language, fallbackLanguage))
	fmt.Fprintf(w, "- Maintain the aspect ratio of %s (width:height)\n", orDefault(doc.AspectRatio, fallbackAspectRatio))
	w.WriteString("- Generate the complete page as a single image with all panels\n")
}
