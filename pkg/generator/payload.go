package generator

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/shouni/gemini-image-kit/ports"
)

var (
	// ErrNoImagePayload は応答に画像データが含まれていなかったことを表します。
	ErrNoImagePayload = errors.New("no image payload in response")
	// ErrUndecodablePayload は画像データを復元できなかったことを表します。
	ErrUndecodablePayload = errors.New("image payload is neither image bytes nor base64")
)

// ImagePayload は応答から取り出した画像データです。
type ImagePayload struct {
	Data     []byte
	MimeType string
}

// ExtractImagePayload は画像生成キットの応答から画像データを取り出します。
// 応答が無いか、データが空の場合は ok が false になります。
func ExtractImagePayload(resp *ports.ImageResponse) (*ImagePayload, bool) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, false
	}
	return &ImagePayload{
		Data:     resp.Data,
		MimeType: strings.TrimSpace(resp.MimeType),
	}, true
}

// NormalizePayload は生の画像バイト列か base64 テキストのどちらかを受け取り、生のバイト列を返します。
func NormalizePayload(data []byte) ([]byte, error) {
	if isImage(data) {
		return data, nil
	}
	text := strings.TrimSpace(string(data))
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding} {
		decoded, err := enc.DecodeString(text)
		if err == nil && isImage(decoded) {
			return decoded, nil
		}
	}
	return nil, ErrUndecodablePayload
}

func isImage(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// DecodedImage は保存用に PNG に揃えた画像と、その寸法です。
type DecodedImage struct {
	PNG    []byte
	Width  int
	Height int
	Format string
}

// DecodeAsPNG は画像の寸法を読み取り、PNG 以外の形式であれば PNG に変換します。
func DecodeAsPNG(data []byte) (*DecodedImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像の寸法を読み取れませんでした: %w", err)
	}

	out := &DecodedImage{PNG: data, Width: cfg.Width, Height: cfg.Height, Format: format}
	if format == "png" {
		return out, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("PNGへの変換に失敗しました: %w", err)
	}
	out.PNG = buf.Bytes()
	return out, nil
}
