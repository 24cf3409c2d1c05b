package render

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
)

const jpegQuality = 90

// Encode 合成結果を一般的な写真フォーマットにエンコードする。
// 基本はJPEG、失敗した場合のみPNGへ切り替える。
func Encode(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err == nil {
		return buf.Bytes(), "geostamp.jpg", nil
	}

	buf.Reset()
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "geostamp.png", nil
}
