package mapimg

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const placeholderLabel = "map unavailable"

// Placeholder 地図が取得できないときに使う同寸法の代替画像を生成する。
// 合成側はこれを通常の地図ラスタと区別しない。
func Placeholder(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{0xE8, 0xE8, 0xE8, 0xFF}}, image.Point{}, draw.Src)

	// 枠線
	border := color.RGBA{0xB0, 0xB0, 0xB0, 0xFF}
	for x := 0; x < width; x++ {
		img.Set(x, 0, border)
		img.Set(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.Set(0, y, border)
		img.Set(width-1, y, border)
	}

	face := basicfont.Face7x13
	labelW := font.MeasureString(face, placeholderLabel).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x60, 0x60, 0x60, 0xFF}),
		Face: face,
		Dot:  fixed.P((width-labelW)/2, height/2),
	}
	d.DrawString(placeholderLabel)

	return img
}
