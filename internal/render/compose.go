package render

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/nfnt/resize"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/layout"
)

// Compose 写真に注釈パネルを合成した1枚のラスタを返す。
// パネルは写真の幅に合わせて縦横比を保ったまま縮尺され、写真の下端に重ねる。
func Compose(photo image.Image, p geo.Point, address string, mapImg image.Image, ts time.Time) (out image.Image, err error) {
	// 描画中の内部パニックはエラーとして返し、呼び出し側で処理させる
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("panel composition panicked: %v", r)
		}
	}()

	if photo == nil {
		return nil, fmt.Errorf("nil photo")
	}
	if mapImg == nil {
		return nil, fmt.Errorf("nil map image")
	}

	mapB := mapImg.Bounds()
	al := layout.LayoutAddress(address, layout.PanelWidth, mapB.Dx())
	spec := layout.ComputePanel(al, mapB.Dx(), mapB.Dy())
	panel := renderPanel(spec, p, mapImg, ts)

	photoB := photo.Bounds()
	photoW := photoB.Dx()
	photoH := photoB.Dy()

	// パネルを写真幅に合わせる（高さは比率維持）
	scaled := resize.Resize(uint(photoW), 0, panel, resize.Lanczos3)
	if scaled.Bounds().Dy() > photoH {
		// 縦長・正方形の写真では幅基準だとパネルが写真からはみ出すので、
		// 高さ基準で縮め直して全体（テーブル・日時を含む）を見えるようにする
		scaled = resize.Resize(0, uint(photoH), panel, resize.Lanczos3)
	}
	sb := scaled.Bounds()

	result := image.NewRGBA(image.Rect(0, 0, photoW, photoH))
	draw.Draw(result, result.Bounds(), photo, photoB.Min, draw.Src)

	dst := image.Rect(0, photoH-sb.Dy(), sb.Dx(), photoH)
	draw.Draw(result, dst, scaled, sb.Min, draw.Over)

	return result, nil
}
