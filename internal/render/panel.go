package render

import (
	"image"
	"time"

	"github.com/fogleman/gg"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/layout"
)

const (
	tableFontSize    = 20.0
	datetimeFontSize = 22.0
	cellPadding      = 10.0
)

// renderPanel レイアウト仕様に従って注釈パネルを描画する
func renderPanel(spec layout.PanelSpec, p geo.Point, mapImg image.Image, ts time.Time) image.Image {
	dc := gg.NewContext(spec.W, spec.H)

	// 背景
	dc.SetRGB255(255, 255, 255)
	dc.Clear()

	// 地図は左端にそのまま貼る。プレースホルダでも同じ扱い。
	dc.DrawImage(mapImg, spec.Map.Min.X, spec.Map.Min.Y)

	// 住所ブロック
	dc.SetRGB255(30, 30, 30)
	dc.SetFontFace(goFace(spec.Addr.FontSize))
	lineH := spec.Addr.FontSize + layout.LineSpacing
	textX := float64(spec.Address.Min.X + layout.Padding)
	for i, line := range spec.Addr.Lines {
		y := float64(spec.Address.Min.Y+layout.Padding) + float64(i)*lineH + lineH/2
		dc.DrawStringAnchored(line, textX, y, 0, 0.35)
	}

	drawTable(dc, spec.Table, p)
	drawDatetime(dc, spec.Datetime, ts)

	return dc.Image()
}

func drawTable(dc *gg.Context, table image.Rectangle, p geo.Point) {
	cells := layout.TableCells(table, p)

	// 罫線
	dc.SetRGB255(180, 180, 180)
	dc.SetLineWidth(1)
	for _, c := range cells {
		dc.DrawRectangle(float64(c.Rect.Min.X), float64(c.Rect.Min.Y),
			float64(c.Rect.Dx()), float64(c.Rect.Dy()))
	}
	dc.Stroke()

	dc.SetFontFace(goFace(tableFontSize))
	for _, c := range cells {
		if c.Header {
			dc.SetRGB255(90, 90, 90)
		} else {
			dc.SetRGB255(30, 30, 30)
		}
		cx := float64(c.Rect.Min.X) + cellPadding
		cy := float64(c.Rect.Min.Y) + float64(c.Rect.Dy())/2
		dc.DrawStringAnchored(c.Text, cx, cy, 0, 0.35)
	}
}

func drawDatetime(dc *gg.Context, region image.Rectangle, ts time.Time) {
	dc.SetRGB255(30, 30, 30)
	dc.SetFontFace(goFace(datetimeFontSize))
	x := float64(region.Min.X) + cellPadding
	y := float64(region.Min.Y) + float64(region.Dy())/2
	dc.DrawStringAnchored(ts.Format("2006-01-02 15:04"), x, y, 0, 0.35)
}
