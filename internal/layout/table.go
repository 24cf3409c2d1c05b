package layout

import (
	"fmt"
	"image"

	"geostamp_discord_bot/internal/geo"
)

// 3×3テーブルの列幅の割合（ラベル / Decimal / DMS）
var tableColFractions = [3]float64{0.24, 0.38, 0.38}

// TableCell 座標テーブルの1セル
type TableCell struct {
	Rect   image.Rectangle
	Text   string
	Header bool
}

// TableCells 座標テーブルのセル矩形とテキストを行優先で返す。
// 1行目はヘッダー (空/Decimal/DMS)、2行目は緯度、3行目は経度。
func TableCells(table image.Rectangle, p geo.Point) []TableCell {
	texts := [3][3]string{
		{"", "Decimal", "DMS"},
		{"Latitude", fmt.Sprintf("%.6f", p.Lat), geo.ToDMS(p.Lat, true).String()},
		{"Longitude", fmt.Sprintf("%.6f", p.Lon), geo.ToDMS(p.Lon, false).String()},
	}

	w := float64(table.Dx())
	rowH := table.Dy() / 3

	cells := make([]TableCell, 0, 9)
	for row := 0; row < 3; row++ {
		x := float64(table.Min.X)
		y0 := table.Min.Y + row*rowH
		y1 := y0 + rowH
		if row == 2 {
			y1 = table.Max.Y
		}
		for col := 0; col < 3; col++ {
			colW := w * tableColFractions[col]
			cells = append(cells, TableCell{
				Rect:   image.Rect(int(x), y0, int(x+colW), y1),
				Text:   texts[row][col],
				Header: row == 0,
			})
			x += colW
		}
	}
	return cells
}
