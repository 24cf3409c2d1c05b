package layout

import (
	"image"
	"strings"
	"unicode/utf8"
)

// パネルレイアウトの基準値。フォント計測はせず、平均文字幅の比率で見積もる。
const (
	// PanelWidth パネル全体の幅 (px)
	PanelWidth = 1000
	// Padding テキスト領域の内側余白
	Padding = 16
	// BaseFontSize 住所の基準フォントサイズ (pt)
	BaseFontSize = 28.0
	// MaxFontSize 1行に収まる場合の拡大上限
	MaxFontSize = 44.0
	// CharWidthRatio フォントサイズに対する平均文字幅の比率
	CharWidthRatio = 0.55
	// LineSpacing 行間 (px)
	LineSpacing = 8.0
	// SplitWindow 2行分割時に中央から探索する範囲（文字数）
	SplitWindow = 12
	// DatetimeHeight 日時フッターの固定高さ (px)
	DatetimeHeight = 52
	// MinTableHeight 座標テーブルの最低高さ (px)
	MinTableHeight = 140
)

// AddressLayout 住所テキストの行分割とフォントサイズの決定結果
type AddressLayout struct {
	Lines    []string
	FontSize float64
}

// LayoutAddress 住所テキストを1行または2行に割り付ける。
// 1行に収まる場合は余白に応じてフォントを拡大し、収まらない場合は
// 中央付近のスペースかカンマで2行に分割する。
func LayoutAddress(addr string, panelW, mapW int) AddressLayout {
	availW := float64(panelW - mapW - 2*Padding)
	charW := BaseFontSize * CharWidthRatio
	maxChars := int(availW / charW)
	if maxChars < 1 {
		maxChars = 1
	}

	addr = strings.TrimSpace(addr)
	if addr == "" {
		return AddressLayout{Lines: []string{""}, FontSize: BaseFontSize}
	}

	// 日本語住所が混ざるためバイト長ではなく文字数で数える
	runes := []rune(addr)
	if len(runes) <= maxChars {
		// 余った幅に比例して拡大（上限あり）
		scale := availW / (float64(len(runes)) * charW)
		fs := BaseFontSize * scale
		if fs > MaxFontSize {
			fs = MaxFontSize
		}
		if fs < BaseFontSize {
			fs = BaseFontSize
		}
		return AddressLayout{Lines: []string{addr}, FontSize: fs}
	}

	first, second := splitNearMidpoint(runes, maxChars)

	// 長い方の行が収まるサイズまで縮める。2行時の拡大はしない。
	longest := utf8.RuneCountInString(first)
	if n := utf8.RuneCountInString(second); n > longest {
		longest = n
	}
	fs := BaseFontSize
	if need := availW / (float64(longest) * CharWidthRatio); need < fs {
		fs = need
	}

	return AddressLayout{Lines: []string{first, second}, FontSize: fs}
}

// splitNearMidpoint 文字列の中央付近にあるスペースまたはカンマで分割する。
// 探索範囲内に区切りがなければ文字数の上限で強制分割する。
// インデックスはすべてルーン単位（強制分割で文字を壊さないため）。
func splitNearMidpoint(runes []rune, maxChars int) (string, string) {
	mid := len(runes) / 2

	best := -1
	for off := 0; off <= SplitWindow; off++ {
		for _, idx := range []int{mid - off, mid + off} {
			if idx <= 0 || idx >= len(runes)-1 {
				continue
			}
			switch runes[idx] {
			case ' ', ',':
				best = idx
			}
			if best >= 0 {
				break
			}
		}
		if best >= 0 {
			break
		}
	}

	if best < 0 {
		if maxChars >= len(runes) {
			maxChars = len(runes) - 1
		}
		return string(runes[:maxChars]), string(runes[maxChars:])
	}

	if runes[best] == ',' {
		// カンマは前の行に残す
		return strings.TrimSpace(string(runes[:best+1])), strings.TrimSpace(string(runes[best+1:]))
	}
	return strings.TrimSpace(string(runes[:best])), strings.TrimSpace(string(runes[best+1:]))
}

// PanelSpec パネル全体の領域分割
type PanelSpec struct {
	W, H     int
	Map      image.Rectangle
	Address  image.Rectangle
	Table    image.Rectangle
	Datetime image.Rectangle
	Addr     AddressLayout
}

// ComputePanel 地図サイズと住所レイアウトからパネル全体の寸法を計算する。
// パネル高さは常に地図の高さ以上になるため、地図が縦に切れることはない。
func ComputePanel(addr AddressLayout, mapW, mapH int) PanelSpec {
	addrH := len(addr.Lines)*int(addr.FontSize+LineSpacing) + 2*Padding

	tableH := mapH - addrH - DatetimeHeight
	if tableH < MinTableHeight {
		tableH = MinTableHeight
	}

	h := addrH + tableH + DatetimeHeight
	if h < mapH {
		h = mapH
	}

	textX := mapW
	return PanelSpec{
		W:        PanelWidth,
		H:        h,
		Map:      image.Rect(0, 0, mapW, mapH),
		Address:  image.Rect(textX, 0, PanelWidth, addrH),
		Table:    image.Rect(textX, addrH, PanelWidth, addrH+tableH),
		Datetime: image.Rect(textX, addrH+tableH, PanelWidth, addrH+tableH+DatetimeHeight),
		Addr:     addr,
	}
}
