package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"geostamp_discord_bot/internal/geo"
)

func maxCharsForMap(mapW int) int {
	availW := float64(PanelWidth - mapW - 2*Padding)
	return int(availW / (BaseFontSize * CharWidthRatio))
}

func TestLayoutAddressSingleLine(t *testing.T) {
	mapW := 260
	maxChars := maxCharsForMap(mapW)

	addr := strings.Repeat("a", maxChars)
	al := LayoutAddress(addr, PanelWidth, mapW)
	if len(al.Lines) != 1 {
		t.Fatalf("address of exactly maxChars (%d) should be 1 line, got %d", maxChars, len(al.Lines))
	}
	if al.FontSize < BaseFontSize || al.FontSize > MaxFontSize {
		t.Errorf("font size %v outside [%v, %v]", al.FontSize, BaseFontSize, MaxFontSize)
	}
}

func TestLayoutAddressShortUpscales(t *testing.T) {
	al := LayoutAddress("Jl. Tunjungan", PanelWidth, 260)
	if len(al.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(al.Lines))
	}
	if al.FontSize <= BaseFontSize {
		t.Errorf("short address should upscale, font = %v", al.FontSize)
	}
	if al.FontSize > MaxFontSize {
		t.Errorf("font %v exceeds max %v", al.FontSize, MaxFontSize)
	}
}

func TestLayoutAddressTwoLines(t *testing.T) {
	mapW := 260
	maxChars := maxCharsForMap(mapW)

	// 上限を1文字超える住所（中央付近にスペースあり）は2行になる
	half := (maxChars + 1) / 2
	addr := strings.Repeat("a", half) + " " + strings.Repeat("b", maxChars-half)
	if len(addr) <= maxChars {
		addr += "bb"
	}
	al := LayoutAddress(addr, PanelWidth, mapW)
	if len(al.Lines) != 2 {
		t.Fatalf("expected 2 lines for len=%d (max %d), got %d", len(addr), maxChars, len(al.Lines))
	}
	if al.FontSize > BaseFontSize {
		t.Errorf("2-line layout must not upscale, font = %v", al.FontSize)
	}
}

func TestSplitNearMidpoint(t *testing.T) {
	tests := []struct {
		name  string
		addr  string
		first string
	}{
		{
			"space at midpoint",
			"Jalan Tunjungan Nomor 1 Genteng Surabaya Jawa Timur Indonesia 60275",
			"Jalan Tunjungan Nomor 1 Genteng",
		},
		{
			"comma stays on first line",
			"Jalan Tunjungan Nomor 1, Genteng, Surabaya, Jawa Timur, Indonesia",
			"Jalan Tunjungan Nomor 1, Genteng,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, second := splitNearMidpoint([]rune(tt.addr), 60)
			if first != tt.first {
				t.Errorf("first line = %q, want %q", first, tt.first)
			}
			if second == "" {
				t.Error("second line is empty")
			}
			// 分割点は中央±SplitWindowの範囲
			mid := len(tt.addr) / 2
			if d := len(first) - mid; d > SplitWindow+1 || d < -(SplitWindow+1) {
				t.Errorf("split point %d too far from midpoint %d", len(first), mid)
			}
		})
	}
}

func TestSplitNearMidpointHardSplit(t *testing.T) {
	addr := strings.Repeat("x", 100)
	first, second := splitNearMidpoint([]rune(addr), 60)
	if len(first) != 60 {
		t.Errorf("hard split first line length = %d, want 60", len(first))
	}
	if first+second != addr {
		t.Error("hard split lost characters")
	}
}

func TestLayoutAddressCJKSingleLine(t *testing.T) {
	// 19文字（57バイト）の日本語住所。文字数で数えれば1行に収まる
	addr := "東京都千代田区丸の内一丁目東京駅前広場"
	al := LayoutAddress(addr, PanelWidth, 260)
	if len(al.Lines) != 1 {
		t.Fatalf("19-rune address should be 1 line, got %d: %q", len(al.Lines), al.Lines)
	}
	if al.FontSize < BaseFontSize {
		t.Errorf("font size %v below base", al.FontSize)
	}
}

func TestSplitNearMidpointCJKHardSplit(t *testing.T) {
	// 区切りのない65文字のCJK住所。強制分割しても文字を壊さないこと
	addr := strings.Repeat("東京都千代田区丸の内一丁目", 5)
	runes := []rune(addr)
	first, second := splitNearMidpoint(runes, 45)
	if !utf8.ValidString(first) || !utf8.ValidString(second) {
		t.Fatalf("hard split produced invalid UTF-8: %q / %q", first, second)
	}
	if utf8.RuneCountInString(first) != 45 {
		t.Errorf("first line rune count = %d, want 45", utf8.RuneCountInString(first))
	}
	if first+second != addr {
		t.Error("hard split lost characters")
	}

	al := LayoutAddress(addr, PanelWidth, 260)
	for i, line := range al.Lines {
		if !utf8.ValidString(line) {
			t.Errorf("line %d is invalid UTF-8: %q", i, line)
		}
	}
}

func TestComputePanelNeverClipsMap(t *testing.T) {
	tests := []struct {
		name string
		addr string
		mapW int
		mapH int
	}{
		{"short address", "Surabaya", 260, 260},
		{"long address", strings.Repeat("Jalan Panjang Sekali ", 6), 260, 260},
		{"tall map", "Surabaya", 260, 600},
		{"short map", "Surabaya", 260, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := LayoutAddress(tt.addr, PanelWidth, tt.mapW)
			spec := ComputePanel(al, tt.mapW, tt.mapH)

			if spec.H < tt.mapH {
				t.Errorf("panel height %d < map height %d", spec.H, tt.mapH)
			}
			if spec.W != PanelWidth {
				t.Errorf("panel width = %d", spec.W)
			}
			// 3領域は縦に積まれ、重ならない
			if spec.Address.Max.Y != spec.Table.Min.Y {
				t.Errorf("address %v and table %v not adjacent", spec.Address, spec.Table)
			}
			if spec.Table.Max.Y != spec.Datetime.Min.Y {
				t.Errorf("table %v and datetime %v not adjacent", spec.Table, spec.Datetime)
			}
			if got := spec.Datetime.Dy(); got != DatetimeHeight {
				t.Errorf("datetime height = %d, want %d", got, DatetimeHeight)
			}
			if spec.Table.Dy() < MinTableHeight {
				t.Errorf("table height = %d, below minimum", spec.Table.Dy())
			}
		})
	}
}

func TestTableCells(t *testing.T) {
	al := LayoutAddress("Surabaya", PanelWidth, 260)
	spec := ComputePanel(al, 260, 260)
	cells := TableCells(spec.Table, geo.Point{Lat: -7.2, Lon: 112.7})

	if len(cells) != 9 {
		t.Fatalf("expected 9 cells, got %d", len(cells))
	}
	if cells[1].Text != "Decimal" || cells[2].Text != "DMS" {
		t.Errorf("header row = %q, %q", cells[1].Text, cells[2].Text)
	}
	if cells[3].Text != "Latitude" || cells[6].Text != "Longitude" {
		t.Errorf("row labels = %q, %q", cells[3].Text, cells[6].Text)
	}
	if cells[4].Text != "-7.200000" {
		t.Errorf("decimal latitude cell = %q", cells[4].Text)
	}
	if cells[8].Text != `112°42'0"E` {
		t.Errorf("DMS longitude cell = %q", cells[8].Text)
	}
	for i, c := range cells {
		if !c.Rect.In(spec.Table) {
			t.Errorf("cell %d rect %v outside table %v", i, c.Rect, spec.Table)
		}
	}
}
