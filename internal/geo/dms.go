package geo

import (
	"fmt"
	"math"
)

// DMS 度分秒表記の座標成分
type DMS struct {
	Degrees    int
	Minutes    int
	Seconds    int
	Hemisphere string
}

// ToDMS 10進度をDMSに変換する。
// 秒は四捨五入するため、秒未満の精度は失われる（往復誤差は1秒角以内）。
func ToDMS(value float64, isLat bool) DMS {
	abs := math.Abs(value)
	deg := int(math.Floor(abs))
	minF := (abs - float64(deg)) * 60
	min := int(math.Floor(minF))
	sec := int(math.Round((minF - float64(min)) * 60))

	// 四捨五入で秒が60になったら分・度へ繰り上げる
	if sec >= 60 {
		sec -= 60
		min++
	}
	if min >= 60 {
		min -= 60
		deg++
	}

	var hemi string
	if isLat {
		hemi = "N"
		if value < 0 {
			hemi = "S"
		}
	} else {
		hemi = "E"
		if value < 0 {
			hemi = "W"
		}
	}

	return DMS{Degrees: deg, Minutes: min, Seconds: sec, Hemisphere: hemi}
}

// Decimal DMSを10進度へ戻す
func (d DMS) Decimal() float64 {
	v := float64(d.Degrees) + float64(d.Minutes)/60 + float64(d.Seconds)/3600
	if d.Hemisphere == "S" || d.Hemisphere == "W" {
		v = -v
	}
	return v
}

// String `7°12'34"S` の形式で整形
func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%d\"%s", d.Degrees, d.Minutes, d.Seconds, d.Hemisphere)
}
