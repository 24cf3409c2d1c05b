package geo

import "math"

// Heuristics 座標が「実際の測位結果らしい」かどうかの判定しきい値。
// 経験的なフィルタであって原理的なルールではないため、設定で上書きできる。
type Heuristics struct {
	// MaxPlausibleLat これを超える緯度は誤検出として弾く
	MaxPlausibleLat float64
	// NearIntegerEps 緯度経度が両方ともほぼ整数なら弾く
	NearIntegerEps float64
}

// DefaultHeuristics 既定のしきい値
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MaxPlausibleLat: 85.0,
		NearIntegerEps:  1e-6,
	}
}

// LooksLikeRealFix 座標が実際の測位結果らしいかを判定
func LooksLikeRealFix(p Point, h Heuristics) bool {
	if p.Validate() != nil {
		return false
	}
	if math.Abs(p.Lat) > h.MaxPlausibleLat {
		return false
	}
	latFrac := math.Abs(p.Lat - math.Round(p.Lat))
	lonFrac := math.Abs(p.Lon - math.Round(p.Lon))
	if latFrac < h.NearIntegerEps && lonFrac < h.NearIntegerEps {
		return false
	}
	return true
}
