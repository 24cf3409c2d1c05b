package geo

import "fmt"

// Point 緯度経度の値型
type Point struct {
	Lat float64
	Lon float64
}

// Validate 座標が有効な範囲にあるか確認
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude out of range: %f", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude out of range: %f", p.Lon)
	}
	return nil
}

// String "lat, lon" 形式の文字列を返す
func (p Point) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lon)
}

// FallbackAddress ジオコーディング失敗時に使う座標ベースの住所文字列
func (p Point) FallbackAddress() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon)
}
