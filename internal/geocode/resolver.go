package geocode

import (
	"context"
	"errors"

	"geostamp_discord_bot/internal/geo"
)

// ErrNotFound ジオコーディングで住所が解決できなかったことを示す
var ErrNotFound = errors.New("geocode: not found")

// Resolver 住所と座標を相互変換する。
// ReverseGeocode は外向きには失敗しない。外部サービスが落ちている場合は
// 座標から組み立てたフォールバック文字列を返す。
type Resolver interface {
	Geocode(ctx context.Context, query string) (geo.Point, error)
	ReverseGeocode(ctx context.Context, p geo.Point) string
}
