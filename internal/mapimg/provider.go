package mapimg

import (
	"context"
	"image"
	"image/color"
	"log"
	"time"

	sm "github.com/flopp/go-staticmaps"
	"github.com/golang/geo/s2"

	"geostamp_discord_bot/internal/geo"
)

// Provider 地点の静的地図ラスタを取得する。
// 実装は失敗してはならない。取得できない場合は同じ寸法のプレースホルダを返す。
type Provider interface {
	StaticMap(ctx context.Context, p geo.Point, width, height, zoom int) image.Image
}

// StaticMapsProvider flopp/go-staticmaps でOSMタイルから地図を描画する
type StaticMapsProvider struct {
	userAgent string
	timeout   time.Duration
}

// NewStaticMapsProvider 新しいプロバイダを作成
func NewStaticMapsProvider(userAgent string, timeout time.Duration) *StaticMapsProvider {
	return &StaticMapsProvider{userAgent: userAgent, timeout: timeout}
}

// StaticMap マーカー付きの地図を描画する。タイル取得の失敗やタイムアウト時は
// プレースホルダ画像を返すので、呼び出し側での分岐は不要。
func (sp *StaticMapsProvider) StaticMap(ctx context.Context, p geo.Point, width, height, zoom int) image.Image {
	type renderResult struct {
		img image.Image
		err error
	}
	resultCh := make(chan renderResult, 1)

	// go-staticmaps はコンテキストを受け取らないため、タイムアウトは
	// 描画ゴルーチンをselectで見限る形で実現する。
	go func() {
		smCtx := sm.NewContext()
		smCtx.SetUserAgent(sp.userAgent)
		smCtx.SetSize(width, height)
		smCtx.SetZoom(zoom)
		smCtx.SetCenter(s2.LatLngFromDegrees(p.Lat, p.Lon))
		smCtx.AddObject(sm.NewMarker(s2.LatLngFromDegrees(p.Lat, p.Lon), color.RGBA{0xE7, 0x4C, 0x3C, 0xFF}, 16.0))

		img, err := smCtx.Render()
		resultCh <- renderResult{img: img, err: err}
	}()

	timeout := sp.timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.err != nil {
			log.Printf("Static map render failed: %v", res.err)
			return Placeholder(width, height)
		}
		return res.img
	case <-timer.C:
		log.Printf("Static map render timed out after %v", timeout)
		return Placeholder(width, height)
	case <-ctx.Done():
		log.Printf("Static map render cancelled: %v", ctx.Err())
		return Placeholder(width, height)
	}
}

// FixedProvider テスト用に常に同じ画像を返すプロバイダ
type FixedProvider struct {
	Img image.Image
}

func (f *FixedProvider) StaticMap(ctx context.Context, p geo.Point, width, height, zoom int) image.Image {
	if f.Img != nil {
		return f.Img
	}
	return Placeholder(width, height)
}

var _ Provider = (*StaticMapsProvider)(nil)
var _ Provider = (*FixedProvider)(nil)
