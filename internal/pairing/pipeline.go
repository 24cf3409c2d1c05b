package pairing

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"sync"
	"time"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/render"
	"geostamp_discord_bot/internal/session"
	"geostamp_discord_bot/internal/utils"
)

// process 1枚の写真をレンダリングパイプラインに通す。
// 写真取得 → (逆ジオコーディング・地図取得を並列) → レイアウト・合成 → 送信。
// 失敗はここで握りつぶしてユーザーへ謝罪を返し、成功可否だけを返す。
func (m *Machine) process(channelID string, ref session.PhotoRef, p geo.Point, ts time.Time) bool {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.CallTimeout)
	defer cancel()

	photo, err := m.photos.Fetch(ctx, ref.URL)
	if err != nil {
		log.Printf("Failed to fetch photo %s: %v", ref.URL, err)
		m.store.TotalFailures.Add(1)
		m.reply(channelID, "😢 写真の取得に失敗しました。もう一度送ってみてください。")
		return false
	}

	// 住所解決と地図取得は互いに依存しないので並列に走らせる
	var (
		wg      sync.WaitGroup
		address string
		mapImg  image.Image
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		address = m.resolver.ReverseGeocode(ctx, p)
	}()
	go func() {
		defer wg.Done()
		mapImg = m.maps.StaticMap(ctx, p, m.opts.MapWidth, m.opts.MapHeight, m.opts.MapZoom)
	}()
	wg.Wait()

	out, err := render.Compose(photo, p, address, mapImg, ts)
	if err != nil {
		log.Printf("Compose failed for %s: %v", ref.URL, err)
		m.store.TotalFailures.Add(1)
		m.reply(channelID, "😢 画像の合成に失敗しました。この写真はスキップします。")
		return false
	}

	data, filename, err := render.Encode(out)
	if err != nil {
		log.Printf("Encode failed for %s: %v", ref.URL, err)
		m.store.TotalFailures.Add(1)
		m.reply(channelID, "😢 画像の出力に失敗しました。この写真はスキップします。")
		return false
	}

	caption := fmt.Sprintf("📍 %s", address)
	if err := m.sender.SendFile(channelID, filename, data, caption); err != nil {
		log.Printf("Failed to send composite: %v", err)
		m.store.TotalFailures.Add(1)
		return false
	}

	m.archive(filename, data, ts)
	m.store.TotalStamped.Add(1)
	return true
}

// archive 設定されていれば合成結果をディスクにも残す
func (m *Machine) archive(filename string, data []byte, ts time.Time) {
	if m.opts.SaveDir == "" {
		return
	}
	name := fmt.Sprintf("%s_%s", ts.Format("20060102_150405"), filename)
	if err := utils.WriteFileAtomic(filepath.Join(m.opts.SaveDir, name), data); err != nil {
		log.Printf("Failed to archive composite: %v", err)
	}
}
