package pairing

import (
	"fmt"
	"log"
	"time"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/session"
)

// fireBatch デバウンスタイマーの発火で呼ばれる。バッチの写真を順番に処理し、
// 1枚ごとに結果を送信したあと、最後に成功数のまとめを返す。
// 1枚の失敗は記録するだけで残りの処理は続行する。
func (m *Machine) fireBatch(sess *session.Session) {
	sess.Lock()
	refs := sess.DrainBatch()
	point, ok := sess.StickyPoint()
	channelID := sess.ChannelID
	ts := m.stampTime(sess)
	sess.Unlock()

	if !ok || len(refs) == 0 {
		// 発火までの間にモードが解除された場合など
		return
	}

	log.Printf("Processing photo batch: user=%s count=%d", sess.UserID, len(refs))

	succeeded := 0
	for _, ref := range refs {
		if m.processAndCount(sess, channelID, ref, point, ts) {
			succeeded++
		}
	}

	sess.Lock()
	sess.Counters.BatchesRun++
	sess.Unlock()
	m.store.TotalBatches.Add(1)

	m.reply(channelID, fmt.Sprintf("✅ まとめ処理が完了しました: %d/%d 枚成功", succeeded, len(refs)))
}

// processAndCount 1枚処理してセッションのカウンタへ反映する
func (m *Machine) processAndCount(sess *session.Session, channelID string, ref session.PhotoRef, p geo.Point, ts time.Time) bool {
	ok := m.process(channelID, ref, p, ts)
	sess.Lock()
	if ok {
		sess.Counters.PhotosStamped++
	} else {
		sess.Counters.RenderFailures++
	}
	sess.Unlock()
	return ok
}
