package pairing

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/geocode"
	"geostamp_discord_bot/internal/mapimg"
	"geostamp_discord_bot/internal/session"
)

// Sender ボットからの返信を送る先。テストではフェイクに差し替える。
type Sender interface {
	SendText(channelID, text string) error
	SendFile(channelID, filename string, data []byte, caption string) error
}

// PhotoFetcher 添付写真の参照から画像を取得する
type PhotoFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// Options 状態機械の動作パラメータ
type Options struct {
	MapWidth      int
	MapHeight     int
	MapZoom       int
	DebounceDelay time.Duration
	CallTimeout   time.Duration
	Location      *time.Location
	Heuristics    geo.Heuristics
	SaveDir       string
}

// Machine 写真と位置情報をユーザーごとに突き合わせる状態機械。
// discordgoのハンドラは複数ゴルーチンから呼ばれるため、セッションの
// 読み書きはすべてセッションロックの中で行う。
type Machine struct {
	store    *session.Store
	resolver geocode.Resolver
	maps     mapimg.Provider
	photos   PhotoFetcher
	sender   Sender
	opts     Options
}

// NewMachine 状態機械を作成
func NewMachine(store *session.Store, resolver geocode.Resolver, maps mapimg.Provider, photos PhotoFetcher, sender Sender, opts Options) *Machine {
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = 2 * time.Second
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 12 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MapWidth <= 0 {
		opts.MapWidth = 260
	}
	if opts.MapHeight <= 0 {
		opts.MapHeight = 260
	}
	if opts.MapZoom <= 0 {
		opts.MapZoom = 16
	}
	if opts.Heuristics.MaxPlausibleLat <= 0 {
		opts.Heuristics = geo.DefaultHeuristics()
	}
	return &Machine{
		store:    store,
		resolver: resolver,
		maps:     maps,
		photos:   photos,
		sender:   sender,
		opts:     opts,
	}
}

// Store セッションストアを返す（statsコマンド用）
func (m *Machine) Store() *session.Store { return m.store }

// HasSession ユーザーがジオスタンプ機能に入っているか
func (m *Machine) HasSession(userID string) bool {
	return m.store.Peek(userID) != nil
}

// Enter 機能に入る。既存のセッションはリセットされる。
func (m *Machine) Enter(userID, channelID string) {
	sess := m.store.Get(userID)
	sess.Lock()
	sess.Touch()
	sess.ChannelID = channelID
	sess.SetIdle()
	sess.Unlock()
}

// OnPhoto 写真メッセージを処理する
func (m *Machine) OnPhoto(userID, channelID string, ref session.PhotoRef) {
	sess := m.store.Get(userID)
	sess.Lock()
	sess.Touch()
	sess.ChannelID = channelID

	switch sess.Mode() {
	case session.ModeStickyActive:
		n := sess.AppendBatch(ref)
		sess.ArmTimer(m.opts.DebounceDelay, func() { m.fireBatch(sess) })
		sess.Unlock()
		m.reply(channelID, fmt.Sprintf("📸 %d枚目を受け付けました。まとめて処理します…", n))
		return

	case session.ModeAwaitingSticky:
		sess.SetPendingPhoto(ref)
		sess.Unlock()
		m.reply(channelID, "📸 写真を受け取りました。先に固定する位置情報を送ってください（例: `-7.2, 112.7`）")
		return
	}

	// Idle / AwaitingLocation
	if p := sess.TakeOneShotPoint(); p != nil {
		// 位置情報が先に届いていた場合はすぐ処理できる
		ts := m.stampTime(sess)
		sess.BackToIdle()
		sess.Unlock()
		m.processAndCount(sess, channelID, ref, *p, ts)
		return
	}

	sess.SetAwaitingLocation(ref)
	sess.Unlock()
	m.reply(channelID, "📸 写真を受け取りました。位置情報を送ってください（例: `-7.2, 112.7` または geo:URI）")
}

// OnLocation 位置情報メッセージを処理する
func (m *Machine) OnLocation(userID, channelID string, p geo.Point) {
	if !geo.LooksLikeRealFix(p, m.opts.Heuristics) {
		m.reply(channelID, "⚠️ その座標は実際の位置として不自然なため使用しません。")
		return
	}

	sess := m.store.Get(userID)
	sess.Lock()
	sess.Touch()
	sess.ChannelID = channelID

	switch sess.Mode() {
	case session.ModeAwaitingSticky:
		sess.ActivateSticky(p)
		ref := sess.TakePending()
		ts := m.stampTime(sess)
		sess.Unlock()
		m.reply(channelID, fmt.Sprintf("📍 位置を固定しました: %s\nこれ以降の写真には自動でこの位置が付きます。", p.String()))
		if ref != nil {
			m.processAndCount(sess, channelID, *ref, p, ts)
		}
		return

	case session.ModeStickyActive:
		sess.UpdateSticky(p)
		sess.Unlock()
		m.reply(channelID, fmt.Sprintf("📍 固定位置を更新しました: %s", p.String()))
		return

	case session.ModeAwaitingLocation:
		ref := sess.TakePending()
		ts := m.stampTime(sess)
		sess.BackToIdle()
		sess.Unlock()
		if ref != nil {
			m.processAndCount(sess, channelID, *ref, p, ts)
		}
		return
	}

	// Idle: 写真待ちではないが、次の1枚のために覚えておく
	sess.SetOneShotPoint(p)
	sess.Unlock()
	m.reply(channelID, "📍 位置情報を受け取りました。次に送られた写真に適用します。")
}

// OnLocateQuery 地名を前方ジオコーディングして位置情報として扱う。
// 見つからない場合は状態を変えない。
func (m *Machine) OnLocateQuery(userID, channelID, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.CallTimeout)
	defer cancel()

	p, err := m.resolver.Geocode(ctx, query)
	if err != nil {
		m.reply(channelID, fmt.Sprintf("❌ 「%s」に該当する場所が見つかりませんでした。", query))
		return
	}

	m.reply(channelID, fmt.Sprintf("🔎 %s → %s", query, p.String()))
	m.OnLocation(userID, channelID, p)
}

// OnToggleSticky スティッキーモードの切り替え
func (m *Machine) OnToggleSticky(userID, channelID string) {
	sess := m.store.Get(userID)
	sess.Lock()
	sess.Touch()
	sess.ChannelID = channelID

	switch sess.Mode() {
	case session.ModeStickyActive, session.ModeAwaitingSticky:
		dropped := sess.DisableSticky()
		sess.Unlock()
		msg := "🔓 位置の固定を解除しました。"
		if dropped > 0 {
			msg += fmt.Sprintf("（未処理の%d枚は破棄されました）", dropped)
		}
		m.reply(channelID, msg)

	default:
		sess.SetAwaitingSticky()
		sess.Unlock()
		m.reply(channelID, "📌 スティッキーモードを開始します。固定する位置情報を送ってください。")
	}
}

// OnSetCustomTime 日時の上書きを設定・解除する。
// 形式は `YYYY-MM-DD HH:MM`、`reset` で解除。それ以外は状態を変えずに拒否する。
func (m *Machine) OnSetCustomTime(userID, channelID, text string) {
	sess := m.store.Get(userID)
	sess.Lock()
	sess.Touch()
	sess.ChannelID = channelID

	if text == "reset" {
		sess.SetCustomTime(nil)
		sess.Unlock()
		m.reply(channelID, "🕒 日時の上書きを解除しました。現在時刻を使用します。")
		return
	}

	ts, err := time.ParseInLocation("2006-01-02 15:04", text, m.opts.Location)
	if err != nil {
		sess.Unlock()
		m.reply(channelID, "❌ 日時の形式が正しくありません。`YYYY-MM-DD HH:MM` または `reset` を指定してください。")
		return
	}

	sess.SetCustomTime(&ts)
	sess.Unlock()
	m.reply(channelID, fmt.Sprintf("🕒 日時を %s に固定しました。", ts.Format("2006-01-02 15:04")))
}

// OnClear どの状態からでもIdleへ完全リセットする
func (m *Machine) OnClear(userID, channelID string) {
	sess := m.store.Get(userID)
	sess.Lock()
	sess.Touch()
	sess.ChannelID = channelID
	sess.SetIdle()
	sess.Unlock()
	m.reply(channelID, "🧹 セッションをリセットしました。")
}

// Snapshot statsコマンド用のサマリを返す
func (m *Machine) Snapshot(userID string) (session.Snapshot, bool) {
	sess := m.store.Peek(userID)
	if sess == nil {
		return session.Snapshot{}, false
	}
	sess.Lock()
	snap := sess.Snap()
	sess.Unlock()
	return snap, true
}

// stampTime パネルに描く時刻を決める（ロック保持前提）
func (m *Machine) stampTime(sess *session.Session) time.Time {
	if ct := sess.CustomTime(); ct != nil {
		return ct.In(m.opts.Location)
	}
	return time.Now().In(m.opts.Location)
}

func (m *Machine) reply(channelID, text string) {
	if err := m.sender.SendText(channelID, text); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}
