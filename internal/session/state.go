package session

import (
	"sync"
	"time"

	"geostamp_discord_bot/internal/geo"
)

// Mode ペアリング状態機械の状態。
// 状態ごとに有効なフィールドが決まっており、Sessionのメソッド経由でしか
// 遷移できないため、不正な組み合わせ（スティッキー座標と待機フラグの同時成立など）
// は表現できない。
type Mode int

const (
	ModeIdle Mode = iota
	ModeAwaitingLocation
	ModeAwaitingSticky
	ModeStickyActive
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeAwaitingLocation:
		return "awaiting_location"
	case ModeAwaitingSticky:
		return "awaiting_sticky_location"
	case ModeStickyActive:
		return "sticky_active"
	default:
		return "unknown"
	}
}

// PhotoRef 添付写真への参照。バイト列は必要になるまで取得しない。
type PhotoRef struct {
	URL       string
	Filename  string
	MessageID string
}

// Counters セッション単位の利用統計
type Counters struct {
	PhotosStamped  int
	BatchesRun     int
	RenderFailures int
}

// Session ユーザーごとの会話状態。
// ハンドラは複数ゴルーチンから呼ばれるため、読み書きは Lock/Unlock で囲むこと。
// タイマーの発火コールバックだけは内部で自前のロックを取る。
type Session struct {
	mu     sync.Mutex
	UserID string

	// 返信先。最後にやり取りしたチャンネル。
	ChannelID string

	mode       Mode
	pending    *PhotoRef
	sticky     geo.Point
	batch      []PhotoRef
	customTime *time.Time

	// Idle中に先に届いた位置情報。次の写真1枚にだけ適用される。
	oneShot *geo.Point

	timer    *time.Timer
	timerSeq uint64

	lastActive time.Time
	Counters   Counters
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch 最終利用時刻を更新（ロック保持前提）
func (s *Session) Touch() { s.lastActive = time.Now() }

// Mode 現在の状態
func (s *Session) Mode() Mode { return s.mode }

// SetIdle すべての状態を破棄してIdleへ戻す。生きているタイマーも止める。
func (s *Session) SetIdle() {
	s.CancelTimer()
	s.mode = ModeIdle
	s.pending = nil
	s.sticky = geo.Point{}
	s.batch = nil
	s.oneShot = nil
	s.customTime = nil
}

// SetOneShotPoint 写真より先に届いた位置情報を1回分だけ覚えておく
func (s *Session) SetOneShotPoint(p geo.Point) {
	s.oneShot = &p
}

// TakeOneShotPoint 先行して届いた位置情報を取り出して消去する
func (s *Session) TakeOneShotPoint() *geo.Point {
	p := s.oneShot
	s.oneShot = nil
	return p
}

// BackToIdle ペアリング状態だけを初期化してIdleへ戻す。
// 日時の上書きはsettimeで別途解除するため保持する。
func (s *Session) BackToIdle() {
	s.CancelTimer()
	s.mode = ModeIdle
	s.pending = nil
	s.sticky = geo.Point{}
	s.batch = nil
	s.oneShot = nil
}

// SetAwaitingLocation 単発写真を保持して位置情報を待つ
func (s *Session) SetAwaitingLocation(ref PhotoRef) {
	s.mode = ModeAwaitingLocation
	s.pending = &ref
}

// SetAwaitingSticky スティッキーモードを武装し、最初の位置情報を待つ。
// 既存のスティッキー座標は破棄される（再武装は新しい座標を要求する）。
func (s *Session) SetAwaitingSticky() {
	s.CancelTimer()
	s.mode = ModeAwaitingSticky
	s.sticky = geo.Point{}
	s.batch = nil
	// pending はそのまま持ち越す。位置が来たら即処理される。
}

// SetPendingPhoto 位置待ち中に写真を差し替える
func (s *Session) SetPendingPhoto(ref PhotoRef) {
	s.pending = &ref
}

// Pending 保留中の写真（消費しない）
func (s *Session) Pending() *PhotoRef { return s.pending }

// TakePending 保留中の写真を取り出して消去する（最大1回しか配信しない）
func (s *Session) TakePending() *PhotoRef {
	ref := s.pending
	s.pending = nil
	return ref
}

// ActivateSticky スティッキー座標を確定し、StickyActiveへ遷移する
func (s *Session) ActivateSticky(p geo.Point) {
	s.mode = ModeStickyActive
	s.sticky = p
	s.batch = nil
}

// DisableSticky スティッキーモードを解除する。処理されずに捨てられた
// バッチ件数を返す。位置待ちの写真が残っていれば単発の位置待ちに戻る。
func (s *Session) DisableSticky() (dropped int) {
	s.CancelTimer()
	dropped = len(s.batch)
	s.batch = nil
	s.sticky = geo.Point{}
	if s.pending != nil {
		s.mode = ModeAwaitingLocation
	} else {
		s.mode = ModeIdle
	}
	return dropped
}

// UpdateSticky スティッキー座標を更新する（StickyActiveのときのみ有効）
func (s *Session) UpdateSticky(p geo.Point) {
	if s.mode == ModeStickyActive {
		s.sticky = p
	}
}

// StickyPoint スティッキー座標を返す
func (s *Session) StickyPoint() (geo.Point, bool) {
	if s.mode != ModeStickyActive {
		return geo.Point{}, false
	}
	return s.sticky, true
}

// AppendBatch バッチに写真を追加し、現在の件数を返す
func (s *Session) AppendBatch(ref PhotoRef) int {
	s.batch = append(s.batch, ref)
	return len(s.batch)
}

// DrainBatch バッチの中身を取り出して空にする
func (s *Session) DrainBatch() []PhotoRef {
	refs := s.batch
	s.batch = nil
	return refs
}

// BatchLen 現在のバッチ件数
func (s *Session) BatchLen() int { return len(s.batch) }

// SetCustomTime 日時の上書きを設定 (nilで解除)
func (s *Session) SetCustomTime(t *time.Time) { s.customTime = t }

// CustomTime 日時の上書きを返す
func (s *Session) CustomTime() *time.Time { return s.customTime }

// ArmTimer デバウンスタイマーを（再）設定する。既存のタイマーは必ず
// キャンセルされるので、ユーザーあたり生きているタイマーは常に1本以下。
// fnはロックを保持しない状態で呼ばれる。
func (s *Session) ArmTimer(d time.Duration, fn func()) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerSeq++
	seq := s.timerSeq
	s.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		if s.timerSeq != seq {
			// すでにキャンセル・再設定されている発火は無視
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// CancelTimer 生きているタイマーを同期的に取り消す
func (s *Session) CancelTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerSeq++
}

// TimerLive タイマーが生きているか（テスト・統計用）
func (s *Session) TimerLive() bool { return s.timer != nil }

// Snapshot statsコマンド用の読み取り専用サマリ
type Snapshot struct {
	Mode       Mode
	HasPending bool
	Sticky     *geo.Point
	BatchLen   int
	CustomTime *time.Time
	Counters   Counters
}

// Snap 現在状態のサマリを返す（ロック保持前提）
func (s *Session) Snap() Snapshot {
	snap := Snapshot{
		Mode:       s.mode,
		HasPending: s.pending != nil,
		BatchLen:   len(s.batch),
		Counters:   s.Counters,
	}
	if s.mode == ModeStickyActive {
		p := s.sticky
		snap.Sticky = &p
	}
	if s.customTime != nil {
		t := *s.customTime
		snap.CustomTime = &t
	}
	return snap
}
