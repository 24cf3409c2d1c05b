package models

import (
	"fmt"
	"time"
)

// BotInfo 起動中のBotの自己紹介。infoコマンドと起動通知の埋め込みが参照する。
type BotInfo struct {
	Name       string
	Version    string
	StartTime  time.Time
	PatchNotes []string
}

// NewBotInfo 起動時刻を現在時刻として作成
func NewBotInfo(name, version string, patchNotes []string) *BotInfo {
	return &BotInfo{
		Name:       name,
		Version:    version,
		StartTime:  time.Now(),
		PatchNotes: patchNotes,
	}
}

// Title 表示用の「名前 vバージョン」
func (b *BotInfo) Title() string {
	return fmt.Sprintf("%s v%s", b.Name, b.Version)
}

// Uptime Bot起動からの経過時間を返す
func (b *BotInfo) Uptime() time.Duration {
	return time.Since(b.StartTime)
}
