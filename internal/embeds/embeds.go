package embeds

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/models"
	"geostamp_discord_bot/internal/session"
)

// BuildInstructionsEmbed geostamp コマンド用の使い方埋め込みを作成
func BuildInstructionsEmbed(prefix string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "📸 ジオスタンプモード",
		Description: "写真と位置情報を別々のメッセージで送ると、地図・住所・座標・日時のパネル付きの合成画像を返します。",
		Color:       0x2ECC71, // Green
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "基本の使い方",
				Value:  "写真を送ったあとに座標（例: `-7.2571, 112.7521` または geo:URI）を送ってください。順番が逆でも動きます。",
				Inline: false,
			},
			{
				Name:   "📌 スティッキーモード",
				Value:  fmt.Sprintf("`%ssticky` で位置を固定し、連投した写真をまとめて処理します。", prefix),
				Inline: false,
			},
			{
				Name:   "🕒 日時の上書き",
				Value:  fmt.Sprintf("`%ssettime 2024-06-01 14:30` でパネルの日時を固定できます。`%ssettime reset` で解除します。", prefix, prefix),
				Inline: false,
			},
			{
				Name:   "🧹 リセット",
				Value:  fmt.Sprintf("`%sclear` で待機中の写真や固定位置をすべて破棄します。", prefix),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Geostamp Discord Bot",
		},
	}
	return embed
}

// BuildStatsEmbed stats コマンド用の埋め込みを作成
func BuildStatsEmbed(snap session.Snapshot, totalStamped, totalBatches, totalFailures int64) *discordgo.MessageEmbed {
	state := "💤 待機中"
	switch snap.Mode {
	case session.ModeAwaitingLocation:
		state = "📸 写真を保持中（位置情報待ち）"
	case session.ModeAwaitingSticky:
		state = "📌 スティッキー準備中（位置情報待ち）"
	case session.ModeStickyActive:
		state = fmt.Sprintf("📌 スティッキー有効: %s", snap.Sticky.String())
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 ジオスタンプ統計",
		Color: 0x3498DB, // Blue
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "現在の状態",
				Value:  state,
				Inline: false,
			},
			{
				Name: "あなたの実績",
				Value: fmt.Sprintf("合成: %d 枚 / まとめ処理: %d 回 / 失敗: %d 回",
					snap.Counters.PhotosStamped, snap.Counters.BatchesRun, snap.Counters.RenderFailures),
				Inline: false,
			},
			{
				Name: "Bot全体",
				Value: fmt.Sprintf("合成: %d 枚 / まとめ処理: %d 回 / 失敗: %d 回",
					totalStamped, totalBatches, totalFailures),
				Inline: false,
			},
		},
	}

	if snap.CustomTime != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🕒 日時の上書き",
			Value:  snap.CustomTime.Format("2006-01-02 15:04"),
			Inline: false,
		})
	}

	return embed
}

// BuildBotStartupEmbed 起動通知用の埋め込みを作成
func BuildBotStartupEmbed(botInfo *models.BotInfo) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🟢 " + botInfo.Name + " 起動",
		Description: "📝 **更新内容**\n" + strings.Join(botInfo.PatchNotes, "\n"),
		Color:       0x2ECC71, // Green
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "バージョン",
				Value:  botInfo.Version,
				Inline: true,
			},
			{
				Name:   "起動時刻",
				Value:  botInfo.StartTime.Format("2006-01-02 15:04:05 MST"),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: botInfo.Title(),
		},
	}
}

// BuildInfoEmbed info コマンド用の埋め込みを作成
func BuildInfoEmbed(botInfo *models.BotInfo) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🗺️ " + botInfo.Name + " 情報",
		Color: 0xFFD700, // Gold
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Bot バージョン",
				Value:  botInfo.Version,
				Inline: false,
			},
			{
				Name:   "起動時刻",
				Value:  botInfo.StartTime.Format("2006-01-02 15:04:05 MST"),
				Inline: false,
			},
			{
				Name:   "稼働時間",
				Value:  formatUptime(botInfo.Uptime()),
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: botInfo.Title(),
		},
	}
}

// formatUptime 稼働時間を人間が読みやすい形式にフォーマット
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%d日 %d時間 %d分 %d秒", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%d時間 %d分 %d秒", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%d分 %d秒", minutes, seconds)
	}
	return fmt.Sprintf("%d秒", seconds)
}
