package handler

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/embeds"
)

func (h *Handler) OnReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Println("Bot is ready!")
	log.Printf("Logged in as: %s#%s", s.State.User.Username, s.State.User.Discriminator)

	// スラッシュコマンドを同期
	if err := h.SyncSlashCommands(s); err != nil {
		log.Printf("Error syncing slash commands: %v", err)
	}

	h.SendStartupNotification(s)
}

// SendStartupNotification 起動通知を送信
func (h *Handler) SendStartupNotification(s *discordgo.Session) {
	if h.startupChannel == "" {
		return
	}
	startupEmbed := embeds.BuildBotStartupEmbed(h.botInfo)
	if _, err := s.ChannelMessageSendEmbed(h.startupChannel, startupEmbed); err != nil {
		log.Printf("Error sending startup embed to channel %s: %v", h.startupChannel, err)
	}
}
