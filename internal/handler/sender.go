package handler

import (
	"bytes"

	"github.com/bwmarrin/discordgo"
)

// DiscordSender discordgoセッションを返信用インターフェースに適合させる
type DiscordSender struct {
	session *discordgo.Session
}

func NewDiscordSender(s *discordgo.Session) *DiscordSender {
	return &DiscordSender{session: s}
}

func (d *DiscordSender) SendText(channelID, text string) error {
	_, err := d.session.ChannelMessageSend(channelID, text)
	return err
}

func (d *DiscordSender) SendFile(channelID, filename string, data []byte, caption string) error {
	_, err := d.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: caption,
		Files: []*discordgo.File{{
			Name:   filename,
			Reader: bytes.NewReader(data),
		}},
	})
	return err
}
