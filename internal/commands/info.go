package commands

import (
	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/embeds"
	"geostamp_discord_bot/internal/models"
)

type InfoCommand struct {
	botInfo *models.BotInfo
}

func NewInfoCommand(botInfo *models.BotInfo) *InfoCommand {
	return &InfoCommand{botInfo: botInfo}
}

func (c *InfoCommand) Name() string {
	return "info"
}

func (c *InfoCommand) Description() string {
	return "Botのバージョンと稼働状況を表示します"
}

func (c *InfoCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embeds.BuildInfoEmbed(c.botInfo))
	return err
}

func (c *InfoCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return respondEmbed(s, i, embeds.BuildInfoEmbed(c.botInfo))
}

func (c *InfoCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
