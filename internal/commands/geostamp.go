package commands

import (
	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/embeds"
	"geostamp_discord_bot/internal/pairing"
)

type GeostampCommand struct {
	machine *pairing.Machine
	prefix  string
}

func NewGeostampCommand(machine *pairing.Machine, prefix string) *GeostampCommand {
	return &GeostampCommand{machine: machine, prefix: prefix}
}

func (c *GeostampCommand) Name() string {
	return "geostamp"
}

func (c *GeostampCommand) Description() string {
	return "写真と位置情報の突き合わせを開始します"
}

func (c *GeostampCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	c.machine.Enter(m.Author.ID, m.ChannelID)
	embed := embeds.BuildInstructionsEmbed(c.prefix)
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	return err
}

func (c *GeostampCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil {
		return respondEphemeral(s, i, "❌ ユーザーを特定できませんでした。")
	}
	c.machine.Enter(user.ID, i.ChannelID)
	return respondEmbed(s, i, embeds.BuildInstructionsEmbed(c.prefix))
}

func (c *GeostampCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
