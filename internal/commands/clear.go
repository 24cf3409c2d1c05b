package commands

import (
	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/pairing"
)

type ClearCommand struct {
	machine *pairing.Machine
	prefix  string
}

func NewClearCommand(machine *pairing.Machine, prefix string) *ClearCommand {
	return &ClearCommand{machine: machine, prefix: prefix}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "待機中の写真・固定位置・日時の上書きをすべて破棄します"
}

func (c *ClearCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if !c.machine.HasSession(m.Author.ID) {
		_, err := s.ChannelMessageSend(m.ChannelID, "❌ 先に `"+c.prefix+"geostamp` で開始してください。")
		return err
	}
	c.machine.OnClear(m.Author.ID, m.ChannelID)
	return nil
}

func (c *ClearCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil {
		return respondEphemeral(s, i, "❌ ユーザーを特定できませんでした。")
	}
	if !c.machine.HasSession(user.ID) {
		return respondEphemeral(s, i, "❌ 先に `/geostamp` で開始してください。")
	}
	c.machine.OnClear(user.ID, i.ChannelID)
	return respondEphemeral(s, i, "🧹 リセットしました。")
}

func (c *ClearCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
