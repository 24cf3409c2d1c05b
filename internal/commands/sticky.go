package commands

import (
	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/pairing"
)

type StickyCommand struct {
	machine *pairing.Machine
	prefix  string
}

func NewStickyCommand(machine *pairing.Machine, prefix string) *StickyCommand {
	return &StickyCommand{machine: machine, prefix: prefix}
}

func (c *StickyCommand) Name() string {
	return "sticky"
}

func (c *StickyCommand) Description() string {
	return "位置の固定モードを切り替えます"
}

func (c *StickyCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if !c.machine.HasSession(m.Author.ID) {
		_, err := s.ChannelMessageSend(m.ChannelID, "❌ 先に `"+c.prefix+"geostamp` で開始してください。")
		return err
	}
	c.machine.OnToggleSticky(m.Author.ID, m.ChannelID)
	return nil
}

func (c *StickyCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil {
		return respondEphemeral(s, i, "❌ ユーザーを特定できませんでした。")
	}
	if !c.machine.HasSession(user.ID) {
		return respondEphemeral(s, i, "❌ 先に `/geostamp` で開始してください。")
	}
	c.machine.OnToggleSticky(user.ID, i.ChannelID)
	return respondEphemeral(s, i, "📌 切り替えました。")
}

func (c *StickyCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
