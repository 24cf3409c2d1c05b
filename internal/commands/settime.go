package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/pairing"
)

type SetTimeCommand struct {
	machine *pairing.Machine
	prefix  string
}

func NewSetTimeCommand(machine *pairing.Machine, prefix string) *SetTimeCommand {
	return &SetTimeCommand{machine: machine, prefix: prefix}
}

func (c *SetTimeCommand) Name() string {
	return "settime"
}

func (c *SetTimeCommand) Description() string {
	return "パネルに描く日時を固定します (YYYY-MM-DD HH:MM / reset)"
}

func (c *SetTimeCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if !c.machine.HasSession(m.Author.ID) {
		_, err := s.ChannelMessageSend(m.ChannelID, "❌ 先に `"+c.prefix+"geostamp` で開始してください。")
		return err
	}
	if len(args) == 0 {
		_, err := s.ChannelMessageSend(m.ChannelID,
			"❌ 使用方法: `"+c.prefix+"settime 2024-06-01 14:30` または `"+c.prefix+"settime reset`")
		return err
	}
	// 日付と時刻は2つの引数に分かれて届く
	c.machine.OnSetCustomTime(m.Author.ID, m.ChannelID, strings.Join(args, " "))
	return nil
}

func (c *SetTimeCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil {
		return respondEphemeral(s, i, "❌ ユーザーを特定できませんでした。")
	}
	if !c.machine.HasSession(user.ID) {
		return respondEphemeral(s, i, "❌ 先に `/geostamp` で開始してください。")
	}

	value := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "datetime" {
			value = opt.StringValue()
		}
	}
	if value == "" {
		return respondEphemeral(s, i, "❌ datetime を指定してください (例: 2024-06-01 14:30)")
	}

	c.machine.OnSetCustomTime(user.ID, i.ChannelID, value)
	return respondEphemeral(s, i, "🕒 設定を反映しました。")
}

func (c *SetTimeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "datetime",
				Description: "YYYY-MM-DD HH:MM 形式、または reset",
				Required:    true,
			},
		},
	}
}
