package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/pairing"
)

type LocateCommand struct {
	machine *pairing.Machine
	prefix  string
}

func NewLocateCommand(machine *pairing.Machine, prefix string) *LocateCommand {
	return &LocateCommand{machine: machine, prefix: prefix}
}

func (c *LocateCommand) Name() string {
	return "locate"
}

func (c *LocateCommand) Description() string {
	return "地名から座標を検索して位置情報として使います"
}

func (c *LocateCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if !c.machine.HasSession(m.Author.ID) {
		_, err := s.ChannelMessageSend(m.ChannelID, "❌ 先に `"+c.prefix+"geostamp` で開始してください。")
		return err
	}
	if len(args) == 0 {
		_, err := s.ChannelMessageSend(m.ChannelID, "❌ 使用方法: `"+c.prefix+"locate 東京タワー`")
		return err
	}
	c.machine.OnLocateQuery(m.Author.ID, m.ChannelID, strings.Join(args, " "))
	return nil
}

func (c *LocateCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil {
		return respondEphemeral(s, i, "❌ ユーザーを特定できませんでした。")
	}
	if !c.machine.HasSession(user.ID) {
		return respondEphemeral(s, i, "❌ 先に `/geostamp` で開始してください。")
	}

	query := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}
	if query == "" {
		return respondEphemeral(s, i, "❌ 検索する地名を指定してください。")
	}

	// ジオコーディングは外部呼び出しなので先に応答を返しておく
	if err := respondEphemeral(s, i, "🔎 検索しています…"); err != nil {
		return err
	}
	c.machine.OnLocateQuery(user.ID, i.ChannelID, query)
	return nil
}

func (c *LocateCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "検索する地名や住所",
				Required:    true,
			},
		},
	}
}
