package commands

import (
	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/embeds"
	"geostamp_discord_bot/internal/pairing"
	"geostamp_discord_bot/internal/session"
)

type StatsCommand struct {
	machine *pairing.Machine
	prefix  string
}

func NewStatsCommand(machine *pairing.Machine, prefix string) *StatsCommand {
	return &StatsCommand{machine: machine, prefix: prefix}
}

func (c *StatsCommand) Name() string {
	return "stats"
}

func (c *StatsCommand) Description() string {
	return "ジオスタンプの利用状況を表示します"
}

func (c *StatsCommand) ExecuteText(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	snap, ok := c.machine.Snapshot(m.Author.ID)
	if !ok {
		_, err := s.ChannelMessageSend(m.ChannelID, "❌ 先に `"+c.prefix+"geostamp` で開始してください。")
		return err
	}
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, c.buildEmbed(snap))
	return err
}

func (c *StatsCommand) ExecuteSlash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	user := interactionUser(i)
	if user == nil {
		return respondEphemeral(s, i, "❌ ユーザーを特定できませんでした。")
	}
	snap, ok := c.machine.Snapshot(user.ID)
	if !ok {
		return respondEphemeral(s, i, "❌ 先に `/geostamp` で開始してください。")
	}
	return respondEmbed(s, i, c.buildEmbed(snap))
}

func (c *StatsCommand) buildEmbed(snap session.Snapshot) *discordgo.MessageEmbed {
	store := c.machine.Store()
	return embeds.BuildStatsEmbed(snap,
		store.TotalStamped.Load(), store.TotalBatches.Load(), store.TotalFailures.Load())
}

func (c *StatsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}
