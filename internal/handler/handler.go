package handler

import (
	"geostamp_discord_bot/internal/commands"
	"geostamp_discord_bot/internal/models"
	"geostamp_discord_bot/internal/pairing"
)

type Handler struct {
	registry       *commands.Registry
	prefix         string
	botInfo        *models.BotInfo
	machine        *pairing.Machine
	startupChannel string
}

func NewHandler(prefix string, botInfo *models.BotInfo, machine *pairing.Machine, startupChannel string) *Handler {
	registry := commands.NewRegistry()

	// すべてのコマンドを配列で一元管理
	var commandsList []commands.Command
	commandsList = append(commandsList,
		&commands.PingCommand{},
		commands.NewInfoCommand(botInfo),
		commands.NewGeostampCommand(machine, prefix),
		commands.NewStickyCommand(machine, prefix),
		commands.NewLocateCommand(machine, prefix),
		commands.NewSetTimeCommand(machine, prefix),
		commands.NewClearCommand(machine, prefix),
		commands.NewStatsCommand(machine, prefix),
	)
	// HelpCommandは最後に追加し、registryを渡す
	helpCmd := commands.NewHelpCommand(registry, prefix)
	commandsList = append(commandsList, helpCmd)

	// 配列から一括登録
	for _, cmd := range commandsList {
		registry.Register(cmd)
	}

	return &Handler{
		registry:       registry,
		prefix:         prefix,
		botInfo:        botInfo,
		machine:        machine,
		startupChannel: startupChannel,
	}
}
