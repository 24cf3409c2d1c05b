package handler

import (
	"log"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/session"
)

// 全メッセージのログは開発時のみ
var debugLog = os.Getenv("GEOSTAMP_DEBUG_LOG") == "1"

func (h *Handler) OnMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Botメッセージを無視
	if m.Author.Bot {
		return
	}

	if debugLog {
		log.Printf("Message received: '%s' from %s", m.Content, m.Author.Username)
	}

	// プレフィックスコマンド
	if strings.HasPrefix(m.Content, h.prefix) {
		h.dispatchCommand(s, m)
		return
	}

	// コマンド以外は、機能を開始しているユーザーのメッセージだけを見る
	if !h.machine.HasSession(m.Author.ID) {
		return
	}

	if refs := photoRefs(m); len(refs) > 0 {
		log.Printf("Photo message from %s: %d attachment(s)", m.Author.Username, len(refs))
		for _, ref := range refs {
			h.machine.OnPhoto(m.Author.ID, m.ChannelID, ref)
		}
		return
	}

	if p, err := geo.ParsePoint(m.Content); err == nil {
		log.Printf("Location message from %s: %s", m.Author.Username, p.String())
		h.machine.OnLocation(m.Author.ID, m.ChannelID, p)
	}
}

func (h *Handler) dispatchCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	// コマンドと引数をパース
	content := strings.TrimPrefix(m.Content, h.prefix)
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return
	}

	cmdName := parts[0]
	args := parts[1:]

	cmd, exists := h.registry.Get(cmdName)
	if !exists {
		log.Printf("Command '%s' not found in registry", cmdName)
		return
	}

	log.Printf("Executing text command: %s", cmdName)
	if err := cmd.ExecuteText(s, m, args); err != nil {
		log.Printf("Error executing command %s: %v", cmdName, err)
		s.ChannelMessageSend(m.ChannelID, "An error occurred while executing the command.")
	}
}

// photoRefs 添付ファイルのうち画像だけを取り出す
func photoRefs(m *discordgo.MessageCreate) []session.PhotoRef {
	var refs []session.PhotoRef
	for _, a := range m.Attachments {
		if a == nil || a.URL == "" {
			continue
		}
		if !isImageAttachment(a) {
			continue
		}
		refs = append(refs, session.PhotoRef{
			URL:       a.URL,
			Filename:  a.Filename,
			MessageID: m.ID,
		})
	}
	return refs
}

func isImageAttachment(a *discordgo.MessageAttachment) bool {
	if strings.HasPrefix(a.ContentType, "image/") {
		return true
	}
	name := strings.ToLower(a.Filename)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp", ".gif"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
