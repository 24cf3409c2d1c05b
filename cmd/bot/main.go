package main

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"geostamp_discord_bot/internal/config"
	"geostamp_discord_bot/internal/geocode"
	"geostamp_discord_bot/internal/handler"
	"geostamp_discord_bot/internal/mapimg"
	"geostamp_discord_bot/internal/models"
	"geostamp_discord_bot/internal/pairing"
	"geostamp_discord_bot/internal/session"
	"geostamp_discord_bot/internal/utils"
	"geostamp_discord_bot/internal/version"
)

func main() {
	// .env はローカル開発用。無ければ環境変数だけで動く。
	godotenv.Load()

	cfg := config.Load()
	if cfg == nil {
		log.Fatal("Failed to load configuration")
	}
	if cfg.Token == "" {
		log.Fatal("DISCORD_TOKEN is required")
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatal(err)
	}

	store := session.NewStore()
	limiter := utils.NewRateLimiter(cfg.GeocodeRPS)
	resolver := geocode.NewNominatim(cfg.NominatimURL, cfg.UserAgent, cfg.HTTPTimeout, limiter)
	maps := mapimg.NewStaticMapsProvider(cfg.UserAgent, cfg.MapTimeout)
	fetcher := utils.NewImageDownloader(cfg.HTTPTimeout, cfg.UserAgent)
	sender := handler.NewDiscordSender(dg)

	machine := pairing.NewMachine(store, resolver, maps, fetcher, sender, pairing.Options{
		MapWidth:      cfg.MapWidth,
		MapHeight:     cfg.MapHeight,
		MapZoom:       cfg.MapZoom,
		DebounceDelay: cfg.DebounceDelay,
		CallTimeout:   cfg.HTTPTimeout,
		Location:      cfg.Location,
		Heuristics:    cfg.Heuristics,
		SaveDir:       cfg.SaveDir,
	})

	stop := make(chan struct{})
	store.StartSweeper(cfg.SweepInterval, cfg.SessionTTL, stop)

	botInfo := models.NewBotInfo("Geostamp Bot", version.Version, version.PatchNotes)
	h := handler.NewHandler(cfg.Prefix, botInfo, machine, cfg.StartupChannel)
	dg.AddHandler(h.OnReady)
	dg.AddHandler(h.OnMessage)
	dg.AddHandler(h.OnInteractionCreate)

	err = dg.Open()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		close(stop)
		h.Cleanup(dg)
		dg.Close()
	}()

	log.Println("Date:", time.Now().Format("2006-01-02"))
	select {}
}
