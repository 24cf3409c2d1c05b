package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"geostamp_discord_bot/internal/geo"
)

type Config struct {
	Token  string
	Prefix string

	// Nominatim
	NominatimURL string
	UserAgent    string
	GeocodeRPS   int

	// 静的地図
	MapWidth   int
	MapHeight  int
	MapZoom    int
	MapTimeout time.Duration

	// 外部呼び出しの共通タイムアウト
	HTTPTimeout time.Duration

	// スティッキーモードのデバウンス
	DebounceDelay time.Duration

	// パネルの日時に使う固定タイムゾーン
	Location *time.Location

	// 座標の妥当性ヒューリスティクス
	Heuristics geo.Heuristics

	// 生成した合成画像の保存先（空なら保存しない）
	SaveDir string

	// 起動通知を送るチャンネル（空なら送らない）
	StartupChannel string

	// セッションの掃除
	SweepInterval time.Duration
	SessionTTL    time.Duration
}

func Load() *Config {
	cfg := &Config{
		Token:          os.Getenv("DISCORD_TOKEN"),
		Prefix:         envOr("GEOSTAMP_PREFIX", "!"),
		NominatimURL:   envOr("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:      envOr("GEOSTAMP_USER_AGENT", "GeostampDiscordBot/0.4"),
		GeocodeRPS:     envInt("GEOCODE_RPS", 1),
		MapWidth:       envInt("GEOSTAMP_MAP_WIDTH", 260),
		MapHeight:      envInt("GEOSTAMP_MAP_HEIGHT", 260),
		MapZoom:        envInt("GEOSTAMP_MAP_ZOOM", 16),
		MapTimeout:     envDuration("GEOSTAMP_MAP_TIMEOUT", 15*time.Second),
		HTTPTimeout:    envDuration("GEOSTAMP_HTTP_TIMEOUT", 12*time.Second),
		DebounceDelay:  envDuration("GEOSTAMP_DEBOUNCE", 2*time.Second),
		SaveDir:        os.Getenv("GEOSTAMP_SAVE_DIR"),
		StartupChannel: os.Getenv("GEOSTAMP_STARTUP_CHANNEL"),
		SweepInterval:  envDuration("GEOSTAMP_SWEEP_INTERVAL", 30*time.Minute),
		SessionTTL:     envDuration("GEOSTAMP_SESSION_TTL", 2*time.Hour),
	}

	cfg.Heuristics = geo.DefaultHeuristics()
	if v := envFloat("GEOSTAMP_MAX_PLAUSIBLE_LAT", 0); v > 0 {
		cfg.Heuristics.MaxPlausibleLat = v
	}
	if v := envFloat("GEOSTAMP_NEAR_INTEGER_EPS", 0); v > 0 {
		cfg.Heuristics.NearIntegerEps = v
	}

	tzName := envOr("GEOSTAMP_TZ", "Asia/Jakarta")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to UTC: %v", tzName, err)
		loc = time.UTC
	}
	cfg.Location = loc

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s: %q", key, v)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s: %q", key, v)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s: %q", key, v)
	}
	return fallback
}
