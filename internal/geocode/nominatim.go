package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"geostamp_discord_bot/internal/geo"
	"geostamp_discord_bot/internal/utils"
)

const reverseCacheMax = 256

// Nominatim OpenStreetMapのNominatim APIを使うリゾルバ
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *utils.RateLimiter

	// 逆ジオコーディング結果のキャッシュ。住所は変わりうるので
	// プロセス寿命を超えて保持しない。
	mu    sync.Mutex
	cache map[string]string
}

type nominatimItem struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatim 新しいNominatimリゾルバを作成
func NewNominatim(baseURL, userAgent string, timeout time.Duration, limiter *utils.RateLimiter) *Nominatim {
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		limiter:   limiter,
		cache:     make(map[string]string),
	}
}

// Geocode 住所から座標を検索する。見つからない場合・サービス障害時は ErrNotFound。
func (n *Nominatim) Geocode(ctx context.Context, query string) (geo.Point, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", query)

	body, err := n.get(ctx, n.baseURL+"/search?"+q.Encode())
	if err != nil {
		log.Printf("Geocode request failed: %v", err)
		return geo.Point{}, ErrNotFound
	}

	var items []nominatimItem
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		return geo.Point{}, ErrNotFound
	}

	lat, err1 := strconv.ParseFloat(items[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(items[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return geo.Point{}, ErrNotFound
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

// ReverseGeocode 座標から表示用の住所を取得する。
// 失敗した場合は座標そのものを整形した文字列を返す（外向きには失敗しない）。
func (n *Nominatim) ReverseGeocode(ctx context.Context, p geo.Point) string {
	key := fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lon)

	n.mu.Lock()
	if addr, ok := n.cache[key]; ok {
		n.mu.Unlock()
		return addr
	}
	n.mu.Unlock()

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(p.Lon, 'f', 6, 64))
	q.Set("zoom", "18")

	body, err := n.get(ctx, n.baseURL+"/reverse?"+q.Encode())
	if err != nil {
		log.Printf("ReverseGeocode failed, using coordinate fallback: %v", err)
		return p.FallbackAddress()
	}

	var item nominatimItem
	if err := json.Unmarshal(body, &item); err != nil || item.DisplayName == "" {
		return p.FallbackAddress()
	}

	n.mu.Lock()
	if len(n.cache) >= reverseCacheMax {
		// 雑な間引きで十分
		n.cache = make(map[string]string)
	}
	n.cache[key] = item.DisplayName
	n.mu.Unlock()

	return item.DisplayName
}

func (n *Nominatim) get(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx, parsed.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
