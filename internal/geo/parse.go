package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePoint テキストから座標を読み取る。
// 対応形式: "lat, lon" の10進ペア、および geo: URI (RFC 5870)。
func ParsePoint(text string) (Point, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "geo:") {
		return parseGeoURI(text)
	}

	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		// スペース区切りも許容
		parts = strings.Fields(text)
	}
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("not a coordinate pair: %q", text)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse longitude: %w", err)
	}

	p := Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

func parseGeoURI(uri string) (Point, error) {
	coords := strings.Split(strings.TrimPrefix(uri, "geo:"), ";")[0]
	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return Point{}, fmt.Errorf("malformed geo URI: %q", uri)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse longitude: %w", err)
	}
	p := Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}
