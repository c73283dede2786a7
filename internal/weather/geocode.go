package weather

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"strings"
)

// Coordinates is a resolved geographic position.
type Coordinates struct {
	Lat float64
	Lon float64
}

// GeoCandidate is one ranked geocoding match.
type GeoCandidate struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// geoCountry pins geocoding queries to Japan; the parsing grammar only
// produces Japanese place names.
const geoCountry = "JP"

// prefectureSuffixes are administrative suffixes users often include even
// though the geocoder only knows the bare name ("東京都" vs "東京").
var prefectureSuffixes = []string{"県", "府", "都", "道"}

// queryVariants returns the literal query plus, when it ends in an
// administrative suffix, a variant with that single trailing character
// stripped.
func queryVariants(city string) []string {
	variants := []string{city}
	for _, suffix := range prefectureSuffixes {
		if strings.HasSuffix(city, suffix) {
			variants = append(variants, strings.TrimSuffix(city, suffix))
			break
		}
	}
	return variants
}

// ResolveCandidates resolves a free-text city query to coordinates. Variants
// are tried in order and the first one returning any results wins: its first
// result is the best match and the full ranked name list (deduplicated,
// capped at limit) is returned for disambiguation. A transport failure on
// one variant moves on to the next.
//
// A nil Coordinates with a nil error means no variant matched anything.
func (c *Client) ResolveCandidates(ctx context.Context, city string, limit int) (*Coordinates, []string, error) {
	var lastErr error

	for _, variant := range queryVariants(city) {
		values := url.Values{}
		values.Set("q", variant+","+geoCountry)
		values.Set("limit", strconv.Itoa(limit))
		u := c.endpoint("/geo/1.0/direct", values)

		var results []GeoCandidate
		if err := c.getJSON(ctx, u, &results); err != nil {
			log.Printf("ERROR: geocoding failed for %q: %v", variant, err)
			lastErr = err
			continue
		}
		if len(results) == 0 {
			continue
		}

		best := Coordinates{Lat: results[0].Lat, Lon: results[0].Lon}
		return &best, candidateNames(results, limit), nil
	}

	if lastErr != nil {
		return nil, nil, &APIError{Message: "地名解決APIへの接続に失敗しました", Err: lastErr}
	}
	return nil, nil, nil
}

// candidateNames dedupes names in upstream order, capped at limit.
func candidateNames(results []GeoCandidate, limit int) []string {
	seen := make(map[string]bool, len(results))
	var names []string
	for _, r := range results {
		if r.Name == "" || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		names = append(names, r.Name)
		if len(names) >= limit {
			break
		}
	}
	return names
}
