package weather

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"
)

// candidateDisplayLimit caps how many geocoding candidates are surfaced to
// the user.
const candidateDisplayLimit = 5

// forecastBucketCount is the fixed bucket count of the 3-hour forecast
// endpoint (40 buckets, roughly five days).
const forecastBucketCount = 40

// Gateway resolves a city and day offset into a weather fact, unifying the
// current-conditions and 3-hour forecast upstream shapes.
type Gateway struct {
	client       *Client
	disambiguate bool

	now func() time.Time
}

// NewGateway creates a Gateway. When disambiguate is true, a geocoding query
// matching more than one place fails with AmbiguousCityError instead of
// silently using the best match.
func NewGateway(client *Client, disambiguate bool) *Gateway {
	return &Gateway{
		client:       client,
		disambiguate: disambiguate,
		now:          time.Now,
	}
}

// forecastItem is one 3-hour bucket of the forecast endpoint. Pointer fields
// let structurally missing sections be told apart from zero values.
type forecastItem struct {
	Dt   int64 `json:"dt"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		ID          int    `json:"id"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Pop  float64 `json:"pop"`
	Snow *struct {
		ThreeH *float64 `json:"3h"`
	} `json:"snow"`
}

// FetchWeather returns the weather fact for a city and day offset. Offset 0
// combines current conditions with the nearest-future forecast bucket;
// offsets 1..5 use the bucket closest to local noon on the target day.
func (g *Gateway) FetchWeather(ctx context.Context, city string, days int) (*Fact, error) {
	if days < 0 || days > 5 {
		return nil, &APIError{Message: "無料APIでは0〜5日後まで取得可能です"}
	}

	best, candidates, err := g.client.ResolveCandidates(ctx, city, candidateDisplayLimit)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, &CityNotFoundError{City: city}
	}
	if g.disambiguate && len(candidates) > 1 {
		return nil, &AmbiguousCityError{City: city, Candidates: candidates}
	}

	if days == 0 {
		return g.fetchCurrent(ctx, city, *best)
	}
	return g.fetchForecast(ctx, city, *best, days)
}

// fetchCurrent builds a "current" fact: point-in-time conditions, with the
// rain probability backfilled from the nearest-future forecast bucket (the
// current-conditions endpoint does not carry one) and snow data taken or
// estimated from that same bucket.
func (g *Gateway) fetchCurrent(ctx context.Context, city string, coords Coordinates) (*Fact, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coords.Lat))
	values.Set("lon", fmt.Sprintf("%f", coords.Lon))
	values.Set("units", "metric")
	values.Set("lang", "ja")
	u := g.client.endpoint("/data/2.5/weather", values)

	var payload struct {
		Dt      int64 `json:"dt"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main *struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}

	if err := g.client.getJSON(ctx, u, &payload); err != nil {
		log.Printf("ERROR: current weather fetch failed: %v", err)
		return nil, &APIError{Message: "現在の天気情報の取得に失敗しました", Err: err}
	}
	if len(payload.Weather) == 0 {
		return nil, &APIError{Message: "APIレスポンスに必須フィールド 'weather' がありません"}
	}
	if payload.Main == nil {
		return nil, &APIError{Message: "APIレスポンスに必須フィールド 'main' がありません"}
	}

	fact := &Fact{
		City:        city,
		Description: payload.Weather[0].Description,
		TempC:       payload.Main.Temp,
		FeelsLikeC:  payload.Main.FeelsLike,
		HumidityPct: payload.Main.Humidity,
		WindSpeedMS: payload.Wind.Speed,
		Kind:        KindCurrent,
	}
	if payload.Dt > 0 {
		fact.ObservedAt = time.Unix(payload.Dt, 0).In(JST).Format("2006-01-02 15:04")
	}

	pop, bucket := g.fetchNowcast(ctx, coords)
	fact.RainProbability = pop
	g.enrichSnow(fact, bucket)

	if fact.SnowProbability == nil {
		est := EstimateSnowProbability(fact.RainProbability, fact.TempC)
		fact.SnowProbability = &est
		fact.SnowEstimated = true
	}

	return fact, nil
}

// fetchForecast builds a "forecast" fact from the bucket closest to noon JST
// on today+days.
func (g *Gateway) fetchForecast(ctx context.Context, city string, coords Coordinates, days int) (*Fact, error) {
	items, err := g.forecastBuckets(ctx, coords)
	if err != nil {
		log.Printf("ERROR: forecast fetch failed: %v", err)
		return nil, &APIError{Message: "予報データの取得に失敗しました", Err: err}
	}
	if len(items) == 0 {
		return nil, &APIError{Message: "予報データ形式が不正です"}
	}

	nowJST := g.now().In(JST)
	target := time.Date(nowJST.Year(), nowJST.Month(), nowJST.Day(), 12, 0, 0, 0, JST).
		AddDate(0, 0, days)

	var closest *forecastItem
	minDiff := time.Duration(1<<63 - 1)
	for i := range items {
		bucketTime := time.Unix(items[i].Dt, 0).In(JST)
		diff := bucketTime.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff < minDiff {
			minDiff = diff
			closest = &items[i]
		}
	}
	if closest == nil {
		return nil, &APIError{Message: "指定日の予報が見つかりませんでした"}
	}
	if len(closest.Weather) == 0 {
		return nil, &APIError{Message: "予報データの天気情報が不正です"}
	}
	if closest.Main == nil {
		return nil, &APIError{Message: "予報データの気象情報が不正です"}
	}

	return &Fact{
		City:            city,
		Description:     closest.Weather[0].Description,
		TempC:           closest.Main.Temp,
		FeelsLikeC:      closest.Main.FeelsLike,
		HumidityPct:     closest.Main.Humidity,
		RainProbability: popPercent(closest.Pop),
		WindSpeedMS:     closest.Wind.Speed,
		Kind:            KindForecast,
	}, nil
}

// fetchNowcast returns the rain probability of the forecast bucket with the
// smallest non-negative offset from now, together with that bucket. Failures
// are tolerated: the current-conditions result is still useful without a
// rain probability.
func (g *Gateway) fetchNowcast(ctx context.Context, coords Coordinates) (int, *forecastItem) {
	items, err := g.forecastBuckets(ctx, coords)
	if err != nil {
		log.Printf("WARN: nowcast fetch failed: %v", err)
		return 0, nil
	}
	if len(items) == 0 {
		return 0, nil
	}

	now := g.now()
	var closest *forecastItem
	minDiff := time.Duration(1<<63 - 1)
	for i := range items {
		diff := time.Unix(items[i].Dt, 0).Sub(now)
		if diff >= 0 && diff < minDiff {
			minDiff = diff
			closest = &items[i]
		}
	}
	if closest == nil {
		// Every bucket is in the past; fall back to the first one.
		closest = &items[0]
	}

	return popPercent(closest.Pop), closest
}

func (g *Gateway) forecastBuckets(ctx context.Context, coords Coordinates) ([]forecastItem, error) {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", coords.Lat))
	values.Set("lon", fmt.Sprintf("%f", coords.Lon))
	values.Set("cnt", fmt.Sprintf("%d", forecastBucketCount))
	values.Set("units", "metric")
	values.Set("lang", "ja")
	u := g.client.endpoint("/data/2.5/forecast", values)

	var payload struct {
		List []forecastItem `json:"list"`
	}
	if err := g.client.getJSON(ctx, u, &payload); err != nil {
		return nil, err
	}
	return payload.List, nil
}

// enrichSnow copies snow data from a forecast bucket into a current fact.
// A weather-condition code in the snow range (600-622) asserts the snow
// probability; a positive 3-hour snow volume does the same even without the
// code.
func (g *Gateway) enrichSnow(fact *Fact, bucket *forecastItem) {
	if bucket == nil {
		return
	}

	if bucket.Snow != nil && bucket.Snow.ThreeH != nil {
		volume := *bucket.Snow.ThreeH
		fact.SnowVolumeMM3h = &volume
	}

	pop := popPercent(bucket.Pop)

	if len(bucket.Weather) > 0 {
		if id := bucket.Weather[0].ID; id >= 600 && id <= 622 {
			fact.SnowProbability = &pop
			return
		}
	}

	if fact.SnowVolumeMM3h != nil && *fact.SnowVolumeMM3h > 0 {
		fact.SnowProbability = &pop
	}
}

// popPercent converts the upstream 0..1 probability to a whole percentage.
func popPercent(pop float64) int {
	return int(pop * 100)
}
