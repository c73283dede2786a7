package weather

import "time"

// JST anchors all day-offset and forecast-bucket arithmetic, regardless of
// the deployment locale.
var JST = time.FixedZone("JST", 9*60*60)

// FactKind distinguishes a point-in-time observation from a forecast bucket.
type FactKind string

const (
	KindCurrent  FactKind = "current"
	KindForecast FactKind = "forecast"
)

// Fact is the normalized weather view for a single city and day offset.
// It is immutable once constructed and is the unit of hand-off to the
// answer formatter.
type Fact struct {
	City            string
	Description     string
	TempC           float64
	FeelsLikeC      float64
	HumidityPct     int
	RainProbability int // %
	WindSpeedMS     float64
	Kind            FactKind

	// SnowProbability is nil when neither the upstream data nor the
	// estimation model produced a value. SnowEstimated is true when the
	// value came from the estimation model rather than an upstream
	// weather-condition code.
	SnowProbability *int
	SnowEstimated   bool
	SnowVolumeMM3h  *float64

	// ObservedAt is the upstream observation time in JST, empty for
	// forecast facts.
	ObservedAt string
}

// UmbrellaDecision says whether an umbrella is needed.
type UmbrellaDecision struct {
	Needed   bool
	RainCode string // RAIN_PROB_GE_40, RAIN_PROB_LT_40, NO_RAIN
}

// WindDecision flags strong wind.
type WindDecision struct {
	Alert       bool
	WindSpeedMS float64
	ReasonCode  string // WIND_GE_10, WIND_LT_10
}

// ComfortDecision classifies the feels-like temperature.
type ComfortDecision struct {
	Level      string // HOT, WARM, COOL, COLD
	FeelsLikeC float64
	ReasonCode string // FEELS_LIKE_TEMP
}

// Report bundles a fact with the deterministic decisions derived from it.
// This is the composite object handed to the formatter.
type Report struct {
	Fact     Fact
	Umbrella UmbrellaDecision
	Wind     WindDecision
	Comfort  ComfortDecision
}

// BuildReport derives all decisions for a fact.
func BuildReport(f Fact) Report {
	return Report{
		Fact:     f,
		Umbrella: DecideUmbrella(f),
		Wind:     DecideWind(f),
		Comfort:  DecideComfort(f),
	}
}

// Flatten serializes the report as a flat key/value structure for the
// formatter. Optional fields are omitted when absent.
func (r Report) Flatten() map[string]any {
	m := map[string]any{
		"city":                 r.Fact.City,
		"description":          r.Fact.Description,
		"temp_c":               r.Fact.TempC,
		"feels_like_c":         r.Fact.FeelsLikeC,
		"humidity_pct":         r.Fact.HumidityPct,
		"rain_probability_pct": r.Fact.RainProbability,
		"wind_speed_ms":        r.Fact.WindSpeedMS,
		"kind":                 string(r.Fact.Kind),
		"umbrella_needed":      r.Umbrella.Needed,
		"umbrella_code":        r.Umbrella.RainCode,
		"wind_alert":           r.Wind.Alert,
		"wind_code":            r.Wind.ReasonCode,
		"comfort_level":        r.Comfort.Level,
		"comfort_code":         r.Comfort.ReasonCode,
	}
	if r.Fact.SnowProbability != nil {
		m["snow_probability_pct"] = *r.Fact.SnowProbability
		m["snow_probability_estimated"] = r.Fact.SnowEstimated
	}
	if r.Fact.SnowVolumeMM3h != nil {
		m["snow_volume_mm_3h"] = *r.Fact.SnowVolumeMM3h
	}
	if r.Fact.ObservedAt != "" {
		m["observed_at"] = r.Fact.ObservedAt
	}
	return m
}
