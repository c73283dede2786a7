package weather

// Decision thresholds.
const (
	RainUmbrellaThreshold = 40   // %
	WindAlertThreshold    = 10.0 // m/s
)

// DecideUmbrella returns the umbrella decision for a fact.
func DecideUmbrella(f Fact) UmbrellaDecision {
	switch {
	case f.RainProbability <= 0:
		return UmbrellaDecision{Needed: false, RainCode: "NO_RAIN"}
	case f.RainProbability >= RainUmbrellaThreshold:
		return UmbrellaDecision{Needed: true, RainCode: "RAIN_PROB_GE_40"}
	default:
		return UmbrellaDecision{Needed: false, RainCode: "RAIN_PROB_LT_40"}
	}
}

// DecideWind returns the strong-wind decision for a fact.
func DecideWind(f Fact) WindDecision {
	d := WindDecision{WindSpeedMS: f.WindSpeedMS}
	if f.WindSpeedMS >= WindAlertThreshold {
		d.Alert = true
		d.ReasonCode = "WIND_GE_10"
	} else {
		d.ReasonCode = "WIND_LT_10"
	}
	return d
}

// DecideComfort classifies the feels-like temperature into a comfort level.
func DecideComfort(f Fact) ComfortDecision {
	d := ComfortDecision{FeelsLikeC: f.FeelsLikeC, ReasonCode: "FEELS_LIKE_TEMP"}
	switch {
	case f.FeelsLikeC >= 30:
		d.Level = "HOT"
	case f.FeelsLikeC >= 20:
		d.Level = "WARM"
	case f.FeelsLikeC >= 10:
		d.Level = "COOL"
	default:
		d.Level = "COLD"
	}
	return d
}
