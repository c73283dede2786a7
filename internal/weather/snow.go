package weather

import "math"

// EstimateSnowProbability derives a snow probability from the rain
// probability and the temperature. Lower temperatures convert more of the
// precipitation probability into snow probability:
//
//	tempC <= 0:      pop
//	0 < tempC < 2:   round(pop * 0.7)
//	2 <= tempC < 4:  round(pop * 0.3)
//	tempC >= 4:      0
//
// A non-positive pop always yields 0.
func EstimateSnowProbability(pop int, tempC float64) int {
	if pop <= 0 {
		return 0
	}
	switch {
	case tempC <= 0:
		return pop
	case tempC < 2:
		return int(math.Round(float64(pop) * 0.7))
	case tempC < 4:
		return int(math.Round(float64(pop) * 0.3))
	default:
		return 0
	}
}
