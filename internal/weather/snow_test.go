package weather

import "testing"

func TestEstimateSnowProbability(t *testing.T) {
	tests := []struct {
		name  string
		pop   int
		tempC float64
		want  int
	}{
		{"zero pop is always zero", 0, -10, 0},
		{"negative pop is always zero", -5, -10, 0},
		{"freezing keeps full probability", 100, -5, 100},
		{"boundary at exactly zero degrees", 100, 0, 100},
		{"cold band scales by 0.7", 100, 1.0, 70},
		{"boundary at exactly two degrees", 100, 2.0, 30},
		{"cool band scales by 0.3", 100, 3.0, 30},
		{"boundary at exactly four degrees", 100, 4.0, 0},
		{"warm yields zero", 80, 15.0, 0},
		{"rounding in cold band", 50, 1.0, 35},
		{"rounding in cool band", 45, 2.5, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateSnowProbability(tt.pop, tt.tempC); got != tt.want {
				t.Errorf("EstimateSnowProbability(%d, %v) = %d, want %d", tt.pop, tt.tempC, got, tt.want)
			}
		})
	}
}
