package format

import (
	"context"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/weather"
)

// MockFormatter returns deterministic output for tests and records the last
// report it received.
type MockFormatter struct {
	Response   string
	LastReport *weather.Report
}

// NewMockFormatter creates a mock that falls back to SimpleFormat when no
// canned response is set.
func NewMockFormatter(response string) *MockFormatter {
	return &MockFormatter{Response: response}
}

// Format records the report and returns the canned response.
func (m *MockFormatter) Format(_ context.Context, report weather.Report) string {
	r := report
	m.LastReport = &r
	if m.Response != "" {
		return m.Response
	}
	return SimpleFormat(report)
}
