package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Hiro-Kanda/AeroCast-Engine/internal/format"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/session"
	"github.com/Hiro-Kanda/AeroCast-Engine/internal/weather"
)

type fakeGateway struct {
	fact *weather.Fact
	err  error

	lastCity string
	lastDays int
	calls    int
}

func (g *fakeGateway) FetchWeather(_ context.Context, city string, days int) (*weather.Fact, error) {
	g.calls++
	g.lastCity = city
	g.lastDays = days
	if g.err != nil {
		return nil, g.err
	}
	fact := *g.fact
	fact.City = city
	return &fact, nil
}

func tokyoFact() *weather.Fact {
	return &weather.Fact{
		City:            "東京",
		Description:     "晴天",
		TempC:           22.0,
		FeelsLikeC:      21.0,
		HumidityPct:     55,
		RainProbability: 10,
		WindSpeedMS:     3.0,
		Kind:            weather.KindCurrent,
	}
}

func newTestAgent(gw *fakeGateway) (*Agent, *session.Store, *format.MockFormatter) {
	store := session.NewStore(session.DefaultTTL)
	fm := &format.MockFormatter{Response: "formatted answer"}
	return New(store, gw, fm), store, fm
}

func TestResolveHappyPath(t *testing.T) {
	gw := &fakeGateway{fact: tokyoFact()}
	a, store, fm := newTestAgent(gw)

	answer := a.Resolve(context.Background(), "s1", "東京の天気を教えて")
	if answer != "formatted answer" {
		t.Fatalf("answer = %q", answer)
	}
	if gw.lastCity != "東京" || gw.lastDays != 0 {
		t.Errorf("gateway called with (%q, %d)", gw.lastCity, gw.lastDays)
	}
	if fm.LastReport == nil || fm.LastReport.Fact.City != "東京" {
		t.Errorf("formatter received %+v", fm.LastReport)
	}

	c := store.Get("s1")
	if c.LastCity != "東京" || c.LastDays == nil || *c.LastDays != 0 {
		t.Errorf("session not updated: %+v", c)
	}
}

func TestResolveRejectsNonWeatherInput(t *testing.T) {
	gw := &fakeGateway{fact: tokyoFact()}
	a, _, _ := newTestAgent(gw)

	answer := a.Resolve(context.Background(), "s1", "こんにちは")
	if answer != msgWeatherOnly {
		t.Errorf("answer = %q, want %q", answer, msgWeatherOnly)
	}
	if gw.calls != 0 {
		t.Errorf("gateway should not be called, got %d calls", gw.calls)
	}
}

func TestResolveFollowUpCarriesCity(t *testing.T) {
	gw := &fakeGateway{fact: tokyoFact()}
	a, _, _ := newTestAgent(gw)

	a.Resolve(context.Background(), "s1", "大阪の天気は？")
	a.Resolve(context.Background(), "s1", "明日は？")

	if gw.lastCity != "大阪" || gw.lastDays != 1 {
		t.Errorf("follow-up fetched (%q, %d), want (大阪, 1)", gw.lastCity, gw.lastDays)
	}
}

func TestResolveSessionsAreIsolated(t *testing.T) {
	gw := &fakeGateway{fact: tokyoFact()}
	a, _, _ := newTestAgent(gw)

	a.Resolve(context.Background(), "s1", "大阪の天気は？")

	// A different session has no city to inherit.
	answer := a.Resolve(context.Background(), "s2", "明日は？")
	if answer != msgWeatherOnly {
		t.Errorf("answer = %q, want %q", answer, msgWeatherOnly)
	}
}

func TestResolveOutOfRangeDays(t *testing.T) {
	gw := &fakeGateway{fact: tokyoFact()}
	a, _, _ := newTestAgent(gw)

	// The parser rejects out-of-range explicit offsets outright.
	answer := a.Resolve(context.Background(), "s1", "6日後の東京の天気")
	if answer != msgWeatherOnly {
		t.Errorf("answer = %q, want %q", answer, msgWeatherOnly)
	}
	if gw.calls != 0 {
		t.Error("gateway must not be called for an invalid offset")
	}
}

func TestResolveTypedErrorsSurfaceVerbatim(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"city not found",
			&weather.CityNotFoundError{City: "東京"},
			"地名「東京」を解決できませんでした",
		},
		{
			"ambiguous city",
			&weather.AmbiguousCityError{City: "府中", Candidates: []string{"Fuchu, Tokyo", "Fuchu, Hiroshima"}},
			"地名「府中」に複数の候補が見つかりました。候補: Fuchu, Tokyo、Fuchu, Hiroshima",
		},
		{
			"api failure",
			&weather.APIError{Message: "予報データの取得に失敗しました", Err: errors.New("500")},
			"予報データの取得に失敗しました",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _ := newTestAgent(&fakeGateway{err: tt.err})
			answer := a.Resolve(context.Background(), "s1", "東京の天気")
			if answer != tt.want {
				t.Errorf("answer = %q, want %q", answer, tt.want)
			}
		})
	}
}

func TestResolveUnexpectedErrorHidesInternals(t *testing.T) {
	a, _, _ := newTestAgent(&fakeGateway{err: errors.New("pq: connection reset by peer")})

	answer := a.Resolve(context.Background(), "s1", "東京の天気")
	if answer != msgFetchFailed {
		t.Errorf("answer = %q, want %q", answer, msgFetchFailed)
	}
	if strings.Contains(answer, "pq:") {
		t.Error("internal error text leaked to the user")
	}
}

func TestResolveFailedFetchStillRemembersIntent(t *testing.T) {
	a, store, _ := newTestAgent(&fakeGateway{err: &weather.CityNotFoundError{City: "謎の街"}})

	a.Resolve(context.Background(), "s1", "謎の街の天気")
	c := store.Get("s1")
	if c.LastCity != "謎の街" {
		t.Errorf("session should remember the parsed city, got %+v", c)
	}
}

func TestNextActionPriorityOrder(t *testing.T) {
	a, _, _ := newTestAgent(&fakeGateway{fact: tokyoFact()})
	days := 2
	badDays := 9

	tests := []struct {
		name  string
		state *State
		want  Action
	}{
		{"fresh turn parses first", &State{}, ActionParseIntent},
		{"missing days still parses", &State{IntentLabel: "forecast"}, ActionParseIntent},
		{"invalid days validates", &State{IntentLabel: "forecast", Days: &badDays, City: "東京"}, ActionValidate},
		{"missing city clarifies", &State{IntentLabel: "forecast", Days: &days}, ActionAskClarification},
		{"no fact fetches", &State{IntentLabel: "forecast", Days: &days, City: "東京"}, ActionFetchWeather},
		{"fact present formats", &State{IntentLabel: "forecast", Days: &days, City: "東京", Fact: tokyoFact()}, ActionFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.nextAction(tt.state); got != tt.want {
				t.Errorf("nextAction = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveStepBudget(t *testing.T) {
	gw := &fakeGateway{fact: tokyoFact()}
	a, _, _ := newTestAgent(gw)

	a.Resolve(context.Background(), "s1", "東京の天気")
	if gw.calls != 1 {
		t.Errorf("gateway calls = %d, want exactly 1 per turn", gw.calls)
	}
}
