package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		apiKey:     "test-key",
		retry: RetryPolicy{
			MaxRetries: 1,
			BaseDelay:  time.Millisecond,
			MaxDelay:   time.Millisecond,
			Sleep:      func(context.Context, time.Duration) error { return nil },
		},
	}
}

func geoHandler(t *testing.T, byQuery map[string][]GeoCandidate) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/direct" {
			http.NotFound(w, r)
			return
		}
		results, ok := byQuery[r.URL.Query().Get("q")]
		if !ok {
			results = []GeoCandidate{}
		}
		json.NewEncoder(w).Encode(results)
	}
}

func TestQueryVariants(t *testing.T) {
	tests := []struct {
		city string
		want []string
	}{
		{"東京", []string{"東京"}},
		{"東京都", []string{"東京都", "東京"}},
		{"大阪府", []string{"大阪府", "大阪"}},
		{"北海道", []string{"北海道", "北海"}},
		{"長野県", []string{"長野県", "長野"}},
	}
	for _, tt := range tests {
		got := queryVariants(tt.city)
		if len(got) != len(tt.want) {
			t.Fatalf("queryVariants(%q) = %v, want %v", tt.city, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("queryVariants(%q) = %v, want %v", tt.city, got, tt.want)
			}
		}
	}
}

func TestResolveCandidatesLiteralMatch(t *testing.T) {
	srv := httptest.NewServer(geoHandler(t, map[string][]GeoCandidate{
		"東京,JP": {{Name: "Tokyo", Lat: 35.68, Lon: 139.76}},
	}))
	defer srv.Close()

	best, candidates, err := newTestClient(srv.URL).ResolveCandidates(context.Background(), "東京", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.Lat != 35.68 || best.Lon != 139.76 {
		t.Fatalf("best = %+v", best)
	}
	if len(candidates) != 1 || candidates[0] != "Tokyo" {
		t.Errorf("candidates = %v", candidates)
	}
}

func TestResolveCandidatesSuffixFallback(t *testing.T) {
	// The literal query has no match; the suffix-stripped variant does.
	srv := httptest.NewServer(geoHandler(t, map[string][]GeoCandidate{
		"東京都,JP": {},
		"東京,JP":  {{Name: "Tokyo", Lat: 35.68, Lon: 139.76}},
	}))
	defer srv.Close()

	best, _, err := newTestClient(srv.URL).ResolveCandidates(context.Background(), "東京都", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.Lat != 35.68 {
		t.Fatalf("expected stripped variant's first result as best, got %+v", best)
	}
}

func TestResolveCandidatesTransportFailureMovesOn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "大阪府,JP" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]GeoCandidate{{Name: "Osaka", Lat: 34.69, Lon: 135.50}})
	}))
	defer srv.Close()

	best, _, err := newTestClient(srv.URL).ResolveCandidates(context.Background(), "大阪府", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best == nil || best.Lat != 34.69 {
		t.Fatalf("expected second variant to resolve, got %+v", best)
	}
}

func TestResolveCandidatesNotFound(t *testing.T) {
	srv := httptest.NewServer(geoHandler(t, nil))
	defer srv.Close()

	best, candidates, err := newTestClient(srv.URL).ResolveCandidates(context.Background(), "存在しない街", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best != nil {
		t.Errorf("best = %+v, want nil", best)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %v, want empty", candidates)
	}
}

func TestResolveCandidatesAllVariantsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv.URL).ResolveCandidates(context.Background(), "東京", 5)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestCandidateNamesDedupeAndCap(t *testing.T) {
	results := []GeoCandidate{
		{Name: "Fuchu"}, {Name: "Fuchu"}, {Name: "Fuchū"},
		{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"},
	}
	names := candidateNames(results, 5)
	if len(names) != 5 {
		t.Fatalf("names = %v, want 5 entries", names)
	}
	if names[0] != "Fuchu" || names[1] != "Fuchū" {
		t.Errorf("dedupe broke ordering: %v", names)
	}
}
