package fred

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fredflow/config"
	"fredflow/models"
)

func minimalConfig(url string) *config.Config {
	return &config.Config{
		Fetcher: config.FetcherConfig{
			Timeout:   time.Second,
			UserAgent: "fredflow-test",
			RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, BurstSize: 100},
			ConnectionPool: config.ConnectionPoolConfig{
				MaxIdleConns:    1,
				MaxConnsPerHost: 1,
				IdleConnTimeout: time.Second,
			},
		},
		Source: config.SourceConfig{
			Fred: config.FredSourceConfig{URL: url, FileType: "json"},
		},
	}
}

func testRequest() models.SeriesRequest {
	return models.SeriesRequest{
		Name:     "Unemployment Rate",
		SeriesID: "UNRATE",
		Start:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestObservationsSuccess(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"series_id":         q.Get("series_id"),
			"api_key":           q.Get("api_key"),
			"file_type":         q.Get("file_type"),
			"observation_start": q.Get("observation_start"),
			"observation_end":   q.Get("observation_end"),
			"user_agent":        r.Header.Get("User-Agent"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"observations": [{"date": "2020-01-01", "value": "3.5", "realtime_start": "x", "realtime_end": "y"}]}`))
	}))
	defer srv.Close()

	client := NewClient(minimalConfig(srv.URL), "secret-key")
	resp, err := client.Observations(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Observations failed: %v", err)
	}

	if len(resp.Observations) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(resp.Observations))
	}
	obs := resp.Observations[0]
	if obs.Date != "2020-01-01" || obs.Value != "3.5" {
		t.Errorf("unexpected observation: %+v", obs)
	}

	want := map[string]string{
		"series_id":         "UNRATE",
		"api_key":           "secret-key",
		"file_type":         "json",
		"observation_start": "1990-01-01",
		"observation_end":   "2020-12-31",
		"user_agent":        "fredflow-test",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("request %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestObservationsNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(minimalConfig(srv.URL), "key")
	_, err := client.Observations(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error for 400 response")
	}

	var te *models.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if te.Status != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", te.Status)
	}
}

func TestObservationsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(minimalConfig(srv.URL), "key")
	_, err := client.Observations(context.Background(), testRequest())
	if !models.IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestObservationsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations": [`))
	}))
	defer srv.Close()

	client := NewClient(minimalConfig(srv.URL), "key")
	_, err := client.Observations(context.Background(), testRequest())
	if !models.IsParse(err) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestObservationsErrorHidesAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(minimalConfig(srv.URL), "super-secret")
	_, err := client.Observations(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "super-secret") {
		t.Errorf("error text leaks the api key: %v", err)
	}
}
