package processor

import (
	"errors"
	"testing"
	"time"

	"fredflow/models"
)

func request() models.SeriesRequest {
	return models.SeriesRequest{
		Name:     "Unemployment Rate",
		SeriesID: "UNRATE",
		Start:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestCleanCoercesValues(t *testing.T) {
	resp := &models.ObservationsResponse{
		Observations: []models.Observation{
			{Date: "2020-01-01", Value: "3.5", RealtimeStart: "x", RealtimeEnd: "y"},
			{Date: "2020-02-01", Value: ".", RealtimeStart: "x", RealtimeEnd: "y"},
			{Date: "2020-03-01", Value: "4.4"},
		},
	}

	series, err := NewCleaner().Clean(resp, request())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if series.SeriesID != "UNRATE" {
		t.Errorf("unexpected series id: %s", series.SeriesID)
	}
	if len(series.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(series.Rows))
	}
	if series.MissingValues != 1 {
		t.Errorf("expected 1 missing value, got %d", series.MissingValues)
	}

	if series.Rows[0].Missing || series.Rows[0].Value != 3.5 {
		t.Errorf("unexpected first row: %+v", series.Rows[0])
	}
	if !series.Rows[1].Missing {
		t.Errorf("sentinel value should be missing: %+v", series.Rows[1])
	}
	if series.Rows[2].Value != 4.4 {
		t.Errorf("unexpected third row: %+v", series.Rows[2])
	}
}

func TestCleanKeepsAPIOrder(t *testing.T) {
	// Rows are neither sorted nor deduplicated beyond what the API sent.
	resp := &models.ObservationsResponse{
		Observations: []models.Observation{
			{Date: "2020-03-01", Value: "2"},
			{Date: "2020-01-01", Value: "1"},
			{Date: "2020-01-01", Value: "3"},
		},
	}

	series, err := NewCleaner().Clean(resp, request())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(series.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(series.Rows))
	}
	if !series.Rows[0].Date.After(series.Rows[1].Date) {
		t.Errorf("rows were reordered: %+v", series.Rows)
	}
	if series.Rows[1].Value != 1 || series.Rows[2].Value != 3 {
		t.Errorf("duplicate dates were collapsed: %+v", series.Rows)
	}
}

func TestCleanEmptyObservations(t *testing.T) {
	cases := []*models.ObservationsResponse{
		nil,
		{},
		{Observations: []models.Observation{}},
	}
	for _, resp := range cases {
		_, err := NewCleaner().Clean(resp, request())
		if !errors.Is(err, models.ErrEmptyResult) {
			t.Errorf("expected ErrEmptyResult for %+v, got %v", resp, err)
		}
	}
}

func TestCleanDropsUnparseableDates(t *testing.T) {
	resp := &models.ObservationsResponse{
		Observations: []models.Observation{
			{Date: "not-a-date", Value: "1.0"},
			{Date: "2020-01-01", Value: "2.0"},
		},
	}

	series, err := NewCleaner().Clean(resp, request())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(series.Rows) != 1 {
		t.Fatalf("expected 1 row after dropping bad date, got %d", len(series.Rows))
	}
	if series.MissingValues != 0 {
		t.Errorf("dropped dates must not count as missing values")
	}
}

func TestCleanAllDatesUnparseable(t *testing.T) {
	resp := &models.ObservationsResponse{
		Observations: []models.Observation{{Date: "bogus", Value: "1.0"}},
	}
	_, err := NewCleaner().Clean(resp, request())
	if !errors.Is(err, models.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestCleanAllMissingStillWritten(t *testing.T) {
	// Only literal emptiness is an empty result. A series made entirely
	// of the "." sentinel keeps its rows and is still exported.
	resp := &models.ObservationsResponse{
		Observations: []models.Observation{
			{Date: "2020-01-01", Value: "."},
			{Date: "2020-02-01", Value: "."},
		},
	}

	series, err := NewCleaner().Clean(resp, request())
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(series.Rows) != 2 || series.MissingValues != 2 {
		t.Errorf("unexpected series: rows=%d missing=%d", len(series.Rows), series.MissingValues)
	}
}
