package models

import (
	"time"
)

// SeriesRequest describes a single series to fetch from the FRED
// observations endpoint. Immutable once constructed.
type SeriesRequest struct {
	Name     string
	SeriesID string
	Start    time.Time
	End      time.Time
}

// Observation is one raw (date, value) point as returned by the API.
// Value is a string because FRED encodes missing points with a "."
// sentinel instead of a number.
type Observation struct {
	RealtimeStart string `json:"realtime_start"`
	RealtimeEnd   string `json:"realtime_end"`
	Date          string `json:"date"`
	Value         string `json:"value"`
}

// ObservationsResponse is the JSON envelope of the FRED observations
// endpoint. Only the fields the pipeline consumes are mapped.
type ObservationsResponse struct {
	RealtimeStart    string        `json:"realtime_start"`
	RealtimeEnd      string        `json:"realtime_end"`
	ObservationStart string        `json:"observation_start"`
	ObservationEnd   string        `json:"observation_end"`
	Units            string        `json:"units"`
	Count            int           `json:"count"`
	Observations     []Observation `json:"observations"`
}

// CleanedRow is a single coerced observation. Missing marks rows whose
// raw value could not be parsed as a float; such rows are kept and
// rendered as blank cells in the artifact.
type CleanedRow struct {
	Date    time.Time
	Value   float64
	Missing bool
}

// CleanedSeries is the in-memory table produced from one API response.
// Rows stay in the order the API returned them; nothing is sorted or
// deduplicated.
type CleanedSeries struct {
	Name          string
	SeriesID      string
	Rows          []CleanedRow
	MissingValues int
}

// Empty reports whether the series holds no rows at all. A series that
// contains only missing values is not empty and is still written.
func (s CleanedSeries) Empty() bool {
	return len(s.Rows) == 0
}

// ExportOutcome summarises one successfully exported series. The driver
// sums MissingValues across outcomes for the end-of-run report.
type ExportOutcome struct {
	ExportID      string
	Name          string
	SeriesID      string
	Rows          int
	MissingValues int
	Path          string
	Duration      time.Duration
}
