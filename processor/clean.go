// Package processor turns raw FRED observation payloads into cleaned,
// write-ready series tables.
package processor

import (
	"fmt"
	"strconv"
	"time"

	"fredflow/logger"
	"fredflow/models"
)

const dateLayout = "2006-01-02"

// Cleaner coerces raw observations into a CleanedSeries. The realtime
// validity window fields present on every FRED observation are
// projected out here; they never reach an artifact.
type Cleaner struct {
	log *logger.Log
}

func NewCleaner() *Cleaner {
	return &Cleaner{log: logger.GetLogger()}
}

// Clean converts resp into a CleanedSeries for the given series.
//
// Values that fail float coercion (such as the FRED "." sentinel)
// become missing rows and are counted, never an error. Rows whose date
// cannot be parsed are dropped. Rows keep the order the API returned
// them. A response without observations, or one where every row was
// dropped, yields models.ErrEmptyResult.
func (c *Cleaner) Clean(resp *models.ObservationsResponse, req models.SeriesRequest) (models.CleanedSeries, error) {
	log := c.log.WithComponent("cleaner").WithFields(logger.Fields{
		"series_id": req.SeriesID,
		"operation": "clean",
	})

	series := models.CleanedSeries{
		Name:     req.Name,
		SeriesID: req.SeriesID,
	}

	if resp == nil || len(resp.Observations) == 0 {
		return series, fmt.Errorf("series %s: %w", req.SeriesID, models.ErrEmptyResult)
	}

	series.Rows = make([]models.CleanedRow, 0, len(resp.Observations))

	for _, obs := range resp.Observations {
		date, err := time.Parse(dateLayout, obs.Date)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"raw_date": obs.Date}).Warn("failed to parse observation date, dropping row")
			continue
		}

		row := models.CleanedRow{Date: date}
		if value, err := strconv.ParseFloat(obs.Value, 64); err == nil {
			row.Value = value
		} else {
			row.Missing = true
			series.MissingValues++
		}

		series.Rows = append(series.Rows, row)
	}

	if series.Empty() {
		return series, fmt.Errorf("series %s: %w", req.SeriesID, models.ErrEmptyResult)
	}

	if series.MissingValues > 0 {
		log.WithFields(logger.Fields{
			"missing_values": series.MissingValues,
			"rows":           len(series.Rows),
		}).Info("series contains missing values")
	}

	return series, nil
}
