// Package exporter drives the per-series fetch, clean and export
// pipeline and the sequential batch over the series catalog.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fredflow/catalog"
	appconfig "fredflow/config"
	"fredflow/logger"
	"fredflow/models"
	"fredflow/processor"
	"fredflow/writer"
)

// ObservationsReader fetches raw observations for one series request.
type ObservationsReader interface {
	Observations(ctx context.Context, req models.SeriesRequest) (*models.ObservationsResponse, error)
}

// ArtifactMirror copies a written artifact to remote storage.
type ArtifactMirror interface {
	Upload(ctx context.Context, localPath string, series models.CleanedSeries) error
}

// Exporter runs the fetch, clean and export pipeline for a single
// series at a time.
type Exporter struct {
	config  *appconfig.Config
	reader  ObservationsReader
	cleaner *processor.Cleaner
	csv     *writer.CSVWriter
	parquet *writer.ParquetWriter
	mirror  ArtifactMirror
	log     *logger.Log
}

// NewExporter wires the pipeline. mirror may be nil when S3 mirroring
// is disabled.
func NewExporter(cfg *appconfig.Config, reader ObservationsReader, mirror ArtifactMirror) *Exporter {
	e := &Exporter{
		config:  cfg,
		reader:  reader,
		cleaner: processor.NewCleaner(),
		mirror:  mirror,
		log:     logger.GetLogger(),
	}
	if cfg.Writer.Formats.CSV.Enabled {
		e.csv = writer.NewCSVWriter(cfg)
	}
	if cfg.Writer.Formats.Parquet.Enabled {
		e.parquet = writer.NewParquetWriter(cfg)
	}
	return e
}

// Export fetches, cleans and writes one series.
//
// Transport and parse failures and empty results come back typed so
// the batch loop can log them by kind; anything else is a plain
// wrapped error. No failure here ever aborts the batch.
func (e *Exporter) Export(ctx context.Context, req models.SeriesRequest) (models.ExportOutcome, error) {
	start := time.Now()

	resp, err := e.reader.Observations(ctx, req)
	if err != nil {
		return models.ExportOutcome{}, err
	}

	series, err := e.cleaner.Clean(resp, req)
	if err != nil {
		return models.ExportOutcome{}, err
	}

	outcome := models.ExportOutcome{
		ExportID:      uuid.New().String(),
		Name:          req.Name,
		SeriesID:      req.SeriesID,
		Rows:          len(series.Rows),
		MissingValues: series.MissingValues,
	}

	var paths []string
	if e.csv != nil {
		path, err := e.csv.Write(series)
		if err != nil {
			return models.ExportOutcome{}, fmt.Errorf("csv export of %s: %w", req.SeriesID, err)
		}
		paths = append(paths, path)
		outcome.Path = path
	}
	if e.parquet != nil {
		path, err := e.parquet.Write(series)
		if err != nil {
			return models.ExportOutcome{}, fmt.Errorf("parquet export of %s: %w", req.SeriesID, err)
		}
		paths = append(paths, path)
		if outcome.Path == "" {
			outcome.Path = path
		}
	}

	if e.mirror != nil {
		for _, path := range paths {
			if err := e.mirror.Upload(ctx, path, series); err != nil {
				e.log.WithComponent("exporter").WithError(err).WithFields(logger.Fields{
					"series_id": req.SeriesID,
					"path":      path,
				}).Warn("failed to mirror artifact, keeping local copy")
			}
		}
	}

	outcome.Duration = time.Since(start)
	return outcome, nil
}

// Summary aggregates one whole batch run.
type Summary struct {
	Attempted     int
	Exported      int
	Skipped       int
	Failed        int
	Rows          int
	MissingValues int
}

// RunBatch walks the catalog in order, exporting each series exactly
// once. Every per-series failure is logged and the loop moves on; the
// summary carries the missing-value total across all series.
func (e *Exporter) RunBatch(ctx context.Context, entries []catalog.Entry, start, end time.Time) Summary {
	log := e.log.WithComponent("exporter")

	var summary Summary
	for _, entry := range entries {
		req := models.SeriesRequest{
			Name:     entry.Name,
			SeriesID: entry.SeriesID,
			Start:    start,
			End:      end,
		}

		log.WithFields(logger.Fields{
			"name":      req.Name,
			"series_id": req.SeriesID,
		}).Info("attempting to retrieve series")

		summary.Attempted++

		outcome, err := e.Export(ctx, req)
		if err != nil {
			e.logFailure(req, err, &summary)
			continue
		}

		summary.Exported++
		summary.Rows += outcome.Rows
		summary.MissingValues += outcome.MissingValues

		log.WithFields(logger.Fields{
			"name":           req.Name,
			"series_id":      req.SeriesID,
			"export_id":      outcome.ExportID,
			"rows":           outcome.Rows,
			"missing_values": outcome.MissingValues,
			"path":           outcome.Path,
			"duration_ms":    outcome.Duration.Milliseconds(),
		}).Info("series exported")
	}

	log.WithFields(logger.Fields{
		"attempted":            summary.Attempted,
		"exported":             summary.Exported,
		"skipped":              summary.Skipped,
		"failed":               summary.Failed,
		"rows":                 summary.Rows,
		"total_missing_values": summary.MissingValues,
	}).Info("batch completed")

	log.LogMetric("exporter", "series_exported", summary.Exported, "counter", nil)
	log.LogMetric("exporter", "series_failed", summary.Failed, "counter", nil)
	log.LogMetric("exporter", "missing_values_total", summary.MissingValues, "counter", nil)

	return summary
}

func (e *Exporter) logFailure(req models.SeriesRequest, err error, summary *Summary) {
	log := e.log.WithComponent("exporter").WithFields(logger.Fields{
		"name":      req.Name,
		"series_id": req.SeriesID,
	})

	switch {
	case models.IsTransport(err):
		summary.Failed++
		log.WithError(err).Warn("fred request failed, skipping series")
	case models.IsParse(err):
		summary.Failed++
		log.WithError(err).Warn("failed to parse fred response, skipping series")
	case errors.Is(err, models.ErrEmptyResult):
		summary.Skipped++
		log.Info("no observations for series, skipping")
	default:
		summary.Failed++
		log.WithError(err).Error("unexpected failure, skipping series")
	}
}
