package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	appconfig "fredflow/config"
	"fredflow/logger"
	"fredflow/models"
)

const dateLayout = "2006-01-02"

// CSVWriter persists cleaned series as CSV artifacts under the
// configured output directory, one file per series.
type CSVWriter struct {
	config *appconfig.Config
	log    *logger.Log
}

func NewCSVWriter(cfg *appconfig.Config) *CSVWriter {
	return &CSVWriter{
		config: cfg,
		log:    logger.GetLogger(),
	}
}

// Write renders series as <output_dir>/<normalized_name>.csv with the
// header `date,<series_id>` and one row per retained observation.
// Missing values become blank cells. The file is written to a temp
// path and renamed so re-runs overwrite atomically.
func (w *CSVWriter) Write(series models.CleanedSeries) (string, error) {
	log := w.log.WithComponent("csv_writer").WithFields(logger.Fields{
		"series_id": series.SeriesID,
		"rows":      len(series.Rows),
		"operation": "write_csv",
	})

	if err := os.MkdirAll(w.config.Writer.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.config.Writer.OutputDir, ArtifactName(series.Name)+".csv")

	tmp, err := os.CreateTemp(w.config.Writer.OutputDir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write([]string{"date", series.SeriesID}); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range series.Rows {
		value := ""
		if !row.Missing {
			value = strconv.FormatFloat(row.Value, 'f', -1, 64)
		}
		if err := cw.Write([]string{row.Date.Format(dateLayout), value}); err != nil {
			tmp.Close()
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move csv into place: %w", err)
	}

	log.WithFields(logger.Fields{"path": path}).Info("csv artifact written")
	return path, nil
}

// ArtifactName normalizes a series display name into a file stem:
// lower-cased with spaces replaced by underscores.
func ArtifactName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
