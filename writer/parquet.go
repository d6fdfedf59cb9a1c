package writer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	appconfig "fredflow/config"
	"fredflow/logger"
	"fredflow/models"
)

// ParquetRecord represents the structure of our parquet file
type ParquetRecord struct {
	Date    string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Value   float64 `parquet:"name=value, type=DOUBLE"`
	Missing bool    `parquet:"name=missing, type=BOOLEAN"`
}

// memoryFileWriter implements ParquetFile interface for in-memory writing
type memoryFileWriter struct {
	buffer *bytes.Buffer
}

func newMemoryFileWriter() *memoryFileWriter {
	return &memoryFileWriter{
		buffer: &bytes.Buffer{},
	}
}

func (mfw *memoryFileWriter) Create(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Open(name string) (source.ParquetFile, error) {
	return mfw, nil
}

func (mfw *memoryFileWriter) Seek(offset int64, whence int) (int64, error) {
	// For writing, we typically don't need seek functionality
	return int64(mfw.buffer.Len()), nil
}

func (mfw *memoryFileWriter) Read(b []byte) (int, error) {
	return mfw.buffer.Read(b)
}

func (mfw *memoryFileWriter) Write(b []byte) (int, error) {
	return mfw.buffer.Write(b)
}

func (mfw *memoryFileWriter) Close() error {
	return nil
}

func (mfw *memoryFileWriter) Bytes() []byte {
	return mfw.buffer.Bytes()
}

// ParquetWriter renders cleaned series as parquet files next to the CSV
// artifacts. It is optional and off by default.
type ParquetWriter struct {
	config *appconfig.Config
	log    *logger.Log
}

func NewParquetWriter(cfg *appconfig.Config) *ParquetWriter {
	return &ParquetWriter{
		config: cfg,
		log:    logger.GetLogger(),
	}
}

// Write renders series as <output_dir>/<normalized_name>.parquet with
// columns date, value and missing. Missing rows carry a zero value and
// the missing flag instead of a blank cell.
func (w *ParquetWriter) Write(series models.CleanedSeries) (string, error) {
	log := w.log.WithComponent("parquet_writer").WithFields(logger.Fields{
		"series_id": series.SeriesID,
		"rows":      len(series.Rows),
		"operation": "write_parquet",
	})

	data, err := w.createParquetFile(series)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.config.Writer.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.config.Writer.OutputDir, ArtifactName(series.Name)+".parquet")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write parquet file: %w", err)
	}

	log.WithFields(logger.Fields{
		"path":        path,
		"file_size":   len(data),
		"compression": w.config.Writer.Formats.Parquet.Compression,
	}).Info("parquet artifact written")

	return path, nil
}

func (w *ParquetWriter) createParquetFile(series models.CleanedSeries) ([]byte, error) {
	fw := newMemoryFileWriter()

	pw, err := writer.NewParquetWriter(fw, new(ParquetRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}

	switch w.config.Writer.Formats.Parquet.Compression {
	case "snappy":
		pw.CompressionType = parquet.CompressionCodec_SNAPPY
	case "gzip":
		pw.CompressionType = parquet.CompressionCodec_GZIP
	case "lzo":
		pw.CompressionType = parquet.CompressionCodec_LZO
	default:
		pw.CompressionType = parquet.CompressionCodec_UNCOMPRESSED
	}

	for _, row := range series.Rows {
		record := ParquetRecord{
			Date:    row.Date.Format(dateLayout),
			Value:   row.Value,
			Missing: row.Missing,
		}
		if err := pw.Write(record); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet writing: %w", err)
	}

	return fw.Bytes(), nil
}
