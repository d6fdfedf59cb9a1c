package writer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	appconfig "fredflow/config"
	"fredflow/models"
)

func writerConfig(t *testing.T) *appconfig.Config {
	t.Helper()
	return &appconfig.Config{
		Writer: appconfig.WriterConfig{
			OutputDir: t.TempDir(),
			Formats: appconfig.FormatsConfig{
				CSV:     appconfig.CSVConfig{Enabled: true},
				Parquet: appconfig.ParquetConfig{Enabled: true, Compression: "snappy"},
			},
		},
	}
}

func sampleSeries() models.CleanedSeries {
	return models.CleanedSeries{
		Name:     "Unemployment Rate",
		SeriesID: "UNRATE",
		Rows: []models.CleanedRow{
			{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Value: 3.5},
		},
	}
}

func TestCSVWriteContent(t *testing.T) {
	cfg := writerConfig(t)
	w := NewCSVWriter(cfg)

	path, err := w.Write(sampleSeries())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if filepath.Base(path) != "unemployment_rate.csv" {
		t.Errorf("unexpected artifact name: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	want := "date,UNRATE\n2020-01-01,3.5\n"
	if string(data) != want {
		t.Errorf("unexpected content:\n got %q\nwant %q", string(data), want)
	}
}

func TestCSVWriteMissingValuesAsBlankCells(t *testing.T) {
	cfg := writerConfig(t)
	w := NewCSVWriter(cfg)

	series := models.CleanedSeries{
		Name:     "Test Series",
		SeriesID: "TEST",
		Rows: []models.CleanedRow{
			{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Value: 1.25},
			{Date: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), Missing: true},
		},
		MissingValues: 1,
	}

	path, err := w.Write(series)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	want := "date,TEST\n2020-01-01,1.25\n2020-02-01,\n"
	if string(data) != want {
		t.Errorf("unexpected content:\n got %q\nwant %q", string(data), want)
	}
}

func TestCSVWriteIsIdempotent(t *testing.T) {
	cfg := writerConfig(t)
	w := NewCSVWriter(cfg)

	path1, err := w.Write(sampleSeries())
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	first, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("read first artifact: %v", err)
	}

	path2, err := w.Write(sampleSeries())
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if path1 != path2 {
		t.Fatalf("path changed between runs: %s vs %s", path1, path2)
	}
	second, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("read second artifact: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("re-run produced different content")
	}

	entries, err := os.ReadDir(cfg.Writer.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one artifact, found %d", len(entries))
	}
}

func TestArtifactName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Unemployment Rate", "unemployment_rate"},
		{"S&P 500 Index", "s&p_500_index"},
		{"M2SL", "m2sl"},
	}
	for _, c := range cases {
		if got := ArtifactName(c.in); got != c.want {
			t.Errorf("ArtifactName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParquetWrite(t *testing.T) {
	cfg := writerConfig(t)
	w := NewParquetWriter(cfg)

	path, err := w.Write(sampleSeries())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	if info.Size() == 0 {
		t.Error("parquet artifact is empty")
	}
	if filepath.Ext(path) != ".parquet" {
		t.Errorf("unexpected extension: %s", path)
	}
}

func TestS3ObjectKeyLayout(t *testing.T) {
	cfg := writerConfig(t)
	cfg.Storage.S3.Prefix = "fredflow"
	m := &S3Mirror{config: cfg}

	key := m.objectKey(sampleSeries(), "unemployment_rate.csv")
	want := "fredflow/series=UNRATE/export_date=" + time.Now().UTC().Format("2006-01-02") + "/unemployment_rate.csv"
	if key != want {
		t.Errorf("unexpected key:\n got %s\nwant %s", key, want)
	}
}

func TestContentType(t *testing.T) {
	if got := contentType("data/x.csv"); got != "text/csv" {
		t.Errorf("csv content type: %s", got)
	}
	if got := contentType("data/x.parquet"); got != "application/octet-stream" {
		t.Errorf("parquet content type: %s", got)
	}
}
