package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Fredflow FredflowConfig `yaml:"fredflow"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Source   SourceConfig   `yaml:"source"`
	Writer   WriterConfig   `yaml:"writer"`
	Storage  StorageConfig  `yaml:"storage"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type FredflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type FetcherConfig struct {
	Timeout        time.Duration        `yaml:"timeout"`
	UserAgent      string               `yaml:"user_agent"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type SourceConfig struct {
	Fred FredSourceConfig `yaml:"fred"`
}

type FredSourceConfig struct {
	URL              string `yaml:"url"`
	FileType         string `yaml:"file_type"`
	ObservationStart string `yaml:"observation_start"`
	ObservationEnd   string `yaml:"observation_end"`
}

type WriterConfig struct {
	OutputDir string        `yaml:"output_dir"`
	Formats   FormatsConfig `yaml:"formats"`
}

type FormatsConfig struct {
	CSV     CSVConfig     `yaml:"csv"`
	Parquet ParquetConfig `yaml:"parquet"`
}

type CSVConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ParquetConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Compression string `yaml:"compression"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

// dateLayout is the calendar date format the FRED API expects for the
// observation window parameters.
const dateLayout = "2006-01-02"

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Fetcher: FetcherConfig{
			Timeout:   30 * time.Second,
			UserAgent: "fredflow",
			RateLimit: RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2},
			ConnectionPool: ConnectionPoolConfig{
				MaxIdleConns:    4,
				MaxConnsPerHost: 4,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		Source: SourceConfig{
			Fred: FredSourceConfig{
				URL:              "https://api.stlouisfed.org/fred/series/observations",
				FileType:         "json",
				ObservationStart: "1990-01-01",
			},
		},
		Writer: WriterConfig{
			OutputDir: "data",
			Formats:   FormatsConfig{CSV: CSVConfig{Enabled: true}},
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override source and S3 settings from environment variables if available
	if v := os.Getenv("FRED_API_URL"); v != "" {
		config.Source.Fred.URL = strings.TrimSpace(v)
	}
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ObservationWindow resolves the configured observation window into
// calendar dates. An empty observation_end means "today".
func (c *Config) ObservationWindow() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, c.Source.Fred.ObservationStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid source.fred.observation_start: %w", err)
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if c.Source.Fred.ObservationEnd != "" {
		end, err = time.Parse(dateLayout, c.Source.Fred.ObservationEnd)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid source.fred.observation_end: %w", err)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("observation window ends (%s) before it starts (%s)",
			end.Format(dateLayout), start.Format(dateLayout))
	}

	return start, end, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Fredflow.Name == "" {
		return fmt.Errorf("fredflow.name is required")
	}

	if cfg.Fredflow.Version == "" {
		return fmt.Errorf("fredflow.version is required")
	}

	if cfg.Fetcher.Timeout <= 0 {
		return fmt.Errorf("fetcher.timeout must be greater than 0")
	}

	if cfg.Fetcher.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("fetcher.rate_limit.requests_per_second must be greater than 0")
	}

	if cfg.Source.Fred.URL == "" {
		return fmt.Errorf("source.fred.url is required")
	}

	if cfg.Source.Fred.FileType != "json" {
		return fmt.Errorf("source.fred.file_type '%s' is unsupported, only json is", cfg.Source.Fred.FileType)
	}

	if _, _, err := cfg.ObservationWindow(); err != nil {
		return err
	}

	if cfg.Writer.OutputDir == "" {
		return fmt.Errorf("writer.output_dir is required")
	}

	if !cfg.Writer.Formats.CSV.Enabled && !cfg.Writer.Formats.Parquet.Enabled {
		return fmt.Errorf("at least one writer format must be enabled")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if IsProductionLike(AppEnvironment()) && (cfg.Storage.S3.AccessKeyID == "" || cfg.Storage.S3.SecretAccessKey == "") {
			return fmt.Errorf("storage.s3.access_key_id and storage.s3.secret_access_key are required when S3 is enabled in %s", AppEnvironment())
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
