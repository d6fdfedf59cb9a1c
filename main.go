package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fredflow/catalog"
	"fredflow/config"
	"fredflow/exporter"
	"fredflow/logger"
	"fredflow/reader/fred"
	"fredflow/writer"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service":     cfg.Fredflow.Name,
		"version":     cfg.Fredflow.Version,
		"environment": config.AppEnvironment(),
	}).Info("starting fredflow")

	apiKey := os.Getenv("FRED_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: FRED_API_KEY not found in environment variables.")
		fmt.Fprintln(os.Stderr, "Create a .env file next to the binary with the content:")
		fmt.Fprintln(os.Stderr, "FRED_API_KEY=YOUR_ACTUAL_FRED_API_KEY")
		fmt.Fprintln(os.Stderr, "You can get one for free at: https://fred.stlouisfed.org/docs/api/api_key.html")
		os.Exit(1)
	}

	if cfg.Metrics.CloudWatch.Enabled {
		logger.InitCloudWatch(cfg.Metrics.CloudWatch.Region, cfg.Metrics.CloudWatch.Namespace)
	}

	start, end, err := cfg.ObservationWindow()
	if err != nil {
		log.WithError(err).Error("Invalid observation window")
		os.Exit(1)
	}

	client := fred.NewClient(cfg, apiKey)

	var mirror exporter.ArtifactMirror
	if cfg.Storage.S3.Enabled {
		m, err := writer.NewS3Mirror(cfg)
		if err != nil {
			log.WithError(err).Error("failed to create S3 mirror")
			os.Exit(1)
		}
		mirror = m
	}

	ex := exporter.NewExporter(cfg, client, mirror)

	log.WithFields(logger.Fields{
		"series":            len(catalog.Default),
		"observation_start": start.Format("2006-01-02"),
		"observation_end":   end.Format("2006-01-02"),
		"output_dir":        cfg.Writer.OutputDir,
	}).Info("starting export batch")

	summary := ex.RunBatch(context.Background(), catalog.Default, start, end)

	fmt.Println("\n--- Data Fetching Process Completed ---")
	fmt.Printf("Total number of missing values found across all fetched series: %d\n", summary.MissingValues)

	log.Info("fredflow stopped")
}
