package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "fredflow/config"
	"fredflow/logger"
	"fredflow/models"
)

// S3Mirror copies written artifacts to an S3 bucket. Uploads are best
// effort; a mirror failure never fails the series that produced the
// artifact.
type S3Mirror struct {
	config   *appconfig.Config
	s3Client *s3.Client
	log      *logger.Log
}

// NewS3Mirror builds an S3 client from the storage configuration,
// honouring static credentials, custom endpoints and path-style
// addressing.
func NewS3Mirror(cfg *appconfig.Config) (*S3Mirror, error) {
	log := logger.GetLogger()

	ctx := context.Background()

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Storage.S3.Region),
	}
	if cfg.Storage.S3.AccessKeyID != "" && cfg.Storage.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Storage.S3.AccessKeyID,
				cfg.Storage.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.WithComponent("s3_mirror").WithError(err).Warn("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsConfig.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Storage.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.S3.Endpoint)
		}
		o.UsePathStyle = cfg.Storage.S3.PathStyle
	})

	mirror := &S3Mirror{
		config:   cfg,
		s3Client: s3Client,
		log:      log,
	}

	log.WithComponent("s3_mirror").WithFields(logger.Fields{
		"bucket":     cfg.Storage.S3.Bucket,
		"region":     cfg.Storage.S3.Region,
		"endpoint":   cfg.Storage.S3.Endpoint,
		"path_style": cfg.Storage.S3.PathStyle,
	}).Info("s3 mirror initialized")

	return mirror, nil
}

// Upload copies the artifact at localPath to the mirror bucket under a
// series and export-date partitioned key.
func (m *S3Mirror) Upload(ctx context.Context, localPath string, series models.CleanedSeries) error {
	log := m.log.WithComponent("s3_mirror").WithFields(logger.Fields{
		"series_id": series.SeriesID,
		"path":      localPath,
		"operation": "upload",
	})

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", localPath, err)
	}

	key := m.objectKey(series, filepath.Base(localPath))

	input := &s3.PutObjectInput{
		Bucket:      aws.String(m.config.Storage.S3.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(localPath)),
		Metadata: map[string]string{
			"upload-id":        uuid.New().String(),
			"series-id":        series.SeriesID,
			"fredflow-version": m.config.Fredflow.Version,
		},
	}

	if _, err := m.s3Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3 bucket %s: %w", m.config.Storage.S3.Bucket, err)
	}

	log.WithFields(logger.Fields{
		"s3_key":    key,
		"data_size": len(data),
	}).Info("artifact mirrored to S3")

	return nil
}

func (m *S3Mirror) objectKey(series models.CleanedSeries, filename string) string {
	exportDate := time.Now().UTC().Format("2006-01-02")
	return path.Join(
		m.config.Storage.S3.Prefix,
		fmt.Sprintf("series=%s", series.SeriesID),
		fmt.Sprintf("export_date=%s", exportDate),
		filename,
	)
}

func contentType(localPath string) string {
	switch filepath.Ext(localPath) {
	case ".csv":
		return "text/csv"
	case ".parquet":
		return "application/octet-stream"
	default:
		return "application/octet-stream"
	}
}
