package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	appconfig "fredflow/config"
	"fredflow/logger"
	"fredflow/models"
)

// dateLayout is the calendar date format used by the FRED query
// parameters and response payloads.
const dateLayout = "2006-01-02"

// Client fetches series observations from the FRED REST API. One
// blocking request is issued per series; the limiter keeps the batch
// inside the API request budget.
type Client struct {
	config     *appconfig.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	log        *logger.Log
}

// NewClient creates a FRED observations client with a tuned transport
// and an explicit request timeout.
func NewClient(cfg *appconfig.Config, apiKey string) *Client {
	log := logger.GetLogger()

	transport := &http.Transport{
		MaxIdleConns:        cfg.Fetcher.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Fetcher.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     cfg.Fetcher.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Fetcher.ConnectionPool.IdleConnTimeout,
		DisableCompression:  false,
	}

	httpClient := &http.Client{
		Transport: userAgentTransport{agent: cfg.Fetcher.UserAgent, base: transport},
		Timeout:   cfg.Fetcher.Timeout,
	}

	limiter := rate.NewLimiter(
		rate.Limit(cfg.Fetcher.RateLimit.RequestsPerSecond),
		cfg.Fetcher.RateLimit.BurstSize,
	)

	client := &Client{
		config:     cfg,
		httpClient: httpClient,
		limiter:    limiter,
		apiKey:     apiKey,
		log:        log,
	}

	log.WithComponent("fred_reader").WithFields(logger.Fields{
		"url":                cfg.Source.Fred.URL,
		"timeout":            cfg.Fetcher.Timeout,
		"max_conns_per_host": cfg.Fetcher.ConnectionPool.MaxConnsPerHost,
		"requests_per_sec":   cfg.Fetcher.RateLimit.RequestsPerSecond,
	}).Info("fred reader initialized")

	return client
}

// Observations fetches all observations of req.SeriesID within the
// request window. Network failures, timeouts and non-2xx statuses come
// back as *models.TransportError, malformed bodies as
// *models.ParseError. The API key never appears in errors or logs.
func (c *Client) Observations(ctx context.Context, req models.SeriesRequest) (*models.ObservationsResponse, error) {
	log := c.log.WithComponent("fred_reader").WithFields(logger.Fields{
		"series_id": req.SeriesID,
		"operation": "fetch_observations",
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.TransportError{SeriesID: req.SeriesID, Err: fmt.Errorf("rate limiter wait: %w", err)}
	}

	reqURL, err := c.buildURL(req)
	if err != nil {
		return nil, &models.TransportError{SeriesID: req.SeriesID, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.TransportError{SeriesID: req.SeriesID, Err: fmt.Errorf("failed to build request: %w", err)}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &models.TransportError{SeriesID: req.SeriesID, Err: err}
	}
	defer resp.Body.Close()
	duration := time.Since(start)

	logger.LogPerformanceEntry(log, "fred_reader", "api_request", duration, logger.Fields{
		"series_id": req.SeriesID,
		"status":    resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, &models.TransportError{SeriesID: req.SeriesID, Status: resp.StatusCode}
	}

	var observations models.ObservationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		return nil, &models.ParseError{SeriesID: req.SeriesID, Err: err}
	}

	log.WithFields(logger.Fields{
		"observations": len(observations.Observations),
		"duration_ms":  duration.Milliseconds(),
	}).Debug("observations fetched")

	return &observations, nil
}

func (c *Client) buildURL(req models.SeriesRequest) (string, error) {
	base, err := url.Parse(c.config.Source.Fred.URL)
	if err != nil {
		return "", fmt.Errorf("invalid fred url: %w", err)
	}

	q := url.Values{}
	q.Set("series_id", req.SeriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", c.config.Source.Fred.FileType)
	q.Set("observation_start", req.Start.Format(dateLayout))
	q.Set("observation_end", req.End.Format(dateLayout))
	base.RawQuery = q.Encode()

	return base.String(), nil
}
