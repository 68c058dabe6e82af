// Package swpc fetches NOAA SWPC real-time solar wind products over HTTP.
package swpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/solar-wind-etl/internal/config"
	"github.com/couchcryptid/solar-wind-etl/internal/domain"
	"github.com/couchcryptid/solar-wind-etl/internal/observability"
)

// Client fetches and parses SWPC JSON table products. It performs a single
// GET per call with no retry or caching; the pipeline owns backoff.
type Client struct {
	baseURL    string
	window     string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a SWPC product client for the configured window.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.SWPCBaseURL,
		window:  cfg.SWPCWindow,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchMagnetometer retrieves and parses the magnetometer product for the
// client's window.
func (c *Client) FetchMagnetometer(ctx context.Context) ([]domain.MagReading, error) {
	return fetchProduct(ctx, c, domain.MagnetometerSchema, "mag", domain.ParseMagnetometer)
}

// FetchPlasma retrieves and parses the plasma product for the client's window.
func (c *Client) FetchPlasma(ctx context.Context) ([]domain.PlasmaReading, error) {
	return fetchProduct(ctx, c, domain.PlasmaSchema, "plasma", domain.ParsePlasma)
}

// fetchProduct GETs one product document, classifies every cell, validates
// the declared header against the schema, and parses the data rows.
func fetchProduct[R any](
	ctx context.Context,
	c *Client,
	schema domain.Schema,
	prefix string,
	parse func([][]domain.CellValue) ([]R, error),
) ([]R, error) {
	rows, err := c.fetchTable(ctx, schema, fmt.Sprintf("%s-%s.json", prefix, c.window))
	if err != nil {
		return nil, err
	}

	records, err := parse(rows)
	if err != nil {
		c.metrics.ParseErrors.WithLabelValues(schema.Name).Inc()
		return nil, err
	}
	c.metrics.RowsParsed.WithLabelValues(schema.Name).Add(float64(len(records)))
	c.logger.Debug("fetched SWPC product", "product", schema.Name, "rows", len(records))
	return records, nil
}

// fetchTable returns a product's classified data rows, header excluded.
func (c *Client) fetchTable(ctx context.Context, schema domain.Schema, product string) ([][]domain.CellValue, error) {
	start := time.Now()
	defer func() {
		c.metrics.FetchDuration.WithLabelValues(schema.Name).Observe(time.Since(start).Seconds())
	}()

	url := fmt.Sprintf("%s/%s", c.baseURL, product)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchesTotal.WithLabelValues(schema.Name, "error").Inc()
		return nil, fmt.Errorf("fetch %s product: %w", schema.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchesTotal.WithLabelValues(schema.Name, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("SWPC API error: status %d: %s", resp.StatusCode, body)
	}

	var table [][]any
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		c.metrics.FetchesTotal.WithLabelValues(schema.Name, "error").Inc()
		return nil, fmt.Errorf("decode %s product: %w", schema.Name, err)
	}
	if len(table) == 0 {
		c.metrics.FetchesTotal.WithLabelValues(schema.Name, "error").Inc()
		return nil, fmt.Errorf("%s product has no header row", schema.Name)
	}

	rows, err := domain.ClassifyRows(table)
	if err != nil {
		c.metrics.FetchesTotal.WithLabelValues(schema.Name, "error").Inc()
		return nil, err
	}

	if err := validateHeader(schema, rows[0]); err != nil {
		c.metrics.FetchesTotal.WithLabelValues(schema.Name, "error").Inc()
		return nil, err
	}

	c.metrics.FetchesTotal.WithLabelValues(schema.Name, "success").Inc()
	return rows[1:], nil
}

// validateHeader checks the document's declared header row against the
// schema's expected column names.
func validateHeader(schema domain.Schema, header []domain.CellValue) error {
	if len(header) != len(schema.Header) {
		return fmt.Errorf("unexpected %s header: got %d columns, want %d", schema.Name, len(header), len(schema.Header))
	}
	for i, cell := range header {
		if cell.AsText() != schema.Header[i] {
			return fmt.Errorf("unexpected %s header: column %d is %q, want %q", schema.Name, i, cell.AsText(), schema.Header[i])
		}
	}
	return nil
}
