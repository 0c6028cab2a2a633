package ipea

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ipca-api/internal/domain"
)

const (
	// DefaultBaseURL is the IPEA OData v4 endpoint
	DefaultBaseURL = "http://www.ipeadata.gov.br/api/odata4"

	// DefaultSeriesCode is the monthly IPCA number index (Dec/1993 = 100)
	DefaultSeriesCode = "PRECOS12_IPCA12"
)

// APIError represents a non-2xx answer from IPEA
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ipea api error %d: %s", e.StatusCode, e.Body)
}

// Client fetches IPCA values from the IPEA data service.
// It implements domain.SeriesProvider.
type Client struct {
	baseURL    string
	seriesCode string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// NewClient creates a new IPEA client
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		seriesCode: DefaultSeriesCode,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithSeriesCode overrides the IPEA series code. Empty keeps the default.
func WithSeriesCode(code string) ClientOption {
	return func(c *Client) {
		if code != "" {
			c.seriesCode = code
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Name identifies the provider
func (c *Client) Name() string {
	return "ipea"
}

// valoresSerieResponse is the OData envelope returned by ValoresSerie
type valoresSerieResponse struct {
	Value []valorSerie `json:"value"`
}

type valorSerie struct {
	SerCodigo string              `json:"SERCODIGO"`
	ValData   string              `json:"VALDATA"`
	ValValor  decimal.NullDecimal `json:"VALVALOR"`
}

// FetchSeries downloads the complete series
func (c *Client) FetchSeries(ctx context.Context) ([]domain.IndexPoint, error) {
	url := fmt.Sprintf("%s/ValoresSerie(SERCODIGO='%s')", c.baseURL, c.seriesCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var payload valoresSerieResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	points := make([]domain.IndexPoint, 0, len(payload.Value))
	skipped := 0
	for _, v := range payload.Value {
		if !v.ValValor.Valid {
			skipped++
			continue
		}
		period, err := parseValData(v.ValData)
		if err != nil {
			return nil, err
		}
		points = append(points, domain.IndexPoint{Period: period, Value: v.ValValor.Decimal})
	}

	c.logger.Debug("fetched IPEA series",
		"series", c.seriesCode,
		"points", len(points),
		"skipped_null", skipped,
		"duration", time.Since(start),
	)

	return points, nil
}

// parseValData reads year and month from the date prefix ("1993-12-01T00:00:00-02:00").
// Only the calendar prefix is used so the UTC offset cannot shift the month.
func parseValData(s string) (domain.Period, error) {
	if len(s) < 7 || s[4] != '-' {
		return domain.Period{}, fmt.Errorf("invalid VALDATA %q", s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return domain.Period{}, fmt.Errorf("invalid VALDATA %q: %w", s, err)
	}
	month, err := strconv.Atoi(s[5:7])
	if err != nil {
		return domain.Period{}, fmt.Errorf("invalid VALDATA %q: %w", s, err)
	}
	return domain.NewPeriod(month, year), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
