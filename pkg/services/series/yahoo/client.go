// Package yahoo implements series.Fetcher on top of the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/de-tools/stock-reports/pkg/models/domain"
	"github.com/de-tools/stock-reports/pkg/services/series"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0"

	notFoundCode = "Not Found"
)

var _ series.Fetcher = (*Client)(nil)

type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying client. The client itself is never
// modified; WithTimeout applies to a copy.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}

	return c
}

func (c *Client) Name() string { return "yahoo" }

// APIError is a non-200 answer from the chart endpoint.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("yahoo: status %d", e.StatusCode)
	}
	return fmt.Sprintf("yahoo: status %d: %s: %s", e.StatusCode, e.Code, e.Description)
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// Fetch asks for daily bars with period1 = start and period2 = end, both at
// 00:00 UTC. Yahoo treats period2 as exclusive.
func (c *Client) Fetch(ctx context.Context, symbol string, start, end time.Time) (domain.Series, error) {
	logger := zerolog.Ctx(ctx)

	chart, err := c.fetchChart(ctx, symbol, start, end)
	if err != nil {
		return domain.Series{}, err
	}

	s, err := toSeries(chart)
	if err != nil {
		return domain.Series{}, err
	}
	if s.Len() == 0 {
		return domain.Series{}, fmt.Errorf("%w: %s between %s and %s",
			domain.ErrNoData, symbol, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}

	logger.Debug().
		Str("provider", c.Name()).
		Str("symbol", symbol).
		Int("points", s.Len()).
		Msg("series fetched")

	return s, nil
}

func (c *Client) fetchChart(ctx context.Context, symbol string, start, end time.Time) (*chartResponse, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(utcMidnight(start).Unix(), 10))
	params.Set("period2", strconv.FormatInt(utcMidnight(end).Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "history")
	params.Set("includeAdjustedClose", "true")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrProvider, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrProvider, err)
	}

	var chart chartResponse
	decodeErr := json.Unmarshal(body, &chart)

	if chart.Chart.Error != nil && chart.Chart.Error.Code == notFoundCode {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrNoData, symbol, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if chart.Chart.Error != nil {
			apiErr.Code = chart.Chart.Error.Code
			apiErr.Description = chart.Chart.Error.Description
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrProvider, apiErr)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode chart: %v", domain.ErrProvider, decodeErr)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrProvider, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}

	return &chart, nil
}

// toSeries zips the column arrays into rows, dropping bars with no prices.
func toSeries(chart *chartResponse) (domain.Series, error) {
	s := domain.Series{Timestamps: []int64{}, Rows: []string{}}
	if len(chart.Chart.Result) == 0 {
		return s, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return s, nil
	}
	quote := result.Indicators.Quote[0]
	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	for i, ts := range result.Timestamp {
		obs := domain.Observation{
			Open:     at(quote.Open, i),
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    at(quote.Close, i),
			AdjClose: at(adjClose, i),
		}
		if v := at(quote.Volume, i); v != nil {
			vol := int64(*v)
			obs.Volume = &vol
		}
		if obs.Empty() {
			continue
		}

		row, err := json.Marshal(obs)
		if err != nil {
			return domain.Series{}, fmt.Errorf("%w: encode row: %v", domain.ErrProvider, err)
		}
		s.Timestamps = append(s.Timestamps, ts)
		s.Rows = append(s.Rows, string(row))
	}

	return s, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
