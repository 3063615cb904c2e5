package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"rpi-dashboard/pkg/feedback"
	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	PathLatest   = "/api/rpi-health/latest"
	PathReadings = "/api/rpi-health"
	PathStats    = "/api/rpi-health/stats"
	PathFeedback = "/api/feedback"

	// Bodies larger than this are rejected with ErrBodyTooLarge.
	maxBodyBytes = 4 << 20
	// Error bodies are quoted in HTTPError up to this many bytes.
	maxErrorBody = 256
)

var (
	_ health.Source   = (*Client)(nil)
	_ feedback.Source = (*Client)(nil)
)

// Client reads the dashboard backend. It only issues GET requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// envelope is the {"data": ...} wrapper the health endpoints use.
type envelope[T any] struct {
	Data T `json:"data"`
}

// LatestReading returns nil when the backend has no readings yet.
func (c *Client) LatestReading(ctx context.Context) (*health.Reading, error) {
	var env envelope[*health.Reading]
	if err := c.getJSON(ctx, PathLatest, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) RecentReadings(ctx context.Context, limit int) ([]health.Reading, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var env envelope[[]health.Reading]
	if err := c.getJSON(ctx, PathReadings, q, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []health.Reading{}, nil
	}
	return env.Data, nil
}

func (c *Client) Stats(ctx context.Context, hours int) (*health.Stats, error) {
	q := url.Values{}
	q.Set("hours", strconv.Itoa(hours))

	var env envelope[*health.Stats]
	if err := c.getJSON(ctx, PathStats, q, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Feedback tolerates any body shape; unrecognised shapes yield an empty list.
func (c *Client) Feedback(ctx context.Context) ([]feedback.Item, error) {
	body, u, err := c.get(ctx, PathFeedback, nil)
	if err != nil {
		return nil, err
	}
	items, shape := feedback.NormalizeShape(body)
	if shape == feedback.ShapeUnknown {
		c.logger.Printf("unrecognised feedback response from %s, showing empty list", u)
	}
	return items, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, u, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{URL: u, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, u, fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, u, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, u, &NetworkError{URL: u, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	// Check status code after reading (better error messages)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.logger.Printf("GET %s -> %d (request %s)", u, resp.StatusCode, reqID)
		return nil, u, &HTTPError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status, Body: snippet}
	}

	if len(body) > maxBodyBytes {
		c.logger.Printf("GET %s -> body over %d bytes (request %s)", u, maxBodyBytes, reqID)
		return nil, u, &DecodeError{URL: u, Err: ErrBodyTooLarge}
	}

	c.logger.Printf("GET %s -> %d in %s", u, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return body, u, nil
}
