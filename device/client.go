package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flipclerk/facet"
)

// Reader fetches new events from the tracking device. Callers must supply
// non-decreasing start ids across one session. A fetch failure is fatal for
// the current invocation; there is no built-in retry.
type Reader interface {
	FetchSince(ctx context.Context, startID uint32) ([]facet.Entry, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	Password   string
	UserAgent  string
	HTTPClient httpDoer
}

// Client talks to the cube through its HTTP bridge daemon. The bridge owns
// the Bluetooth session; this client only speaks its REST surface.
type Client struct {
	baseURL    string
	password   string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("device bridge URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid device bridge URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    baseURL,
		password:   strings.TrimSpace(cfg.Password),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// Status is the bridge's handshake snapshot of the connected cube.
type Status struct {
	Name       string `json:"name"`
	Firmware   string `json:"firmware"`
	FacetCount int    `json:"facet_count"`
	BatteryPct int    `json:"battery_pct"`
}

type wireEntry struct {
	ID              uint32    `json:"id"`
	Facet           int       `json:"facet"`
	Time            time.Time `json:"time"`
	DurationSeconds int64     `json:"duration_seconds"`
}

type historyResponse struct {
	Entries []wireEntry `json:"entries"`
}

// FetchSince returns all events with id >= startID, ascending by id. The
// result may be empty when the cube has nothing new.
func (c *Client) FetchSince(ctx context.Context, startID uint32) ([]facet.Entry, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/api/v1/history?since=%d", c.baseURL, startID))
	if err != nil {
		return nil, err
	}

	var decoded historyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode device history: %w", err)
	}

	entries := make([]facet.Entry, 0, len(decoded.Entries))
	for _, raw := range decoded.Entries {
		entries = append(entries, facet.Entry{
			ID:       raw.ID,
			Facet:    facet.Facet(raw.Facet),
			Time:     raw.Time.UTC(),
			Duration: time.Duration(raw.DurationSeconds) * time.Second,
		})
	}
	return entries, nil
}

// FetchStatus performs the bridge handshake.
func (c *Client) FetchStatus(ctx context.Context) (Status, error) {
	body, err := c.get(ctx, c.baseURL+"/api/v1/status")
	if err != nil {
		return Status{}, err
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return Status{}, fmt.Errorf("decode device status: %w", err)
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build device request: %w", err)
	}
	if c.password != "" {
		req.Header.Set("X-Cube-Password", c.password)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call device bridge: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read device response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device bridge returned %s for %s", resp.Status, endpoint)
	}

	return body, nil
}
