package device

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"
)

type fakeDoer struct {
	fn func(r *http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(r *http.Request) (*http.Response, error) {
	return f.fn(r)
}

func jsonResponse(payload any) *http.Response {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestNewClient_RejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"", "   ", "not-a-url", "/relative/path"} {
		if _, err := NewClient(ClientConfig{BaseURL: base}); err == nil {
			t.Fatalf("expected error for base URL %q", base)
		}
	}
}

func TestClient_FetchSince(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/v1/history" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("since"); got != "12" {
			t.Fatalf("unexpected since parameter %q", got)
		}
		if got := r.Header.Get("X-Cube-Password"); got != "000000" {
			t.Fatalf("unexpected password header %q", got)
		}
		return jsonResponse(map[string]any{
			"entries": []map[string]any{
				{"id": 12, "facet": 3, "time": "2026-03-02T09:00:00+01:00", "duration_seconds": 1800},
				{"id": 13, "facet": 0, "time": "2026-03-02T09:30:00Z", "duration_seconds": 2700},
			},
		}), nil
	}}

	client, err := NewClient(ClientConfig{
		BaseURL:    "http://127.0.0.1:8721/",
		Password:   "000000",
		HTTPClient: doer,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	entries, err := client.FetchSince(context.Background(), 12)
	if err != nil {
		t.Fatalf("fetch since: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != 12 || int(entries[0].Facet) != 3 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].Duration != 30*time.Minute {
		t.Fatalf("expected 30m duration, got %v", entries[0].Duration)
	}
	if entries[0].Time.Location() != time.UTC {
		t.Fatalf("expected UTC time, got %v", entries[0].Time)
	}
	if !entries[0].Time.Equal(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time: %v", entries[0].Time)
	}
}

func TestClient_FetchSinceEmptyHistory(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(map[string]any{"entries": []any{}}), nil
	}}

	client, err := NewClient(ClientConfig{BaseURL: "http://bridge.local", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	entries, err := client.FetchSince(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch since: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}

func TestClient_NonOKStatusIsError(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Status:     "401 Unauthorized",
			Body:       io.NopCloser(bytes.NewReader([]byte("bad password"))),
		}, nil
	}}

	client, err := NewClient(ClientConfig{BaseURL: "http://bridge.local", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.FetchSince(context.Background(), 0); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestClient_FetchStatus(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/v1/status" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		return jsonResponse(Status{
			Name:       "TimeFlip-D34F",
			Firmware:   "TF2.1.6",
			FacetCount: 12,
			BatteryPct: 87,
		}), nil
	}}

	client, err := NewClient(ClientConfig{BaseURL: "http://bridge.local", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	status, err := client.FetchStatus(context.Background())
	if err != nil {
		t.Fatalf("fetch status: %v", err)
	}
	if status.FacetCount != 12 || status.Name != "TimeFlip-D34F" {
		t.Fatalf("unexpected status: %+v", status)
	}
}
