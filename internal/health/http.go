package health

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// HTTPExporter sends workouts to an HTTP health endpoint. Authorization is
// requested once and cached after it succeeds.
type HTTPExporter struct {
	endpoint   string
	token      string
	httpClient *http.Client

	mu         sync.Mutex
	authorized bool
}

// NewHTTPExporter creates an exporter for the given base URL.
func NewHTTPExporter(endpoint, token string, timeout time.Duration) *HTTPExporter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPExporter{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Authorize asks the endpoint for write access. A failure is not cached, so
// the next export tries again.
func (e *HTTPExporter) Authorize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.authorized {
		return nil
	}

	resp, err := e.do(ctx, "/authorize", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		e.authorized = true
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrNotAuthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("authorize failed (status %d): %s", resp.StatusCode, body)
	}
}

// SaveWorkout POSTs the workout. It is sent once, without retries.
func (e *HTTPExporter) SaveWorkout(ctx context.Context, w Workout) error {
	e.mu.Lock()
	authorized := e.authorized
	e.mu.Unlock()
	if !authorized {
		return ErrNotAuthorized
	}

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshaling workout: %w", err)
	}
	resp, err := e.do(ctx, "/workouts", data)
	if err != nil {
		return fmt.Errorf("sending workout: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("saving workout failed (status %d): %s", resp.StatusCode, body)
	}
	return nil
}

func (e *HTTPExporter) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	return e.httpClient.Do(req)
}
