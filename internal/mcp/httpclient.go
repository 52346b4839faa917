package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// HTTPClient implements DataSource by calling the LiftLog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListExercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error) {
	params := url.Values{}
	if muscleGroup != "" {
		params.Set("muscle_group", muscleGroup)
	}
	var exercises []models.Exercise
	if err := c.get(ctx, "/api/v1/exercises", params, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *HTTPClient) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	var e models.Exercise
	if err := c.get(ctx, "/api/v1/exercises/"+id.String(), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindExerciseByName matches case-insensitively against the full catalog.
func (c *HTTPClient) FindExerciseByName(ctx context.Context, name string) (*models.Exercise, error) {
	exercises, err := c.ListExercises(ctx, "")
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	for _, e := range exercises {
		if strings.EqualFold(e.Name, name) {
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListSetLogs requests pounds so the decoded weight_lbs is the stored value.
// A zero End means now.
func (c *HTTPClient) ListSetLogs(ctx context.Context, f models.SetLogFilter) ([]models.SetLog, error) {
	start := f.Start
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	end := f.End
	if end.IsZero() {
		end = time.Now()
	}

	params := url.Values{}
	params.Set("start", start.UTC().Format(time.RFC3339))
	params.Set("end", end.UTC().Format(time.RFC3339))
	params.Set("unit", string(models.Pounds))
	if f.ExerciseID != nil {
		params.Set("exercise_id", f.ExerciseID.String())
	}

	var logs []models.SetLog
	if err := c.get(ctx, "/api/v1/sets", params, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *HTTPClient) GetOrCreatePreferences(ctx context.Context) (*models.UserPreferences, error) {
	var p models.UserPreferences
	if err := c.get(ctx, "/api/v1/preferences", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
