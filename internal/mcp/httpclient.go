package mcp

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

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
	"github.com/claude/rpfocus/internal/tracking"
)

// HTTPClient implements DataSource by calling the rpfocus REST API.
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

// StatusError is a non-200 response from the server.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.Path, e.Status, e.Body)
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// getJSON fetches path and decodes the body into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, what string, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return nil
}

func modeParams(mode models.TrainingMode) url.Values {
	if mode == "" {
		return nil
	}
	return url.Values{"mode": {string(mode)}}
}

func (c *HTTPClient) WeekPlan(ctx context.Context, week int, mode models.TrainingMode) (*program.WeekPlan, error) {
	var p program.WeekPlan
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/plan/weeks/%d", week), modeParams(mode), "week plan", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DayPlan(ctx context.Context, week, day int, mode models.TrainingMode) (*program.DayPlan, error) {
	var p program.DayPlan
	path := fmt.Sprintf("/api/v1/plan/weeks/%d/days/%d", week, day)
	if err := c.getJSON(ctx, path, modeParams(mode), "day plan", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) WeeklyVolume(ctx context.Context, week int, mode models.TrainingMode) ([]program.MuscleVolume, error) {
	var vol []program.MuscleVolume
	path := fmt.Sprintf("/api/v1/plan/weeks/%d/volume", week)
	if err := c.getJSON(ctx, path, modeParams(mode), "volume", &vol); err != nil {
		return nil, err
	}
	return vol, nil
}

func (c *HTTPClient) Guidance(ctx context.Context, week int) (*program.Guidance, error) {
	var g program.Guidance
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/plan/weeks/%d/guidance", week), nil, "guidance", &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *HTTPClient) ExerciseHistory(ctx context.Context) (map[string]float64, error) {
	var h map[string]float64
	if err := c.getJSON(ctx, "/api/v1/history", nil, "history", &h); err != nil {
		return nil, err
	}
	return h, nil
}

func (c *HTTPClient) CurrentDay(ctx context.Context) (*tracking.DayView, error) {
	var dv tracking.DayView
	if err := c.getJSON(ctx, "/api/v1/session", nil, "session", &dv); err != nil {
		return nil, err
	}
	return &dv, nil
}

func (c *HTTPClient) NutritionProfile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	err := c.getJSON(ctx, "/api/v1/nutrition/profile", nil, "profile", &p)
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) NutritionDay(ctx context.Context, date string) (*tracking.NutritionDay, error) {
	if date == "" {
		date = "today"
	}
	var d tracking.NutritionDay
	if err := c.getJSON(ctx, "/api/v1/nutrition/days/"+url.PathEscape(date), nil, "nutrition day", &d); err != nil {
		return nil, err
	}
	return &d, nil
}
