// Package foodai estimates the nutritional content of a meal photo using
// the Gemini generateContent API.
package foodai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/rpfocus/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel    = "gemini-2.0-flash"
	DefaultTimeout  = 60 * time.Second
)

var (
	ErrMissingKey        = errors.New("gemini API key not configured")
	ErrEmptyImage        = errors.New("image is empty")
	ErrInvalidRequest    = errors.New("invalid API key or request")
	ErrRateLimited       = errors.New("rate limited, try again shortly")
	ErrNoFood            = errors.New("no food recognized in the image")
	ErrMalformedResponse = errors.New("could not parse analysis result")
)

// APIError is a non-2xx response other than 400 and 429.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error (%d)", e.Status)
}

const prompt = `You are a nutrition analyst. Identify every food in this photo and estimate its nutrition.
Reply with JSON only, no markdown, in exactly this shape:
{"items":[{"name":"food name","portion":"estimated portion, e.g. 1 bowl (200g)","calories":0,"protein":0,"carbs":0,"fat":0}]}
calories is kcal; protein, carbs and fat are grams. Use whole numbers.
If there is no food in the photo reply with {"items":[]}.`

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Endpoint string
	Model    string
	Timeout  time.Duration
	// Attempts is the number of tries for transport errors and 5xx responses.
	Attempts int
	// Backoff is the delay before the second attempt; it doubles after each retry.
	Backoff time.Duration
}

// Client calls the Gemini API.
type Client struct {
	endpoint   string
	model      string
	attempts   int
	backoff    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client.
func NewClient(opts Options, log *slog.Logger) *Client {
	c := &Client{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		model:    opts.Model,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		log:      log,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.attempts <= 0 {
		c.attempts = 3
	}
	if c.backoff <= 0 {
		c.backoff = time.Second
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}
	return c
}

// Budget is the longest Analyze can take when every attempt times out,
// including the backoff between attempts.
func (c *Client) Budget() time.Duration {
	total := time.Duration(c.attempts) * c.httpClient.Timeout
	for attempt := 1; attempt < c.attempts; attempt++ {
		total += c.backoff << uint(attempt-1)
	}
	return total
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type rawItem struct {
	Name     string `json:"name"`
	Portion  string `json:"portion"`
	Calories number `json:"calories"`
	Protein  number `json:"protein"`
	Carbs    number `json:"carbs"`
	Fat      number `json:"fat"`
}

// number accepts a JSON number or a numeric string; anything else is 0.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = number(f)
			return nil
		}
	}
	*n = 0
	return nil
}

func (n number) rounded() float64 {
	return math.Round(float64(n))
}

// Analyze sends image to the model and returns the recognised food items.
// Each item gets a fresh id and whole-number nutrition values.
func (c *Client) Analyze(ctx context.Context, apiKey string, image []byte, mimeType string) ([]models.FoodItem, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{
			{Text: prompt},
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
		}}},
		GenerationConfig: generationConfig{Temperature: 0.1, MaxOutputTokens: 1024},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	respBody, err := c.post(ctx, u, apiKey, body)
	if err != nil {
		return nil, err
	}

	text, err := extractText(respBody)
	if err != nil {
		return nil, err
	}
	items, err := parseItems(text)
	if err != nil {
		return nil, err
	}
	c.log.Info("food analysis complete", "items", len(items), "model", c.model)
	return items, nil
}

// post sends the request, retrying transport failures and 5xx responses
// with exponential backoff.
func (c *Client) post(ctx context.Context, u, apiKey string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := range c.attempts {
		if attempt > 0 {
			delay := c.backoff << uint(attempt-1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("calling gemini: %w", err)
			c.log.Warn("gemini request failed", "attempt", attempt+1, "error", err)
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return respBody, nil
		case resp.StatusCode == http.StatusBadRequest:
			return nil, ErrInvalidRequest
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, ErrRateLimited
		}

		apiErr := &APIError{Status: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(respBody, &er) == nil {
			apiErr.Message = er.Error.Message
		}
		if resp.StatusCode < 500 {
			return nil, apiErr
		}
		lastErr = apiErr
		c.log.Warn("gemini server error", "attempt", attempt+1, "status", resp.StatusCode)
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func extractText(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoFood
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrNoFood
	}
	return text, nil
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseItems(text string) ([]models.FoodItem, error) {
	var parsed struct {
		Items []rawItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Items) == 0 {
		return nil, ErrNoFood
	}

	items := make([]models.FoodItem, 0, len(parsed.Items))
	for _, r := range parsed.Items {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = "Unknown food"
		}
		items = append(items, models.FoodItem{
			ID:       uuid.NewString(),
			Name:     name,
			Portion:  strings.TrimSpace(r.Portion),
			Calories: r.Calories.rounded(),
			Protein:  r.Protein.rounded(),
			Carbs:    r.Carbs.rounded(),
			Fat:      r.Fat.rounded(),
		})
	}
	return items, nil
}
