// Package faceapi is the HTTP client for the face-analysis sidecar that
// serves the landmark, texture-authenticity and emotion models.
package faceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the configuration for the face API client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Detector   string
	CropSize   int
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5005",
		Timeout:    30 * time.Second,
		Detector:   "facemesh",
		CropSize:   256,
		RetryCount: 3,
	}
}

// Client is the HTTP client for the face analysis API.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new face API client.
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// Landmarks calls POST /landmarks to localize face-mesh points.
func (c *Client) Landmarks(ctx context.Context, imageBase64 string) (*LandmarksResponse, error) {
	req := LandmarksRequest{
		Img:      imageBase64,
		Detector: c.config.Detector,
		MaxFaces: 1,
	}

	var resp LandmarksResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, "/landmarks", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TextureScore calls POST /texture/score to classify face-crop authenticity.
func (c *Client) TextureScore(ctx context.Context, imageBase64 string) (*TextureResponse, error) {
	req := TextureRequest{
		Img:       imageBase64,
		Size:      c.config.CropSize,
		Normalize: true,
	}

	var resp TextureResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, "/texture/score", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Emotion calls POST /emotion to classify the dominant facial expression.
func (c *Client) Emotion(ctx context.Context, imageBase64 string) (*EmotionResponse, error) {
	req := EmotionRequest{
		Img:      imageBase64,
		Detector: c.config.Detector,
	}

	var resp EmotionResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, "/emotion", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// maxBackoff caps the retry backoff duration.
const maxBackoff = 30 * time.Second

// calculateBackoff returns 1s, 2s, 4s, 8s... capped at maxBackoff.
func calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	seconds := 1
	for i := 1; i < attempt && i < 6; i++ {
		seconds *= 2
	}
	return time.Duration(seconds) * time.Second
}

// doRequestWithRetry executes an HTTP request, retrying server errors with
// exponential backoff. Client errors (4xx) and context errors are final.
func (c *Client) doRequestWithRetry(ctx context.Context, method, path string, body, result interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoff(attempt)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = c.doRequest(ctx, method, path, body, result)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if isClientError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w: %v", ErrServiceUnavailable, lastErr)
}

// isClientError checks if the error is a 4xx client error.
func isClientError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	for status := 400; status < 500; status++ {
		if strings.Contains(errStr, fmt.Sprintf("status %d", status)) {
			return true
		}
	}
	return false
}

// doRequest executes a single HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	url := c.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("face api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	return nil
}
