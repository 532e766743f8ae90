// Package meshy is a thin client for the Meshy text-to-3D and
// image-to-3D REST API (v2 endpoints).
package meshy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gdbridge/internal/config"
)

// Task statuses reported by the Meshy API.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
)

// APIError is a non-2xx response from the Meshy API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meshy api: status %d: %s", e.StatusCode, e.Body)
}

// ErrNoAPIKey is returned when the client was built without a key.
var ErrNoAPIKey = fmt.Errorf("meshy api key not configured (set MESHY_API_KEY)")

// Task is the task record returned by the status endpoints.
type Task struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Progress  int               `json:"progress"`
	ModelURLs map[string]string `json:"model_urls"`
	TaskError *TaskError        `json:"task_error"`
}

// TaskError carries the failure detail on a FAILED task.
type TaskError struct {
	Message string `json:"message"`
}

// DownloadURL picks the best model format for Godot: GLB, then FBX,
// then OBJ. Empty when the task has no usable URL.
func (t *Task) DownloadURL() string {
	for _, format := range []string{"glb", "fbx", "obj"} {
		if url := t.ModelURLs[format]; url != "" {
			return url
		}
	}
	return ""
}

// Done reports whether the task reached a terminal state.
func (t *Task) Done() bool {
	return t.Status == StatusSucceeded || t.Status == StatusFailed
}

// TextTo3DRequest are the preview-mode generation parameters.
type TextTo3DRequest struct {
	Prompt         string `json:"prompt"`
	ArtStyle       string `json:"art_style,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	ShouldRemesh   bool   `json:"should_remesh"`
}

// Client talks to the Meshy API.
type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	download   *http.Client
	waitBudget time.Duration
	logger     *slog.Logger
}

// NewClient builds a client from config. A nil logger discards logs.
func NewClient(cfg config.MeshyConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		download: &http.Client{
			Timeout: time.Duration(cfg.DownloadTimeoutSeconds) * time.Second,
		},
		waitBudget: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:     logger,
	}
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool { return c.apiKey != "" }

// CreateTextTo3D starts a preview-quality text-to-3D task and returns
// its task id.
func (c *Client) CreateTextTo3D(ctx context.Context, req TextTo3DRequest) (string, error) {
	body := map[string]any{
		"mode":          "preview",
		"prompt":        req.Prompt,
		"art_style":     req.ArtStyle,
		"should_remesh": req.ShouldRemesh,
	}
	if req.ArtStyle == "" {
		body["art_style"] = "realistic"
	}
	if req.NegativePrompt != "" {
		body["negative_prompt"] = req.NegativePrompt
	}
	return c.createTask(ctx, "/v2/text-to-3d", body)
}

// CreateImageTo3D starts an image-to-3D task from an image URL.
func (c *Client) CreateImageTo3D(ctx context.Context, imageURL string) (string, error) {
	body := map[string]any{
		"image_url":  imageURL,
		"enable_pbr": true,
	}
	return c.createTask(ctx, "/v2/image-to-3d", body)
}

// Refine starts a refine-mode task from a completed preview task.
// Refinement consumes API credits; callers gate it on explicit intent.
func (c *Client) Refine(ctx context.Context, previewTaskID string) (string, error) {
	body := map[string]any{
		"mode":            "refine",
		"preview_task_id": previewTaskID,
	}
	return c.createTask(ctx, "/v2/text-to-3d", body)
}

// TextTo3DTask fetches the state of a text-to-3D (or refine) task.
func (c *Client) TextTo3DTask(ctx context.Context, taskID string) (*Task, error) {
	return c.getTask(ctx, "/v2/text-to-3d/"+taskID)
}

// ImageTo3DTask fetches the state of an image-to-3D task.
func (c *Client) ImageTo3DTask(ctx context.Context, taskID string) (*Task, error) {
	return c.getTask(ctx, "/v2/image-to-3d/"+taskID)
}

// WaitTextTo3D polls a text-to-3D task until it reaches a terminal
// state, the configured generation budget elapses, or ctx is done.
// interval defaults to 5s.
func (c *Client) WaitTextTo3D(ctx context.Context, taskID string, interval time.Duration) (*Task, error) {
	return c.wait(ctx, taskID, interval, c.TextTo3DTask)
}

// WaitImageTo3D polls an image-to-3D task until it reaches a terminal
// state or ctx is done.
func (c *Client) WaitImageTo3D(ctx context.Context, taskID string, interval time.Duration) (*Task, error) {
	return c.wait(ctx, taskID, interval, c.ImageTo3DTask)
}

func (c *Client) wait(ctx context.Context, taskID string, interval time.Duration, fetch func(context.Context, string) (*Task, error)) (*Task, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if c.waitBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.waitBudget)
		defer cancel()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		task, err := fetch(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if task.Done() {
			return task, nil
		}
		c.logger.Info("meshy task in progress",
			"task_id", taskID,
			"status", task.Status,
			"progress", task.Progress)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Download fetches a generated model file to destPath. The parent
// directory is created if needed.
func (c *Client) Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.download.Do(req)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: resp.Status}
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(destPath)
		return fmt.Errorf("download model: %w", err)
	}
	return f.Close()
}

func (c *Client) createTask(ctx context.Context, endpoint string, body map[string]any) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	data, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	var created struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("meshy api: decode response: %w", err)
	}
	if created.Result == "" {
		return "", fmt.Errorf("meshy api: no task id in response: %s", data)
	}
	c.logger.Info("meshy task created", "endpoint", endpoint, "task_id", created.Result)
	return created.Result, nil
}

func (c *Client) getTask(ctx context.Context, endpoint string) (*Task, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	data, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("meshy api: decode task: %w", err)
	}
	return &task, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// Task creation answers 202 Accepted.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
