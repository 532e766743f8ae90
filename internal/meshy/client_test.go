package meshy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gdbridge/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.MeshyConfig{
		APIKey:                 "msy_test_key",
		BaseURL:                srv.URL,
		TimeoutSeconds:         30,
		DownloadTimeoutSeconds: 30,
	}, nil)
}

func TestCreateTextTo3D(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/text-to-3d", r.URL.Path)
		require.Equal(t, "Bearer msy_test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"result": "task-123"})
	}))

	taskID, err := client.CreateTextTo3D(context.Background(), TextTo3DRequest{
		Prompt:       "a medieval sword",
		ShouldRemesh: true,
	})
	require.NoError(t, err)
	require.Equal(t, "task-123", taskID)
	require.Equal(t, "preview", got["mode"])
	require.Equal(t, "a medieval sword", got["prompt"])
	require.Equal(t, "realistic", got["art_style"])
	require.Equal(t, true, got["should_remesh"])
	require.NotContains(t, got, "negative_prompt")
}

func TestCreateImageTo3D(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/image-to-3d", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "https://example.com/cat.png", body["image_url"])
		require.Equal(t, true, body["enable_pbr"])
		json.NewEncoder(w).Encode(map[string]string{"result": "img-task-1"})
	}))

	taskID, err := client.CreateImageTo3D(context.Background(), "https://example.com/cat.png")
	require.NoError(t, err)
	require.Equal(t, "img-task-1", taskID)
}

func TestRefine(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "refine", body["mode"])
		require.Equal(t, "task-123", body["preview_task_id"])
		json.NewEncoder(w).Encode(map[string]string{"result": "refine-456"})
	}))

	taskID, err := client.Refine(context.Background(), "task-123")
	require.NoError(t, err)
	require.Equal(t, "refine-456", taskID)
}

func TestWaitTextTo3DPollsUntilTerminal(t *testing.T) {
	polls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/text-to-3d/task-123", r.URL.Path)
		polls++
		task := Task{ID: "task-123", Status: StatusInProgress, Progress: 40}
		if polls >= 3 {
			task.Status = StatusSucceeded
			task.Progress = 100
			task.ModelURLs = map[string]string{"glb": "https://assets.example/task-123.glb"}
		}
		json.NewEncoder(w).Encode(task)
	}))

	task, err := client.WaitTextTo3D(context.Background(), "task-123", time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, StatusSucceeded, task.Status)
	require.Equal(t, 3, polls)
	require.Equal(t, "https://assets.example/task-123.glb", task.DownloadURL())
}

func TestWaitRespectsContext(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Task{Status: StatusPending})
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.WaitTextTo3D(ctx, "task-123", 10*time.Second)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFailedTaskCarriesError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Task{
			ID:        "task-123",
			Status:    StatusFailed,
			TaskError: &TaskError{Message: "prompt rejected"},
		})
	}))

	task, err := client.TextTo3DTask(context.Background(), "task-123")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, task.Status)
	require.Equal(t, "prompt rejected", task.TaskError.Message)
}

func TestAPIErrorOnBadStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))

	_, err := client.CreateTextTo3D(context.Background(), TextTo3DRequest{Prompt: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestNoAPIKey(t *testing.T) {
	client := NewClient(config.MeshyConfig{BaseURL: "http://unused"}, nil)
	require.False(t, client.HasKey())
	_, err := client.CreateTextTo3D(context.Background(), TextTo3DRequest{Prompt: "x"})
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("glTF-binary-bytes"))
	}))
	defer srv.Close()
	client := NewClient(config.MeshyConfig{APIKey: "k", BaseURL: srv.URL, DownloadTimeoutSeconds: 30}, nil)

	dest := filepath.Join(t.TempDir(), "meshes", "sword.glb")
	require.NoError(t, client.Download(context.Background(), srv.URL+"/sword.glb", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "glTF-binary-bytes", string(data))
}

func TestDownloadURLFormatPreference(t *testing.T) {
	task := &Task{ModelURLs: map[string]string{
		"obj": "https://assets.example/m.obj",
		"fbx": "https://assets.example/m.fbx",
	}}
	require.Equal(t, "https://assets.example/m.fbx", task.DownloadURL())

	task.ModelURLs["glb"] = "https://assets.example/m.glb"
	require.Equal(t, "https://assets.example/m.glb", task.DownloadURL())

	require.Empty(t, (&Task{}).DownloadURL())
}
