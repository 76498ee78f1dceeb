package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
	"github.com/shengyanli1982/taskgate-go/internal/tracing"
	"github.com/shengyanli1982/taskgate-go/internal/types"
)

func testBackendConfig(url string) *config.BackendConfig {
	return &config.BackendConfig{
		URL: url,
	}
}

func TestNewHTTPBackendClient_NilConfig(t *testing.T) {
	_, err := NewHTTPBackendClient(nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestHTTPBackendClient_GetTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/tasks/123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(&types.Task{ID: "123", Title: "write tests"})
	}))
	defer server.Close()

	client, err := NewHTTPBackendClient(testBackendConfig(server.URL))
	require.NoError(t, err)

	task, err := client.GetTask(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", task.ID)
	assert.Equal(t, "write tests", task.Title)
}

func TestHTTPBackendClient_CreateTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tasks", r.URL.Path)
		assert.Equal(t, constants.ContentTypeJSON, r.Header.Get(constants.HeaderContentType))

		var req types.CreateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ship it", req.Title)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&types.Task{ID: "t-1", ProjectID: req.ProjectID, Title: req.Title})
	}))
	defer server.Close()

	client, err := NewHTTPBackendClient(testBackendConfig(server.URL))
	require.NoError(t, err)

	task, err := client.CreateTask(context.Background(), &types.CreateTaskRequest{ProjectID: "p-1", Title: "ship it"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", task.ID)
}

func TestHTTPBackendClient_ListTasksQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "p-1", r.URL.Query().Get("projectId"))
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		_ = json.NewEncoder(w).Encode([]*types.Task{{ID: "1"}, {ID: "2"}})
	}))
	defer server.Close()

	client, err := NewHTTPBackendClient(testBackendConfig(server.URL))
	require.NoError(t, err)

	tasks, err := client.ListTasks(context.Background(), &types.TaskFilter{ProjectID: "p-1", Status: "open"})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestHTTPBackendClient_DeleteTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := NewHTTPBackendClient(testBackendConfig(server.URL))
	require.NoError(t, err)

	assert.NoError(t, client.DeleteTask(context.Background(), "123"))
}

func TestHTTPBackendClient_SprintLifecycle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/sprints/s-1/start":
			assert.Equal(t, http.MethodPost, r.Method)
			_ = json.NewEncoder(w).Encode(&types.Sprint{ID: "s-1", Phase: types.SprintPhaseActive})
		case "/api/v1/sprints/s-1/complete":
			assert.Equal(t, http.MethodPost, r.Method)
			_ = json.NewEncoder(w).Encode(&types.Sprint{ID: "s-1", Phase: types.SprintPhaseCompleted})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewHTTPBackendClient(testBackendConfig(server.URL))
	require.NoError(t, err)

	sprint, err := client.StartSprint(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, types.SprintPhaseActive, sprint.Phase)

	sprint, err = client.CompleteSprint(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, types.SprintPhaseCompleted, sprint.Phase)
}

func TestHTTPBackendClient_ErrorDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "task not found"})
	}))
	defer server.Close()

	client, err := NewHTTPBackendClient(testBackendConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetTask(context.Background(), "missing")
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusNotFound, backendErr.StatusCode)
	assert.Equal(t, "task not found", backendErr.Message)
}

func TestHTTPBackendClient_RequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent/2.0", r.Header.Get(constants.HeaderUserAgent))
		assert.Equal(t, constants.BearerPrefix+"secret-token", r.Header.Get(constants.HeaderAuthorization))
		assert.Equal(t, "req-42", r.Header.Get(constants.HeaderRequestID))
		_ = json.NewEncoder(w).Encode(&types.HealthStatus{Status: "ok"})
	}))
	defer server.Close()

	cfg := testBackendConfig(server.URL)
	cfg.Agent = "custom-agent/2.0"
	cfg.Auth = &config.AuthConfig{Type: constants.AuthTypeBearer, Token: "secret-token"}

	client, err := NewHTTPBackendClient(cfg)
	require.NoError(t, err)

	ctx := tracing.WithRequestID(context.Background(), "req-42")
	status, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
}

func TestHTTPBackendClient_RetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(&types.Task{ID: "123"})
	}))
	defer server.Close()

	cfg := testBackendConfig(server.URL)
	cfg.Retry = &config.RetryConfig{Attempts: 3, Initial: 10}

	client, err := NewHTTPBackendClient(cfg)
	require.NoError(t, err)

	task, err := client.GetTask(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", task.ID)
	assert.Equal(t, 3, attempts)
}

func TestHTTPBackendClient_ClientErrorsAreNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := testBackendConfig(server.URL)
	cfg.Retry = &config.RetryConfig{Attempts: 3, Initial: 10}

	client, err := NewHTTPBackendClient(cfg)
	require.NoError(t, err)

	_, err = client.GetTask(context.Background(), "123")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestHTTPBackendClient_Closed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(&types.Task{ID: "123"})
	}))
	defer server.Close()

	client, err := NewHTTPBackendClient(testBackendConfig(server.URL))
	require.NoError(t, err)

	closer, ok := client.(interface{ Close() error })
	require.True(t, ok)
	require.NoError(t, closer.Close())

	_, err = client.GetTask(context.Background(), "123")
	assert.ErrorIs(t, err, ErrClientClosed)
}
