package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shengyanli1982/taskgate-go/internal/breaker"
	"github.com/shengyanli1982/taskgate-go/internal/cache"
	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/types"
)

// mockBackend is a scriptable in-memory backend used to exercise the
// resilient proxy without network traffic
type mockBackend struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func newMockBackend() *mockBackend {
	return &mockBackend{calls: make(map[string]int)}
}

func (m *mockBackend) record(operation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[operation]++
	return m.err
}

func (m *mockBackend) callCount(operation string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[operation]
}

func (m *mockBackend) failWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockBackend) CreateTask(ctx context.Context, req *types.CreateTaskRequest) (*types.Task, error) {
	if err := m.record(OpCreateTask); err != nil {
		return nil, err
	}
	return &types.Task{ID: "new", ProjectID: req.ProjectID, Title: req.Title}, nil
}

func (m *mockBackend) GetTask(ctx context.Context, id string) (*types.Task, error) {
	if err := m.record(OpGetTask); err != nil {
		return nil, err
	}
	return &types.Task{ID: id, Title: "task " + id}, nil
}

func (m *mockBackend) ListTasks(ctx context.Context, filter *types.TaskFilter) ([]*types.Task, error) {
	if err := m.record(OpListTasks); err != nil {
		return nil, err
	}
	return []*types.Task{{ID: "1"}, {ID: "2"}}, nil
}

func (m *mockBackend) UpdateTask(ctx context.Context, id string, req *types.UpdateTaskRequest) (*types.Task, error) {
	if err := m.record(OpUpdateTask); err != nil {
		return nil, err
	}
	return &types.Task{ID: id}, nil
}

func (m *mockBackend) DeleteTask(ctx context.Context, id string) error {
	return m.record(OpDeleteTask)
}

func (m *mockBackend) CreateProject(ctx context.Context, req *types.CreateProjectRequest) (*types.Project, error) {
	if err := m.record(OpCreateProject); err != nil {
		return nil, err
	}
	return &types.Project{ID: "new", Name: req.Name}, nil
}

func (m *mockBackend) GetProject(ctx context.Context, id string) (*types.Project, error) {
	if err := m.record(OpGetProject); err != nil {
		return nil, err
	}
	return &types.Project{ID: id}, nil
}

func (m *mockBackend) ListProjects(ctx context.Context) ([]*types.Project, error) {
	if err := m.record(OpListProjects); err != nil {
		return nil, err
	}
	return []*types.Project{{ID: "p-1"}}, nil
}

func (m *mockBackend) UpdateProject(ctx context.Context, id string, req *types.UpdateProjectRequest) (*types.Project, error) {
	if err := m.record(OpUpdateProject); err != nil {
		return nil, err
	}
	return &types.Project{ID: id}, nil
}

func (m *mockBackend) DeleteProject(ctx context.Context, id string) error {
	return m.record(OpDeleteProject)
}

func (m *mockBackend) CreateSprint(ctx context.Context, req *types.CreateSprintRequest) (*types.Sprint, error) {
	if err := m.record(OpCreateSprint); err != nil {
		return nil, err
	}
	return &types.Sprint{ID: "new", ProjectID: req.ProjectID, Phase: types.SprintPhasePlanned}, nil
}

func (m *mockBackend) GetSprint(ctx context.Context, id string) (*types.Sprint, error) {
	if err := m.record(OpGetSprint); err != nil {
		return nil, err
	}
	return &types.Sprint{ID: id, Phase: types.SprintPhasePlanned}, nil
}

func (m *mockBackend) ListSprints(ctx context.Context, filter *types.SprintFilter) ([]*types.Sprint, error) {
	if err := m.record(OpListSprints); err != nil {
		return nil, err
	}
	return []*types.Sprint{{ID: "s-1"}}, nil
}

func (m *mockBackend) UpdateSprint(ctx context.Context, id string, req *types.UpdateSprintRequest) (*types.Sprint, error) {
	if err := m.record(OpUpdateSprint); err != nil {
		return nil, err
	}
	return &types.Sprint{ID: id}, nil
}

func (m *mockBackend) DeleteSprint(ctx context.Context, id string) error {
	return m.record(OpDeleteSprint)
}

func (m *mockBackend) StartSprint(ctx context.Context, id string) (*types.Sprint, error) {
	if err := m.record(OpStartSprint); err != nil {
		return nil, err
	}
	return &types.Sprint{ID: id, Phase: types.SprintPhaseActive}, nil
}

func (m *mockBackend) CompleteSprint(ctx context.Context, id string) (*types.Sprint, error) {
	if err := m.record(OpCompleteSprint); err != nil {
		return nil, err
	}
	return &types.Sprint{ID: id, Phase: types.SprintPhaseCompleted}, nil
}

func (m *mockBackend) Health(ctx context.Context) (*types.HealthStatus, error) {
	if err := m.record(OpHealth); err != nil {
		return nil, err
	}
	return &types.HealthStatus{Status: "ok", Timestamp: time.Now()}, nil
}

// testResilienceConfig returns a fast-tripping resilience config for tests
func testResilienceConfig() *config.ResilienceConfig {
	return &config.ResilienceConfig{
		Enabled: true,
		Breaker: config.BreakerConfig{
			Timeout:         1000,
			ErrorThreshold:  50,
			ResetTimeout:    100,
			VolumeThreshold: 3,
		},
		Cache: config.CacheConfig{
			Enabled:    true,
			MaxSize:    100,
			DefaultTTL: 60000,
		},
	}
}

func newTestResilientClient(t *testing.T, backend BackendClient, cfg *config.ResilienceConfig) (*ResilientClient, *breaker.Registry) {
	t.Helper()

	store := cache.NewFallbackCache(100, time.Minute)
	registry := breaker.NewRegistry(logr.Discard(), nil, store)
	t.Cleanup(registry.Shutdown)

	client, err := NewResilientClient(backend, registry, cfg)
	require.NoError(t, err)
	return client, registry
}

func tripBreaker(t *testing.T, client *ResilientClient, backend *mockBackend) {
	t.Helper()

	backend.failWith(errors.New("backend down"))
	for i := 0; i < 3; i++ {
		_, err := client.ListTasks(context.Background(), &types.TaskFilter{ProjectID: "trip"})
		require.Error(t, err)
	}
	require.False(t, client.IsHealthy())
}

func TestNewResilientClient_Validation(t *testing.T) {
	registry := breaker.NewRegistry(logr.Discard(), nil, nil)
	defer registry.Shutdown()

	t.Run("nil backend", func(t *testing.T) {
		_, err := NewResilientClient(nil, registry, testResilienceConfig())
		assert.Error(t, err)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewResilientClient(newMockBackend(), registry, nil)
		assert.Error(t, err)
	})
}

func TestResilientClient_PassthroughWhenDisabled(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, &config.ResilienceConfig{Enabled: false})

	task, err := client.GetTask(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", task.ID)
	assert.Equal(t, 1, backend.callCount(OpGetTask))

	// Introspection degrades gracefully without an engine
	assert.True(t, client.IsHealthy())
	stats := client.CircuitBreakerStats()
	assert.Equal(t, breaker.StateClosed.String(), stats.State)
	assert.Equal(t, uint64(0), stats.TotalRequests)
	client.ForceClose() // no-op, must not panic
}

func TestResilientClient_SuccessfulCalls(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, testResilienceConfig())

	task, err := client.GetTask(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", task.ID)

	tasks, err := client.ListTasks(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	sprint, err := client.StartSprint(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, types.SprintPhaseActive, sprint.Phase)

	err = client.DeleteTask(context.Background(), "42")
	assert.NoError(t, err)

	assert.True(t, client.IsHealthy())
	assert.Equal(t, uint64(4), client.CircuitBreakerStats().TotalRequests)
}

func TestResilientClient_ServesReadsFromCacheWhileOpen(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, testResilienceConfig())

	// Populate the fallback cache with a successful read
	task, err := client.GetTask(context.Background(), "123")
	require.NoError(t, err)
	require.Equal(t, "123", task.ID)
	readsBefore := backend.callCount(OpGetTask)

	tripBreaker(t, client, backend)

	// The cached task is served without touching the failing backend
	cached, err := client.GetTask(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", cached.ID)
	assert.Equal(t, "task 123", cached.Title)
	assert.Equal(t, readsBefore, backend.callCount(OpGetTask))

	// Uncached reads fail fast with the breaker error
	_, err = client.GetTask(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, breaker.IsOpenError(err))
	assert.Equal(t, readsBefore, backend.callCount(OpGetTask))
}

func TestResilientClient_MutationsFailFastWhileOpen(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, testResilienceConfig())

	tripBreaker(t, client, backend)
	writesBefore := backend.callCount(OpCreateTask)

	_, err := client.CreateTask(context.Background(), &types.CreateTaskRequest{ProjectID: "p-1", Title: "x"})
	require.Error(t, err)
	assert.True(t, breaker.IsOpenError(err))
	assert.Equal(t, writesBefore, backend.callCount(OpCreateTask))

	var openErr *breaker.OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Greater(t, openErr.ErrorPercentage, float64(50))
}

func TestResilientClient_HealthBypassesBreaker(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, testResilienceConfig())

	tripBreaker(t, client, backend)
	backend.failWith(nil)

	// Health reaches the backend even while the breaker is open
	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, backend.callCount(OpHealth))
}

func TestResilientClient_RecoversAfterResetTimeout(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, testResilienceConfig())

	tripBreaker(t, client, backend)
	backend.failWith(nil)

	// Wait past the reset timeout so the breaker half-opens, then a
	// successful probe restores normal traffic
	time.Sleep(200 * time.Millisecond)

	task, err := client.GetTask(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "7", task.ID)
	assert.True(t, client.IsHealthy())
}

func TestResilientClient_ForceClose(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, testResilienceConfig())

	tripBreaker(t, client, backend)
	backend.failWith(nil)

	client.ForceClose()
	assert.True(t, client.IsHealthy())

	task, err := client.GetTask(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", task.ID)
}

func TestResilientClient_SharedBreakerAcrossOperations(t *testing.T) {
	backend := newMockBackend()
	client, registry := newTestResilientClient(t, backend, testResilienceConfig())

	// Failures on one operation open the breaker for all of them
	tripBreaker(t, client, backend)

	_, err := client.GetProject(context.Background(), "p-1")
	assert.True(t, breaker.IsOpenError(err))
	_, err = client.ListSprints(context.Background(), nil)
	// Reads may still hit the cache; this one was never cached
	assert.True(t, breaker.IsOpenError(err))

	assert.Len(t, registry.List(), 1)
}

func TestResilientClient_Unwrap(t *testing.T) {
	backend := newMockBackend()
	client, _ := newTestResilientClient(t, backend, testResilienceConfig())

	assert.Same(t, backend, client.Unwrap())
}
