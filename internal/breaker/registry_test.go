package breaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shengyanli1982/taskgate-go/internal/cache"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	registry := NewRegistry(logr.Discard(), nil, nil)
	defer registry.Shutdown()

	first, err := registry.GetOrCreate(testSettings("backend-api"))
	require.NoError(t, err)
	require.NotNil(t, first)

	// Same name returns the same instance even with different settings
	other := testSettings("backend-api")
	other.ErrorThreshold = 10
	second, err := registry.GetOrCreate(other)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRegistry_GetOrCreate_InvalidSettings(t *testing.T) {
	registry := NewRegistry(logr.Discard(), nil, nil)
	defer registry.Shutdown()

	_, err := registry.GetOrCreate(Settings{})
	assert.Error(t, err)
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(logr.Discard(), nil, nil)
	defer registry.Shutdown()

	_, err := registry.GetOrCreate(testSettings("backend-api"))
	require.NoError(t, err)

	engine, exists := registry.Get("backend-api")
	assert.True(t, exists)
	assert.NotNil(t, engine)

	_, exists = registry.Get("unknown")
	assert.False(t, exists)
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry(logr.Discard(), nil, nil)
	defer registry.Shutdown()

	_, err := registry.GetOrCreate(testSettings("breaker-a"))
	require.NoError(t, err)
	_, err = registry.GetOrCreate(testSettings("breaker-b"))
	require.NoError(t, err)

	names := registry.List()
	assert.ElementsMatch(t, []string{"breaker-a", "breaker-b"}, names)
}

func TestRegistry_Snapshot(t *testing.T) {
	registry := NewRegistry(logr.Discard(), nil, nil)
	defer registry.Shutdown()

	engine, err := registry.GetOrCreate(testSettings("backend-api"))
	require.NoError(t, err)

	_, _ = engine.Execute(context.Background(), "getTask", nil, succeedWith("ok"))
	_, _ = engine.Execute(context.Background(), "getTask", nil, failWith(errors.New("boom")))

	snapshot := registry.Snapshot()
	require.Contains(t, snapshot, "backend-api")
	assert.Equal(t, uint64(2), snapshot["backend-api"].TotalRequests)
	assert.Equal(t, uint64(1), snapshot["backend-api"].SuccessfulRequests)
	assert.Equal(t, uint64(1), snapshot["backend-api"].FailedRequests)
}

func TestRegistry_InjectsSharedCache(t *testing.T) {
	store := cache.NewFallbackCache(10, time.Minute)
	registry := NewRegistry(logr.Discard(), nil, store)
	defer registry.Shutdown()

	settings := testSettings("backend-api")
	settings.EnableCache = true
	settings.CacheKeyFunc = func(operation string, args []any) (string, bool) {
		return "task:1", true
	}

	engine, err := registry.GetOrCreate(settings)
	require.NoError(t, err)

	// Success flows through the registry-provided cache
	_, err = engine.Execute(context.Background(), "getTask", []any{"1"}, succeedWith("task-1"))
	require.NoError(t, err)
	assert.True(t, store.Has("task:1"))
}

func TestRegistry_Reset(t *testing.T) {
	registry := NewRegistry(logr.Discard(), nil, nil)

	_, err := registry.GetOrCreate(testSettings("backend-api"))
	require.NoError(t, err)

	registry.Reset()
	assert.Empty(t, registry.List())

	// A new breaker with the same name is a fresh instance
	engine, err := registry.GetOrCreate(testSettings("backend-api"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), engine.Stats().TotalRequests)
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	registry := NewRegistry(logr.Discard(), nil, nil)
	defer registry.Shutdown()

	var wg sync.WaitGroup
	engines := make([]*Engine, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			engine, err := registry.GetOrCreate(testSettings("shared"))
			assert.NoError(t, err)
			engines[n] = engine
		}(i)
	}
	wg.Wait()

	for i := 1; i < 20; i++ {
		assert.Same(t, engines[0], engines[i])
	}
	assert.Len(t, registry.List(), 1)
}
