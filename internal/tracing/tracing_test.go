package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")

	requestID, ok := RequestIDFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-42", requestID)
}

func TestRequestIDFrom_Missing(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		_, ok := RequestIDFrom(context.Background())
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := RequestIDFrom(WithRequestID(context.Background(), ""))
		assert.False(t, ok)
	})
}

func TestWithSpan_Success(t *testing.T) {
	invoked := false

	result, err := WithSpan(context.Background(), "backend.getTask", func(ctx context.Context, span trace.Span) (any, error) {
		invoked = true
		assert.NotNil(t, span)
		return "value", nil
	})
	require.NoError(t, err)
	assert.True(t, invoked)
	assert.Equal(t, "value", result)
}

func TestWithSpan_Error(t *testing.T) {
	boom := errors.New("boom")

	result, err := WithSpan(context.Background(), "backend.getTask", func(ctx context.Context, span trace.Span) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
}

func TestWithSpan_PropagatesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-7")

	_, err := WithSpan(ctx, "backend.getTask", func(ctx context.Context, span trace.Span) (any, error) {
		requestID, ok := RequestIDFrom(ctx)
		assert.True(t, ok)
		assert.Equal(t, "req-7", requestID)
		return nil, nil
	})
	assert.NoError(t, err)
}
