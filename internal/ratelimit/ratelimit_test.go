package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketThrottle_Allow(t *testing.T) {
	throttle := NewTokenBucketThrottle(2.0, 5) // 2 per second, burst of 5

	// Should allow initial burst
	for i := 0; i < 5; i++ {
		assert.True(t, throttle.Allow(), "Should allow request %d within burst", i+1)
	}

	// Should deny after burst limit
	assert.False(t, throttle.Allow(), "Should deny request after burst limit")

	// Wait for token refill and try again
	time.Sleep(600 * time.Millisecond)
	assert.True(t, throttle.Allow(), "Should allow request after token refill")
}

func TestTokenBucketThrottle_Wait(t *testing.T) {
	throttle := NewTokenBucketThrottle(20.0, 1)

	// First token is immediate, second waits roughly one refill period
	require.NoError(t, throttle.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, throttle.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTokenBucketThrottle_WaitCancellation(t *testing.T) {
	throttle := NewTokenBucketThrottle(0.1, 1) // 1 per 10 seconds

	require.NoError(t, throttle.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := throttle.Wait(ctx)
	assert.Error(t, err)
}

func TestTokenBucketThrottle_Type(t *testing.T) {
	throttle := NewTokenBucketThrottle(1.0, 1)
	assert.Equal(t, "token_bucket", throttle.Type())
}

func TestThrottleFactory_Create(t *testing.T) {
	factory := NewFactory()

	tests := []struct {
		name      string
		perSecond float64
		burst     int
		wantError bool
	}{
		{
			name:      "valid parameters",
			perSecond: 10.0,
			burst:     20,
			wantError: false,
		},
		{
			name:      "zero perSecond",
			perSecond: 0,
			burst:     10,
			wantError: true,
		},
		{
			name:      "negative perSecond",
			perSecond: -1.0,
			burst:     10,
			wantError: true,
		},
		{
			name:      "zero burst",
			perSecond: 10.0,
			burst:     0,
			wantError: true,
		},
		{
			name:      "negative burst",
			perSecond: 10.0,
			burst:     -1,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			throttle, err := factory.Create(tt.perSecond, tt.burst)

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, throttle)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, throttle)
				assert.Equal(t, "token_bucket", throttle.Type())
			}
		})
	}
}

func BenchmarkTokenBucketThrottle_Allow(b *testing.B) {
	throttle := NewTokenBucketThrottle(1000000.0, 1000000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		throttle.Allow()
	}
}
