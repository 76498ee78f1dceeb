package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// tokenBucketThrottle 基于token bucket算法的限流器实现
// 单后端场景下无需按key分桶，所有请求共享同一个桶
type tokenBucketThrottle struct {
	limiter *rate.Limiter
}

// NewTokenBucketThrottle 创建新的token bucket限流器实例
func NewTokenBucketThrottle(perSecond float64, burst int) Throttle {
	return &tokenBucketThrottle{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait 阻塞直到获得令牌或上下文取消
func (t *tokenBucketThrottle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Allow 检查当前是否允许通过
func (t *tokenBucketThrottle) Allow() bool {
	return t.limiter.Allow()
}

// Type 获取限流器类型
func (t *tokenBucketThrottle) Type() string {
	return "token_bucket"
}
