package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shengyanli1982/taskgate-go/internal/config"
)

// RetryableError 代表可重试的服务端错误
type RetryableError struct {
	Message    string
	StatusCode int
}

// Error 实现error接口
func (e *RetryableError) Error() string {
	return e.Message
}

// RetryHandler 重试处理器，对后端的瞬时故障按指数退避重试
// 重试属于客户端传输层，熔断器引擎本身从不代替调用方重试
type RetryHandler struct {
	config *config.RetryConfig
}

// NewRetryHandler 创建新的重试处理器实例
// cfg: 重试配置，nil时重试被禁用
func NewRetryHandler(cfg *config.RetryConfig) *RetryHandler {
	return &RetryHandler{
		config: cfg,
	}
}

// DoWithRetry 执行带重试的HTTP请求
func (r *RetryHandler) DoWithRetry(ctx context.Context, fn func() (*http.Response, error)) (*http.Response, error) {
	if r.config == nil {
		// 未启用重试，直接执行
		return fn()
	}

	var lastErr error
	attempts := r.config.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		// 检查上下文是否已取消
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		response, err := fn()
		if err != nil {
			lastErr = err
			if attempt < attempts-1 {
				if waitErr := r.wait(ctx, attempt); waitErr != nil {
					return nil, waitErr
				}
			}
			continue
		}

		// 服务端错误可重试，其余响应直接返回
		if r.shouldRetry(response) {
			response.Body.Close()
			lastErr = &RetryableError{
				Message:    "server error, retrying",
				StatusCode: response.StatusCode,
			}
			if attempt < attempts-1 {
				if waitErr := r.wait(ctx, attempt); waitErr != nil {
					return nil, waitErr
				}
			}
			continue
		}

		return response, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("max retries exceeded")
}

// wait 按指数退避等待下一次重试
func (r *RetryHandler) wait(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.calculateDelay(attempt)):
		return nil
	}
}

// calculateDelay 计算重试延迟（指数退避：initial * 2^attempt）
func (r *RetryHandler) calculateDelay(attempt int) time.Duration {
	baseDelay := time.Duration(r.config.Initial) * time.Millisecond
	delay := baseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// shouldRetry 判断响应是否需要重试（5xx为可重试错误）
func (r *RetryHandler) shouldRetry(response *http.Response) bool {
	return response.StatusCode >= http.StatusInternalServerError
}
