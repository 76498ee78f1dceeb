// Package ratelimit 提供面向后端的客户端限流器，约束代理对任务后端的请求速率
package ratelimit

import "context"

// Throttle 代表客户端限流器接口
type Throttle interface {
	// Wait 阻塞直到获得令牌或上下文取消
	Wait(ctx context.Context) error

	// Allow 检查当前是否允许通过，不阻塞
	Allow() bool

	// Type 获取限流器类型
	Type() string
}

// ThrottleFactory 代表限流器工厂接口
type ThrottleFactory interface {
	// Create 根据速率和突发上限创建限流器
	Create(perSecond float64, burst int) (Throttle, error)
}
