package ratelimit

import "errors"

// 工厂相关错误定义
var (
	ErrInvalidRate  = errors.New("rate per second must be positive")
	ErrInvalidBurst = errors.New("burst must be positive")
)

// throttleFactory 代表限流器工厂实现
type throttleFactory struct{}

// NewFactory 创建新的限流器工厂实例
func NewFactory() ThrottleFactory {
	return &throttleFactory{}
}

// Create 根据速率和突发上限创建限流器
func (f *throttleFactory) Create(perSecond float64, burst int) (Throttle, error) {
	if perSecond <= 0 {
		return nil, ErrInvalidRate
	}
	if burst <= 0 {
		return nil, ErrInvalidBurst
	}
	return NewTokenBucketThrottle(perSecond, burst), nil
}
