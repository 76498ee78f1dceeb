package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// noopCollector 空操作指标收集器，用于禁用指标收集时的占位实现
type noopCollector struct {
	name string
}

// NewNoopCollector 创建新的空操作指标收集器实例
func NewNoopCollector() MetricsCollector {
	return &noopCollector{
		name: "noop",
	}
}

// 后端请求指标收集方法（空实现）

func (c *noopCollector) RecordBackendRequest(class, operation string, statusCode int, duration time.Duration, failureReason string) {
	// 空实现
}

// 熔断器指标收集方法（空实现）

func (c *noopCollector) RecordCircuitBreakerEvent(breakerName, state string) {
	// 空实现
}

func (c *noopCollector) RecordCircuitBreakerState(breakerName string, state int) {
	// 空实现
}

// 缓存指标收集方法（空实现）

func (c *noopCollector) RecordCacheOperation(operation, outcome string) {
	// 空实现
}

func (c *noopCollector) RecordCacheSize(size int) {
	// 空实现
}

// 工具方法

func (c *noopCollector) GetRegistry() *prometheus.Registry {
	return nil
}

func (c *noopCollector) Name() string {
	return c.name
}

func (c *noopCollector) Close() error {
	return nil
}
