package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector 代表指标收集器接口，定义统一的指标收集行为
type MetricsCollector interface {
	// 后端请求指标收集方法

	// RecordBackendRequest 记录一次后端操作尝试
	// class: 请求分类（BREAKER/DIRECT）
	// operation: 操作名称
	// statusCode: 类HTTP状态码（200成功，503熔断拒绝，504超时，500错误）
	// duration: 请求耗时
	// failureReason: 失败原因，成功时为空字符串
	RecordBackendRequest(class, operation string, statusCode int, duration time.Duration, failureReason string)

	// 熔断器指标收集方法

	// RecordCircuitBreakerEvent 记录熔断器状态变更事件
	// breakerName: 熔断器名称
	// state: 变更后的状态名
	RecordCircuitBreakerEvent(breakerName, state string)

	// RecordCircuitBreakerState 记录熔断器当前状态值
	// breakerName: 熔断器名称
	// state: 状态数值（0=closed, 1=open, 2=half-open）
	RecordCircuitBreakerState(breakerName string, state int)

	// 缓存指标收集方法

	// RecordCacheOperation 记录缓存操作结果
	// operation: 缓存操作名称（get/set/cleanup）
	// outcome: 操作结果（hit/miss/evict/expire）
	RecordCacheOperation(operation, outcome string)

	// RecordCacheSize 记录缓存当前条目数
	RecordCacheSize(size int)

	// 工具方法

	// GetRegistry 获取 Prometheus 注册器
	GetRegistry() *prometheus.Registry

	// Name 获取收集器名称
	Name() string

	// Close 关闭收集器并清理资源
	Close() error
}

// MetricsCollectorFactory 代表指标收集器工厂接口
type MetricsCollectorFactory interface {
	// Create 根据配置创建指标收集器
	Create(config *Config) (MetricsCollector, error)
}

// Config 代表指标收集器配置
type Config struct {
	// Type 指标收集器类型（prometheus, noop）
	Type string `yaml:"type" json:"type"`

	// Enabled 是否启用指标收集
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Namespace 指标命名空间前缀
	Namespace string `yaml:"namespace" json:"namespace"`

	// Subsystem 指标子系统名称
	Subsystem string `yaml:"subsystem" json:"subsystem"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Type:      "prometheus",
		Enabled:   true,
		Namespace: "taskgate",
	}
}
