package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// prometheusCollector 基于 Prometheus 的指标收集器实现
type prometheusCollector struct {
	name     string
	registry *prometheus.Registry
	config   *Config
	mu       sync.RWMutex

	// 后端请求指标
	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	backendFailuresTotal   *prometheus.CounterVec

	// 熔断器指标
	circuitBreakerState  *prometheus.GaugeVec
	circuitBreakerEvents *prometheus.CounterVec

	// 缓存指标
	cacheOperationsTotal *prometheus.CounterVec
	cacheSize            *prometheus.GaugeVec
}

// NewPrometheusCollector 创建新的 Prometheus 指标收集器实例，使用独立注册器
func NewPrometheusCollector(config *Config) (MetricsCollector, error) {
	return NewPrometheusCollectorWithRegistry(config, prometheus.NewRegistry())
}

// NewPrometheusCollectorWithRegistry 创建使用指定注册器的 Prometheus 指标收集器实例
func NewPrometheusCollectorWithRegistry(config *Config, registry *prometheus.Registry) (MetricsCollector, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	collector := &prometheusCollector{
		name:     "prometheus",
		registry: registry,
		config:   config,
	}

	if err := collector.initMetrics(); err != nil {
		return nil, err
	}

	return collector, nil
}

// initMetrics 初始化所有 Prometheus 指标
func (c *prometheusCollector) initMetrics() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 构建指标名称前缀
	prefix := c.config.Namespace
	if c.config.Subsystem != "" {
		prefix = c.config.Namespace + "_" + c.config.Subsystem
	}

	// 后端请求指标
	c.backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_backend_requests_total",
			Help: "Total number of backend operation attempts",
		},
		[]string{"class", "operation", "status_code"},
	)

	c.backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_backend_request_duration_seconds",
			Help:    "Backend operation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"class", "operation"},
	)

	c.backendFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_backend_failures_total",
			Help: "Total number of failed backend operations by reason",
		},
		[]string{"class", "operation", "reason"},
	)

	// 熔断器指标
	c.circuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"breaker_name"},
	)

	c.circuitBreakerEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_circuit_breaker_events_total",
			Help: "Total number of circuit breaker state change events",
		},
		[]string{"breaker_name", "state"},
	)

	// 缓存指标
	c.cacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_operations_total",
			Help: "Total number of fallback cache operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	c.cacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_cache_entries",
			Help: "Current number of fallback cache entries",
		},
		[]string{"cache"},
	)

	// 注册所有指标
	collectors := []prometheus.Collector{
		c.backendRequestsTotal,
		c.backendRequestDuration,
		c.backendFailuresTotal,
		c.circuitBreakerState,
		c.circuitBreakerEvents,
		c.cacheOperationsTotal,
		c.cacheSize,
	}
	for _, collector := range collectors {
		if err := c.registry.Register(collector); err != nil {
			return fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return nil
}

// 后端请求指标收集方法实现

// RecordBackendRequest 记录一次后端操作尝试
func (c *prometheusCollector) RecordBackendRequest(class, operation string, statusCode int, duration time.Duration, failureReason string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	statusCodeStr := fmt.Sprintf("%d", statusCode)

	c.backendRequestsTotal.WithLabelValues(class, operation, statusCodeStr).Inc()
	c.backendRequestDuration.WithLabelValues(class, operation).Observe(duration.Seconds())

	if failureReason != "" {
		c.backendFailuresTotal.WithLabelValues(class, operation, failureReason).Inc()
	}
}

// 熔断器指标收集方法实现

// RecordCircuitBreakerEvent 记录熔断器状态变更事件
func (c *prometheusCollector) RecordCircuitBreakerEvent(breakerName, state string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.circuitBreakerEvents.WithLabelValues(breakerName, state).Inc()
}

// RecordCircuitBreakerState 记录熔断器当前状态值
func (c *prometheusCollector) RecordCircuitBreakerState(breakerName string, state int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.circuitBreakerState.WithLabelValues(breakerName).Set(float64(state))
}

// 缓存指标收集方法实现

// RecordCacheOperation 记录缓存操作结果
func (c *prometheusCollector) RecordCacheOperation(operation, outcome string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.cacheOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordCacheSize 记录缓存当前条目数
func (c *prometheusCollector) RecordCacheSize(size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.cacheSize.WithLabelValues("fallback").Set(float64(size))
}

// 工具方法实现

// GetRegistry 获取 Prometheus 注册器
func (c *prometheusCollector) GetRegistry() *prometheus.Registry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry
}

// Name 获取收集器名称
func (c *prometheusCollector) Name() string {
	return c.name
}

// Close 关闭收集器并清理资源
func (c *prometheusCollector) Close() error {
	// Prometheus 收集器不需要特殊的清理操作
	return nil
}
