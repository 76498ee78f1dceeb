package breaker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/shengyanli1982/taskgate-go/internal/cache"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
	"github.com/shengyanli1982/taskgate-go/internal/metrics"
)

// 编译期接口实现检查
var _ CircuitBreaker = (*Engine)(nil)

// 注册器相关错误定义
var (
	ErrBreakerNotFound = errors.New(constants.ErrMsgBreakerNotFound)
)

// Registry 代表熔断器注册器，持有名称到引擎的映射
//
// 由组合根显式构造并注入，生命周期随进程；测试构造独立实例
// 而不依赖包级单例
type Registry struct {
	mu        sync.RWMutex
	breakers  map[string]*Engine
	logger    logr.Logger
	collector metrics.MetricsCollector
	store     *cache.FallbackCache
}

// NewRegistry 创建新的熔断器注册器实例
// logger: 日志记录器
// collector: 指标收集器，为nil时使用空操作收集器
// store: 回退缓存实例，可为nil
func NewRegistry(logger logr.Logger, collector metrics.MetricsCollector, store *cache.FallbackCache) *Registry {
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}

	return &Registry{
		breakers:  make(map[string]*Engine),
		logger:    logger,
		collector: collector,
		store:     store,
	}
}

// GetOrCreate 获取指定名称的熔断器，不存在时根据设置创建
// 注册器独占持有引擎实例，同名重复调用返回既有实例
func (r *Registry) GetOrCreate(settings Settings) (*Engine, error) {
	r.mu.RLock()
	engine, exists := r.breakers[settings.Name]
	r.mu.RUnlock()

	if exists {
		return engine, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 双重检查：其他goroutine可能已经创建
	if engine, exists = r.breakers[settings.Name]; exists {
		return engine, nil
	}

	engine, err := NewEngine(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create breaker '%s': %w", settings.Name, err)
	}
	engine.SetLogger(r.logger)
	engine.SetCollector(r.collector)
	engine.SetCache(r.store)

	r.breakers[settings.Name] = engine
	r.logger.Info("Circuit breaker registered", "name", settings.Name)

	return engine, nil
}

// Get 获取指定名称的熔断器
func (r *Registry) Get(name string) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, exists := r.breakers[name]
	return engine, exists
}

// List 获取所有已注册熔断器的名称列表
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	return names
}

// Snapshot 获取所有熔断器的统计信息快照
func (r *Registry) Snapshot() map[string]Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]Stats, len(r.breakers))
	for name, engine := range r.breakers {
		snapshot[name] = engine.Stats()
	}
	return snapshot
}

// Reset 停止并清空所有熔断器，供测试清场和显式重置
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, engine := range r.breakers {
		engine.Shutdown()
	}
	r.breakers = make(map[string]*Engine)
}

// Shutdown 停止所有熔断器的内部定时器，进程退出前由关闭钩子调用
func (r *Registry) Shutdown() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, engine := range r.breakers {
		engine.Shutdown()
	}
}
