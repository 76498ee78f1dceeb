// Package breaker 实现保护单个后端依赖的熔断器引擎
//
// 引擎包装一族异步操作，强制超时截止，维护滚动统计，并在
// 闭合/开启/半开三态间迁移，开启期间按回退函数、缓存、快速失败的
// 顺序产生降级结果
package breaker

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/shengyanli1982/taskgate-go/internal/cache"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
	"github.com/shengyanli1982/taskgate-go/internal/metrics"
)

// callResult 代表实际调用的结算结果
type callResult struct {
	value any
	err   error
}

// Engine 代表熔断器引擎实现
type Engine struct {
	settings  Settings
	store     *cache.FallbackCache     // 回退缓存，进程内共享，可为nil
	collector metrics.MetricsCollector // 指标收集器
	logger    logr.Logger

	mu           sync.Mutex
	state        State
	fires        uint64 // 实际发起的调用次数（滚动窗口）
	successes    uint64
	failures     uint64 // 含超时
	timeouts     uint64
	rejects      uint64
	totalLatency time.Duration
	probing      bool        // 半开状态下探测调用是否在途
	resetTimer   *time.Timer // 开启状态的一次性恢复定时器
	shutdown     bool
}

// NewEngine 创建新的熔断器引擎实例
// settings: 熔断器设置，构造时验证，之后不可变
func NewEngine(settings Settings) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		settings:  settings,
		state:     StateClosed,
		collector: metrics.NewNoopCollector(),
		logger:    logr.Discard(), // 默认使用丢弃日志记录器
	}, nil
}

// SetLogger 设置日志记录器
func (e *Engine) SetLogger(logger logr.Logger) {
	e.logger = logger
}

// SetCollector 设置指标收集器
func (e *Engine) SetCollector(collector metrics.MetricsCollector) {
	if collector != nil {
		e.collector = collector
	}
}

// SetCache 设置回退缓存实例
func (e *Engine) SetCache(store *cache.FallbackCache) {
	e.store = store
}

// Execute 执行受保护的操作
//
// 闭合/半开状态下实际调用在Timeout截止时间内进行，超时与领域错误
// 分别记账；开启状态（或半开且探测在途）下实际调用不会被触发，按
// 回退函数、缓存查找、OpenError的顺序产生结果
func (e *Engine) Execute(ctx context.Context, operation string, args []any, call CallFunc) (any, error) {
	if call == nil {
		return nil, ErrNilCall
	}

	e.mu.Lock()
	if e.state == StateOpen || (e.state == StateHalfOpen && e.probing) {
		e.rejects++
		errorPct := e.errorPercentageLocked()
		e.mu.Unlock()

		e.recordRequest(operation, http.StatusServiceUnavailable, 0, constants.FailureReasonOpen)
		return e.resolveFallback(ctx, operation, args, errorPct)
	}

	// 半开状态下只允许一个探测调用
	probe := e.state == StateHalfOpen
	if probe {
		e.probing = true
	}
	e.fires++
	e.mu.Unlock()

	start := time.Now()
	value, err := e.invoke(ctx, operation, call)
	elapsed := time.Since(start)

	e.afterAttempt(probe, err, elapsed)

	if err != nil {
		reason := constants.FailureReasonError
		statusCode := http.StatusInternalServerError
		if IsTimeoutError(err) {
			reason = constants.FailureReasonTimeout
			statusCode = http.StatusGatewayTimeout
		}
		e.recordRequest(operation, statusCode, elapsed, reason)
		return nil, err
	}

	e.recordRequest(operation, http.StatusOK, elapsed, "")

	// 成功的只读结果写入回退缓存
	if e.settings.EnableCache && e.store != nil && e.settings.CacheKeyFunc != nil {
		if key, ok := e.settings.CacheKeyFunc(operation, args); ok {
			e.store.Set(key, value)
		}
	}

	return value, nil
}

// invoke 在超时截止时间内执行实际调用
//
// 容量为1的缓冲通道充当"已裁决"标志：select消费最先结算的一方，
// 败方的迟到结算只会落入缓冲被丢弃，不会二次修改统计
func (e *Engine) invoke(ctx context.Context, operation string, call CallFunc) (any, error) {
	resultCh := make(chan callResult, 1)

	go func() {
		value, err := call(ctx)
		resultCh <- callResult{value: value, err: err}
	}()

	timer := time.NewTimer(e.settings.Timeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		return result.value, result.err
	case <-timer.C:
		// 底层慢调用不会被协作取消，只是调用方不再等待
		return nil, &TimeoutError{
			BreakerName: e.settings.Name,
			Operation:   operation,
			Timeout:     e.settings.Timeout,
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// afterAttempt 在每次实际调用结算后更新统计并评估状态迁移
// 状态迁移严格发生在触发它的统计更新之后
func (e *Engine) afterAttempt(probe bool, err error, elapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.totalLatency += elapsed
	if probe {
		e.probing = false
	}

	if err == nil {
		e.successes++
		// 探测成功，重新闭合并重置滚动窗口
		if e.state == StateHalfOpen {
			e.toClosedLocked()
		}
		return
	}

	e.failures++
	if IsTimeoutError(err) {
		e.timeouts++
	}

	switch e.state {
	case StateHalfOpen:
		// 探测失败，重新开启，恢复定时器以相同的平坦时长重启
		e.toOpenLocked()
	case StateClosed:
		// 错误率评估只在请求量达到阈值后进行，保护低流量下的噪声
		if e.fires >= e.settings.VolumeThreshold && e.errorPercentageLocked() > e.settings.ErrorThreshold {
			e.toOpenLocked()
		}
	}
}

// resolveFallback 在开启状态下解析降级结果
// 顺序：自定义回退函数 > 缓存查找 > OpenError快速失败
func (e *Engine) resolveFallback(ctx context.Context, operation string, args []any, errorPct float64) (any, error) {
	if e.settings.FallbackFunc != nil {
		return e.settings.FallbackFunc(ctx, operation, args)
	}

	if e.settings.EnableCache && e.store != nil && e.settings.CacheKeyFunc != nil {
		if key, ok := e.settings.CacheKeyFunc(operation, args); ok {
			if value, hit := e.store.Get(key); hit {
				if e.settings.EnableMetrics {
					e.collector.RecordCacheOperation("get", constants.CacheOutcomeHit)
				}
				e.logger.Info("Serving fallback from cache", "breaker", e.settings.Name, "operation", operation, "key", key)
				return value, nil
			}
			if e.settings.EnableMetrics {
				e.collector.RecordCacheOperation("get", constants.CacheOutcomeMiss)
			}
		}
	}

	return nil, &OpenError{
		BreakerName:     e.settings.Name,
		ErrorPercentage: errorPct,
	}
}

// errorPercentageLocked 计算当前错误率，调用者必须持有锁
func (e *Engine) errorPercentageLocked() float64 {
	if e.fires == 0 {
		return 0
	}
	return float64(e.failures) / float64(e.fires) * 100
}

// toOpenLocked 迁移到开启状态并启动恢复定时器，调用者必须持有锁
func (e *Engine) toOpenLocked() {
	if e.state == StateOpen {
		return
	}
	e.setStateLocked(StateOpen)

	if e.resetTimer != nil {
		e.resetTimer.Stop()
	}
	e.resetTimer = time.AfterFunc(e.settings.ResetTimeout, e.onResetTimeout)
}

// toClosedLocked 迁移到闭合状态并重置滚动窗口，调用者必须持有锁
func (e *Engine) toClosedLocked() {
	if e.resetTimer != nil {
		e.resetTimer.Stop()
		e.resetTimer = nil
	}
	e.probing = false
	e.fires = 0
	e.successes = 0
	e.failures = 0
	e.timeouts = 0
	e.rejects = 0
	e.totalLatency = 0
	e.setStateLocked(StateClosed)
}

// onResetTimeout 恢复定时器到期回调，开启状态自动进入半开
func (e *Engine) onResetTimeout() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown || e.state != StateOpen {
		return
	}
	e.setStateLocked(StateHalfOpen)
}

// setStateLocked 更新状态并发出状态变更事件，调用者必须持有锁
func (e *Engine) setStateLocked(newState State) {
	if e.state == newState {
		return
	}
	oldState := e.state
	e.state = newState

	e.logger.Info("Circuit breaker state changed",
		"breaker", e.settings.Name,
		"from", oldState.String(),
		"to", newState.String())

	if e.settings.EnableMetrics {
		e.collector.RecordCircuitBreakerEvent(e.settings.Name, newState.String())
		e.collector.RecordCircuitBreakerState(e.settings.Name, int(newState))
	}
}

// recordRequest 记录单次尝试的请求指标
func (e *Engine) recordRequest(operation string, statusCode int, duration time.Duration, failureReason string) {
	if !e.settings.EnableMetrics {
		return
	}
	e.collector.RecordBackendRequest(constants.RequestClassBreaker, operation, statusCode, duration, failureReason)
}

// Name 获取熔断器名称
func (e *Engine) Name() string {
	return e.settings.Name
}

// State 获取当前状态
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stats 获取统计信息快照
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	avgResponseTime := float64(0)
	if e.fires > 0 {
		avgResponseTime = float64(e.totalLatency.Milliseconds()) / float64(e.fires)
	}

	return Stats{
		State:               e.state.String(),
		TotalRequests:       e.successes + e.failures + e.rejects,
		SuccessfulRequests:  e.successes,
		FailedRequests:      e.failures,
		Timeouts:            e.timeouts,
		RejectedRequests:    e.rejects,
		ErrorPercentage:     e.errorPercentageLocked(),
		AverageResponseTime: avgResponseTime,
	}
}

// IsHealthy 检查熔断器是否健康，仅闭合状态算健康
func (e *Engine) IsHealthy() bool {
	return e.State() == StateClosed
}

// Open 操作员手动开启熔断器，重复调用是空操作
func (e *Engine) Open() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toOpenLocked()
}

// Close 操作员手动闭合熔断器，重复调用是空操作
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateClosed {
		return
	}
	e.toClosedLocked()
}

// Shutdown 停止恢复定时器，进程退出前由关闭钩子调用
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.shutdown = true
	if e.resetTimer != nil {
		e.resetTimer.Stop()
		e.resetTimer = nil
	}
}
