package breaker

import "context"

// Stats 代表熔断器统计信息的不可变快照
type Stats struct {
	State               string  `json:"state"`
	TotalRequests       uint64  `json:"totalRequests"`
	SuccessfulRequests  uint64  `json:"successfulRequests"`
	FailedRequests      uint64  `json:"failedRequests"`
	Timeouts            uint64  `json:"timeouts"`
	RejectedRequests    uint64  `json:"rejectedRequests"`
	ErrorPercentage     float64 `json:"errorPercentage"`     // 单位：百分比
	AverageResponseTime float64 `json:"averageResponseTime"` // 单位：毫秒
}

// CircuitBreaker 代表熔断器接口
type CircuitBreaker interface {
	// Execute 执行受保护的操作
	// operation: 操作名称，用于指标和缓存键映射
	// args: 操作参数，传递给缓存键函数和回退函数
	// call: 实际调用
	Execute(ctx context.Context, operation string, args []any, call CallFunc) (any, error)

	// Name 获取熔断器名称
	Name() string

	// State 获取当前状态
	State() State

	// Stats 获取统计信息快照
	Stats() Stats

	// IsHealthy 检查熔断器是否健康（仅闭合状态算健康，半开意味着最近有故障）
	IsHealthy() bool

	// Open 操作员手动开启熔断器，幂等
	Open()

	// Close 操作员手动闭合熔断器，幂等
	Close()

	// Shutdown 停止内部定时器，进程退出前调用
	Shutdown()
}
