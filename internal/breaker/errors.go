package breaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// 熔断器相关错误定义
var (
	ErrEmptyName   = errors.New(constants.ErrMsgEmptyBreakerName)
	ErrNilCall     = errors.New("call function cannot be nil")
	ErrNilSettings = errors.New("breaker settings cannot be nil")
)

// OpenError 代表熔断器开启且无可用回退时返回的错误
// 携带熔断器名称和最近一次统计的错误率，供调用方区分弹性失败和领域失败
type OpenError struct {
	BreakerName     string
	ErrorPercentage float64 // 单位：百分比
}

// Error 实现error接口
func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker '%s' is open (error rate %.1f%%)", e.BreakerName, e.ErrorPercentage)
}

// TimeoutError 代表实际调用超过熔断器截止时间返回的错误
// 与被包装操作抛出的领域错误区分记账
type TimeoutError struct {
	BreakerName string
	Operation   string
	Timeout     time.Duration
}

// Error 实现error接口
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation '%s' timed out after %s on breaker '%s'", e.Operation, e.Timeout, e.BreakerName)
}

// IsOpenError 判断错误是否为熔断器开启错误
func IsOpenError(err error) bool {
	var openErr *OpenError
	return errors.As(err, &openErr)
}

// IsTimeoutError 判断错误是否为熔断器超时错误
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}
