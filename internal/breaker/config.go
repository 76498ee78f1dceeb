package breaker

import (
	"context"
	"fmt"
	"time"

	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// CallFunc 代表被熔断器保护的单次操作调用
type CallFunc func(ctx context.Context) (any, error)

// CacheKeyFunc 将操作名和参数映射为缓存键
// 只读操作返回确定性键和true，变更操作必须返回false（永不缓存）
type CacheKeyFunc func(operation string, args []any) (string, bool)

// FallbackFunc 代表熔断器开启时的自定义回退函数，优先于缓存查找
type FallbackFunc func(ctx context.Context, operation string, args []any) (any, error)

// Settings 代表熔断器设置，构造后不可变
type Settings struct {
	// Name 熔断器名称，用于指标、日志和错误信息
	Name string

	// Timeout 实际调用的截止时间，超过后按超时记账并返回TimeoutError
	Timeout time.Duration

	// ErrorThreshold 触发熔断的错误率阈值（百分比）
	ErrorThreshold float64

	// ResetTimeout 开启状态持续时间，到期自动进入半开状态
	// 每次重新开启使用相同的平坦时长，不做指数退避
	ResetTimeout time.Duration

	// VolumeThreshold 错误率评估的最小请求量，低于该值时不触发熔断
	VolumeThreshold uint64

	// CacheKeyFunc 缓存键映射函数，可选
	CacheKeyFunc CacheKeyFunc

	// FallbackFunc 自定义回退函数，可选
	FallbackFunc FallbackFunc

	// EnableMetrics 是否记录指标
	EnableMetrics bool

	// EnableCache 是否启用回退缓存
	EnableCache bool
}

// DefaultSettings 返回默认的熔断器设置
func DefaultSettings(name string) Settings {
	return Settings{
		Name:            name,
		Timeout:         time.Duration(constants.DefaultBreakerTimeout) * time.Millisecond,
		ErrorThreshold:  constants.DefaultBreakerErrorThreshold,
		ResetTimeout:    time.Duration(constants.DefaultBreakerResetTimeout) * time.Millisecond,
		VolumeThreshold: constants.DefaultBreakerVolumeThreshold,
		EnableMetrics:   true,
	}
}

// Validate 验证设置的有效性，无效设置导致构造失败
func (s *Settings) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%s: timeout must be positive", constants.ErrMsgInvalidSettings)
	}
	if s.ErrorThreshold <= 0 || s.ErrorThreshold > 100 {
		return fmt.Errorf("%s: error threshold must be in (0, 100]", constants.ErrMsgInvalidSettings)
	}
	if s.ResetTimeout <= 0 {
		return fmt.Errorf("%s: reset timeout must be positive", constants.ErrMsgInvalidSettings)
	}
	if s.VolumeThreshold == 0 {
		return fmt.Errorf("%s: volume threshold must be positive", constants.ErrMsgInvalidSettings)
	}
	if s.EnableCache && s.CacheKeyFunc == nil {
		return fmt.Errorf("%s: cache enabled without cache key function", constants.ErrMsgInvalidSettings)
	}
	return nil
}
