package breaker

// State 代表熔断器状态
type State int32

const (
	// StateClosed 闭合状态，请求正常通过
	StateClosed State = iota

	// StateOpen 开启状态，请求被拒绝并走回退路径
	StateOpen

	// StateHalfOpen 半开状态，允许单个探测请求通过
	StateHalfOpen
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
