package constants

const (
	// Error messages - 错误消息

	// ErrMsgServerAlreadyStarted 服务器已启动错误消息
	ErrMsgServerAlreadyStarted = "server already started"

	// ErrMsgServerNotStarted 服务器未启动错误消息
	ErrMsgServerNotStarted = "server not started"

	// ErrMsgClientClosed 客户端已关闭错误消息
	ErrMsgClientClosed = "client is closed"

	// ErrMsgNilConfig 空配置错误消息
	ErrMsgNilConfig = "config cannot be nil"

	// ErrMsgNilBackend 空后端客户端错误消息
	ErrMsgNilBackend = "backend client cannot be nil"

	// ErrMsgNilBreaker 空熔断器错误消息
	ErrMsgNilBreaker = "circuit breaker cannot be nil"

	// ErrMsgEmptyBreakerName 空熔断器名称错误消息
	ErrMsgEmptyBreakerName = "breaker name cannot be empty"

	// ErrMsgBreakerNotFound 熔断器未找到错误消息
	ErrMsgBreakerNotFound = "breaker not found"

	// ErrMsgInvalidSettings 无效熔断器设置错误消息
	ErrMsgInvalidSettings = "invalid breaker settings"

	// ErrMsgInvalidCacheSize 无效缓存容量错误消息
	ErrMsgInvalidCacheSize = "cache max size must be positive"

	// ErrMsgInvalidCacheTTL 无效缓存TTL错误消息
	ErrMsgInvalidCacheTTL = "cache default ttl must be positive"
)

const (
	// Failure reasons for metrics - 指标失败原因

	// FailureReasonTimeout 调用超时失败原因
	FailureReasonTimeout = "timeout"

	// FailureReasonError 调用错误失败原因
	FailureReasonError = "error"

	// FailureReasonOpen 熔断器开启拒绝原因
	FailureReasonOpen = "circuit_open"
)

const (
	// Cache operation outcomes for metrics - 缓存操作结果

	// CacheOutcomeHit 缓存命中
	CacheOutcomeHit = "hit"

	// CacheOutcomeMiss 缓存未命中
	CacheOutcomeMiss = "miss"

	// CacheOutcomeEvict 缓存驱逐
	CacheOutcomeEvict = "evict"

	// CacheOutcomeExpire 缓存过期
	CacheOutcomeExpire = "expire"
)
