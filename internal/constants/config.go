package constants

const (
	// Command line flags - 命令行标志

	// FlagConfig 配置文件路径参数名
	FlagConfig = "config"

	// FlagJSON JSON日志格式参数名
	FlagJSON = "json"

	// FlagRelease 发布模式参数名
	FlagRelease = "release"

	// Flag short aliases - 短参数别名

	// FlagConfigShort 配置文件路径短参数
	FlagConfigShort = "c"

	// FlagJSONShort JSON日志格式短参数
	FlagJSONShort = "j"

	// FlagReleaseShort 发布模式短参数
	FlagReleaseShort = "r"
)

const (
	// Limits and constraints - 限制和约束

	// MinTimeout 最小超时时间（毫秒）
	MinTimeout = 100

	// MaxTimeout 最大超时时间（毫秒，24小时）
	MaxTimeout = 86400000

	// MinPort 最小端口号
	MinPort = 1

	// MaxPort 最大端口号
	MaxPort = 65535

	// MinErrorThreshold 最小熔断错误率阈值（百分比）
	MinErrorThreshold = 1

	// MaxErrorThreshold 最大熔断错误率阈值（百分比）
	MaxErrorThreshold = 100

	// MinVolumeThreshold 最小熔断统计量阈值
	MinVolumeThreshold = 1

	// MaxVolumeThreshold 最大熔断统计量阈值
	MaxVolumeThreshold = 100000

	// MinCacheSize 最小缓存容量
	MinCacheSize = 1

	// MaxCacheSize 最大缓存容量
	MaxCacheSize = 1000000
)

const (
	// Default configuration values - 配置默认值

	// DefaultAddress 默认绑定地址
	DefaultAddress = "0.0.0.0"

	// DefaultAdminPort 默认管理端口
	DefaultAdminPort = 9000

	// DefaultRequestTimeout 默认后端请求超时时间（毫秒）
	DefaultRequestTimeout = 30000

	// DefaultIdleTimeout 默认空闲超时（毫秒）
	DefaultIdleTimeout = 60000

	// DefaultReadTimeout 默认读取超时（毫秒）
	DefaultReadTimeout = 30000

	// DefaultWriteTimeout 默认写入超时（毫秒）
	DefaultWriteTimeout = 30000

	// DefaultConnectTimeout 默认连接超时（毫秒）
	DefaultConnectTimeout = 10000

	// DefaultKeepAlive 默认连接保持时间（毫秒）
	DefaultKeepAlive = 60000

	// DefaultIdleConnsTotal 默认连接池空闲连接总数
	DefaultIdleConnsTotal = 100

	// DefaultIdleConnsPerHost 默认每主机空闲连接数
	DefaultIdleConnsPerHost = 10

	// DefaultMaxConnsPerHost 默认每主机最大连接数
	DefaultMaxConnsPerHost = 50

	// DefaultRetryAttempts 默认重试次数
	DefaultRetryAttempts = 3

	// DefaultRetryInitialDelay 默认重试初始延迟（毫秒）
	DefaultRetryInitialDelay = 500
)

const (
	// Default breaker values - 熔断器默认值

	// DefaultBreakerName 默认熔断器名称
	DefaultBreakerName = "backend-api"

	// DefaultBreakerTimeout 默认熔断器调用超时（毫秒）
	DefaultBreakerTimeout = 10000

	// DefaultBreakerErrorThreshold 默认熔断错误率阈值（百分比）
	DefaultBreakerErrorThreshold = 50

	// DefaultBreakerResetTimeout 默认熔断恢复等待时间（毫秒）
	DefaultBreakerResetTimeout = 30000

	// DefaultBreakerVolumeThreshold 默认熔断统计量阈值
	DefaultBreakerVolumeThreshold = 10
)

const (
	// Default cache values - 缓存默认值

	// DefaultCacheMaxSize 默认缓存最大条目数
	DefaultCacheMaxSize = 1000

	// DefaultCacheTTL 默认缓存条目存活时间（毫秒）
	DefaultCacheTTL = 300000

	// DefaultCacheCleanupInterval 默认缓存后台清理间隔（毫秒）
	DefaultCacheCleanupInterval = 60000

	// CacheKeyDigestThreshold 缓存键摘要化长度阈值（字节）
	CacheKeyDigestThreshold = 128
)

const (
	// Auth types - 认证类型

	// AuthTypeNone 无认证
	AuthTypeNone = "none"

	// AuthTypeBearer Bearer Token认证
	AuthTypeBearer = "bearer"

	// AuthTypeBasic Basic认证
	AuthTypeBasic = "basic"
)

const (
	// HTTP headers - HTTP头部

	// HeaderUserAgent User-Agent头部名称
	HeaderUserAgent = "User-Agent"

	// HeaderAuthorization Authorization头部名称
	HeaderAuthorization = "Authorization"

	// HeaderContentType Content-Type头部名称
	HeaderContentType = "Content-Type"

	// HeaderRequestID 请求ID头部名称
	HeaderRequestID = "X-Request-ID"

	// ContentTypeJSON JSON内容类型
	ContentTypeJSON = "application/json"

	// BearerPrefix Bearer认证头部前缀
	BearerPrefix = "Bearer "

	// BasicPrefix Basic认证头部前缀
	BasicPrefix = "Basic "
)
