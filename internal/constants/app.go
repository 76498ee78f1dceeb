// Package constants 定义项目中使用的应用级常量
package constants

const (
	// Application metadata - 应用程序元数据

	// DefaultVersion 应用程序默认版本号
	DefaultVersion = "0.0.0"

	// AppName 应用程序名称
	AppName = "TaskGate"

	// UserAgent 默认HTTP用户代理字符串
	UserAgent = "TaskGate/1.0"

	// DefaultConfigPath 默认配置文件路径
	DefaultConfigPath = "./config.yaml"

	// RedactedValue 配置脱敏后的占位值
	RedactedValue = "<redacted>"
)

const (
	// Exit codes - 程序退出码

	// ExitFailure 程序异常退出码
	ExitFailure = -1

	// ExitSuccess 程序正常退出码
	ExitSuccess = 0
)

const (
	// Metrics collector constants - 指标收集器常量

	// MetricsCollectorGlobal 全局指标收集器名称
	MetricsCollectorGlobal = "global"

	// MetricsTypePrometheus Prometheus指标类型
	MetricsTypePrometheus = "prometheus"

	// MetricsNamespace 指标命名空间
	MetricsNamespace = "taskgate"
)

const (
	// Tracing constants - 链路追踪常量

	// TracerName 追踪器名称
	TracerName = "github.com/shengyanli1982/taskgate-go"

	// SpanPrefixBackend 后端操作跨度名称前缀
	SpanPrefixBackend = "backend."

	// AttrRequestID 请求ID跨度属性名
	AttrRequestID = "request.id"

	// AttrBreakerName 熔断器名称跨度属性名
	AttrBreakerName = "breaker.name"
)

const (
	// Request metric classes - 请求指标分类

	// RequestClassBreaker 经过熔断器的请求分类
	RequestClassBreaker = "BREAKER"

	// RequestClassDirect 绕过熔断器的直连请求分类
	RequestClassDirect = "DIRECT"
)
