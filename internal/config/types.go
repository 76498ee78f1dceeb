package config

// Config 代表主配置结构体，包含后端连接、弹性中间件和管理服务的完整配置
type Config struct {
	Backend    BackendConfig    `yaml:"backend" validate:"required"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Admin      AdminConfig      `yaml:"admin"`
}

// BackendConfig 代表后端服务配置，定义与任务后端的连接参数
type BackendConfig struct {
	URL       string           `yaml:"url" validate:"required,http_url"`
	Agent     string           `yaml:"agent"`
	Auth      *AuthConfig      `yaml:"auth,omitempty"`
	Connect   *ConnectConfig   `yaml:"connect,omitempty"`
	Timeout   *TimeoutConfig   `yaml:"timeout,omitempty"`
	Retry     *RetryConfig     `yaml:"retry,omitempty"`
	RateLimit *RateLimitConfig `yaml:"ratelimit,omitempty"`
}

// AuthConfig 代表认证配置，支持Bearer Token和Basic Auth
type AuthConfig struct {
	Type     string `yaml:"type,omitempty" validate:"oneof='' none bearer basic"`
	Token    string `yaml:"token,omitempty" validate:"auth_conditional"`
	Username string `yaml:"username,omitempty" validate:"auth_conditional"`
	Password string `yaml:"password,omitempty" validate:"auth_conditional"`
}

// ConnectConfig 代表连接池配置，控制HTTP连接的复用和管理
type ConnectConfig struct {
	IdleTotal   int `yaml:"idleTotal" validate:"min=0,max=1000"`
	IdlePerHost int `yaml:"idlePerHost" validate:"min=0,max=100"`
	MaxPerHost  int `yaml:"maxPerHost" validate:"min=0,max=500"`
}

// TimeoutConfig 代表超时配置，定义各种操作的超时时间（单位：毫秒）
type TimeoutConfig struct {
	Idle    int `yaml:"idle,omitempty" validate:"omitempty,min=1000,max=86400000"`
	Read    int `yaml:"read,omitempty" validate:"omitempty,min=1000,max=86400000"`
	Write   int `yaml:"write,omitempty" validate:"omitempty,min=1000,max=86400000"`
	Connect int `yaml:"connect,omitempty" validate:"omitempty,min=100,max=86400000"`
	Request int `yaml:"request,omitempty" validate:"omitempty,min=100,max=86400000"`
}

// RetryConfig 代表重试配置，定义失败请求的重试策略
type RetryConfig struct {
	Attempts int `yaml:"attempts" validate:"min=1,max=120"`
	Initial  int `yaml:"initial" validate:"min=100,max=3600000"` // 单位：毫秒
}

// RateLimitConfig 代表限流配置，控制对后端的请求频率和突发流量
type RateLimitConfig struct {
	PerSecond int `yaml:"perSecond" validate:"omitempty,min=1,max=65535"`
	Burst     int `yaml:"burst" validate:"omitempty,min=1,max=65535"`
}

// ResilienceConfig 代表弹性中间件配置，控制熔断器和回退缓存
type ResilienceConfig struct {
	Enabled bool          `yaml:"enabled"`
	Breaker BreakerConfig `yaml:"breaker"`
	Cache   CacheConfig   `yaml:"cache"`
}

// BreakerConfig 代表熔断器配置，保护后端服务避免过载（时间单位：毫秒）
type BreakerConfig struct {
	Timeout         int     `yaml:"timeout,omitempty" validate:"omitempty,min=100,max=86400000"`
	ErrorThreshold  float64 `yaml:"errorThreshold,omitempty" validate:"omitempty,min=1,max=100"` // 单位：百分比
	ResetTimeout    int     `yaml:"resetTimeout,omitempty" validate:"omitempty,min=100,max=3600000"`
	VolumeThreshold int     `yaml:"volumeThreshold,omitempty" validate:"omitempty,min=1,max=100000"`
	Metrics         *bool   `yaml:"metrics,omitempty"`
}

// CacheConfig 代表回退缓存配置，控制缓存容量和条目生命周期（时间单位：毫秒）
type CacheConfig struct {
	Enabled         bool `yaml:"enabled"`
	MaxSize         int  `yaml:"maxSize,omitempty" validate:"omitempty,min=1,max=1000000"`
	DefaultTTL      int  `yaml:"defaultTTL,omitempty" validate:"omitempty,min=100,max=86400000"`
	CleanupInterval int  `yaml:"cleanupInterval,omitempty" validate:"omitempty,min=1000,max=3600000"`
}

// MetricsConfig 代表指标收集配置
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AdminConfig 代表管理服务配置，用于健康检查和监控指标暴露
type AdminConfig struct {
	Port    int            `yaml:"port" validate:"min=1,max=65535"`
	Address string         `yaml:"address"`
	Timeout *TimeoutConfig `yaml:"timeout,omitempty"`
}
