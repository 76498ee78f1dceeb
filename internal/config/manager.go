package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// 全局验证器实例，用于配置验证
var validate = validator.New()

// Manager 代表配置管理器，负责配置文件的加载、验证和管理
type Manager struct {
	config     *Config             // 当前加载的配置实例
	configPath string              // 配置文件的绝对路径
	validator  *validator.Validate // 配置验证器
}

// NewManager 创建新的配置管理器实例
func NewManager() (*Manager, error) {
	var err error
	// 注册自定义验证器
	err = validate.RegisterValidation("auth_conditional", validateAuthConditional)
	if err != nil {
		return nil, err
	}
	err = validate.RegisterValidation("http_url", validateHTTPURL)
	if err != nil {
		return nil, err
	}

	return &Manager{
		validator: validate,
	}, nil
}

// LoadFromFile 从指定路径加载配置文件并进行验证
// configPath: 配置文件路径
func (m *Manager) LoadFromFile(configPath string) error {
	// 检查文件是否存在
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	// 读取配置文件
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// 解析 YAML 配置
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// 设置默认值
	m.SetDefaults(&config)

	// 验证配置结构，无效配置直接导致启动失败而不是静默修正
	if err := m.validator.Struct(&config); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// 保存配置和路径
	m.config = &config
	m.configPath, _ = filepath.Abs(configPath)

	// 配置加载成功，日志记录由调用者负责
	return nil
}

// GetConfig 返回当前加载的配置实例
func (m *Manager) GetConfig() *Config {
	return m.config
}

// GetConfigPath 返回当前配置文件的绝对路径
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetDefaults 为配置设置默认值，确保所有必需字段都有合理的默认值
// config: 待设置默认值的配置实例
func (m *Manager) SetDefaults(config *Config) {
	// 设置后端连接默认值
	m.setBackendDefaults(config)

	// 设置弹性中间件默认值
	m.setResilienceDefaults(config)

	// 设置管理服务默认值
	m.setAdminDefaults(config)
}

// setBackendDefaults 设置后端连接的默认值
func (m *Manager) setBackendDefaults(config *Config) {
	backend := &config.Backend
	if backend.Agent == "" {
		backend.Agent = constants.UserAgent
	}
	if backend.Auth == nil {
		backend.Auth = &AuthConfig{Type: constants.AuthTypeNone}
	} else if backend.Auth.Type == "" {
		backend.Auth.Type = constants.AuthTypeNone
	}
	if backend.Connect == nil {
		backend.Connect = &ConnectConfig{
			IdleTotal:   constants.DefaultIdleConnsTotal,
			IdlePerHost: constants.DefaultIdleConnsPerHost,
			MaxPerHost:  constants.DefaultMaxConnsPerHost,
		}
	} else {
		if backend.Connect.IdleTotal == 0 {
			backend.Connect.IdleTotal = constants.DefaultIdleConnsTotal
		}
		if backend.Connect.IdlePerHost == 0 {
			backend.Connect.IdlePerHost = constants.DefaultIdleConnsPerHost
		}
		if backend.Connect.MaxPerHost == 0 {
			backend.Connect.MaxPerHost = constants.DefaultMaxConnsPerHost
		}
	}
	if backend.Timeout == nil {
		backend.Timeout = &TimeoutConfig{
			Connect: constants.DefaultConnectTimeout,
			Request: constants.DefaultRequestTimeout,
			Idle:    constants.DefaultIdleTimeout,
		}
	} else {
		if backend.Timeout.Connect == 0 {
			backend.Timeout.Connect = constants.DefaultConnectTimeout
		}
		if backend.Timeout.Request == 0 {
			backend.Timeout.Request = constants.DefaultRequestTimeout
		}
		if backend.Timeout.Idle == 0 {
			backend.Timeout.Idle = constants.DefaultIdleTimeout
		}
	}
	if backend.Retry != nil {
		if backend.Retry.Attempts == 0 {
			backend.Retry.Attempts = constants.DefaultRetryAttempts
		}
		if backend.Retry.Initial == 0 {
			backend.Retry.Initial = constants.DefaultRetryInitialDelay
		}
	}
	if backend.RateLimit != nil {
		if backend.RateLimit.PerSecond == 0 {
			backend.RateLimit.PerSecond = 100
		}
		if backend.RateLimit.Burst == 0 {
			backend.RateLimit.Burst = backend.RateLimit.PerSecond
		}
	}
}

// setResilienceDefaults 设置弹性中间件的默认值
func (m *Manager) setResilienceDefaults(config *Config) {
	breaker := &config.Resilience.Breaker
	if breaker.Timeout == 0 {
		breaker.Timeout = constants.DefaultBreakerTimeout
	}
	if breaker.ErrorThreshold == 0 {
		breaker.ErrorThreshold = constants.DefaultBreakerErrorThreshold
	}
	if breaker.ResetTimeout == 0 {
		breaker.ResetTimeout = constants.DefaultBreakerResetTimeout
	}
	if breaker.VolumeThreshold == 0 {
		breaker.VolumeThreshold = constants.DefaultBreakerVolumeThreshold
	}
	if breaker.Metrics == nil {
		enabled := true
		breaker.Metrics = &enabled
	}

	cache := &config.Resilience.Cache
	if cache.MaxSize == 0 {
		cache.MaxSize = constants.DefaultCacheMaxSize
	}
	if cache.DefaultTTL == 0 {
		cache.DefaultTTL = constants.DefaultCacheTTL
	}
	if cache.CleanupInterval == 0 {
		cache.CleanupInterval = constants.DefaultCacheCleanupInterval
	}
}

// setAdminDefaults 设置管理服务的默认值
func (m *Manager) setAdminDefaults(config *Config) {
	if config.Admin.Port == 0 {
		config.Admin.Port = constants.DefaultAdminPort
	}
	if config.Admin.Address == "" {
		config.Admin.Address = constants.DefaultAddress
	}
	if config.Admin.Timeout == nil {
		config.Admin.Timeout = &TimeoutConfig{
			Idle:  constants.DefaultIdleTimeout,
			Read:  constants.DefaultReadTimeout,
			Write: constants.DefaultWriteTimeout,
		}
	} else {
		if config.Admin.Timeout.Idle == 0 {
			config.Admin.Timeout.Idle = constants.DefaultIdleTimeout
		}
		if config.Admin.Timeout.Read == 0 {
			config.Admin.Timeout.Read = constants.DefaultReadTimeout
		}
		if config.Admin.Timeout.Write == 0 {
			config.Admin.Timeout.Write = constants.DefaultWriteTimeout
		}
	}
}

// validateAuthConditional 验证认证配置的条件必填字段
func validateAuthConditional(fl validator.FieldLevel) bool {
	auth, ok := fl.Parent().Interface().(AuthConfig)
	if !ok {
		return true // 如果不是AuthConfig类型，跳过验证
	}

	switch auth.Type {
	case constants.AuthTypeBearer:
		// 当type为bearer时，token必填
		return auth.Token != ""
	case constants.AuthTypeBasic:
		// 当type为basic时，username和password必填
		return auth.Username != "" && auth.Password != ""
	case constants.AuthTypeNone, "":
		// 当type为none或空时，不需要其他字段
		return true
	default:
		return false // 未知的认证类型
	}
}

// validateHTTPURL 验证URL必须使用HTTP或HTTPS协议
func validateHTTPURL(fl validator.FieldLevel) bool {
	urlStr := fl.Field().String()
	if urlStr == "" {
		return false // 空URL无效
	}

	// 解析URL
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false // URL格式无效
	}

	// 检查协议必须是http或https（大小写不敏感）
	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return false // 协议必须是http或https
	}

	// 检查必须包含有效的host
	return parsedURL.Host != ""
}
