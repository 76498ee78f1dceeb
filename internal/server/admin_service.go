package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shengyanli1982/taskgate-go/internal/breaker"
	"github.com/shengyanli1982/taskgate-go/internal/cache"
	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
	"github.com/shengyanli1982/taskgate-go/internal/metrics"
	"github.com/shengyanli1982/taskgate-go/internal/response"
)

// statusPayload 代表 /status 端点的响应体
type statusPayload struct {
	Service       string                   `json:"service"`
	Uptime        string                   `json:"uptime"`
	Healthy       bool                     `json:"healthy"`
	Breakers      map[string]breaker.Stats `json:"breakers"`
	FallbackCache *cache.Stats             `json:"fallbackCache,omitempty"`
}

// breakerActionPayload 代表熔断器操作端点的响应体
type breakerActionPayload struct {
	Name  string        `json:"name"`
	State string        `json:"state"`
	Stats breaker.Stats `json:"stats"`
}

// AdminService 代表管理服务，暴露熔断器和回退缓存的观测与操作端点
// health check 通过 /ping 端点由 orbit 框架自动提供
type AdminService struct {
	mu           sync.RWMutex
	config       *config.AdminConfig
	globalConfig *config.Config
	logger       *logr.Logger
	registry     *breaker.Registry     // 熔断器注册器引用
	store        *cache.FallbackCache  // 回退缓存引用，禁用时为nil
	collector    metrics.MetricsCollector
	startTime    time.Time
	running      bool
}

// NewAdminServices 创建新的管理服务实例
func NewAdminServices() *AdminService {
	return &AdminService{
		startTime: time.Now(),
	}
}

// Initialize 初始化管理服务
func (s *AdminService) Initialize(config *config.AdminConfig, globalConfig *config.Config, logger *logr.Logger, registry *breaker.Registry, store *cache.FallbackCache, collector metrics.MetricsCollector) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = config
	s.globalConfig = globalConfig
	s.logger = logger
	s.registry = registry
	s.store = store
	s.collector = collector
}

// RegisterGroup 注册路由组和处理器
// 注意: health check 通过 /ping 端点由 orbit 框架自动提供
func (s *AdminService) RegisterGroup(g *gin.RouterGroup) {
	// 服务状态和配置
	g.GET("/status", s.handleStatus)
	g.GET("/config", s.handleConfig)

	// 熔断器观测与操作员控制
	g.GET("/breakers", s.handleListBreakers)
	g.GET("/breakers/:name", s.handleGetBreaker)
	g.POST("/breakers/:name/open", s.handleOpenBreaker)
	g.POST("/breakers/:name/close", s.handleCloseBreaker)

	// 回退缓存观测与清理
	g.GET("/cache", s.handleCacheStats)
	g.DELETE("/cache", s.handleCacheClear)

	// 统一指标端点（替代 orbit 框架的默认 /metrics）
	g.GET("/metrics", s.handleMetrics)
}

// Run 启动管理服务
func (s *AdminService) Run() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.running = true
	if s.logger != nil {
		s.logger.Info("Admin service started")
	}
}

// Stop 停止管理服务
func (s *AdminService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	if s.logger != nil {
		s.logger.Info("Admin service stopped")
	}
}

// IsRunning 检查服务是否运行中
func (s *AdminService) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// handleStatus 处理服务状态请求，汇总熔断器和缓存的整体健康视图
func (s *AdminService) handleStatus(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload := &statusPayload{
		Service: constants.AppName,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Healthy: true,
	}

	if s.registry != nil {
		payload.Breakers = s.registry.Snapshot()
		for _, stats := range payload.Breakers {
			if stats.State != breaker.StateClosed.String() {
				payload.Healthy = false
				break
			}
		}
	}

	if s.store != nil {
		stats := s.store.Stats()
		payload.FallbackCache = &stats
	}

	response.OK(c, payload)
}

// handleConfig 处理配置查看请求，认证凭据在返回前脱敏
func (s *AdminService) handleConfig(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.globalConfig == nil {
		response.NotFound(c, "config not available")
		return
	}

	// 复制一份配置并脱敏凭据，避免泄露到观测面
	sanitized := *s.globalConfig
	if sanitized.Backend.Auth != nil {
		auth := *sanitized.Backend.Auth
		if auth.Token != "" {
			auth.Token = constants.RedactedValue
		}
		if auth.Password != "" {
			auth.Password = constants.RedactedValue
		}
		sanitized.Backend.Auth = &auth
	}

	response.OK(c, &sanitized)
}

// handleListBreakers 处理熔断器列表请求，返回所有命名熔断器的统计快照
func (s *AdminService) handleListBreakers(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.registry == nil {
		response.OK(c, map[string]breaker.Stats{})
		return
	}

	response.OK(c, s.registry.Snapshot())
}

// handleGetBreaker 处理单个熔断器查询请求
func (s *AdminService) handleGetBreaker(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := c.Param("name")
	cb := s.lookupBreaker(name)
	if cb == nil {
		response.NotFound(c, constants.ErrMsgBreakerNotFound)
		return
	}

	response.OK(c, &breakerActionPayload{
		Name:  cb.Name(),
		State: cb.State().String(),
		Stats: cb.Stats(),
	})
}

// handleOpenBreaker 处理操作员强制开启熔断器请求
// 用于在已知后端维护窗口前主动切断流量
func (s *AdminService) handleOpenBreaker(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := c.Param("name")
	cb := s.lookupBreaker(name)
	if cb == nil {
		response.NotFound(c, constants.ErrMsgBreakerNotFound)
		return
	}

	cb.Open()
	if s.logger != nil {
		s.logger.Info("Circuit breaker forced open by operator", "breaker", name)
	}

	response.OK(c, &breakerActionPayload{
		Name:  cb.Name(),
		State: cb.State().String(),
		Stats: cb.Stats(),
	})
}

// handleCloseBreaker 处理操作员手动闭合熔断器请求，用于人工恢复
func (s *AdminService) handleCloseBreaker(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := c.Param("name")
	cb := s.lookupBreaker(name)
	if cb == nil {
		response.NotFound(c, constants.ErrMsgBreakerNotFound)
		return
	}

	cb.Close()
	if s.logger != nil {
		s.logger.Info("Circuit breaker forced closed by operator", "breaker", name)
	}

	response.OK(c, &breakerActionPayload{
		Name:  cb.Name(),
		State: cb.State().String(),
		Stats: cb.Stats(),
	})
}

// handleCacheStats 处理回退缓存统计请求
func (s *AdminService) handleCacheStats(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		response.NotFound(c, "fallback cache is disabled")
		return
	}

	response.OK(c, s.store.Stats())
}

// handleCacheClear 处理回退缓存清空请求
func (s *AdminService) handleCacheClear(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.store == nil {
		response.NotFound(c, "fallback cache is disabled")
		return
	}

	removed := s.store.Len()
	s.store.Clear()
	if s.logger != nil {
		s.logger.Info("Fallback cache cleared by operator", "removed", removed)
	}

	response.OK(c, gin.H{"removed": removed})
}

// handleMetrics 处理统一指标请求（替代 orbit 默认的 /metrics）
func (s *AdminService) handleMetrics(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.collector == nil {
		response.NotFound(c, "metrics collector not available")
		return
	}

	registry := s.collector.GetRegistry()
	if registry == nil {
		response.Error(response.CodeNotFound, "metrics collection is disabled").JSON(c, http.StatusNotFound)
		return
	}

	// 使用 Prometheus HTTP 处理器
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})

	// 将 Gin 上下文转换为标准 HTTP 处理器
	handler.ServeHTTP(c.Writer, c.Request)
}

// lookupBreaker 从注册器查找命名熔断器，调用方持有读锁
func (s *AdminService) lookupBreaker(name string) breaker.CircuitBreaker {
	if s.registry == nil || name == "" {
		return nil
	}
	cb, ok := s.registry.Get(name)
	if !ok {
		return nil
	}
	return cb
}
