package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/shengyanli1982/gs"
	"github.com/shengyanli1982/law"
	"github.com/shengyanli1982/orbit/utils/log"
	"github.com/shengyanli1982/taskgate-go/internal/breaker"
	"github.com/shengyanli1982/taskgate-go/internal/cache"
	"github.com/shengyanli1982/taskgate-go/internal/client"
	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
	"github.com/shengyanli1982/taskgate-go/internal/metrics"
	"github.com/shengyanli1982/taskgate-go/internal/server"
)

// Version 通过 ldflags 在编译时设置
var Version = "0.1.0"

const ASCII_LOGO = `
████████╗ █████╗ ███████╗██╗  ██╗ ██████╗  █████╗ ████████╗███████╗
╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝██╔════╝ ██╔══██╗╚══██╔══╝██╔════╝
   ██║   ███████║███████╗█████╔╝ ██║  ███╗███████║   ██║   █████╗
   ██║   ██╔══██║╚════██║██╔═██╗ ██║   ██║██╔══██║   ██║   ██╔══╝
   ██║   ██║  ██║███████║██║  ██╗╚██████╔╝██║  ██║   ██║   ███████╗
   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝
	`

// ServiceContext 服务上下文结构体，用于管理服务所需的所有组件
type ServiceContext struct {
	logger      *logr.Logger             // 日志记录器
	asyncWriter *law.WriteAsyncer        // 异步写入器
	config      *config.Config           // 服务配置
	configMgr   *config.Manager          // 配置管理器
	collector   metrics.MetricsCollector // 指标收集器
	store       *cache.FallbackCache     // 回退缓存，禁用时为nil
	registry    *breaker.Registry        // 熔断器注册器
	backend     client.BackendClient     // 真实后端客户端
	resilient   *client.ResilientClient  // 弹性代理客户端
	adminServer *server.AdminServer      // 管理服务器
}

// isReleaseMode 判断是否为发布模式
// releaseMode: 是否为发布模式
func isReleaseMode(releaseMode bool) bool {
	return releaseMode || gin.Mode() == gin.ReleaseMode
}

// initLogger 初始化日志系统
// releaseMode: 是否为发布模式
// jsonOutput: 是否输出 JSON 格式日志
func initLogger(releaseMode, jsonOutput bool) (*logr.Logger, *law.WriteAsyncer) {
	var (
		logger      *logr.Logger
		asyncWriter *law.WriteAsyncer
	)

	// 在发布模式下使用异步写入器
	if isReleaseMode(releaseMode) {
		asyncWriter = law.NewWriteAsyncer(os.Stdout, law.DefaultConfig())
		if jsonOutput {
			// JSON 格式输出使用 ZapLogger
			logger = log.NewZapLogger(zapcore.AddSync(asyncWriter)).GetLogrLogger()
		} else {
			// 普通格式输出使用 LogrLogger
			logger = log.NewLogrLogger(asyncWriter).GetLogrLogger()
		}
		return logger, asyncWriter
	}

	// 开发模式直接使用标准输出
	logger = log.NewLogrLogger(os.Stdout).GetLogrLogger()
	return logger, nil
}

// initConfig 初始化配置管理器
// configPath: 配置文件路径
func initConfig(configPath string) (*config.Manager, *config.Config, error) {
	configManager, err := config.NewManager()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create configuration manager: %w", err)
	}
	if err := configManager.LoadFromFile(configPath); err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := configManager.GetConfig()
	return configManager, cfg, nil
}

// initResilience 初始化弹性组件：指标收集器、回退缓存和熔断器注册器
// ctx: 服务上下文
func initResilience(ctx *ServiceContext) error {
	// 创建指标收集器
	metricsConfig := metrics.DefaultConfig()
	metricsConfig.Enabled = ctx.config.Metrics.Enabled

	collector, err := metrics.NewFactory().Create(metricsConfig)
	if err != nil {
		return fmt.Errorf("failed to create metrics collector: %w", err)
	}
	ctx.collector = collector

	// 创建回退缓存并启动后台清理
	cacheConfig := &ctx.config.Resilience.Cache
	if ctx.config.Resilience.Enabled && cacheConfig.Enabled {
		ctx.store = cache.NewFallbackCache(cacheConfig.MaxSize, time.Duration(cacheConfig.DefaultTTL)*time.Millisecond)
		ctx.store.SetLogger(*ctx.logger)
		ctx.store.StartJanitor(time.Duration(cacheConfig.CleanupInterval) * time.Millisecond)
	}

	// 创建熔断器注册器
	ctx.registry = breaker.NewRegistry(*ctx.logger, ctx.collector, ctx.store)

	return nil
}

// initClients 初始化后端客户端和弹性代理客户端
// ctx: 服务上下文
func initClients(ctx *ServiceContext) error {
	backend, err := client.NewHTTPBackendClient(&ctx.config.Backend)
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}
	ctx.backend = backend

	resilient, err := client.NewResilientClient(backend, ctx.registry, &ctx.config.Resilience)
	if err != nil {
		return fmt.Errorf("failed to create resilient client: %w", err)
	}
	resilient.SetLogger(*ctx.logger)
	ctx.resilient = resilient

	return nil
}

// setupGracefulShutdown 设置优雅关闭机制
// ctx: 服务上下文
// releaseMode: 是否为发布模式
func setupGracefulShutdown(ctx *ServiceContext, releaseMode bool) {
	// 创建服务器终止信号
	serverSignal := gs.NewTerminateSignal()
	serverSignal.RegisterCancelHandles(ctx.adminServer.Stop)

	// 创建弹性组件终止信号：停止熔断器定时器和缓存清理goroutine
	resilienceSignal := gs.NewTerminateSignal()
	resilienceSignal.RegisterCancelHandles(ctx.registry.Shutdown)
	if ctx.store != nil {
		resilienceSignal.RegisterCancelHandles(ctx.store.Stop)
	}

	// 创建写入器终止信号
	writerSignal := gs.NewTerminateSignal()
	if isReleaseMode(releaseMode) && ctx.asyncWriter != nil {
		writerSignal.RegisterCancelHandles(ctx.asyncWriter.Stop)
	}

	// 等待所有终止信号完成
	gs.WaitForSync(serverSignal, resilienceSignal, writerSignal)
}

func main() {
	// 定义命令行参数
	var (
		configPath  string
		releaseMode bool
		jsonOutput  bool
	)

	// 设置命令行参数
	cmd := cobra.Command{
		Use:     "taskgate",
		Version: Version,
		Short:   "TaskGate is a resilient gateway for task management backends",
		Long: `TaskGate is a resilience middleware service that shields callers
from an unreliable task management backend.

Core Features:
- Circuit breaking with automatic recovery probing
- Fallback cache for read operations during outages
- Fail-fast behavior for mutations while the backend is down
- Configurable timeout, retry and rate limiting
- Operator endpoints for manual breaker control
- Graceful shutdown support
- JSON/Plain log output support

Technical Specifications:
- Single shared circuit breaker per backend
- Bounded TTL+LRU fallback cache
- Prometheus metrics and OpenTelemetry tracing
- Asynchronous logging system

Author: shengyanli1982
Repository: https://github.com/shengyanli1982/taskgate-go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 创建服务上下文
			ctx := &ServiceContext{}

			// 初始化日志系统
			ctx.logger, ctx.asyncWriter = initLogger(releaseMode, jsonOutput)

			// 加载服务配置
			var err error
			ctx.configMgr, ctx.config, err = initConfig(configPath)
			if err != nil {
				ctx.logger.Error(err, "Failed to load service configuration")
				return err
			}

			ctx.logger.Info("Configuration loaded successfully", "path", ctx.configMgr.GetConfigPath())

			// 输出 ASCII 标志（只有在配置加载成功后才显示）
			fmt.Println(ASCII_LOGO)

			// 初始化弹性组件
			if err = initResilience(ctx); err != nil {
				ctx.logger.Error(err, "Failed to initialize resilience components")
				return err
			}

			// 初始化后端客户端和弹性代理
			if err = initClients(ctx); err != nil {
				ctx.logger.Error(err, "Failed to initialize backend clients")
				return err
			}

			// 创建管理服务器
			ctx.adminServer = server.NewAdminServer(!releaseMode, ctx.logger, &ctx.config.Admin, ctx.config, ctx.registry, ctx.store, ctx.collector)

			// 启动管理服务
			ctx.adminServer.Start()
			ctx.logger.Info("TaskGate started successfully", "backend", ctx.config.Backend.URL, "resilience", ctx.config.Resilience.Enabled)

			// 设置优雅关闭机制
			setupGracefulShutdown(ctx, releaseMode)

			ctx.logger.Info("TaskGate stopped")
			return nil
		},
	}

	// 注册命令行参数
	cmd.Flags().StringVarP(&configPath, constants.FlagConfig, constants.FlagConfigShort, constants.DefaultConfigPath, "Path to configuration file")
	cmd.Flags().BoolVarP(&jsonOutput, constants.FlagJSON, constants.FlagJSONShort, false, "Enable JSON format logging output (only effective in release mode)")
	cmd.Flags().BoolVarP(&releaseMode, constants.FlagRelease, constants.FlagReleaseShort, false, "Enable release mode for performance optimizations and async logging")

	// 执行命令
	if err := cmd.Execute(); err != nil {
		fmt.Printf("Failed to execute command: %v\n", err)
		os.Exit(constants.ExitFailure)
	}
}
