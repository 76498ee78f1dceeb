// Package client 提供后端任务系统的HTTP客户端和弹性代理
//
// ResilientClient镜像真实后端客户端的方法面，把每个调用路由到
// 同一个命名熔断器，按操作名决定可缓存性，并附加链路追踪和
// 请求ID上下文
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/shengyanli1982/taskgate-go/internal/breaker"
	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
	"github.com/shengyanli1982/taskgate-go/internal/tracing"
	"github.com/shengyanli1982/taskgate-go/internal/types"
)

// 编译期接口实现检查
var _ BackendClient = (*ResilientClient)(nil)

// ResilientClient 代表弹性代理客户端
//
// 所有领域操作经过一个共享的命名熔断器；弹性被配置禁用时
// 每个调用退化为带追踪的直通
type ResilientClient struct {
	backend BackendClient
	engine  *breaker.Engine // 弹性禁用时为nil
	logger  logr.Logger
}

// NewResilientClient 创建新的弹性代理客户端实例
// backend: 真实后端客户端
// registry: 熔断器注册器，持有命名熔断器实例
// cfg: 弹性中间件配置
func NewResilientClient(backend BackendClient, registry *breaker.Registry, cfg *config.ResilienceConfig) (*ResilientClient, error) {
	if backend == nil {
		return nil, errors.New(constants.ErrMsgNilBackend)
	}
	if cfg == nil {
		return nil, ErrNilConfig
	}

	client := &ResilientClient{
		backend: backend,
		logger:  logr.Discard(), // 默认使用丢弃日志记录器
	}

	// 弹性禁用时不创建熔断器，调用直通
	if !cfg.Enabled {
		return client, nil
	}

	settings := breaker.Settings{
		Name:            constants.DefaultBreakerName,
		Timeout:         time.Duration(cfg.Breaker.Timeout) * time.Millisecond,
		ErrorThreshold:  cfg.Breaker.ErrorThreshold,
		ResetTimeout:    time.Duration(cfg.Breaker.ResetTimeout) * time.Millisecond,
		VolumeThreshold: uint64(cfg.Breaker.VolumeThreshold),
		EnableMetrics:   cfg.Breaker.Metrics == nil || *cfg.Breaker.Metrics,
		EnableCache:     cfg.Cache.Enabled,
	}
	if cfg.Cache.Enabled {
		settings.CacheKeyFunc = CacheKeyFor
	}

	engine, err := registry.GetOrCreate(settings)
	if err != nil {
		return nil, err
	}
	client.engine = engine

	return client, nil
}

// SetLogger 设置日志记录器
func (c *ResilientClient) SetLogger(logger logr.Logger) {
	c.logger = logger
}

// execute 在追踪跨度内通过熔断器执行操作
func (c *ResilientClient) execute(ctx context.Context, operation string, args []any, call breaker.CallFunc) (any, error) {
	return tracing.WithSpan(ctx, constants.SpanPrefixBackend+operation, func(ctx context.Context, span trace.Span) (any, error) {
		if c.engine == nil {
			// 弹性禁用：带追踪的直通
			return call(ctx)
		}

		span.SetAttributes(attribute.String(constants.AttrBreakerName, c.engine.Name()))
		return c.engine.Execute(ctx, operation, args, call)
	})
}

// executeTyped 执行操作并断言结果类型
// 熔断器开启时缓存命中返回的值与实际调用同类型，断言失败属于编程错误
func executeTyped[T any](c *ResilientClient, ctx context.Context, operation string, args []any, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	result, err := c.execute(ctx, operation, args, func(ctx context.Context) (any, error) {
		return call(ctx)
	})
	if err != nil {
		return zero, err
	}

	value, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T for operation '%s'", result, operation)
	}
	return value, nil
}

// executeVoid 执行无返回值的变更操作
func (c *ResilientClient) executeVoid(ctx context.Context, operation string, args []any, call func(ctx context.Context) error) error {
	_, err := c.execute(ctx, operation, args, func(ctx context.Context) (any, error) {
		return nil, call(ctx)
	})
	return err
}

// 任务操作实现

// CreateTask 创建任务（变更操作，熔断开启时快速失败）
func (c *ResilientClient) CreateTask(ctx context.Context, req *types.CreateTaskRequest) (*types.Task, error) {
	return executeTyped(c, ctx, OpCreateTask, []any{req}, func(ctx context.Context) (*types.Task, error) {
		return c.backend.CreateTask(ctx, req)
	})
}

// GetTask 获取指定ID的任务（只读操作，熔断开启时可降级到缓存）
func (c *ResilientClient) GetTask(ctx context.Context, id string) (*types.Task, error) {
	return executeTyped(c, ctx, OpGetTask, []any{id}, func(ctx context.Context) (*types.Task, error) {
		return c.backend.GetTask(ctx, id)
	})
}

// ListTasks 按条件查询任务列表
func (c *ResilientClient) ListTasks(ctx context.Context, filter *types.TaskFilter) ([]*types.Task, error) {
	return executeTyped(c, ctx, OpListTasks, []any{filter}, func(ctx context.Context) ([]*types.Task, error) {
		return c.backend.ListTasks(ctx, filter)
	})
}

// UpdateTask 更新指定ID的任务
func (c *ResilientClient) UpdateTask(ctx context.Context, id string, req *types.UpdateTaskRequest) (*types.Task, error) {
	return executeTyped(c, ctx, OpUpdateTask, []any{id, req}, func(ctx context.Context) (*types.Task, error) {
		return c.backend.UpdateTask(ctx, id, req)
	})
}

// DeleteTask 删除指定ID的任务
func (c *ResilientClient) DeleteTask(ctx context.Context, id string) error {
	return c.executeVoid(ctx, OpDeleteTask, []any{id}, func(ctx context.Context) error {
		return c.backend.DeleteTask(ctx, id)
	})
}

// 项目操作实现

// CreateProject 创建项目
func (c *ResilientClient) CreateProject(ctx context.Context, req *types.CreateProjectRequest) (*types.Project, error) {
	return executeTyped(c, ctx, OpCreateProject, []any{req}, func(ctx context.Context) (*types.Project, error) {
		return c.backend.CreateProject(ctx, req)
	})
}

// GetProject 获取指定ID的项目
func (c *ResilientClient) GetProject(ctx context.Context, id string) (*types.Project, error) {
	return executeTyped(c, ctx, OpGetProject, []any{id}, func(ctx context.Context) (*types.Project, error) {
		return c.backend.GetProject(ctx, id)
	})
}

// ListProjects 查询所有项目
func (c *ResilientClient) ListProjects(ctx context.Context) ([]*types.Project, error) {
	return executeTyped(c, ctx, OpListProjects, nil, func(ctx context.Context) ([]*types.Project, error) {
		return c.backend.ListProjects(ctx)
	})
}

// UpdateProject 更新指定ID的项目
func (c *ResilientClient) UpdateProject(ctx context.Context, id string, req *types.UpdateProjectRequest) (*types.Project, error) {
	return executeTyped(c, ctx, OpUpdateProject, []any{id, req}, func(ctx context.Context) (*types.Project, error) {
		return c.backend.UpdateProject(ctx, id, req)
	})
}

// DeleteProject 删除指定ID的项目
func (c *ResilientClient) DeleteProject(ctx context.Context, id string) error {
	return c.executeVoid(ctx, OpDeleteProject, []any{id}, func(ctx context.Context) error {
		return c.backend.DeleteProject(ctx, id)
	})
}

// 迭代操作实现

// CreateSprint 创建迭代
func (c *ResilientClient) CreateSprint(ctx context.Context, req *types.CreateSprintRequest) (*types.Sprint, error) {
	return executeTyped(c, ctx, OpCreateSprint, []any{req}, func(ctx context.Context) (*types.Sprint, error) {
		return c.backend.CreateSprint(ctx, req)
	})
}

// GetSprint 获取指定ID的迭代
func (c *ResilientClient) GetSprint(ctx context.Context, id string) (*types.Sprint, error) {
	return executeTyped(c, ctx, OpGetSprint, []any{id}, func(ctx context.Context) (*types.Sprint, error) {
		return c.backend.GetSprint(ctx, id)
	})
}

// ListSprints 按条件查询迭代列表
func (c *ResilientClient) ListSprints(ctx context.Context, filter *types.SprintFilter) ([]*types.Sprint, error) {
	return executeTyped(c, ctx, OpListSprints, []any{filter}, func(ctx context.Context) ([]*types.Sprint, error) {
		return c.backend.ListSprints(ctx, filter)
	})
}

// UpdateSprint 更新指定ID的迭代
func (c *ResilientClient) UpdateSprint(ctx context.Context, id string, req *types.UpdateSprintRequest) (*types.Sprint, error) {
	return executeTyped(c, ctx, OpUpdateSprint, []any{id, req}, func(ctx context.Context) (*types.Sprint, error) {
		return c.backend.UpdateSprint(ctx, id, req)
	})
}

// DeleteSprint 删除指定ID的迭代
func (c *ResilientClient) DeleteSprint(ctx context.Context, id string) error {
	return c.executeVoid(ctx, OpDeleteSprint, []any{id}, func(ctx context.Context) error {
		return c.backend.DeleteSprint(ctx, id)
	})
}

// 迭代生命周期操作实现

// StartSprint 启动迭代
func (c *ResilientClient) StartSprint(ctx context.Context, id string) (*types.Sprint, error) {
	return executeTyped(c, ctx, OpStartSprint, []any{id}, func(ctx context.Context) (*types.Sprint, error) {
		return c.backend.StartSprint(ctx, id)
	})
}

// CompleteSprint 完成迭代
func (c *ResilientClient) CompleteSprint(ctx context.Context, id string) (*types.Sprint, error) {
	return executeTyped(c, ctx, OpCompleteSprint, []any{id}, func(ctx context.Context) (*types.Sprint, error) {
		return c.backend.CompleteSprint(ctx, id)
	})
}

// Health 后端健康检查
// 完全绕过熔断器：后端的真实状态不能被熔断器或缓存状态掩盖
func (c *ResilientClient) Health(ctx context.Context) (*types.HealthStatus, error) {
	result, err := tracing.WithSpan(ctx, constants.SpanPrefixBackend+OpHealth, func(ctx context.Context, span trace.Span) (any, error) {
		return c.backend.Health(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.HealthStatus), nil
}

// 内省方法

// CircuitBreakerStats 获取熔断器统计信息快照，弹性禁用时返回零值
func (c *ResilientClient) CircuitBreakerStats() breaker.Stats {
	if c.engine == nil {
		return breaker.Stats{State: breaker.StateClosed.String()}
	}
	return c.engine.Stats()
}

// IsHealthy 检查熔断器是否健康，弹性禁用时恒为true
func (c *ResilientClient) IsHealthy() bool {
	if c.engine == nil {
		return true
	}
	return c.engine.IsHealthy()
}

// ForceClose 操作员手动闭合熔断器，用于人工恢复
func (c *ResilientClient) ForceClose() {
	if c.engine != nil {
		c.engine.Close()
	}
}

// Unwrap 获取底层真实客户端，供测试绕过弹性层
func (c *ResilientClient) Unwrap() BackendClient {
	return c.backend
}
