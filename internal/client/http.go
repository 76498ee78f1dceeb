package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/shengyanli1982/taskgate-go/internal/auth"
	"github.com/shengyanli1982/taskgate-go/internal/config"
	"github.com/shengyanli1982/taskgate-go/internal/constants"
	"github.com/shengyanli1982/taskgate-go/internal/ratelimit"
	"github.com/shengyanli1982/taskgate-go/internal/tracing"
	"github.com/shengyanli1982/taskgate-go/internal/types"
)

// 客户端相关错误定义
var (
	ErrNilConfig    = errors.New(constants.ErrMsgNilConfig)
	ErrClientClosed = errors.New(constants.ErrMsgClientClosed)
)

// BackendError 代表后端返回的领域错误，原样传播给调用方
type BackendError struct {
	StatusCode int
	Message    string
}

// Error 实现error接口
func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
}

// httpBackendClient 基于HTTP的后端客户端实现
type httpBackendClient struct {
	baseURL string
	agent   string
	client  *http.Client
	pool    *ConnectionPool
	retry   *RetryHandler
	limiter ratelimit.Throttle // 客户端限流器，可为nil
	closed  bool

	// 依赖的模块
	authenticator auth.Authenticator

	// 日志记录器（可选）
	logger logr.Logger
}

// NewHTTPBackendClient 创建新的后端HTTP客户端实例
func NewHTTPBackendClient(cfg *config.BackendConfig) (BackendClient, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	// 创建连接池
	pool := NewConnectionPool(cfg)

	// 创建认证器
	authenticator, err := auth.NewFactory().Create(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	// 获取请求超时时间
	requestTimeout := constants.DefaultRequestTimeout
	if cfg.Timeout != nil && cfg.Timeout.Request > 0 {
		requestTimeout = cfg.Timeout.Request
	}

	// 创建客户端限流器
	var limiter ratelimit.Throttle
	if cfg.RateLimit != nil && cfg.RateLimit.PerSecond > 0 {
		limiter, err = ratelimit.NewFactory().Create(float64(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
	}

	agent := cfg.Agent
	if agent == "" {
		agent = constants.UserAgent
	}

	return &httpBackendClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		agent:   agent,
		client: &http.Client{
			Transport: pool.GetTransport(),
			Timeout:   time.Duration(requestTimeout) * time.Millisecond,
		},
		pool:          pool,
		retry:         NewRetryHandler(cfg.Retry),
		limiter:       limiter,
		authenticator: authenticator,
		logger:        logr.Discard(), // 默认使用丢弃日志记录器
	}, nil
}

// SetLogger 设置日志记录器
func (c *httpBackendClient) SetLogger(logger logr.Logger) {
	c.logger = logger
}

// Close 关闭客户端并清理资源
func (c *httpBackendClient) Close() error {
	c.closed = true
	return c.pool.Close()
}

// doJSON 执行JSON请求并解码响应
// method: HTTP方法
// path: 请求路径
// query: 查询参数，可为nil
// body: 请求体，可为nil
// out: 响应解码目标，可为nil（如删除操作）
func (c *httpBackendClient) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.closed {
		return ErrClientClosed
	}

	// 客户端限流
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	start := time.Now()
	response, err := c.retry.DoWithRetry(ctx, func() (*http.Response, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return nil, err
		}
		return c.client.Do(c.prepareRequest(ctx, req))
	})
	if err != nil {
		c.logger.Error(err, "Backend request failed",
			"method", method,
			"path", path,
			"duration_ms", time.Since(start).Milliseconds())
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		return c.decodeError(response)
	}

	if out != nil && response.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	c.logger.V(1).Info("Backend request completed",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// prepareRequest 为请求附加认证、标识头部和环境请求ID
func (c *httpBackendClient) prepareRequest(ctx context.Context, req *http.Request) *http.Request {
	req.Header.Set(constants.HeaderUserAgent, c.agent)
	if req.Body != nil {
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	}
	if requestID, ok := tracing.RequestIDFrom(ctx); ok {
		req.Header.Set(constants.HeaderRequestID, requestID)
	}

	// 认证失败不中断请求，由后端返回401
	if err := c.authenticator.Apply(req); err != nil {
		c.logger.Error(err, "Failed to apply authentication")
	}
	return req
}

// decodeError 解析后端错误响应
func (c *httpBackendClient) decodeError(response *http.Response) error {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	message := http.StatusText(response.StatusCode)
	if err := json.NewDecoder(response.Body).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			message = envelope.Error
		} else if envelope.Message != "" {
			message = envelope.Message
		}
	}

	return &BackendError{
		StatusCode: response.StatusCode,
		Message:    message,
	}
}

// 任务操作实现

// CreateTask 创建任务
func (c *httpBackendClient) CreateTask(ctx context.Context, req *types.CreateTaskRequest) (*types.Task, error) {
	var task types.Task
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/tasks", nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask 获取指定ID的任务
func (c *httpBackendClient) GetTask(ctx context.Context, id string) (*types.Task, error) {
	var task types.Task
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks 按条件查询任务列表
func (c *httpBackendClient) ListTasks(ctx context.Context, filter *types.TaskFilter) ([]*types.Task, error) {
	query := url.Values{}
	if filter != nil {
		if filter.ProjectID != "" {
			query.Set("projectId", filter.ProjectID)
		}
		if filter.SprintID != "" {
			query.Set("sprintId", filter.SprintID)
		}
		if filter.Status != "" {
			query.Set("status", filter.Status)
		}
		if filter.Assignee != "" {
			query.Set("assignee", filter.Assignee)
		}
	}

	var tasks []*types.Task
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/tasks", query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask 更新指定ID的任务
func (c *httpBackendClient) UpdateTask(ctx context.Context, id string, req *types.UpdateTaskRequest) (*types.Task, error) {
	var task types.Task
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/tasks/"+url.PathEscape(id), nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask 删除指定ID的任务
func (c *httpBackendClient) DeleteTask(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// 项目操作实现

// CreateProject 创建项目
func (c *httpBackendClient) CreateProject(ctx context.Context, req *types.CreateProjectRequest) (*types.Project, error) {
	var project types.Project
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/projects", nil, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject 获取指定ID的项目
func (c *httpBackendClient) GetProject(ctx context.Context, id string) (*types.Project, error) {
	var project types.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(id), nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjects 查询所有项目
func (c *httpBackendClient) ListProjects(ctx context.Context) ([]*types.Project, error) {
	var projects []*types.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateProject 更新指定ID的项目
func (c *httpBackendClient) UpdateProject(ctx context.Context, id string, req *types.UpdateProjectRequest) (*types.Project, error) {
	var project types.Project
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/projects/"+url.PathEscape(id), nil, req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject 删除指定ID的项目
func (c *httpBackendClient) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/projects/"+url.PathEscape(id), nil, nil, nil)
}

// 迭代操作实现

// CreateSprint 创建迭代
func (c *httpBackendClient) CreateSprint(ctx context.Context, req *types.CreateSprintRequest) (*types.Sprint, error) {
	var sprint types.Sprint
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/sprints", nil, req, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// GetSprint 获取指定ID的迭代
func (c *httpBackendClient) GetSprint(ctx context.Context, id string) (*types.Sprint, error) {
	var sprint types.Sprint
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/sprints/"+url.PathEscape(id), nil, nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// ListSprints 按条件查询迭代列表
func (c *httpBackendClient) ListSprints(ctx context.Context, filter *types.SprintFilter) ([]*types.Sprint, error) {
	query := url.Values{}
	if filter != nil {
		if filter.ProjectID != "" {
			query.Set("projectId", filter.ProjectID)
		}
		if filter.Phase != "" {
			query.Set("phase", filter.Phase)
		}
	}

	var sprints []*types.Sprint
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/sprints", query, nil, &sprints); err != nil {
		return nil, err
	}
	return sprints, nil
}

// UpdateSprint 更新指定ID的迭代
func (c *httpBackendClient) UpdateSprint(ctx context.Context, id string, req *types.UpdateSprintRequest) (*types.Sprint, error) {
	var sprint types.Sprint
	if err := c.doJSON(ctx, http.MethodPatch, "/api/v1/sprints/"+url.PathEscape(id), nil, req, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// DeleteSprint 删除指定ID的迭代
func (c *httpBackendClient) DeleteSprint(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/sprints/"+url.PathEscape(id), nil, nil, nil)
}

// 迭代生命周期操作实现

// StartSprint 启动迭代
func (c *httpBackendClient) StartSprint(ctx context.Context, id string) (*types.Sprint, error) {
	var sprint types.Sprint
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/sprints/"+url.PathEscape(id)+"/start", nil, nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// CompleteSprint 完成迭代
func (c *httpBackendClient) CompleteSprint(ctx context.Context, id string) (*types.Sprint, error) {
	var sprint types.Sprint
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/sprints/"+url.PathEscape(id)+"/complete", nil, nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// Health 后端健康检查
func (c *httpBackendClient) Health(ctx context.Context) (*types.HealthStatus, error) {
	var status types.HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
