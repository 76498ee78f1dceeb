package client

import (
	"context"

	"github.com/shengyanli1982/taskgate-go/internal/types"
)

// BackendClient 代表后端任务系统客户端接口
//
// 每个领域操作对应一个显式方法签名，弹性代理实现同一接口，
// 编译期即可保证方法面一致
type BackendClient interface {
	// 任务操作

	// CreateTask 创建任务
	CreateTask(ctx context.Context, req *types.CreateTaskRequest) (*types.Task, error)

	// GetTask 获取指定ID的任务
	GetTask(ctx context.Context, id string) (*types.Task, error)

	// ListTasks 按条件查询任务列表
	ListTasks(ctx context.Context, filter *types.TaskFilter) ([]*types.Task, error)

	// UpdateTask 更新指定ID的任务
	UpdateTask(ctx context.Context, id string, req *types.UpdateTaskRequest) (*types.Task, error)

	// DeleteTask 删除指定ID的任务
	DeleteTask(ctx context.Context, id string) error

	// 项目操作

	// CreateProject 创建项目
	CreateProject(ctx context.Context, req *types.CreateProjectRequest) (*types.Project, error)

	// GetProject 获取指定ID的项目
	GetProject(ctx context.Context, id string) (*types.Project, error)

	// ListProjects 查询所有项目
	ListProjects(ctx context.Context) ([]*types.Project, error)

	// UpdateProject 更新指定ID的项目
	UpdateProject(ctx context.Context, id string, req *types.UpdateProjectRequest) (*types.Project, error)

	// DeleteProject 删除指定ID的项目
	DeleteProject(ctx context.Context, id string) error

	// 迭代操作

	// CreateSprint 创建迭代
	CreateSprint(ctx context.Context, req *types.CreateSprintRequest) (*types.Sprint, error)

	// GetSprint 获取指定ID的迭代
	GetSprint(ctx context.Context, id string) (*types.Sprint, error)

	// ListSprints 按条件查询迭代列表
	ListSprints(ctx context.Context, filter *types.SprintFilter) ([]*types.Sprint, error)

	// UpdateSprint 更新指定ID的迭代
	UpdateSprint(ctx context.Context, id string, req *types.UpdateSprintRequest) (*types.Sprint, error)

	// DeleteSprint 删除指定ID的迭代
	DeleteSprint(ctx context.Context, id string) error

	// 迭代生命周期操作

	// StartSprint 启动迭代（planned -> active）
	StartSprint(ctx context.Context, id string) (*types.Sprint, error)

	// CompleteSprint 完成迭代（active -> completed）
	CompleteSprint(ctx context.Context, id string) (*types.Sprint, error)

	// Health 后端健康检查，弹性代理对该方法直通，不经过熔断器
	Health(ctx context.Context) (*types.HealthStatus, error)
}
