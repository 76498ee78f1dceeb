// Package types 定义后端任务系统的领域数据结构
package types

import "time"

// Task 代表任务记录，是后端系统的核心工作单元
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	SprintID    string     `json:"sprintId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Project 代表项目记录，组织一组相关的任务和迭代
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Sprint 代表迭代记录，包含计划、进行和完成三个生命周期阶段
type Sprint struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	Name      string     `json:"name"`
	Goal      string     `json:"goal,omitempty"`
	Phase     string     `json:"phase"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Sprint phases - 迭代生命周期阶段
const (
	SprintPhasePlanned   = "planned"
	SprintPhaseActive    = "active"
	SprintPhaseCompleted = "completed"
)

// HealthStatus 代表后端健康检查结果
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateTaskRequest 代表创建任务的请求参数
type CreateTaskRequest struct {
	ProjectID   string `json:"projectId"`
	SprintID    string `json:"sprintId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
}

// UpdateTaskRequest 代表更新任务的请求参数，零值字段不参与更新
type UpdateTaskRequest struct {
	SprintID    *string `json:"sprintId,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
}

// TaskFilter 代表任务列表查询条件
type TaskFilter struct {
	ProjectID string `json:"projectId,omitempty"`
	SprintID  string `json:"sprintId,omitempty"`
	Status    string `json:"status,omitempty"`
	Assignee  string `json:"assignee,omitempty"`
}

// CreateProjectRequest 代表创建项目的请求参数
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest 代表更新项目的请求参数
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// CreateSprintRequest 代表创建迭代的请求参数
type CreateSprintRequest struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Goal      string `json:"goal,omitempty"`
}

// UpdateSprintRequest 代表更新迭代的请求参数
type UpdateSprintRequest struct {
	Name *string `json:"name,omitempty"`
	Goal *string `json:"goal,omitempty"`
}

// SprintFilter 代表迭代列表查询条件
type SprintFilter struct {
	ProjectID string `json:"projectId,omitempty"`
	Phase     string `json:"phase,omitempty"`
}
