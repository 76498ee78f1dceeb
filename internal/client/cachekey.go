package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/shengyanli1982/taskgate-go/internal/constants"
)

// 领域操作名称，用于指标、跨度和缓存键映射
const (
	OpCreateTask     = "createTask"
	OpGetTask        = "getTask"
	OpListTasks      = "listTasks"
	OpUpdateTask     = "updateTask"
	OpDeleteTask     = "deleteTask"
	OpCreateProject  = "createProject"
	OpGetProject     = "getProject"
	OpListProjects   = "listProjects"
	OpUpdateProject  = "updateProject"
	OpDeleteProject  = "deleteProject"
	OpCreateSprint   = "createSprint"
	OpGetSprint      = "getSprint"
	OpListSprints    = "listSprints"
	OpUpdateSprint   = "updateSprint"
	OpDeleteSprint   = "deleteSprint"
	OpStartSprint    = "startSprint"
	OpCompleteSprint = "completeSprint"
	OpHealth         = "health"
)

// CacheKeyFor 将操作名和参数映射为回退缓存键
//
// 只有只读操作名（get/list前缀）产生确定性键，所有变更操作名不产生键：
// 变更永不被缓存，熔断器开启时变更必须快速失败而不是从陈旧数据静默成功
func CacheKeyFor(operation string, args []any) (string, bool) {
	if !strings.HasPrefix(operation, "get") && !strings.HasPrefix(operation, "list") {
		return "", false
	}

	switch operation {
	case OpGetTask:
		return entityKey("task", args)
	case OpGetProject:
		return entityKey("project", args)
	case OpGetSprint:
		return entityKey("sprint", args)
	case OpListTasks:
		return listKey("tasks", args)
	case OpListProjects:
		return "projects:list", true
	case OpListSprints:
		return listKey("sprints", args)
	default:
		return "", false
	}
}

// entityKey 构造单实体缓存键（如 task:123）
func entityKey(prefix string, args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	id, ok := args[0].(string)
	if !ok || id == "" {
		return "", false
	}
	return digestIfLong(prefix + ":" + id), true
}

// listKey 构造列表查询缓存键，查询条件序列化后做xxhash摘要保证键短且确定
func listKey(prefix string, args []any) (string, bool) {
	if len(args) == 0 || args[0] == nil {
		return prefix + ":list", true
	}
	data, err := json.Marshal(args[0])
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:list:%016x", prefix, xxhash.Sum64(data)), true
}

// digestIfLong 对超长键做xxhash摘要，避免病态的大键
func digestIfLong(key string) string {
	if len(key) <= constants.CacheKeyDigestThreshold {
		return key
	}
	return fmt.Sprintf("xxh64:%016x", xxhash.Sum64String(key))
}
