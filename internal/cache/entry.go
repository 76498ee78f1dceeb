package cache

import "time"

// entry 代表单个缓存条目，时间戳在访问时更新
type entry struct {
	value          any
	createdAt      time.Time
	expiresAt      time.Time
	lastAccessedAt time.Time
	accessCount    uint64
}

// expired 判断条目在指定时间点是否已过期
func (e *entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}
