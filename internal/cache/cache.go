// Package cache 提供有界的TTL+LRU回退缓存，在后端不可用时为只读操作提供降级数据
package cache

import (
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Stats 代表缓存统计信息快照
type Stats struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Size        int     `json:"size"`
	MaxSize     int     `json:"maxSize"`
	Evictions   uint64  `json:"evictions"`
	Expirations uint64  `json:"expirations"`
	HitRate     float64 `json:"hitRate"` // 单位：百分比
}

// FallbackCache 代表回退缓存，进程内全局共享，所有启用缓存的熔断器使用同一实例
type FallbackCache struct {
	mu          sync.Mutex
	entries     map[string]*entry
	maxSize     int
	defaultTTL  time.Duration
	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
	stopCh      chan struct{}
	stopOnce    sync.Once
	janitorOn   bool
	logger      logr.Logger
}

// NewFallbackCache 创建新的回退缓存实例
// maxSize: 最大条目数，达到上限时按LRU驱逐
// defaultTTL: 未显式指定TTL时条目的默认存活时间
func NewFallbackCache(maxSize int, defaultTTL time.Duration) *FallbackCache {
	return &FallbackCache{
		entries:    make(map[string]*entry),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		stopCh:     make(chan struct{}),
		logger:     logr.Discard(), // 默认使用丢弃日志记录器
	}
}

// SetLogger 设置日志记录器
func (c *FallbackCache) SetLogger(logger logr.Logger) {
	c.logger = logger
}

// Get 获取缓存值，存在且未过期时返回值和true
// 过期条目在访问时惰性删除，与未命中同样计为miss
func (c *FallbackCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	ent, exists := c.entries[key]
	if !exists {
		c.misses++
		return nil, false
	}
	if ent.expired(now) {
		delete(c.entries, key)
		c.expirations++
		c.misses++
		return nil, false
	}

	// 命中时更新LRU元数据
	ent.lastAccessedAt = now
	ent.accessCount++
	c.hits++
	return ent.value, true
}

// Set 使用默认TTL插入或覆盖缓存条目
func (c *FallbackCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL 使用指定TTL插入或覆盖缓存条目
// 新键在容量已满时先驱逐lastAccessedAt最旧的单个条目
// 多个条目访问时间相同时驱逐顺序不确定（map迭代顺序）
func (c *FallbackCache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &entry{
		value:          value,
		createdAt:      now,
		expiresAt:      now.Add(ttl),
		lastAccessedAt: now,
	}
}

// evictOldest 驱逐lastAccessedAt最旧的单个条目，调用者必须持有锁
func (c *FallbackCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, ent := range c.entries {
		if !found || ent.lastAccessedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = ent.lastAccessedAt
			found = true
		}
	}
	if found {
		delete(c.entries, oldestKey)
		c.evictions++
		c.logger.Info("Cache entry evicted", "key", oldestKey, "last_accessed_at", oldestAt)
	}
}

// Has 检查键是否存在且未过期，与Get相同的惰性过期语义但不更新LRU元数据
func (c *FallbackCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, exists := c.entries[key]
	if !exists {
		return false
	}
	if ent.expired(time.Now()) {
		delete(c.entries, key)
		c.expirations++
		return false
	}
	return true
}

// Delete 删除指定键，返回键是否存在
func (c *FallbackCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.entries[key]
	if exists {
		delete(c.entries, key)
	}
	return exists
}

// Clear 清空所有缓存条目，统计计数保留
func (c *FallbackCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// Cleanup 主动扫描并删除所有已过期条目，返回删除数量
// 与访问时的惰性过期互补，供后台任务周期性调用
func (c *FallbackCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, ent := range c.entries {
		if ent.expired(now) {
			delete(c.entries, key)
			c.expirations++
			removed++
		}
	}
	return removed
}

// Len 返回当前缓存条目数量
func (c *FallbackCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats 返回缓存统计信息快照，无请求时命中率为0
func (c *FallbackCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	hitRate := float64(0)
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}

	return Stats{
		Hits:        c.hits,
		Misses:      c.misses,
		Size:        len(c.entries),
		MaxSize:     c.maxSize,
		Evictions:   c.evictions,
		Expirations: c.expirations,
		HitRate:     hitRate,
	}
}

// StartJanitor 启动后台清理任务，按指定间隔调用Cleanup
// 重复调用是空操作
func (c *FallbackCache) StartJanitor(interval time.Duration) {
	c.mu.Lock()
	if c.janitorOn {
		c.mu.Unlock()
		return
	}
	c.janitorOn = true
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := c.Cleanup(); removed > 0 {
					c.logger.Info("Cache cleanup completed", "removed", removed)
				}
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop 停止后台清理任务，进程退出前由关闭钩子调用
func (c *FallbackCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}
