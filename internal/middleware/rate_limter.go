package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== OpCooldown 操作冷却限流器 ====================

// OpCooldown 重操作冷却限流器
// 批量费率表生成要做全组合计算, 汇率刷新要调外部API, 都不适合被连续触发
type OpCooldown struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalCooldown = &OpCooldown{}

// GetCooldown 获取全局限流器
func GetCooldown() *OpCooldown {
	return globalCooldown
}

// ==================== 冷却检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行, 允许时同时记为已执行
// key: 限流键, 如 "platform:EBAY_US:rate_table"
// interval: 冷却间隔
func (r *OpCooldown) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{
		Allowed:    true,
		RetryAfter: 0,
	}
}

// CheckOnly 仅检查, 不更新时间
func (r *OpCooldown) CheckOnly(key string, interval time.Duration) CheckResult {
	actual, ok := r.locks.Load(key)
	if !ok {
		return CheckResult{Allowed: true}
	}

	entry := actual.(*lockEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的冷却
func (r *OpCooldown) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Key 生成工具 ====================

// OpType 受限操作类型
type OpType string

const (
	OpTypeRateTable OpType = "rate_table" // 批量费率表生成/导出
	OpTypeFxRefresh OpType = "fx_refresh" // 手动刷新汇率
)

// PlatformOpKey 生成平台级操作 Key
func PlatformOpKey(platform string, op OpType) string {
	return fmt.Sprintf("platform:%s:%s", platform, op)
}

// GlobalOpKey 生成全局操作 Key
func GlobalOpKey(op OpType) string {
	return fmt.Sprintf("global:%s", op)
}

// ==================== 默认冷却间隔 ====================

// DefaultIntervals 默认冷却间隔配置
var DefaultIntervals = map[OpType]time.Duration{
	OpTypeRateTable: 30 * time.Second, // 批量生成是CPU密集操作
	OpTypeFxRefresh: 5 * time.Minute,  // 外部汇率API有调用频率限制
}

// GetInterval 获取操作类型的默认间隔
func GetInterval(op OpType) time.Duration {
	if interval, ok := DefaultIntervals[op]; ok {
		return interval
	}
	return time.Minute
}
