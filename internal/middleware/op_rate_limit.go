package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 重操作冷却中间件 ====================

// OpRateLimit 重操作冷却中间件
// 按查询参数 platform 维度限流, 取不到时退化为全局限流
//
// 使用示例:
//
//	router.POST("/api/v1/exchange-rates/refresh",
//	    middleware.OpRateLimit(middleware.OpTypeFxRefresh, 0),
//	    controller.RefreshRates,
//	)
//
// 参数:
//   - op: 操作类型
//   - interval: 冷却间隔, 0 表示使用默认值
func OpRateLimit(op OpType, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(op)
	}

	return func(c *gin.Context) {
		if !CheckOp(c, c.Query("platform"), op, interval) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// CheckOp 冷却检查, 平台为空时退化为全局限流
// 平台参数在请求体里的接口由控制器绑定后调用; 未通过时写出 429 并返回 false
func CheckOp(c *gin.Context, platform string, op OpType, interval time.Duration) bool {
	if interval == 0 {
		interval = GetInterval(op)
	}

	key := GlobalOpKey(op)
	if platform != "" {
		key = PlatformOpKey(platform, op)
	}

	result := GetCooldown().Check(key, interval)
	if result.Allowed {
		return true
	}

	retryAfter := int(result.RetryAfter.Seconds())
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       formatRetryMessage(result.RetryAfter),
		"retry_after": retryAfter,
		"op":          op,
	})
	return false
}

// ==================== 辅助函数 ====================

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())

	if seconds < 60 {
		return fmt.Sprintf("操作冷却中，请 %d 秒后重试", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60

	if remainingSeconds == 0 {
		return fmt.Sprintf("操作冷却中，请 %d 分钟后重试", minutes)
	}

	return fmt.Sprintf("操作冷却中，请 %d 分 %d 秒后重试", minutes, remainingSeconds)
}
