package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/engine"
	"ebay_pricing_v1_202608/internal/middleware"
	"ebay_pricing_v1_202608/internal/repository"
	"ebay_pricing_v1_202608/internal/service"
)

// ==================== 测试辅助 ====================

func setupRateTableCtlRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	pricingSvc := service.NewPricingService(engine.DefaultConfig(),
		repository.NewZoneRepository(db),
		repository.NewRateTableRepository(db),
		repository.NewSurchargeRepository(db),
		repository.NewHtsCodeRepository(db),
		repository.NewCountryTariffRepository(db),
		repository.NewHandlingPolicyRepository(db),
		repository.NewMarketplaceSettingsRepository(db),
		repository.NewShippingRuleRepository(db),
		repository.NewExchangeRateRepository(db),
		repository.NewQuoteRepository(db),
	)
	ctl := NewRateTableController(service.NewRateTableService(engine.DefaultConfig(), pricingSvc))

	r := gin.New()
	r.Use(gin.Recovery())
	rateTables := r.Group("/api/v1/rate-tables")
	{
		rateTables.POST("/generate", ctl.Generate)
	}
	return r
}

// resetRateTableCooldown 清掉测试平台的冷却状态, 限流器是全局单例
func resetRateTableCooldown(platforms ...string) {
	for _, p := range platforms {
		middleware.GetCooldown().Reset(middleware.PlatformOpKey(p, middleware.OpTypeRateTable))
	}
}

// ==================== 单元测试 ====================

func TestRateTableController_GenerateCooldownPerPlatform(t *testing.T) {
	r := setupRateTableCtlRouter(setupPricingCtlTestDB(t))
	resetRateTableCooldown("EBAY_US", "EBAY_DE")
	defer resetRateTableCooldown("EBAY_US", "EBAY_DE")

	body := gin.H{
		"platform":    "EBAY_US",
		"account_id":  "main",
		"cost_amount": 20,
	}
	w := postJSON(r, "/api/v1/rate-tables/generate", body)
	assert.Equal(t, http.StatusOK, w.Code)

	// 同平台冷却期内重复触发
	w = postJSON(r, "/api/v1/rate-tables/generate", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// 冷却按请求体平台分键, 其他平台不被US的冷却拦下 (DE无费率配置, 走 422 而非 429)
	w = postJSON(r, "/api/v1/rate-tables/generate", gin.H{
		"platform":    "EBAY_DE",
		"account_id":  "main",
		"cost_amount": 20,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
