package router

import (
	"github.com/gin-gonic/gin"

	"ebay_pricing_v1_202608/internal/controller"
	"ebay_pricing_v1_202608/internal/middleware"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	pricingCtl *controller.PricingController,
	rateTableCtl *controller.RateTableController,
	fxCtl *controller.ExchangeRateController) {

	api := r.Group("/api/v1")
	{
		// pricing 计价
		pricing := api.Group("/pricing")
		{
			// POST /api/v1/pricing/calculate
			pricing.POST("/calculate", pricingCtl.CalculateCost)
			pricing.POST("/solve", pricingCtl.SolvePrice)
			pricing.POST("/batch-quote", pricingCtl.BatchQuote)
			// GET /api/v1/pricing/estimate?platform=&destination_country=&weight_g=
			pricing.GET("/estimate", pricingCtl.EstimateShipping)
			pricing.GET("/quotes/:runId", pricingCtl.ListQuotes)
		}

		// rate-tables 费率表 (全组合计算, 平台冷却检查在控制器绑定请求体后执行)
		rateTables := api.Group("/rate-tables")
		{
			rateTables.POST("/generate", rateTableCtl.Generate)
			// POST /api/v1/rate-tables/export?format=full|marketplace
			rateTables.POST("/export", rateTableCtl.ExportCSV)
		}

		// exchange-rates 汇率
		fx := api.Group("/exchange-rates")
		{
			fx.GET("", fxCtl.ListRates)
			fx.POST("/refresh",
				middleware.OpRateLimit(middleware.OpTypeFxRefresh, 0), fxCtl.RefreshRates)
		}
	}
}
