package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ebay_pricing_v1_202608/internal/service"
)

type ExchangeRateController struct {
	fxSvc *service.ExchangeRateService
}

func NewExchangeRateController(fxSvc *service.ExchangeRateService) *ExchangeRateController {
	return &ExchangeRateController{
		fxSvc: fxSvc,
	}
}

// ==================== 汇率 ====================

// ListRates 最新汇率列表
// @Summary 最新汇率列表
// @Description 各币种对最近一次抓取的汇率
// @Tags ExchangeRate (汇率)
// @Produce json
// @Success 200 {array} dto.ExchangeRateResponse "汇率列表"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/exchange-rates [get]
func (c *ExchangeRateController) ListRates(ctx *gin.Context) {
	resp, err := c.fxSvc.ListLatest(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// RefreshRates 手动刷新汇率
// @Summary 手动刷新汇率
// @Description 立即拉取最新汇率并写入快照表
// @Tags ExchangeRate (汇率)
// @Produce json
// @Success 200 {object} map[string]string "{"message": "汇率刷新成功"}"
// @Failure 500 {object} map[string]string "刷新失败"
// @Router /api/v1/exchange-rates/refresh [post]
func (c *ExchangeRateController) RefreshRates(ctx *gin.Context) {
	if err := c.fxSvc.Refresh(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "汇率刷新成功"})
}
