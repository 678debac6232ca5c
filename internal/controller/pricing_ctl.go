package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ebay_pricing_v1_202608/internal/api/dto"
	"ebay_pricing_v1_202608/internal/engine"
	"ebay_pricing_v1_202608/internal/service"
)

type PricingController struct {
	pricingSvc *service.PricingService
}

func NewPricingController(pricingSvc *service.PricingService) *PricingController {
	return &PricingController{
		pricingSvc: pricingSvc,
	}
}

// statusForPricingError 错误分类 -> HTTP 状态
// 分区/费率/配置缺失是数据问题(404/422), 定价不可行是业务结论(422)
func statusForPricingError(err error) int {
	var zoneErr *engine.ZoneNotFoundError
	var rateErr *engine.RateNotFoundError
	var infeasibleErr *engine.InfeasiblePricingError
	var cfgErr *engine.ConfigurationError

	switch {
	case errors.As(err, &zoneErr), errors.As(err, &rateErr):
		return http.StatusNotFound
	case errors.As(err, &infeasibleErr), errors.As(err, &cfgErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ==================== 计价 ====================

// CalculateCost 单件成本计算
// @Summary 单件成本计算
// @Description 计算单件商品的运费与清关成本分解
// @Tags Pricing (计价)
// @Accept json
// @Produce json
// @Param request body dto.CalculateCostRequest true "计算参数"
// @Success 200 {object} dto.CalculateCostResponse "成本分解"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 404 {object} map[string]string "分区或费率未命中"
// @Router /api/v1/pricing/calculate [post]
func (c *PricingController) CalculateCost(ctx *gin.Context) {
	var req dto.CalculateCostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.pricingSvc.CalculateCost(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForPricingError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// SolvePrice 反推售价
// @Summary 反推售价
// @Description 按目标利润率反解建议售价, 可选落库报价记录
// @Tags Pricing (计价)
// @Accept json
// @Produce json
// @Param request body dto.SolvePriceRequest true "反推参数"
// @Success 200 {object} dto.SolvePriceResponse "反推结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 422 {object} map[string]string "定价不可行或配置缺失"
// @Router /api/v1/pricing/solve [post]
func (c *PricingController) SolvePrice(ctx *gin.Context) {
	var req dto.SolvePriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.pricingSvc.SolvePrice(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForPricingError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// BatchQuote 批量报价
// @Summary 批量报价
// @Description 共享一份参考数据快照逐品反推售价并落库
// @Tags Pricing (计价)
// @Accept json
// @Produce json
// @Param request body dto.BatchQuoteRequest true "批量报价参数"
// @Success 200 {object} dto.BatchQuoteResponse "批量结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 422 {object} map[string]string "平台费率配置缺失"
// @Router /api/v1/pricing/batch-quote [post]
func (c *PricingController) BatchQuote(ctx *gin.Context) {
	var req dto.BatchQuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.pricingSvc.BatchQuote(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForPricingError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListQuotes 批量报价记录查询
// @Summary 批量报价记录查询
// @Description 按批量任务ID查询已落库的报价记录
// @Tags Pricing (计价)
// @Produce json
// @Param runId path string true "批量任务ID"
// @Success 200 {object} map[string]interface{} "报价记录列表"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/pricing/quotes/{runId} [get]
func (c *PricingController) ListQuotes(ctx *gin.Context) {
	runID := ctx.Param("runId")
	if runID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的批量任务ID"})
		return
	}

	quotes, err := c.pricingSvc.ListQuotesByRun(ctx.Request.Context(), runID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"run_id": runID,
		"total":  len(quotes),
		"data":   quotes,
	})
}

// EstimateShipping 平台简化运费估算
// @Summary 平台简化运费估算
// @Description 按平台运费规则表估算运费, 不走完整费率流水线
// @Tags Pricing (计价)
// @Produce json
// @Param platform query string true "平台"
// @Param destination_country query string true "目的国ISO-2"
// @Param weight_g query int true "重量(g)"
// @Success 200 {object} dto.EstimateShippingResponse "估算结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 422 {object} map[string]string "无匹配规则"
// @Router /api/v1/pricing/estimate [get]
func (c *PricingController) EstimateShipping(ctx *gin.Context) {
	var req dto.EstimateShippingRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.pricingSvc.EstimateShipping(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForPricingError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
