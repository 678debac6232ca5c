package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ebay_pricing_v1_202608/internal/api/dto"
	"ebay_pricing_v1_202608/internal/middleware"
	"ebay_pricing_v1_202608/internal/service"
)

type RateTableController struct {
	rateTableSvc *service.RateTableService
}

func NewRateTableController(rateTableSvc *service.RateTableService) *RateTableController {
	return &RateTableController{
		rateTableSvc: rateTableSvc,
	}
}

// ==================== 费率表 ====================

// Generate 生成费率表
// @Summary 生成费率表
// @Description 遍历 服务x分区x国家x重量档 全组合生成价格网格
// @Tags RateTable (费率表)
// @Accept json
// @Produce json
// @Param request body dto.GenerateRateTableRequest true "生成参数"
// @Success 200 {object} dto.GenerateRateTableResponse "生成结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 422 {object} map[string]string "平台费率配置缺失"
// @Router /api/v1/rate-tables/generate [post]
func (c *RateTableController) Generate(ctx *gin.Context) {
	var req dto.GenerateRateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}
	// 平台在请求体里, 冷却检查放在绑定之后
	if !middleware.CheckOp(ctx, req.Platform, middleware.OpTypeRateTable, 0) {
		return
	}

	result, err := c.rateTableSvc.Generate(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(statusForPricingError(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, dto.GenerateRateTableResponse{
		RunID:    result.RunID,
		RowCount: len(result.Rows),
		ErrCount: len(result.Errors),
		Rows:     result.Rows,
		Errors:   result.Errors,
	})
}

// ExportCSV 导出费率表CSV
// @Summary 导出费率表CSV
// @Description 生成费率表并以CSV下载, format=full 完整表 / marketplace 平台上传格式
// @Tags RateTable (费率表)
// @Accept json
// @Produce text/csv
// @Param format query string false "导出格式 full/marketplace"
// @Param request body dto.GenerateRateTableRequest true "生成参数"
// @Success 200 {string} string "CSV内容"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 422 {object} map[string]string "平台费率配置缺失"
// @Router /api/v1/rate-tables/export [post]
func (c *RateTableController) ExportCSV(ctx *gin.Context) {
	var req dto.GenerateRateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}
	if !middleware.CheckOp(ctx, req.Platform, middleware.OpTypeRateTable, 0) {
		return
	}
	format := ctx.DefaultQuery("format", service.ExportFormatFull)

	filename := fmt.Sprintf("rate_table_%s_%s.csv", req.Platform, time.Now().Format("20060102_150405"))
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if _, err := c.rateTableSvc.ExportCSV(ctx.Request.Context(), &req, format, ctx.Writer); err != nil {
		ctx.JSON(statusForPricingError(err), gin.H{"error": err.Error()})
		return
	}
}
