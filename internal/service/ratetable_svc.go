package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"ebay_pricing_v1_202608/internal/api/dto"
	"ebay_pricing_v1_202608/internal/engine"
)

// CSV 导出格式
const (
	ExportFormatFull        = "full"
	ExportFormatMarketplace = "marketplace"
)

type RateTableService struct {
	cfg        engine.Config
	pricingSvc *PricingService
}

func NewRateTableService(cfg engine.Config, pricingSvc *PricingService) *RateTableService {
	return &RateTableService{cfg: cfg, pricingSvc: pricingSvc}
}

// ==================== 批量生成 ====================

// Generate 全组合费率表生成
// 快照只在入口加载一次, 整批共享; 行级错误不中断整批
func (s *RateTableService) Generate(ctx context.Context, req *dto.GenerateRateTableRequest) (*engine.GenerateResult, error) {
	snap, err := s.pricingSvc.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	fees, err := s.pricingSvc.feeSchedule(ctx, req.Platform, req.AccountID)
	if err != nil {
		return nil, err
	}

	costUSD, err := normalizeCost(snap, req.CostAmount, req.CostCurrency)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := engine.NewGenerator(s.cfg, snap).Generate(ctx, engine.GenerateOptions{
		ServiceTypes:  req.ServiceTypes,
		Countries:     req.Countries,
		WeightMinKg:   req.WeightMinKg,
		WeightMaxKg:   req.WeightMaxKg,
		CostUSD:       costUSD,
		DeclaredValue: req.DeclaredValue,
		IsDDP:         req.IsDDP,
		OriginCountry: req.OriginCountry,
		HtsCode:       req.HtsCode,
		Fees:          fees,
		LocalCurrency: req.LocalCurrency,
		Workers:       req.Workers,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RateTable] 生成完成 run=%s 行数=%d 错误=%d 耗时=%v",
		result.RunID, len(result.Rows), len(result.Errors), time.Since(start))
	return result, nil
}

// ExportCSV 生成并按指定格式写出CSV
func (s *RateTableService) ExportCSV(ctx context.Context, req *dto.GenerateRateTableRequest, format string, w io.Writer) (*engine.GenerateResult, error) {
	result, err := s.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExportFormatMarketplace:
		err = engine.ExportMarketplaceCSV(w, result)
	case ExportFormatFull, "":
		err = engine.ExportRateTableCSV(w, result, req.LocalCurrency)
	default:
		return nil, fmt.Errorf("不支持的导出格式: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("写出CSV失败: %v", err)
	}
	return result, nil
}
