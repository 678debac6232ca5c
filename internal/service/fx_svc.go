package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"ebay_pricing_v1_202608/internal/api/dto"
	"ebay_pricing_v1_202608/internal/model"
	"ebay_pricing_v1_202608/internal/repository"
	"ebay_pricing_v1_202608/pkg/fx"
)

// 引擎关心的币种对, 其余汇率不入库
var trackedCurrencies = []string{"JPY", "CNY", "EUR", "GBP", "CAD", "AUD"}

type ExchangeRateService struct {
	fxRepo repository.ExchangeRateRepository
	client *fx.Client
}

func NewExchangeRateService(fxRepo repository.ExchangeRateRepository, client *fx.Client) *ExchangeRateService {
	return &ExchangeRateService{fxRepo: fxRepo, client: client}
}

// ==================== 汇率刷新 ====================

// Refresh 拉取最新汇率并写入快照表
// 单个币种失败只记录, 不影响其余币种
func (s *ExchangeRateService) Refresh(ctx context.Context) error {
	rates, err := s.client.FetchUSDRates(ctx)
	if err != nil {
		return fmt.Errorf("拉取汇率失败: %v", err)
	}

	now := time.Now()
	var saved int
	for _, currency := range trackedCurrencies {
		rate, ok := rates[currency]
		if !ok || rate <= 0 {
			log.Printf("[FX] 跳过币种 %s: 接口未返回有效汇率", currency)
			continue
		}
		row := &model.ExchangeRate{
			CurrencyFrom: currency,
			CurrencyTo:   "USD",
			Rate:         rate,
			FetchedAt:    now,
			Source:       "open.er-api.com",
		}
		if err := s.fxRepo.Create(ctx, row); err != nil {
			log.Printf("[FX] 保存 %s/USD 失败: %v", currency, err)
			continue
		}
		saved++
	}

	log.Printf("[FX] 汇率刷新完成, 入库 %d/%d 个币种", saved, len(trackedCurrencies))
	return nil
}

// ListLatest 各币种对最新汇率
func (s *ExchangeRateService) ListLatest(ctx context.Context) ([]dto.ExchangeRateResponse, error) {
	rows, err := s.fxRepo.ListPairs(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ExchangeRateResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.ExchangeRateResponse{
			CurrencyFrom: row.CurrencyFrom,
			CurrencyTo:   row.CurrencyTo,
			Rate:         row.Rate,
			FetchedAt:    row.FetchedAt.Format(time.RFC3339),
			Source:       row.Source,
		})
	}
	return resp, nil
}
