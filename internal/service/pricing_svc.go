package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/api/dto"
	"ebay_pricing_v1_202608/internal/engine"
	"ebay_pricing_v1_202608/internal/model"
	"ebay_pricing_v1_202608/internal/repository"
)

// 参考数据一次性读取的超时; 内存计算不设超时
const snapshotLoadTimeout = 10 * time.Second

type PricingService struct {
	cfg engine.Config

	zoneRepo      repository.ZoneRepository
	rateRepo      repository.RateTableRepository
	surchargeRepo repository.SurchargeRepository
	htsRepo       repository.HtsCodeRepository
	tariffRepo    repository.CountryTariffRepository
	handlingRepo  repository.HandlingPolicyRepository
	settingsRepo  repository.MarketplaceSettingsRepository
	ruleRepo      repository.ShippingRuleRepository
	fxRepo        repository.ExchangeRateRepository
	quoteRepo     repository.QuoteRepository
}

func NewPricingService(
	cfg engine.Config,
	zoneRepo repository.ZoneRepository,
	rateRepo repository.RateTableRepository,
	surchargeRepo repository.SurchargeRepository,
	htsRepo repository.HtsCodeRepository,
	tariffRepo repository.CountryTariffRepository,
	handlingRepo repository.HandlingPolicyRepository,
	settingsRepo repository.MarketplaceSettingsRepository,
	ruleRepo repository.ShippingRuleRepository,
	fxRepo repository.ExchangeRateRepository,
	quoteRepo repository.QuoteRepository,
) *PricingService {
	return &PricingService{
		cfg:           cfg,
		zoneRepo:      zoneRepo,
		rateRepo:      rateRepo,
		surchargeRepo: surchargeRepo,
		htsRepo:       htsRepo,
		tariffRepo:    tariffRepo,
		handlingRepo:  handlingRepo,
		settingsRepo:  settingsRepo,
		ruleRepo:      ruleRepo,
		fxRepo:        fxRepo,
		quoteRepo:     quoteRepo,
	}
}

// ==================== 快照加载 ====================

// LoadSnapshot 一次性读出全部参考表构建只读快照
// 批量任务在入口调用一次, 行间共享, 保证批内费率一致
func (s *PricingService) LoadSnapshot(ctx context.Context) (*engine.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotLoadTimeout)
	defer cancel()

	var data engine.SnapshotData
	var err error

	if data.Zones, err = s.zoneRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("读取分区失败: %v", err)
	}
	if data.CountryMappings, err = s.zoneRepo.ListCountryMappings(ctx); err != nil {
		return nil, fmt.Errorf("读取国家分区映射失败: %v", err)
	}
	if data.RateEntries, err = s.rateRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("读取费率表失败: %v", err)
	}
	if data.FuelRates, err = s.surchargeRepo.ListAllFuel(ctx); err != nil {
		return nil, fmt.Errorf("读取燃油附加费失败: %v", err)
	}
	if data.DemandRates, err = s.surchargeRepo.ListAllDemand(ctx); err != nil {
		return nil, fmt.Errorf("读取旺季附加费失败: %v", err)
	}
	if data.HtsCodes, err = s.htsRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("读取HTS税则失败: %v", err)
	}
	if data.CountryTariffs, err = s.tariffRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("读取原产国附加关税失败: %v", err)
	}
	if data.HandlingPolicy, err = s.handlingRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("读取操作费策略失败: %v", err)
	}
	if data.ExchangeRates, err = s.fxRepo.ListPairs(ctx); err != nil {
		return nil, fmt.Errorf("读取汇率失败: %v", err)
	}

	return engine.NewSnapshot(time.Now(), data), nil
}

// ==================== 单件计算 ====================

// CalculateCost 单件成本分解
func (s *PricingService) CalculateCost(ctx context.Context, req *dto.CalculateCostRequest) (*dto.CalculateCostResponse, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := engine.NewCalculator(s.cfg, snap).Calculate(toCalcRequest(req))
	if err != nil {
		return nil, err
	}
	if len(breakdown.DefaultsApplied) > 0 {
		log.Printf("[Pricing] %s 计价使用默认值: %v", req.DestinationCountry, breakdown.DefaultsApplied)
	}

	return &dto.CalculateCostResponse{
		Breakdown: breakdown,
		TotalCost: breakdown.TotalCost(),
	}, nil
}

// SolvePrice 成本分解 + 反推售价, 可选落库报价记录
func (s *PricingService) SolvePrice(ctx context.Context, req *dto.SolvePriceRequest) (*dto.SolvePriceResponse, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	fees, err := s.feeSchedule(ctx, req.Platform, req.AccountID)
	if err != nil {
		return nil, err
	}

	costUSD, err := normalizeCost(snap, req.CostAmount, req.CostCurrency)
	if err != nil {
		return nil, err
	}

	calc := engine.NewCalculator(s.cfg, snap)
	breakdown, solve, err := calc.Quote(toCalcRequest(&req.CalculateCostRequest), costUSD, fees)
	if err != nil {
		return nil, err
	}

	resp := &dto.SolvePriceResponse{Breakdown: breakdown, Solve: solve}

	if req.Persist {
		quote, err := s.persistQuote(ctx, "", req.SKU, &req.CalculateCostRequest, breakdown, solve)
		if err != nil {
			return nil, err
		}
		resp.QuoteID = quote.ID
	}
	return resp, nil
}

// BatchQuote 批量报价: 共享一份快照, 逐品计算并落库, 单品失败不中断
func (s *PricingService) BatchQuote(ctx context.Context, req *dto.BatchQuoteRequest) (*dto.BatchQuoteResponse, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	fees, err := s.feeSchedule(ctx, req.Platform, req.AccountID)
	if err != nil {
		return nil, err
	}

	calc := engine.NewCalculator(s.cfg, snap)
	resp := &dto.BatchQuoteResponse{RunID: uuid.NewString()}

	for i := range req.Items {
		item := &req.Items[i]
		row := dto.BatchQuoteRowResult{SKU: item.SKU}

		costUSD, err := normalizeCost(snap, item.CostAmount, item.CostCurrency)
		if err == nil {
			var breakdown *engine.CostBreakdown
			var solve *engine.PriceSolveResult
			breakdown, solve, err = calc.Quote(toCalcRequest(&item.CalculateCostRequest), costUSD, fees)
			if err == nil {
				quote, perr := s.persistQuote(ctx, resp.RunID, item.SKU, &item.CalculateCostRequest, breakdown, solve)
				if perr != nil {
					err = perr
				} else {
					row.QuoteID = quote.ID
					row.Price = solve.SuggestedPrice
					row.Margin = solve.ProfitMargin
					row.CanList = solve.CanList
					resp.OKCount++
				}
			}
		}
		if err != nil {
			row.Error = err.Error()
			log.Printf("[Pricing] 批量报价 run=%s sku=%s 失败: %v", resp.RunID, item.SKU, err)
		}
		resp.Results = append(resp.Results, row)
	}
	return resp, nil
}

// EstimateShipping 平台简化运费估算 (规则表路径, 与完整费率表流水线独立)
func (s *PricingService) EstimateShipping(ctx context.Context, req *dto.EstimateShippingRequest) (*dto.EstimateShippingResponse, error) {
	rule, err := s.ruleRepo.Match(ctx, req.Platform, req.DestinationCountry, req.WeightG)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &engine.ConfigurationError{Entity: "shipping_rules", Key: req.Platform + "/" + req.DestinationCountry}
		}
		return nil, err
	}

	fee := rule.BaseFee + float64(req.WeightG)/1000*rule.PerKgFee
	return &dto.EstimateShippingResponse{
		Platform:           req.Platform,
		DestinationCountry: req.DestinationCountry,
		WeightG:            req.WeightG,
		ShippingFee:        fee,
		RuleID:             rule.ID,
	}, nil
}

// ListQuotesByRun 按批量任务ID查报价记录
func (s *PricingService) ListQuotesByRun(ctx context.Context, runID string) ([]model.ProductQuote, error) {
	return s.quoteRepo.ListByRunID(ctx, runID)
}

// ==================== 内部方法 ====================

// feeSchedule 平台费率结构; 配置缺失不可兜底, 属硬错误
func (s *PricingService) feeSchedule(ctx context.Context, platform, accountID string) (engine.FeeSchedule, error) {
	settings, err := s.settingsRepo.GetActive(ctx, platform, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.FeeSchedule{}, &engine.ConfigurationError{Entity: "marketplace_settings", Key: platform + "/" + accountID}
		}
		return engine.FeeSchedule{}, err
	}
	return engine.FeeSchedule{
		CommissionRate: settings.CommissionRate,
		PaymentFeeRate: settings.PaymentFeeRate,
		FixedFee:       settings.FixedFee,
		TargetMargin:   settings.TargetProfitMargin,
		MinMargin:      settings.MinProfitMargin,
	}, nil
}

// persistQuote 落库报价记录, 完整分解存 JSON 列便于回溯
func (s *PricingService) persistQuote(ctx context.Context, runID, sku string, req *dto.CalculateCostRequest, breakdown *engine.CostBreakdown, solve *engine.PriceSolveResult) (*model.ProductQuote, error) {
	calcData, err := json.Marshal(map[string]interface{}{
		"breakdown": breakdown,
		"solve":     solve,
	})
	if err != nil {
		return nil, fmt.Errorf("序列化报价分解失败: %v", err)
	}

	status := model.QuoteStatusOK
	if !solve.CanList {
		status = model.QuoteStatusInfeasible
	}

	quote := &model.ProductQuote{
		RunID:              runID,
		SKU:                sku,
		DestinationCountry: req.DestinationCountry,
		ServiceType:        req.ServiceType,
		ChargeableWeightKg: breakdown.ChargeableWeightKg,
		TotalCostUSD:       solve.TotalCost,
		SalePriceUSD:       solve.SuggestedPrice,
		HandlingFeeUSD:     breakdown.HandlingFee,
		ProfitMarginPct:    solve.ProfitMargin,
		Status:             status,
		CalcData:           calcData,
	}
	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("保存报价记录失败: %v", err)
	}
	return quote, nil
}

// normalizeCost 采购成本归一化到USD
func normalizeCost(snap *engine.Snapshot, amount float64, currency string) (float64, error) {
	if currency == "" || currency == "USD" {
		return amount, nil
	}
	rate, ok := snap.FxToUSD(currency)
	if !ok || rate <= 0 {
		return 0, &engine.ConfigurationError{Entity: "exchange_rates", Key: currency + "/USD"}
	}
	return amount / rate, nil
}

func toCalcRequest(req *dto.CalculateCostRequest) engine.CalcRequest {
	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = model.ServiceTypeAir
	}
	origin := req.OriginCountry
	if origin == "" {
		origin = "JP"
	}
	return engine.CalcRequest{
		DestinationCountry: req.DestinationCountry,
		OriginCountry:      origin,
		WeightKg:           req.WeightKg,
		LengthCm:           req.LengthCm,
		WidthCm:            req.WidthCm,
		HeightCm:           req.HeightCm,
		ServiceType:        serviceType,
		CarrierID:          req.CarrierID,
		BillingRule:        req.BillingRule,
		IsDDP:              req.IsDDP,
		DeclaredValue:      req.DeclaredValue,
		HtsCode:            req.HtsCode,
		RemoteArea:         req.RemoteArea,
	}
}
