package engine

import "ebay_pricing_v1_202608/internal/model"

// ==================== 计价流水线 ====================

// CalcRequest 单件计价请求
type CalcRequest struct {
	DestinationCountry string  // 目的国 ISO-2
	OriginCountry      string  // 原产国 ISO-2, 空视为无附加关税
	WeightKg           float64 // 实重(kg)
	LengthCm           float64
	WidthCm            float64
	HeightCm           float64
	ServiceType        string // AIR / SEA
	CarrierID          int64
	BillingRule        string // 承运商计费规则, 空取通用 MAX
	IsDDP              bool
	DeclaredValue      float64 // 申报价值(USD)
	HtsCode            string  // 可选
	RemoteArea         bool
}

// CostBreakdown 成本分解
type CostBreakdown struct {
	Zone               string   `json:"zone"`
	ChargeableWeightKg float64  `json:"chargeable_weight"`
	BaseShipping       float64  `json:"base_shipping"`
	FuelSurcharge      float64  `json:"fuel_surcharge"`
	DemandSurcharge    float64  `json:"demand_surcharge"`
	RemoteFee          float64  `json:"remote_fee"`
	Tariff             float64  `json:"tariff"`
	MPF                float64  `json:"mpf"`
	HMF                float64  `json:"hmf"`
	DDPServiceFee      float64  `json:"ddp_service_fee"`
	BuyerDutyEstimate  float64  `json:"buyer_duty_estimate,omitempty"` // DDU 件买家到付关税预估
	HandlingFee        float64  `json:"handling_fee"`
	TotalShipping      float64  `json:"total_shipping"`  // 运费合计 含操作费
	TotalDDPCosts      float64  `json:"total_ddp_costs"` // 清关费用合计
	Strategy           string   `json:"strategy"`
	DisplayShipping    float64  `json:"display_shipping"`
	DefaultsApplied    []string `json:"defaults_applied,omitempty"`
}

// TotalCost 运费+清关合计
func (b *CostBreakdown) TotalCost() float64 {
	return b.TotalShipping + b.TotalDDPCosts
}

// Calculator 计价引擎
// 对快照纯函数式计算, 无副作用, 同输入同输出
type Calculator struct {
	cfg  Config
	snap *Snapshot
}

// NewCalculator 创建计价引擎
func NewCalculator(cfg Config, snap *Snapshot) *Calculator {
	return &Calculator{cfg: cfg, snap: snap}
}

// Config 引擎当前配置
func (c *Calculator) Config() Config {
	return c.cfg
}

// Snapshot 引擎持有的参考数据快照
func (c *Calculator) Snapshot() *Snapshot {
	return c.snap
}

// Calculate 完整成本分解: 分区 -> 计费重量 -> 费率档位 -> 附加费 -> 清关 -> 操作费
func (c *Calculator) Calculate(req CalcRequest) (*CostBreakdown, error) {
	zone, err := c.snap.ResolveZone(req.DestinationCountry)
	if err != nil {
		return nil, err
	}

	chargeable := ChargeableWeightForRule(c.cfg, req.BillingRule, req.WeightKg, req.LengthCm, req.WidthCm, req.HeightCm)

	band, err := c.snap.FindRateBand(zone, req.ServiceType, chargeable)
	if err != nil {
		return nil, err
	}
	return c.calculateWithBand(req, zone, band, chargeable)
}

// CalculateWithBand 指定档位计价
// 费率表按档位出行时用: 代表重量落在档位共享边界上时不再按重量反查档位
func (c *Calculator) CalculateWithBand(req CalcRequest, band model.RateTableEntry) (*CostBreakdown, error) {
	zone, err := c.snap.ResolveZone(req.DestinationCountry)
	if err != nil {
		return nil, err
	}
	chargeable := ChargeableWeightForRule(c.cfg, req.BillingRule, req.WeightKg, req.LengthCm, req.WidthCm, req.HeightCm)
	return c.calculateWithBand(req, zone, band, chargeable)
}

func (c *Calculator) calculateWithBand(req CalcRequest, zone model.Zone, band model.RateTableEntry, chargeable float64) (*CostBreakdown, error) {
	baseShipping := band.BaseRate + (chargeable-band.WeightMinKg)*band.PerKgRate

	carrierID := req.CarrierID
	if carrierID == 0 {
		carrierID = band.CarrierID
	}
	surcharges := ComputeSurcharges(c.cfg, c.snap, carrierID, req.DestinationCountry, baseShipping, req.RemoteArea)

	customs, err := ComputeCustoms(c.cfg, c.snap, req.HtsCode, req.OriginCountry, req.ServiceType, req.DeclaredValue, req.IsDDP)
	if err != nil {
		return nil, err
	}

	ddpPolicy, ok := c.snap.HandlingPolicy(req.DestinationCountry, true)
	if !ok {
		ddpPolicy = DefaultHandlingPolicy(c.cfg, true)
	}
	dduPolicy, ok := c.snap.HandlingPolicy(req.DestinationCountry, false)
	if !ok {
		dduPolicy = DefaultHandlingPolicy(c.cfg, false)
	}

	realShipping := baseShipping + surcharges.Total()
	decision := SelectStrategy(c.cfg, StrategyInput{
		RealShippingCost: realShipping,
		TariffAmount:     customs.Tariff,
		DDPPolicy:        ddpPolicy,
		DDUPolicy:        dduPolicy,
	})
	var buyerDuty float64
	if !req.IsDDP {
		// DDU 件无关税可回收, 直接走 DDU 操作费
		dduFee := ComputeHandlingFee(dduPolicy, 0)
		decision = HandlingDecision{
			Strategy:        StrategyDDUAnchored,
			HandlingFee:     dduFee,
			DisplayShipping: capDisplayShipping(c.cfg, realShipping, dduFee),
		}
		// 买家到付金额预估, 不含我方清关服务费
		if est, err := ComputeCustoms(c.cfg, c.snap, req.HtsCode, req.OriginCountry, req.ServiceType, req.DeclaredValue, true); err == nil {
			buyerDuty = est.Tariff + est.MPF + est.HMF
		}
	}

	breakdown := &CostBreakdown{
		Zone:               zone.Code,
		ChargeableWeightKg: chargeable,
		BaseShipping:       baseShipping,
		FuelSurcharge:      surcharges.FuelSurcharge,
		DemandSurcharge:    surcharges.DemandSurcharge,
		RemoteFee:          surcharges.RemoteFee,
		Tariff:             customs.Tariff,
		MPF:                customs.MPF,
		HMF:                customs.HMF,
		DDPServiceFee:      customs.DDPServiceFee,
		BuyerDutyEstimate:  buyerDuty,
		HandlingFee:        decision.HandlingFee,
		TotalShipping:      realShipping + decision.HandlingFee,
		TotalDDPCosts:      customs.Total(),
		Strategy:           decision.Strategy,
		DisplayShipping:    decision.DisplayShipping,
		DefaultsApplied:    surcharges.DefaultsApplied,
	}
	return breakdown, nil
}

// Quote 成本分解 + 售价反推
// costUSD 为商品采购成本(USD), 与运费/清关合计后按费率结构反解售价
func (c *Calculator) Quote(req CalcRequest, costUSD float64, fees FeeSchedule) (*CostBreakdown, *PriceSolveResult, error) {
	breakdown, err := c.Calculate(req)
	if err != nil {
		return nil, nil, err
	}

	solve, err := SolvePrice(costUSD+breakdown.TotalCost(), fees)
	if err != nil {
		return breakdown, nil, err
	}
	return breakdown, solve, nil
}
