package engine

import "ebay_pricing_v1_202608/internal/model"

// ==================== 操作费与定价锚定策略 ====================

// 定价锚定策略
const (
	StrategyDDPAnchored = "DDP_ANCHORED" // 锚定参考国(美国)售价, 其他分区调操作费/运费
	StrategyDDUAnchored = "DDU_ANCHORED" // 锚定低运费国售价, 美线运费吸收差额
)

// HandlingDecision 策略选择结果
type HandlingDecision struct {
	Strategy        string
	HandlingFee     float64
	DisplayShipping float64 // 买家可见运费, 不超过真实成本的合规倍数
	Notes           []string
}

// ComputeHandlingFee 按策略行计算操作费, 始终钳制在 [min, max]
// PERCENTAGE: 回收关税的配置比例; FIXED: 固定金额
func ComputeHandlingFee(policy model.HandlingFeePolicy, tariffAmount float64) float64 {
	var fee float64
	switch policy.CalculationMethod {
	case model.HandlingMethodFixed:
		fee = policy.FixedAmount
	default:
		fee = tariffAmount * policy.TariffAbsorptionPct
	}
	return clamp(fee, policy.MinHandling, policy.MaxHandling)
}

// DefaultHandlingPolicy 目的国无策略行时的兜底策略
// DDP按配置边界全额回收关税, DDU取下限定额
func DefaultHandlingPolicy(cfg Config, isDDP bool) model.HandlingFeePolicy {
	if isDDP {
		return model.HandlingFeePolicy{
			IsDDP:               true,
			CalculationMethod:   model.HandlingMethodPercentage,
			TariffAbsorptionPct: 1.0,
			MinHandling:         cfg.DDPHandlingMin,
			MaxHandling:         cfg.DDPHandlingMax,
		}
	}
	return model.HandlingFeePolicy{
		CalculationMethod: model.HandlingMethodFixed,
		FixedAmount:       cfg.DDUHandlingMin,
		MinHandling:       cfg.DDUHandlingMin,
		MaxHandling:       cfg.DDUHandlingMax,
	}
}

// StrategyInput 策略选择入参
type StrategyInput struct {
	RealShippingCost float64 // 基础运费+附加费, 不含操作费
	TariffAmount     float64
	SalePrice        float64 // 已知售价时参与25%合规校验, 0 表示未定价
	DDPPolicy        model.HandlingFeePolicy
	DDUPolicy        model.HandlingFeePolicy
}

// SelectStrategy 在 DDP 锚定与 DDU 锚定之间选择
// 优先 DDP 锚定; 当关税回收额低于 DDP 操作费下限(低价件), 或操作费触发
// 售价占比/展示运费倍数合规上限(高运费件)时, 退回 DDU 锚定
func SelectStrategy(cfg Config, in StrategyInput) HandlingDecision {
	ddpFee := ComputeHandlingFee(in.DDPPolicy, in.TariffAmount)

	rawRecovery := in.TariffAmount * in.DDPPolicy.TariffAbsorptionPct
	if in.DDPPolicy.CalculationMethod == model.HandlingMethodFixed {
		rawRecovery = in.DDPPolicy.FixedAmount
	}

	feasible := rawRecovery >= in.DDPPolicy.MinHandling
	var notes []string
	if !feasible {
		notes = append(notes, "tariff recovery below DDP handling floor")
	}
	if in.SalePrice > 0 && ddpFee > in.SalePrice*cfg.HandlingPriceCap {
		feasible = false
		notes = append(notes, "handling exceeds price cap")
	}
	if in.RealShippingCost > 0 && in.RealShippingCost+ddpFee > in.RealShippingCost*cfg.ShippingDisplayCap {
		feasible = false
		notes = append(notes, "display shipping exceeds real-cost multiple")
	}

	if feasible {
		return HandlingDecision{
			Strategy:        StrategyDDPAnchored,
			HandlingFee:     ddpFee,
			DisplayShipping: capDisplayShipping(cfg, in.RealShippingCost, ddpFee),
			Notes:           notes,
		}
	}

	dduFee := ComputeHandlingFee(in.DDUPolicy, 0)
	return HandlingDecision{
		Strategy:        StrategyDDUAnchored,
		HandlingFee:     dduFee,
		DisplayShipping: capDisplayShipping(cfg, in.RealShippingCost, dduFee),
		Notes:           notes,
	}
}

func capDisplayShipping(cfg Config, realCost, handlingFee float64) float64 {
	display := realCost + handlingFee
	limit := realCost * cfg.ShippingDisplayCap
	if realCost > 0 && display > limit {
		return limit
	}
	return display
}
