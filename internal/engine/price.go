package engine

// ==================== 售价反推 ====================

// FeeSchedule 平台费率结构, 百分比项均以"占营收的百分数"计
type FeeSchedule struct {
	CommissionRate float64 // 成交佣金率(%)
	PaymentFeeRate float64 // 收款手续费率(%)
	FixedFee       float64 // 每单固定费用(USD)
	TargetMargin   float64 // 目标利润率(%)
	MinMargin      float64 // 最低可上架利润率(%)
}

// FeeRate 比例费用合计(%)
func (f FeeSchedule) FeeRate() float64 {
	return f.CommissionRate + f.PaymentFeeRate
}

// PriceSolveResult 反推结果, 含按解出售价重算的费用与利润校验
type PriceSolveResult struct {
	SuggestedPrice float64 `json:"suggested_price"`
	Revenue        float64 `json:"revenue"`
	CommissionFee  float64 `json:"commission_fee"`
	PaymentFee     float64 `json:"payment_fee"`
	FixedFee       float64 `json:"fixed_fee"`
	TotalCost      float64 `json:"total_cost"`
	Profit         float64 `json:"profit"`
	ProfitMargin   float64 `json:"profit_margin"`
	CanList        bool    `json:"can_list"`
	Reason         string  `json:"reason"`
}

// SolvePrice 由利润率恒等式闭式反解售价
//
//	price = (total_cost + fixed_fee) / (1 - (target_margin + fee_rate)/100)
//
// 前置条件 target_margin + fee_rate < 100, 违反时返回 InfeasiblePricingError
// 而非负价/无穷; 解出后重算实际利润率做校验并得出 can_list
func SolvePrice(totalCost float64, fees FeeSchedule) (*PriceSolveResult, error) {
	feeRate := fees.FeeRate()
	denominator := 1 - (fees.TargetMargin+feeRate)/100
	if denominator <= 0 {
		return nil, &InfeasiblePricingError{TargetMargin: fees.TargetMargin, FeeRate: feeRate}
	}

	price := (totalCost + fees.FixedFee) / denominator
	if price <= 0 {
		return nil, &InfeasiblePricingError{
			TargetMargin: fees.TargetMargin,
			FeeRate:      feeRate,
			Reason:       "解出售价非正",
		}
	}

	result := RecomputeMargin(price, totalCost, fees)
	result.CanList = result.ProfitMargin >= fees.MinMargin && price > 0
	if !result.CanList {
		result.Reason = "实际利润率低于最低可上架利润率"
	}
	return result, nil
}

// RecomputeMargin 按给定售价正算利润率, 用于反推校验与既有价复核
func RecomputeMargin(price float64, totalCost float64, fees FeeSchedule) *PriceSolveResult {
	commissionFee := price * fees.CommissionRate / 100
	paymentFee := price * fees.PaymentFeeRate / 100
	profit := price - totalCost - fees.FixedFee - commissionFee - paymentFee

	var margin float64
	if price > 0 {
		margin = profit / price * 100
	}

	return &PriceSolveResult{
		SuggestedPrice: price,
		Revenue:        price,
		CommissionFee:  commissionFee,
		PaymentFee:     paymentFee,
		FixedFee:       fees.FixedFee,
		TotalCost:      totalCost,
		Profit:         profit,
		ProfitMargin:   margin,
	}
}
