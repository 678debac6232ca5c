package engine

import (
	"errors"
	"math"
	"testing"
)

// ==================== 售价反推 ====================

func TestSolvePrice_ClosedForm(t *testing.T) {
	// total_cost=$50, 佣金10% + 收款3%, 固定费$1, 目标利润率15%
	// price = (50+1)/(1-0.28) = 70.8333...
	fees := FeeSchedule{
		CommissionRate: 10,
		PaymentFeeRate: 3,
		FixedFee:       1,
		TargetMargin:   15,
		MinMargin:      5,
	}

	result, err := SolvePrice(50, fees)
	if err != nil {
		t.Fatalf("反推售价失败: %v", err)
	}
	if math.Abs(result.SuggestedPrice-70.83) > 0.005 {
		t.Errorf("suggested_price = %.4f, want 70.83 (2dp)", result.SuggestedPrice)
	}
	if !result.CanList {
		t.Errorf("可行定价 can_list 应为 true, reason=%s", result.Reason)
	}
	// 重算利润率必须复现目标利润率
	if math.Abs(result.ProfitMargin-15)/15 > 1e-6 {
		t.Errorf("重算利润率 = %v, want 15 (相对误差 1e-6 内)", result.ProfitMargin)
	}
}

func TestSolvePrice_RoundTrip(t *testing.T) {
	// 恒等式回环: 任意可行组合下重算利润率都应还原目标值
	cases := []struct {
		totalCost float64
		fees      FeeSchedule
	}{
		{10, FeeSchedule{CommissionRate: 12.9, PaymentFeeRate: 2.9, FixedFee: 0.3, TargetMargin: 20}},
		{250, FeeSchedule{CommissionRate: 8, PaymentFeeRate: 3.6, FixedFee: 0, TargetMargin: 10}},
		{1999.99, FeeSchedule{CommissionRate: 15, PaymentFeeRate: 4, FixedFee: 0.35, TargetMargin: 30}},
		{0.5, FeeSchedule{CommissionRate: 10, PaymentFeeRate: 3, FixedFee: 1, TargetMargin: 15}},
	}

	for _, tc := range cases {
		result, err := SolvePrice(tc.totalCost, tc.fees)
		if err != nil {
			t.Fatalf("cost=%v: 反推失败: %v", tc.totalCost, err)
		}
		if math.Abs(result.ProfitMargin-tc.fees.TargetMargin)/tc.fees.TargetMargin > 1e-6 {
			t.Errorf("cost=%v: 回环利润率 = %v, want %v", tc.totalCost, result.ProfitMargin, tc.fees.TargetMargin)
		}
		// 正算复核与反推结果一致
		recheck := RecomputeMargin(result.SuggestedPrice, tc.totalCost, tc.fees)
		if math.Abs(recheck.Profit-result.Profit) > 1e-9 {
			t.Errorf("cost=%v: 正算利润与反推不一致", tc.totalCost)
		}
	}
}

func TestSolvePrice_Infeasible(t *testing.T) {
	// 目标60% + 费率45% = 105% >= 100%, 必须报不可行而非负价
	fees := FeeSchedule{CommissionRate: 40, PaymentFeeRate: 5, TargetMargin: 60}

	_, err := SolvePrice(50, fees)
	var infeasible *InfeasiblePricingError
	if !errors.As(err, &infeasible) {
		t.Fatalf("应返回 InfeasiblePricingError, got %v", err)
	}

	// 恰好 100% 也不可行 (分母为0)
	fees = FeeSchedule{CommissionRate: 50, PaymentFeeRate: 0, TargetMargin: 50}
	if _, err := SolvePrice(50, fees); !errors.As(err, &infeasible) {
		t.Fatalf("费率+目标=100%% 应不可行, got %v", err)
	}
}

func TestSolvePrice_PriceMonotonicInCost(t *testing.T) {
	fees := FeeSchedule{CommissionRate: 10, PaymentFeeRate: 3, FixedFee: 1, TargetMargin: 15}

	prev := 0.0
	for _, cost := range []float64{10, 20, 50, 100, 500} {
		result, err := SolvePrice(cost, fees)
		if err != nil {
			t.Fatalf("cost=%v: 反推失败: %v", cost, err)
		}
		if result.SuggestedPrice <= prev {
			t.Errorf("售价未随成本递增: cost=%v price=%v prev=%v", cost, result.SuggestedPrice, prev)
		}
		prev = result.SuggestedPrice
	}
}

func TestSolvePrice_CanListGate(t *testing.T) {
	// 目标利润率低于最低可上架利润率时, 解出价合法但 can_list=false
	fees := FeeSchedule{
		CommissionRate: 10,
		PaymentFeeRate: 3,
		TargetMargin:   3,
		MinMargin:      5,
	}

	result, err := SolvePrice(50, fees)
	if err != nil {
		t.Fatalf("反推售价失败: %v", err)
	}
	if result.CanList {
		t.Errorf("利润率 %v%% 低于下限 %v%%, can_list 应为 false", result.ProfitMargin, fees.MinMargin)
	}
	if result.Reason == "" {
		t.Errorf("不可上架时 reason 不应为空")
	}
}
