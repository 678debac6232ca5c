package engine

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
)

// ==================== 批量生成 ====================

func TestGenerator_FullGrid(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), newPipelineSnapshot())

	fees := FeeSchedule{CommissionRate: 13, PaymentFeeRate: 3, TargetMargin: 15, MinMargin: 5}
	result, err := gen.Generate(context.Background(), GenerateOptions{
		CostUSD: 20,
		Fees:    fees,
	})
	if err != nil {
		t.Fatalf("批量生成失败: %v", err)
	}

	// ZONE3 两国 x 三档 = 6 行; ZONE1(GB) 无档位产出 0 行 0 错
	if len(result.Rows) != 6 {
		t.Fatalf("行数 = %d, want 6", len(result.Rows))
	}
	if len(result.Errors) != 0 {
		t.Errorf("不应有行级错误: %v", result.Errors)
	}
	if result.RunID == "" {
		t.Errorf("run_id 不应为空")
	}

	// 行序: 国家升序, 国家内档位升序
	if result.Rows[0].CountryCode != "CA" || result.Rows[3].CountryCode != "US" {
		t.Errorf("国家排序错误: %s, %s", result.Rows[0].CountryCode, result.Rows[3].CountryCode)
	}
	if result.Rows[0].WeightMinKg != 0 || result.Rows[2].WeightMinKg != 6 {
		t.Errorf("档位排序错误")
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	snap := newPipelineSnapshot()
	gen := NewGenerator(DefaultConfig(), snap)

	opts := GenerateOptions{
		CostUSD:       20,
		DeclaredValue: 100,
		IsDDP:         true,
		OriginCountry: "CN",
		HtsCode:       "9504.40.00.00",
		Fees:          FeeSchedule{CommissionRate: 13, PaymentFeeRate: 3, TargetMargin: 15, MinMargin: 5},
		LocalCurrency: "JPY",
		Workers:       4,
	}

	first, err := gen.Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("第一次生成失败: %v", err)
	}
	second, err := gen.Generate(context.Background(), opts)
	if err != nil {
		t.Fatalf("第二次生成失败: %v", err)
	}

	// 同快照同参数, 除 run_id 外逐行一致
	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Errorf("两次生成行内容不一致")
	}
	if !reflect.DeepEqual(first.Errors, second.Errors) {
		t.Errorf("两次生成错误列表不一致")
	}

	// 本币价按汇率换算
	if first.Rows[0].RecommendedPriceLocal <= first.Rows[0].RecommendedPriceUSD {
		t.Errorf("JPY 价应大于 USD 价: %v vs %v", first.Rows[0].RecommendedPriceLocal, first.Rows[0].RecommendedPriceUSD)
	}
}

func TestGenerator_Narrowing(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), newPipelineSnapshot())
	fees := FeeSchedule{CommissionRate: 13, PaymentFeeRate: 3, TargetMargin: 15, MinMargin: 5}

	// 只看 US, 重量窗口 [1, 6)
	result, err := gen.Generate(context.Background(), GenerateOptions{
		Countries:   []string{"US"},
		WeightMinKg: 1,
		WeightMaxKg: 6,
		CostUSD:     20,
		Fees:        fees,
	})
	if err != nil {
		t.Fatalf("批量生成失败: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("行数 = %d, want 1", len(result.Rows))
	}
	if result.Rows[0].CountryCode != "US" || result.Rows[0].WeightMinKg != 1 {
		t.Errorf("收窄结果错误: %+v", result.Rows[0])
	}
}

func TestGenerator_SharedBoundaryBandAttribution(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), newPipelineSnapshot())

	result, err := gen.Generate(context.Background(), GenerateOptions{
		Countries: []string{"US"},
		CostUSD:   20,
		Fees:      FeeSchedule{CommissionRate: 13, PaymentFeeRate: 3, TargetMargin: 15, MinMargin: 5},
	})
	if err != nil {
		t.Fatalf("批量生成失败: %v", err)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("行数 = %d, want 3", len(result.Rows))
	}

	// [1,6] 档代表重量 1.0 落在与 [0,1] 的共享边界上, 行价必须按本档底价 12 出
	low, mid := result.Rows[0], result.Rows[1]
	if mid.WeightMinKg != 1 || mid.BaseRate != 12 {
		t.Fatalf("中间档内容错误: %+v", mid)
	}
	if mid.RecommendedPriceUSD <= low.RecommendedPriceUSD {
		t.Errorf("中间档价 %v 应高于首档价 %v, 边界重量串档", mid.RecommendedPriceUSD, low.RecommendedPriceUSD)
	}
}

func TestGenerator_RowErrorsDoNotAbort(t *testing.T) {
	// 目标+费率不可行: 每行失败但整批正常返回
	gen := NewGenerator(DefaultConfig(), newPipelineSnapshot())

	result, err := gen.Generate(context.Background(), GenerateOptions{
		CostUSD: 20,
		Fees:    FeeSchedule{CommissionRate: 45, TargetMargin: 60},
	})
	if err != nil {
		t.Fatalf("整批不应失败: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Errorf("不可行定价不应产出行: %d", len(result.Rows))
	}
	if len(result.Errors) != 6 {
		t.Errorf("行级错误数 = %d, want 6", len(result.Errors))
	}
}

func TestGenerator_Cancellation(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), newPipelineSnapshot())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, GenerateOptions{
		CostUSD: 20,
		Fees:    FeeSchedule{CommissionRate: 13, PaymentFeeRate: 3, TargetMargin: 15},
	})
	if err == nil {
		t.Fatalf("已取消的 ctx 应返回错误")
	}
}

// ==================== CSV 导出 ====================

func TestExportRateTableCSV(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), newPipelineSnapshot())
	result, err := gen.Generate(context.Background(), GenerateOptions{
		CostUSD:       20,
		Fees:          FeeSchedule{CommissionRate: 13, PaymentFeeRate: 3, TargetMargin: 15, MinMargin: 5},
		LocalCurrency: "JPY",
	})
	if err != nil {
		t.Fatalf("批量生成失败: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportRateTableCSV(&buf, result, "JPY"); err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1+len(result.Rows) {
		t.Fatalf("CSV 行数 = %d, want %d", len(lines), 1+len(result.Rows))
	}
	wantHeader := "Weight Range,Service,Zone,Country,Base Rate,Recommended Price (JPY),Recommended Price (USD),Margin %"
	if lines[0] != wantHeader {
		t.Errorf("表头 = %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0.00-1.00kg,AIR,ZONE3,CA,") {
		t.Errorf("首行 = %s", lines[1])
	}
}

func TestExportMarketplaceCSV(t *testing.T) {
	gen := NewGenerator(DefaultConfig(), newPipelineSnapshot())
	result, err := gen.Generate(context.Background(), GenerateOptions{
		Countries: []string{"US"},
		CostUSD:   20,
		Fees:      FeeSchedule{CommissionRate: 13, PaymentFeeRate: 3, TargetMargin: 15, MinMargin: 5},
	})
	if err != nil {
		t.Fatalf("批量生成失败: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportMarketplaceCSV(&buf, result); err != nil {
		t.Fatalf("导出失败: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Weight (kg),Zone,Price (USD)" {
		t.Errorf("表头 = %s", lines[0])
	}
	// 重量列为档位上限
	if !strings.HasPrefix(lines[1], "1.00,ZONE3,") {
		t.Errorf("首行 = %s", lines[1])
	}
}
