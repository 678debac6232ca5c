package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

func newCustomsSnapshot() *Snapshot {
	return NewSnapshot(time.Now(), SnapshotData{
		HtsCodes: []model.HtsCode{
			{Code: "9504.40.00.00", BaseDutyRate: 0.05, Section301Rate: 0.25, Description: "playing cards"},
			{Code: "4901.99.00.00", BaseDutyRate: 0, Section301Rate: 0, Description: "printed books"},
		},
		CountryTariffs: []model.CountryAdditionalTariff{
			{CountryCode: "CN", AdditionalRate: 0.10, TariffType: "RECIPROCAL_2025", IsActive: true},
			{CountryCode: "CN", AdditionalRate: 0.05, TariffType: "IEEPA", IsActive: false}, // 停用, 不参与叠加
		},
	})
}

// ==================== 单元测试 ====================

func TestComputeCustoms_TariffAndMPFFloor(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	// 申报 $100, 基础税率 5%, 无附加 -> 关税 $5.00, MPF 触发下限 $27.75
	result, err := ComputeCustoms(cfg, snap, "9504.40.00.00", "JP", model.ServiceTypeAir, 100, true)
	if err != nil {
		t.Fatalf("清关计算失败: %v", err)
	}
	if math.Abs(result.Tariff-5.00) > 1e-9 {
		t.Errorf("tariff = %v, want 5.00", result.Tariff)
	}
	if math.Abs(result.MPF-27.75) > 1e-9 {
		t.Errorf("MPF = %v, want 27.75 (下限)", result.MPF)
	}
	if result.HMF != 0 {
		t.Errorf("空运 HMF = %v, want 0", result.HMF)
	}
	if result.DDPServiceFee != cfg.DDPServiceFee {
		t.Errorf("ddp_service_fee = %v, want %v", result.DDPServiceFee, cfg.DDPServiceFee)
	}
}

func TestComputeCustoms_MPFBandAndCeiling(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	// 申报 $20,000 -> MPF = 69.28, 落在区间内不钳制
	result, err := ComputeCustoms(cfg, snap, "4901.99.00.00", "JP", model.ServiceTypeAir, 20000, true)
	if err != nil {
		t.Fatalf("清关计算失败: %v", err)
	}
	if math.Abs(result.MPF-69.28) > 1e-9 {
		t.Errorf("MPF = %v, want 69.28", result.MPF)
	}

	// 申报 $200,000 -> 触发上限 $528.33
	result, err = ComputeCustoms(cfg, snap, "4901.99.00.00", "JP", model.ServiceTypeAir, 200000, true)
	if err != nil {
		t.Fatalf("清关计算失败: %v", err)
	}
	if math.Abs(result.MPF-528.33) > 1e-9 {
		t.Errorf("MPF = %v, want 528.33 (上限)", result.MPF)
	}
}

func TestComputeCustoms_MPFAlwaysWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	values := []float64{0.01, 1, 100, 8010, 8012, 50000, 152520, 152530, 1e7}
	for _, declared := range values {
		result, err := ComputeCustoms(cfg, snap, "", "JP", model.ServiceTypeAir, declared, true)
		if err != nil {
			t.Fatalf("清关计算失败: %v", err)
		}
		if result.MPF < cfg.MPFMin-1e-9 || result.MPF > cfg.MPFMax+1e-9 {
			t.Errorf("declared=%v: MPF=%v 超出 [%v, %v]", declared, result.MPF, cfg.MPFMin, cfg.MPFMax)
		}
		// 区间内与申报价值线性
		if raw := declared * cfg.MPFRate; raw > cfg.MPFMin && raw < cfg.MPFMax {
			if math.Abs(result.MPF-raw) > 1e-9 {
				t.Errorf("declared=%v: 区间内 MPF 应线性: %v vs %v", declared, result.MPF, raw)
			}
		}
	}
}

func TestComputeCustoms_TariffStacking(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	// 中国原产: 基础 5% + 301条款 25% + 对等关税 10% = 40%
	result, err := ComputeCustoms(cfg, snap, "9504.40.00.00", "CN", model.ServiceTypeAir, 100, true)
	if err != nil {
		t.Fatalf("清关计算失败: %v", err)
	}
	if math.Abs(result.TariffRate-0.40) > 1e-9 {
		t.Errorf("tariff_rate = %v, want 0.40", result.TariffRate)
	}
	if math.Abs(result.Tariff-40.0) > 1e-9 {
		t.Errorf("tariff = %v, want 40.0", result.Tariff)
	}

	// 非中国原产不叠 301
	result, _ = ComputeCustoms(cfg, snap, "9504.40.00.00", "JP", model.ServiceTypeAir, 100, true)
	if math.Abs(result.TariffRate-0.05) > 1e-9 {
		t.Errorf("日本原产 tariff_rate = %v, want 0.05", result.TariffRate)
	}
}

func TestComputeCustoms_HMFSeaOnly(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	sea, err := ComputeCustoms(cfg, snap, "", "JP", model.ServiceTypeSea, 10000, true)
	if err != nil {
		t.Fatalf("清关计算失败: %v", err)
	}
	if math.Abs(sea.HMF-12.5) > 1e-9 {
		t.Errorf("海运 HMF = %v, want 12.5", sea.HMF)
	}

	air, _ := ComputeCustoms(cfg, snap, "", "JP", model.ServiceTypeAir, 10000, true)
	if air.HMF != 0 {
		t.Errorf("空运 HMF = %v, want 0", air.HMF)
	}
}

func TestComputeCustoms_DDUAllZero(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	result, err := ComputeCustoms(cfg, snap, "9504.40.00.00", "CN", model.ServiceTypeSea, 5000, false)
	if err != nil {
		t.Fatalf("清关计算失败: %v", err)
	}
	if result.Total() != 0 {
		t.Errorf("DDU 清关合计 = %v, want 0", result.Total())
	}
}

func TestComputeCustoms_Monotonicity(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	prevTariff, prevMPF := -1.0, -1.0
	for _, declared := range []float64{100, 500, 2000, 10000, 50000, 100000} {
		result, err := ComputeCustoms(cfg, snap, "9504.40.00.00", "JP", model.ServiceTypeAir, declared, true)
		if err != nil {
			t.Fatalf("清关计算失败: %v", err)
		}
		if result.Tariff <= prevTariff {
			t.Errorf("declared=%v: tariff 未随申报价值严格递增", declared)
		}
		// MPF 触顶前严格递增, 触顶后持平
		if result.MPF < prevMPF-1e-9 {
			t.Errorf("declared=%v: MPF 出现回落", declared)
		}
		prevTariff, prevMPF = result.Tariff, result.MPF
	}
}

func TestComputeCustoms_UnknownHtsCode(t *testing.T) {
	cfg := DefaultConfig()
	snap := newCustomsSnapshot()

	_, err := ComputeCustoms(cfg, snap, "0000.00.00.00", "JP", model.ServiceTypeAir, 100, true)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("未知HTS编码应返回 ConfigurationError, got %v", err)
	}
}
