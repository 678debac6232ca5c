package engine

import "ebay_pricing_v1_202608/internal/model"

// ==================== 清关费用 ====================

// CustomsResult 清关费用分解
type CustomsResult struct {
	TariffRate    float64 // 合计税率 = 基础 + 301 + 原产国附加
	Tariff        float64
	MPF           float64
	HMF           float64
	DDPServiceFee float64
}

// Total 清关费用合计
func (r CustomsResult) Total() float64 {
	return r.Tariff + r.MPF + r.HMF + r.DDPServiceFee
}

// ComputeCustoms 计算DDP清关费用
// DDU 路径一律为零, 关税由买家到付; DDP 下税率为 HTS基础 + 301条款 + 原产国附加的叠加
// MPF 按申报价值比例并钳制在法定上下限内; HMF 仅海运征收
func ComputeCustoms(cfg Config, snap *Snapshot, htsCode string, originCountry string, serviceType string, declaredValue float64, isDDP bool) (CustomsResult, error) {
	if !isDDP || declaredValue <= 0 {
		return CustomsResult{}, nil
	}

	var result CustomsResult

	if htsCode != "" {
		hts, ok := snap.Hts(htsCode)
		if !ok {
			return CustomsResult{}, &ConfigurationError{Entity: "hts_codes", Key: htsCode}
		}
		result.TariffRate = hts.BaseDutyRate
		// 301条款仅对中国原产征收
		if originCountry == "CN" {
			result.TariffRate += hts.Section301Rate
		}
	}
	result.TariffRate += snap.OriginAdditionalRate(originCountry)
	result.Tariff = declaredValue * result.TariffRate

	result.MPF = clamp(declaredValue*cfg.MPFRate, cfg.MPFMin, cfg.MPFMax)

	if serviceType == model.ServiceTypeSea {
		result.HMF = declaredValue * cfg.HMFRate
	}

	result.DDPServiceFee = cfg.DDPServiceFee

	return result, nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
