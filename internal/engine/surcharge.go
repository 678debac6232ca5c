package engine

// ==================== 附加费 ====================

// SurchargeResult 附加费计算结果
// DefaultsApplied 记录哪些项因查不到生效行而走了默认值
type SurchargeResult struct {
	FuelSurcharge   float64
	DemandSurcharge float64
	RemoteFee       float64
	DefaultsApplied []string
}

// Total 附加费合计
func (r SurchargeResult) Total() float64 {
	return r.FuelSurcharge + r.DemandSurcharge + r.RemoteFee
}

// ComputeSurcharges 叠加燃油/旺季/偏远附加费
// 燃油按基础运费比例, 旺季按目的国定额; 缺生效行走默认值, 属软回退而非错误
func ComputeSurcharges(cfg Config, snap *Snapshot, carrierID int64, countryCode string, baseShipping float64, remoteArea bool) SurchargeResult {
	var result SurchargeResult

	fuelRate, fuelDefaulted := snap.FuelRate(carrierID, cfg)
	result.FuelSurcharge = baseShipping * fuelRate
	if fuelDefaulted {
		result.DefaultsApplied = append(result.DefaultsApplied, "fuel_rate")
	}

	demandAmount, demandDefaulted := snap.DemandAmount(countryCode, cfg)
	result.DemandSurcharge = demandAmount
	if demandDefaulted {
		result.DefaultsApplied = append(result.DefaultsApplied, "demand_surcharge")
	}

	// 偏远地区费: 暂无地址表, 由调用方标记是否偏远, 金额走配置
	if remoteArea {
		result.RemoteFee = cfg.DefaultRemoteFee
		if cfg.DefaultRemoteFee == 0 {
			result.DefaultsApplied = append(result.DefaultsApplied, "remote_fee")
		}
	}

	return result
}
