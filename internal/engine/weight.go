package engine

// ==================== 计费重量 ====================

// 承运商计费规则
const (
	BillingRuleMax    = "MAX"     // 通用: 取实重与体积重较大者
	BillingRuleJPPost = "JP_POST" // 日本邮政: 体积重超过实重2倍才按体积重
)

// VolumetricWeight 体积重(kg) = 长*宽*高(cm) / 除数
func VolumetricWeight(cfg Config, lengthCm, widthCm, heightCm float64) float64 {
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return 0
	}
	return lengthCm * widthCm * heightCm / cfg.VolumetricDivisor
}

// ChargeableWeight 计费重量 = max(实重, 体积重)
func ChargeableWeight(cfg Config, actualKg, lengthCm, widthCm, heightCm float64) float64 {
	volumetric := VolumetricWeight(cfg, lengthCm, widthCm, heightCm)
	if volumetric > actualKg {
		return volumetric
	}
	return actualKg
}

// ChargeableWeightForRule 按承运商规则计费重量
// 日本邮政仅在体积重超过实重 JPPostVolumeRatio 倍时改按体积重计费
func ChargeableWeightForRule(cfg Config, billingRule string, actualKg, lengthCm, widthCm, heightCm float64) float64 {
	if billingRule == BillingRuleJPPost {
		volumetric := VolumetricWeight(cfg, lengthCm, widthCm, heightCm)
		if volumetric > actualKg*cfg.JPPostVolumeRatio {
			return volumetric
		}
		return actualKg
	}
	return ChargeableWeight(cfg, actualKg, lengthCm, widthCm, heightCm)
}
