package engine

import "fmt"

// ==================== 硬错误 ====================
// 分区/费率/定价可行性错误直接上抛, 不做静默兜底: 算不全的成本比可见失败更危险

// ZoneNotFoundError 目的国无生效分区映射
type ZoneNotFoundError struct {
	CountryCode string
}

func (e *ZoneNotFoundError) Error() string {
	return fmt.Sprintf("目的国 %s 无生效分区映射", e.CountryCode)
}

// RateNotFoundError 计费重量未命中任何费率档位
type RateNotFoundError struct {
	ZoneCode    string
	ServiceType string
	WeightKg    float64
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("分区 %s 渠道 %s 重量 %.2fkg 未命中费率档位", e.ZoneCode, e.ServiceType, e.WeightKg)
}

// InfeasiblePricingError 费率结构不可行, 反推售价无解
type InfeasiblePricingError struct {
	TargetMargin float64
	FeeRate      float64
	Reason       string
}

func (e *InfeasiblePricingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("定价不可行: %s", e.Reason)
	}
	return fmt.Sprintf("定价不可行: 目标利润率 %.1f%% + 费率 %.1f%% >= 100%%", e.TargetMargin, e.FeeRate)
}

// ConfigurationError 缺少不可默认兜底的策略配置
type ConfigurationError struct {
	Entity string
	Key    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("缺少配置: %s (%s)", e.Entity, e.Key)
}
