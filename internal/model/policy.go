package model

// HandlingFee 计算方式常量
const (
	HandlingMethodPercentage = "PERCENTAGE" // 按关税额比例
	HandlingMethodFixed      = "FIXED"      // 固定金额
)

// HandlingFeePolicy 操作费（Handling Fee）策略模型
// 计算结果总是被收敛到 [min_handling, max_handling] 区间内
type HandlingFeePolicy struct {
	BaseModel

	DestinationCountry string `gorm:"size:10;index;not null;comment:目的国ISO-2编码"`
	IsDDP              bool   `gorm:"default:false;comment:是否DDP(卖家预缴关税)"`

	CalculationMethod   string  `gorm:"size:20;default:PERCENTAGE;comment:计算方式 PERCENTAGE/FIXED"`
	TariffAbsorptionPct float64 `gorm:"default:1.0;comment:通过操作费回收的关税比例"`
	MinHandling         float64 `gorm:"default:0;comment:操作费下限(USD)"`
	MaxHandling         float64 `gorm:"default:0;comment:操作费上限(USD)"`
	FixedAmount         float64 `gorm:"default:0;comment:FIXED方式的固定金额(USD)"`

	IsActive bool `gorm:"comment:是否启用"`
}

// MarketplaceSettings 平台费率/利润配置模型
// 每个 (platform, account) 只允许一条启用记录
// 约束: target_profit_margin + commission_rate + payment_fee_rate < 100，否则价格反解无定义
type MarketplaceSettings struct {
	BaseModel

	Platform  string `gorm:"size:50;index:idx_mp_account;not null;comment:平台 如 EBAY_US"`
	AccountID string `gorm:"size:100;index:idx_mp_account;comment:平台账号标识"`

	// 百分比字段均以“占营收的百分数”表示（15 = 15%）
	TargetProfitMargin float64 `gorm:"default:15;comment:目标利润率(%)"`
	MinProfitMargin    float64 `gorm:"default:5;comment:最低可上架利润率(%)"`
	CommissionRate     float64 `gorm:"default:0;comment:平台成交佣金率(%)"`
	PaymentFeeRate     float64 `gorm:"default:0;comment:收款手续费率(%)"`
	FixedFee           float64 `gorm:"default:0;comment:每单固定费用(USD)"`

	IsActive bool `gorm:"comment:是否启用"`
}

// ShippingRule 平台简化运费规则模型
// 用于按平台快速估算运费，与完整分区费率表互相独立
type ShippingRule struct {
	BaseModel

	Platform           string `gorm:"size:50;index;not null;comment:平台"`
	DestinationCountry string `gorm:"size:10;index;comment:目的国ISO-2编码"`

	MinWeightG int     `gorm:"default:0;comment:重量下限(g)"`
	MaxWeightG int     `gorm:"not null;comment:重量上限(g)"`
	BaseFee    float64 `gorm:"not null;comment:基础运费(USD)"`
	PerKgFee   float64 `gorm:"default:0;comment:每kg加收(USD)"`
	Priority   int     `gorm:"default:0;comment:优先级 数值大者优先"`
}

func (HandlingFeePolicy) TableName() string {
	return "handling_fee_policies"
}
func (MarketplaceSettings) TableName() string {
	return "marketplace_settings"
}
func (ShippingRule) TableName() string {
	return "shipping_rules"
}
