package model

import "gorm.io/datatypes"

// ==================== 报价状态常量 ====================

const (
	QuoteStatusOK         = "ok"         // 可上架
	QuoteStatusInfeasible = "infeasible" // 费率结构不可行
	QuoteStatusError      = "error"      // 计算出错
)

// ProductQuote 单品定价报价记录
// CalcData 存放完整成本分解快照, 便于回溯当时的费率与附加费取值
type ProductQuote struct {
	BaseModel

	RunID              string         `gorm:"size:64;index;comment:批量任务ID 单次报价为空"`
	SKU                string         `gorm:"size:100;index;comment:商品SKU"`
	DestinationCountry string         `gorm:"size:10;index;comment:目的国二位码"`
	ServiceType        string         `gorm:"size:10;comment:运输方式 AIR/SEA"`
	ChargeableWeightKg float64        `gorm:"comment:计费重量(kg)"`
	TotalCostUSD       float64        `gorm:"comment:落地总成本(USD)"`
	SalePriceUSD       float64        `gorm:"comment:反推建议售价(USD)"`
	HandlingFeeUSD     float64        `gorm:"comment:优化后手续费(USD)"`
	ProfitMarginPct    float64        `gorm:"comment:实际利润率(%)"`
	Status             string         `gorm:"size:20;index;comment:报价状态 ok/infeasible/error"`
	CalcData           datatypes.JSON `gorm:"type:jsonb;comment:完整成本分解JSON"`
}

func (ProductQuote) TableName() string {
	return "product_quotes"
}
