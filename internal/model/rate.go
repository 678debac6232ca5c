package model

import "time"

// ServiceType 运输方式常量
const (
	ServiceTypeAir = "AIR" // 空运
	ServiceTypeSea = "SEA" // 海运
)

// Carrier 承运商模型
type Carrier struct {
	BaseModel

	Code string `gorm:"size:50;uniqueIndex;not null;comment:承运商编码 如 ELOJI_DHL"`
	Name string `gorm:"size:100;comment:承运商名称"`
}

// RateTableEntry 分区费率表模型
// (zone, service_type) 内重量段必须连续且不重叠
type RateTableEntry struct {
	BaseModel

	ZoneID      int64  `gorm:"index:idx_rate_lookup;not null;comment:关联分区ID"`
	Zone        *Zone  `gorm:"foreignKey:ZoneID"`
	ServiceType string `gorm:"size:20;index:idx_rate_lookup;default:AIR;comment:运输方式 AIR/SEA"`

	// 重量段（kg）
	WeightMinKg float64 `gorm:"not null;comment:重量段下限(kg)"`
	WeightMaxKg float64 `gorm:"not null;comment:重量段上限(kg)"`

	// 费率（USD）
	BaseRate  float64 `gorm:"not null;comment:段内基础运费(USD)"`
	PerKgRate float64 `gorm:"default:0;comment:超出下限部分每kg加收(USD)"`

	CarrierID int64    `gorm:"index;comment:关联承运商ID"`
	Carrier   *Carrier `gorm:"foreignKey:CarrierID"`
}

// FuelSurcharge 燃油附加费模型（按承运商、按时间版本化）
// 生效行 = effective_date 不晚于计算时点的最近一条启用记录
type FuelSurcharge struct {
	BaseModel

	CarrierID     int64     `gorm:"index;not null;comment:关联承运商ID"`
	Rate          float64   `gorm:"not null;comment:费率 基础运费的百分比 如0.15"`
	EffectiveDate time.Time `gorm:"index;not null;comment:生效日期"`
	IsActive      bool      `gorm:"comment:是否启用"`
}

// DemandSurcharge 旺季/需求附加费模型（按目的国、按时间版本化，定额）
type DemandSurcharge struct {
	BaseModel

	CountryCode   string    `gorm:"size:10;index;not null;comment:目的国ISO-2编码"`
	Amount        float64   `gorm:"not null;comment:定额附加费(USD)"`
	EffectiveDate time.Time `gorm:"index;not null;comment:生效日期"`
	IsActive      bool      `gorm:"comment:是否启用"`
}

func (Carrier) TableName() string {
	return "shipping_carriers"
}
func (RateTableEntry) TableName() string {
	return "shipping_rate_entries"
}
func (FuelSurcharge) TableName() string {
	return "fuel_surcharges"
}
func (DemandSurcharge) TableName() string {
	return "demand_surcharges"
}
