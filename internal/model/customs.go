package model

// HtsCode 美国海关税则编码模型
// 税率均为申报价值的小数比例（0.05 = 5%）
type HtsCode struct {
	BaseModel

	Code            string  `gorm:"size:20;uniqueIndex;not null;comment:HTS编码 如 9504.40.00.00"`
	BaseDutyRate    float64 `gorm:"default:0;comment:基础税率"`
	Section301Rate  float64 `gorm:"default:0;comment:301条款附加税率(原产国为中国时适用)"`
	Description     string  `gorm:"size:500;comment:品目描述"`
}

// CountryAdditionalTariff 原产国附加关税模型
// 在基础税率之上按原产国叠加（如2025年对等关税）
type CountryAdditionalTariff struct {
	BaseModel

	CountryCode    string  `gorm:"size:10;index;not null;comment:原产国ISO-2编码"`
	AdditionalRate float64 `gorm:"not null;comment:附加税率"`
	TariffType     string  `gorm:"size:50;comment:关税类型 如 RECIPROCAL_2025"`
	IsActive       bool    `gorm:"comment:是否启用"`
}

func (HtsCode) TableName() string {
	return "hts_codes"
}
func (CountryAdditionalTariff) TableName() string {
	return "country_additional_tariffs"
}
