package model

// Zone 配送分区模型
// 承运商将目的国划分为若干互斥分区，同一分区共用一张费率表
type Zone struct {
	BaseModel

	Code string `gorm:"size:20;uniqueIndex;not null;comment:分区编码 如 ZONE_1"`
	Name string `gorm:"size:100;comment:分区名称"`

	// 关联数据（一对多）
	Countries []CountryZoneMapping `gorm:"foreignKey:ZoneID"`
}

// CountryZoneMapping 国家-分区映射模型
// 每个启用中的国家必须且只能映射到一个分区
type CountryZoneMapping struct {
	BaseModel

	CountryCode string `gorm:"size:10;index;not null;comment:目的国ISO-2编码"`
	ZoneID      int64  `gorm:"index;not null;comment:关联分区ID"`
	Zone        *Zone  `gorm:"foreignKey:ZoneID"`

	IsActive bool `gorm:"comment:是否启用"`
}

func (Zone) TableName() string {
	return "shipping_zones"
}
func (CountryZoneMapping) TableName() string {
	return "shipping_country_zones"
}
