package model

import "time"

// ExchangeRate 汇率快照模型
// 引擎内部所有金额先按快照归一化为USD再做费率/利润运算
type ExchangeRate struct {
	BaseModel

	CurrencyFrom string    `gorm:"size:10;index:idx_fx_pair;not null;comment:源币种 如 JPY"`
	CurrencyTo   string    `gorm:"size:10;index:idx_fx_pair;not null;comment:目标币种 如 USD"`
	Rate         float64   `gorm:"not null;comment:1目标币种兑多少源币种 如 150 表示 1USD=150JPY"`
	FetchedAt    time.Time `gorm:"index;comment:抓取时间"`
	Source       string    `gorm:"size:50;comment:数据来源"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
