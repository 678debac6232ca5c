package dto

import "ebay_pricing_v1_202608/internal/engine"

// ==================== 请求 DTO ====================

// CalculateCostRequest 单件成本计算请求
type CalculateCostRequest struct {
	DestinationCountry string  `json:"destination_country" binding:"required"` // ISO-2
	OriginCountry      string  `json:"origin_country"`                         // ISO-2, 默认 JP
	WeightKg           float64 `json:"weight_kg" binding:"required,gt=0"`
	LengthCm           float64 `json:"length_cm"`
	WidthCm            float64 `json:"width_cm"`
	HeightCm           float64 `json:"height_cm"`
	ServiceType        string  `json:"service_type"` // AIR / SEA, 默认 AIR
	CarrierID          int64   `json:"carrier_id"`
	BillingRule        string  `json:"billing_rule"` // MAX / JP_POST
	IsDDP              bool    `json:"is_ddp"`
	DeclaredValue      float64 `json:"declared_value"`
	HtsCode            string  `json:"hts_code"`
	RemoteArea         bool    `json:"remote_area"`
}

// SolvePriceRequest 售价反推请求
type SolvePriceRequest struct {
	CalculateCostRequest

	SKU          string  `json:"sku"`
	CostAmount   float64 `json:"cost_amount" binding:"required,gt=0"` // 采购成本
	CostCurrency string  `json:"cost_currency"`                      // 默认 USD, 支持 JPY 等按快照汇率折算
	Platform     string  `json:"platform" binding:"required"`        // 如 EBAY_US
	AccountID    string  `json:"account_id"`
	Persist      bool    `json:"persist"` // 是否落库报价记录
}

// GenerateRateTableRequest 批量费率表生成请求
type GenerateRateTableRequest struct {
	ServiceTypes  []string `json:"service_types"`
	Countries     []string `json:"countries"`
	WeightMinKg   float64  `json:"weight_min_kg"`
	WeightMaxKg   float64  `json:"weight_max_kg"`
	CostAmount    float64  `json:"cost_amount" binding:"required,gt=0"`
	CostCurrency  string   `json:"cost_currency"`
	DeclaredValue float64  `json:"declared_value"`
	IsDDP         bool     `json:"is_ddp"`
	OriginCountry string   `json:"origin_country"`
	HtsCode       string   `json:"hts_code"`
	Platform      string   `json:"platform" binding:"required"`
	AccountID     string   `json:"account_id"`
	LocalCurrency string   `json:"local_currency"`
	Workers       int      `json:"workers"`
}

// BatchQuoteItem 批量报价单品
type BatchQuoteItem struct {
	SKU          string  `json:"sku" binding:"required"`
	CostAmount   float64 `json:"cost_amount" binding:"required,gt=0"`
	CostCurrency string  `json:"cost_currency"`

	CalculateCostRequest
}

// BatchQuoteRequest 批量报价请求, 共享一份快照与平台费率
type BatchQuoteRequest struct {
	Platform  string           `json:"platform" binding:"required"`
	AccountID string           `json:"account_id"`
	Items     []BatchQuoteItem `json:"items" binding:"required,min=1"`
}

// EstimateShippingRequest 平台简化运费估算请求
type EstimateShippingRequest struct {
	Platform           string `form:"platform" binding:"required"`
	DestinationCountry string `form:"destination_country" binding:"required"`
	WeightG            int    `form:"weight_g" binding:"required,gt=0"`
}

// ==================== 响应 DTO ====================

// CalculateCostResponse 成本分解响应
type CalculateCostResponse struct {
	Breakdown *engine.CostBreakdown `json:"breakdown"`
	TotalCost float64               `json:"total_cost"`
}

// SolvePriceResponse 售价反推响应
type SolvePriceResponse struct {
	Breakdown *engine.CostBreakdown    `json:"breakdown"`
	Solve     *engine.PriceSolveResult `json:"solve"`
	QuoteID   int64                    `json:"quote_id,omitempty"` // 落库时返回
}

// BatchQuoteRowResult 批量报价单品结果
type BatchQuoteRowResult struct {
	SKU     string  `json:"sku"`
	QuoteID int64   `json:"quote_id,omitempty"`
	Price   float64 `json:"price,omitempty"`
	Margin  float64 `json:"margin,omitempty"`
	CanList bool    `json:"can_list"`
	Error   string  `json:"error,omitempty"`
}

// BatchQuoteResponse 批量报价响应
type BatchQuoteResponse struct {
	RunID   string                `json:"run_id"`
	OKCount int                   `json:"ok_count"`
	Results []BatchQuoteRowResult `json:"results"`
}

// GenerateRateTableResponse 费率表生成响应
type GenerateRateTableResponse struct {
	RunID    string            `json:"run_id"`
	RowCount int               `json:"row_count"`
	ErrCount int               `json:"err_count"`
	Rows     []engine.RateRow  `json:"rows"`
	Errors   []engine.RowError `json:"errors,omitempty"`
}

// EstimateShippingResponse 平台简化运费估算响应
type EstimateShippingResponse struct {
	Platform           string  `json:"platform"`
	DestinationCountry string  `json:"destination_country"`
	WeightG            int     `json:"weight_g"`
	ShippingFee        float64 `json:"shipping_fee"`
	RuleID             int64   `json:"rule_id"`
}

// ExchangeRateResponse 汇率响应
type ExchangeRateResponse struct {
	CurrencyFrom string  `json:"currency_from"`
	CurrencyTo   string  `json:"currency_to"`
	Rate         float64 `json:"rate"`
	FetchedAt    string  `json:"fetched_at"`
	Source       string  `json:"source"`
}
