package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ebay_pricing_v1_202608/internal/engine"
	"ebay_pricing_v1_202608/internal/model"
	"ebay_pricing_v1_202608/internal/repository"
	"ebay_pricing_v1_202608/internal/service"
)

// ==================== 测试辅助 ====================

func setupPricingCtlTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	db.AutoMigrate(
		&model.Zone{}, &model.CountryZoneMapping{},
		&model.Carrier{}, &model.RateTableEntry{},
		&model.FuelSurcharge{}, &model.DemandSurcharge{},
		&model.HtsCode{}, &model.CountryAdditionalTariff{},
		&model.HandlingFeePolicy{}, &model.MarketplaceSettings{}, &model.ShippingRule{},
		&model.ExchangeRate{}, &model.ProductQuote{},
	)

	past := time.Now().AddDate(0, -1, 0)
	zone := model.Zone{Code: "ZONE3", Name: "North America"}
	db.Create(&zone)
	db.Create(&model.CountryZoneMapping{CountryCode: "US", ZoneID: zone.ID, IsActive: true})
	db.Create(&model.Carrier{Code: "ELOJI_DHL", Name: "Eloji DHL"})
	db.Create(&model.RateTableEntry{ZoneID: zone.ID, ServiceType: model.ServiceTypeAir,
		WeightMinKg: 0, WeightMaxKg: 10, BaseRate: 12, PerKgRate: 1, CarrierID: 1})
	db.Create(&model.FuelSurcharge{CarrierID: 1, Rate: 0.10, EffectiveDate: past, IsActive: true})
	db.Create(&model.MarketplaceSettings{Platform: "EBAY_US", AccountID: "main",
		TargetProfitMargin: 15, MinProfitMargin: 5,
		CommissionRate: 13, PaymentFeeRate: 3, FixedFee: 0.3, IsActive: true})
	db.Create(&model.ShippingRule{Platform: "EBAY_US", DestinationCountry: "US",
		MinWeightG: 0, MaxWeightG: 2000, BaseFee: 8, PerKgFee: 3, Priority: 1})
	return db
}

func setupPricingCtlRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewPricingService(engine.DefaultConfig(),
		repository.NewZoneRepository(db),
		repository.NewRateTableRepository(db),
		repository.NewSurchargeRepository(db),
		repository.NewHtsCodeRepository(db),
		repository.NewCountryTariffRepository(db),
		repository.NewHandlingPolicyRepository(db),
		repository.NewMarketplaceSettingsRepository(db),
		repository.NewShippingRuleRepository(db),
		repository.NewExchangeRateRepository(db),
		repository.NewQuoteRepository(db),
	)
	ctl := NewPricingController(svc)

	r := gin.New()
	r.Use(gin.Recovery())
	pricing := r.Group("/api/v1/pricing")
	{
		pricing.POST("/calculate", ctl.CalculateCost)
		pricing.POST("/solve", ctl.SolvePrice)
		pricing.POST("/batch-quote", ctl.BatchQuote)
		pricing.GET("/estimate", ctl.EstimateShipping)
		pricing.GET("/quotes/:runId", ctl.ListQuotes)
	}
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== 单元测试 ====================

func TestPricingController_CalculateCost(t *testing.T) {
	r := setupPricingCtlRouter(setupPricingCtlTestDB(t))

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{"正常计算", map[string]interface{}{
			"destination_country": "US", "weight_kg": 2.0, "service_type": "AIR",
		}, http.StatusOK},
		{"缺少目的国", map[string]interface{}{
			"weight_kg": 2.0,
		}, http.StatusBadRequest},
		{"重量非正", map[string]interface{}{
			"destination_country": "US", "weight_kg": 0,
		}, http.StatusBadRequest},
		{"未映射国家", map[string]interface{}{
			"destination_country": "BR", "weight_kg": 2.0,
		}, http.StatusNotFound},
		{"超出费率表", map[string]interface{}{
			"destination_country": "US", "weight_kg": 50.0,
		}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/v1/pricing/calculate", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestPricingController_SolvePrice(t *testing.T) {
	r := setupPricingCtlRouter(setupPricingCtlTestDB(t))

	w := postJSON(r, "/api/v1/pricing/solve", map[string]interface{}{
		"destination_country": "US",
		"weight_kg":           2.0,
		"cost_amount":         20.0,
		"platform":            "EBAY_US",
		"account_id":          "main",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Solve struct {
			SuggestedPrice float64 `json:"suggested_price"`
			CanList        bool    `json:"can_list"`
		} `json:"solve"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Solve.SuggestedPrice, 0.0)
	assert.True(t, resp.Solve.CanList)
}

func TestPricingController_SolvePrice_MissingSettings(t *testing.T) {
	r := setupPricingCtlRouter(setupPricingCtlTestDB(t))

	// 平台配置缺失属硬错误
	w := postJSON(r, "/api/v1/pricing/solve", map[string]interface{}{
		"destination_country": "US",
		"weight_kg":           2.0,
		"cost_amount":         20.0,
		"platform":            "EBAY_DE",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPricingController_BatchQuoteAndListQuotes(t *testing.T) {
	r := setupPricingCtlRouter(setupPricingCtlTestDB(t))

	w := postJSON(r, "/api/v1/pricing/batch-quote", map[string]interface{}{
		"platform":   "EBAY_US",
		"account_id": "main",
		"items": []map[string]interface{}{
			{"sku": "SKU-A", "cost_amount": 20.0, "destination_country": "US", "weight_kg": 1.0},
			{"sku": "SKU-B", "cost_amount": 10.0, "destination_country": "US", "weight_kg": 99.0},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var batch struct {
		RunID   string `json:"run_id"`
		OKCount int    `json:"ok_count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, 1, batch.OKCount)
	assert.NotEmpty(t, batch.RunID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing/quotes/"+batch.RunID, nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var quotes struct {
		Total int `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &quotes))
	assert.Equal(t, 1, quotes.Total)
}

func TestPricingController_EstimateShipping(t *testing.T) {
	r := setupPricingCtlRouter(setupPricingCtlTestDB(t))

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/pricing/estimate?platform=EBAY_US&destination_country=US&weight_g=1000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ShippingFee float64 `json:"shipping_fee"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 11.0, resp.ShippingFee, 1e-9)

	// 缺少必填查询参数
	req = httptest.NewRequest(http.MethodGet, "/api/v1/pricing/estimate?platform=EBAY_US", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
