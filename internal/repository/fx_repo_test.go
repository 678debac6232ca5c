package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ebay_pricing_v1_202608/internal/model"
)

func setupFxTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	db.AutoMigrate(&model.ExchangeRate{})
	return db
}

func TestExchangeRateRepo_GetLatest(t *testing.T) {
	db := setupFxTestDB(t)
	repo := NewExchangeRateRepository(db)
	ctx := context.Background()

	now := time.Now()
	db.Create(&model.ExchangeRate{CurrencyFrom: "JPY", CurrencyTo: "USD", Rate: 148, FetchedAt: now.Add(-2 * time.Hour)})
	db.Create(&model.ExchangeRate{CurrencyFrom: "JPY", CurrencyTo: "USD", Rate: 150, FetchedAt: now})

	rate, err := repo.GetLatest(ctx, "JPY", "USD")
	if err != nil {
		t.Fatalf("查询最新汇率失败: %v", err)
	}
	if rate.Rate != 150 {
		t.Errorf("rate = %v, want 150 (最新抓取)", rate.Rate)
	}

	_, err = repo.GetLatest(ctx, "EUR", "USD")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("无记录币种对应返回 ErrRecordNotFound, got %v", err)
	}
}

func TestExchangeRateRepo_ListPairs(t *testing.T) {
	db := setupFxTestDB(t)
	repo := NewExchangeRateRepository(db)
	ctx := context.Background()

	now := time.Now()
	db.Create(&model.ExchangeRate{CurrencyFrom: "JPY", CurrencyTo: "USD", Rate: 148, FetchedAt: now.Add(-2 * time.Hour)})
	db.Create(&model.ExchangeRate{CurrencyFrom: "JPY", CurrencyTo: "USD", Rate: 150, FetchedAt: now})
	db.Create(&model.ExchangeRate{CurrencyFrom: "CNY", CurrencyTo: "USD", Rate: 7.2, FetchedAt: now})

	list, err := repo.ListPairs(ctx)
	if err != nil {
		t.Fatalf("查询币种对失败: %v", err)
	}
	// 每个币种对只保留最新一条, 按源币种升序
	if len(list) != 2 {
		t.Fatalf("币种对数 = %d, want 2", len(list))
	}
	if list[0].CurrencyFrom != "CNY" || list[1].CurrencyFrom != "JPY" {
		t.Errorf("币种对排序错误: %s, %s", list[0].CurrencyFrom, list[1].CurrencyFrom)
	}
	if list[1].Rate != 150 {
		t.Errorf("JPY 对应保留最新汇率, got %v", list[1].Rate)
	}
}
