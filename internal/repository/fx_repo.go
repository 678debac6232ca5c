package repository

import (
	"context"

	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== ExchangeRate 接口定义 ====================

// ExchangeRateRepository 汇率快照仓储接口
type ExchangeRateRepository interface {
	Create(ctx context.Context, rate *model.ExchangeRate) error
	GetLatest(ctx context.Context, from string, to string) (*model.ExchangeRate, error)
	ListPairs(ctx context.Context) ([]model.ExchangeRate, error)
}

// ==================== ExchangeRate 实现 ====================

type exchangeRateRepo struct {
	db *gorm.DB
}

// NewExchangeRateRepository 创建汇率快照仓储
func NewExchangeRateRepository(db *gorm.DB) ExchangeRateRepository {
	return &exchangeRateRepo{db: db}
}

func (r *exchangeRateRepo) Create(ctx context.Context, rate *model.ExchangeRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

// GetLatest 取币种对最近一次抓取的汇率
func (r *exchangeRateRepo) GetLatest(ctx context.Context, from string, to string) (*model.ExchangeRate, error) {
	var rate model.ExchangeRate
	err := r.db.WithContext(ctx).
		Where("currency_from = ? AND currency_to = ?", from, to).
		Order("fetched_at DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// ListPairs 每个币种对取最新一条
func (r *exchangeRateRepo) ListPairs(ctx context.Context) ([]model.ExchangeRate, error) {
	var list []model.ExchangeRate
	sub := r.db.WithContext(ctx).Model(&model.ExchangeRate{}).
		Select("MAX(id)").
		Group("currency_from, currency_to")
	err := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("currency_from ASC").
		Find(&list).Error
	return list, err
}
