package repository

import (
	"context"

	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== ProductQuote 接口定义 ====================

// QuoteRepository 定价报价仓储接口
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.ProductQuote) error
	GetByID(ctx context.Context, id int64) (*model.ProductQuote, error)
	Delete(ctx context.Context, id int64) error

	ListByRunID(ctx context.Context, runID string) ([]model.ProductQuote, error)
	ListBySKU(ctx context.Context, sku string, limit int) ([]model.ProductQuote, error)
	CountByRunID(ctx context.Context, runID string) (int64, error)

	BatchCreate(ctx context.Context, quotes []model.ProductQuote) error
	DeleteByRunID(ctx context.Context, runID string) error
}

// ==================== ProductQuote 实现 ====================

type quoteRepo struct {
	db *gorm.DB
}

// NewQuoteRepository 创建定价报价仓储
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) Create(ctx context.Context, quote *model.ProductQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepo) GetByID(ctx context.Context, id int64) (*model.ProductQuote, error) {
	var quote model.ProductQuote
	err := r.db.WithContext(ctx).First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ProductQuote{}, id).Error
}

func (r *quoteRepo) ListByRunID(ctx context.Context, runID string) ([]model.ProductQuote, error) {
	var list []model.ProductQuote
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *quoteRepo) ListBySKU(ctx context.Context, sku string, limit int) ([]model.ProductQuote, error) {
	var list []model.ProductQuote
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *quoteRepo) CountByRunID(ctx context.Context, runID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductQuote{}).
		Where("run_id = ?", runID).
		Count(&count).Error
	return count, err
}

func (r *quoteRepo) BatchCreate(ctx context.Context, quotes []model.ProductQuote) error {
	if len(quotes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&quotes).Error
}

func (r *quoteRepo) DeleteByRunID(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Delete(&model.ProductQuote{}).Error
}
