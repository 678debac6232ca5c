package repository

import (
	"context"

	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== HtsCode 接口定义 ====================

// HtsCodeRepository HTS税则号仓储接口
type HtsCodeRepository interface {
	Create(ctx context.Context, code *model.HtsCode) error
	GetByID(ctx context.Context, id int64) (*model.HtsCode, error)
	GetByCode(ctx context.Context, code string) (*model.HtsCode, error)
	Update(ctx context.Context, code *model.HtsCode) error
	Delete(ctx context.Context, id int64) error

	ListAll(ctx context.Context) ([]model.HtsCode, error)
	BatchUpsert(ctx context.Context, codes []model.HtsCode) error
}

// ==================== HtsCode 实现 ====================

type htsCodeRepo struct {
	db *gorm.DB
}

// NewHtsCodeRepository 创建HTS税则号仓储
func NewHtsCodeRepository(db *gorm.DB) HtsCodeRepository {
	return &htsCodeRepo{db: db}
}

func (r *htsCodeRepo) Create(ctx context.Context, code *model.HtsCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *htsCodeRepo) GetByID(ctx context.Context, id int64) (*model.HtsCode, error) {
	var code model.HtsCode
	err := r.db.WithContext(ctx).First(&code, id).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *htsCodeRepo) GetByCode(ctx context.Context, htsCode string) (*model.HtsCode, error) {
	var code model.HtsCode
	err := r.db.WithContext(ctx).
		Where("code = ?", htsCode).
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *htsCodeRepo) Update(ctx context.Context, code *model.HtsCode) error {
	return r.db.WithContext(ctx).Save(code).Error
}

func (r *htsCodeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.HtsCode{}, id).Error
}

func (r *htsCodeRepo) ListAll(ctx context.Context) ([]model.HtsCode, error) {
	var list []model.HtsCode
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&list).Error
	return list, err
}

func (r *htsCodeRepo) BatchUpsert(ctx context.Context, codes []model.HtsCode) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, code := range codes {
			err := tx.Where("code = ?", code.Code).
				Assign(code).
				FirstOrCreate(&code).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ==================== CountryTariff 接口定义 ====================

// CountryTariffRepository 原产国附加关税仓储接口
type CountryTariffRepository interface {
	GetActiveByCountry(ctx context.Context, countryCode string) ([]model.CountryAdditionalTariff, error)
	ListAll(ctx context.Context) ([]model.CountryAdditionalTariff, error)
	Upsert(ctx context.Context, tariff *model.CountryAdditionalTariff) error
	Delete(ctx context.Context, id int64) error
}

// ==================== CountryTariff 实现 ====================

type countryTariffRepo struct {
	db *gorm.DB
}

// NewCountryTariffRepository 创建原产国附加关税仓储
func NewCountryTariffRepository(db *gorm.DB) CountryTariffRepository {
	return &countryTariffRepo{db: db}
}

func (r *countryTariffRepo) GetActiveByCountry(ctx context.Context, countryCode string) ([]model.CountryAdditionalTariff, error) {
	var list []model.CountryAdditionalTariff
	err := r.db.WithContext(ctx).
		Where("country_code = ? AND is_active = ?", countryCode, true).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *countryTariffRepo) ListAll(ctx context.Context) ([]model.CountryAdditionalTariff, error) {
	var list []model.CountryAdditionalTariff
	err := r.db.WithContext(ctx).
		Order("country_code ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *countryTariffRepo) Upsert(ctx context.Context, tariff *model.CountryAdditionalTariff) error {
	return r.db.WithContext(ctx).
		Where("country_code = ? AND tariff_type = ?", tariff.CountryCode, tariff.TariffType).
		Assign(tariff).
		FirstOrCreate(tariff).Error
}

func (r *countryTariffRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.CountryAdditionalTariff{}, id).Error
}
