package repository

import (
	"context"

	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== Zone 接口定义 ====================

// ZoneRepository 运费分区仓储接口
type ZoneRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, zone *model.Zone) error
	GetByID(ctx context.Context, id int64) (*model.Zone, error)
	GetByCode(ctx context.Context, code string) (*model.Zone, error)
	Update(ctx context.Context, zone *model.Zone) error
	Delete(ctx context.Context, id int64) error

	// 查询
	ListAll(ctx context.Context) ([]model.Zone, error)
	GetByCountry(ctx context.Context, countryCode string) (*model.Zone, error)

	// 映射维护
	UpsertCountryMapping(ctx context.Context, mapping *model.CountryZoneMapping) error
	ListCountryMappings(ctx context.Context) ([]model.CountryZoneMapping, error)
}

// ==================== Zone 实现 ====================

type zoneRepo struct {
	db *gorm.DB
}

// NewZoneRepository 创建运费分区仓储
func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &zoneRepo{db: db}
}

func (r *zoneRepo) Create(ctx context.Context, zone *model.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *zoneRepo) GetByID(ctx context.Context, id int64) (*model.Zone, error) {
	var zone model.Zone
	err := r.db.WithContext(ctx).First(&zone, id).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepo) GetByCode(ctx context.Context, code string) (*model.Zone, error) {
	var zone model.Zone
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepo) Update(ctx context.Context, zone *model.Zone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

func (r *zoneRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Zone{}, id).Error
}

func (r *zoneRepo) ListAll(ctx context.Context) ([]model.Zone, error) {
	var list []model.Zone
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&list).Error
	return list, err
}

// GetByCountry 按国家二位码查所属分区, 映射未命中返回 gorm.ErrRecordNotFound
func (r *zoneRepo) GetByCountry(ctx context.Context, countryCode string) (*model.Zone, error) {
	var mapping model.CountryZoneMapping
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Where("country_code = ? AND is_active = ?", countryCode, true).
		First(&mapping).Error
	if err != nil {
		return nil, err
	}
	if mapping.Zone == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return mapping.Zone, nil
}

func (r *zoneRepo) UpsertCountryMapping(ctx context.Context, mapping *model.CountryZoneMapping) error {
	return r.db.WithContext(ctx).
		Where("country_code = ?", mapping.CountryCode).
		Assign(mapping).
		FirstOrCreate(mapping).Error
}

func (r *zoneRepo) ListCountryMappings(ctx context.Context) ([]model.CountryZoneMapping, error) {
	var list []model.CountryZoneMapping
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("country_code ASC").
		Find(&list).Error
	return list, err
}
