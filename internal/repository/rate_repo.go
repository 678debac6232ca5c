package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== RateTable 接口定义 ====================

// RateTableRepository 运费费率表仓储接口
type RateTableRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, entry *model.RateTableEntry) error
	GetByID(ctx context.Context, id int64) (*model.RateTableEntry, error)
	Update(ctx context.Context, entry *model.RateTableEntry) error
	Delete(ctx context.Context, id int64) error

	// 查询
	FindBand(ctx context.Context, zoneID int64, serviceType string, weightKg float64) (*model.RateTableEntry, error)
	ListByZone(ctx context.Context, zoneID int64, serviceType string) ([]model.RateTableEntry, error)
	ListAll(ctx context.Context) ([]model.RateTableEntry, error)

	// 批量导入
	BatchCreate(ctx context.Context, entries []model.RateTableEntry) error
	DeleteByZone(ctx context.Context, zoneID int64, serviceType string) error
}

// ==================== RateTable 实现 ====================

type rateTableRepo struct {
	db *gorm.DB
}

// NewRateTableRepository 创建费率表仓储
func NewRateTableRepository(db *gorm.DB) RateTableRepository {
	return &rateTableRepo{db: db}
}

func (r *rateTableRepo) Create(ctx context.Context, entry *model.RateTableEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *rateTableRepo) GetByID(ctx context.Context, id int64) (*model.RateTableEntry, error) {
	var entry model.RateTableEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rateTableRepo) Update(ctx context.Context, entry *model.RateTableEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *rateTableRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.RateTableEntry{}, id).Error
}

// FindBand 按计费重量命中费率档位, 区间闭合 [min, max], 重叠时取上限最小的档位
func (r *rateTableRepo) FindBand(ctx context.Context, zoneID int64, serviceType string, weightKg float64) (*model.RateTableEntry, error) {
	var entry model.RateTableEntry
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND service_type = ? AND weight_min_kg <= ? AND weight_max_kg >= ?",
			zoneID, serviceType, weightKg, weightKg).
		Order("weight_max_kg ASC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *rateTableRepo) ListByZone(ctx context.Context, zoneID int64, serviceType string) ([]model.RateTableEntry, error) {
	var list []model.RateTableEntry
	err := r.db.WithContext(ctx).
		Where("zone_id = ? AND service_type = ?", zoneID, serviceType).
		Order("weight_min_kg ASC").
		Find(&list).Error
	return list, err
}

func (r *rateTableRepo) ListAll(ctx context.Context) ([]model.RateTableEntry, error) {
	var list []model.RateTableEntry
	err := r.db.WithContext(ctx).
		Order("zone_id ASC, service_type ASC, weight_min_kg ASC").
		Find(&list).Error
	return list, err
}

func (r *rateTableRepo) BatchCreate(ctx context.Context, entries []model.RateTableEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *rateTableRepo) DeleteByZone(ctx context.Context, zoneID int64, serviceType string) error {
	return r.db.WithContext(ctx).
		Where("zone_id = ? AND service_type = ?", zoneID, serviceType).
		Delete(&model.RateTableEntry{}).Error
}

// ==================== Surcharge 接口定义 ====================

// SurchargeRepository 附加费仓储接口
type SurchargeRepository interface {
	// 燃油附加费
	GetActiveFuelRate(ctx context.Context, carrierID int64, at time.Time) (*model.FuelSurcharge, error)
	UpsertFuelRate(ctx context.Context, surcharge *model.FuelSurcharge) error

	// 旺季/需求附加费
	GetActiveDemandSurcharge(ctx context.Context, countryCode string, at time.Time) (*model.DemandSurcharge, error)
	UpsertDemandSurcharge(ctx context.Context, surcharge *model.DemandSurcharge) error

	// 快照加载
	ListAllFuel(ctx context.Context) ([]model.FuelSurcharge, error)
	ListAllDemand(ctx context.Context) ([]model.DemandSurcharge, error)
}

// ==================== Surcharge 实现 ====================

type surchargeRepo struct {
	db *gorm.DB
}

// NewSurchargeRepository 创建附加费仓储
func NewSurchargeRepository(db *gorm.DB) SurchargeRepository {
	return &surchargeRepo{db: db}
}

// GetActiveFuelRate 取给定时点生效的最新一条燃油费率
func (r *surchargeRepo) GetActiveFuelRate(ctx context.Context, carrierID int64, at time.Time) (*model.FuelSurcharge, error) {
	var surcharge model.FuelSurcharge
	err := r.db.WithContext(ctx).
		Where("carrier_id = ? AND is_active = ? AND effective_date <= ?", carrierID, true, at).
		Order("effective_date DESC").
		First(&surcharge).Error
	if err != nil {
		return nil, err
	}
	return &surcharge, nil
}

func (r *surchargeRepo) UpsertFuelRate(ctx context.Context, surcharge *model.FuelSurcharge) error {
	return r.db.WithContext(ctx).
		Where("carrier_id = ? AND effective_date = ?", surcharge.CarrierID, surcharge.EffectiveDate).
		Assign(surcharge).
		FirstOrCreate(surcharge).Error
}

func (r *surchargeRepo) GetActiveDemandSurcharge(ctx context.Context, countryCode string, at time.Time) (*model.DemandSurcharge, error) {
	var surcharge model.DemandSurcharge
	err := r.db.WithContext(ctx).
		Where("country_code = ? AND is_active = ? AND effective_date <= ?", countryCode, true, at).
		Order("effective_date DESC").
		First(&surcharge).Error
	if err != nil {
		return nil, err
	}
	return &surcharge, nil
}

func (r *surchargeRepo) UpsertDemandSurcharge(ctx context.Context, surcharge *model.DemandSurcharge) error {
	return r.db.WithContext(ctx).
		Where("country_code = ? AND effective_date = ?", surcharge.CountryCode, surcharge.EffectiveDate).
		Assign(surcharge).
		FirstOrCreate(surcharge).Error
}

func (r *surchargeRepo) ListAllFuel(ctx context.Context) ([]model.FuelSurcharge, error) {
	var list []model.FuelSurcharge
	err := r.db.WithContext(ctx).
		Order("carrier_id ASC, effective_date ASC").
		Find(&list).Error
	return list, err
}

func (r *surchargeRepo) ListAllDemand(ctx context.Context) ([]model.DemandSurcharge, error) {
	var list []model.DemandSurcharge
	err := r.db.WithContext(ctx).
		Order("country_code ASC, effective_date ASC").
		Find(&list).Error
	return list, err
}
