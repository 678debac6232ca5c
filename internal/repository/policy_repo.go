package repository

import (
	"context"

	"gorm.io/gorm"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== HandlingFeePolicy 接口定义 ====================

// HandlingPolicyRepository 手续费策略仓储接口
type HandlingPolicyRepository interface {
	Create(ctx context.Context, policy *model.HandlingFeePolicy) error
	GetByID(ctx context.Context, id int64) (*model.HandlingFeePolicy, error)
	Update(ctx context.Context, policy *model.HandlingFeePolicy) error
	Delete(ctx context.Context, id int64) error

	// 查询: 按目的国+DDP/DDU取生效策略
	GetActive(ctx context.Context, destinationCountry string, isDDP bool) (*model.HandlingFeePolicy, error)
	ListByCountry(ctx context.Context, destinationCountry string) ([]model.HandlingFeePolicy, error)
	ListAll(ctx context.Context) ([]model.HandlingFeePolicy, error)
}

// ==================== HandlingFeePolicy 实现 ====================

type handlingPolicyRepo struct {
	db *gorm.DB
}

// NewHandlingPolicyRepository 创建手续费策略仓储
func NewHandlingPolicyRepository(db *gorm.DB) HandlingPolicyRepository {
	return &handlingPolicyRepo{db: db}
}

func (r *handlingPolicyRepo) Create(ctx context.Context, policy *model.HandlingFeePolicy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

func (r *handlingPolicyRepo) GetByID(ctx context.Context, id int64) (*model.HandlingFeePolicy, error) {
	var policy model.HandlingFeePolicy
	err := r.db.WithContext(ctx).First(&policy, id).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *handlingPolicyRepo) Update(ctx context.Context, policy *model.HandlingFeePolicy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

func (r *handlingPolicyRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.HandlingFeePolicy{}, id).Error
}

func (r *handlingPolicyRepo) GetActive(ctx context.Context, destinationCountry string, isDDP bool) (*model.HandlingFeePolicy, error) {
	var policy model.HandlingFeePolicy
	err := r.db.WithContext(ctx).
		Where("destination_country = ? AND is_ddp = ? AND is_active = ?", destinationCountry, isDDP, true).
		Order("id DESC").
		First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *handlingPolicyRepo) ListByCountry(ctx context.Context, destinationCountry string) ([]model.HandlingFeePolicy, error) {
	var list []model.HandlingFeePolicy
	err := r.db.WithContext(ctx).
		Where("destination_country = ?", destinationCountry).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *handlingPolicyRepo) ListAll(ctx context.Context) ([]model.HandlingFeePolicy, error) {
	var list []model.HandlingFeePolicy
	err := r.db.WithContext(ctx).
		Order("destination_country ASC, id ASC").
		Find(&list).Error
	return list, err
}

// ==================== MarketplaceSettings 接口定义 ====================

// MarketplaceSettingsRepository 平台账号费率配置仓储接口
type MarketplaceSettingsRepository interface {
	Create(ctx context.Context, settings *model.MarketplaceSettings) error
	GetByID(ctx context.Context, id int64) (*model.MarketplaceSettings, error)
	Update(ctx context.Context, settings *model.MarketplaceSettings) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	GetActive(ctx context.Context, platform string, accountID string) (*model.MarketplaceSettings, error)
	ListByPlatform(ctx context.Context, platform string) ([]model.MarketplaceSettings, error)
}

// ==================== MarketplaceSettings 实现 ====================

type marketplaceSettingsRepo struct {
	db *gorm.DB
}

// NewMarketplaceSettingsRepository 创建平台账号费率配置仓储
func NewMarketplaceSettingsRepository(db *gorm.DB) MarketplaceSettingsRepository {
	return &marketplaceSettingsRepo{db: db}
}

func (r *marketplaceSettingsRepo) Create(ctx context.Context, settings *model.MarketplaceSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *marketplaceSettingsRepo) GetByID(ctx context.Context, id int64) (*model.MarketplaceSettings, error) {
	var settings model.MarketplaceSettings
	err := r.db.WithContext(ctx).First(&settings, id).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *marketplaceSettingsRepo) Update(ctx context.Context, settings *model.MarketplaceSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *marketplaceSettingsRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.MarketplaceSettings{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *marketplaceSettingsRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.MarketplaceSettings{}, id).Error
}

func (r *marketplaceSettingsRepo) GetActive(ctx context.Context, platform string, accountID string) (*model.MarketplaceSettings, error) {
	var settings model.MarketplaceSettings
	err := r.db.WithContext(ctx).
		Where("platform = ? AND account_id = ? AND is_active = ?", platform, accountID, true).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *marketplaceSettingsRepo) ListByPlatform(ctx context.Context, platform string) ([]model.MarketplaceSettings, error) {
	var list []model.MarketplaceSettings
	err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// ==================== ShippingRule 接口定义 ====================

// ShippingRuleRepository 平台运费规则仓储接口
type ShippingRuleRepository interface {
	Create(ctx context.Context, rule *model.ShippingRule) error
	Update(ctx context.Context, rule *model.ShippingRule) error
	Delete(ctx context.Context, id int64) error

	// Match 按重量(克)匹配优先级最高的规则
	Match(ctx context.Context, platform string, destinationCountry string, weightG int) (*model.ShippingRule, error)
	ListByPlatform(ctx context.Context, platform string) ([]model.ShippingRule, error)
}

// ==================== ShippingRule 实现 ====================

type shippingRuleRepo struct {
	db *gorm.DB
}

// NewShippingRuleRepository 创建平台运费规则仓储
func NewShippingRuleRepository(db *gorm.DB) ShippingRuleRepository {
	return &shippingRuleRepo{db: db}
}

func (r *shippingRuleRepo) Create(ctx context.Context, rule *model.ShippingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *shippingRuleRepo) Update(ctx context.Context, rule *model.ShippingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *shippingRuleRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ShippingRule{}, id).Error
}

func (r *shippingRuleRepo) Match(ctx context.Context, platform string, destinationCountry string, weightG int) (*model.ShippingRule, error) {
	var rule model.ShippingRule
	err := r.db.WithContext(ctx).
		Where("platform = ? AND destination_country = ? AND min_weight_g <= ? AND max_weight_g >= ?",
			platform, destinationCountry, weightG, weightG).
		Order("priority DESC, id ASC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *shippingRuleRepo) ListByPlatform(ctx context.Context, platform string) ([]model.ShippingRule, error) {
	var list []model.ShippingRule
	err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("priority DESC, id ASC").
		Find(&list).Error
	return list, err
}
