package engine

import (
	"fmt"
	"sort"
	"time"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== 参考数据快照 ====================

// SnapshotData 构建快照的原始数据, 由服务层从仓储一次性读出
type SnapshotData struct {
	Zones           []model.Zone
	CountryMappings []model.CountryZoneMapping
	RateEntries     []model.RateTableEntry
	FuelRates       []model.FuelSurcharge
	DemandRates     []model.DemandSurcharge
	HtsCodes        []model.HtsCode
	CountryTariffs  []model.CountryAdditionalTariff
	HandlingPolicy  []model.HandlingFeePolicy
	ExchangeRates   []model.ExchangeRate
}

// Snapshot 只读参考数据快照
// 批量生成期间持有不变, 保证同一批次内每行看到同一版费率
type Snapshot struct {
	AsOf time.Time

	zonesByID   map[int64]model.Zone
	countryZone map[string]model.Zone
	rateBands   map[string][]model.RateTableEntry
	fuelRates   map[int64]float64
	demandRates map[string]float64
	htsCodes    map[string]model.HtsCode
	originRates map[string]float64
	handling    map[string]model.HandlingFeePolicy
	fxToUSD     map[string]float64
}

func bandKey(zoneID int64, serviceType string) string {
	return fmt.Sprintf("%d|%s", zoneID, serviceType)
}

func policyKey(country string, isDDP bool) string {
	return fmt.Sprintf("%s|%t", country, isDDP)
}

// NewSnapshot 建立查找索引
// 费率档位按起始重量升序, 同起点按上限升序, 便于重叠时取最小上限档
func NewSnapshot(asOf time.Time, data SnapshotData) *Snapshot {
	s := &Snapshot{
		AsOf:        asOf,
		zonesByID:   make(map[int64]model.Zone),
		countryZone: make(map[string]model.Zone),
		rateBands:   make(map[string][]model.RateTableEntry),
		fuelRates:   make(map[int64]float64),
		demandRates: make(map[string]float64),
		htsCodes:    make(map[string]model.HtsCode),
		originRates: make(map[string]float64),
		handling:    make(map[string]model.HandlingFeePolicy),
		fxToUSD:     make(map[string]float64),
	}

	for _, zone := range data.Zones {
		s.zonesByID[zone.ID] = zone
	}
	for _, mapping := range data.CountryMappings {
		if !mapping.IsActive {
			continue
		}
		if zone, ok := s.zonesByID[mapping.ZoneID]; ok {
			s.countryZone[mapping.CountryCode] = zone
		}
	}

	for _, entry := range data.RateEntries {
		key := bandKey(entry.ZoneID, entry.ServiceType)
		s.rateBands[key] = append(s.rateBands[key], entry)
	}
	for key := range s.rateBands {
		bands := s.rateBands[key]
		sort.Slice(bands, func(i, j int) bool {
			if bands[i].WeightMinKg != bands[j].WeightMinKg {
				return bands[i].WeightMinKg < bands[j].WeightMinKg
			}
			return bands[i].WeightMaxKg < bands[j].WeightMaxKg
		})
	}

	// 附加费: 取快照时点前生效且最新的一条
	latestFuel := make(map[int64]time.Time)
	for _, fuel := range data.FuelRates {
		if !fuel.IsActive || fuel.EffectiveDate.After(asOf) {
			continue
		}
		if prev, ok := latestFuel[fuel.CarrierID]; ok && !fuel.EffectiveDate.After(prev) {
			continue
		}
		latestFuel[fuel.CarrierID] = fuel.EffectiveDate
		s.fuelRates[fuel.CarrierID] = fuel.Rate
	}
	latestDemand := make(map[string]time.Time)
	for _, demand := range data.DemandRates {
		if !demand.IsActive || demand.EffectiveDate.After(asOf) {
			continue
		}
		if prev, ok := latestDemand[demand.CountryCode]; ok && !demand.EffectiveDate.After(prev) {
			continue
		}
		latestDemand[demand.CountryCode] = demand.EffectiveDate
		s.demandRates[demand.CountryCode] = demand.Amount
	}

	for _, hts := range data.HtsCodes {
		s.htsCodes[hts.Code] = hts
	}
	for _, tariff := range data.CountryTariffs {
		if !tariff.IsActive {
			continue
		}
		s.originRates[tariff.CountryCode] += tariff.AdditionalRate
	}

	for _, policy := range data.HandlingPolicy {
		if !policy.IsActive {
			continue
		}
		s.handling[policyKey(policy.DestinationCountry, policy.IsDDP)] = policy
	}

	for _, fx := range data.ExchangeRates {
		if fx.CurrencyTo != "USD" || fx.Rate <= 0 {
			continue
		}
		s.fxToUSD[fx.CurrencyFrom] = fx.Rate
	}

	return s
}

// ==================== 快照查询 ====================

// ResolveZone 目的国 -> 分区, 无映射属硬错误不兜底
func (s *Snapshot) ResolveZone(countryCode string) (model.Zone, error) {
	zone, ok := s.countryZone[countryCode]
	if !ok {
		return model.Zone{}, &ZoneNotFoundError{CountryCode: countryCode}
	}
	return zone, nil
}

// FindRateBand 命中计费重量所在档位
// 区间闭合 [min, max]; 若数据异常出现重叠, 取上限最小的档位, 不崩溃
// 档位已按 (min, max) 升序, 首个命中即上限最小
func (s *Snapshot) FindRateBand(zone model.Zone, serviceType string, weightKg float64) (model.RateTableEntry, error) {
	for _, band := range s.rateBands[bandKey(zone.ID, serviceType)] {
		if weightKg >= band.WeightMinKg && weightKg <= band.WeightMaxKg {
			return band, nil
		}
	}
	return model.RateTableEntry{}, &RateNotFoundError{
		ZoneCode:    zone.Code,
		ServiceType: serviceType,
		WeightKg:    weightKg,
	}
}

// ListRateBands 分区内全部档位, 升序
func (s *Snapshot) ListRateBands(zoneID int64, serviceType string) []model.RateTableEntry {
	return s.rateBands[bandKey(zoneID, serviceType)]
}

// Zones 全部分区, 按编码升序
func (s *Snapshot) Zones() []model.Zone {
	list := make([]model.Zone, 0, len(s.zonesByID))
	for _, zone := range s.zonesByID {
		list = append(list, zone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// CountriesInZone 分区内全部生效国家, 升序
func (s *Snapshot) CountriesInZone(zoneID int64) []string {
	var list []string
	for country, zone := range s.countryZone {
		if zone.ID == zoneID {
			list = append(list, country)
		}
	}
	sort.Strings(list)
	return list
}

// FuelRate 承运商燃油费率; 无生效行时返回默认值并标记
func (s *Snapshot) FuelRate(carrierID int64, cfg Config) (rate float64, defaulted bool) {
	if r, ok := s.fuelRates[carrierID]; ok {
		return r, false
	}
	return cfg.DefaultFuelRate, true
}

// DemandAmount 目的国旺季附加费; 无生效行时返回默认值并标记
func (s *Snapshot) DemandAmount(countryCode string, cfg Config) (amount float64, defaulted bool) {
	if a, ok := s.demandRates[countryCode]; ok {
		return a, false
	}
	return cfg.DefaultDemandAmount, true
}

// Hts 按编码取税则行
func (s *Snapshot) Hts(code string) (model.HtsCode, bool) {
	hts, ok := s.htsCodes[code]
	return hts, ok
}

// OriginAdditionalRate 原产国附加税率合计(如对等关税)
func (s *Snapshot) OriginAdditionalRate(countryCode string) float64 {
	return s.originRates[countryCode]
}

// HandlingPolicy 目的国+贸易条款对应的操作费策略
func (s *Snapshot) HandlingPolicy(countryCode string, isDDP bool) (model.HandlingFeePolicy, bool) {
	policy, ok := s.handling[policyKey(countryCode, isDDP)]
	return policy, ok
}

// FxToUSD 币种兑USD汇率 (1 USD = rate 源币种)
func (s *Snapshot) FxToUSD(currency string) (rate float64, ok bool) {
	if currency == "USD" {
		return 1, true
	}
	rate, ok = s.fxToUSD[currency]
	return rate, ok
}
