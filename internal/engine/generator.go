package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"ebay_pricing_v1_202608/internal/model"
)

// ==================== 批量费率表生成 ====================

// GenerateOptions 生成选项
// Countries/ServiceTypes/重量窗口用于收窄范围, 不改变单行公式
type GenerateOptions struct {
	ServiceTypes []string // 空默认 AIR
	Countries    []string // 空为全部生效国家
	WeightMinKg  float64  // 重量窗口下限, 0 不限
	WeightMaxKg  float64  // 重量窗口上限, 0 不限

	CostUSD       float64 // 商品成本(USD)
	DeclaredValue float64 // 申报价值(USD)
	IsDDP         bool
	OriginCountry string
	HtsCode       string
	Fees          FeeSchedule

	LocalCurrency string // 本币列币种, 空只出USD
	Workers       int    // 0 取配置默认
}

// RateRow 费率表行
type RateRow struct {
	WeightMinKg           float64 `json:"weight_min_kg"`
	WeightMaxKg           float64 `json:"weight_max_kg"`
	ServiceType           string  `json:"service_type"`
	ZoneCode              string  `json:"zone"`
	CountryCode           string  `json:"country"`
	BaseRate              float64 `json:"base_rate"`
	RecommendedPriceUSD   float64 `json:"recommended_price_usd"`
	RecommendedPriceLocal float64 `json:"recommended_price_local,omitempty"`
	MarginPct             float64 `json:"margin_pct"`
	Strategy              string  `json:"strategy"`
	Compliant             bool    `json:"compliant"`
}

// RowError 单行失败记录, 不中断整批
type RowError struct {
	ServiceType string  `json:"service_type"`
	ZoneCode    string  `json:"zone"`
	CountryCode string  `json:"country"`
	WeightMinKg float64 `json:"weight_min_kg"`
	WeightMaxKg float64 `json:"weight_max_kg"`
	Message     string  `json:"message"`
}

// GenerateResult 一次生成的全部产出
type GenerateResult struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Rows        []RateRow  `json:"rows"`
	Errors      []RowError `json:"errors,omitempty"`
}

// Generator 费率表生成器
type Generator struct {
	cfg  Config
	calc *Calculator
}

// NewGenerator 创建费率表生成器
func NewGenerator(cfg Config, snap *Snapshot) *Generator {
	return &Generator{cfg: cfg, calc: NewCalculator(cfg, snap)}
}

type genJob struct {
	country string
	zone    model.Zone
	service string
	band    model.RateTableEntry
}

// Generate 遍历 服务×分区×国家×重量档 全组合并行计价
// 任务序列固定排序且快照不变, 同输入必产出同行序; 行间无共享可写状态,
// 经有界协程池扇出, 行级错误收集到 Errors, ctx 取消时尽快停止
func (g *Generator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	services := opts.ServiceTypes
	if len(services) == 0 {
		services = []string{model.ServiceTypeAir}
	}

	countryFilter := make(map[string]bool, len(opts.Countries))
	for _, c := range opts.Countries {
		countryFilter[c] = true
	}

	// 固定顺序展开任务: 服务 -> 分区编码 -> 国家 -> 重量档起点
	var jobs []genJob
	snap := g.calc.Snapshot()
	for _, service := range services {
		for _, zone := range snap.Zones() {
			countries := snap.CountriesInZone(zone.ID)
			bands := snap.ListRateBands(zone.ID, service)
			for _, country := range countries {
				if len(countryFilter) > 0 && !countryFilter[country] {
					continue
				}
				for _, band := range bands {
					if opts.WeightMaxKg > 0 && band.WeightMinKg >= opts.WeightMaxKg {
						continue
					}
					if band.WeightMaxKg <= opts.WeightMinKg {
						continue
					}
					jobs = append(jobs, genJob{country: country, zone: zone, service: service, band: band})
				}
			}
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = g.cfg.BatchWorkers
	}
	if workers > len(jobs) && len(jobs) > 0 {
		workers = len(jobs)
	}

	rows := make([]*RateRow, len(jobs))
	rowErrs := make([]*RowError, len(jobs))

	jobCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				if ctx.Err() != nil {
					return
				}
				rows[idx], rowErrs[idx] = g.computeRow(jobs[idx], opts)
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case jobCh <- i:
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &GenerateResult{
		RunID:       uuid.NewString(),
		GeneratedAt: snap.AsOf,
	}
	for i := range jobs {
		if rowErrs[i] != nil {
			result.Errors = append(result.Errors, *rowErrs[i])
			continue
		}
		if rows[i] != nil {
			result.Rows = append(result.Rows, *rows[i])
		}
	}
	return result, nil
}

// computeRow 单行计价, 代表重量取档位下限, 使基础运费列等于档位底价
// 档位由行任务固定, 不按代表重量反查, 避免共享边界上串到相邻档位
func (g *Generator) computeRow(job genJob, opts GenerateOptions) (*RateRow, *RowError) {
	req := CalcRequest{
		DestinationCountry: job.country,
		OriginCountry:      opts.OriginCountry,
		WeightKg:           job.band.WeightMinKg,
		ServiceType:        job.service,
		CarrierID:          job.band.CarrierID,
		IsDDP:              opts.IsDDP,
		DeclaredValue:      opts.DeclaredValue,
		HtsCode:            opts.HtsCode,
	}

	rowErr := func(err error) *RowError {
		return &RowError{
			ServiceType: job.service,
			ZoneCode:    job.zone.Code,
			CountryCode: job.country,
			WeightMinKg: job.band.WeightMinKg,
			WeightMaxKg: job.band.WeightMaxKg,
			Message:     err.Error(),
		}
	}

	breakdown, err := g.calc.CalculateWithBand(req, job.band)
	if err != nil {
		return nil, rowErr(err)
	}
	solve, err := SolvePrice(opts.CostUSD+breakdown.TotalCost(), opts.Fees)
	if err != nil {
		return nil, rowErr(err)
	}

	row := &RateRow{
		WeightMinKg:         job.band.WeightMinKg,
		WeightMaxKg:         job.band.WeightMaxKg,
		ServiceType:         job.service,
		ZoneCode:            job.zone.Code,
		CountryCode:         job.country,
		BaseRate:            job.band.BaseRate,
		RecommendedPriceUSD: solve.SuggestedPrice,
		MarginPct:           solve.ProfitMargin,
		Strategy:            breakdown.Strategy,
		Compliant: breakdown.HandlingFee <= solve.SuggestedPrice*g.cfg.HandlingPriceCap &&
			solve.CanList,
	}
	if opts.LocalCurrency != "" {
		if fx, ok := g.calc.Snapshot().FxToUSD(opts.LocalCurrency); ok {
			row.RecommendedPriceLocal = solve.SuggestedPrice * fx
		}
	}
	return row, nil
}
