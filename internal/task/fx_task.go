package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"ebay_pricing_v1_202608/internal/service"
)

// FxTask 汇率定时刷新任务
// 汇率只影响成本归一化精度, 刷新失败沿用上次快照即可, 不阻断计价
type FxTask struct {
	fxService *service.ExchangeRateService
	Cron      *cron.Cron
}

func NewFxTask(fxService *service.ExchangeRateService) *FxTask {
	return &FxTask{
		fxService: fxService,
		Cron:      cron.New(cron.WithSeconds()),
	}
}

// Start 启动定时任务
func (t *FxTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次汇率刷新...")
		if err := t.fxService.Refresh(ctx); err != nil {
			log.Printf("[Cron] 首次汇率刷新失败: %v", err)
		}
	}()

	// 每6小时刷新
	_, err := t.Cron.AddFunc("0 0 0/6 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := t.fxService.Refresh(ctx); err != nil {
			log.Printf("[Cron] 汇率刷新失败: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("无法启动汇率定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("汇率刷新任务已启动 (每6小时一次)")
}

// Stop 停止定时任务
func (t *FxTask) Stop() {
	if t.Cron != nil {
		t.Cron.Stop()
	}
}
