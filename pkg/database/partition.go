package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ==================== 报价历史分区维护 ====================

// product_quotes 是唯一的高写入量表: 批量任务一次落几千行报价记录
// 按 created_at 做月度分区, 过期分区整张删除, 避免大表 DELETE
const createQuoteTableSQL = `
CREATE TABLE product_quotes (
    id BIGSERIAL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ,
    deleted_at TIMESTAMPTZ,
    run_id VARCHAR(64),
    sku VARCHAR(100),
    destination_country VARCHAR(10),
    service_type VARCHAR(10),
    chargeable_weight_kg NUMERIC,
    total_cost_usd NUMERIC,
    sale_price_usd NUMERIC,
    handling_fee_usd NUMERIC,
    profit_margin_pct NUMERIC,
    status VARCHAR(20),
    calc_data JSONB,
    PRIMARY KEY (id, created_at)
) PARTITION BY RANGE (created_at);
CREATE INDEX idx_product_quotes_run_id ON product_quotes (run_id);
CREATE INDEX idx_product_quotes_sku ON product_quotes (sku);
CREATE INDEX idx_product_quotes_status ON product_quotes (status);
CREATE INDEX idx_product_quotes_deleted_at ON product_quotes (deleted_at);
`

const quoteTableName = "product_quotes"

// QuotePartitionManager 报价历史表分区管理器
type QuotePartitionManager struct {
	db             *gorm.DB
	retentionMonth int // 0=永久保留
}

func NewQuotePartitionManager(db *gorm.DB, retentionMonth int) *QuotePartitionManager {
	return &QuotePartitionManager{db: db, retentionMonth: retentionMonth}
}

// InitQuoteTable 创建分区主表(不存在时)
func (m *QuotePartitionManager) InitQuoteTable(ctx context.Context) error {
	exists, err := m.tableExists(ctx, quoteTableName)
	if err != nil {
		return fmt.Errorf("检查表 %s 失败: %w", quoteTableName, err)
	}
	if exists {
		return nil
	}

	log.Printf("[Partition] 创建分区表 %s ...", quoteTableName)
	if err := m.db.WithContext(ctx).Exec(createQuoteTableSQL).Error; err != nil {
		return fmt.Errorf("创建表 %s 失败: %w", quoteTableName, err)
	}
	return nil
}

func (m *QuotePartitionManager) tableExists(ctx context.Context, tableName string) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM pg_tables
		WHERE schemaname = 'public' AND tablename = ?
	`, tableName).Scan(&count).Error
	return count > 0, err
}

// ==================== 分区创建 ====================

// EnsureFuturePartitions 确保当月与未来 N 个月的分区存在
func (m *QuotePartitionManager) EnsureFuturePartitions(ctx context.Context, monthsAhead int) error {
	now := time.Now()
	for i := 0; i <= monthsAhead; i++ {
		if err := m.createPartitionIfNotExists(ctx, now.AddDate(0, i, 0)); err != nil {
			return err
		}
	}
	return nil
}

func (m *QuotePartitionManager) createPartitionIfNotExists(ctx context.Context, month time.Time) error {
	startDate := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, 0)
	partitionName := fmt.Sprintf("%s_y%dm%02d", quoteTableName, startDate.Year(), startDate.Month())

	exists, err := m.tableExists(ctx, partitionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	sql := fmt.Sprintf(
		`CREATE TABLE %s PARTITION OF %s FOR VALUES FROM ('%s') TO ('%s')`,
		partitionName, quoteTableName,
		startDate.Format("2006-01-02"),
		endDate.Format("2006-01-02"),
	)
	if err := m.db.WithContext(ctx).Exec(sql).Error; err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return fmt.Errorf("创建分区 %s 失败: %w", partitionName, err)
	}

	log.Printf("[Partition] 创建分区 %s", partitionName)
	return nil
}

// ==================== 分区清理 ====================

// CleanupExpiredPartitions 清理超过保留期的分区
func (m *QuotePartitionManager) CleanupExpiredPartitions(ctx context.Context) (int, error) {
	if m.retentionMonth == 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, -m.retentionMonth, 0)
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), 1, 0, 0, 0, 0, time.UTC)

	partitions, err := m.ListPartitions(ctx)
	if err != nil {
		return 0, err
	}

	dropped := 0
	for _, p := range partitions {
		partMonth, err := parsePartitionMonth(p.Name)
		if err != nil {
			continue
		}
		if partMonth.Before(cutoff) {
			log.Printf("[Partition] 删除过期分区 %s", p.Name)
			if err := m.db.WithContext(ctx).Exec(
				fmt.Sprintf("DROP TABLE IF EXISTS %s", p.Name),
			).Error; err != nil {
				log.Printf("[Partition] 删除 %s 失败: %v", p.Name, err)
			} else {
				dropped++
			}
		}
	}
	return dropped, nil
}

func parsePartitionMonth(partitionName string) (time.Time, error) {
	suffix := strings.TrimPrefix(partitionName, quoteTableName+"_y")
	if len(suffix) < 6 {
		return time.Time{}, fmt.Errorf("无效分区名")
	}
	var year, month int
	if _, err := fmt.Sscanf(suffix, "%dm%d", &year, &month); err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// ==================== 分区查询 ====================

// PartitionInfo 分区信息
type PartitionInfo struct {
	Name      string `gorm:"column:partition_name"`
	Range     string `gorm:"column:partition_range"`
	SizeBytes int64  `gorm:"column:size_bytes"`
}

// ListPartitions 列出报价表的所有分区
func (m *QuotePartitionManager) ListPartitions(ctx context.Context) ([]PartitionInfo, error) {
	var partitions []PartitionInfo
	err := m.db.WithContext(ctx).Raw(`
		SELECT
			child.relname AS partition_name,
			pg_get_expr(child.relpartbound, child.oid) AS partition_range,
			pg_total_relation_size(child.oid) AS size_bytes
		FROM pg_inherits
		JOIN pg_class parent ON pg_inherits.inhparent = parent.oid
		JOIN pg_class child ON pg_inherits.inhrelid = child.oid
		WHERE parent.relname = ?
		ORDER BY child.relname
	`, quoteTableName).Scan(&partitions).Error
	return partitions, err
}

// ==================== 维护任务 ====================

// QuotePartitionTask 分区维护任务: 每天补未来分区、清过期分区
type QuotePartitionTask struct {
	manager      *QuotePartitionManager
	futureMonths int
	interval     time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
	running      bool
	mu           sync.Mutex
}

func NewQuotePartitionTask(manager *QuotePartitionManager) *QuotePartitionTask {
	return &QuotePartitionTask{
		manager:      manager,
		futureMonths: 3,
		interval:     24 * time.Hour,
		stopCh:       make(chan struct{}),
	}
}

// Start 启动任务
func (t *QuotePartitionTask) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	t.wg.Add(1)
	go t.run()

	log.Printf("[PartitionTask] 已启动, 间隔: %v, 未来分区: %d 月", t.interval, t.futureMonths)
}

// Stop 停止任务
func (t *QuotePartitionTask) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.mu.Unlock()

	close(t.stopCh)
	t.wg.Wait()
	log.Println("[PartitionTask] 已停止")
}

func (t *QuotePartitionTask) run() {
	defer t.wg.Done()

	// 启动时立即执行
	t.execute()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.execute()
		case <-t.stopCh:
			return
		}
	}
}

func (t *QuotePartitionTask) execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := t.manager.EnsureFuturePartitions(ctx, t.futureMonths); err != nil {
		log.Printf("[PartitionTask] 创建分区失败: %v", err)
	}

	dropped, err := t.manager.CleanupExpiredPartitions(ctx)
	if err != nil {
		log.Printf("[PartitionTask] 清理过期分区失败: %v", err)
	} else if dropped > 0 {
		log.Printf("[PartitionTask] 已删除 %d 个过期分区", dropped)
	}
}
