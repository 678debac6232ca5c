package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"ebay_pricing_v1_202608/internal/api/dto"
	"ebay_pricing_v1_202608/internal/engine"
	"ebay_pricing_v1_202608/internal/model"
)

func TestRateTableService_Generate(t *testing.T) {
	db := setupPricingTestDB(t)
	seedPricingData(t, db)
	svc := NewRateTableService(engine.DefaultConfig(), newPricingService(db))

	result, err := svc.Generate(context.Background(), &dto.GenerateRateTableRequest{
		ServiceTypes: []string{model.ServiceTypeAir},
		CostAmount:   20,
		Platform:     "EBAY_US",
		AccountID:    "main",
	})
	if err != nil {
		t.Fatalf("费率表生成失败: %v", err)
	}

	// 1 分区 x 1 国家 x 2 重量段
	if len(result.Rows) != 2 {
		t.Fatalf("行数 = %d, want 2", len(result.Rows))
	}
	if len(result.Errors) != 0 {
		t.Errorf("不应有行级错误: %v", result.Errors)
	}
	if result.Rows[0].CountryCode != "US" || result.Rows[0].ZoneCode != "ZONE3" {
		t.Errorf("行内容错误: %+v", result.Rows[0])
	}
	if result.Rows[0].WeightMinKg >= result.Rows[1].WeightMinKg {
		t.Errorf("重量段应按下限升序")
	}
}

func TestRateTableService_ExportCSV(t *testing.T) {
	db := setupPricingTestDB(t)
	seedPricingData(t, db)
	svc := NewRateTableService(engine.DefaultConfig(), newPricingService(db))

	req := &dto.GenerateRateTableRequest{
		ServiceTypes:  []string{model.ServiceTypeAir},
		CostAmount:    3000,
		CostCurrency:  "JPY",
		Platform:      "EBAY_US",
		AccountID:     "main",
		LocalCurrency: "JPY",
	}

	var buf bytes.Buffer
	if _, err := svc.ExportCSV(context.Background(), req, ExportFormatFull, &buf); err != nil {
		t.Fatalf("导出CSV失败: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV行数 = %d, want 表头+2行", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Weight Range,") {
		t.Errorf("表头错误: %s", lines[0])
	}

	buf.Reset()
	if _, err := svc.ExportCSV(context.Background(), req, "xml", &buf); err == nil {
		t.Fatalf("不支持的格式应报错")
	}
}
