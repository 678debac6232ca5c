package engine

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ==================== CSV 导出 ====================

// ExportRateTableCSV 完整费率表导出
// 列序固定, 配合确定性行序支持前后两次导出直接 diff
func ExportRateTableCSV(w io.Writer, result *GenerateResult, localCurrency string) error {
	writer := csv.NewWriter(w)

	localHeader := "Recommended Price (Local)"
	if localCurrency != "" {
		localHeader = fmt.Sprintf("Recommended Price (%s)", localCurrency)
	}
	header := []string{
		"Weight Range", "Service", "Zone", "Country",
		"Base Rate", localHeader, "Recommended Price (USD)", "Margin %",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range result.Rows {
		record := []string{
			fmt.Sprintf("%.2f-%.2fkg", row.WeightMinKg, row.WeightMaxKg),
			row.ServiceType,
			row.ZoneCode,
			row.CountryCode,
			fmt.Sprintf("%.2f", row.BaseRate),
			fmt.Sprintf("%.2f", row.RecommendedPriceLocal),
			fmt.Sprintf("%.2f", row.RecommendedPriceUSD),
			fmt.Sprintf("%.2f", row.MarginPct),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportMarketplaceCSV 平台上传精简格式
// 重量列取档位上限, 即该价格覆盖到的最大重量
func ExportMarketplaceCSV(w io.Writer, result *GenerateResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Weight (kg)", "Zone", "Price (USD)"}); err != nil {
		return err
	}

	for _, row := range result.Rows {
		record := []string{
			fmt.Sprintf("%.2f", row.WeightMaxKg),
			row.ZoneCode,
			fmt.Sprintf("%.2f", row.RecommendedPriceUSD),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
