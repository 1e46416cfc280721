package insight

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

var visibilityExportHeaders = []string{"维度", "分组", "件数", "价值"}

// VisibilityXLSX 将库存总览导出为xlsx，供线下盘点或汇报使用
func (e *Engine) VisibilityXLSX(ctx context.Context) (*excelize.File, string, error) {
	report := e.Visibility(ctx)

	f := excelize.NewFile()
	sheet := "库存总览"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range visibilityExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 2
	writeGroup := func(dim string, counts map[string]float64, values map[string]float64) {
		var keys []string
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), dim)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), k)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), counts[k])
			if values != nil {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), values[k])
			}
			row++
		}
	}
	writeGroup("厚度", report.ByThickness, nil)
	writeGroup("饰面", report.ByFinish, nil)
	writeGroup("堆场", report.ByYard, report.ValueByYard)

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "合计")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), report.TotalUnits)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), report.TotalValue)

	filename := fmt.Sprintf("visibility_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}
