package export

import (
	"fmt"
	"io"

	"gastos/internal/core"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Resumen"

// Workbook writes rep as an .xlsx document with one row per category.
func (e *Exporter) Workbook(w io.Writer, rep core.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#36A2EB"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E8EEF4"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "#999999", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	moneyFmt := `"$"#,##0.00`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &moneyFmt,
		Border:       []excelize.Border{{Type: "top", Color: "#333333", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("total style: %w", err)
	}

	cells := []struct {
		cell  string
		value any
	}{
		{"A1", reportTitle},
		{"A2", PeriodLabel(rep)},
		{"A4", headerCat},
		{"B4", headerAmount},
		{"C4", headerShare},
	}
	if rep.FilterIgnored {
		cells = append(cells, struct {
			cell  string
			value any
		}{"B2", ignoredNotice})
	}
	for _, c := range cells {
		if err := f.SetCellValue(sheetName, c.cell, c.value); err != nil {
			return fmt.Errorf("set %s: %w", c.cell, err)
		}
	}
	_ = f.SetCellStyle(sheetName, "A1", "C1", titleStyle)
	_ = f.SetCellStyle(sheetName, "A4", "C4", headerStyle)

	row := 5
	for _, s := range rep.Summaries {
		amount, _ := s.Total.Float64()
		values := []any{s.Display, amount, share(rep, s)}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		_ = f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), moneyStyle)
		row++
	}

	total, _ := rep.Total.Float64()
	totalRow := []any{totalLabel, total}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &totalRow); err != nil {
		return fmt.Errorf("write total: %w", err)
	}
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), totalStyle)

	_ = f.SetColWidth(sheetName, "A", "A", 32)
	_ = f.SetColWidth(sheetName, "B", "B", 18)
	_ = f.SetColWidth(sheetName, "C", "C", 8)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
