package exporter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"usmscraper/pkg/models"
)

const (
	summarySheet = "Summary"
	hourlySheet  = "Hourly Consumption"
)

// Export writes a scraped day (and optional meter cards) to a timestamped
// xlsx file in outputDir and returns the file path.
func Export(summary *models.DaySummary, meters []models.MeterInfo, outputDir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(hourlySheet); err != nil {
		return "", fmt.Errorf("creating hourly sheet: %w", err)
	}

	if err := writeSummary(f, summary, meters); err != nil {
		return "", err
	}
	if err := writeHourly(f, summary); err != nil {
		return "", err
	}

	name := fmt.Sprintf("usms_data_%s.xlsx", time.Now().Format("20060102_150405"))
	path := filepath.Join(outputDir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}

	return path, nil
}

func writeSummary(f *excelize.File, summary *models.DaySummary, meters []models.MeterInfo) error {
	rows := [][]interface{}{
		{"USMS Consumption Summary"},
		{},
		{"Date", summary.Date.Format("2006-01-02")},
		{"Total Consumption (kWh)", summary.TotalKWh},
		{"Hourly Readings", len(summary.Readings)},
	}

	for i := range meters {
		m := &meters[i]
		rows = append(rows,
			[]interface{}{},
			[]interface{}{fmt.Sprintf("%s Meter", m.Type)},
			[]interface{}{"Meter No", m.MeterNo},
			[]interface{}{"Status", m.Status},
			[]interface{}{"Remaining Units (kWh)", m.RemainingUnits},
			[]interface{}{"Remaining Balance", m.BalanceRaw},
			[]interface{}{"Last Updated", m.LastUpdated},
		)
		if !m.ScrapedAt.IsZero() {
			rows = append(rows, []interface{}{"Scraped At", m.ScrapedAt.Format(time.RFC3339)})
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("computing cell name: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}

	return nil
}

func writeHourly(f *excelize.File, summary *models.DaySummary) error {
	header := []interface{}{"Hour", "Consumption (kWh)"}
	if err := f.SetSheetRow(hourlySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing hourly header: %w", err)
	}

	for i, r := range summary.Readings {
		row := []interface{}{r.Hour, r.KWh}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell name: %w", err)
		}
		if err := f.SetSheetRow(hourlySheet, cell, &row); err != nil {
			return fmt.Errorf("writing hourly row: %w", err)
		}
	}

	totalRow := []interface{}{"Total", summary.TotalKWh}
	cell, err := excelize.CoordinatesToCellName(1, len(summary.Readings)+2)
	if err != nil {
		return fmt.Errorf("computing cell name: %w", err)
	}
	if err := f.SetSheetRow(hourlySheet, cell, &totalRow); err != nil {
		return fmt.Errorf("writing total row: %w", err)
	}

	return nil
}
