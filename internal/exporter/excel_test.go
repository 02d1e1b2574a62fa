package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"usmscraper/pkg/models"
)

func TestExport(t *testing.T) {
	summary := &models.DaySummary{
		Date: time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC),
		Readings: []models.Reading{
			{Hour: "00:00", KWh: 1.2},
			{Hour: "01:00", KWh: 0.8},
		},
		TotalKWh: 2.0,
	}
	meters := []models.MeterInfo{
		{Type: "Electricity", MeterNo: "123456", Status: "Active",
			RemainingUnits: 123.45, BalanceRaw: "BND 67.89",
			ScrapedAt: time.Date(2025, 5, 30, 8, 15, 0, 0, time.UTC)},
	}

	path, err := Export(summary, meters, t.TempDir())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{summarySheet, hourlySheet}, f.GetSheetList())

	date, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	require.Equal(t, "2025-05-29", date)

	meterNo, err := f.GetCellValue(summarySheet, "B8")
	require.NoError(t, err)
	require.Equal(t, "123456", meterNo)

	scrapedLabel, err := f.GetCellValue(summarySheet, "A13")
	require.NoError(t, err)
	require.Equal(t, "Scraped At", scrapedLabel)

	scrapedAt, err := f.GetCellValue(summarySheet, "B13")
	require.NoError(t, err)
	require.Equal(t, "2025-05-30T08:15:00Z", scrapedAt)

	hour, err := f.GetCellValue(hourlySheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "00:00", hour)

	kwh, err := f.GetCellValue(hourlySheet, "B3")
	require.NoError(t, err)
	require.Equal(t, "0.8", kwh)

	totalLabel, err := f.GetCellValue(hourlySheet, "A4")
	require.NoError(t, err)
	require.Equal(t, "Total", totalLabel)
}

func TestExportEmptyDay(t *testing.T) {
	summary := &models.DaySummary{
		Date:     time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC),
		TotalKWh: 0,
	}

	path, err := Export(summary, nil, t.TempDir())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	totalLabel, err := f.GetCellValue(hourlySheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "Total", totalLabel)
}
