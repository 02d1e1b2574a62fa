package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"usmscraper/internal/database"
	"usmscraper/internal/exporter"
	"usmscraper/pkg/models"
)

var exportDate string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored consumption data to an xlsx file",
	Long: `Writes stored consumption data to a timestamped xlsx workbook with a
Summary sheet and an Hourly Consumption sheet. Exports the most recently
fetched day unless --date is given.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Date to export (YYYY-MM-DD, default: latest stored day)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	summary, err := lookupDay(db, exportDate)
	if err != nil {
		return err
	}

	path, err := exporter.Export(summary, nil, cfg.GetExportDir())
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	fmt.Printf("✓ Exported %s to %s\n", summary.Date.Format("2006-01-02"), path)
	return nil
}

// lookupDay resolves a --date flag against the database, defaulting to the
// latest stored day.
func lookupDay(db *database.DB, flag string) (*models.DaySummary, error) {
	if flag == "" {
		summary, err := db.LatestDay()
		if err != nil {
			return nil, fmt.Errorf("reading stored data: %w", err)
		}
		if summary == nil {
			return nil, fmt.Errorf("no data stored yet, run 'usmscraper fetch' first")
		}
		return summary, nil
	}

	date, err := time.Parse("2006-01-02", flag)
	if err != nil {
		return nil, fmt.Errorf("parsing --date %q (expected YYYY-MM-DD): %w", flag, err)
	}

	summary, err := db.GetDay(date)
	if err != nil {
		return nil, fmt.Errorf("reading stored data: %w", err)
	}
	if summary == nil {
		return nil, fmt.Errorf("no data stored for %s", flag)
	}
	return summary, nil
}
