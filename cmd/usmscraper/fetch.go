package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"usmscraper/internal/scraper"
)

var (
	fetchVisible bool
	fetchDate    string
	fetchNoStore bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch hourly consumption data from the portal",
	Long: `Logs into the USMS portal, scrapes the hourly consumption table and the
day total for the given date, prints them, and stores them in the local
SQLite database. A mid-run failure discards all partial results.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchVisible, "visible", false, "Show browser window (for debugging)")
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "Date to fetch in YYYY-MM-DD form (default: yesterday)")
	fetchCmd.Flags().BoolVar(&fetchNoStore, "no-store", false, "Print only, skip the database")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Fetch started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := requireAuth(cfg); err != nil {
		return err
	}

	date, err := resolveFetchDate(fetchDate)
	if err != nil {
		return err
	}

	s := scraper.NewUSMSScraper(cfg, fetchVisible)

	fmt.Printf("Fetching hourly consumption for %s...\n", date.Format("2006-01-02"))
	summary, err := s.Scrape(context.Background(), date)
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}

	fmt.Println("\nHourly Consumption Data:")
	for _, r := range summary.Readings {
		fmt.Printf("  Hour: %s, kWh: %.3f\n", r.Hour, r.KWh)
	}
	fmt.Printf("\nTotal Consumption: %.3f kWh\n", summary.TotalKWh)

	if fetchNoStore {
		return nil
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.InsertDay(summary); err != nil {
		return fmt.Errorf("storing readings: %w", err)
	}

	fmt.Printf("✓ Stored %d readings for %s\n", len(summary.Readings), date.Format("2006-01-02"))
	return nil
}

// resolveFetchDate parses the --date flag, defaulting to yesterday since the
// portal publishes complete hourly data a day behind.
func resolveFetchDate(flag string) (time.Time, error) {
	if flag == "" {
		return time.Now().AddDate(0, 0, -1), nil
	}

	date, err := time.Parse("2006-01-02", flag)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --date %q (expected YYYY-MM-DD): %w", flag, err)
	}
	return date, nil
}
