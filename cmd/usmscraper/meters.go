package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"usmscraper/internal/scraper"
)

var metersVisible bool

var metersCmd = &cobra.Command{
	Use:   "meters",
	Short: "Show meter cards from the portal dashboard",
	Long: `Logs into the USMS portal and reads the meter cards shown on the
dashboard: meter number, status, remaining units and remaining balance for
every meter on the account.`,
	RunE: runMeters,
}

func init() {
	metersCmd.Flags().BoolVar(&metersVisible, "visible", false, "Show browser window (for debugging)")
	rootCmd.AddCommand(metersCmd)
}

func runMeters(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Meters started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := requireAuth(cfg); err != nil {
		return err
	}

	s := scraper.NewUSMSScraper(cfg, metersVisible)
	meters, err := s.ScrapeMeters(context.Background())
	if err != nil {
		return fmt.Errorf("scraping meter cards: %w", err)
	}

	for i := range meters {
		m := &meters[i]
		fmt.Printf("\n%s Meter:\n", m.Type)
		fmt.Println("----------------------------------------")
		fmt.Printf("  Meter No:          %s\n", m.MeterNo)
		fmt.Printf("  Name:              %s\n", m.FullName)
		fmt.Printf("  Status:            %s\n", m.Status)
		fmt.Printf("  Address:           %s\n", m.Address)
		fmt.Printf("  Remaining Units:   %.3f\n", m.RemainingUnits)
		fmt.Printf("  Remaining Balance: %s\n", m.BalanceRaw)
		fmt.Printf("  Last Updated:      %s\n", m.LastUpdated)
		fmt.Printf("  Scraped At:        %s\n", m.ScrapedAt.Format(time.RFC3339))
	}

	return nil
}
