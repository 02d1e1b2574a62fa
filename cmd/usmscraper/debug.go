package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"usmscraper/internal/scraper"
)

var (
	debugVisible bool
	debugDate    string
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dump the live consumption table markup",
	Long: `Logs in, navigates to the hourly consumption view and prints the raw
grid and footer HTML. Useful when the portal layout changes and the
selector overrides in the config file need updating.`,
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().BoolVar(&debugVisible, "visible", false, "Show browser window")
	debugCmd.Flags().StringVar(&debugDate, "date", "", "Date to load (YYYY-MM-DD, default: yesterday)")
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := requireAuth(cfg); err != nil {
		return err
	}

	date, err := resolveFetchDate(debugDate)
	if err != nil {
		return err
	}

	s := scraper.NewUSMSScraper(cfg, debugVisible)
	tableHTML, footerHTML, err := s.DumpTableHTML(context.Background(), date)
	if err != nil {
		return fmt.Errorf("capturing table markup: %w", err)
	}

	fmt.Println("--- data table ---")
	fmt.Println(tableHTML)
	fmt.Println("--- footer table ---")
	fmt.Println(footerHTML)
	return nil
}
