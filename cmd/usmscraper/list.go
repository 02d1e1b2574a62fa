package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored consumption data",
	Long: `Displays stored consumption data from the database. Without flags it
shows day totals; with --date it shows the hourly readings for that day.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Show hourly readings for this date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listDate != "" {
		date, err := time.Parse("2006-01-02", listDate)
		if err != nil {
			return fmt.Errorf("parsing --date %q (expected YYYY-MM-DD): %w", listDate, err)
		}

		summary, err := db.GetDay(date)
		if err != nil {
			return fmt.Errorf("reading stored data: %w", err)
		}
		if summary == nil {
			fmt.Printf("No data stored for %s\n", listDate)
			return nil
		}

		fmt.Printf("\nHourly readings for %s:\n", listDate)
		fmt.Println("----------------------------------------")
		fmt.Printf("%-8s  %12s\n", "Hour", "kWh")
		fmt.Println("----------------------------------------")
		for _, r := range summary.Readings {
			fmt.Printf("%-8s  %12.3f\n", r.Hour, r.KWh)
		}
		fmt.Println("----------------------------------------")
		fmt.Printf("Total: %.3f kWh (%d readings)\n", summary.TotalKWh, len(summary.Readings))
		return nil
	}

	days, err := db.ListDays()
	if err != nil {
		return fmt.Errorf("listing stored data: %w", err)
	}

	if len(days) == 0 {
		fmt.Println("No data stored yet, run 'usmscraper fetch' first")
		return nil
	}

	fmt.Println("\nStored day totals:")
	fmt.Println("----------------------------------------")
	fmt.Printf("%-12s  %12s\n", "Date", "Total kWh")
	fmt.Println("----------------------------------------")

	var total float64
	for _, d := range days {
		fmt.Printf("%-12s  %12.3f\n", d.Date.Format("2006-01-02"), d.TotalKWh)
		total += d.TotalKWh
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("Total: %.3f kWh (%d days)\n", total, len(days))
	return nil
}
