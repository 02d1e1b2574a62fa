package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"usmscraper/internal/publisher"
	"usmscraper/internal/scraper"
	"usmscraper/pkg/models"
)

var (
	publishDate   string
	publishMeters bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish consumption data to Home Assistant via MQTT",
	Long: `Reads stored consumption data from the database and publishes it as a
single JSON payload on the <base_topic>/usms/data topic. Home Assistant
splits the payload into sensors using value_json templates. With --meters
the portal is also scraped for remaining units and balance.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishDate, "date", "", "Date to publish (YYYY-MM-DD, default: latest stored day)")
	publishCmd.Flags().BoolVar(&publishMeters, "meters", false, "Also scrape and publish meter card data")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	summary, err := lookupDay(db, publishDate)
	if err != nil {
		return err
	}

	var meters []models.MeterInfo
	if publishMeters {
		if err := requireAuth(cfg); err != nil {
			return err
		}
		s := scraper.NewUSMSScraper(cfg, false)
		meters, err = s.ScrapeMeters(context.Background())
		if err != nil {
			return fmt.Errorf("scraping meter cards: %w", err)
		}
	}

	pub, err := publisher.New(cfg.MQTT, cfg.GetBaseTopic())
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	if err := pub.PublishDay(summary, meters); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}

	fmt.Printf("✓ Published %d readings for %s to %s/usms/data\n",
		len(summary.Readings), summary.Date.Format("2006-01-02"), cfg.GetBaseTopic())
	return nil
}
