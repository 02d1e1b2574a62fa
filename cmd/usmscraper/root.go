package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"usmscraper/internal/config"
	"usmscraper/internal/database"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "usmscraper",
	Short: "Scrape consumption data from the USMS smart meter portal",
	Long: `usmscraper is a CLI tool to collect prepaid smart meter data from the
USMS portal. It uses browser automation to log in, extract hourly kWh
consumption readings, and can store them in a local SQLite database,
export them to xlsx, or publish them to Home Assistant over MQTT.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// requireAuth checks that some way of authenticating is configured: either
// session cookies saved by 'usmscraper login' or portal credentials.
func requireAuth(cfg *config.Config) error {
	if len(cfg.Cookies) > 0 {
		return nil
	}
	if cfg.Portal.Username == "" || cfg.Portal.Password == "" {
		return fmt.Errorf("no authentication configured: run 'usmscraper login', or set portal.username/portal.password in %s or the USMS_USERNAME/USMS_PASSWORD environment variables", getConfigPath())
	}
	return nil
}
