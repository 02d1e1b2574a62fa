package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"usmscraper/pkg/models"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS hourly_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		hour TEXT NOT NULL,
		kwh REAL NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(date, hour)
	);
	CREATE TABLE IF NOT EXISTS day_totals (
		date TEXT PRIMARY KEY,
		total_kwh REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_readings_date ON hourly_readings(date);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// InsertDay stores a fully scraped day in one transaction. Re-running a
// fetch for the same date overwrites nothing: duplicate hours are ignored
// and the total is updated in place.
func (db *DB) InsertDay(summary *models.DaySummary) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	dateStr := summary.Date.Format("2006-01-02")
	createdAt := time.Now().UTC().Format(time.RFC3339)

	for _, r := range summary.Readings {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO hourly_readings (date, hour, kwh, created_at) VALUES (?, ?, ?, ?)`,
			dateStr, r.Hour, r.KWh, createdAt,
		); err != nil {
			return fmt.Errorf("inserting reading: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO day_totals (date, total_kwh, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET total_kwh = excluded.total_kwh`,
		dateStr, summary.TotalKWh, createdAt,
	); err != nil {
		return fmt.Errorf("inserting day total: %w", err)
	}

	return tx.Commit()
}

// GetDay retrieves the stored readings and total for a date, or nil if the
// date has never been fetched.
func (db *DB) GetDay(date time.Time) (*models.DaySummary, error) {
	dateStr := date.Format("2006-01-02")

	var total float64
	err := db.conn.QueryRow(`SELECT total_kwh FROM day_totals WHERE date = ?`, dateStr).Scan(&total)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying day total: %w", err)
	}

	rows, err := db.conn.Query(
		`SELECT hour, kwh FROM hourly_readings WHERE date = ? ORDER BY id`, dateStr)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	summary := &models.DaySummary{Date: date, TotalKWh: total}
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.Hour, &r.KWh); err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}
		summary.Readings = append(summary.Readings, r)
	}

	return summary, rows.Err()
}

// ListDays returns every stored day with its total, newest first.
func (db *DB) ListDays() ([]models.DaySummary, error) {
	rows, err := db.conn.Query(`SELECT date, total_kwh FROM day_totals ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying day totals: %w", err)
	}
	defer rows.Close()

	var results []models.DaySummary
	for rows.Next() {
		var dateStr string
		var total float64
		if err := rows.Scan(&dateStr, &total); err != nil {
			return nil, fmt.Errorf("scanning day total: %w", err)
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}

		results = append(results, models.DaySummary{Date: date, TotalKWh: total})
	}

	return results, rows.Err()
}

// LatestDay returns the most recently fetched day with its readings, or nil
// if the database is empty.
func (db *DB) LatestDay() (*models.DaySummary, error) {
	var dateStr string
	err := db.conn.QueryRow(`SELECT date FROM day_totals ORDER BY date DESC LIMIT 1`).Scan(&dateStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest day: %w", err)
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}

	return db.GetDay(date)
}
