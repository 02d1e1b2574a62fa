package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"usmscraper/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func sampleDay(date time.Time) *models.DaySummary {
	return &models.DaySummary{
		Date: date,
		Readings: []models.Reading{
			{Hour: "00:00", KWh: 1.2},
			{Hour: "01:00", KWh: 0.8},
		},
		TotalKWh: 2.0,
	}
}

func TestInsertAndGetDay(t *testing.T) {
	db := openTestDB(t)
	date := time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.InsertDay(sampleDay(date)))

	got, err := db.GetDay(date)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 2.0, got.TotalKWh)
	require.Equal(t, []models.Reading{
		{Hour: "00:00", KWh: 1.2},
		{Hour: "01:00", KWh: 0.8},
	}, got.Readings)
}

func TestGetDayMissing(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetDay(time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestInsertDayIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	date := time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.InsertDay(sampleDay(date)))
	require.NoError(t, db.InsertDay(sampleDay(date)))

	got, err := db.GetDay(date)
	require.NoError(t, err)
	require.Len(t, got.Readings, 2)
}

func TestInsertDayUpdatesTotal(t *testing.T) {
	db := openTestDB(t)
	date := time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.InsertDay(sampleDay(date)))

	updated := sampleDay(date)
	updated.TotalKWh = 3.5
	require.NoError(t, db.InsertDay(updated))

	got, err := db.GetDay(date)
	require.NoError(t, err)
	require.Equal(t, 3.5, got.TotalKWh)
}

func TestListDaysNewestFirst(t *testing.T) {
	db := openTestDB(t)

	for _, day := range []int{27, 29, 28} {
		require.NoError(t, db.InsertDay(sampleDay(time.Date(2025, 5, day, 0, 0, 0, 0, time.UTC))))
	}

	days, err := db.ListDays()
	require.NoError(t, err)
	require.Len(t, days, 3)
	require.Equal(t, "2025-05-29", days[0].Date.Format("2006-01-02"))
	require.Equal(t, "2025-05-28", days[1].Date.Format("2006-01-02"))
	require.Equal(t, "2025-05-27", days[2].Date.Format("2006-01-02"))
}

func TestLatestDay(t *testing.T) {
	db := openTestDB(t)

	latest, err := db.LatestDay()
	require.NoError(t, err)
	require.Nil(t, latest)

	require.NoError(t, db.InsertDay(sampleDay(time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, db.InsertDay(sampleDay(time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC))))

	latest, err = db.LatestDay()
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, "2025-05-29", latest.Date.Format("2006-01-02"))
	require.Len(t, latest.Readings, 2)
}
