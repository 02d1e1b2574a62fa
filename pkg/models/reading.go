package models

import "time"

// Reading is a single hour's electricity consumption as shown in the
// portal's hourly table
type Reading struct {
	Hour string  `json:"hour"`            // hour label as displayed, e.g. "00:00"
	KWh  float64 `json:"consumption_kWh"` // consumed units for that hour
}

// DaySummary holds everything scraped for one calendar day: the hourly
// readings in page order plus the total from the table footer
type DaySummary struct {
	Date     time.Time `json:"date"`
	Readings []Reading `json:"hourly_data"`
	TotalKWh float64   `json:"total_consumption"`
}

// MeterInfo represents one meter card from the portal dashboard
type MeterInfo struct {
	Type             string    `json:"type"` // "Electricity" or "Water"
	MeterNo          string    `json:"meter_no"`
	FullName         string    `json:"full_name"`
	Status           string    `json:"status"`
	Address          string    `json:"address"`
	Kampong          string    `json:"kampong"`
	Mukim            string    `json:"mukim"`
	District         string    `json:"district"`
	Postcode         string    `json:"postcode"`
	RemainingUnits   float64   `json:"remaining_units"`
	RemainingBalance float64   `json:"remaining_balance"`
	BalanceRaw       string    `json:"remaining_balance_raw"` // as displayed, e.g. "BND 67.89"
	LastUpdated      string    `json:"last_updated"`
	ScrapedAt        time.Time `json:"scraped_at"`
}
