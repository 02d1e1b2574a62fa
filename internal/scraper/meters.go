package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"usmscraper/pkg/models"
)

// Card layout field indexes as rendered by the dashboard card view.
var meterFields = []struct {
	name  string
	index int
}{
	{"Meter No", 2},
	{"Full Name", 4},
	{"Meter Status", 5},
	{"Address", 6},
	{"Kampong", 7},
	{"Mukim", 8},
	{"District", 9},
	{"Postcode", 10},
	{"Remaining Unit", 11},
	{"Remaining Balance", 12},
	{"Last Updated", 17},
}

// ScrapeMeters logs in and reads the meter cards from the dashboard:
// meter number, status, remaining units and balance for every meter on the
// account (electricity, and water when present).
func (s *USMSScraper) ScrapeMeters(ctx context.Context) ([]models.MeterInfo, error) {
	browserCtx, cancel := NewBrowser(ctx, s.visible, s.cfg.GetOverallTimeout())
	defer cancel()

	if err := s.login(browserCtx); err != nil {
		return nil, err
	}

	if err := chromedp.Run(browserCtx, chromedp.Sleep(3*time.Second)); err != nil {
		return nil, fmt.Errorf("waiting for dashboard: %w", err)
	}
	if err := s.enterDashboardFrame(browserCtx); err != nil {
		return nil, err
	}

	var meters []models.MeterInfo
	for _, card := range []struct {
		index int
		typ   string
	}{
		{0, "Electricity"},
		{1, "Water"},
	} {
		present, err := s.cardPresent(browserCtx, card.index)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}

		fmt.Printf("Scraping %s meter card...\n", card.typ)
		meter, err := s.scrapeMeterCard(browserCtx, card.index, card.typ)
		if err != nil {
			return nil, err
		}
		meters = append(meters, *meter)
	}

	if len(meters) == 0 {
		return nil, &AvailabilityError{Target: "meter cards", Timeout: s.cfg.GetElementTimeout(),
			Err: fmt.Errorf("no meter cards found on dashboard")}
	}

	return meters, nil
}

func (s *USMSScraper) cardPresent(ctx context.Context, index int) (bool, error) {
	sel := fmt.Sprintf(s.sel.MeterCard, index)
	var present bool
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%q) !== null`, sel), &present),
	); err != nil {
		return false, fmt.Errorf("checking for meter card %d: %w", index, err)
	}
	return present, nil
}

func (s *USMSScraper) scrapeMeterCard(ctx context.Context, index int, typ string) (*models.MeterInfo, error) {
	values := make(map[string]string, len(meterFields))
	for _, field := range meterFields {
		sel := fmt.Sprintf(s.sel.MeterField, index, field.index)
		if err := waitVisible(ctx, fmt.Sprintf("%s field %q", typ, field.name), sel, s.cfg.GetElementTimeout()); err != nil {
			return nil, err
		}

		var text string
		if err := chromedp.Run(ctx, chromedp.Text(sel, &text, chromedp.ByQuery)); err != nil {
			return nil, fmt.Errorf("reading %s field %q: %w", typ, field.name, err)
		}
		values[field.name] = strings.TrimSpace(text)
	}

	meter := &models.MeterInfo{
		Type:        typ,
		MeterNo:     values["Meter No"],
		FullName:    values["Full Name"],
		Status:      values["Meter Status"],
		Address:     values["Address"],
		Kampong:     values["Kampong"],
		Mukim:       values["Mukim"],
		District:    values["District"],
		Postcode:    values["Postcode"],
		BalanceRaw:  values["Remaining Balance"],
		LastUpdated: values["Last Updated"],
		ScrapedAt:   time.Now(),
	}

	units, err := ParseKWh(values["Remaining Unit"])
	if err != nil {
		return nil, &ExtractionError{Field: "remaining units", Raw: values["Remaining Unit"], Err: err}
	}
	meter.RemainingUnits = units

	_, balance, err := ParseBalance(values["Remaining Balance"])
	if err != nil {
		return nil, &ExtractionError{Field: "remaining balance", Raw: values["Remaining Balance"], Err: err}
	}
	meter.RemainingBalance = balance

	return meter, nil
}
