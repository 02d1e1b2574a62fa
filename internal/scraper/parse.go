package scraper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"usmscraper/internal/config"
	"usmscraper/pkg/models"
)

// ParseHourlyTable extracts the hourly readings from the main grid HTML and
// the day total from the footer HTML. Readings come back in page order, one
// per two-column data row. Any cell that does not parse aborts the whole
// extraction; no partial result is returned.
func ParseHourlyTable(tableHTML, footerHTML string, sel config.Selectors) ([]models.Reading, float64, error) {
	readings, err := parseDataRows(tableHTML, sel)
	if err != nil {
		return nil, 0, err
	}

	total, err := parseFooterTotal(footerHTML, sel)
	if err != nil {
		return nil, 0, err
	}

	return readings, total, nil
}

func parseDataRows(tableHTML string, sel config.Selectors) ([]models.Reading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return nil, &ExtractionError{Field: "hourly table", Raw: "", Err: err}
	}

	var readings []models.Reading
	var parseErr error

	doc.Find(sel.DataRow).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() != 2 {
			// The grid occasionally renders spacer rows, same as the
			// portal's own footer markup. Skip them.
			return true
		}

		hour := strings.TrimSpace(cells.Eq(0).Text())
		raw := strings.TrimSpace(cells.Eq(1).Text())

		kwh, err := ParseKWh(raw)
		if err != nil {
			parseErr = &ExtractionError{Field: fmt.Sprintf("reading for hour %q", hour), Raw: raw, Err: err}
			return false
		}

		readings = append(readings, models.Reading{Hour: hour, KWh: kwh})
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return readings, nil
}

func parseFooterTotal(footerHTML string, sel config.Selectors) (float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(footerHTML))
	if err != nil {
		return 0, &ExtractionError{Field: "footer table", Raw: "", Err: err}
	}

	row := doc.Find(sel.FooterRow)
	if row.Length() == 0 {
		return 0, &ExtractionError{Field: "total row", Raw: footerHTML, Err: fmt.Errorf("footer row %s not found", sel.FooterRow)}
	}

	cells := row.First().Find("td")
	if cells.Length() != 2 {
		return 0, &ExtractionError{Field: "total row", Raw: strings.TrimSpace(row.First().Text()),
			Err: fmt.Errorf("expected 2 footer cells, found %d", cells.Length())}
	}

	// The footer cell text looks like "Total units: 18.240"
	raw := strings.TrimSpace(cells.Eq(1).Text())
	text := raw
	if idx := strings.Index(text, sel.TotalPrefix); idx >= 0 {
		text = text[idx+len(sel.TotalPrefix):]
	}

	total, err := ParseKWh(text)
	if err != nil {
		return 0, &ExtractionError{Field: "total consumption", Raw: raw, Err: err}
	}

	return total, nil
}

// ParseKWh parses a consumption cell into a number. Thousands separators and
// a trailing kWh unit are tolerated; anything else is an error, never a zero
// default. Consumption is a measured quantity, so non-finite and negative
// values are rejected too.
func ParseKWh(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(strings.ToLower(s), "kwh")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value")
	}

	return v, nil
}

// ParseBalance parses a balance string like "BND 67.89" into its currency
// code and amount. A bare number is accepted with an empty currency.
func ParseBalance(s string) (string, float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", 0, fmt.Errorf("empty value")
	}

	fields := strings.Fields(s)
	if len(fields) == 1 {
		v, err := ParseKWh(fields[0])
		return "", v, err
	}

	amount, err := ParseKWh(fields[len(fields)-1])
	if err != nil {
		return "", 0, err
	}
	return strings.Join(fields[:len(fields)-1], " "), amount, nil
}
