package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"usmscraper/internal/config"
	"usmscraper/pkg/models"
)

// USMSScraper drives a browser session against the USMS smart meter portal.
// One scrape is a single linear procedure: login, navigate to the hourly
// consumption view, read the table, tear the browser down. Any failure along
// the way aborts the run and discards partial results.
type USMSScraper struct {
	cfg     *config.Config
	sel     config.Selectors
	visible bool
}

// NewUSMSScraper creates a new USMS portal scraper
func NewUSMSScraper(cfg *config.Config, visible bool) *USMSScraper {
	return &USMSScraper{
		cfg:     cfg,
		sel:     cfg.PageSelectors(),
		visible: visible,
	}
}

// Scrape logs in and fetches the hourly consumption readings plus the day
// total for the given date.
func (s *USMSScraper) Scrape(ctx context.Context, date time.Time) (*models.DaySummary, error) {
	browserCtx, cancel := NewBrowser(ctx, s.visible, s.cfg.GetOverallTimeout())
	defer cancel()

	if err := s.login(browserCtx); err != nil {
		return nil, err
	}

	if err := s.navigateToHourly(browserCtx, date); err != nil {
		return nil, err
	}

	tableHTML, footerHTML, err := s.extractTableHTML(browserCtx)
	if err != nil {
		return nil, err
	}

	readings, total, err := ParseHourlyTable(tableHTML, footerHTML, s.sel)
	if err != nil {
		return nil, err
	}

	return &models.DaySummary{
		Date:     date,
		Readings: readings,
		TotalKWh: total,
	}, nil
}

// DumpTableHTML logs in, navigates to the hourly view and returns the raw
// grid and footer markup. Used by the debug command for selector work.
func (s *USMSScraper) DumpTableHTML(ctx context.Context, date time.Time) (string, string, error) {
	browserCtx, cancel := NewBrowser(ctx, s.visible, s.cfg.GetOverallTimeout())
	defer cancel()

	if err := s.login(browserCtx); err != nil {
		return "", "", err
	}
	if err := s.navigateToHourly(browserCtx, date); err != nil {
		return "", "", err
	}
	return s.extractTableHTML(browserCtx)
}

// login fills the credentials into the portal login form, submits it, and
// waits (bounded) for the post-login page or an explicit failure indicator.
func (s *USMSScraper) login(ctx context.Context) error {
	loginURL := s.cfg.GetLoginURL()

	// Saved session cookies go in before the first navigation so the portal
	// sees them on the initial request, same as a returning browser would.
	if err := SetCookies(ctx, s.cfg.Cookies); err != nil {
		return fmt.Errorf("setting saved cookies: %w", err)
	}

	fmt.Printf("Navigating to login page: %s\n", loginURL)
	if err := chromedp.Run(ctx,
		chromedp.Navigate(loginURL),
		chromedp.Sleep(1*time.Second),
	); err != nil {
		return fmt.Errorf("navigating to login page: %w", err)
	}

	// The portal bounces authenticated visitors off the login page, so a
	// still-valid saved session skips the credential form entirely.
	var currentURL string
	if err := chromedp.Run(ctx, chromedp.Location(&currentURL)); err != nil {
		return fmt.Errorf("reading current URL: %w", err)
	}
	if canReuseSession(s.cfg.Cookies, loginURL, currentURL) {
		fmt.Printf("  Reusing saved session, now on %s\n", currentURL)
		return nil
	}

	if s.cfg.Portal.Username == "" || s.cfg.Portal.Password == "" {
		return &AuthenticationError{Reason: "saved session expired and no credentials configured"}
	}

	if err := waitVisible(ctx, "login form", s.sel.UsernameInput, s.cfg.GetLoginTimeout()); err != nil {
		return err
	}

	fmt.Println("  Filling login form...")
	if err := chromedp.Run(ctx,
		chromedp.Click(s.sel.UsernameInput, chromedp.ByQuery),
		chromedp.SendKeys(s.sel.UsernameInput, s.cfg.Portal.Username, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("entering username: %w", err)
	}

	// The username field spawns a suggestion popup that steals focus from the
	// password field. Clicking a neutral table cell dismisses it. The cell is
	// not always present, so a failure here is not fatal.
	dismissCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	_ = chromedp.Run(dismissCtx, chromedp.Click(s.sel.LoginFocusCell, chromedp.ByQuery))
	cancel()

	if err := chromedp.Run(ctx,
		chromedp.Click(s.sel.PasswordInput, chromedp.ByQuery),
		chromedp.SendKeys(s.sel.PasswordInput, s.cfg.Portal.Password, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("entering password: %w", err)
	}

	fmt.Println("  Submitting login form...")
	if err := chromedp.Run(ctx,
		chromedp.ScrollIntoView(s.sel.LoginButton, chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Click(s.sel.LoginButton, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("clicking login button: %w", err)
	}

	// Bounded wait for the URL to leave the login page.
	currentURL = loginURL
	deadline := time.Now().Add(s.cfg.GetLoginTimeout())
	for time.Now().Before(deadline) {
		if err := chromedp.Run(ctx, chromedp.Location(&currentURL)); err != nil {
			return fmt.Errorf("reading current URL: %w", err)
		}
		if !onLoginPage(loginURL, currentURL) {
			break
		}
		if err := chromedp.Run(ctx, chromedp.Sleep(500*time.Millisecond)); err != nil {
			return fmt.Errorf("waiting for login to complete: %w", err)
		}
	}

	var pageSource string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &pageSource, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("reading page source: %w", err)
	}

	if err := classifyLogin(loginURL, currentURL, pageSource, s.sel); err != nil {
		return err
	}

	fmt.Printf("  Login successful, now on %s\n", currentURL)
	return nil
}

// onLoginPage reports whether currentURL still points at the login page.
// The portal redirects to MainPage on success, so comparing the final path
// segment is enough.
func onLoginPage(loginURL, currentURL string) bool {
	marker := loginURL
	if u, err := url.Parse(loginURL); err == nil && u.Path != "" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		marker = parts[len(parts)-1]
	}
	return strings.Contains(strings.ToLower(currentURL), strings.ToLower(marker))
}

// canReuseSession reports whether saved cookies established a valid session:
// with cookies set, landing anywhere but the login page means the portal
// accepted them.
func canReuseSession(cookies []config.Cookie, loginURL, currentURL string) bool {
	return len(cookies) > 0 && !onLoginPage(loginURL, currentURL)
}

// classifyLogin decides whether the post-submit page means success or an
// authentication failure.
func classifyLogin(loginURL, currentURL, pageSource string, sel config.Selectors) error {
	if !onLoginPage(loginURL, currentURL) {
		return nil
	}
	if strings.Contains(pageSource, sel.LoginFailureMarker) {
		return &AuthenticationError{Reason: "portal rejected credentials"}
	}
	return &AuthenticationError{Reason: "still on login page after submit"}
}

// navigateToHourly walks from the post-login dashboard to the hourly
// consumption tab for the given date.
func (s *USMSScraper) navigateToHourly(ctx context.Context, date time.Time) error {
	// Let the MainPage settle before touching the iframe.
	if err := chromedp.Run(ctx, chromedp.Sleep(3*time.Second)); err != nil {
		return fmt.Errorf("waiting for dashboard: %w", err)
	}

	if err := s.enterDashboardFrame(ctx); err != nil {
		return err
	}

	elementTimeout := s.cfg.GetElementTimeout()

	fmt.Println("  Opening consumption view...")
	if err := waitVisible(ctx, "consumption link", s.sel.ConsumptionLink, elementTimeout); err != nil {
		return err
	}
	if err := chromedp.Run(ctx,
		chromedp.Click(s.sel.ConsumptionLink, chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		return fmt.Errorf("clicking consumption link: %w", err)
	}

	if err := waitVisible(ctx, "consumption type dropdown", s.sel.TypeDropdown, elementTimeout); err != nil {
		return err
	}
	if err := chromedp.Run(ctx,
		chromedp.Click(s.sel.TypeDropdown, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second),
	); err != nil {
		return fmt.Errorf("opening type dropdown: %w", err)
	}
	if err := waitVisible(ctx, "hourly type option", s.sel.TypeHourlyOption, elementTimeout); err != nil {
		return err
	}
	if err := chromedp.Run(ctx,
		chromedp.Click(s.sel.TypeHourlyOption, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second),
	); err != nil {
		return fmt.Errorf("selecting hourly type: %w", err)
	}

	// The portal expects d-M-yy, e.g. "29-5-25".
	dateStr := date.Format("2-1-06")
	fmt.Printf("  Setting date range to %s...\n", dateStr)
	for _, input := range []string{s.sel.DateFromInput, s.sel.DateToInput} {
		if err := waitVisible(ctx, "date input", input, elementTimeout); err != nil {
			return err
		}
		if err := chromedp.Run(ctx,
			chromedp.Click(input, chromedp.ByQuery),
			chromedp.SetValue(input, dateStr, chromedp.ByQuery),
			chromedp.Sleep(1*time.Second),
		); err != nil {
			return fmt.Errorf("setting date input: %w", err)
		}
	}

	fmt.Println("  Refreshing grid...")
	if err := waitVisible(ctx, "refresh button", s.sel.RefreshButton, elementTimeout); err != nil {
		return err
	}
	if err := chromedp.Run(ctx,
		chromedp.Click(s.sel.RefreshButton, chromedp.ByQuery),
		chromedp.Sleep(5*time.Second),
	); err != nil {
		return fmt.Errorf("clicking refresh: %w", err)
	}

	if err := waitVisible(ctx, "hourly consumption tab", s.sel.HourlyTab, elementTimeout); err != nil {
		return err
	}
	if err := chromedp.Run(ctx,
		chromedp.Click(s.sel.HourlyTab, chromedp.ByQuery),
		chromedp.Sleep(5*time.Second),
	); err != nil {
		return fmt.Errorf("opening hourly tab: %w", err)
	}

	return nil
}

// enterDashboardFrame navigates directly into the dashboard iframe. The
// portal renders all post-login content inside a single frame, and loading
// its src as a top-level page is far more reliable than driving the frame
// through the parent document.
func (s *USMSScraper) enterDashboardFrame(ctx context.Context) error {
	var src string
	var ok bool
	if err := chromedp.Run(ctx,
		chromedp.AttributeValue(s.sel.DashboardFrame, "src", &src, &ok, chromedp.ByQuery),
	); err != nil || !ok || src == "" {
		return &AvailabilityError{Target: "dashboard frame", Timeout: s.cfg.GetElementTimeout(),
			Err: fmt.Errorf("frame %s has no src (err: %v)", s.sel.DashboardFrame, err)}
	}

	var current string
	if err := chromedp.Run(ctx, chromedp.Location(&current)); err != nil {
		return fmt.Errorf("reading current URL: %w", err)
	}

	base, err := url.Parse(current)
	if err != nil {
		return fmt.Errorf("parsing current URL: %w", err)
	}
	ref, err := url.Parse(src)
	if err != nil {
		return fmt.Errorf("parsing frame src: %w", err)
	}
	target := base.ResolveReference(ref).String()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(target),
		chromedp.Sleep(1*time.Second),
	); err != nil {
		return fmt.Errorf("navigating into dashboard frame: %w", err)
	}
	return nil
}

// extractTableHTML waits for the grid and its footer and captures their
// markup for parsing.
func (s *USMSScraper) extractTableHTML(ctx context.Context) (string, string, error) {
	elementTimeout := s.cfg.GetElementTimeout()

	if err := waitVisible(ctx, "hourly data table", s.sel.DataTable, elementTimeout); err != nil {
		return "", "", err
	}
	if err := waitVisible(ctx, "total consumption footer", s.sel.FooterTable, elementTimeout); err != nil {
		return "", "", err
	}

	var tableHTML, footerHTML string
	if err := chromedp.Run(ctx,
		chromedp.OuterHTML(s.sel.DataTable, &tableHTML, chromedp.ByQuery),
		chromedp.OuterHTML(s.sel.FooterTable, &footerHTML, chromedp.ByQuery),
	); err != nil {
		return "", "", fmt.Errorf("capturing table markup: %w", err)
	}

	return tableHTML, footerHTML, nil
}
