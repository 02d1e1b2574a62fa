package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"usmscraper/internal/config"
)

const testLoginURL = "https://www.usms.com.bn/SmartMeter/resLogin"

func TestClassifyLoginSuccess(t *testing.T) {
	sel := config.DefaultSelectors()

	err := classifyLogin(testLoginURL,
		"https://www.usms.com.bn/SmartMeter/MainPage", "<html></html>", sel)
	require.NoError(t, err)
}

func TestClassifyLoginRejectedCredentials(t *testing.T) {
	sel := config.DefaultSelectors()

	// The portal re-renders the login page with an error banner; no
	// navigation away from the data page ever happens.
	source := `<html><body>Invalid IC Number or Password</body></html>`
	err := classifyLogin(testLoginURL, testLoginURL, source, sel)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	require.Contains(t, authErr.Reason, "rejected")
}

func TestClassifyLoginStuckOnLoginPage(t *testing.T) {
	sel := config.DefaultSelectors()

	source := `<html><body><input id="ASPxRoundPanel1_txtUsername_I"></body></html>`
	err := classifyLogin(testLoginURL, testLoginURL, source, sel)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
}

func TestCanReuseSession(t *testing.T) {
	cookies := []config.Cookie{{Name: "ASP.NET_SessionId", Value: "abc", Domain: "www.usms.com.bn", Path: "/"}}
	mainPage := "https://www.usms.com.bn/SmartMeter/MainPage"

	testCases := []struct {
		name     string
		cookies  []config.Cookie
		current  string
		expected bool
	}{
		{name: "valid session lands off the login page", cookies: cookies, current: mainPage, expected: true},
		{name: "expired session bounces back to login", cookies: cookies, current: testLoginURL, expected: false},
		{name: "no saved cookies", cookies: nil, current: mainPage, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, canReuseSession(tc.cookies, testLoginURL, tc.current))
		})
	}
}

func TestOnLoginPage(t *testing.T) {
	testCases := []struct {
		current  string
		expected bool
	}{
		{current: testLoginURL, expected: true},
		{current: "https://www.usms.com.bn/SmartMeter/resLogin?err=1", expected: true},
		{current: "https://www.usms.com.bn/smartmeter/reslogin", expected: true},
		{current: "https://www.usms.com.bn/SmartMeter/MainPage", expected: false},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, onLoginPage(testLoginURL, tc.current), "url %s", tc.current)
	}
}

func TestWaitVisibleTimeoutIsAvailabilityError(t *testing.T) {
	// An already-expired context makes chromedp fail immediately without a
	// browser; the wrapper must surface that as an AvailabilityError.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitVisible(ctx, "hourly data table", "#ASPxPageControl1_grid_DXMainTable", 10*time.Millisecond)

	var availErr *AvailabilityError
	require.ErrorAs(t, err, &availErr)
	require.Equal(t, "hourly data table", availErr.Target)
}
