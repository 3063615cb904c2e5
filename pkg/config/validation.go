package config

import (
	"fmt"
	"net/url"
)

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", KeyAPIURL, c.APIURL)
	}
	if c.Refresh.IntervalSeconds < 1 {
		return fmt.Errorf("%s must be at least 1", KeyRefreshSeconds)
	}
	if c.Refresh.RecentLimit < 1 || c.Refresh.RecentLimit > 500 {
		return fmt.Errorf("%s must be between 1 and 500", KeyRecentLimit)
	}
	if c.Refresh.StatsHours < 1 {
		return fmt.Errorf("%s must be at least 1", KeyStatsHours)
	}
	if c.HTTP.TimeoutSeconds < 1 {
		return fmt.Errorf("%s must be at least 1", KeyHTTPTimeoutSeconds)
	}
	switch c.UI.Screen {
	case ScreenTelemetry, ScreenFeedback:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", KeyScreen, ScreenTelemetry, ScreenFeedback, c.UI.Screen)
	}
	switch c.UI.Mode {
	case UITerminal, UIQuiet:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", KeyUI, UITerminal, UIQuiet, c.UI.Mode)
	}
	if c.Alert.Enabled() && c.Alert.SecretKey == "" {
		return fmt.Errorf("%s is required when %s is set", KeyAlertSecretKey, KeyAlertRelayURL)
	}
	return nil
}
