package config

import (
	"fmt"
	"time"

	"rpi-dashboard/pkg/version"
)

type Config struct {
	APIURL      string
	MetricsAddr string
	ConfigFile  string
	Refresh     RefreshConfig
	HTTP        HTTPConfig
	UI          UIConfig
	Alert       AlertConfig
}

type RefreshConfig struct {
	IntervalSeconds int
	AutoRefresh     bool
	RecentLimit     int
	StatsHours      int
}

type HTTPConfig struct {
	TimeoutSeconds int
}

type UIConfig struct {
	Screen  string
	Mode    string
	LogFile string
}

type AlertConfig struct {
	RelayURL    string
	SecretKey   string
	DeviceLabel string
}

// Interval returns the telemetry refresh period.
func (c RefreshConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Enabled reports whether health alerts should be published.
func (c AlertConfig) Enabled() bool {
	return c.RelayURL != ""
}

// Load loads configuration from CLI flags, environment variables and an
// optional YAML file, in that order of precedence.
func Load() (*Config, error) {
	flagSource, showHelp, showVersion := parseCLIFlags()

	if showHelp {
		printUsage()
		return nil, nil // Return nil to indicate help was shown
	}
	if showVersion {
		fmt.Println(version.Info())
		return nil, nil
	}

	envSource := &EnvSource{}

	// The config file location itself can only come from flags or env
	path := NewConfigResolver(flagSource, envSource).ResolveString(KeyConfigFile, "")
	fileSource, err := NewFileSource(path)
	if err != nil {
		return nil, err
	}

	cfg := FromResolver(NewConfigResolver(flagSource, envSource, fileSource))
	cfg.ConfigFile = fileSource.Used()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromResolver builds a Config from the given resolver without validating it.
func FromResolver(resolver *ConfigResolver) *Config {
	return &Config{
		APIURL:      resolver.ResolveString(KeyAPIURL, DefaultAPIURL),
		MetricsAddr: resolver.ResolveString(KeyMetricsAddr, ""),
		Refresh: RefreshConfig{
			IntervalSeconds: resolver.ResolveInt(KeyRefreshSeconds, DefaultRefreshSeconds),
			AutoRefresh:     resolver.ResolveBool(KeyAutoRefresh, DefaultAutoRefresh),
			RecentLimit:     resolver.ResolveInt(KeyRecentLimit, DefaultRecentLimit),
			StatsHours:      resolver.ResolveInt(KeyStatsHours, DefaultStatsHours),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: resolver.ResolveInt(KeyHTTPTimeoutSeconds, DefaultHTTPTimeoutSeconds),
		},
		UI: UIConfig{
			Screen:  resolver.ResolveString(KeyScreen, DefaultScreen),
			Mode:    resolver.ResolveString(KeyUI, DefaultUI),
			LogFile: resolver.ResolveString(KeyLogFile, ""),
		},
		Alert: AlertConfig{
			RelayURL:    resolver.ResolveString(KeyAlertRelayURL, ""),
			SecretKey:   resolver.ResolveString(KeyAlertSecretKey, ""),
			DeviceLabel: resolver.ResolveString(KeyDeviceLabel, DefaultDeviceLabel),
		},
	}
}
