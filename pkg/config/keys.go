package config

// Configuration key constants
// These double as environment variable names; the config file uses the
// lower-case form without the DASH_ prefix (see fileKey).

const (
	// Backend
	KeyAPIURL             = "DASH_API_URL"
	KeyHTTPTimeoutSeconds = "DASH_HTTP_TIMEOUT_SECONDS"

	// Refresh behaviour
	KeyRefreshSeconds = "DASH_REFRESH_SECONDS"
	KeyAutoRefresh    = "DASH_AUTO_REFRESH"
	KeyRecentLimit    = "DASH_RECENT_LIMIT"
	KeyStatsHours     = "DASH_STATS_HOURS"

	// Presentation
	KeyScreen  = "DASH_SCREEN"
	KeyUI      = "DASH_UI"
	KeyLogFile = "DASH_LOG_FILE"

	// Optional integrations
	KeyMetricsAddr    = "DASH_METRICS_ADDR"
	KeyAlertRelayURL  = "DASH_ALERT_RELAY_URL"
	KeyAlertSecretKey = "DASH_ALERT_SECKEY"
	KeyDeviceLabel    = "DASH_DEVICE_LABEL"

	KeyConfigFile = "DASH_CONFIG"
)

// Default values for configuration
const (
	DefaultAPIURL             = "http://localhost:5000"
	DefaultHTTPTimeoutSeconds = 10

	DefaultRefreshSeconds = 10
	DefaultAutoRefresh    = true
	DefaultRecentLimit    = 50
	DefaultStatsHours     = 24

	DefaultScreen      = ScreenTelemetry
	DefaultUI          = UITerminal
	DefaultDeviceLabel = "rpi-main"
)

// Allowed values for DASH_SCREEN and DASH_UI
const (
	ScreenTelemetry = "telemetry"
	ScreenFeedback  = "feedback"

	UITerminal = "tui"
	UIQuiet    = "quiet"
)

// CLI flag name constants
const (
	FlagAPIURL             = "api-url"
	FlagHTTPTimeoutSeconds = "http-timeout-seconds"
	FlagRefreshSeconds     = "refresh-seconds"
	FlagAutoRefresh        = "auto-refresh"
	FlagRecentLimit        = "recent-limit"
	FlagStatsHours         = "stats-hours"
	FlagScreen             = "screen"
	FlagUI                 = "ui"
	FlagLogFile            = "log-file"
	FlagMetricsAddr        = "metrics-addr"
	FlagAlertRelayURL      = "alert-relay-url"
	FlagAlertSecretKey     = "alert-seckey"
	FlagDeviceLabel        = "device-label"
	FlagConfigFile         = "config"
	FlagHelp               = "help"
	FlagVersion            = "version"
)

// Help message constants
const (
	AppName        = "RPi Dashboard"
	AppDescription = "Terminal dashboard for Raspberry Pi health telemetry and user feedback"
	UsageFormat    = "dash [OPTIONS]"

	HelpAPIURL             = "Backend base URL"
	HelpHTTPTimeoutSeconds = "HTTP request timeout in seconds"
	HelpRefreshSeconds     = "Telemetry refresh interval in seconds"
	HelpAutoRefresh        = "Start with auto-refresh enabled"
	HelpRecentLimit        = "Number of recent readings to fetch"
	HelpStatsHours         = "Statistics window in hours"
	HelpScreen             = "Initial screen (telemetry|feedback)"
	HelpUI                 = "Renderer (tui|quiet)"
	HelpLogFile            = "Write logs to this file"
	HelpMetricsAddr        = "Serve refresh metrics on this address (e.g. :9102)"
	HelpAlertRelayURL      = "Nostr relay for health alerts"
	HelpAlertSecretKey     = "Nostr secret key used to sign alerts (hex or nsec)"
	HelpDeviceLabel        = "Device label used in alerts"
	HelpConfigFile         = "Path to a YAML config file"
	HelpShowHelp           = "Show this help message"
	HelpShowVersion        = "Print version information and exit"

	HelpOptions         = "Options:"
	HelpEnvironmentVars = "Environment Variables:"
	HelpUsage           = "Usage:"
	HelpNote            = "Note: CLI options override environment variables, which override the config file"
)
