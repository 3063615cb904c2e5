package config

import (
	"flag"
	"fmt"
)

// parseCLIFlags parses command-line flags and returns a FlagSource plus the help
// and version flags. Only flags the user actually passed end up in the
// FlagSource, so a flag left at its zero value never shadows the environment or
// the config file.
func parseCLIFlags() (*FlagSource, bool, bool) {
	flagSource := NewFlagSource()

	apiURL := flag.String(FlagAPIURL, "", HelpAPIURL)
	httpTimeoutSeconds := flag.Int(FlagHTTPTimeoutSeconds, 0, HelpHTTPTimeoutSeconds)
	refreshSeconds := flag.Int(FlagRefreshSeconds, 0, HelpRefreshSeconds)
	autoRefresh := flag.Bool(FlagAutoRefresh, DefaultAutoRefresh, HelpAutoRefresh)
	recentLimit := flag.Int(FlagRecentLimit, 0, HelpRecentLimit)
	statsHours := flag.Int(FlagStatsHours, 0, HelpStatsHours)
	screen := flag.String(FlagScreen, "", HelpScreen)
	ui := flag.String(FlagUI, "", HelpUI)
	logFile := flag.String(FlagLogFile, "", HelpLogFile)
	metricsAddr := flag.String(FlagMetricsAddr, "", HelpMetricsAddr)
	alertRelayURL := flag.String(FlagAlertRelayURL, "", HelpAlertRelayURL)
	alertSecretKey := flag.String(FlagAlertSecretKey, "", HelpAlertSecretKey)
	deviceLabel := flag.String(FlagDeviceLabel, "", HelpDeviceLabel)
	configFile := flag.String(FlagConfigFile, "", HelpConfigFile)
	help := flag.Bool(FlagHelp, false, HelpShowHelp)
	showVersion := flag.Bool(FlagVersion, false, HelpShowVersion)

	flag.Parse()

	if *help || *showVersion {
		return flagSource, *help, *showVersion
	}

	values := map[string]interface{}{
		FlagAPIURL:             *apiURL,
		FlagHTTPTimeoutSeconds: *httpTimeoutSeconds,
		FlagRefreshSeconds:     *refreshSeconds,
		FlagAutoRefresh:        *autoRefresh,
		FlagRecentLimit:        *recentLimit,
		FlagStatsHours:         *statsHours,
		FlagScreen:             *screen,
		FlagUI:                 *ui,
		FlagLogFile:            *logFile,
		FlagMetricsAddr:        *metricsAddr,
		FlagAlertRelayURL:      *alertRelayURL,
		FlagAlertSecretKey:     *alertSecretKey,
		FlagDeviceLabel:        *deviceLabel,
		FlagConfigFile:         *configFile,
	}

	flag.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		flagSource.Set(key, values[f.Name])
	})

	return flagSource, false, false
}

// flagKeys maps each CLI flag to the configuration key it sets
var flagKeys = map[string]string{
	FlagAPIURL:             KeyAPIURL,
	FlagHTTPTimeoutSeconds: KeyHTTPTimeoutSeconds,
	FlagRefreshSeconds:     KeyRefreshSeconds,
	FlagAutoRefresh:        KeyAutoRefresh,
	FlagRecentLimit:        KeyRecentLimit,
	FlagStatsHours:         KeyStatsHours,
	FlagScreen:             KeyScreen,
	FlagUI:                 KeyUI,
	FlagLogFile:            KeyLogFile,
	FlagMetricsAddr:        KeyMetricsAddr,
	FlagAlertRelayURL:      KeyAlertRelayURL,
	FlagAlertSecretKey:     KeyAlertSecretKey,
	FlagDeviceLabel:        KeyDeviceLabel,
	FlagConfigFile:         KeyConfigFile,
}

// printUsage prints the usage message
func printUsage() {
	fmt.Printf("%s - %s\n", AppName, AppDescription)
	fmt.Println()
	fmt.Printf("%s\n", HelpUsage)
	fmt.Printf("  %s\n", UsageFormat)
	fmt.Println()
	fmt.Printf("%s\n", HelpOptions)
	fmt.Printf("  --%-24s %s (default: %s)\n", FlagAPIURL+" string", HelpAPIURL, DefaultAPIURL)
	fmt.Printf("  --%-24s %s (default: %d)\n", FlagHTTPTimeoutSeconds+" int", HelpHTTPTimeoutSeconds, DefaultHTTPTimeoutSeconds)
	fmt.Printf("  --%-24s %s (default: %d)\n", FlagRefreshSeconds+" int", HelpRefreshSeconds, DefaultRefreshSeconds)
	fmt.Printf("  --%-24s %s (default: %t)\n", FlagAutoRefresh+"=bool", HelpAutoRefresh, DefaultAutoRefresh)
	fmt.Printf("  --%-24s %s (default: %d)\n", FlagRecentLimit+" int", HelpRecentLimit, DefaultRecentLimit)
	fmt.Printf("  --%-24s %s (default: %d)\n", FlagStatsHours+" int", HelpStatsHours, DefaultStatsHours)
	fmt.Printf("  --%-24s %s (default: %s)\n", FlagScreen+" string", HelpScreen, DefaultScreen)
	fmt.Printf("  --%-24s %s (default: %s)\n", FlagUI+" string", HelpUI, DefaultUI)
	fmt.Printf("  --%-24s %s\n", FlagLogFile+" string", HelpLogFile)
	fmt.Printf("  --%-24s %s\n", FlagMetricsAddr+" string", HelpMetricsAddr)
	fmt.Printf("  --%-24s %s\n", FlagAlertRelayURL+" string", HelpAlertRelayURL)
	fmt.Printf("  --%-24s %s\n", FlagAlertSecretKey+" string", HelpAlertSecretKey)
	fmt.Printf("  --%-24s %s (default: %s)\n", FlagDeviceLabel+" string", HelpDeviceLabel, DefaultDeviceLabel)
	fmt.Printf("  --%-24s %s\n", FlagConfigFile+" string", HelpConfigFile)
	fmt.Printf("  --%-24s %s\n", FlagVersion, HelpShowVersion)
	fmt.Printf("  --%-24s %s\n", FlagHelp, HelpShowHelp)
	fmt.Println()
	fmt.Printf("%s\n", HelpEnvironmentVars)
	for _, key := range []string{
		KeyAPIURL, KeyHTTPTimeoutSeconds, KeyRefreshSeconds, KeyAutoRefresh,
		KeyRecentLimit, KeyStatsHours, KeyScreen, KeyUI, KeyLogFile,
		KeyMetricsAddr, KeyAlertRelayURL, KeyAlertSecretKey, KeyDeviceLabel, KeyConfigFile,
	} {
		fmt.Printf("  %-28s %s\n", key, fileKey(key))
	}
	fmt.Println()
	fmt.Printf("%s\n", HelpNote)
}
