package config

import (
	"flag"
	"os"
	"testing"
)

func TestParseCLIFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Run("empty args", func(t *testing.T) {
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

		os.Args = []string{"test"}
		flagSource, showHelp, showVersion := parseCLIFlags()

		if showHelp || showVersion {
			t.Error("expected showHelp and showVersion to be false for empty args")
		}
		if flagSource == nil {
			t.Fatal("expected non-nil flagSource")
		}
		if value, found := flagSource.GetString(KeyAPIURL); found {
			t.Errorf("expected no value for %s, got '%s'", KeyAPIURL, value)
		}
		// Unset bool flags must not shadow lower-precedence sources
		if _, found := flagSource.GetBool(KeyAutoRefresh); found {
			t.Errorf("expected %s to be unset", KeyAutoRefresh)
		}
	})

	t.Run("with values", func(t *testing.T) {
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

		os.Args = []string{"test", "--api-url=http://pi.local:5000", "--refresh-seconds=15", "--auto-refresh=false", "--ui", "quiet"}
		flagSource, showHelp, _ := parseCLIFlags()

		if showHelp {
			t.Error("expected showHelp to be false")
		}
		if value, found := flagSource.GetString(KeyAPIURL); !found || value != "http://pi.local:5000" {
			t.Errorf("expected 'http://pi.local:5000', got '%s' (found: %v)", value, found)
		}
		if value, found := flagSource.GetInt(KeyRefreshSeconds); !found || value != 15 {
			t.Errorf("expected 15, got %d (found: %v)", value, found)
		}
		if value, found := flagSource.GetBool(KeyAutoRefresh); !found || value {
			t.Errorf("expected false, got %t (found: %v)", value, found)
		}
		if value, found := flagSource.GetString(KeyUI); !found || value != UIQuiet {
			t.Errorf("expected %q, got '%s' (found: %v)", UIQuiet, value, found)
		}
	})

	t.Run("help", func(t *testing.T) {
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

		os.Args = []string{"test", "--help"}
		if _, showHelp, _ := parseCLIFlags(); !showHelp {
			t.Error("expected showHelp to be true")
		}
	})

	t.Run("version after other flags", func(t *testing.T) {
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

		os.Args = []string{"test", "--ui", "quiet", "--version"}
		_, showHelp, showVersion := parseCLIFlags()
		if showHelp {
			t.Error("expected showHelp to be false")
		}
		if !showVersion {
			t.Error("expected showVersion to be true")
		}
	})
}

func TestFlagKeysCoverEveryConfigKey(t *testing.T) {
	seen := make(map[string]bool)
	for _, key := range flagKeys {
		if seen[key] {
			t.Errorf("key %s mapped by more than one flag", key)
		}
		seen[key] = true
	}
	if len(seen) != 14 {
		t.Errorf("expected 14 mapped keys, got %d", len(seen))
	}
}

func TestPrintUsage(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("printUsage panicked: %v", r)
		}
	}()
	printUsage()
}
