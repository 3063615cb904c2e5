package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnvSource(t *testing.T) {
	envSource := &EnvSource{}

	t.Run("GetString", func(t *testing.T) {
		os.Setenv("TEST_STRING", "test_value")
		defer os.Unsetenv("TEST_STRING")

		value, found := envSource.GetString("TEST_STRING")
		if !found || value != "test_value" {
			t.Errorf("expected 'test_value', got '%s' (found: %v)", value, found)
		}

		if _, found := envSource.GetString("MISSING_STRING"); found {
			t.Error("expected not to find MISSING_STRING")
		}
	})

	t.Run("GetInt", func(t *testing.T) {
		os.Setenv("TEST_INT", "42")
		os.Setenv("TEST_INVALID_INT", "not_a_number")
		defer func() {
			os.Unsetenv("TEST_INT")
			os.Unsetenv("TEST_INVALID_INT")
		}()

		if value, found := envSource.GetInt("TEST_INT"); !found || value != 42 {
			t.Errorf("expected 42, got %d (found: %v)", value, found)
		}
		if _, found := envSource.GetInt("TEST_INVALID_INT"); found {
			t.Error("expected not to find valid int for TEST_INVALID_INT")
		}
		if _, found := envSource.GetInt("MISSING_INT"); found {
			t.Error("expected not to find MISSING_INT")
		}
	})

	t.Run("GetBool", func(t *testing.T) {
		os.Setenv("TEST_BOOL", "false")
		os.Setenv("TEST_INVALID_BOOL", "maybe")
		defer func() {
			os.Unsetenv("TEST_BOOL")
			os.Unsetenv("TEST_INVALID_BOOL")
		}()

		if value, found := envSource.GetBool("TEST_BOOL"); !found || value {
			t.Errorf("expected false, got %t (found: %v)", value, found)
		}
		if _, found := envSource.GetBool("TEST_INVALID_BOOL"); found {
			t.Error("expected not to find valid bool for TEST_INVALID_BOOL")
		}
	})
}

func TestFlagSource(t *testing.T) {
	flagSource := NewFlagSource()

	flagSource.Set("TEST_STRING", "flag_value")
	if value, found := flagSource.GetString("TEST_STRING"); !found || value != "flag_value" {
		t.Errorf("expected 'flag_value', got '%s' (found: %v)", value, found)
	}

	flagSource.Set("EMPTY_STRING", "")
	if _, found := flagSource.GetString("EMPTY_STRING"); found {
		t.Error("expected not to find empty string")
	}

	// Wrong type is not found
	flagSource.Set("TEST_INT", "not an int")
	if _, found := flagSource.GetInt("TEST_INT"); found {
		t.Error("expected string value not to resolve as int")
	}

	flagSource.Set("TEST_BOOL", true)
	if value, found := flagSource.GetBool("TEST_BOOL"); !found || !value {
		t.Errorf("expected true, got %t (found: %v)", value, found)
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestFileSource(t *testing.T) {
	t.Run("reads explicit file", func(t *testing.T) {
		path := writeConfigFile(t, "api_url: http://pi.local:5000\nrefresh_seconds: 30\nauto_refresh: false\n")

		src, err := NewFileSource(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if src.Used() != path {
			t.Errorf("expected used file %s, got %s", path, src.Used())
		}
		if value, found := src.GetString(KeyAPIURL); !found || value != "http://pi.local:5000" {
			t.Errorf("expected api url from file, got '%s' (found: %v)", value, found)
		}
		if value, found := src.GetInt(KeyRefreshSeconds); !found || value != 30 {
			t.Errorf("expected 30, got %d (found: %v)", value, found)
		}
		if value, found := src.GetBool(KeyAutoRefresh); !found || value {
			t.Errorf("expected false, got %t (found: %v)", value, found)
		}
		if _, found := src.GetString(KeyMetricsAddr); found {
			t.Error("expected metrics addr to be absent")
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		if _, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})

	t.Run("nil file source resolves nothing", func(t *testing.T) {
		var src *FileSource
		if _, found := src.GetString(KeyAPIURL); found {
			t.Error("expected nil source to resolve nothing")
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := writeConfigFile(t, "recent_limit: 20\n")
		src, err := NewFileSource(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		os.Setenv(KeyRecentLimit, "25")
		defer os.Unsetenv(KeyRecentLimit)

		resolver := NewConfigResolver(NewFlagSource(), &EnvSource{}, src)
		if value := resolver.ResolveInt(KeyRecentLimit, DefaultRecentLimit); value != 25 {
			t.Errorf("expected env value 25, got %d", value)
		}
	})
}

func TestFileKey(t *testing.T) {
	if got := fileKey(KeyAlertRelayURL); got != "alert_relay_url" {
		t.Errorf("expected alert_relay_url, got %s", got)
	}
}
