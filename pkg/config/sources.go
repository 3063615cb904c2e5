package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ConfigSource represents a source of configuration values
type ConfigSource interface {
	GetString(key string) (string, bool)
	GetInt(key string) (int, bool)
	GetFloat(key string) (float64, bool)
	GetBool(key string) (bool, bool)
}

// EnvSource implements ConfigSource for environment variables
type EnvSource struct{}

func (e *EnvSource) GetString(key string) (string, bool) {
	value := os.Getenv(key)
	return value, value != ""
}

func (e *EnvSource) GetInt(key string) (int, bool) {
	return parseInt(os.Getenv(key))
}

func (e *EnvSource) GetFloat(key string) (float64, bool) {
	return parseFloat(os.Getenv(key))
}

func (e *EnvSource) GetBool(key string) (bool, bool) {
	return parseBool(os.Getenv(key))
}

// FlagSource implements ConfigSource for command-line flags
type FlagSource struct {
	values map[string]interface{}
}

func NewFlagSource() *FlagSource {
	return &FlagSource{values: make(map[string]interface{})}
}

func (f *FlagSource) Set(key string, value interface{}) {
	f.values[key] = value
}

func (f *FlagSource) GetString(key string) (string, bool) {
	if value, exists := f.values[key]; exists {
		if str, ok := value.(string); ok && str != "" {
			return str, true
		}
	}
	return "", false
}

func (f *FlagSource) GetInt(key string) (int, bool) {
	if value, exists := f.values[key]; exists {
		if i, ok := value.(int); ok {
			return i, true
		}
	}
	return 0, false
}

func (f *FlagSource) GetFloat(key string) (float64, bool) {
	if value, exists := f.values[key]; exists {
		if fl, ok := value.(float64); ok {
			return fl, true
		}
	}
	return 0, false
}

func (f *FlagSource) GetBool(key string) (bool, bool) {
	if value, exists := f.values[key]; exists {
		if b, ok := value.(bool); ok {
			return b, true
		}
	}
	return false, false
}

// FileSource implements ConfigSource on top of a YAML file read by viper.
// A FileSource with no file behind it resolves nothing.
type FileSource struct {
	v    *viper.Viper
	used string
}

// NewFileSource reads path, or searches the default locations when path is
// empty. A missing file is only an error when path was given explicitly.
func NewFileSource(path string) (*FileSource, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dashboard")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".rpi-dashboard"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return &FileSource{}, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return &FileSource{v: v, used: v.ConfigFileUsed()}, nil
}

// Used returns the path of the file that was read, or "" when none was found.
func (s *FileSource) Used() string {
	return s.used
}

func (s *FileSource) lookup(key string) (string, bool) {
	if s == nil || s.v == nil {
		return "", false
	}
	k := fileKey(key)
	if !s.v.IsSet(k) {
		return "", false
	}
	value := s.v.GetString(k)
	return value, value != ""
}

func (s *FileSource) GetString(key string) (string, bool) {
	return s.lookup(key)
}

func (s *FileSource) GetInt(key string) (int, bool) {
	value, ok := s.lookup(key)
	if !ok {
		return 0, false
	}
	return parseInt(value)
}

func (s *FileSource) GetFloat(key string) (float64, bool) {
	value, ok := s.lookup(key)
	if !ok {
		return 0, false
	}
	return parseFloat(value)
}

func (s *FileSource) GetBool(key string) (bool, bool) {
	value, ok := s.lookup(key)
	if !ok {
		return false, false
	}
	return parseBool(value)
}

// fileKey maps DASH_API_URL to api_url.
func fileKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, "DASH_"))
}

func parseInt(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return i, true
	}
	return 0, false
}

func parseFloat(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return f, true
	}
	return 0, false
}

func parseBool(value string) (bool, bool) {
	if value == "" {
		return false, false
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
		return b, true
	}
	return false, false
}
