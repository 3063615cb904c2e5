package config

import "time"

// ConfigResolver resolves configuration values from multiple sources with precedence.
// Sources are consulted in the order given; the first one that has the key wins.
type ConfigResolver struct {
	sources []ConfigSource
}

func NewConfigResolver(sources ...ConfigSource) *ConfigResolver {
	return &ConfigResolver{sources: sources}
}

func resolve[T any](r *ConfigResolver, get func(ConfigSource) (T, bool), defaultValue T) T {
	for _, source := range r.sources {
		if source == nil {
			continue
		}
		if value, found := get(source); found {
			return value
		}
	}
	return defaultValue
}

func (r *ConfigResolver) ResolveString(key, defaultValue string) string {
	return resolve(r, func(s ConfigSource) (string, bool) { return s.GetString(key) }, defaultValue)
}

func (r *ConfigResolver) ResolveInt(key string, defaultValue int) int {
	return resolve(r, func(s ConfigSource) (int, bool) { return s.GetInt(key) }, defaultValue)
}

func (r *ConfigResolver) ResolveFloat(key string, defaultValue float64) float64 {
	return resolve(r, func(s ConfigSource) (float64, bool) { return s.GetFloat(key) }, defaultValue)
}

func (r *ConfigResolver) ResolveBool(key string, defaultValue bool) bool {
	return resolve(r, func(s ConfigSource) (bool, bool) { return s.GetBool(key) }, defaultValue)
}

// ResolveSeconds resolves an integer number of seconds as a duration.
func (r *ConfigResolver) ResolveSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(r.ResolveInt(key, defaultSeconds)) * time.Second
}
