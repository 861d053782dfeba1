package config

import "errors"

// Config is the top-level configuration struct for dekot.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Suggest SuggestConfig `mapstructure:"suggest"`
	Cache   CacheConfig   `mapstructure:"cache"`
	OpLog   OpLogConfig   `mapstructure:"oplog"`
	Stubs   StubsConfig   `mapstructure:"stubs"`
}

// SuggestConfig controls which applicable candidates are surfaced as
// suggestions rather than only listed on request.
type SuggestConfig struct {
	// OnlyMajority keeps candidates where more than half of the aggregate's
	// components are actually read; off surfaces every applicable candidate.
	OnlyMajority bool `mapstructure:"only_majority"`
}

// CacheConfig holds parse cache sizing.
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// OpLogConfig holds operation log settings.
type OpLogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// StubsConfig points at a user-provided pair-type stub file.
type StubsConfig struct {
	Path string `mapstructure:"path"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidCacheSize indicates the parse cache size is not positive.
	ErrInvalidCacheSize = errors.New("cache.size must be positive")
	// ErrMissingOpLogPath indicates oplog is enabled without a path.
	ErrMissingOpLogPath = errors.New("oplog.path must be set when oplog.enabled is true")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Cache.Size <= 0 {
		return ErrInvalidCacheSize
	}

	if c.OpLog.Enabled && c.OpLog.Path == "" {
		return ErrMissingOpLogPath
	}

	return nil
}
