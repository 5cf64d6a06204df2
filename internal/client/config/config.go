package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/giteekit/internal/client/client"
	"github.com/dmitrijs2005/giteekit/internal/client/pager"
	"github.com/dmitrijs2005/giteekit/internal/filex"
	"github.com/spf13/pflag"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"

	LogFormatJSON = "json"
	LogFormatText = "text"

	databaseFile = "giteekit.db"
)

// StoreConfig selects where session state and fallback credentials live.
type StoreConfig struct {
	Driver    string
	RedisURL  string
	Namespace string
}

// Config holds runtime settings for the giteekit CLI.
//
// AccessToken, when set, overrides every stored account token.
type Config struct {
	APIURL          string
	RequestTimeout  time.Duration
	RateLimit       float64
	RateBurst       int
	DataDir         string
	Store           StoreConfig
	SecureNamespace string
	PageSize        int
	AccessToken     string
	VaultPassphrase string
	Debug           bool
	LogFormat       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = client.DefaultBaseURL
	c.RequestTimeout = client.DefaultTimeout
	c.RateLimit = 0
	c.RateBurst = 1
	c.DataDir = "~/.giteekit"
	c.Store = StoreConfig{Driver: DriverSQLite, Namespace: "giteekit"}
	c.SecureNamespace = "com.giteekit.tokens"
	c.PageSize = pager.DefaultPageSize
	c.LogFormat = LogFormatJSON
}

// Load builds a Config from defaults, the config file, the environment and
// the flags registered on fs by RegisterFlags, in that order. fs must already
// be parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, _ := fs.GetString(flagConfig)
	if err := parseFile(cfg, path); err != nil {
		return nil, err
	}

	envFile, _ := fs.GetString(flagEnvFile)
	if err := parseEnv(cfg, envFile, osLookup); err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit must not be negative, got %g", c.RateLimit))
	}
	if c.PageSize < 1 || c.PageSize > pager.MaxPageSize {
		errs = append(errs, fmt.Errorf("page_size must be in [1, %d], got %d", pager.MaxPageSize, c.PageSize))
	}
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, errors.New("store.redis_url is required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatText {
		errs = append(errs, fmt.Errorf("log_format must be %q or %q, got %q", LogFormatJSON, LogFormatText, c.LogFormat))
	}
	return errors.Join(errs...)
}

// DatabasePath returns the sqlite file inside DataDir, expanding "~".
func (c *Config) DatabasePath() (string, error) {
	dir, err := filex.ExpandHome(c.DataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, databaseFile), nil
}
