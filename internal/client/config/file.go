package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/giteekit/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used only for decoding config files. Pointer fields
// distinguish "absent" from a zero value so a file overrides only what it
// names.
type fileConfig struct {
	APIURL          *string         `json:"api_url" yaml:"api_url"`
	RequestTimeout  *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RateLimit       *float64        `json:"rate_limit" yaml:"rate_limit"`
	RateBurst       *int            `json:"rate_burst" yaml:"rate_burst"`
	DataDir         *string         `json:"data_dir" yaml:"data_dir"`
	Store           *fileStore      `json:"store" yaml:"store"`
	SecureNamespace *string         `json:"secure_namespace" yaml:"secure_namespace"`
	PageSize        *int            `json:"page_size" yaml:"page_size"`
	AccessToken     *string         `json:"access_token" yaml:"access_token"`
	VaultPassphrase *string         `json:"vault_passphrase" yaml:"vault_passphrase"`
	Debug           *bool           `json:"debug" yaml:"debug"`
	LogFormat       *string         `json:"log_format" yaml:"log_format"`
}

type fileStore struct {
	Driver    *string `json:"driver" yaml:"driver"`
	RedisURL  *string `json:"redis_url" yaml:"redis_url"`
	Namespace *string `json:"namespace" yaml:"namespace"`
}

// parseFile overlays cfg with the file at path. An empty path is a no-op.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	set(&cfg.APIURL, fc.APIURL)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	set(&cfg.RateLimit, fc.RateLimit)
	set(&cfg.RateBurst, fc.RateBurst)
	set(&cfg.DataDir, fc.DataDir)
	if fc.Store != nil {
		set(&cfg.Store.Driver, fc.Store.Driver)
		set(&cfg.Store.RedisURL, fc.Store.RedisURL)
		set(&cfg.Store.Namespace, fc.Store.Namespace)
	}
	set(&cfg.SecureNamespace, fc.SecureNamespace)
	set(&cfg.PageSize, fc.PageSize)
	set(&cfg.AccessToken, fc.AccessToken)
	set(&cfg.VaultPassphrase, fc.VaultPassphrase)
	set(&cfg.Debug, fc.Debug)
	set(&cfg.LogFormat, fc.LogFormat)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
