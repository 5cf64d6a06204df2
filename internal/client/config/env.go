package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GITEEKIT_"

type lookupFunc func(key string) (string, bool)

var osLookup lookupFunc = os.LookupEnv

// parseEnv overlays cfg with GITEEKIT_* variables. Values in envFile are used
// only for keys the process environment does not define; a missing envFile is
// not an error.
func parseEnv(cfg *Config, envFile string, lookup lookupFunc) error {
	fromFile := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fromFile = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	get := func(name string) (string, bool) {
		key := envPrefix + name
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fromFile[key]
		return v, ok
	}

	var errs []error
	str := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, name, err))
				return
			}
			*dst = n
		}
	}

	str("API_URL", &cfg.APIURL)
	if v, ok := get("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err))
		} else {
			cfg.RequestTimeout = d
		}
	}
	if v, ok := get("RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_LIMIT: %w", envPrefix, err))
		} else {
			cfg.RateLimit = f
		}
	}
	num("RATE_BURST", &cfg.RateBurst)
	str("DATA_DIR", &cfg.DataDir)
	str("STORE_DRIVER", &cfg.Store.Driver)
	str("REDIS_URL", &cfg.Store.RedisURL)
	str("STORE_NAMESPACE", &cfg.Store.Namespace)
	str("SECURE_NAMESPACE", &cfg.SecureNamespace)
	num("PAGE_SIZE", &cfg.PageSize)
	str("ACCESS_TOKEN", &cfg.AccessToken)
	str("VAULT_PASSPHRASE", &cfg.VaultPassphrase)
	str("LOG_FORMAT", &cfg.LogFormat)
	if v, ok := get("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDEBUG: %w", envPrefix, err))
		} else {
			cfg.Debug = b
		}
	}

	return errors.Join(errs...)
}
