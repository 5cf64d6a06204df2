package config

import (
	"github.com/spf13/pflag"
)

const (
	flagConfig          = "config"
	flagEnvFile         = "env-file"
	flagAPIURL          = "api-url"
	flagTimeout         = "timeout"
	flagRateLimit       = "rate-limit"
	flagRateBurst       = "rate-burst"
	flagDataDir         = "data-dir"
	flagStoreDriver     = "store"
	flagRedisURL        = "redis-url"
	flagStoreNamespace  = "store-namespace"
	flagSecureNamespace = "secure-namespace"
	flagPageSize        = "page-size"
	flagAccessToken     = "access-token"
	flagDebug           = "debug"
	flagLogFormat       = "log-format"
)

// RegisterFlags adds the configuration flags to fs. Defaults shown in help
// come from LoadDefaults; only flags the user actually sets override the
// file and environment layers.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "path to a JSON or YAML config file")
	fs.String(flagEnvFile, ".env", "dotenv file with GITEEKIT_* variables")
	fs.String(flagAPIURL, d.APIURL, "Gitee API base URL")
	fs.Duration(flagTimeout, d.RequestTimeout, "per-request timeout")
	fs.Float64(flagRateLimit, d.RateLimit, "client-side request rate limit per second (0 = unlimited)")
	fs.Int(flagRateBurst, d.RateBurst, "rate limiter burst size")
	fs.String(flagDataDir, d.DataDir, "directory for local state")
	fs.String(flagStoreDriver, d.Store.Driver, "session store driver: sqlite or redis")
	fs.String(flagRedisURL, d.Store.RedisURL, "redis URL for the redis store driver")
	fs.String(flagStoreNamespace, d.Store.Namespace, "key prefix for the redis store driver")
	fs.String(flagSecureNamespace, d.SecureNamespace, "namespace of encrypted tokens")
	fs.Int(flagPageSize, d.PageSize, "items per page for list commands")
	fs.String(flagAccessToken, "", "use this token for every request instead of stored accounts")
	fs.Bool(flagDebug, false, "verbose logging")
	fs.String(flagLogFormat, d.LogFormat, "log encoding on stderr: json or text")
}

// applyFlags copies every explicitly set flag into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagAPIURL:
			cfg.APIURL, err = fs.GetString(f.Name)
		case flagTimeout:
			cfg.RequestTimeout, err = fs.GetDuration(f.Name)
		case flagRateLimit:
			cfg.RateLimit, err = fs.GetFloat64(f.Name)
		case flagRateBurst:
			cfg.RateBurst, err = fs.GetInt(f.Name)
		case flagDataDir:
			cfg.DataDir, err = fs.GetString(f.Name)
		case flagStoreDriver:
			cfg.Store.Driver, err = fs.GetString(f.Name)
		case flagRedisURL:
			cfg.Store.RedisURL, err = fs.GetString(f.Name)
		case flagStoreNamespace:
			cfg.Store.Namespace, err = fs.GetString(f.Name)
		case flagSecureNamespace:
			cfg.SecureNamespace, err = fs.GetString(f.Name)
		case flagPageSize:
			cfg.PageSize, err = fs.GetInt(f.Name)
		case flagAccessToken:
			cfg.AccessToken, err = fs.GetString(f.Name)
		case flagDebug:
			cfg.Debug, err = fs.GetBool(f.Name)
		case flagLogFormat:
			cfg.LogFormat, err = fs.GetString(f.Name)
		}
	})
	return err
}
