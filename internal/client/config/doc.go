// Package config loads runtime configuration for the giteekit CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with --config / -c. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. A .env file (path from --env-file, default ".env") and the process
//     environment. Only GITEEKIT_* variables are read; the real environment
//     wins over the .env file.
//  4. Command-line flags that were explicitly set.
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	api_url: https://gitee.com/api/v5
//	request_timeout: 30s
//	rate_limit: 5
//	rate_burst: 10
//	data_dir: ~/.giteekit
//	store:
//	  driver: sqlite        # or redis
//	  redis_url: redis://localhost:6379/0
//	  namespace: giteekit
//	secure_namespace: com.giteekit.tokens
//	page_size: 20
//	debug: false
//	log_format: json      # or text
//
// access_token and vault_passphrase are accepted too but are better kept in
// the environment.
package config
