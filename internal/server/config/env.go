package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix prefixes every environment variable read into Config,
// e.g. PROFILES_DATABASE_DSN.
const EnvPrefix = "PROFILES"

// parseEnv overlays variables that are set; unset ones leave cfg untouched.
func parseEnv(cfg *Config) error {
	return envconfig.Process(EnvPrefix, cfg)
}
