package config

import "strings"

// Environment variable names read by ApplyEnv.
const (
	EnvConfigPath = "COINFOCUS_CONFIG"
	EnvAPIURL     = "COINFOCUS_API_URL"
	EnvLogLevel   = "COINFOCUS_LOG_LEVEL"
	EnvLogFormat  = "COINFOCUS_LOG_FORMAT"
	EnvLogFile    = "COINFOCUS_LOG_FILE"
	EnvServerAddr = "COINFOCUS_SERVER_ADDR"
)

// LookupEnvFunc matches os.LookupEnv so tests can inject an environment.
type LookupEnvFunc func(string) (string, bool)

// ApplyEnv overrides c with any non-empty COINFOCUS_* variables.
func (c *Config) ApplyEnv(lookupEnv LookupEnvFunc) {
	if lookupEnv == nil {
		return
	}
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvAPIURL, &c.API.BaseURL},
		{EnvLogLevel, &c.Logging.Level},
		{EnvLogFormat, &c.Logging.Format},
		{EnvLogFile, &c.Logging.File},
		{EnvServerAddr, &c.Server.Addr},
	}
	for _, o := range overrides {
		if v, ok := lookupEnv(o.key); ok && strings.TrimSpace(v) != "" {
			*o.dst = strings.TrimSpace(v)
		}
	}
}

// ResolvePath picks the config file location: flag, then COINFOCUS_CONFIG, then the default.
func ResolvePath(flagValue string, lookupEnv LookupEnvFunc) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if lookupEnv != nil {
		if v, ok := lookupEnv(EnvConfigPath); ok && v != "" {
			return v, nil
		}
	}
	return DefaultPath()
}
