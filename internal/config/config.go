// Package config loads coinfocus settings from ~/.coinfocus/config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultAPIBaseURL      = "https://api.coincap.io/v2"
	DefaultIconURLTemplate = "https://assets.coincap.io/assets/icons/%s@2x.png"
	DefaultUserAgent       = "coinfocus"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultServerAddr      = ":8080"

	configFileName = "config.yaml"
	configDirName  = ".coinfocus"
)

// Validation errors.
var (
	ErrInvalidBaseURL      = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidIconTemplate = errors.New("api.icon_url_template must contain exactly one %s")
	ErrInvalidLogFormat    = errors.New("logging.format must be json or console")
	ErrEmptyServerAddr     = errors.New("server.addr must not be empty")
)

// Config is the root configuration document.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// APIConfig configures the market-data API client.
type APIConfig struct {
	BaseURL         string `yaml:"base_url"`
	IconURLTemplate string `yaml:"icon_url_template"`
	UserAgent       string `yaml:"user_agent"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives log lines instead of stderr.
	File string `yaml:"file,omitempty"`
}

// ServerConfig configures the web front-end.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         DefaultAPIBaseURL,
			IconURLTemplate: DefaultIconURLTemplate,
			UserAgent:       DefaultUserAgent,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores defaults for keys a partial file left empty.
func (c *Config) fillDefaults() {
	def := New()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.IconURLTemplate == "" {
		c.API.IconURLTemplate = def.API.IconURLTemplate
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = def.API.UserAgent
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
}

// Save writes c to path as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if strings.Count(c.API.IconURLTemplate, "%s") != 1 ||
		strings.Count(c.API.IconURLTemplate, "%") != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidIconTemplate, c.API.IconURLTemplate)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return ErrEmptyServerAddr
	}
	return nil
}

// GetConfigDir returns the coinfocus configuration directory.
// COINFOCUS_HOME takes precedence over ~/.coinfocus.
func GetConfigDir() (string, error) {
	if home := os.Getenv("COINFOCUS_HOME"); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// DefaultPath returns the config file location inside GetConfigDir.
func DefaultPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureLogDir creates the parent directory of the configured log file, if any.
func (c *Config) EnsureLogDir() error {
	if c.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(c.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
