package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultIconURLTemplate, cfg.API.IconURLTemplate)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, New(), cfg)
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, New(), cfg)
	})

	t.Run("partial file keeps defaults for other keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
api:
  base_url: http://localhost:9999/v2
logging:
  level: debug
server:
  cors_origins:
    - https://example.com
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999/v2", cfg.API.BaseURL)
		assert.Equal(t, DefaultIconURLTemplate, cfg.API.IconURLTemplate)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config file")
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := New()
	cfg.Logging.Level = "warn"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "/v2" }, wantErr: ErrInvalidBaseURL},
		{name: "ftp base url", mutate: func(c *Config) { c.API.BaseURL = "ftp://x/v2" }, wantErr: ErrInvalidBaseURL},
		{
			name:    "template without verb",
			mutate:  func(c *Config) { c.API.IconURLTemplate = "https://icons/x.png" },
			wantErr: ErrInvalidIconTemplate,
		},
		{
			name:    "template with extra verb",
			mutate:  func(c *Config) { c.API.IconURLTemplate = "https://icons/%s/%d.png" },
			wantErr: ErrInvalidIconTemplate,
		},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "console format", mutate: func(c *Config) { c.Logging.Format = "Console" }},
		{name: "blank addr", mutate: func(c *Config) { c.Server.Addr = "  " }, wantErr: ErrEmptyServerAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := New()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvAPIURL:     "http://mirror.local/v2",
		EnvLogLevel:   " debug ",
		EnvLogFormat:  "",
		EnvServerAddr: "127.0.0.1:9000",
	}))

	assert.Equal(t, "http://mirror.local/v2", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format, "empty env value is ignored")
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)

	assert.NotPanics(t, func() { cfg.ApplyEnv(nil) })
}

func TestResolvePath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		p, err := ResolvePath("/etc/coinfocus.yaml", envMap(map[string]string{EnvConfigPath: "/env.yaml"}))
		require.NoError(t, err)
		assert.Equal(t, "/etc/coinfocus.yaml", p)
	})

	t.Run("env beats default", func(t *testing.T) {
		p, err := ResolvePath("", envMap(map[string]string{EnvConfigPath: "/env.yaml"}))
		require.NoError(t, err)
		assert.Equal(t, "/env.yaml", p)
	})

	t.Run("default under COINFOCUS_HOME", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("COINFOCUS_HOME", home)

		p, err := ResolvePath("", envMap(nil))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "config.yaml"), p)
	})
}

func TestEnsureLogDir(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.EnsureLogDir(), "no file configured is a no-op")

	dir := filepath.Join(t.TempDir(), "logs", "deep")
	cfg.Logging.File = filepath.Join(dir, "coinfocus.log")
	require.NoError(t, cfg.EnsureLogDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
