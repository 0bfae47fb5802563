package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/coinfocus/internal/asset"
	"github.com/rshade/coinfocus/internal/coincap"
	"github.com/rshade/coinfocus/internal/config"
	"github.com/rshade/coinfocus/internal/detail"
	"github.com/rshade/coinfocus/internal/logging"
)

// skipConfigAnnotation marks commands that must run even when the config file is invalid.
const skipConfigAnnotation = "coinfocus/skip-config"

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// session holds what the root command prepares for its subcommands.
type session struct {
	lookupEnv config.LookupEnvFunc

	configPath string
	cfg        *config.Config
	debug      bool

	// base carries no component and is what contexts and clients receive;
	// logger is base tagged "cli" for the command's own lines.
	base    zerolog.Logger
	logger  zerolog.Logger
	logFile *logging.FileResult

	// httpTimeout bounds each CoinCap request. Zero means no client-side timeout.
	httpTimeout time.Duration
}

// NewRootCmd creates the root Cobra command for the coinfocus CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv config.LookupEnvFunc) *cobra.Command {
	s := &session{lookupEnv: lookupEnv, base: zerolog.Nop(), logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "coinfocus",
		Short:        "CoinCap asset detail viewer",
		Long:         "coinfocus shows the price, market cap, volume and 24h change of a CoinCap asset.",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.loadConfig(cmd); err != nil {
				return err
			}
			return s.setupLogging(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return s.cleanup()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.coinfocus/config.yaml)")
	cmd.PersistentFlags().String("api-url", "", "CoinCap API base URL (overrides config file and env var)")
	cmd.PersistentFlags().Duration("timeout", 0, "per-request HTTP timeout (0 = none)")

	cmd.AddCommand(
		newDetailCmd(s),
		newBrowseCmd(s),
		newServeCmd(s, ver),
		newConfigCmd(s),
	)

	return cmd
}

const rootCmdExample = `  # Show Bitcoin in the interactive viewer
  coinfocus detail bitcoin

  # Print several assets as plain text
  coinfocus detail bitcoin ethereum --plain

  # Start on the home prompt
  coinfocus browse

  # Serve the detail page over HTTP
  coinfocus serve --addr :8080

  # Initialize configuration
  coinfocus config init`

// loadConfig resolves, loads, overrides and validates the configuration.
func (s *session) loadConfig(cmd *cobra.Command) error {
	flagPath, _ := cmd.Flags().GetString("config")
	path, err := config.ResolvePath(flagPath, s.lookupEnv)
	if err != nil {
		return err
	}
	s.configPath = path
	s.debug, _ = cmd.Flags().GetBool("debug")
	s.httpTimeout, _ = cmd.Flags().GetDuration("timeout")

	if cmd.Annotations[skipConfigAnnotation] == "true" {
		s.cfg = config.New()
		return nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(s.lookupEnv)
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	s.cfg = cfg
	return nil
}

// newClient builds the CoinCap client from the loaded configuration.
func (s *session) newClient() *coincap.Client {
	opts := []coincap.Option{
		coincap.WithBaseURL(s.cfg.API.BaseURL),
		coincap.WithUserAgent(s.cfg.API.UserAgent),
		coincap.WithLogger(s.base),
	}
	if s.httpTimeout > 0 {
		opts = append(opts, coincap.WithHTTPClient(newHTTPClient(s.httpTimeout)))
	}
	return coincap.NewClient(opts...)
}

// viewOptions carries configured rendering options into each detail.View.
func (s *session) viewOptions() []detail.Option {
	return []detail.Option{
		detail.WithAssetOptions(asset.WithIconTemplate(s.cfg.API.IconURLTemplate)),
	}
}

// interactiveContext silences logging for full-screen programs unless a log
// file or --debug was requested. Call it before newClient.
func (s *session) interactiveContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.logFile != nil || s.debug {
		return ctx
	}
	s.base = zerolog.Nop()
	s.logger = s.base
	return s.base.WithContext(ctx)
}
