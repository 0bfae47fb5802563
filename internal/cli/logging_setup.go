package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/coinfocus/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func (s *session) setupLogging(cmd *cobra.Command) error {
	logCfg := logging.Config{
		Level:  s.cfg.Logging.Level,
		Format: s.cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	}
	if s.debug {
		logCfg.Level = "debug"
		logCfg.Format = logging.FormatConsole
	}

	base := logging.NewLogger(logCfg)
	if s.cfg.Logging.File != "" && !s.debug {
		if err := s.cfg.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
		result, err := logging.NewFileLogger(logCfg, s.cfg.Logging.File)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v, logging to stderr\n", err)
		} else {
			s.logFile = result
			base = result.Logger
		}
	}
	s.base = base
	s.logger = logging.ComponentLogger(base, "cli")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = s.base.WithContext(ctx)
	cmd.SetContext(ctx)

	s.logger.Debug().Ctx(ctx).
		Str("command", cmd.Name()).
		Str("config", s.configPath).
		Str("api", s.cfg.API.BaseURL).
		Msg("command started")
	return nil
}

// cleanup closes the log file handle, if any.
func (s *session) cleanup() error {
	if s.logFile == nil {
		return nil
	}
	err := s.logFile.Close()
	s.logFile = nil
	return err
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
