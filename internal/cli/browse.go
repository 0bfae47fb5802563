package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/coinfocus/internal/tui"
)

func newBrowseCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive viewer on the home prompt",
		Long: `Starts the interactive viewer at the home prompt. Type an asset id and press
enter to open its detail view. An unavailable asset returns to the prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("browse requires an interactive terminal; use 'coinfocus detail --plain' instead")
			}
			ctx := s.interactiveContext(cmd.Context())
			app := tui.NewApp(ctx, s.newClient(), s.viewOptions()...)
			return runProgram(cmd.Context(), app)
		},
	}
}
