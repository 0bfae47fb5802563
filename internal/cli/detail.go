package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/coinfocus/internal/asset"
	"github.com/rshade/coinfocus/internal/detail"
	"github.com/rshade/coinfocus/internal/logging"
	"github.com/rshade/coinfocus/internal/tui"
)

// Plain output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

const tabPadding = 2

func newDetailCmd(s *session) *cobra.Command {
	var (
		plain  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "detail <asset-id> [asset-id...]",
		Short: "Show the detail view for one or more assets",
		Long: `Fetches each asset from CoinCap and shows its price, market cap, 24h volume
and 24h change.

With a single asset on a terminal the interactive viewer is used. With --plain,
when output is not a terminal, or when several assets are given, each asset is
printed in argument order. Unavailable assets are reported on stderr and the
command exits with status 2.`,
		Example: `  # Interactive viewer
  coinfocus detail bitcoin

  # Plain text, several assets fetched concurrently
  coinfocus detail bitcoin ethereum dogecoin --plain

  # JSON for scripts
  coinfocus detail bitcoin --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputTable, outputJSON:
			default:
				return fmt.Errorf("unsupported output format %q (use %s or %s)", output, outputTable, outputJSON)
			}

			opts := s.viewOptions()

			interactive := !plain && output == outputTable && len(args) == 1 &&
				isTerminal(os.Stdin) && isTerminal(os.Stdout)
			if interactive {
				ctx := s.interactiveContext(cmd.Context())
				app := tui.NewAppAt(ctx, s.newClient(), args[0], opts...)
				return runProgram(cmd.Context(), app)
			}

			results := loadAll(cmd.Context(), s.newClient(), args, opts)
			return renderResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), output, results)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print plain text instead of the interactive viewer")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "plain output format: table or json")

	return cmd
}

// runProgram runs a full-screen Bubble Tea program until it quits.
func runProgram(ctx context.Context, model tea.Model) error {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	p := tea.NewProgram(model, opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// loadResult is one identifier's outcome in plain mode.
type loadResult struct {
	Identifier string
	Asset      asset.DisplayAsset
	Redirected bool
}

// loadAll drives one detail.View per identifier concurrently. Results keep the
// argument order.
func loadAll(ctx context.Context, fetcher detail.Fetcher, identifiers []string, opts []detail.Option) []loadResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]loadResult, len(identifiers))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, identifier := range identifiers {
		g.Go(func() error {
			redirected := false
			view := detail.New(fetcher, detail.NavigatorFunc(func() { redirected = true }), opts...)
			defer view.Close()

			viewCtx := logging.ContextWithTraceID(gCtx, logging.GenerateTraceID())
			view.Load(viewCtx, identifier)

			a, ok := view.Asset()
			results[i] = loadResult{
				Identifier: identifier,
				Asset:      a,
				Redirected: redirected || !ok,
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// renderResults prints ready assets to out and unavailable ones to errOut.
func renderResults(out, errOut io.Writer, format string, results []loadResult) error {
	unavailable := 0
	ready := make([]asset.DisplayAsset, 0, len(results))
	for _, r := range results {
		if r.Redirected {
			unavailable++
			_, _ = fmt.Fprintf(errOut, "%s: unavailable, redirecting to /\n", r.Identifier)
			continue
		}
		ready = append(ready, r.Asset)
	}

	var err error
	if format == outputJSON {
		err = renderJSON(out, ready)
	} else {
		err = renderTable(out, ready)
	}
	if err != nil {
		return err
	}

	if unavailable > 0 {
		return unavailableError(unavailable)
	}
	return nil
}

// renderTable writes each asset as an aligned block, separated by blank lines.
func renderTable(out io.Writer, assets []asset.DisplayAsset) error {
	for i, a := range assets {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
		change := a.Change()
		fmt.Fprintf(w, "%s | %s\n", a.Name(), a.Symbol())
		fmt.Fprintln(w, strings.Repeat("-", len(a.Name())+len(a.Symbol())+3))
		fmt.Fprintf(w, "Icon:\t%s\n", a.IconURL())
		fmt.Fprintf(w, "Price:\t%s\n", a.FormattedPrice())
		fmt.Fprintf(w, "Market cap:\t%s\n", a.FormattedMarketCap())
		fmt.Fprintf(w, "Volume:\t%s\n", a.FormattedVolume())
		fmt.Fprintf(w, "24h change:\t%s (%s)\n", change.Text, change.Style)
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// assetJSON is the --output json shape of one asset.
type assetJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	IconURL     string `json:"iconUrl"`
	Price       string `json:"price"`
	MarketCap   string `json:"marketCap"`
	Volume      string `json:"volume"`
	Change      string `json:"change"`
	ChangeStyle string `json:"changeStyle"`
}

func renderJSON(out io.Writer, assets []asset.DisplayAsset) error {
	docs := make([]assetJSON, 0, len(assets))
	for _, a := range assets {
		change := a.Change()
		docs = append(docs, assetJSON{
			ID:          a.ID(),
			Name:        a.Name(),
			Symbol:      a.Symbol(),
			IconURL:     a.IconURL(),
			Price:       a.FormattedPrice(),
			MarketCap:   a.FormattedMarketCap(),
			Volume:      a.FormattedVolume(),
			Change:      change.Text,
			ChangeStyle: string(change.Style),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
