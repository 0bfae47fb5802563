// Package detail holds the state machine behind a single-asset detail view.
//
// A View starts in Loading, issues one fetch per identifier, and ends a cycle in
// Ready (with a DisplayAsset) or Redirecting (the navigator has been told to go
// to the root). Every failure kind is collapsed into that one recovery action.
// Front-ends (terminal, web, plain text) drive the View and render its state.
package detail

import (
	"context"
	"fmt"
	"sync"

	"github.com/rshade/coinfocus/internal/asset"
	"github.com/rshade/coinfocus/internal/coincap"
	"github.com/rshade/coinfocus/internal/logging"
)

// State is the view state.
type State int

const (
	// StateLoading is the initial state and the state of every new cycle.
	StateLoading State = iota
	// StateReady holds the last successfully transformed asset.
	StateReady
	// StateRedirecting is terminal for the cycle; the navigator owns what happens next.
	StateRedirecting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRedirecting:
		return "redirecting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Fetcher retrieves one raw asset. *coincap.Client implements it.
type Fetcher interface {
	FetchAsset(ctx context.Context, identifier string) coincap.Result
}

// Navigator is the routing collaborator invoked on failure.
type Navigator interface {
	NavigateRoot()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

// NavigateRoot calls f.
func (f NavigatorFunc) NavigateRoot() { f() }

// Ticket identifies one fetch cycle.
type Ticket struct {
	Identifier string
	Generation uint64
}

// Completion is the result of Fetch, applied with Complete.
type Completion struct {
	Ticket Ticket
	Asset  asset.DisplayAsset
	Err    error
}

// View is one detail-view instance. Its methods are safe for concurrent use.
type View struct {
	fetcher      Fetcher
	navigator    Navigator
	assetOptions []asset.Option

	mu         sync.Mutex
	state      State
	identifier string
	generation uint64
	current    asset.DisplayAsset
	err        error
	closed     bool
}

// Option configures a View.
type Option func(*View)

// WithAssetOptions forwards options to asset.NewDisplayAsset.
func WithAssetOptions(opts ...asset.Option) Option {
	return func(v *View) {
		v.assetOptions = append(v.assetOptions, opts...)
	}
}

// New creates a View in StateLoading. No fetch is issued until Begin.
func New(fetcher Fetcher, navigator Navigator, opts ...Option) *View {
	v := &View{
		fetcher:   fetcher,
		navigator: navigator,
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Begin starts a new cycle for identifier: the view returns to Loading and any
// completion from an earlier cycle becomes stale. It returns false, and no cycle
// starts, once the view is closed or redirecting.
func (v *View) Begin(identifier string) (Ticket, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || v.state == StateRedirecting {
		return Ticket{Identifier: identifier, Generation: v.generation}, false
	}

	v.generation++
	v.identifier = identifier
	v.state = StateLoading
	v.current = asset.DisplayAsset{}
	v.err = nil
	return Ticket{Identifier: identifier, Generation: v.generation}, true
}

// Fetch performs the single network call for t and transforms the result. It
// does not touch the view state and never panics.
func (v *View) Fetch(ctx context.Context, t Ticket) (c Completion) {
	c.Ticket = t
	defer func() {
		if r := recover(); r != nil {
			c.Asset = asset.DisplayAsset{}
			c.Err = &coincap.Error{
				Kind:       coincap.KindMalformed,
				Identifier: t.Identifier,
				Err:        fmt.Errorf("transform panicked: %v", r),
			}
		}
	}()

	result := v.fetcher.FetchAsset(ctx, t.Identifier)
	raw, ok := result.Asset()
	if !ok {
		c.Err = result.Reason()
		return c
	}

	display, err := asset.NewDisplayAsset(raw, v.assetOptions...)
	if err != nil {
		c.Err = &coincap.Error{Kind: coincap.KindMalformed, Identifier: t.Identifier, Err: err}
		return c
	}
	c.Asset = display
	return c
}

// Complete applies c. It returns false, changing nothing, when the view has been
// closed or c belongs to an earlier cycle. On failure the navigator is invoked
// once, after the lock is released.
func (v *View) Complete(c Completion) bool {
	v.mu.Lock()
	if v.closed || c.Ticket.Generation != v.generation || v.state != StateLoading {
		v.mu.Unlock()
		return false
	}

	if c.Err == nil {
		v.state = StateReady
		v.current = c.Asset
		v.mu.Unlock()
		return true
	}

	v.state = StateRedirecting
	v.err = c.Err
	nav := v.navigator
	v.mu.Unlock()

	if nav != nil {
		nav.NavigateRoot()
	}
	return true
}

// Load runs Begin, Fetch and Complete in the calling goroutine and returns the
// resulting state. A closed or redirecting view issues no fetch.
func (v *View) Load(ctx context.Context, identifier string) State {
	t, ok := v.Begin(identifier)
	if !ok {
		return v.State()
	}
	c := v.Fetch(ctx, t)
	LogCompletion(ctx, c)
	v.Complete(c)
	return v.State()
}

// LogCompletion writes one log line describing c.
func LogCompletion(ctx context.Context, c Completion) {
	logger := logging.ComponentLogger(*logging.FromContext(ctx), "detail").With().
		Str("identifier", c.Ticket.Identifier).
		Uint64("generation", c.Ticket.Generation).
		Logger()

	if c.Err == nil {
		logger.Debug().Str("symbol", c.Asset.Symbol()).Msg("asset ready")
		return
	}
	kind, _ := coincap.KindOf(c.Err)
	logger.Warn().
		Str("kind", kind.String()).
		Err(c.Err).
		Msg("asset unavailable, redirecting to root")
}

// Close marks the view torn down; later completions are discarded.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Closed reports whether Close was called.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// State returns the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Asset returns the ready asset and true, or the zero value and false.
func (v *View) Asset() (asset.DisplayAsset, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.state == StateReady
}

// Identifier returns the identifier of the current cycle.
func (v *View) Identifier() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.identifier
}

// Generation returns the current cycle number.
func (v *View) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation
}

// Err returns why the current cycle redirected, for logging only.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}
