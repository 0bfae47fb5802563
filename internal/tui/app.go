package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/coinfocus/internal/detail"
	"github.com/rshade/coinfocus/internal/logging"
)

// Route identifies the screen App is showing.
type Route int

const (
	// RouteHome is the application root: an identifier prompt.
	RouteHome Route = iota
	// RouteDetail shows one asset.
	RouteDetail
	// RouteQuitting is set once the program is exiting.
	RouteQuitting
)

// Key bindings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
)

const homeHelp = "enter: open • esc: quit"

// App routes between the home prompt and the detail view. It is the detail
// view's navigation collaborator.
type App struct {
	ctx      context.Context
	fetcher  detail.Fetcher
	viewOpts []detail.Option

	route  Route
	input  textinput.Model
	detail *DetailModel

	width  int
	height int
}

// NewApp creates an App on the home route.
func NewApp(ctx context.Context, fetcher detail.Fetcher, opts ...detail.Option) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	return &App{
		ctx:      ctx,
		fetcher:  fetcher,
		viewOpts: opts,
		route:    RouteHome,
		input:    newIdentifierInput(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

// NewAppAt creates an App that opens identifier on start.
func NewAppAt(ctx context.Context, fetcher detail.Fetcher, identifier string, opts ...detail.Option) *App {
	a := NewApp(ctx, fetcher, opts...)
	a.mountDetail(identifier)
	return a
}

func newIdentifierInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "bitcoin"
	ti.Prompt = "Asset: "
	ti.CharLimit = 64
	ti.Focus()
	return ti
}

// Init starts the mounted screen.
func (a *App) Init() tea.Cmd {
	if a.route == RouteDetail && a.detail != nil {
		return a.detail.Init()
	}
	return textinput.Blink
}

// Update routes msg to the active screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = winMsg.Width
		a.height = winMsg.Height
		if a.detail != nil {
			a.detail.SetSize(winMsg.Width, winMsg.Height)
		}
		return a, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyCtrlC {
		return a.quit()
	}

	switch a.route {
	case RouteHome:
		return a.updateHome(msg)
	case RouteDetail:
		return a.updateDetail(msg)
	case RouteQuitting:
		return a, nil
	}
	return a, nil
}

func (a *App) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			return a.quit()
		case keyEnter:
			identifier := strings.TrimSpace(a.input.Value())
			if identifier == "" {
				return a, nil
			}
			return a, a.Open(identifier)
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit:
			return a.quit()
		case keyEsc:
			a.NavigateRoot()
			return a, textinput.Blink
		}
	}

	d := a.detail
	if d == nil {
		return a, nil
	}
	_, cmd := d.Update(msg)

	// A failed fetch calls NavigateRoot from inside d.Update.
	if a.route == RouteHome {
		return a, textinput.Blink
	}
	return a, cmd
}

// Open shows identifier on the detail route. When a detail view is already
// mounted its cycle restarts for the new identifier.
func (a *App) Open(identifier string) tea.Cmd {
	if a.route == RouteDetail && a.detail != nil {
		return a.detail.SetIdentifier(identifier)
	}
	a.mountDetail(identifier)
	return a.detail.Init()
}

func (a *App) mountDetail(identifier string) {
	ctx := logging.ContextWithTraceID(a.ctx, logging.GenerateTraceID())
	a.detail = NewDetailModel(ctx, a.fetcher, a, identifier, a.viewOpts...)
	a.detail.SetSize(a.width, a.height)
	a.route = RouteDetail
	a.input.Blur()
}

// NavigateRoot implements detail.Navigator: the detail view is torn down and the
// home prompt is shown again.
func (a *App) NavigateRoot() {
	if a.detail != nil {
		a.detail.Close()
		a.detail = nil
	}
	a.route = RouteHome
	a.input.Reset()
	a.input.Focus()
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	if a.detail != nil {
		a.detail.Close()
	}
	a.route = RouteQuitting
	return a, tea.Quit
}

// View renders the active screen.
func (a *App) View() string {
	switch a.route {
	case RouteHome:
		return ContainerStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			CenterStyle.Render("coinfocus"),
			"",
			a.input.View(),
			"",
			HelpStyle.Render(homeHelp),
		))
	case RouteDetail:
		if a.detail != nil {
			return a.detail.View()
		}
	case RouteQuitting:
		return ""
	}
	return ""
}

// Route returns the active route.
func (a *App) Route() Route {
	return a.route
}

// Detail returns the mounted detail model, or nil on the home route.
func (a *App) Detail() *DetailModel {
	return a.detail
}
