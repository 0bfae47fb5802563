package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/coinfocus/internal/asset"
	"github.com/rshade/coinfocus/internal/detail"
)

// Default dimensions before the first tea.WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// assetLoadedMsg carries a finished fetch back to the model that issued it.
type assetLoadedMsg struct {
	view       *detail.View
	completion detail.Completion
}

// DetailModel is the Bubble Tea model for one asset detail view.
type DetailModel struct {
	ctx        context.Context
	view       *detail.View
	identifier string
	loading    *LoadingState

	width  int
	height int
}

// NewDetailModel creates a detail model for identifier. The fetch starts in Init.
func NewDetailModel(
	ctx context.Context,
	fetcher detail.Fetcher,
	navigator detail.Navigator,
	identifier string,
	opts ...detail.Option,
) *DetailModel {
	if ctx == nil {
		ctx = context.Background()
	}
	return &DetailModel{
		ctx:        ctx,
		view:       detail.New(fetcher, navigator, opts...),
		identifier: identifier,
		loading:    NewLoadingState(),
		width:      defaultWidth,
		height:     defaultHeight,
	}
}

// Init begins the first fetch cycle.
func (m *DetailModel) Init() tea.Cmd {
	return m.SetIdentifier(m.identifier)
}

// SetIdentifier restarts the cycle for identifier, returning the fetch command.
// An in-flight fetch for an earlier identifier is not cancelled; its result is
// discarded when it arrives.
func (m *DetailModel) SetIdentifier(identifier string) tea.Cmd {
	ticket, ok := m.view.Begin(identifier)
	if !ok {
		return nil
	}
	m.identifier = identifier

	// Capture references before the goroutine to avoid touching the model concurrently.
	view := m.view
	ctx := m.ctx
	fetch := func() tea.Msg {
		return assetLoadedMsg{view: view, completion: view.Fetch(ctx, ticket)}
	}
	return tea.Batch(m.loading.Init(), fetch)
}

// Update handles messages for the detail view. Navigation keys are handled by App.
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case assetLoadedMsg:
		if msg.view != m.view {
			return m, nil
		}
		detail.LogCompletion(m.ctx, msg.completion)
		m.view.Complete(msg.completion)
		return m, nil

	case tea.KeyMsg:
		return m, nil
	}

	if m.view.State() == detail.StateLoading {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

// View renders the current state.
func (m *DetailModel) View() string {
	switch m.view.State() {
	case detail.StateLoading:
		return ContainerStyle.Render(m.loading.View())
	case detail.StateReady:
		a, _ := m.view.Asset()
		return ContainerStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				RenderAsset(a, m.contentWidth()),
				"",
				HelpStyle.Render(detailHelp),
			),
		)
	case detail.StateRedirecting:
		return ""
	}
	return ""
}

// SetSize records the terminal dimensions.
func (m *DetailModel) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
}

// Close tears down the view so a late fetch result is ignored.
func (m *DetailModel) Close() {
	m.view.Close()
}

// State returns the underlying view state.
func (m *DetailModel) State() detail.State {
	return m.view.State()
}

// Identifier returns the identifier of the current cycle.
func (m *DetailModel) Identifier() string {
	return m.identifier
}

// Asset returns the ready asset, if any.
func (m *DetailModel) Asset() (asset.DisplayAsset, bool) {
	return m.view.Asset()
}

func (m *DetailModel) contentWidth() int {
	w := m.width - ContainerStyle.GetHorizontalFrameSize()
	if w < minContentWidth {
		return minContentWidth
	}
	return w
}

// minContentWidth keeps the card readable on narrow terminals.
const minContentWidth = 32

// detailHelp lists the keys available on a ready detail view.
const detailHelp = "esc: home • q: quit"

// RenderAsset renders the asset card: centred name and symbol, then the boxed
// icon, price, market cap, volume and 24h change.
func RenderAsset(a asset.DisplayAsset, width int) string {
	center := CenterStyle.Width(width)

	var card strings.Builder
	card.WriteString(LogoStyle.Render(a.IconURL()))
	card.WriteString("\n\n")
	card.WriteString(ValueStyle.Render(a.Name() + " | " + a.Symbol()))
	card.WriteString("\n\n")
	card.WriteString(renderField("Price:      ", a.FormattedPrice()))
	card.WriteString("\n")
	card.WriteString(renderField("Market cap: ", a.FormattedMarketCap()))
	card.WriteString("\n")
	card.WriteString(renderField("Volume:     ", a.FormattedVolume()))
	card.WriteString("\n")
	change := a.Change()
	card.WriteString(LabelStyle.Render("24h change: "))
	card.WriteString(ChangeStyle(change.Style).Render(change.Text))

	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(a.Name()),
		center.Render(a.Symbol()),
		"",
		ContentStyle.Render(card.String()),
	)
}

func renderField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
