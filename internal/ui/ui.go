// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/nattklar/internal/articles"
	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/state"
	"github.com/litescript/nattklar/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewTonight ViewMode = iota
	ViewSky
	ViewEvents
	numViews
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new forecast is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a fetch error.
	ErrorMsg struct {
		Error error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	refresh func()
	stars   []astro.Star
	library *articles.Library
	now     func() time.Time

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Sub-models
	dashboard  DashboardModel
	skyView    SkyViewModel
	eventsView EventsViewModel

	snapshot state.Snapshot
}

// Option configures the root model.
type Option func(*Model)

// WithRefresh sets the function run when the user asks for fresh data.
func WithRefresh(fn func()) Option {
	return func(m *Model) {
		m.refresh = fn
	}
}

// WithStars sets the stars drawn in the sky view.
func WithStars(stars []astro.Star) Option {
	return func(m *Model) {
		m.stars = stars
	}
}

// WithArticles sets the library the sky view links articles from.
func WithArticles(lib *articles.Library) Option {
	return func(m *Model) {
		m.library = lib
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts ...Option) Model {
	m := Model{
		state:    stateMgr,
		now:      time.Now,
		viewMode: ViewTonight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.dashboard = NewDashboardModel(m.now)
	m.skyView = NewSkyViewModel(m.stars, m.library, m.now)
	m.eventsView = NewEventsViewModel()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "t":
			m.viewMode = ViewTonight
		case "2", "s":
			m.viewMode = ViewSky
		case "3", "e":
			m.viewMode = ViewEvents

		case "tab":
			m.viewMode = (m.viewMode + 1) % numViews

		case "left", "h":
			m.stepNight(-1)
		case "right", "l":
			m.stepNight(1)

		case "r":
			if m.refresh != nil {
				m.statusMsg = "Refreshing forecast..."
				go m.refresh()
			}

		default:
			// Pass to active view
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo and tabs take ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 12
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.eventsView = m.eventsView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.setSnapshot(m.state.Snapshot())

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.statusMsg = ""
		m.setSnapshot(msg.Snapshot)

	case ErrorMsg:
		m.dashboard = m.dashboard.SetError(msg.Error)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.dashboard = m.dashboard.UpdateData(snap)
	m.skyView = m.skyView.UpdateData(snap)
	m.eventsView = m.eventsView.UpdateData(snap)
}

// stepNight moves the night selection by delta within the forecast.
func (m *Model) stepNight(delta int) {
	f := m.snapshot.Forecast
	if f == nil || len(f.Nights) == 0 {
		return
	}
	pos := 0
	for i, n := range f.Nights {
		if n.Index == m.snapshot.SelectedNight {
			pos = i
		}
	}
	pos = min(max(pos+delta, 0), len(f.Nights)-1)
	if err := m.state.SelectNight(f.Nights[pos].Index); err != nil {
		if !errors.Is(err, state.ErrNoForecast) {
			m.statusMsg = err.Error()
		}
		return
	}
	m.setSnapshot(m.state.Snapshot())
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewTonight:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewEvents:
		m.eventsView, cmd = m.eventsView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewTonight:
		content = m.dashboard.View()
	case ViewSky:
		content = m.skyView.View()
	case ViewEvents:
		content = m.eventsView.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderStatusLine()
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ███╗   ██╗ █████╗ ████████╗████████╗██╗  ██╗██╗      █████╗ ██████╗ `,
		`  ████╗  ██║██╔══██╗╚══██╔══╝╚══██╔══╝██║ ██╔╝██║     ██╔══██╗██╔══██╗`,
		`  ██╔██╗ ██║███████║   ██║      ██║   █████╔╝ ██║     ███████║██████╔╝`,
		`  ██║╚██╗██║██╔══██║   ██║      ██║   ██╔═██╗ ██║     ██╔══██║██╔══██╗`,
		`  ██║ ╚████║██║  ██║   ██║      ██║   ██║  ██╗███████╗██║  ██║██║  ██║`,
		`  ╚═╝  ╚═══╝╚═╝  ╚═╝   ╚═╝      ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	// Render each line with a horizontal truecolor gradient
	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	where := m.snapshot.Location.Name
	if where == "" {
		where = fmt.Sprintf("%.2f, %.2f", m.snapshot.Location.LatDeg, m.snapshot.Location.LonDeg)
	}
	b.WriteString(muted.Render(fmt.Sprintf("  Stargazing conditions · %s · v%s", where, version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// logoStops are the gradient colors across the logo: navy, violet, then a
// pale aurora green.
var logoStops = [][3]float64{
	{30, 58, 138},
	{124, 58, 237},
	{52, 211, 153},
}

// gradientColor returns the hex color of a logo cell. Color runs along
// the stops left to right and dims by up to 40% toward the bottom row.
func gradientColor(col, row, width, height int) string {
	pos := float64(col) / float64(width) * float64(len(logoStops)-1)
	i := min(int(pos), len(logoStops)-2)
	t := pos - float64(i)
	dim := 1.0 - 0.4*float64(row)/float64(height)

	var rgb [3]int
	for c := range rgb {
		from, to := logoStops[i][c], logoStops[i+1][c]
		rgb[c] = clampByte((from + t*(to-from)) * dim)
	}
	return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])
}

func clampByte(v float64) int {
	return min(max(int(v), 0), 255)
}

func (m Model) renderStatusLine() string {
	tabs := m.renderTabs()
	return tabs + "\n"
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Tonight", "[2] Sky", "[3] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.Loading:
		status = accentStyle.Render(spinner) + " " + m.renderTwinkle("Fetching forecast...")
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastFetch.IsZero():
		age := m.now().Sub(m.snapshot.LastFetch).Round(time.Minute)
		status = dimStyle.Render(fmt.Sprintf("updated %s ago", age))
		if m.snapshot.FetchDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.FetchDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + " " + m.renderTwinkle("Waiting for data...")
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = dimStyle.Render("↑↓: constellation | ←/→: night | r: refresh")
	case ViewEvents:
		help = dimStyle.Render("↑↓: event | r: refresh")
	default:
		help = dimStyle.Render("←/→: night | tab: switch view | r: refresh")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}

	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// twinkleLevels are the shades a character passes through as the
// twinkle moves over it, brightest first.
var twinkleLevels = []lipgloss.Color{"#E0F2FE", "#A5B4FC", "#818CF8", "#6366F1", "#4C5A8A"}

// renderTwinkle renders text with a bright spot sweeping across it, one
// character per animation tick.
func (m Model) renderTwinkle(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	pos := m.animTick%(len(runes)+len(twinkleLevels)) - 1

	var b strings.Builder
	for i, r := range runes {
		dist := i - pos
		if dist < 0 {
			dist = -dist
		}
		level := twinkleLevels[min(dist, len(twinkleLevels)-1)]
		b.WriteString(lipgloss.NewStyle().Foreground(level).Render(string(r)))
	}
	return b.String()
}
