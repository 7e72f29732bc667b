package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/lightpollution"
	"github.com/litescript/nattklar/internal/state"
	"github.com/litescript/nattklar/internal/weather"
)

// Styles shared by the views
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	ratingStyles = map[weather.Rating]lipgloss.Style{
		weather.Good: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#34D399")),
		weather.Fair: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C4B5FD")),
		weather.Poor: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F87171")),
	}
)

// barWidth is the width of the condition bars.
const barWidth = 20

// DashboardModel is the tonight view: conditions and events of the
// selected night.
type DashboardModel struct {
	width    int
	height   int
	now      func() time.Time
	snapshot state.Snapshot
	lastErr  error
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(now func() time.Time) DashboardModel {
	if now == nil {
		now = time.Now
	}
	return DashboardModel{now: now}
}

// Init implements the Bubble Tea model interface.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	if snapshot.LastError == nil {
		m.lastErr = nil
	}
	return m
}

// SetError sets the last error for display.
func (m DashboardModel) SetError(err error) DashboardModel {
	m.lastErr = err
	return m
}

// Update handles messages. Night selection is handled by the root model.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	night, ok := m.snapshot.Night()
	if !ok {
		if m.lastErr == nil {
			b.WriteString("Waiting for forecast data...\n")
		}
		return b.String()
	}

	b.WriteString(m.renderNightTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderSolar(night.Solar))
	b.WriteString("\n\n")
	b.WriteString(m.renderConditions(night.Conditions))
	b.WriteString("\n")
	b.WriteString(m.renderAssessment(night))
	b.WriteString("\n\n")
	b.WriteString(m.renderEvents(night.Index))

	return b.String()
}

func (m DashboardModel) renderNightTabs() string {
	var parts []string
	for _, n := range m.snapshot.Forecast.Nights {
		label := nightLabel(n.Start)
		if n.Index == m.snapshot.SelectedNight {
			parts = append(parts, selectedRowStyle.Render(" "+label+" "))
		} else {
			parts = append(parts, dimStyle.Render(" "+label+" "))
		}
	}
	return "  " + strings.Join(parts, " ")
}

// nightLabel names a night by the weekday and date it starts on.
func nightLabel(start time.Time) string {
	local := astro.InOslo(start)
	return local.Format("Mon 02 Jan")
}

func (m DashboardModel) renderSolar(sp astro.SolarProperties) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sun"))
	b.WriteString("\n")

	switch {
	case sp.HasTransitions():
		fmt.Fprintf(&b, "  Sunset  %s   Sunrise %s   Night %s",
			astro.TimeOfDay(astro.InOslo(*sp.Sunset)),
			astro.TimeOfDay(astro.InOslo(*sp.Sunrise)),
			formatHours(sp.NightLength()))
	case sp.PolarDay():
		b.WriteString("  Midnight sun: the sun stays up all night")
	default:
		b.WriteString("  Polar night: the sun stays down all day")
	}
	fmt.Fprintf(&b, "\n  Sun at solar midnight %.1f°", sp.SolarMidnightElevation)
	return b.String()
}

func formatHours(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func (m DashboardModel) renderConditions(s weather.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Conditions"))
	b.WriteString("\n")

	clouds := s.MeanClouds()
	fmt.Fprintf(&b, "  %-8s %s %3.0f%%  (%d-%d%%)\n", "Clouds",
		renderBar(clouds/100, barWidth), clouds, s.MinClouds, s.MaxClouds)

	wind := s.MeanWind()
	fmt.Fprintf(&b, "  %-8s %s %3.1f m/s  (max %d)\n", "Wind",
		renderBar(wind/float64(s.MaxWind), barWidth), wind, s.MaxWind)

	fmt.Fprintf(&b, "  %-8s %d..%d °C\n", "Temp", s.MinTemp, s.MaxTemp)

	if s.AirPollution != nil {
		fmt.Fprintf(&b, "  %-8s %.1f AQI\n", "Air", *s.AirPollution)
	} else {
		fmt.Fprintf(&b, "  %-8s %s\n", "Air", dimStyle.Render("n/a"))
	}

	if li := m.snapshot.LightIndex; li != nil {
		fmt.Fprintf(&b, "  %-8s %s %d/%d\n", "Light",
			renderBar(float64(*li)/lightpollution.MaxIndex, barWidth), *li, lightpollution.MaxIndex)
	} else {
		fmt.Fprintf(&b, "  %-8s %s\n", "Light", dimStyle.Render("outside map"))
	}
	return b.String()
}

func (m DashboardModel) renderAssessment(n weather.Night) string {
	a := weather.Assess(n, m.snapshot.LightIndex, m.now())
	lines := strings.Split(a.Message(), "\n")
	style := ratingStyles[a.Rating]

	var b strings.Builder
	b.WriteString("  " + style.Render(lines[0]))
	for _, l := range lines[1:] {
		b.WriteString("\n  " + rowStyle.Render(l))
	}
	return b.String()
}

func (m DashboardModel) renderEvents(night int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tonight's events"))
	b.WriteString("\n")

	list := m.snapshot.EventsFor(night)
	if len(list) == 0 {
		b.WriteString(dimStyle.Render("  nothing special"))
		return b.String()
	}
	for _, e := range list {
		when := astro.TimeOfDay(astro.InOslo(e.When))
		fmt.Fprintf(&b, "  %s  %s  %s\n", when, rowStyle.Render(e.Title),
			dimStyle.Render(truncate(e.ShortDescription, 50)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderBar draws a fraction in [0,1] as a bracketed bar of width cells.
func renderBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style lipgloss.Style
	switch {
	case frac >= 0.8:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AAFF"))
	case frac >= 0.5:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD"))
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A189A"))
	}

	return "[" + style.Render(bar) + "]"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
