package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/nattklar/internal/articles"
	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/sky"
	"github.com/litescript/nattklar/internal/state"
)

const (
	// Star glyphs by magnitude
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '·' // mag 3.0-4.0
	glyphStarVeryDim = '·' // mag > 4.0

	// Star colors
	colorStarBright  = "255"
	colorStarMedium  = "250"
	colorStarDim     = "244"
	colorStarVeryDim = "240"

	// Members of the focused constellation
	colorFocused = "229"

	// rankingRows is how many constellations the list shows.
	rankingRows = 12
)

// SkyViewModel lists constellations by visibility and draws the current
// sky as an azimuth/altitude chart.
type SkyViewModel struct {
	width  int
	height int
	now    func() time.Time

	cursor   int
	offset   int
	stars    []astro.Star
	library  *articles.Library
	rankings []sky.Ranking
	observer astro.Observer
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel(stars []astro.Star, library *articles.Library, now func() time.Time) SkyViewModel {
	if now == nil {
		now = time.Now
	}
	return SkyViewModel{stars: stars, library: library, now: now}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with new data snapshot.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	m.rankings = snapshot.Rankings
	m.observer = snapshot.Location
	if m.cursor >= len(m.rankings) {
		m.cursor = 0
		m.offset = 0
	}
	return m
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rankings)-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if len(m.rankings) > 0 {
				m.cursor = len(m.rankings) - 1
			}
		}
		switch {
		case m.cursor < m.offset:
			m.offset = m.cursor
		case m.cursor >= m.offset+rankingRows:
			m.offset = m.cursor - rankingRows + 1
		}
	}
	return m, nil
}

// Selected returns the constellation under the cursor.
func (m SkyViewModel) Selected() (sky.Ranking, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rankings) {
		return sky.Ranking{}, false
	}
	return m.rankings[m.cursor], true
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if len(m.rankings) == 0 {
		return "Waiting for constellation data...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Constellations tonight"))
	b.WriteString("\n")
	b.WriteString(m.renderRankings())
	b.WriteString(m.renderArticles())

	if m.width >= 40 && m.height >= rankingRows+8 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Sky now"))
		b.WriteString(dimStyle.Render("  N    E    S    W across, horizon at bottom"))
		b.WriteString("\n")
		b.WriteString(m.renderSkyCanvas(m.width-4, m.height-rankingRows-6))
	}
	return b.String()
}

func (m SkyViewModel) renderRankings() string {
	var b strings.Builder
	header := fmt.Sprintf("%-20s %-22s %s", "Constellation", "Visible", "")
	b.WriteString("  " + headerStyle.Render(header) + "\n")

	end := min(m.offset+rankingRows, len(m.rankings))
	for i := m.offset; i < end; i++ {
		r := m.rankings[i]
		line := fmt.Sprintf("%-20s %s %3.0f%%", truncate(r.Name, 20), renderBar(r.Visibility, barWidth), r.Visibility*100)
		if i == m.cursor {
			b.WriteString("  " + selectedRowStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + rowStyle.Render(line) + "\n")
		}
	}
	if len(m.rankings) > rankingRows {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(m.rankings))))
		b.WriteString("\n")
	}
	return b.String()
}

// renderArticles lists the articles about the selected constellation.
func (m SkyViewModel) renderArticles() string {
	focus, ok := m.Selected()
	if !ok || m.library == nil {
		return ""
	}
	list := m.library.ByConstellation(focus.Name)
	if len(list) == 0 {
		return ""
	}
	titles := make([]string, 0, len(list))
	for _, a := range list {
		titles = append(titles, a.Title)
	}
	return dimStyle.Render("  Read more: ") + rowStyle.Render(strings.Join(titles, ", ")) + "\n"
}

// renderSkyCanvas plots the catalog stars above the horizon. Stars of the
// selected constellation are highlighted.
func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	if width <= 0 || height <= 1 {
		return ""
	}
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", width))
		colors[y] = make([]lipgloss.Color, width)
	}

	// Horizon
	horizonY := height - 1
	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}
	for _, c := range []struct {
		label string
		az    float64
	}{{"N", 0}, {"E", 90}, {"S", 180}, {"W", 270}} {
		x, _ := projectToScreen(c.az, 0, width, height)
		canvas[horizonY][x] = rune(c.label[0])
		colors[horizonY][x] = "252"
	}

	focus, _ := m.Selected()
	t := m.now()
	for _, s := range m.stars {
		pos := astro.Position(t, m.observer, s)
		if pos.AltDeg <= astro.MinElevation {
			continue
		}
		x, y := projectToScreen(pos.AzDeg, pos.AltDeg, width, height)
		glyph, color := starGlyph(s.ApparentMagnitude)
		if focus.Name != "" && s.Constellation == focus.Name {
			glyph, color = glyphStarBright, colorFocused
		} else if canvas[y][x] != ' ' {
			continue
		}
		canvas[y][x] = glyph
		colors[y][x] = color
	}

	var b strings.Builder
	for y := range canvas {
		b.WriteString("  ")
		for x, r := range canvas[y] {
			if colors[y][x] == "" {
				b.WriteRune(r)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(colors[y][x]).Render(string(r)))
		}
		if y < len(canvas)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// starGlyph returns the glyph and color for a star of the given magnitude.
func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, colorStarBright
	case mag < 3.0:
		return glyphStarMedium, colorStarMedium
	case mag < 4.0:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarVeryDim, colorStarVeryDim
	}
}

// projectToScreen maps azimuth 0..360 across the width and altitude 0..90
// from the horizon row up to the top row.
func projectToScreen(az, alt float64, width, height int) (x, y int) {
	az = normalizeAngle360(az)
	horizonY := height - 1
	x = min(int(az/360*float64(width)), width-1)
	y = horizonY - int(alt/90*float64(horizonY))
	y = min(max(y, 0), horizonY)
	return x, y
}

func normalizeAngle360(a float64) float64 {
	for a < 0 {
		a += 360
	}
	for a >= 360 {
		a -= 360
	}
	return a
}
