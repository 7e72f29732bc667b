package ui

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/events"
	"github.com/litescript/nattklar/internal/sky"
	"github.com/litescript/nattklar/internal/state"
	"github.com/litescript/nattklar/internal/weather"
)

var (
	oslo    = astro.Observer{LatDeg: 59.9139, LonDeg: 10.7522, Name: "Oslo"}
	testNow = time.Date(2024, 10, 19, 12, 0, 0, 0, time.UTC)
)

func ptr[T any](v T) *T { return &v }

// testNight builds a clear night starting on the given October 2024 day.
func testNight(day int) weather.Night {
	start := time.Date(2024, 10, day, 18, 0, 0, 0, time.UTC)
	idx := astro.NightIndex(start)
	return weather.Night{
		Index: idx,
		Start: astro.NightStart(idx),
		Solar: astro.SolarProperties{
			Sunset:                 ptr(time.Date(2024, 10, day, 16, 57, 0, 0, time.UTC)),
			Sunrise:                ptr(time.Date(2024, 10, day+1, 6, 21, 0, 0, time.UTC)),
			SolarMidnightElevation: -33.7,
		},
		Conditions: weather.Summarize(
			[]time.Time{start, start.Add(time.Hour)},
			[]int{2, 3}, []int{0, 0}, []int{1, 1}, nil),
	}
}

func testForecast() *weather.Forecast {
	return &weather.Forecast{
		Location: oslo,
		Nights:   []weather.Night{testNight(19), testNight(20)},
	}
}

func testManager(t *testing.T) *state.Manager {
	t.Helper()
	mgr := state.NewManager(state.DefaultConfig())
	tok := mgr.Begin(oslo)
	res := state.Result{
		Forecast: testForecast(),
		Rankings: []sky.Ranking{{Name: "Cassiopeia", Visibility: 1}, {Name: "Orion", Visibility: 0.4}},
	}
	if !mgr.Complete(tok, res) {
		t.Fatal("Complete() dropped the result")
	}
	mgr.SetNightEvents([]events.NightEvent{{
		When:             time.Date(2024, 10, 19, 20, 0, 0, 0, time.UTC),
		Type:             "meteor shower",
		Title:            "Orionids",
		ShortDescription: "Up to 20 meteors per hour",
		Description:      "The Orionids peak this week.",
	}})
	return mgr
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return model, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewSwitching(t *testing.T) {
	m := New(testManager(t), WithClock(func() time.Time { return testNow }))

	tests := []struct {
		key  string
		want ViewMode
	}{
		{"2", ViewSky},
		{"3", ViewEvents},
		{"t", ViewTonight},
		{"tab", ViewSky},
		{"tab", ViewEvents},
		{"tab", ViewTonight},
		{"e", ViewEvents},
	}
	for _, tt := range tests {
		m, _ = update(t, m, key(tt.key))
		if m.viewMode != tt.want {
			t.Errorf("after %q view = %d, want %d", tt.key, m.viewMode, tt.want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := New(testManager(t))
	_, cmd := update(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestNightStepping(t *testing.T) {
	mgr := testManager(t)
	m := New(mgr, WithClock(func() time.Time { return testNow }))
	m, _ = update(t, m, TickMsg(testNow))

	nights := testForecast().Nights
	if got := mgr.Snapshot().SelectedNight; got != nights[0].Index {
		t.Fatalf("initial night = %d, want %d", got, nights[0].Index)
	}

	m, _ = update(t, m, key("right"))
	if got := mgr.Snapshot().SelectedNight; got != nights[1].Index {
		t.Errorf("after right night = %d, want %d", got, nights[1].Index)
	}

	// Stepping past the end stays on the last night
	m, _ = update(t, m, key("l"))
	if got := mgr.Snapshot().SelectedNight; got != nights[1].Index {
		t.Errorf("past end night = %d, want %d", got, nights[1].Index)
	}

	update(t, m, key("left"))
	if got := mgr.Snapshot().SelectedNight; got != nights[0].Index {
		t.Errorf("after left night = %d, want %d", got, nights[0].Index)
	}
}

func TestNightSteppingWithoutForecast(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	m := New(mgr)
	m, _ = update(t, m, key("right"))
	if m.statusMsg != "" {
		t.Errorf("statusMsg = %q, want empty", m.statusMsg)
	}
}

func TestRefreshKey(t *testing.T) {
	done := make(chan struct{})
	m := New(testManager(t), WithRefresh(func() { close(done) }))
	m, _ = update(t, m, key("r"))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh not called")
	}
	if m.statusMsg == "" {
		t.Error("refresh should set a status message")
	}
}

func TestViewRendersActiveTab(t *testing.T) {
	m := New(testManager(t), WithClock(func() time.Time { return testNow }))
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before size = %q", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 60})
	m, _ = update(t, m, TickMsg(testNow))

	view := m.View()
	for _, want := range []string{"Oslo", "Tonight", "Conditions", "Good stargazing conditions!", "Orionids"} {
		if !strings.Contains(view, want) {
			t.Errorf("tonight view missing %q", want)
		}
	}

	m, _ = update(t, m, key("2"))
	view = m.View()
	for _, want := range []string{"Constellations tonight", "Cassiopeia", "Orion"} {
		if !strings.Contains(view, want) {
			t.Errorf("sky view missing %q", want)
		}
	}

	m, _ = update(t, m, key("3"))
	view = m.View()
	for _, want := range []string{"Night events", "The Orionids peak this week."} {
		if !strings.Contains(view, want) {
			t.Errorf("events view missing %q", want)
		}
	}
}

func TestGradientColor(t *testing.T) {
	tests := []struct {
		name     string
		col, row int
		want     string
	}{
		{"left edge", 0, 0, "#1E3A8A"},
		{"middle", 50, 0, "#7C3AED"},
		{"right edge", 100, 0, "#34D399"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gradientColor(tt.col, tt.row, 100, 6); got != tt.want {
				t.Errorf("gradientColor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderTwinkleKeepsText(t *testing.T) {
	m := Model{}
	for tick := 0; tick < 30; tick++ {
		m.animTick = tick
		if got := m.renderTwinkle("Fetching forecast..."); !strings.Contains(stripped(got), "Fetching forecast...") {
			t.Fatalf("tick %d: renderTwinkle() lost text: %q", tick, got)
		}
	}
	if got := m.renderTwinkle(""); got != "" {
		t.Errorf("renderTwinkle(\"\") = %q", got)
	}
}

// stripped removes ANSI escape sequences.
func stripped(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
