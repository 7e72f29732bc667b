package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/events"
	"github.com/litescript/nattklar/internal/state"
)

// EventsViewModel lists the upcoming night events with the description of
// the selected one.
type EventsViewModel struct {
	width  int
	height int
	cursor int
	list   []events.NightEvent
	log    []state.Event
}

// NewEventsViewModel creates a new events view model.
func NewEventsViewModel() EventsViewModel {
	return EventsViewModel{}
}

// SetSize updates the viewport size.
func (m EventsViewModel) SetSize(width, height int) EventsViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with new data snapshot.
func (m EventsViewModel) UpdateData(snapshot state.Snapshot) EventsViewModel {
	m.list = snapshot.NightEvents
	m.log = snapshot.Events
	if m.cursor >= len(m.list) {
		m.cursor = max(len(m.list)-1, 0)
	}
	return m
}

// Update handles messages.
func (m EventsViewModel) Update(msg tea.Msg) (EventsViewModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// View renders the events view.
func (m EventsViewModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Night events"))
	b.WriteString("\n")

	if len(m.list) == 0 {
		b.WriteString(dimStyle.Render("  No upcoming events"))
		b.WriteString("\n")
	}
	for i, e := range m.list {
		line := fmt.Sprintf("%s  %-28s %s",
			astro.DateAndTime(astro.InOslo(e.When), false),
			truncate(e.Title, 28),
			truncate(e.ShortDescription, 40))
		if i == m.cursor {
			b.WriteString("  " + selectedRowStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + rowStyle.Render(line) + "\n")
		}
	}

	if m.cursor < len(m.list) {
		if desc := m.list[m.cursor].Description; desc != "" {
			b.WriteString("\n")
			b.WriteString(wrap(desc, max(m.width-4, 20)))
			b.WriteString("\n")
		}
	}

	if len(m.log) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Activity"))
		b.WriteString("\n")
		start := max(len(m.log)-5, 0)
		for _, ev := range m.log[start:] {
			fmt.Fprintf(&b, "  %s %s\n",
				dimStyle.Render(astro.TimeOfDay(astro.InOslo(ev.Timestamp))),
				rowStyle.Render(ev.Message))
		}
	}
	return b.String()
}

// wrap breaks text into indented lines of at most width runes.
func wrap(text string, width int) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return "  " + strings.Join(lines, "\n  ")
}
