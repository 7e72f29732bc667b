// Package events manages the list of upcoming night events, including
// polar light alerts derived from the NOAA three-day KP forecast.
package events

import (
	"strings"
	"time"

	"github.com/litescript/nattklar/internal/astro"
)

// TypePolarLight is the event type of generated polar light alerts.
const TypePolarLight = "polar light"

// fieldCount is the number of '|' separated fields in a stored event.
const fieldCount = 5

// NightEvent is something worth going outside for on a given night.
type NightEvent struct {
	When             time.Time `json:"when"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Description      string    `json:"description"`
}

// Night returns the night index the event is shown on.
func (e NightEvent) Night() int {
	return astro.NightIndex(e.When)
}

// IsPolarLight reports whether e is a polar light alert.
func (e NightEvent) IsPolarLight() bool {
	return e.Type == TypePolarLight
}

// sameEvent compares identity, ignoring the zone the time is held in.
func sameEvent(a, b NightEvent) bool {
	return a.When.Equal(b.When) && a.Type == b.Type && a.Title == b.Title
}

var fieldSanitizer = strings.NewReplacer("|", "/", "\r", " ", "\n", " ")

// Line renders the event in the stored text format.
func (e NightEvent) Line() string {
	fields := []string{
		astro.DateAndTime(e.When, true),
		e.Type,
		e.Title,
		e.ShortDescription,
		e.Description,
	}
	for i := range fields {
		fields[i] = fieldSanitizer.Replace(fields[i])
	}
	return strings.Join(fields, "|")
}

// ParseLine decodes one stored line. Lines without exactly five fields or
// with an unreadable timestamp are rejected.
func ParseLine(line string) (NightEvent, bool) {
	fields := strings.Split(strings.TrimRight(line, "\r"), "|")
	if len(fields) != fieldCount {
		return NightEvent{}, false
	}
	when, err := astro.ParseUTC(strings.TrimSpace(fields[0]))
	if err != nil {
		return NightEvent{}, false
	}
	return NightEvent{
		When:             when,
		Type:             fields[1],
		Title:            fields[2],
		ShortDescription: fields[3],
		Description:      fields[4],
	}, true
}

// ParseEvents decodes a stored event list, skipping malformed lines.
func ParseEvents(text string) []NightEvent {
	var out []NightEvent
	for _, line := range strings.Split(text, "\n") {
		if e, ok := ParseLine(line); ok {
			out = append(out, e)
		}
	}
	return out
}

// FormatEvents renders events one per line.
func FormatEvents(events []NightEvent) string {
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.Line()
	}
	return strings.Join(lines, "\n")
}
