package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/events"
	"github.com/litescript/nattklar/internal/sky"
	"github.com/litescript/nattklar/internal/state"
	"github.com/litescript/nattklar/internal/weather"
)

// SnapshotExport is the JSON representation of the current state.
type SnapshotExport struct {
	GeneratedAt time.Time           `json:"generated_at"`
	FetchedAt   time.Time           `json:"fetched_at"`
	Location    astro.Observer      `json:"location"`
	LightIndex  *int                `json:"light_index,omitempty"`
	Nights      []NightExport       `json:"nights"`
	Rankings    []sky.Ranking       `json:"constellations,omitempty"`
	Events      []events.NightEvent `json:"events,omitempty"`
}

// NightExport is one night with its derived assessment.
type NightExport struct {
	weather.Night
	Rating  string `json:"rating"`
	Message string `json:"message"`
}

// ExportSnapshot converts a snapshot to its exportable form.
func ExportSnapshot(snap state.Snapshot, now time.Time) *SnapshotExport {
	export := &SnapshotExport{
		GeneratedAt: now,
		FetchedAt:   snap.LastFetch,
		Location:    snap.Location,
		LightIndex:  snap.LightIndex,
		Rankings:    snap.Rankings,
		Events:      snap.NightEvents,
	}
	if snap.Forecast == nil {
		return export
	}
	for _, n := range snap.Forecast.Nights {
		a := weather.Assess(n, snap.LightIndex, now)
		export.Nights = append(export.Nights, NightExport{
			Night:   n,
			Rating:  a.Rating.String(),
			Message: a.Message(),
		})
	}
	return export
}

// WriteJSON writes the export as indented JSON.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes the forecast as a text table.
func WriteSummaryTable(w io.Writer, snap state.Snapshot, now time.Time) {
	where := snap.Location.Name
	if where == "" {
		where = fmt.Sprintf("%.4f, %.4f", snap.Location.LatDeg, snap.Location.LonDeg)
	}
	fmt.Fprintf(w, "Stargazing at %s @ %s\n", where, astro.DateAndTime(astro.InOslo(now), false))
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if snap.Forecast == nil || len(snap.Forecast.Nights) == 0 {
		fmt.Fprintln(w, "No forecast")
		return
	}

	fmt.Fprintf(w, "%-11s %-6s %-6s %-7s %-7s %-6s %-6s %-5s\n",
		"Night", "Sunset", "Rise", "Clouds", "Wind", "Temp", "AQI", "Rating")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, n := range snap.Forecast.Nights {
		sunset, sunrise := "-", "-"
		switch {
		case n.Solar.HasTransitions():
			sunset = astro.TimeOfDay(astro.InOslo(*n.Solar.Sunset))
			sunrise = astro.TimeOfDay(astro.InOslo(*n.Solar.Sunrise))
		case n.Solar.PolarDay():
			sunset, sunrise = "sun", "up"
		default:
			sunset, sunrise = "dark", "all"
		}
		aqi := "n/a"
		if p := n.Conditions.AirPollution; p != nil {
			aqi = fmt.Sprintf("%.1f", *p)
		}
		a := weather.Assess(n, snap.LightIndex, now)
		fmt.Fprintf(w, "%-11s %-6s %-6s %5.0f%%  %4.1f    %3d°C  %-6s %s\n",
			nightLabel(n.Start),
			sunset,
			sunrise,
			n.Conditions.MeanClouds(),
			n.Conditions.MeanWind(),
			n.Conditions.MinTemp,
			aqi,
			a.Rating,
		)
	}

	if snap.LightIndex != nil {
		fmt.Fprintf(w, "\nLight pollution index: %d\n", *snap.LightIndex)
	}
	if n, ok := snap.Night(); ok {
		fmt.Fprintf(w, "\n%s\n", weather.Assess(n, snap.LightIndex, now).Message())
	}
	if len(snap.Rankings) > 0 {
		fmt.Fprintln(w, "\nBest constellations:")
		for _, r := range snap.Rankings[:min(5, len(snap.Rankings))] {
			fmt.Fprintf(w, "  %-20s %3.0f%%\n", truncate(r.Name, 20), r.Visibility*100)
		}
	}
}

// WriteEvents writes up to limit night events, all when limit is 0.
func WriteEvents(w io.Writer, list []events.NightEvent, limit int) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No upcoming events")
		return
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	for _, e := range list {
		fmt.Fprintf(w, "%s  %-28s %s\n",
			astro.DateAndTime(astro.InOslo(e.When), false),
			truncate(e.Title, 28),
			e.ShortDescription)
	}
}
