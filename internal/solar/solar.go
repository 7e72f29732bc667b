// Package solar supplies sunset, sunrise and midnight sun elevation for a
// location and date.
package solar

import (
	"context"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/logging"
)

// Source looks up solar properties for the night that starts on date
// (formatted as astro.DateLayout) at obs.
type Source interface {
	Name() string
	SolarProperties(ctx context.Context, obs astro.Observer, date string) (astro.SolarProperties, error)
}

// ParseDate parses a date key in astro.DateLayout as a UTC midnight.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(astro.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return d, nil
}

// Local computes solar properties offline. Sunset is taken on date and
// sunrise on the following day.
type Local struct{}

// NewLocal returns an offline solar source.
func NewLocal() Local { return Local{} }

// Name returns the source name.
func (Local) Name() string { return "local" }

// SolarProperties implements Source.
func (Local) SolarProperties(ctx context.Context, obs astro.Observer, date string) (astro.SolarProperties, error) {
	if err := ctx.Err(); err != nil {
		return astro.SolarProperties{}, err
	}
	day, err := ParseDate(date)
	if err != nil {
		return astro.SolarProperties{}, err
	}

	sp := astro.SolarProperties{
		SolarMidnightElevation: astro.SolarMidnightElevation(day, obs),
	}

	_, set := sunrise.SunriseSunset(obs.LatDeg, obs.LonDeg, day.Year(), day.Month(), day.Day())
	next := day.AddDate(0, 0, 1)
	rise, _ := sunrise.SunriseSunset(obs.LatDeg, obs.LonDeg, next.Year(), next.Month(), next.Day())

	// go-sunrise reports polar day and night as zero times
	if !set.IsZero() && !rise.IsZero() {
		set, rise = set.UTC(), rise.UTC()
		sp.Sunset = &set
		sp.Sunrise = &rise
	}
	return sp, nil
}

// Fallback asks the primary source first and the secondary source when
// the primary fails.
type Fallback struct {
	primary   Source
	secondary Source
	logger    *logging.Logger
}

// NewFallback combines two sources.
func NewFallback(primary, secondary Source, logger *logging.Logger) *Fallback {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Name returns the combined source name.
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// SolarProperties implements Source.
func (f *Fallback) SolarProperties(ctx context.Context, obs astro.Observer, date string) (astro.SolarProperties, error) {
	sp, err := f.primary.SolarProperties(ctx, obs, date)
	if err == nil {
		return sp, nil
	}
	if ctx.Err() != nil {
		return astro.SolarProperties{}, err
	}
	f.logger.Warn("%s failed for %s, using %s: %v", f.primary.Name(), date, f.secondary.Name(), err)
	return f.secondary.SolarProperties(ctx, obs, date)
}
