package astro

import (
	"math"
	"time"
)

// MinElevation is the altitude above which a star counts as visible.
const MinElevation = 0.0

// MaxVisibleHours returns how many hours per sidereal day a body at
// declination decDeg stays above the horizon at latitude latDeg, ignoring
// daylight. Circumpolar bodies yield 24 and bodies that never rise yield 0.
func MaxVisibleHours(latDeg, decDeg float64) float64 {
	x := -math.Tan(degToRad(latDeg)) * math.Tan(degToRad(decDeg))
	switch {
	case x <= -1:
		return 24
	case x >= 1:
		return 0
	}
	return 2.0 / 15.0 * radToDeg(math.Acos(x))
}

// VisibleHoursFraction returns the fraction of the night's hourly samples,
// sunset to sunrise, at which the star is above the horizon. Without a
// sunset/sunrise pair the night is either polar night (0) or polar day,
// where the star's daily visibility is used instead.
func VisibleHoursFraction(star Star, obs Observer, sp SolarProperties) float64 {
	maxHours := MaxVisibleHours(obs.LatDeg, star.Declination.InDegrees())
	if maxHours < 1 {
		return 0
	}

	if !sp.HasTransitions() {
		if sp.SolarMidnightElevation < 0 {
			return 0
		}
		return math.Min(1, maxHours/24)
	}

	sunset := *sp.Sunset
	sunrise := *sp.Sunrise
	for !sunrise.After(sunset) {
		sunrise = sunrise.Add(24 * time.Hour)
	}

	var visible, total int
	for t := sunset.Truncate(time.Hour); !t.After(sunrise); t = t.Add(time.Hour) {
		if Altitude(t, obs, star) > MinElevation {
			visible++
		}
		total++
	}
	if total == 0 {
		return 0
	}
	return float64(visible) / float64(total)
}
