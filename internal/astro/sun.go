package astro

import (
	"math"
	"time"
)

// SolarProperties describes the sun around one night at one location.
// Sunset and Sunrise are nil when the sun does not set or rise that day.
type SolarProperties struct {
	Sunset                 *time.Time `json:"sunset,omitempty"`
	Sunrise                *time.Time `json:"sunrise,omitempty"`
	SolarMidnightElevation float64    `json:"solarMidnightElevation"`
}

// HasTransitions reports whether both sunset and sunrise are known.
func (sp SolarProperties) HasTransitions() bool {
	return sp.Sunset != nil && sp.Sunrise != nil
}

// PolarDay reports whether the sun stays above the horizon all night.
func (sp SolarProperties) PolarDay() bool {
	return !sp.HasTransitions() && sp.SolarMidnightElevation >= 0
}

// PolarNight reports whether the night has no sunset/sunrise pair and the
// sun is below the horizon at midnight.
func (sp SolarProperties) PolarNight() bool {
	return !sp.HasTransitions() && sp.SolarMidnightElevation < 0
}

// NightLength returns the time from sunset to the following sunrise, or
// zero when either transition is missing.
func (sp SolarProperties) NightLength() time.Duration {
	if !sp.HasTransitions() {
		return 0
	}
	rise := *sp.Sunrise
	for !rise.After(*sp.Sunset) {
		rise = rise.Add(24 * time.Hour)
	}
	return rise.Sub(*sp.Sunset)
}

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac,
// accurate to about 0.01 degrees.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	T := (JulianTimeOf(t) - j2000) / 36525.0

	// Mean longitude and mean anomaly (degrees)
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// Apparent longitude, corrected for aberration and nutation
	omega := 125.04 - 1934.136*T
	lon := degToRad(L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega)))

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := degToRad(eps0 + 0.00256*math.Cos(degToRad(omega)))

	raDeg = normalizeAngle360(radToDeg(math.Atan2(math.Cos(eps)*math.Sin(lon), math.Cos(lon))))
	decDeg = radToDeg(math.Asin(math.Sin(eps) * math.Sin(lon)))

	return raDeg, decDeg
}

// solarMidnight approximates the instant of local solar midnight that ends
// the given calendar date at the observer's longitude.
func solarMidnight(date time.Time, obs Observer) time.Time {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
	return midnight.Add(-time.Duration(obs.LonDeg / 15 * float64(time.Hour)))
}

// SolarMidnightElevation returns the sun's elevation in degrees at the
// solar midnight following date, i.e. its lower culmination.
func SolarMidnightElevation(date time.Time, obs Observer) float64 {
	_, dec := SunPosition(solarMidnight(date, obs))
	return math.Abs(obs.LatDeg+dec) - 90
}

// SolarNoonElevation returns the sun's elevation in degrees at solar noon
// on date, i.e. its upper culmination.
func SolarNoonElevation(date time.Time, obs Observer) float64 {
	_, dec := SunPosition(solarMidnight(date, obs).Add(-12 * time.Hour))
	return 90 - math.Abs(obs.LatDeg-dec)
}
