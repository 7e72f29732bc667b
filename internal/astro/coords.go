package astro

import (
	"math"
	"time"
)

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 `json:"lat" yaml:"lat"`   // Latitude in degrees (north positive)
	LonDeg float64 `json:"lon" yaml:"lon"`   // Longitude in degrees (east positive)
	Name   string  `json:"name" yaml:"name"` // Optional display name
}

// SameCoordinates reports whether two observers share a position.
func (o Observer) SameCoordinates(other Observer) bool {
	return o.LatDeg == other.LatDeg && o.LonDeg == other.LonDeg
}

// Horizontal is a position in the observer's sky.
type Horizontal struct {
	AzDeg  float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	AltDeg float64 // Altitude in degrees (0=horizon, 90=zenith)
}

// HourAngle returns the hour angle of a star in degrees: local mean
// sidereal time minus the star's right ascension.
func HourAngle(t time.Time, star Star, obs Observer) float64 {
	return LocalMeanSiderealTime(t, obs.LonDeg) - star.RightAscension.InDegrees()
}

// Altitude returns the altitude of a star above the observer's horizon
// in degrees at instant t.
func Altitude(t time.Time, obs Observer, star Star) float64 {
	return altitude(obs.LatDeg, star.Declination.InDegrees(), HourAngle(t, star, obs))
}

func altitude(latDeg, decDeg, haDeg float64) float64 {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)
	ha := degToRad(haDeg)

	sinAlt := math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)
	return radToDeg(math.Asin(clampUnit(sinAlt)))
}

// Position returns the azimuth and altitude of a star for the observer.
func Position(t time.Time, obs Observer, star Star) Horizontal {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(star.Declination.InDegrees())
	ha := degToRad(HourAngle(t, star, obs))

	alt := math.Asin(clampUnit(math.Sin(lat)*math.Sin(dec) + math.Cos(lat)*math.Cos(dec)*math.Cos(ha)))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clampUnit(cosAz))

	// Positive hour angle means the star is west of the meridian
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{AzDeg: radToDeg(az), AltDeg: radToDeg(alt)}
}

func clampUnit(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	case math.IsNaN(x):
		return 0
	default:
		return x
	}
}
