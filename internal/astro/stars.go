package astro

import "math"

// Unknown marks a catalog magnitude or distance that was not measured.
const Unknown = -1.0

// RightAscension is a sexagesimal right ascension.
type RightAscension struct {
	Hours   int     `json:"hours"`
	Minutes int     `json:"minutes"`
	Seconds float64 `json:"seconds"`
}

// InHours returns the right ascension in decimal hours.
func (ra RightAscension) InHours() float64 {
	return float64(ra.Hours) + float64(ra.Minutes)/60 + ra.Seconds/3600
}

// InDegrees returns the right ascension in degrees.
func (ra RightAscension) InDegrees() float64 {
	return ra.InHours() * 15
}

// Declination is a sexagesimal declination. The sign is carried by
// Degrees; Minutes and Seconds are magnitudes.
type Declination struct {
	Degrees int     `json:"degrees"`
	Minutes int     `json:"minutes"`
	Seconds float64 `json:"seconds"`
	// Negative marks southern declinations whose degree part is zero.
	Negative bool `json:"negative,omitempty"`
}

// InDegrees returns the declination in decimal degrees.
func (d Declination) InDegrees() float64 {
	abs := math.Abs(float64(d.Degrees)) + float64(d.Minutes)/60 + d.Seconds/3600
	if d.Degrees < 0 || d.Negative {
		return -abs
	}
	return abs
}

// Star is a catalog star.
type Star struct {
	Name              string         `json:"name"`
	Constellation     string         `json:"constellation"`
	RightAscension    RightAscension `json:"rightAscension"`
	Declination       Declination    `json:"declination"`
	ApparentMagnitude float64        `json:"apparentMagnitude"`
	AbsoluteMagnitude float64        `json:"absoluteMagnitude"`
	DistanceLightYear float64        `json:"distanceLightYear"`
	SpectralClass     string         `json:"spectralClass"`
}

// HasDistance reports whether the catalog carries a distance for the star.
func (s Star) HasDistance() bool {
	return s.DistanceLightYear != Unknown
}
