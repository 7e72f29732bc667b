package astro

import (
	"math"
	"time"
)

// j2000 is the Julian date of the J2000.0 epoch.
const j2000 = 2451545.0

// GreenwichMeanSiderealTime returns GMST in degrees [0, 360) for the
// instant t (IAU 1982).
func GreenwichMeanSiderealTime(t time.Time) float64 {
	d := JulianTimeOf(t) - j2000
	T := d / 36525.0

	gmst := 280.46061837 +
		360.98564736629*d +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// GMSTHours returns GMST in hours [0, 24).
func GMSTHours(t time.Time) float64 {
	return GreenwichMeanSiderealTime(t) / 15
}

// LocalMeanSiderealTime returns LMST in degrees [0, 360) for an observer
// at lonDeg (east positive).
func LocalMeanSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(GreenwichMeanSiderealTime(t) + lonDeg)
}

// normalizeAngle360 normalizes an angle to 0-360 degrees.
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
