package astro

import (
	"math"
	"testing"
	"time"
)

var polaris = Star{
	Name:           "Polaris",
	Constellation:  "Ursa Minor",
	RightAscension: RightAscension{Hours: 2, Minutes: 31, Seconds: 49.09},
	Declination:    Declination{Degrees: 89, Minutes: 15, Seconds: 50.8},
}

var sirius = Star{
	Name:           "Sirius",
	Constellation:  "Canis Major",
	RightAscension: RightAscension{Hours: 6, Minutes: 45, Seconds: 8.92},
	Declination:    Declination{Degrees: -16, Minutes: 42, Seconds: 58.0},
}

func TestSexagesimalConversion(t *testing.T) {
	if got := sirius.RightAscension.InHours(); math.Abs(got-6.752478) > 1e-5 {
		t.Errorf("RA hours = %v", got)
	}
	if got := sirius.RightAscension.InDegrees(); math.Abs(got-101.28717) > 1e-4 {
		t.Errorf("RA degrees = %v", got)
	}
	if got := sirius.Declination.InDegrees(); math.Abs(got+16.716111) > 1e-5 {
		t.Errorf("Dec degrees = %v", got)
	}
	south := Declination{Degrees: 0, Minutes: 30, Negative: true}
	if got := south.InDegrees(); got != -0.5 {
		t.Errorf("negative zero-degree declination = %v, want -0.5", got)
	}
}

func TestAltitude_Polaris(t *testing.T) {
	// Polaris sits within a degree of the pole, so its altitude tracks latitude.
	for _, lat := range []float64{30, 59.91, 69.65} {
		obs := Observer{LatDeg: lat, LonDeg: 10.75}
		for h := 0; h < 24; h += 5 {
			ts := time.Date(2024, 1, 15, h, 0, 0, 0, time.UTC)
			alt := Altitude(ts, obs, polaris)
			if math.Abs(alt-lat) > 1.0 {
				t.Errorf("Polaris altitude at lat %.2f, %02d:00 = %.2f", lat, h, alt)
			}
		}
	}
}

func TestAltitude_ZenithStar(t *testing.T) {
	obs := Observer{LatDeg: 45, LonDeg: 0}
	ts := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	lmstHours := LocalMeanSiderealTime(ts, obs.LonDeg) / 15
	star := Star{
		RightAscension: RightAscension{Seconds: lmstHours * 3600},
		Declination:    Declination{Degrees: 45},
	}

	if ha := HourAngle(ts, star, obs); math.Abs(ha) > 1e-6 {
		t.Errorf("HourAngle on the meridian = %v, want 0", ha)
	}
	if alt := Altitude(ts, obs, star); math.Abs(alt-90) > 0.01 {
		t.Errorf("zenith altitude = %v, want 90", alt)
	}
}

func TestAltitude_NeverRises(t *testing.T) {
	obs := Observer{LatDeg: 60, LonDeg: 10}
	south := Star{Declination: Declination{Degrees: -60}}
	for h := 0; h < 24; h++ {
		ts := time.Date(2024, 3, 1, h, 0, 0, 0, time.UTC)
		if alt := Altitude(ts, obs, south); alt > 0 {
			t.Fatalf("star at dec -60 visible from lat 60 at %02d:00 (alt %.2f)", h, alt)
		}
	}
}

func TestPosition(t *testing.T) {
	obs := Observer{LatDeg: 59.91, LonDeg: 10.75}
	for h := 0; h < 24; h += 3 {
		ts := time.Date(2024, 4, 1, h, 0, 0, 0, time.UTC)
		pos := Position(ts, obs, sirius)
		if pos.AzDeg < 0 || pos.AzDeg >= 360 {
			t.Errorf("azimuth out of range: %v", pos.AzDeg)
		}
		if alt := Altitude(ts, obs, sirius); math.Abs(alt-pos.AltDeg) > 1e-9 {
			t.Errorf("Position altitude %v disagrees with Altitude %v", pos.AltDeg, alt)
		}
	}

	// Polaris from mid-northern latitudes is always close to due north.
	pos := Position(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), obs, polaris)
	if pos.AzDeg > 2 && pos.AzDeg < 358 {
		t.Errorf("Polaris azimuth = %v, want ~0", pos.AzDeg)
	}
}
