package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunPosition(t *testing.T) {
	tests := []struct {
		name       string
		time       time.Time
		wantRAMin  float64
		wantRAMax  float64
		wantDecMin float64
		wantDecMax float64
	}{
		{"spring equinox", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 359, 2, -1, 1},
		{"summer solstice", time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 88, 92, 23, 24},
		{"autumn equinox", time.Date(2024, 9, 22, 12, 0, 0, 0, time.UTC), 178, 182, -1, 1},
		{"winter solstice", time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC), 268, 272, -24, -23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRA, gotDec := SunPosition(tt.time)

			var raOK bool
			if tt.wantRAMin > tt.wantRAMax {
				raOK = gotRA >= tt.wantRAMin || gotRA <= tt.wantRAMax
			} else {
				raOK = gotRA >= tt.wantRAMin && gotRA <= tt.wantRAMax
			}
			if !raOK {
				t.Errorf("SunPosition() RA = %.2f°, want between %.2f° and %.2f°", gotRA, tt.wantRAMin, tt.wantRAMax)
			}
			if gotDec < tt.wantDecMin || gotDec > tt.wantDecMax {
				t.Errorf("SunPosition() Dec = %.2f°, want between %.2f° and %.2f°", gotDec, tt.wantDecMin, tt.wantDecMax)
			}
		})
	}
}

func TestSolarMidnightElevation(t *testing.T) {
	tromso := Observer{LatDeg: 69.65, LonDeg: 18.96, Name: "Tromsø"}
	oslo := Observer{LatDeg: 59.91, LonDeg: 10.75, Name: "Oslo"}

	tests := []struct {
		name    string
		obs     Observer
		date    time.Time
		wantMin float64
		wantMax float64
	}{
		{"Tromsø midnight sun", tromso, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), 3, 4.5},
		{"Tromsø polar night", tromso, time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC), -44, -42.5},
		{"Oslo midsummer", oslo, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), -7, -6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SolarMidnightElevation(tt.date, tt.obs)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("SolarMidnightElevation() = %.2f, want between %.1f and %.1f", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestSolarNoonElevation(t *testing.T) {
	equator := Observer{LatDeg: 0, LonDeg: 0}
	got := SolarNoonElevation(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), equator)
	if math.Abs(got-90) > 1 {
		t.Errorf("equinox noon elevation at the equator = %.2f, want ~90", got)
	}
}

func TestSolarProperties(t *testing.T) {
	set := time.Date(2024, 10, 1, 17, 30, 0, 0, time.UTC)
	rise := time.Date(2024, 10, 1, 5, 45, 0, 0, time.UTC)

	sp := SolarProperties{Sunset: &set, Sunrise: &rise, SolarMidnightElevation: -30}
	if !sp.HasTransitions() || sp.PolarDay() || sp.PolarNight() {
		t.Errorf("ordinary night classified wrong: %+v", sp)
	}
	if got, want := sp.NightLength(), 12*time.Hour+15*time.Minute; got != want {
		t.Errorf("NightLength() = %v, want %v", got, want)
	}

	if !(SolarProperties{SolarMidnightElevation: 2}).PolarDay() {
		t.Error("positive midnight elevation without transitions should be polar day")
	}
	if !(SolarProperties{SolarMidnightElevation: -2}).PolarNight() {
		t.Error("negative midnight elevation without transitions should be polar night")
	}
	if got := (SolarProperties{}).NightLength(); got != 0 {
		t.Errorf("NightLength() without transitions = %v, want 0", got)
	}
}
