// Package weather groups hourly forecast samples into per-night summaries
// and judges stargazing conditions.
package weather

import (
	"time"

	"github.com/litescript/nattklar/internal/astro"
)

// Sample is one forecast step.
type Sample struct {
	Time        time.Time `json:"time"`
	Temperature int       `json:"temperature"` // °C
	Clouds      int       `json:"clouds"`      // cloud area fraction, %
	WindSpeed   int       `json:"windSpeed"`   // m/s
}

// AirQuality is one air quality forecast step.
type AirQuality struct {
	Time time.Time `json:"time"`
	AQI  float64   `json:"aqi"`
}

// Summary condenses the samples of one night. Times, Temps, Clouds and
// Winds are aligned.
type Summary struct {
	MinTemp      int         `json:"minTemp"`
	MaxTemp      int         `json:"maxTemp"`
	MinWind      int         `json:"minWind"`
	MaxWind      int         `json:"maxWind"`
	MinClouds    int         `json:"minClouds"`
	MaxClouds    int         `json:"maxClouds"`
	AirPollution *float64    `json:"airPollution,omitempty"`
	Times        []time.Time `json:"times"`
	Temps        []int       `json:"temps"`
	Clouds       []int       `json:"clouds"`
	Winds        []int       `json:"winds"`
}

// MeanClouds returns the average cloud cover, or 0 without samples.
func (s Summary) MeanClouds() float64 { return mean(s.Clouds) }

// MeanWind returns the average wind speed, or 0 without samples.
func (s Summary) MeanWind() float64 { return mean(s.Winds) }

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// Night is the forecast for one night at one location.
type Night struct {
	Index      int                   `json:"index"`
	Start      time.Time             `json:"start"`
	Solar      astro.SolarProperties `json:"solar"`
	Conditions Summary               `json:"conditions"`
}

// Forecast holds up to MaxNights nights ordered by night index.
type Forecast struct {
	Location astro.Observer `json:"location"`
	Nights   []Night        `json:"nights"`
}

// Night returns the night with the given index.
func (f *Forecast) Night(index int) (Night, bool) {
	for _, n := range f.Nights {
		if n.Index == index {
			return n, true
		}
	}
	return Night{}, false
}
