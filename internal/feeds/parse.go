package feeds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/weather"
)

type locationForecast struct {
	Properties struct {
		Timeseries []struct {
			Time string `json:"time"`
			Data struct {
				Instant struct {
					Details struct {
						AirTemperature    float64 `json:"air_temperature"`
						CloudAreaFraction float64 `json:"cloud_area_fraction"`
						WindSpeed         float64 `json:"wind_speed"`
					} `json:"details"`
				} `json:"instant"`
				Next1Hours json.RawMessage `json:"next_1_hours"`
				Next6Hours json.RawMessage `json:"next_6_hours"`
			} `json:"data"`
		} `json:"timeseries"`
	} `json:"properties"`
}

// ParseLocationForecast decodes a met.no locationforecast 2.0 document.
// Steps before now are dropped, and decoding stops at the first step with
// neither a one-hour nor a six-hour period, where the series turns
// twelve-hourly. Values are truncated to whole units.
func ParseLocationForecast(data []byte, now time.Time) ([]weather.Sample, error) {
	var doc locationForecast
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var out []weather.Sample
	for _, ts := range doc.Properties.Timeseries {
		t, err := astro.ParseUTC(ts.Time)
		if err != nil {
			return nil, err
		}
		if t.Before(now) {
			continue
		}
		if len(ts.Data.Next1Hours) == 0 && len(ts.Data.Next6Hours) == 0 {
			break
		}
		d := ts.Data.Instant.Details
		out = append(out, weather.Sample{
			Time:        t,
			Temperature: int(d.AirTemperature),
			Clouds:      int(d.CloudAreaFraction),
			WindSpeed:   int(d.WindSpeed),
		})
	}
	return out, nil
}

type airQualityForecast struct {
	Message string `json:"message"`
	Data    struct {
		Time []struct {
			From      string `json:"from"`
			Variables struct {
				AQI struct {
					Value float64 `json:"value"`
				} `json:"AQI"`
			} `json:"variables"`
		} `json:"time"`
	} `json:"data"`
}

const unknownLocationMessage = "unknown location"

func unknownLocation(body []byte) bool {
	var doc struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &doc) == nil && strings.HasPrefix(doc.Message, unknownLocationMessage) {
		return true
	}
	return bytes.Contains(body, []byte(unknownLocationMessage))
}

// ParseAirQuality decodes a met.no airqualityforecast 0.1 document. The
// last step is dropped because it belongs to the next model run.
func ParseAirQuality(data []byte) ([]weather.AirQuality, error) {
	var doc airQualityForecast
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if strings.HasPrefix(doc.Message, unknownLocationMessage) {
		return nil, nil
	}

	steps := doc.Data.Time
	if len(steps) == 0 {
		return nil, nil
	}
	out := make([]weather.AirQuality, 0, len(steps)-1)
	for _, s := range steps[:len(steps)-1] {
		t, err := astro.ParseUTC(s.From)
		if err != nil {
			return nil, err
		}
		out = append(out, weather.AirQuality{Time: t, AQI: s.Variables.AQI.Value})
	}
	return out, nil
}

type sunEvent struct {
	Time *string `json:"time"`
}

type sunriseDoc struct {
	Properties struct {
		Sunrise       sunEvent `json:"sunrise"`
		Sunset        sunEvent `json:"sunset"`
		SolarMidnight *struct {
			DiscCentreElevation float64 `json:"disc_centre_elevation"`
		} `json:"solarmidnight"`
	} `json:"properties"`
}

// ParseSunrise decodes a met.no sunrise 3.0 sun document. A null sunrise
// or sunset time leaves that field nil.
func ParseSunrise(data []byte) (astro.SolarProperties, error) {
	var doc sunriseDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return astro.SolarProperties{}, err
	}
	if doc.Properties.SolarMidnight == nil {
		return astro.SolarProperties{}, fmt.Errorf("missing solar midnight")
	}

	var sp astro.SolarProperties
	sp.SolarMidnightElevation = doc.Properties.SolarMidnight.DiscCentreElevation

	var err error
	if sp.Sunset, err = optionalTime(doc.Properties.Sunset); err != nil {
		return astro.SolarProperties{}, fmt.Errorf("sunset: %w", err)
	}
	if sp.Sunrise, err = optionalTime(doc.Properties.Sunrise); err != nil {
		return astro.SolarProperties{}, fmt.Errorf("sunrise: %w", err)
	}
	return sp, nil
}

func optionalTime(e sunEvent) (*time.Time, error) {
	if e.Time == nil || *e.Time == "" {
		return nil, nil
	}
	t, err := astro.ParseUTC(*e.Time)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
