package feeds

import (
	"context"
	"errors"
	"fmt"

	"github.com/litescript/nattklar/internal/assets"
	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/weather"
)

// LocationForecast returns the forecast steps from now on.
func (c *Client) LocationForecast(ctx context.Context, obs astro.Observer) ([]weather.Sample, error) {
	data, err := c.fetch(ctx, assets.LocationForecast, coord(obs.LatDeg), coord(obs.LonDeg))
	if err != nil {
		return nil, err
	}
	samples, err := ParseLocationForecast(data, c.now())
	if err != nil {
		return nil, fmt.Errorf("parse location forecast: %w", err)
	}
	return samples, nil
}

// AirQuality returns the air quality forecast. Locations outside the
// forecast area yield no samples and no error.
func (c *Client) AirQuality(ctx context.Context, obs astro.Observer) ([]weather.AirQuality, error) {
	data, err := c.fetch(ctx, assets.AirQuality, coord(obs.LatDeg), coord(obs.LonDeg))
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && unknownLocation(se.Body) {
			c.logger.Debug("no air quality forecast for %s", obs.Name)
			return nil, nil
		}
		return nil, err
	}
	aq, err := ParseAirQuality(data)
	if err != nil {
		return nil, fmt.Errorf("parse air quality: %w", err)
	}
	return aq, nil
}

// Name identifies the client as a solar source.
func (c *Client) Name() string { return "met.no" }

// SolarProperties fetches sunset, sunrise and solar midnight elevation
// for date.
func (c *Client) SolarProperties(ctx context.Context, obs astro.Observer, date string) (astro.SolarProperties, error) {
	data, err := c.fetch(ctx, assets.Sunrise, coord(obs.LatDeg), coord(obs.LonDeg), date)
	if err != nil {
		return astro.SolarProperties{}, err
	}
	sp, err := ParseSunrise(data)
	if err != nil {
		return astro.SolarProperties{}, fmt.Errorf("parse sunrise: %w", err)
	}
	return sp, nil
}

// KpReport fetches the raw NOAA three-day forecast text.
func (c *Client) KpReport(ctx context.Context) (string, error) {
	data, err := c.fetch(ctx, assets.KpForecast)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
