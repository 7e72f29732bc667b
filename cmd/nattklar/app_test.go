package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/litescript/nattklar/internal/articles"
	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/catalog"
	"github.com/litescript/nattklar/internal/config"
	"github.com/litescript/nattklar/internal/lightpollution"
	"github.com/litescript/nattklar/internal/logging"
	"github.com/litescript/nattklar/internal/sky"
	"github.com/litescript/nattklar/internal/solar"
	"github.com/litescript/nattklar/internal/state"
	"github.com/litescript/nattklar/internal/weather"
)

type fakeFeed struct {
	samples []weather.Sample
	err     error
	aqiErr  error
}

func (f *fakeFeed) LocationForecast(context.Context, astro.Observer) ([]weather.Sample, error) {
	return f.samples, f.err
}

func (f *fakeFeed) AirQuality(context.Context, astro.Observer) ([]weather.AirQuality, error) {
	return nil, f.aqiErr
}

func testApp(feed forecastSource) *app {
	cat := catalog.New()
	sun := solar.NewLocal()
	return &app{
		cfg:        config.Default(),
		logger:     logging.Discard(),
		feed:       feed,
		aggregator: weather.NewAggregator(sun),
		catalog:    cat,
		light:      lightpollution.NewIndex(),
		articles:   articles.NewLibrary(),
		sky:        sky.NewService(cat, sun),
		state:      state.NewManager(state.DefaultConfig()),
	}
}

// hourly returns n hourly samples starting at start.
func hourly(start time.Time, n int) []weather.Sample {
	out := make([]weather.Sample, n)
	for i := range out {
		out[i] = weather.Sample{Time: start.Add(time.Duration(i) * time.Hour), Temperature: 4, Clouds: 10, WindSpeed: 2}
	}
	return out
}

func TestFetchForecast(t *testing.T) {
	start := time.Date(2024, 10, 19, 12, 0, 0, 0, time.UTC)
	a := testApp(&fakeFeed{
		samples: hourly(start, 26),
		aqiErr:  errors.New("air quality down"),
	})

	snap := a.fetchForecast(context.Background())
	if snap.LastError != nil {
		t.Fatalf("LastError = %v", snap.LastError)
	}
	if snap.Loading {
		t.Error("snapshot still loading after the job completed")
	}
	if snap.Forecast == nil || len(snap.Forecast.Nights) != 1 {
		t.Fatalf("Forecast = %+v, want one night", snap.Forecast)
	}
	night := snap.Forecast.Nights[0]
	if night.Index != astro.NightIndex(start) {
		t.Errorf("night index = %d, want %d", night.Index, astro.NightIndex(start))
	}
	if !night.Solar.HasTransitions() {
		t.Error("Oslo in October should have a sunset and sunrise")
	}
	if snap.SelectedNight != night.Index {
		t.Errorf("SelectedNight = %d, want %d", snap.SelectedNight, night.Index)
	}
	if snap.LightIndex != nil {
		t.Errorf("LightIndex = %d without a raster", *snap.LightIndex)
	}
}

func TestFetchForecastFailure(t *testing.T) {
	a := testApp(&fakeFeed{err: errors.New("met.no down")})

	snap := a.fetchForecast(context.Background())
	if snap.LastError == nil {
		t.Fatal("expected a fetch error")
	}
	if snap.Forecast != nil {
		t.Error("failed fetch should not record a forecast")
	}
	if a.state.HasData() {
		t.Error("HasData() after failed fetch")
	}
}

func TestLoadBundledAssets(t *testing.T) {
	a := testApp(&fakeFeed{})
	a.cfg.AssetDir = "../../assets"
	a.loadAssets()

	stars, cons := a.catalog.Len()
	if stars != 27 || cons != 7 {
		t.Errorf("catalog has %d stars, %d constellations", stars, cons)
	}
	if err := a.catalog.Validate(); err != nil {
		t.Errorf("bundled catalog: %v", err)
	}
	if n := len(a.articles.All()); n != 8 {
		t.Errorf("got %d articles, want 8", n)
	}
	// The raster is not bundled; the light index stays unknown.
	if a.light.Loaded() {
		t.Error("light pollution raster loaded unexpectedly")
	}
}
