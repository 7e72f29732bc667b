// Package assets names the bundled data files and the upstream HTTP
// endpoints the application reads from.
package assets

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Asset is a bundled data file.
type Asset int

const (
	Articles Asset = iota
	LightPollution
	Stars
	Constellations
	NightEvents
	numAssets
)

var assetFiles = [numAssets]string{
	Articles:       "articles.json",
	LightPollution: "light-pollution-data.json",
	Stars:          "stars.json",
	Constellations: "constellations.json",
	NightEvents:    "night-events.txt",
}

// All lists every asset.
func All() []Asset {
	out := make([]Asset, 0, numAssets)
	for a := Asset(0); a < numAssets; a++ {
		out = append(out, a)
	}
	return out
}

// FileName returns the file name of the asset, or "" for an invalid value.
func (a Asset) FileName() string {
	if a < 0 || a >= numAssets {
		return ""
	}
	return assetFiles[a]
}

func (a Asset) String() string {
	if name := a.FileName(); name != "" {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return fmt.Sprintf("Asset(%d)", int(a))
}

// Path joins the asset file name onto dir.
func (a Asset) Path(dir string) string {
	return filepath.Join(dir, a.FileName())
}

// Open opens the asset under dir.
func Open(dir string, a Asset) (io.ReadCloser, error) {
	if a.FileName() == "" {
		return nil, fmt.Errorf("unknown asset %d", int(a))
	}
	f, err := os.Open(a.Path(dir))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a, err)
	}
	return f, nil
}

// Endpoint is an upstream HTTP resource.
type Endpoint int

const (
	LocationForecast Endpoint = iota
	AirQuality
	Sunrise
	KpForecast
	numEndpoints
)

type endpoint struct {
	name   string
	base   string
	path   string
	params []string
}

var endpoints = [numEndpoints]endpoint{
	LocationForecast: {"locationforecast", "https://api.met.no", "/weatherapi/locationforecast/2.0/complete", []string{"lat", "lon"}},
	AirQuality:       {"airqualityforecast", "https://api.met.no", "/weatherapi/airqualityforecast/0.1/", []string{"lat", "lon"}},
	Sunrise:          {"sunrise", "https://api.met.no", "/weatherapi/sunrise/3.0/sun", []string{"lat", "lon", "date"}},
	KpForecast:       {"kp-forecast", "https://services.swpc.noaa.gov", "/text/3-day-forecast.txt", nil},
}

// Endpoints lists every endpoint.
func Endpoints() []Endpoint {
	out := make([]Endpoint, 0, numEndpoints)
	for e := Endpoint(0); e < numEndpoints; e++ {
		out = append(out, e)
	}
	return out
}

func (e Endpoint) valid() bool { return e >= 0 && e < numEndpoints }

func (e Endpoint) String() string {
	if !e.valid() {
		return fmt.Sprintf("Endpoint(%d)", int(e))
	}
	return endpoints[e].name
}

// DefaultBase returns the scheme and host the endpoint is served from.
func (e Endpoint) DefaultBase() string {
	if !e.valid() {
		return ""
	}
	return endpoints[e].base
}

// Params lists the query parameters URL expects, in order.
func (e Endpoint) Params() []string {
	if !e.valid() {
		return nil
	}
	return append([]string(nil), endpoints[e].params...)
}

// URL builds the request URL against base, or DefaultBase when base is
// empty. values are matched to Params by position.
func (e Endpoint) URL(base string, values ...string) (string, error) {
	if !e.valid() {
		return "", fmt.Errorf("unknown endpoint %d", int(e))
	}
	ep := endpoints[e]
	if len(values) != len(ep.params) {
		return "", fmt.Errorf("%s: want %d parameters, got %d", ep.name, len(ep.params), len(values))
	}
	if base == "" {
		base = ep.base
	}
	u, err := url.Parse(strings.TrimSuffix(base, "/") + ep.path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ep.name, err)
	}
	if len(values) > 0 {
		q := url.Values{}
		for i, p := range ep.params {
			q.Set(p, values[i])
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
