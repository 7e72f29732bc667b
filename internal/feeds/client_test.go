package feeds

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/litescript/nattklar/internal/assets"
	"github.com/litescript/nattklar/internal/astro"
)

const kpReport = `:Product: 3-Day Forecast
NOAA Kp index breakdown Oct 19-Oct 21 2024

             Oct 19       Oct 20       Oct 21
00-03UT       2.67         3.67         2.00
`

var oslo = astro.Observer{LatDeg: 59.913868, LonDeg: 10.752245, Name: "Oslo"}

func newTestServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	check := func(r *http.Request) {
		requests.Add(1)
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "nattklar-test") {
			t.Errorf("%s: User-Agent = %q", r.URL.Path, ua)
		}
	}
	coords := func(w http.ResponseWriter, r *http.Request) bool {
		q := r.URL.Query()
		if q.Get("lat") != "59.9139" || q.Get("lon") != "10.7522" {
			http.Error(w, "bad coordinates "+r.URL.RawQuery, http.StatusBadRequest)
			return false
		}
		return true
	}
	mux.HandleFunc("/weatherapi/locationforecast/2.0/complete", func(w http.ResponseWriter, r *http.Request) {
		check(r)
		if coords(w, r) {
			w.Write([]byte(locationForecastDoc))
		}
	})
	mux.HandleFunc("/weatherapi/airqualityforecast/0.1/", func(w http.ResponseWriter, r *http.Request) {
		check(r)
		if coords(w, r) {
			w.Write([]byte(airQualityDoc))
		}
	})
	mux.HandleFunc("/weatherapi/sunrise/3.0/sun", func(w http.ResponseWriter, r *http.Request) {
		check(r)
		if r.URL.Query().Get("date") != "2024-10-01" {
			http.Error(w, "bad date", http.StatusBadRequest)
			return
		}
		if coords(w, r) {
			w.Write([]byte(sunriseDocOslo))
		}
	})
	mux.HandleFunc("/text/3-day-forecast.txt", func(w http.ResponseWriter, r *http.Request) {
		check(r)
		w.Write([]byte(kpReport))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(base string, opts ...Option) *Client {
	now := time.Date(2024, 10, 1, 12, 30, 0, 0, time.UTC)
	all := []Option{
		WithBaseURL(base),
		WithUserAgent("nattklar-test/1.0"),
		WithClock(func() time.Time { return now }),
		WithRate(1000, 10),
	}
	return NewClient(append(all, opts...)...)
}

func TestClientFeeds(t *testing.T) {
	var requests atomic.Int32
	srv := newTestServer(t, &requests)
	c := newTestClient(srv.URL)
	ctx := context.Background()

	samples, err := c.LocationForecast(ctx, oslo)
	if err != nil {
		t.Fatalf("LocationForecast: %v", err)
	}
	if len(samples) != 3 {
		t.Errorf("LocationForecast returned %d samples, want 3", len(samples))
	}

	aq, err := c.AirQuality(ctx, oslo)
	if err != nil {
		t.Fatalf("AirQuality: %v", err)
	}
	if len(aq) != 2 {
		t.Errorf("AirQuality returned %d samples, want 2", len(aq))
	}

	sp, err := c.SolarProperties(ctx, oslo, "2024-10-01")
	if err != nil {
		t.Fatalf("SolarProperties: %v", err)
	}
	if !sp.HasTransitions() {
		t.Error("SolarProperties lacks transitions")
	}

	report, err := c.KpReport(ctx)
	if err != nil {
		t.Fatalf("KpReport: %v", err)
	}
	if !strings.Contains(report, "00-03UT") {
		t.Errorf("KpReport = %q", report)
	}

	if n := requests.Load(); n != 4 {
		t.Errorf("server saw %d requests, want 4", n)
	}
	if c.Name() != "met.no" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestClientStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "airquality"):
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message": "unknown location: lat=78.22 lon=15.65"}`))
		default:
			http.Error(w, "upstream down", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)
	ctx := context.Background()

	aq, err := c.AirQuality(ctx, oslo)
	if err != nil || aq != nil {
		t.Errorf("AirQuality outside coverage = %v, %v; want nil, nil", aq, err)
	}

	_, err = c.LocationForecast(ctx, oslo)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("LocationForecast err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusServiceUnavailable || se.Endpoint != assets.LocationForecast {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestClientEndpointBase(t *testing.T) {
	var requests atomic.Int32
	srv := newTestServer(t, &requests)
	c := NewClient(
		WithEndpointBase(assets.KpForecast, srv.URL),
		WithUserAgent("nattklar-test/1.0"),
	)
	if _, err := c.KpReport(context.Background()); err != nil {
		t.Fatalf("KpReport: %v", err)
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d, want 1", requests.Load())
	}
}

func TestClientCanceledContext(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", WithRate(0.001, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.KpReport(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCoord(t *testing.T) {
	tests := map[float64]string{
		59.913868:  "59.9139",
		10.75:      "10.75",
		-33.856784: "-33.8568",
		0:          "0",
	}
	for in, want := range tests {
		if got := coord(in); got != want {
			t.Errorf("coord(%v) = %q, want %q", in, got, want)
		}
	}
}
