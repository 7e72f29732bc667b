package weather

import (
	"context"
	"sort"
	"time"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/logging"
	"github.com/litescript/nattklar/internal/solar"
)

// MaxNights is the number of nights a forecast covers.
const MaxNights = 5

// granularities are tried in order; the finest series that reaches a
// night boundary wins that night.
var granularities = []int{1, 6}

// Aggregator turns forecast series into per-night summaries.
type Aggregator struct {
	solar     solar.Source
	logger    *logging.Logger
	maxNights int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Aggregator) {
		a.logger = l
	}
}

// WithMaxNights overrides MaxNights.
func WithMaxNights(n int) Option {
	return func(a *Aggregator) {
		a.maxNights = n
	}
}

// NewAggregator creates an aggregator that looks up solar data in src.
func NewAggregator(src solar.Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		solar:     src,
		logger:    logging.Discard(),
		maxNights: MaxNights,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// window accumulates the samples of the night being built.
type window struct {
	times  []time.Time
	temps  []int
	clouds []int
	winds  []int
	aqis   []float64
}

func (w *window) add(s Sample, aqi map[int64]float64) {
	w.times = append(w.times, s.Time)
	w.temps = append(w.temps, s.Temperature)
	w.clouds = append(w.clouds, s.Clouds)
	w.winds = append(w.winds, s.WindSpeed)
	if v, ok := aqi[s.Time.Unix()]; ok {
		w.aqis = append(w.aqis, v)
	}
}

// Aggregate builds the forecast for obs. A night is emitted only when the
// series crosses into the next night, and the sample on the boundary is
// counted in both. Hourly data is used first; a pass ends when the gap at
// a night boundary differs from its step, and the six-hourly pass fills
// the nights after it.
func (a *Aggregator) Aggregate(ctx context.Context, obs astro.Observer, samples []Sample, aqi []AirQuality) (*Forecast, error) {
	series := make([]Sample, len(samples))
	copy(series, samples)
	sort.SliceStable(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })

	aqiAt := make(map[int64]float64, len(aqi))
	for _, q := range aqi {
		aqiAt[q.Time.Unix()] = q.AQI
	}

	nights := make(map[int]Night)

	for _, step := range granularities {
		var (
			prev *time.Time
			w    window
		)
		for _, s := range series {
			if len(nights) >= a.maxNights {
				break
			}
			t := s.Time
			if t.UTC().Hour()%step != 0 {
				continue
			}
			if prev != nil && t.Equal(*prev) {
				continue
			}

			if prev == nil || astro.NightIndex(t) == astro.NightIndex(*prev) {
				w.add(s, aqiAt)
				prev = &t
				continue
			}

			if astro.HoursBetween(t, *prev) != step {
				break
			}

			w.add(s, aqiAt)
			index := astro.NightIndex(*prev)
			if _, done := nights[index]; !done {
				night, err := a.buildNight(ctx, obs, index, w)
				if err != nil {
					return nil, err
				}
				nights[index] = night
			}

			w = window{}
			w.add(s, aqiAt)
			prev = &t
		}
	}

	f := &Forecast{Location: obs, Nights: make([]Night, 0, len(nights))}
	for _, n := range nights {
		f.Nights = append(f.Nights, n)
	}
	sort.Slice(f.Nights, func(i, j int) bool { return f.Nights[i].Index < f.Nights[j].Index })

	a.logger.Debug("aggregated %d samples into %d nights for %s", len(series), len(f.Nights), obs.Name)
	return f, nil
}

func (a *Aggregator) buildNight(ctx context.Context, obs astro.Observer, index int, w window) (Night, error) {
	if err := ctx.Err(); err != nil {
		return Night{}, err
	}
	start := astro.NightStart(index)
	date := astro.DateString(start)

	sp, err := a.solar.SolarProperties(ctx, obs, date)
	if err != nil {
		if ctx.Err() != nil {
			return Night{}, ctx.Err()
		}
		a.logger.Warn("solar properties for %s on %s: %v", obs.Name, date, err)
		sp = astro.SolarProperties{}
	}

	return Night{
		Index:      index,
		Start:      start,
		Solar:      sp,
		Conditions: Summarize(w.times, w.temps, w.clouds, w.winds, w.aqis),
	}, nil
}
