// Package sky answers which stars and constellations are worth looking for
// tonight from a given location.
package sky

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/catalog"
	"github.com/litescript/nattklar/internal/solar"
)

// Ranking is a constellation with its share of visible night hours.
type Ranking struct {
	Name       string  `json:"name"`
	Visibility float64 `json:"visibility"`
}

// Service computes visibility against the catalog for the current night.
// Solar properties are kept for the last location and date asked for.
type Service struct {
	catalog *catalog.Catalog
	solar   solar.Source
	now     func() time.Time

	mu       sync.Mutex
	lastObs  astro.Observer
	lastDate string
	lastSun  astro.SolarProperties
	haveSun  bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source that picks the current night.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a visibility service.
func NewService(c *catalog.Catalog, src solar.Source, opts ...Option) *Service {
	s := &Service{catalog: c, solar: src, now: astro.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// tonight returns the start date of the night containing the current time.
func (s *Service) tonight() string {
	return astro.DateString(astro.NightStart(astro.NightIndex(s.now())))
}

func (s *Service) solarProperties(ctx context.Context, obs astro.Observer) (astro.SolarProperties, error) {
	date := s.tonight()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.haveSun && s.lastDate == date && s.lastObs.SameCoordinates(obs) {
		return s.lastSun, nil
	}
	sp, err := s.solar.SolarProperties(ctx, obs, date)
	if err != nil {
		return astro.SolarProperties{}, fmt.Errorf("solar properties for %s: %w", date, err)
	}
	s.lastObs, s.lastDate, s.lastSun, s.haveSun = obs, date, sp, true
	return sp, nil
}

// StarVisibility returns the fraction of tonight's hours the named star
// is above the horizon. Unknown stars are never visible.
func (s *Service) StarVisibility(ctx context.Context, name string, obs astro.Observer) (float64, error) {
	star, ok := s.catalog.Star(name)
	if !ok {
		return 0, nil
	}
	sp, err := s.solarProperties(ctx, obs)
	if err != nil {
		return 0, err
	}
	return astro.VisibleHoursFraction(star, obs, sp), nil
}

// ConstellationVisibility returns the mean visibility of the
// constellation's member stars. Members missing from the catalog count
// as invisible. Unknown or empty constellations yield 0.
func (s *Service) ConstellationVisibility(ctx context.Context, name string, obs astro.Observer) (float64, error) {
	con, ok := s.catalog.Constellation(name)
	if !ok || len(con.Stars) == 0 {
		return 0, nil
	}
	sp, err := s.solarProperties(ctx, obs)
	if err != nil {
		return 0, err
	}
	return s.meanVisibility(con, obs, sp), nil
}

func (s *Service) meanVisibility(con catalog.Constellation, obs astro.Observer, sp astro.SolarProperties) float64 {
	var sum float64
	for _, member := range con.Stars {
		if star, ok := s.catalog.Star(member); ok {
			sum += astro.VisibleHoursFraction(star, obs, sp)
		}
	}
	return sum / float64(len(con.Stars))
}

// Rank scores every constellation for tonight, most visible first.
// Constellations with equal scores keep catalog order.
func (s *Service) Rank(ctx context.Context, obs astro.Observer) ([]Ranking, error) {
	sp, err := s.solarProperties(ctx, obs)
	if err != nil {
		return nil, err
	}
	var out []Ranking
	for _, con := range s.catalog.Constellations() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var v float64
		if len(con.Stars) > 0 {
			v = s.meanVisibility(con, obs, sp)
		}
		out = append(out, Ranking{Name: con.Name, Visibility: v})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Visibility > out[j].Visibility
	})
	return out, nil
}
