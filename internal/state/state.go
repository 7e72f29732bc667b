// Package state provides thread-safe state management for the application.
package state

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/events"
	"github.com/litescript/nattklar/internal/sky"
	"github.com/litescript/nattklar/internal/weather"
)

// Errors returned by SelectNight.
var (
	ErrNoForecast   = errors.New("no forecast loaded")
	ErrUnknownNight = errors.New("night not in forecast")
)

// EventType represents the type of session activity.
type EventType string

const (
	EventLocation    EventType = "LOCATION"
	EventForecast    EventType = "FORECAST"
	EventFetchFailed EventType = "FETCH_FAILED"
	EventNightEvent  EventType = "NIGHT_EVENT"
)

// Event is one entry of the session activity log.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Token identifies one forecast request. Results carrying an outdated
// token are discarded.
type Token struct {
	generation uint64
	Location   astro.Observer
}

// Result is what a forecast job produces.
type Result struct {
	Forecast   *weather.Forecast
	LightIndex *int
	Rankings   []sky.Ranking
	Duration   time.Duration
	Err        error
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current session
	location    astro.Observer
	generation  uint64
	jobsRunning int
	forecast    *weather.Forecast
	lightIndex  *int
	rankings    []sky.Ranking
	nightEvents []events.NightEvent
	selected    int

	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration

	// Activity log (ring buffer)
	log        []Event
	maxEvents  int
	logWriteAt int

	now func() time.Time

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		RefreshInterval: 30 * time.Minute, // met.no updates hourly
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents:       maxEvents,
		log:             make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		now:             time.Now,
	}
}

// Begin starts a forecast request for obs. Any request still running for
// an earlier token becomes stale.
func (m *Manager) Begin(obs astro.Observer) Token {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation > 0 && !m.location.SameCoordinates(obs) {
		m.addEvent(EventLocation, fmt.Sprintf("location changed to %s", describe(obs)))
		m.forecast = nil
		m.lightIndex = nil
		m.rankings = nil
	}
	m.generation++
	m.jobsRunning++
	m.location = obs
	return Token{generation: m.generation, Location: obs}
}

// Complete records the result of the request identified by tok. It
// reports false when the result was stale and dropped.
func (m *Manager) Complete(tok Token, res Result) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.jobsRunning > 0 {
		m.jobsRunning--
	}
	if tok.generation != m.generation {
		return false
	}

	m.lastFetch = m.now()
	m.lastError = res.Err
	m.fetchDuration = res.Duration

	if res.Err != nil {
		m.addEvent(EventFetchFailed, res.Err.Error())
		return true
	}

	m.forecast = res.Forecast
	m.lightIndex = res.LightIndex
	m.rankings = slices.Clone(res.Rankings)

	nights := 0
	if res.Forecast != nil {
		nights = len(res.Forecast.Nights)
		if _, ok := res.Forecast.Night(m.selected); !ok {
			m.selected = 0
			if nights > 0 {
				m.selected = res.Forecast.Nights[0].Index
			}
		}
	}
	m.addEvent(EventForecast, fmt.Sprintf("%d nights for %s in %v", nights, describe(tok.Location), res.Duration.Round(time.Millisecond)))
	return true
}

// SetNightEvents replaces the event list, logging events not seen before.
func (m *Manager) SetNightEvents(list []events.NightEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range list {
		known := slices.ContainsFunc(m.nightEvents, func(o events.NightEvent) bool {
			return o.When.Equal(e.When) && o.Title == e.Title
		})
		if !known {
			m.addEvent(EventNightEvent, fmt.Sprintf("%s on %s", e.Title, astro.DateString(astro.InOslo(e.When))))
		}
	}
	m.nightEvents = slices.Clone(list)
}

// SelectNight makes the night with the given index current.
func (m *Manager) SelectNight(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forecast == nil {
		return ErrNoForecast
	}
	if _, ok := m.forecast.Night(index); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNight, index)
	}
	m.selected = index
	return nil
}

func describe(obs astro.Observer) string {
	if obs.Name != "" {
		return obs.Name
	}
	return fmt.Sprintf("%.4f, %.4f", obs.LatDeg, obs.LonDeg)
}

// addEvent adds an entry to the ring buffer.
func (m *Manager) addEvent(t EventType, msg string) {
	e := Event{Type: t, Timestamp: m.now(), Message: msg}
	if len(m.log) < m.maxEvents {
		m.log = append(m.log, e)
	} else {
		m.log[m.logWriteAt] = e
		m.logWriteAt = (m.logWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Location      astro.Observer
	Forecast      *weather.Forecast
	SelectedNight int
	LightIndex    *int
	Rankings      []sky.Ranking
	NightEvents   []events.NightEvent
	Loading       bool
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	Events        []Event
}

// Night returns the selected night.
func (s Snapshot) Night() (weather.Night, bool) {
	if s.Forecast == nil {
		return weather.Night{}, false
	}
	return s.Forecast.Night(s.SelectedNight)
}

// EventsFor returns the night events that fall on night index n.
func (s Snapshot) EventsFor(n int) []events.NightEvent {
	var out []events.NightEvent
	for _, e := range s.NightEvents {
		if e.Night() == n {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var light *int
	if m.lightIndex != nil {
		v := *m.lightIndex
		light = &v
	}

	return Snapshot{
		Location:      m.location,
		Forecast:      m.forecast,
		SelectedNight: m.selected,
		LightIndex:    light,
		Rankings:      slices.Clone(m.rankings),
		NightEvents:   slices.Clone(m.nightEvents),
		Loading:       m.jobsRunning > 0,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns log entries in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.log) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.log) < m.maxEvents {
		return slices.Clone(m.log)
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.log[(m.logWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n log entries.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if a forecast has been recorded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.forecast != nil
}
