package events

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/logging"
)

// DefaultTTL is how long a refreshed event list is served before the KP
// report is fetched again.
const DefaultTTL = 6 * time.Hour

// KpSource fetches the raw NOAA three-day forecast report.
type KpSource interface {
	KpReport(ctx context.Context) (string, error)
}

// Refresher keeps the event list current. Refresh calls are serialized.
type Refresher struct {
	store  Store
	kp     KpSource
	ttl    time.Duration
	now    func() time.Time
	rnd    Rand
	logger *logging.Logger
	onNew  func(context.Context, []NightEvent)

	mu         sync.Mutex
	events     []NightEvent
	lastLoaded time.Time
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) RefresherOption {
	return func(r *Refresher) {
		r.ttl = d
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) {
		r.now = now
	}
}

// WithRand sets the random source used for alert times.
func WithRand(rnd Rand) RefresherOption {
	return func(r *Refresher) {
		r.rnd = rnd
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) RefresherOption {
	return func(r *Refresher) {
		r.logger = l
	}
}

// OnNew registers a callback for events that were not stored before.
func OnNew(fn func(context.Context, []NightEvent)) RefresherOption {
	return func(r *Refresher) {
		r.onNew = fn
	}
}

// NewRefresher creates a refresher. kp may be nil to serve stored events
// only.
func NewRefresher(store Store, kp KpSource, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		store:  store,
		kp:     kp,
		ttl:    DefaultTTL,
		now:    astro.Now,
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6e617474)),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Events returns the last refreshed list.
func (r *Refresher) Events() []NightEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Invalidate makes the next Refresh rebuild regardless of the TTL.
func (r *Refresher) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLoaded = time.Time{}
}

// Refresh returns the current event list, rebuilding it from the store
// and the KP report when the last rebuild is older than the TTL. A failed
// KP fetch leaves the stored events in place.
func (r *Refresher) Refresh(ctx context.Context) ([]NightEvent, error) {
	r.mu.Lock()

	now := r.now()
	if !r.lastLoaded.IsZero() && now.Sub(r.lastLoaded) < r.ttl {
		events := slices.Clone(r.events)
		r.mu.Unlock()
		return events, nil
	}

	stored, err := r.store.Load()
	if err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("load stored events: %w", err)
	}
	SortByNight(stored)

	fresh := r.polarLightEvents(ctx, now)
	merged := Merge(stored, fresh)

	if err := r.store.Save(merged); err != nil {
		r.logger.Error("save events: %v", err)
	}

	var added []NightEvent
	for _, e := range merged {
		if !slices.ContainsFunc(stored, func(s NightEvent) bool { return sameEvent(s, e) }) {
			added = append(added, e)
		}
	}

	r.events = merged
	r.lastLoaded = now
	events := slices.Clone(merged)
	r.mu.Unlock()

	r.logger.Info("%d events (%d stored, %d new)", len(merged), len(stored), len(added))
	if len(added) > 0 && r.onNew != nil {
		r.onNew(ctx, added)
	}
	return events, nil
}

func (r *Refresher) polarLightEvents(ctx context.Context, now time.Time) []NightEvent {
	if r.kp == nil {
		return nil
	}
	report, err := r.kp.KpReport(ctx)
	if err != nil {
		r.logger.Warn("fetch KP report: %v", err)
		return nil
	}
	f, err := ParseKpForecast(report)
	if err != nil {
		r.logger.Warn("parse KP report: %v", err)
		return nil
	}
	return PolarLightEvents(f, now, r.rnd)
}
