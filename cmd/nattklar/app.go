package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"cloudeng.io/sync/errgroup"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/nattklar/internal/articles"
	"github.com/litescript/nattklar/internal/assets"
	"github.com/litescript/nattklar/internal/astro"
	"github.com/litescript/nattklar/internal/catalog"
	"github.com/litescript/nattklar/internal/config"
	"github.com/litescript/nattklar/internal/events"
	"github.com/litescript/nattklar/internal/feeds"
	"github.com/litescript/nattklar/internal/lightpollution"
	"github.com/litescript/nattklar/internal/logging"
	"github.com/litescript/nattklar/internal/notify"
	"github.com/litescript/nattklar/internal/sky"
	"github.com/litescript/nattklar/internal/solar"
	"github.com/litescript/nattklar/internal/state"
	"github.com/litescript/nattklar/internal/ui"
	"github.com/litescript/nattklar/internal/weather"
)

var (
	_ solar.Source    = (*feeds.Client)(nil)
	_ events.KpSource = (*feeds.Client)(nil)
)

// forecastSource is the part of feeds.Client the forecast job needs.
type forecastSource interface {
	LocationForecast(ctx context.Context, obs astro.Observer) ([]weather.Sample, error)
	AirQuality(ctx context.Context, obs astro.Observer) ([]weather.AirQuality, error)
}

// app holds the wired components of one run.
type app struct {
	cfg    config.Config
	logger *logging.Logger

	feed       forecastSource
	aggregator *weather.Aggregator
	catalog    *catalog.Catalog
	light      *lightpollution.Index
	articles   *articles.Library
	sky        *sky.Service
	refresher  *events.Refresher
	state      *state.Manager

	// program is set in TUI mode.
	program *tea.Program
}

func newApp(cfg config.Config, mgr *state.Manager, logger *logging.Logger) *app {
	client := newClient(cfg, logger.With("feeds"))

	// met.no first, the offline calculation when it fails, cached per
	// location and date.
	sun := solar.NewCached(solar.NewFallback(client, solar.NewLocal(), logger.With("solar")), solar.DefaultCacheTTL)

	cat := catalog.New()
	return &app{
		cfg:        cfg,
		logger:     logger,
		feed:       client,
		aggregator: weather.NewAggregator(sun, weather.WithLogger(logger.With("weather"))),
		catalog:    cat,
		light:      lightpollution.NewIndex(),
		articles:   articles.NewLibrary(),
		sky:        sky.NewService(cat, sun),
		refresher:  newRefresher(cfg, client, logger),
		state:      mgr,
	}
}

// newClient builds the feed client from the config.
func newClient(cfg config.Config, logger *logging.Logger) *feeds.Client {
	opts := []feeds.Option{
		feeds.WithRate(cfg.Feeds.Rate, cfg.Feeds.Burst),
		feeds.WithTimeout(cfg.Feeds.Timeout),
		feeds.WithLogger(logger),
	}
	if cfg.Feeds.UserAgent != "" {
		opts = append(opts, feeds.WithUserAgent(cfg.Feeds.UserAgent))
	}
	return feeds.NewClient(opts...)
}

// newRefresher wires the event store, the KP feed and, when configured,
// the Telegram notifier.
func newRefresher(cfg config.Config, kp events.KpSource, logger *logging.Logger) *events.Refresher {
	opts := []events.RefresherOption{events.WithLogger(logger.With("events"))}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, logger.With("telegram"))
		if err != nil {
			logger.Warn("Telegram disabled: %v", err)
		} else {
			opts = append(opts, events.OnNew(notify.PolarLightOnly(tg)))
		}
	}
	return events.NewRefresher(events.NewFileStore(cfg.EventsPath()), kp, opts...)
}

// loadAssets reads the bundled data files concurrently. A missing asset
// only disables the features that need it.
func (a *app) loadAssets() {
	dir := a.cfg.AssetDir
	var g errgroup.T

	g.Go(func() error {
		stars, err := assets.Open(dir, assets.Stars)
		if err != nil {
			return err
		}
		defer stars.Close()
		cons, err := assets.Open(dir, assets.Constellations)
		if err != nil {
			return err
		}
		defer cons.Close()
		if err := a.catalog.Load(stars, cons); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		if err := a.catalog.Validate(); err != nil {
			a.logger.Warn("Catalog has dangling stars: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		f, err := assets.Open(dir, assets.LightPollution)
		if err != nil {
			return err
		}
		defer f.Close()
		return a.light.Load(f)
	})

	g.Go(func() error {
		f, err := assets.Open(dir, assets.Articles)
		if err != nil {
			return err
		}
		defer f.Close()
		return a.articles.Load(f)
	})

	if err := g.Wait(); err != nil {
		a.logger.Warn("Some assets failed to load: %v", err)
	}
	stars, cons := a.catalog.Len()
	a.logger.Debug("Assets: %d stars, %d constellations, raster loaded %v, %d articles",
		stars, cons, a.light.Loaded(), len(a.articles.All()))
}

// fetchForecast runs one forecast job for the configured location and
// records the result in the session.
func (a *app) fetchForecast(ctx context.Context) state.Snapshot {
	obs := a.cfg.Location
	tok := a.state.Begin(obs)
	start := time.Now()

	var (
		samples  []weather.Sample
		aqi      []weather.AirQuality
		rankings []sky.Ranking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		samples, err = a.feed.LocationForecast(gctx, obs)
		return err
	})
	g.Go(func() error {
		var err error
		if aqi, err = a.feed.AirQuality(gctx, obs); err != nil {
			// Air quality is optional
			a.logger.Warn("Air quality unavailable: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if rankings, err = a.sky.Rank(gctx, obs); err != nil {
			a.logger.Warn("Constellation ranking failed: %v", err)
		}
		return nil
	})

	var res state.Result
	if err := g.Wait(); err != nil {
		res.Err = fmt.Errorf("fetch forecast: %w", err)
	} else {
		res.Forecast, res.Err = a.aggregator.Aggregate(ctx, obs, samples, aqi)
	}
	res.Rankings = rankings
	if idx, ok := a.light.At(obs.LatDeg, obs.LonDeg); ok {
		res.LightIndex = &idx
	}
	res.Duration = time.Since(start)

	if !a.state.Complete(tok, res) {
		a.logger.Debug("Dropped stale forecast for %s", obs.Name)
	}
	if res.Err != nil {
		a.logger.Error("Forecast failed: %v", res.Err)
	} else {
		a.logger.Debug("Forecast complete: %d nights in %v", len(res.Forecast.Nights), res.Duration)
	}
	return a.state.Snapshot()
}

// refreshEvents reloads the night events into the session.
func (a *app) refreshEvents(ctx context.Context) {
	list, err := a.refresher.Refresh(ctx)
	if err != nil {
		a.logger.Error("Night events: %v", err)
		return
	}
	a.state.SetNightEvents(list)
}

// refreshForecast fetches forecast and events and pushes the result to
// the TUI.
func (a *app) refreshForecast(ctx context.Context) {
	a.refreshEvents(ctx)
	snap := a.fetchForecast(ctx)
	if a.program == nil {
		return
	}
	if snap.LastError != nil {
		a.program.Send(ui.ErrorMsg{Error: snap.LastError})
		return
	}
	a.program.Send(ui.DataUpdateMsg{Snapshot: snap})
}

func (a *app) runFetchLoop(ctx context.Context) {
	// Do initial fetch immediately
	a.refreshForecast(ctx)

	ticker := time.NewTicker(a.state.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Fetch loop shutting down")
			return
		case <-ticker.C:
			a.refreshForecast(ctx)
		}
	}
}

// runHeadless prints the requested outputs once.
func (a *app) runHeadless(ctx context.Context) error {
	a.refreshEvents(ctx)
	snap := a.state.Snapshot()

	if eventsMode && !summaryMode && jsonPath == "" {
		ui.WriteEvents(os.Stdout, snap.NightEvents, 0)
		return nil
	}

	snap = a.fetchForecast(ctx)
	if snap.LastError != nil {
		return snap.LastError
	}
	now := time.Now()

	// Export JSON if requested
	if jsonPath != "" {
		export := ui.ExportSnapshot(snap, now)
		if jsonPath == "-" {
			if err := export.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(jsonPath)
			if err != nil {
				return fmt.Errorf("create snapshot file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	if summaryMode || jsonPath == "" {
		ui.WriteSummaryTable(os.Stdout, snap, now)
	}

	if eventsMode {
		fmt.Println()
		ui.WriteEvents(os.Stdout, snap.NightEvents, 10)
	}
	return nil
}

// watchEvents refreshes night events on the configured schedule until ctx
// is canceled.
func (a *app) watchEvents(ctx context.Context) error {
	s, err := events.Schedule(a.refresher, a.cfg.Events.Schedule, a.logger.With("schedule"))
	if err != nil {
		return err
	}
	defer s.Stop()

	// Run once right away rather than waiting for the first tick
	a.refreshEvents(ctx)
	a.logger.Info("Watching night events (%s), %d known", a.cfg.Events.Schedule, len(a.refresher.Events()))

	<-ctx.Done()
	return nil
}

// writeArticles lists the articles in category, or all of them.
func (a *app) writeArticles(category string) {
	list := a.articles.All()
	if !strings.EqualFold(category, "all") {
		list = a.articles.FilterByCategory(category)
	}
	if len(list) == 0 {
		fmt.Printf("No articles in %q. Categories: %s\n", category, strings.Join(a.articles.Categories(), ", "))
		return
	}
	for _, art := range list {
		fmt.Printf("%s\n%s\n\n", art.Title, art.Body)
	}
}
