// Command nattklar is a terminal UI for judging stargazing conditions over
// the coming nights.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/nattklar/internal/config"
	"github.com/litescript/nattklar/internal/logging"
	"github.com/litescript/nattklar/internal/state"
	"github.com/litescript/nattklar/internal/ui"
)

// CLI flags for headless mode
var (
	configPath  string
	summaryMode bool
	jsonPath    string
	eventsMode  bool
	watchEvents bool
	articleCat  string
)

const (
	defaultRefresh = 30 * time.Minute
	minRefresh     = 1 * time.Minute
	maxRefresh     = 6 * time.Hour
)

func main() {
	// Parse flags
	refresh := flag.Duration("refresh", defaultRefresh, "Forecast refresh interval (e.g., 30m, 1h)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees")
	name := flag.String("name", "", "Observer display name")
	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Export JSON snapshot to file (use - for stdout)")
	flag.BoolVar(&eventsMode, "events", false, "Print upcoming night events")
	flag.BoolVar(&watchEvents, "watch-events", false, "Keep refreshing night events on the configured schedule")
	flag.StringVar(&articleCat, "articles", "", "List articles in a category (use all for every article)")
	flag.Parse()

	cfg, err := loadConfig(func(c *config.Config) {
		// Flags win over file and environment, but only when given
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "lat":
				c.Location.LatDeg = *lat
			case "lon":
				c.Location.LonDeg = *lon
			case "name":
				c.Location.Name = *name
			case "log-level":
				c.LogLevel = *logLevel
			}
		})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Validate refresh interval
	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = *refresh
	a := newApp(cfg, state.NewManager(stateCfg), logger)
	a.loadAssets()

	if articleCat != "" {
		a.writeArticles(articleCat)
		return
	}

	if watchEvents {
		if err := a.watchEvents(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// The TUI needs a terminal; anything else gets the summary
	headless := summaryMode || jsonPath != "" || eventsMode || !term.IsTerminal(int(os.Stdout.Fd()))
	if headless {
		if err := a.runHeadless(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// TUI logs would corrupt the alt screen
	logger.SetOutput(logFile())

	model := ui.New(a.state,
		ui.WithStars(a.catalog.Stars()),
		ui.WithArticles(a.articles),
		ui.WithRefresh(func() { a.refreshForecast(ctx) }),
	)

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen())
	a.program = p

	// Start fetch loop in background
	go a.runFetchLoop(ctx)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers the config file, .env and environment, then applies
// the command-line overrides before validating.
func loadConfig(overrides func(*config.Config)) (config.Config, error) {
	if err := config.LoadEnvFiles(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return config.Config{}, err
	}
	overrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// logFile returns the TUI log destination: $TMPDIR/nattklar.log, or
// nowhere when it cannot be opened.
func logFile() io.Writer {
	f, err := os.OpenFile(filepath.Join(os.TempDir(), "nattklar.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard
	}
	return f
}
