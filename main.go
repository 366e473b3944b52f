package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"projectfeed/internal/cache"
	"projectfeed/internal/catalog"
	"projectfeed/internal/config"
	"projectfeed/internal/eventbus"
	"projectfeed/internal/feed"
	"projectfeed/internal/i18n"
	"projectfeed/internal/logging"
	"projectfeed/internal/metrics"
	"projectfeed/internal/ui"
)

// demoSize is the number of projects generated when no catalog is given
const demoSize = 240

func main() {
	// Parse command line arguments
	var catalogPath, configPath, metricsAddr, logLevel string
	flag.StringVar(&catalogPath, "catalog", "", "JSON catalog to browse (default: generated demo catalog)")
	flag.StringVar(&catalogPath, "c", "", "JSON catalog to browse (shorthand)")
	flag.StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	flag.StringVar(&metricsAddr, "metrics", "", "Serve Prometheus metrics on this address, e.g. :9090")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	// Positional argument is the catalog
	if catalogPath == "" && flag.NArg() > 0 {
		catalogPath = flag.Arg(0)
	}

	// Load configuration first; it names the log file
	cfg, err := config.NewConfigService(configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if catalogPath == "" {
		catalogPath = cfg.CatalogPath
	}
	if metricsAddr == "" {
		metricsAddr = cfg.Metrics.Addr
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}

	// Set up logging; the terminal belongs to the UI
	logOut := io.Discard
	if cfg.Log.File != "" {
		logFile, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		} else {
			defer logFile.Close()
			logOut = logFile
		}
	}
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(logLevel),
		Pretty: cfg.Log.Pretty,
		Output: logOut,
	})
	logger := logging.NewLogger("main")

	// The bus logs through the file logger set up above
	bus := eventbus.New(eventbus.WithLogger(logging.NewLogger("eventbus")))
	defer bus.Close()
	configSvc := config.NewConfigServiceWithBus(configPath, bus)
	logger.Info().Str("config", configSvc.Path()).Msg("Starting projectfeed")
	startupEvents := []eventbus.DomainEvent{
		eventbus.ConfigLoadedEvent{Path: configSvc.Path(), Params: cfg.Params},
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	src, err := openCatalog(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	pageCache, err := cache.New(ctx, cache.Settings{
		Kind:      cfg.Cache.Kind,
		Size:      cfg.Cache.Size,
		RedisAddr: cfg.Cache.RedisAddr,
		TTL:       cfg.Cache.TTL,
	})
	if err != nil {
		// A broken cache only costs speed
		logger.Warn().Err(err).Str("kind", cfg.Cache.Kind).Msg("Page cache disabled")
		startupEvents = append(startupEvents, eventbus.ErrorEvent{Message: "Page cache unavailable", Err: err})
		pageCache = nil
	}
	if closer, ok := pageCache.(io.Closer); ok {
		defer closer.Close()
	}
	source := cache.NewCachedSource(src, pageCache, logging.NewLogger("cache"))

	if metricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, metricsAddr, logging.NewLogger("metrics")); err != nil {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	tr, err := i18n.New(cfg.UISettings.Language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading translations: %v\n", err)
		os.Exit(1)
	}

	controller := feed.NewController(source,
		feed.WithBus(bus),
		feed.WithLogger(logging.NewLogger("feed")),
	)

	uiModel := ui.NewModel(ui.Deps{
		Bus:        bus,
		Config:     cfg,
		ConfigSvc:  configSvc,
		Feed:       controller,
		Translator: tr,
		Logger:     logging.NewLogger("ui"),
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	e2e := os.Getenv("PROJECTFEED_E2E_TEST") == "1"
	if !e2e {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(uiModel, opts...)
	uiModel.SetProgram(p)

	// Forward domain events the UI reacts to
	subscribeLogging(bus)
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	for _, e := range startupEvents {
		bus.Publish(e)
	}

	if e2e {
		fmt.Println("__READY__")
	}

	// Run the UI
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error().Err(err).Msg("Error running program")
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info().Msg("UI exited normally")
}

// openCatalog loads the JSON catalog at path, or a demo catalog for ""
func openCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		log.Info().Int("projects", demoSize).Msg("No catalog given, using demo catalog")
		return catalog.Demo(demoSize, 1, time.Now(), catalog.WithLatency(300*time.Millisecond)), nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("projects", c.Len()).Msg("Catalog loaded")
	return c, nil
}

// subscribeLogging writes feed and config events to the log
func subscribeLogging(bus eventbus.EventBus) {
	logger := logging.NewLogger("events")
	logEvent := func(level zerolog.Level) eventbus.EventHandler {
		return func(e eventbus.DomainEvent) {
			logger.WithLevel(level).Str("event", string(e.Type())).Interface("payload", e).Msg("event")
		}
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventParamsChanged,
		eventbus.EventPageLoaded,
		eventbus.EventProjectOpened,
		eventbus.EventBuildAvailable,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(t, logEvent(zerolog.DebugLevel))
	}
	bus.Subscribe(eventbus.EventPageFailed, logEvent(zerolog.WarnLevel))
}
