// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the umbrella weather forecast client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wneessen/umbrella/internal/config"
	"github.com/wneessen/umbrella/internal/i18n"
	"github.com/wneessen/umbrella/internal/logger"
	"github.com/wneessen/umbrella/internal/prefs"
	"github.com/wneessen/umbrella/internal/presenter"
	"github.com/wneessen/umbrella/internal/service"
	"github.com/wneessen/umbrella/internal/weather"
	"github.com/wneessen/umbrella/internal/weather/provider/wunderground"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Environment overrides for the config may live in a .env file
	envErr := godotenv.Load()

	confRead := false
	confPath := flag.String("config", "", "path to the config file")
	zipCode := flag.String("zip", "", "zip code to fetch the weather for (saved for later runs)")
	units := flag.String("units", "", "unit system: imperial or metric (saved for later runs)")
	icons := flag.Bool("icons", false, "load the condition icons and report their size")
	asJSON := flag.Bool("json", false, "print the forecast as JSON")
	watch := flag.Bool("watch", false, "keep running and print the forecast on every update")
	flag.Parse()

	// Read default config
	conf, err := config.New()
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	// If config file was specified, read it
	if *confPath != "" {
		file := filepath.Base(*confPath)
		path := filepath.Dir(*confPath)
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
		confRead = true
	}

	// Check if we have a config file in the default location
	if path, file := findConfigFile(); !confRead && (path != "" && file != "") {
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
	}

	log = logger.New(conf.LogLevel)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn("failed to load .env file", logger.Err(envErr))
	}
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		os.Exit(1)
	}
	pres, err := presenter.New(conf, t)
	if err != nil {
		log.Error("failed to initialize presenter", logger.Err(err))
		os.Exit(1)
	}

	store, err := prefs.Open(conf.Preferences.File)
	if err != nil {
		log.Error("failed to open preferences", logger.Err(err))
		os.Exit(1)
	}
	if err = applyFlags(store, *zipCode, *units); err != nil {
		writeAlert(os.Stderr, pres.Alert(err))
		log.Error("invalid command line arguments", logger.Err(err))
		os.Exit(1)
	}
	if store.GetString(prefs.KeyZipCode) == "" && conf.Weather.ZipCode == "" {
		log.Error("no zip code configured, use -zip or weather.zip_code")
		os.Exit(1)
	}

	// Initialize the service
	serv, err := service.New(conf, log, t, service.WithPreferences(store))
	if err != nil {
		log.Error("failed to initialize umbrella service", logger.Err(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)
	defer signal.Stop(sigChan)
	go serv.HandleUnitToggleSignal(ctx, sigChan)

	events, unsubscribe := serv.Subscribe(8)
	defer unsubscribe()

	// Start the service loop
	log.Info(t.Get("starting umbrella service"), slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	runCtx, stop := context.WithCancel(ctx)
	runErr := make(chan error, 1)
	go func() { runErr <- serv.Run(runCtx) }()

	out := output{source: serv, presenter: serv.Presenter(), config: conf, icons: *icons, json: *asJSON}
	exitCode := out.handleEvents(runCtx, log, events, *watch)

	stop()
	if err = <-runErr; err != nil {
		log.Error(t.Get("failed to run umbrella service"), logger.Err(err))
	}
	log.Info(t.Get("shutting down umbrella service"))
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}

// applyFlags saves the zip code and unit system given on the command line
func applyFlags(store *prefs.Store, zipCode, units string) error {
	if zipCode != "" {
		if !wunderground.ValidZipCode(zipCode) {
			return fmt.Errorf("%w: %q", weather.ErrInvalidLocation, zipCode)
		}
		if err := store.SetString(prefs.KeyZipCode, zipCode); err != nil {
			return fmt.Errorf("failed to save zip code: %w", err)
		}
	}
	if units != "" {
		system, err := weather.ParseUnitSystem(units)
		if err != nil {
			return err
		}
		if err = store.SetBool(prefs.KeyEnglishMode, system == weather.Imperial); err != nil {
			return fmt.Errorf("failed to save unit system: %w", err)
		}
	}
	return nil
}

type output struct {
	source    forecastSource
	presenter *presenter.Presenter
	config    *config.Config
	icons     bool
	json      bool
}

// handleEvents prints the forecast on every model update. Unless watch is set it returns after the
// first update or fetch failure. The returned value is the process exit code.
func (o output) handleEvents(ctx context.Context, log *logger.Logger, events <-chan service.Event, watch bool) int {
	for {
		select {
		case <-ctx.Done():
			return 0
		case event, ok := <-events:
			if !ok {
				return 0
			}
			switch event.Kind {
			case service.EventModelUpdated:
				if err := o.print(ctx); err != nil {
					log.Error("failed to print weather data", logger.Err(err))
					if !watch {
						return 1
					}
				}
				if !watch {
					return 0
				}
			case service.EventFetchFailed:
				writeAlert(os.Stderr, o.presenter.Alert(event.Err))
				if !watch {
					return 1
				}
			case service.EventGeneralFailure:
				log.Warn("failed to load weather icons", logger.Err(event.Err))
			}
		}
	}
}

func (o output) print(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.config.HTTP.Timeout)
	defer cancel()
	snap, err := collect(ctx, o.source, o.presenter, o.icons)
	if err != nil {
		return err
	}
	if o.json {
		return writeJSON(os.Stdout, snap)
	}
	return writeGrid(os.Stdout, snap)
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "umbrella", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
