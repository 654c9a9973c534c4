// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vorlif/spreak"
	"golang.org/x/sync/singleflight"

	"github.com/wneessen/umbrella/internal/config"
	"github.com/wneessen/umbrella/internal/forecast"
	"github.com/wneessen/umbrella/internal/http"
	"github.com/wneessen/umbrella/internal/icon"
	"github.com/wneessen/umbrella/internal/logger"
	"github.com/wneessen/umbrella/internal/prefs"
	"github.com/wneessen/umbrella/internal/presenter"
	"github.com/wneessen/umbrella/internal/weather"
	"github.com/wneessen/umbrella/internal/weather/provider/wunderground"
)

const weatherUpdateJob = "weather_update_job"

var (
	// ErrSuperseded is returned when a newer fetch already replaced the weather data
	ErrSuperseded = errors.New("fetch was superseded by a newer one")
	// ErrNoData is returned by queries while no weather data has been applied
	ErrNoData = errors.New("no weather data available")
	// ErrPosition is returned for sections or items that do not exist
	ErrPosition = errors.New("position out of range")
	// ErrStopped is returned when the service loop is not running anymore
	ErrStopped = errors.New("service is not running")
)

// IconLoader loads the condition icon for an icon key
type IconLoader interface {
	Load(ctx context.Context, key string, highlighted bool) (image.Image, error)
}

// Preferences persists the zip code and the unit preference
type Preferences interface {
	GetString(key string) string
	SetString(key, value string) error
	GetBool(key string) (value, ok bool)
	SetBool(key string, value bool) error
}

// Service orchestrates weather fetches and owns the derived forecast state. All state below the
// loop comment is only ever touched by closures running on the service loop.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	presenter *presenter.Presenter
	provider  weather.Provider
	icons     IconLoader
	prefs     Preferences
	validZip  func(string) bool
	scheduler gocron.Scheduler
	events    *eventBus
	location  *time.Location
	iconGroup singleflight.Group

	calls    chan func()
	loopDone chan struct{}
	running  atomic.Bool

	// loop confined
	model      *weather.Model
	buckets    forecast.Buckets
	days       int
	extremes   []forecast.Extremes
	cache      *presenter.Cache
	units      weather.UnitSystem
	zipCode    string
	fetchSeq   uint64
	appliedSeq uint64
	failureGen uint64
	// icon requests waiting for a load in flight, valid for pendingGen only
	pendingIcons map[presenter.Position][]func(image.Image)
	pendingGen   uint64
}

// Option configures a Service
type Option func(*Service)

// WithProvider replaces the weather provider
func WithProvider(provider weather.Provider) Option {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithIconLoader replaces the icon loader
func WithIconLoader(icons IconLoader) Option {
	return func(s *Service) {
		s.icons = icons
	}
}

// WithPreferences replaces the preferences store
func WithPreferences(p Preferences) Option {
	return func(s *Service) {
		s.prefs = p
	}
}

// WithModel injects the model instance holding the displayed forecast
func WithModel(model *weather.Model) Option {
	return func(s *Service) {
		s.model = model
	}
}

// WithZipValidator replaces the zip code format check used by SetZipCode
func WithZipValidator(valid func(string) bool) Option {
	return func(s *Service) {
		s.validZip = valid
	}
}

func New(conf *config.Config, log *logger.Logger, t *spreak.Localizer, opts ...Option) (*Service, error) {
	pres, err := presenter.New(conf, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		presenter: pres,
		validZip:  wunderground.ValidZipCode,
		events:    newEventBus(),
		location:  conf.Location(),
		calls:     make(chan func()),
		loopDone:  make(chan struct{}),
		cache:     presenter.NewCache(),
	}
	for _, opt := range opts {
		opt(service)
	}

	if service.provider == nil || service.icons == nil {
		client := http.New(log, http.WithTimeout(conf.HTTP.Timeout),
			http.WithBreakerFailures(conf.HTTP.BreakerFailures))
		if service.provider == nil {
			provider, err := wunderground.New(client, log, conf.Weather.APIHost, conf.Weather.APIKey)
			if err != nil {
				return nil, fmt.Errorf("failed to create weather provider: %w", err)
			}
			service.provider = provider
		}
		if service.icons == nil {
			service.icons = icon.New(client, log, conf.Weather.IconHost, conf.HTTP.IconRate, conf.HTTP.IconBurst)
		}
	}
	if service.prefs == nil {
		store, err := prefs.Open(conf.Preferences.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open preferences: %w", err)
		}
		service.prefs = store
	}
	if service.model == nil {
		service.model = weather.NewModel()
	}

	service.zipCode = conf.Weather.ZipCode
	if zip := service.prefs.GetString(prefs.KeyZipCode); zip != "" {
		service.zipCode = zip
	}
	service.units, err = weather.ParseUnitSystem(conf.Units)
	if err != nil {
		return nil, err
	}
	if english, ok := service.prefs.GetBool(prefs.KeyEnglishMode); ok {
		service.units = weather.Metric
		if english {
			service.units = weather.Imperial
		}
	}

	return service, nil
}

// Run starts the service loop, the periodic weather refresh and, if enabled, the refresh after a
// system resume. It blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("service is already running")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.scheduler = scheduler

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	go s.loop(loopCtx)

	if err = s.createScheduledJob(ctx, s.config.Intervals.WeatherUpdate, s.scheduledRefresh,
		weatherUpdateJob, gocron.WithStartAt(gocron.WithStartImmediately())); err != nil {
		return err
	}
	s.scheduler.Start()

	if !s.config.Weather.DisableResumeRefresh {
		go s.monitorSleepResume(ctx)
	}

	<-ctx.Done()
	return s.scheduler.Shutdown()
}

// Subscribe returns a channel receiving service events and a function to unsubscribe
func (s *Service) Subscribe(size int) (<-chan Event, func()) {
	return s.events.Subscribe(size)
}

// Presenter returns the presenter used to build the display texts
func (s *Service) Presenter() *presenter.Presenter {
	return s.presenter
}

// loop executes the posted closures one at a time until ctx is cancelled
func (s *Service) loop(ctx context.Context) {
	defer close(s.loopDone)
	for {
		select {
		case <-ctx.Done():
			return
		case call := <-s.calls:
			call()
		}
	}
}

// exec runs fn on the service loop and waits for it to complete
func (s *Service) exec(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	call := func() {
		defer close(done)
		fn()
	}
	select {
	case s.calls <- call:
	case <-s.loopDone:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-s.loopDone:
		return ErrStopped
	}
}

// post hands fn to the service loop without waiting for it to run. It reports false if the loop
// has stopped.
func (s *Service) post(fn func()) bool {
	select {
	case s.calls <- fn:
		return true
	case <-s.loopDone:
		return false
	}
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string, opts ...gocron.JobOption,
) error {
	opts = append([]gocron.JobOption{
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	}, opts...)
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

func (s *Service) scheduledRefresh(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, ErrStopped) {
			return
		}
		s.logger.Debug("scheduled weather refresh failed", logger.Err(err),
			slog.String("job", weatherUpdateJob))
	}
}
