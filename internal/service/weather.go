// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wneessen/umbrella/internal/forecast"
	"github.com/wneessen/umbrella/internal/logger"
	"github.com/wneessen/umbrella/internal/prefs"
	"github.com/wneessen/umbrella/internal/weather"
)

// ErrNoZipCode is returned by Refresh while no zip code is configured
var ErrNoZipCode = errors.New("no zip code configured")

// derived is the state computed from a forecast for one unit system
type derived struct {
	buckets  forecast.Buckets
	days     int
	extremes []forecast.Extremes
}

func derive(data *weather.Forecast, units weather.UnitSystem, loc *time.Location) (derived, error) {
	buckets, days, err := forecast.Group(data.Hourly, loc)
	if err != nil {
		return derived{}, err
	}
	return derived{
		buckets:  buckets,
		days:     days,
		extremes: forecast.ExtremesByDay(buckets, units),
	}, nil
}

// Refresh fetches the weather for the current zip code
func (s *Service) Refresh(ctx context.Context) error {
	var zipCode string
	if err := s.exec(ctx, func() { zipCode = s.zipCode }); err != nil {
		return err
	}
	if zipCode == "" {
		return ErrNoZipCode
	}
	return s.FetchWeather(ctx, zipCode)
}

// FetchWeather fetches, parses and applies the weather for zipCode. The network request runs off
// the service loop; the result is applied on the loop. If a newer fetch has already been applied
// when the result arrives, it is discarded and ErrSuperseded is returned. If the result cannot be
// derived into day buckets, the previous state stays in place.
func (s *Service) FetchWeather(ctx context.Context, zipCode string) error {
	log := s.logger.With(slog.String("fetch_id", uuid.NewString()), slog.String("zip_code", zipCode))

	var seq uint64
	if err := s.exec(ctx, func() {
		s.fetchSeq++
		seq = s.fetchSeq
	}); err != nil {
		return err
	}

	log.Debug("fetching weather data", slog.String("provider", s.provider.Name()))
	data, fetchErr := s.provider.GetWeather(ctx, zipCode)

	// The completion has to reach the loop even if the caller gave up in the meantime
	var applyErr error
	if err := s.exec(context.WithoutCancel(ctx), func() {
		applyErr = s.complete(log, seq, data, fetchErr)
	}); err != nil {
		return err
	}
	return applyErr
}

// complete runs on the loop and applies the outcome of the fetch with the given sequence number
func (s *Service) complete(log *logger.Logger, seq uint64, data *weather.Forecast, fetchErr error) error {
	if seq < s.appliedSeq {
		log.Debug("discarding superseded weather fetch", slog.Uint64("seq", seq),
			slog.Uint64("applied", s.appliedSeq))
		return ErrSuperseded
	}
	if fetchErr != nil {
		log.Error("failed to fetch weather data", logger.Err(fetchErr))
		s.events.publish(EventFetchFailed, fetchErr)
		return fetchErr
	}

	state, err := derive(data, s.units, s.location)
	if err != nil {
		var tsErr *weather.TimestampError
		if errors.As(err, &tsErr) {
			log.Error("failed to group hourly forecast", logger.Err(err), slog.Int("index", tsErr.Index),
				slog.String("value", tsErr.Value))
		} else {
			log.Error("failed to group hourly forecast", logger.Err(err))
		}
		err = fmt.Errorf("failed to derive forecast: %w", err)
		s.events.publish(EventFetchFailed, err)
		return err
	}

	s.appliedSeq = seq
	s.model.Replace(data)
	s.buckets, s.days, s.extremes = state.buckets, state.days, state.extremes
	// A newer fetch may still be in flight for a zip code selected in the meantime
	if seq == s.fetchSeq {
		s.zipCode = data.ZipCode
	}
	s.cache.Clear()
	log.Debug("weather data updated", slog.Int("days", s.days), slog.Int("hours", len(data.Hourly)),
		slog.Uint64("version", s.model.Version()))
	s.events.publish(EventModelUpdated, nil)
	return nil
}

// SetZipCode validates and saves the zip code and fetches the weather for it
func (s *Service) SetZipCode(ctx context.Context, zipCode string) error {
	if !s.validZip(zipCode) {
		return fmt.Errorf("%w: %q", weather.ErrInvalidLocation, zipCode)
	}
	if err := s.prefs.SetString(prefs.KeyZipCode, zipCode); err != nil {
		s.logger.Error("failed to save zip code", logger.Err(err))
	}
	if err := s.exec(ctx, func() { s.zipCode = zipCode }); err != nil {
		return err
	}
	return s.FetchWeather(ctx, zipCode)
}

// SetUnitSystem switches the unit system. The extremes are recomputed and the presentation cache
// is cleared since the tints depend on the active unit.
func (s *Service) SetUnitSystem(ctx context.Context, units weather.UnitSystem) error {
	changed := false
	if err := s.exec(ctx, func() {
		if s.units != units {
			s.switchUnits(units)
			changed = true
		}
	}); err != nil {
		return err
	}
	if changed {
		s.unitsChanged(units)
	}
	return nil
}

// ToggleUnits switches between imperial and metric and returns the new unit system
func (s *Service) ToggleUnits(ctx context.Context) (weather.UnitSystem, error) {
	var units weather.UnitSystem
	if err := s.exec(ctx, func() {
		units = s.units.Toggle()
		s.switchUnits(units)
	}); err != nil {
		return units, err
	}
	s.unitsChanged(units)
	return units, nil
}

// switchUnits runs on the loop
func (s *Service) switchUnits(units weather.UnitSystem) {
	s.units = units
	s.extremes = forecast.ExtremesByDay(s.buckets, units)
	s.cache.Clear()
}

func (s *Service) unitsChanged(units weather.UnitSystem) {
	if err := s.prefs.SetBool(prefs.KeyEnglishMode, units == weather.Imperial); err != nil {
		s.logger.Error("failed to save unit preference", logger.Err(err))
	}
	s.logger.Debug("unit system changed", slog.String("units", units.String()))
	s.events.publish(EventModelUpdated, nil)
}
