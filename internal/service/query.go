// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"

	"github.com/wneessen/umbrella/internal/presenter"
	"github.com/wneessen/umbrella/internal/weather"
)

// UnitSystem returns the active unit system
func (s *Service) UnitSystem(ctx context.Context) (weather.UnitSystem, error) {
	var units weather.UnitSystem
	err := s.exec(ctx, func() { units = s.units })
	return units, err
}

// ZipCode returns the zip code weather is fetched for
func (s *Service) ZipCode(ctx context.Context) (string, error) {
	var zipCode string
	err := s.exec(ctx, func() { zipCode = s.zipCode })
	return zipCode, err
}

// NumberOfSections returns the number of forecast days, zero while no data is available
func (s *Service) NumberOfSections(ctx context.Context) (int, error) {
	var days int
	err := s.exec(ctx, func() { days = s.days })
	return days, err
}

// NumberOfItems returns the number of forecast hours of a day section
func (s *Service) NumberOfItems(ctx context.Context, section int) (int, error) {
	var items int
	var posErr error
	if err := s.exec(ctx, func() {
		if section < 0 || section >= s.buckets.Len() {
			posErr = fmt.Errorf("%w: section %d", ErrPosition, section)
			return
		}
		items = len(s.buckets.Items(section))
	}); err != nil {
		return 0, err
	}
	return items, posErr
}

// Item returns the display text and tint of the forecast hour at pos
func (s *Service) Item(ctx context.Context, pos presenter.Position) (presenter.ItemView, error) {
	var view presenter.ItemView
	var posErr error
	if err := s.exec(ctx, func() {
		record, ok := s.buckets.Record(pos.Bucket, pos.Item)
		if !ok {
			posErr = fmt.Errorf("%w: %s", ErrPosition, pos)
			return
		}
		view = s.presenter.Item(record, s.tintAt(pos), s.units)
	}); err != nil {
		return view, err
	}
	return view, posErr
}

// HeaderTitle returns the title of a day section
func (s *Service) HeaderTitle(ctx context.Context, section int) (string, error) {
	var title string
	var posErr error
	if err := s.exec(ctx, func() {
		first, ok := s.buckets.Record(section, 0)
		if !ok {
			posErr = fmt.Errorf("%w: section %d", ErrPosition, section)
			return
		}
		title = s.presenter.HeaderTitle(section, first, s.location)
	}); err != nil {
		return "", err
	}
	return title, posErr
}

// Current returns the view of the current conditions
func (s *Service) Current(ctx context.Context) (presenter.CurrentView, error) {
	var view presenter.CurrentView
	var dataErr error
	if err := s.exec(ctx, func() {
		data := s.model.Forecast()
		if data == nil {
			dataErr = ErrNoData
			return
		}
		view = s.presenter.Current(data.Current, s.units, data.FetchedAt)
	}); err != nil {
		return view, err
	}
	return view, dataErr
}

// tintAt returns the cached tint for pos or computes and caches it. It runs on the loop and
// expects pos to be valid.
func (s *Service) tintAt(pos presenter.Position) presenter.Tint {
	if tint, ok := s.cache.Tint(pos); ok {
		return tint
	}
	tint := presenter.TintFor(pos.Item, s.extremes[pos.Bucket])
	s.cache.StoreTint(pos, tint)
	return tint
}
