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

	"github.com/wneessen/umbrella/internal/logger"
	"github.com/wneessen/umbrella/internal/presenter"
)

// Icon delivers the condition icon for pos. A cached icon is delivered before Icon returns.
// Otherwise the tint is cached right away and the icon is loaded in the background; requests for a
// position whose icon is already loading wait for that load. deliver runs on the service loop and
// must not call back into the Service. It receives nil if the icon could not be loaded and is not
// called at all if the cache was cleared while the icon was loading.
func (s *Service) Icon(ctx context.Context, pos presenter.Position, deliver func(image.Image)) error {
	var posErr error
	err := s.exec(ctx, func() {
		record, ok := s.buckets.Record(pos.Bucket, pos.Item)
		if !ok {
			posErr = fmt.Errorf("%w: %s", ErrPosition, pos)
			return
		}
		if img, ok := s.cache.Image(pos); ok {
			deliver(img)
			return
		}

		generation := s.cache.Generation()
		if s.pendingIcons == nil || s.pendingGen != generation {
			s.pendingIcons = make(map[presenter.Position][]func(image.Image))
			s.pendingGen = generation
		}
		if waiters, ok := s.pendingIcons[pos]; ok {
			s.pendingIcons[pos] = append(waiters, deliver)
			return
		}
		s.pendingIcons[pos] = []func(image.Image){deliver}

		tint := s.tintAt(pos)
		go s.loadIcon(ctx, generation, pos, record.IconKey, tint.Highlighted())
	})
	if err != nil {
		return err
	}
	return posErr
}

// loadIcon fetches the icon off the loop. Loads of the same icon file for different positions
// share one request.
func (s *Service) loadIcon(ctx context.Context, generation uint64, pos presenter.Position, key string,
	highlighted bool,
) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.HTTP.Timeout)
	defer cancel()

	flightKey := fmt.Sprintf("%s/%t", key, highlighted)
	val, err, _ := s.iconGroup.Do(flightKey, func() (any, error) {
		return s.icons.Load(ctx, key, highlighted)
	})

	s.post(func() {
		if generation != s.cache.Generation() || generation != s.pendingGen {
			return
		}
		waiters := s.pendingIcons[pos]
		delete(s.pendingIcons, pos)

		img, _ := val.(image.Image)
		if err == nil && img == nil {
			err = errors.New("icon loader returned no image")
		}
		if err != nil {
			for _, deliver := range waiters {
				deliver(nil)
			}
			s.iconFailed(generation, pos, err)
			return
		}
		s.cache.StoreImage(generation, pos, img)
		for _, deliver := range waiters {
			deliver(img)
		}
	})
}

// iconFailed runs on the loop and reports at most one general failure per cache generation
func (s *Service) iconFailed(generation uint64, pos presenter.Position, err error) {
	s.logger.Warn("failed to load icon", logger.Err(err), slog.String("position", pos.String()))
	if s.failureGen == generation+1 {
		return
	}
	s.failureGen = generation + 1
	s.events.publish(EventGeneralFailure, err)
}
