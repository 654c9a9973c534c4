// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/wneessen/umbrella/internal/logger"
)

// HandleUnitToggleSignal toggles between imperial and metric units whenever a signal is received
func (s *Service) HandleUnitToggleSignal(ctx context.Context, sigChan <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigChan:
			if !ok {
				return
			}
			units, err := s.ToggleUnits(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					s.logger.Error("failed to toggle units", logger.Err(err))
				}
				continue
			}
			s.logger.Info("toggled units", slog.String("signal", sig.String()),
				slog.String("units", units.String()))
		}
	}
}
