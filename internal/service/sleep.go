// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/umbrella/internal/logger"
)

const (
	dbusInterface   = "org.freedesktop.login1.Manager"
	dbusWatchMember = "PrepareForSleep"

	resumeDebounce   = 2 * time.Second
	signalBufferSize = 8

	busReconnectDelay   = 5 * time.Second
	subscribeRetryDelay = 10 * time.Second
)

// monitorSleepResume refreshes the weather after the system woke up. It reconnects to the system
// bus until ctx is cancelled.
func (s *Service) monitorSleepResume(ctx context.Context) {
	debounce := &debouncer{window: resumeDebounce}
	for {
		conn := s.connectToSystemBus(ctx)
		if conn == nil {
			return
		}
		if s.subscribeSleepSignal(ctx, conn) {
			sigCh := make(chan *dbus.Signal, signalBufferSize)
			conn.Signal(sigCh)
			s.logger.Debug("subscribed to dbus signal", slog.String("interface", dbusInterface),
				slog.String("member", dbusWatchMember))
			s.handleSleepSignals(ctx, sigCh, debounce)
			conn.RemoveSignal(sigCh)
		}
		if err := conn.Close(); err != nil {
			s.logger.Debug("failed to close system bus connection", logger.Err(err))
		}
		if !sleepCtx(ctx, busReconnectDelay) {
			return
		}
	}
}

// connectToSystemBus retries connecting to the system bus until it succeeds or ctx is cancelled
func (s *Service) connectToSystemBus(ctx context.Context) *dbus.Conn {
	for {
		conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
		if err == nil {
			return conn
		}
		s.logger.Debug("failed to connect to system bus", logger.Err(err))
		if !sleepCtx(ctx, busReconnectDelay) {
			return nil
		}
	}
}

func (s *Service) subscribeSleepSignal(ctx context.Context, conn *dbus.Conn) bool {
	err := conn.AddMatchSignalContext(ctx, dbus.WithMatchInterface(dbusInterface),
		dbus.WithMatchMember(dbusWatchMember))
	if err != nil {
		s.logger.Error("failed to subscribe to dbus signal", slog.String("interface", dbusInterface),
			slog.String("member", dbusWatchMember), logger.Err(err))
		sleepCtx(ctx, subscribeRetryDelay)
		return false
	}
	return true
}

// handleSleepSignals returns when ctx is cancelled or the signal channel is closed
func (s *Service) handleSleepSignals(ctx context.Context, sigCh <-chan *dbus.Signal, debounce *debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case sgn, ok := <-sigCh:
			if !ok {
				return
			}
			if isResumeSignal(sgn) && debounce.allow(time.Now()) {
				go s.handleResumeEvent(ctx)
			}
		}
	}
}

// handleResumeEvent gives the network some time to come back before refreshing
func (s *Service) handleResumeEvent(ctx context.Context) {
	if !sleepCtx(ctx, s.config.Intervals.ResumeDelay) {
		return
	}
	s.logger.Debug("resumed from sleep, fetching latest weather data")
	s.scheduledRefresh(ctx)
}

// isResumeSignal reports whether sgn is PrepareForSleep(false), which logind sends after a resume
func isResumeSignal(sgn *dbus.Signal) bool {
	if sgn == nil || len(sgn.Body) != 1 {
		return false
	}
	sleeping, ok := sgn.Body[0].(bool)
	return ok && !sleeping
}

// debouncer suppresses events that follow the last accepted one within window
type debouncer struct {
	window time.Duration
	last   time.Time
}

func (d *debouncer) allow(now time.Time) bool {
	if !d.last.IsZero() && now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	return true
}

// sleepCtx waits for d and reports false if ctx was cancelled first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
