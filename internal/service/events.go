// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"sync"
	"time"
)

// EventKind identifies what happened inside the service
type EventKind int

const (
	// EventModelUpdated is sent after new weather data was applied or the unit system changed
	EventModelUpdated EventKind = iota
	// EventGeneralFailure is sent once per cache generation when an icon could not be loaded
	EventGeneralFailure
	// EventFetchFailed is sent when a weather fetch failed. Err carries the cause.
	EventFetchFailed
)

func (k EventKind) String() string {
	switch k {
	case EventModelUpdated:
		return "model_updated"
	case EventGeneralFailure:
		return "general_failure"
	case EventFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Event is delivered to every subscriber
type Event struct {
	Kind EventKind
	Err  error
	At   time.Time
}

// eventBus fans out events to subscribers. Slow subscribers miss events instead of blocking
// the publisher.
type eventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[chan Event]struct{})}
}

// Subscribe adds a subscriber with the given buffer size, returning an event channel and an
// unsubscribe function.
func (b *eventBus) Subscribe(size int) (<-chan Event, func()) {
	ch := make(chan Event, size)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsub
}

func (b *eventBus) publish(kind EventKind, err error) {
	event := Event{Kind: kind, Err: err, At: time.Now()}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
