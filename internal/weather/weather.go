// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
)

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetWeather(ctx context.Context, zipCode string) (*Forecast, error)
}

// Forecast is the result of one successful fetch.
type Forecast struct {
	FetchedAt time.Time
	ZipCode   string

	Current Current
	Hourly  []Hourly
}

// Current holds the current observation. Values are kept as delivered by the API.
type Current struct {
	City      string
	TempF     string
	TempC     string
	Condition string
}

// Hourly is a single forecast hour. The API delivers them in ascending UnixTimestamp order.
type Hourly struct {
	PrettyTimestamp string
	UnixTimestamp   string
	IconKey         string
	TempF           string
	TempC           string
}

// Temperature returns the current temperature string for the given unit system
func (c Current) Temperature(units UnitSystem) string {
	if units == Metric {
		return c.TempC
	}
	return c.TempF
}

// Temperature returns the forecast temperature string for the given unit system
func (h Hourly) Temperature(units UnitSystem) string {
	if units == Metric {
		return h.TempC
	}
	return h.TempF
}

// Time converts the epoch-as-string timestamp into a time.Time in the given location.
// Fractional seconds are honored.
func (h Hourly) Time(loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(h.UnixTimestamp)
	if raw == "" {
		return time.Time{}, ErrMissingTimestamp
	}
	epoch, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(epoch) || math.IsInf(epoch, 0) {
		return time.Time{}, ErrMissingTimestamp
	}
	sec, frac := math.Modf(epoch)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).In(loc), nil
}
