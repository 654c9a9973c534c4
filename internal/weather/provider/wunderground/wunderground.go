// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package wunderground

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/umbrella/internal/logger"
	"github.com/wneessen/umbrella/internal/weather"
)

const name = "wunderground"

// Fetcher performs a HTTP GET and returns the raw response body
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

type Wunderground struct {
	host   string
	apiKey string
	log    *logger.Logger
	http   Fetcher
}

func New(http Fetcher, log *logger.Logger, host, apiKey string) (*Wunderground, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Wunderground{host: host, apiKey: apiKey, http: http, log: log}, nil
}

func (w *Wunderground) Name() string {
	return name
}

// GetWeather fetches and parses the conditions and hourly forecast for the given zip code
func (w *Wunderground) GetWeather(ctx context.Context, zipCode string) (*weather.Forecast, error) {
	reqURL, err := BuildURL(w.host, w.apiKey, zipCode)
	if err != nil {
		return nil, err
	}

	body, err := w.http.Fetch(ctx, reqURL.String())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve weather data from %s: %w", weather.ErrTransport, name, err)
	}

	forecast, err := Parse(body)
	if err != nil {
		var perr *weather.ParseError
		if errors.As(err, &perr) {
			w.log.Error("weather API response does not match the expected document shape",
				slog.String("field", perr.Field), slog.Int("index", perr.Index), logger.Err(err))
		}
		return nil, err
	}
	forecast.FetchedAt = time.Now()
	forecast.ZipCode = zipCode

	return forecast, nil
}
