// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package wunderground

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/wneessen/umbrella/internal/weather"
)

const hourlyPath = "hourly_forecast"

var (
	errMissing  = errors.New("field is missing")
	errNotArray = errors.New("value is not an array")
)

// field describes where a value lives in the document and which record field it is assigned to.
// The slices below are evaluated in order, so the first failing field is the one reported.
type field[T any] struct {
	name   string
	path   []string
	assign func(*T, string)
}

var currentFields = []field[weather.Current]{
	{"currentCity", []string{"current_observation", "display_location", "full"},
		func(c *weather.Current, v string) { c.City = v }},
	{"currentTempF", []string{"current_observation", "temp_f"},
		func(c *weather.Current, v string) { c.TempF = v }},
	{"currentTempC", []string{"current_observation", "temp_c"},
		func(c *weather.Current, v string) { c.TempC = v }},
	{"currentCondition", []string{"current_observation", "weather"},
		func(c *weather.Current, v string) { c.Condition = v }},
}

var hourlyFields = []field[weather.Hourly]{
	{"hourlyPrettyTimestamp", []string{"FCTTIME", "civil"},
		func(h *weather.Hourly, v string) { h.PrettyTimestamp = v }},
	{"hourlyUnixTimestamp", []string{"FCTTIME", "epoch"},
		func(h *weather.Hourly, v string) { h.UnixTimestamp = v }},
	{"hourlyIcon", []string{"icon"},
		func(h *weather.Hourly, v string) { h.IconKey = v }},
	{"hourlyTempF", []string{"temp", "english"},
		func(h *weather.Hourly, v string) { h.TempF = v }},
	{"hourlyTempC", []string{"temp", "metric"},
		func(h *weather.Hourly, v string) { h.TempC = v }},
}

// Parse turns a conditions/hourly response document into a Forecast. Values are kept as the
// raw strings the API delivers; JSON numbers are accepted and kept in their literal form.
// The first field that is missing or has the wrong shape aborts the whole parse with a
// *weather.ParseError, and no partial Forecast is returned.
func Parse(data []byte) (*weather.Forecast, error) {
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, &weather.ParseError{Field: "document", Index: -1, Err: err}
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after the document")
		}
		return nil, &weather.ParseError{Field: "document", Index: -1, Err: err}
	}

	current, err := parseCurrent(doc)
	if err != nil {
		return nil, err
	}
	hourly, err := parseHourly(doc)
	if err != nil {
		return nil, err
	}

	return &weather.Forecast{Current: current, Hourly: hourly}, nil
}

func parseCurrent(doc any) (weather.Current, error) {
	var current weather.Current
	if err := extract(doc, currentFields, &current, -1); err != nil {
		return weather.Current{}, err
	}
	return current, nil
}

func parseHourly(doc any) ([]weather.Hourly, error) {
	node, err := lookup(doc, []string{hourlyPath})
	if err != nil {
		return nil, &weather.ParseError{Field: "hourlyForecast", Index: -1, Err: err}
	}
	hours, ok := node.([]any)
	if !ok {
		return nil, &weather.ParseError{Field: "hourlyForecast", Index: -1, Err: errNotArray}
	}

	hourly := make([]weather.Hourly, 0, len(hours))
	for i, hour := range hours {
		var record weather.Hourly
		if err = extract(hour, hourlyFields, &record, i); err != nil {
			return nil, err
		}
		hourly = append(hourly, record)
	}
	return hourly, nil
}

func extract[T any](node any, fields []field[T], target *T, index int) error {
	for _, f := range fields {
		val, err := lookupString(node, f.path)
		if err != nil {
			return &weather.ParseError{Field: f.name, Index: index, Err: err}
		}
		f.assign(target, val)
	}
	return nil
}

func lookup(node any, path []string) (any, error) {
	for _, key := range path {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parent of %q is not an object", key)
		}
		if node, ok = obj[key]; !ok {
			return nil, fmt.Errorf("%w: %q", errMissing, key)
		}
	}
	return node, nil
}

func lookupString(node any, path []string) (string, error) {
	val, err := lookup(node, path)
	if err != nil {
		return "", err
	}
	switch v := val.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unexpected value type %T", val)
	}
}
