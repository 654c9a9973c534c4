// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	const (
		expectDefaultUnits          = "imperial"
		expectLogLevel              = slog.LevelInfo
		expectAPIHost               = "api.wunderground.com"
		expectIntervalWeatherUpdate = time.Minute * 15
		expectHTTPTimeout           = time.Second * 10
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Units != expectDefaultUnits {
			t.Errorf("expected units to be: %s, got %s", expectDefaultUnits, conf.Units)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Weather.APIHost != expectAPIHost {
			t.Errorf("expected API host to be: %s, got %s", expectAPIHost, conf.Weather.APIHost)
		}
		if conf.Weather.DisableResumeRefresh {
			t.Error("expected refresh on resume to be enabled by default")
		}
		if conf.Intervals.WeatherUpdate != expectIntervalWeatherUpdate {
			t.Errorf("expected weather update interval to be: %s, got %s", expectIntervalWeatherUpdate,
				conf.Intervals.WeatherUpdate)
		}
		if conf.HTTP.Timeout != expectHTTPTimeout {
			t.Errorf("expected HTTP timeout to be: %s, got %s", expectHTTPTimeout, conf.HTTP.Timeout)
		}
		if conf.Templates.Current != DefaultCurrentTpl {
			t.Errorf("expected current template to be the default, got %q", conf.Templates.Current)
		}
		if !strings.HasSuffix(conf.Preferences.File, "preferences.toml") {
			t.Errorf("expected default preferences file, got %q", conf.Preferences.File)
		}
		if conf.Location() == nil {
			t.Error("expected location to be non-nil")
		}
	})
	t.Run("new config with timezone from env", func(t *testing.T) {
		t.Setenv("UMBRELLA_TIMEZONE", "America/New_York")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Location().String() != "America/New_York" {
			t.Errorf("expected location to be America/New_York, got %s", conf.Location())
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("UMBRELLA_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate units", func(t *testing.T) {
		t.Setenv("UMBRELLA_UNITS", "kelvin")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate timezone", func(t *testing.T) {
		t.Setenv("UMBRELLA_TIMEZONE", "Mars/Olympus_Mons")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate weather update interval", func(t *testing.T) {
		t.Setenv("UMBRELLA_INTERVALS_WEATHER_UPDATE", "10s")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate negative HTTP values", func(t *testing.T) {
		tests := []struct {
			env   string
			value string
		}{
			{"UMBRELLA_HTTP_ICON_RATE", "-1"},
			{"UMBRELLA_HTTP_ICON_BURST", "-1"},
			{"UMBRELLA_HTTP_TIMEOUT", "-1s"},
		}
		for _, tc := range tests {
			t.Run(tc.env, func(t *testing.T) {
				t.Setenv(tc.env, tc.value)
				_, err := New()
				if err == nil {
					t.Error("expected config to fail, but didn't")
				}
			})
		}
	})
	t.Run("zero HTTP values fall back to the defaults", func(t *testing.T) {
		t.Setenv("UMBRELLA_HTTP_ICON_RATE", "0")
		t.Setenv("UMBRELLA_HTTP_ICON_BURST", "0")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.HTTP.IconRate != 8 {
			t.Errorf("expected icon rate to be: 8, got %f", conf.HTTP.IconRate)
		}
		if conf.HTTP.IconBurst != 8 {
			t.Errorf("expected icon burst to be: 8, got %d", conf.HTTP.IconBurst)
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("reading config from valid file succeeds", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Units != "imperial" {
			t.Errorf("expected units to be: imperial, got %s", conf.Units)
		}
		if conf.Weather.ZipCode != "10001" {
			t.Errorf("expected zip code to be: 10001, got %s", conf.Weather.ZipCode)
		}
		if conf.HTTP.IconBurst != 8 {
			t.Errorf("expected icon burst to be: 8, got %d", conf.HTTP.IconBurst)
		}
		if conf.Templates.Current != "{{.City}}: {{.Temperature}} {{.Condition}}" {
			t.Errorf("expected current template from file, got %q", conf.Templates.Current)
		}
	})
	t.Run("reading config from non-existent file fails", func(t *testing.T) {
		_, err := NewFromFile("../../etc", "non-existent.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("reading invalid config file fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "invalid.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}
