// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kkyr/fig"
)

const (
	configEnv         = "UMBRELLA"
	DefaultCurrentTpl = "{{.City}}: {{.Temperature}} {{.Condition}} {{.MoonPhaseIcon}}\n" +
		"{{loc \"updated\"}}: {{localizedTime .UpdateTime}}"
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"imperial"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`
	// IANA zone name used to derive calendar days, or "Local"
	Timezone string `fig:"timezone" default:"Local"`

	Weather struct {
		APIKey   string `fig:"api_key"`
		APIHost  string `fig:"api_host" default:"api.wunderground.com"`
		IconHost string `fig:"icon_host" default:"icons.wxug.com"`
		ZipCode  string `fig:"zip_code"`
		// Skip the weather refresh after the system woke up from sleep
		DisableResumeRefresh bool `fig:"disable_resume_refresh"`
	} `fig:"weather"`

	Intervals struct {
		WeatherUpdate time.Duration `fig:"weather_update" default:"15m"`
		ResumeDelay   time.Duration `fig:"resume_delay" default:"10s"`
	} `fig:"intervals"`

	// A zero value falls back to the default, only negative values are rejected
	HTTP struct {
		Timeout         time.Duration `fig:"timeout" default:"10s"`
		IconRate        float64       `fig:"icon_rate" default:"8"`
		IconBurst       int           `fig:"icon_burst" default:"8"`
		BreakerFailures uint32        `fig:"breaker_failures" default:"5"`
	} `fig:"http"`

	Preferences struct {
		File string `fig:"file"`
	} `fig:"preferences"`

	Templates struct {
		Current string `fig:"current"`
	} `fig:"templates"`

	location *time.Location
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Var(c.Units, "oneof=metric imperial"); err != nil {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if err := validate.Var(c.Weather.APIHost, "required,hostname_port|hostname"); err != nil {
		return fmt.Errorf("invalid weather API host: %q", c.Weather.APIHost)
	}
	if err := validate.Var(c.Weather.IconHost, "required"); err != nil {
		return fmt.Errorf("invalid weather icon host: %q", c.Weather.IconHost)
	}
	if err := validate.Var(c.Intervals.WeatherUpdate, "gte=1m"); err != nil {
		return fmt.Errorf("invalid weather update interval: %s", c.Intervals.WeatherUpdate)
	}
	if err := validate.Var(c.HTTP.Timeout, "gt=0"); err != nil {
		return fmt.Errorf("invalid HTTP timeout: %s", c.HTTP.Timeout)
	}
	if err := validate.Var(c.HTTP.IconRate, "gt=0"); err != nil {
		return fmt.Errorf("invalid icon rate: %f", c.HTTP.IconRate)
	}
	if err := validate.Var(c.HTTP.IconBurst, "gte=1"); err != nil {
		return fmt.Errorf("invalid icon burst: %d", c.HTTP.IconBurst)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Templates.Current == "" {
		c.Templates.Current = DefaultCurrentTpl
	}
	if c.Preferences.File == "" {
		home, _ := os.UserHomeDir()
		c.Preferences.File = filepath.Join(home, ".config", "umbrella", "preferences.toml")
	}

	return nil
}

// Location returns the time zone used to derive calendar days
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
