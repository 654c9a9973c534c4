// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"
)

//go:embed locale/*
var locales embed.FS

// Supported lists the languages a catalog is shipped for. English is the source language.
var Supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(Supported)

// New returns a localizer for the given locale string. An empty string detects the locale of the
// environment; anything without a catalog falls back to English.
func New(loc string) (*spreak.Localizer, error) {
	tag := Match(loc)

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs("", localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	return spreak.NewLocalizer(bundle, tag), nil
}

// Match returns the supported language closest to the given locale string
func Match(loc string) language.Tag {
	tag, err := language.Parse(loc)
	if loc == "" || err != nil {
		tag, err = locale.Detect()
		if err != nil {
			return language.English
		}
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return Supported[idx]
}
