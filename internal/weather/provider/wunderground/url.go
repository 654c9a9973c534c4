// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package wunderground

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wneessen/umbrella/internal/weather"
)

const pathTemplate = "/api/%s/conditions/hourly/q/%s.json"

// BuildURL returns the conditions/hourly request URL for the given zip code. An invalid zip code
// yields weather.ErrInvalidLocation before anything else is checked; any problem assembling the
// URL itself yields weather.ErrMalformedURL.
func BuildURL(host, apiKey, zipCode string) (*url.URL, error) {
	if !ValidZipCode(zipCode) {
		return nil, fmt.Errorf("%w: %q", weather.ErrInvalidLocation, zipCode)
	}
	if apiKey == "" || strings.TrimSpace(apiKey) != apiKey || strings.ContainsAny(apiKey, "/?#%") {
		return nil, fmt.Errorf("%w: API key is empty or contains reserved characters", weather.ErrMalformedURL)
	}
	if host == "" {
		return nil, fmt.Errorf("%w: API host is empty", weather.ErrMalformedURL)
	}

	assembled := &url.URL{
		Scheme: "https",
		Host:   host,
		Path:   fmt.Sprintf(pathTemplate, apiKey, zipCode),
	}
	reqURL, err := url.Parse(assembled.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrMalformedURL, err)
	}
	if reqURL.Host != host {
		return nil, fmt.Errorf("%w: host %q does not survive URL encoding", weather.ErrMalformedURL, host)
	}

	return reqURL, nil
}
