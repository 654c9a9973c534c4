// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package icon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/time/rate"

	"github.com/wneessen/umbrella/internal/logger"
)

const selectedSuffix = "-selected"

// ErrNotAnImage is returned when an icon payload is not a decodable image
var ErrNotAnImage = errors.New("icon payload is not an image")

// Fetcher retrieves the raw bytes behind a URL
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

// Loader fetches and decodes condition icons from the image host
type Loader struct {
	host    string
	http    Fetcher
	limiter *rate.Limiter
	logger  *logger.Logger
}

// New returns a Loader that issues at most r requests per second with the given burst
func New(http Fetcher, log *logger.Logger, host string, r float64, burst int) *Loader {
	return &Loader{
		host:    host,
		http:    http,
		limiter: rate.NewLimiter(rate.Limit(r), burst),
		logger:  log,
	}
}

// URL maps an icon key to its image URL. The highlighted variant carries the -selected suffix.
func URL(host, key string, highlighted bool) string {
	name := key
	if highlighted {
		name += selectedSuffix
	}
	u := url.URL{Scheme: "https", Host: host, Path: "/" + name + ".png"}
	return u.String()
}

// Load fetches and decodes the icon for key. Waiting for the rate limiter honors ctx.
func (l *Loader) Load(ctx context.Context, key string, highlighted bool) (image.Image, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("empty icon key")
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("icon rate limit: %w", err)
	}

	endpoint := URL(l.host, key, highlighted)
	data, err := l.http.Fetch(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch icon %q: %w", key, err)
	}
	img, err := Decode(data)
	if err != nil {
		l.logger.Warn("received invalid icon", slog.String("url", endpoint), logger.Err(err))
		return nil, err
	}
	return img, nil
}

// Decode sniffs the payload and decodes it if it is a supported image format
func Decode(data []byte) (image.Image, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotAnImage, mtype.String())
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAnImage, err)
	}
	return img, nil
}
