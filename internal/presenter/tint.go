// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/wneessen/umbrella/internal/forecast"

// Tint highlights the coolest and warmest hour of a day
type Tint int

const (
	TintNone Tint = iota
	TintCool
	TintWarm
)

const (
	ColorWarm = "#FF9800"
	ColorCool = "#03A9F4"
)

// TintFor decides the tint of the item at the given position of a bucket. Buckets without distinct
// extremes are never tinted.
func TintFor(item int, extremes forecast.Extremes) Tint {
	if !extremes.Highlighted() {
		return TintNone
	}
	switch item {
	case extremes.MinIndex:
		return TintCool
	case extremes.MaxIndex:
		return TintWarm
	default:
		return TintNone
	}
}

// Highlighted reports whether the icon should use its highlighted variant
func (t Tint) Highlighted() bool {
	return t != TintNone
}

// Color returns the hex color of the tint, or an empty string for TintNone
func (t Tint) Color() string {
	switch t {
	case TintWarm:
		return ColorWarm
	case TintCool:
		return ColorCool
	default:
		return ""
	}
}

func (t Tint) String() string {
	switch t {
	case TintWarm:
		return "warm"
	case TintCool:
		return "cool"
	default:
		return "none"
	}
}
