// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"fmt"
	"strings"
)

// UnitSystem selects which temperature field is displayed and drives the extremes.
type UnitSystem int

const (
	Imperial UnitSystem = iota
	Metric
)

// ParseUnitSystem maps the configuration values "imperial" and "metric" to a UnitSystem
func ParseUnitSystem(val string) (UnitSystem, error) {
	switch strings.ToLower(val) {
	case "imperial":
		return Imperial, nil
	case "metric":
		return Metric, nil
	default:
		return Imperial, fmt.Errorf("unsupported unit system: %q", val)
	}
}

// Toggle returns the other unit system
func (u UnitSystem) Toggle() UnitSystem {
	if u == Metric {
		return Imperial
	}
	return Metric
}

func (u UnitSystem) Symbol() string {
	if u == Metric {
		return "°C"
	}
	return "°F"
}

func (u UnitSystem) String() string {
	if u == Metric {
		return "metric"
	}
	return "imperial"
}
