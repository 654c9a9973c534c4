// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package forecast

import (
	"strconv"
	"strings"

	"github.com/wneessen/umbrella/internal/weather"
)

// Extremes holds the positions of the first minimum and first maximum temperature of a bucket
type Extremes struct {
	MinIndex int
	MaxIndex int
}

// Highlighted reports whether the bucket has distinct extremes worth tinting
func (e Extremes) Highlighted() bool {
	return e.MinIndex != e.MaxIndex
}

// ComputeExtremes returns the lowest index holding the minimum and the lowest index holding the
// maximum temperature in the given unit system. A temperature that is not an integer counts as 0.
// An empty bucket yields {0, 0}.
func ComputeExtremes(records []weather.Hourly, units weather.UnitSystem) Extremes {
	if len(records) == 0 {
		return Extremes{}
	}
	temps := make([]int, len(records))
	for i, record := range records {
		temps[i] = Temperature(record, units)
	}

	low, high := temps[0], temps[0]
	for _, temp := range temps[1:] {
		low = min(low, temp)
		high = max(high, temp)
	}

	extremes := Extremes{MinIndex: -1, MaxIndex: -1}
	for i, temp := range temps {
		if extremes.MinIndex == -1 && temp == low {
			extremes.MinIndex = i
		}
		if extremes.MaxIndex == -1 && temp == high {
			extremes.MaxIndex = i
		}
	}
	return extremes
}

// ExtremesByDay computes the extremes of every bucket
func ExtremesByDay(buckets Buckets, units weather.UnitSystem) []Extremes {
	extremes := make([]Extremes, buckets.Len())
	for i, bucket := range buckets {
		extremes[i] = ComputeExtremes(bucket, units)
	}
	return extremes
}

// Temperature parses the record's temperature in the given unit system as an integer
func Temperature(record weather.Hourly, units weather.UnitSystem) int {
	temp, err := strconv.Atoi(strings.TrimSpace(record.Temperature(units)))
	if err != nil {
		return 0
	}
	return temp
}
