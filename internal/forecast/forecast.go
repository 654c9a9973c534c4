// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package forecast

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/wneessen/umbrella/internal/weather"
)

// ErrDayGap is returned when the inclusive day span and the number of day buckets disagree
var ErrDayGap = errors.New("day span does not match number of day buckets")

// Day is a calendar day key with year, month and day precision
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's location
func DayOf(t time.Time) Day {
	year, month, day := t.Date()
	return Day{Year: year, Month: month, Day: day}
}

// Before reports whether d is an earlier calendar day than other
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Sub returns the number of calendar days between other and d
func (d Day) Sub(other Day) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Buckets holds the hourly records grouped by calendar day. Index 0 is the earliest day.
type Buckets [][]weather.Hourly

// Len returns the number of day buckets
func (b Buckets) Len() int {
	return len(b)
}

// Items returns the records of the given bucket, or nil if the bucket does not exist
func (b Buckets) Items(bucket int) []weather.Hourly {
	if bucket < 0 || bucket >= len(b) {
		return nil
	}
	return b[bucket]
}

// Record returns the record at the given bucket and item index
func (b Buckets) Record(bucket, item int) (weather.Hourly, bool) {
	items := b.Items(bucket)
	if item < 0 || item >= len(items) {
		return weather.Hourly{}, false
	}
	return items[item], true
}

// GroupByDay groups the hourly records by the calendar day of their timestamp in loc. Records keep
// their relative order inside a bucket and buckets are numbered densely in chronological order.
// A record without a usable timestamp fails the whole grouping with a *weather.TimestampError.
func GroupByDay(hourly []weather.Hourly, loc *time.Location) (Buckets, error) {
	if loc == nil {
		loc = time.Local
	}
	groups := make(map[Day][]weather.Hourly)
	for i, record := range hourly {
		t, err := record.Time(loc)
		if err != nil {
			return nil, &weather.TimestampError{Index: i, Value: record.UnixTimestamp}
		}
		day := DayOf(t)
		groups[day] = append(groups[day], record)
	}

	days := make([]Day, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b Day) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})

	buckets := make(Buckets, len(days))
	for i, day := range days {
		buckets[i] = groups[day]
	}
	return buckets, nil
}

// DaySpan returns the inclusive number of calendar days between the first and the last record.
// An empty sequence spans zero days.
func DaySpan(hourly []weather.Hourly, loc *time.Location) (int, error) {
	if len(hourly) == 0 {
		return 0, nil
	}
	if loc == nil {
		loc = time.Local
	}
	last := len(hourly) - 1
	first, err := hourly[0].Time(loc)
	if err != nil {
		return 0, &weather.TimestampError{Index: 0, Value: hourly[0].UnixTimestamp}
	}
	final, err := hourly[last].Time(loc)
	if err != nil {
		return 0, &weather.TimestampError{Index: last, Value: hourly[last].UnixTimestamp}
	}
	return DayOf(final).Sub(DayOf(first)) + 1, nil
}

// Group runs GroupByDay and DaySpan and makes sure both agree on the number of days
func Group(hourly []weather.Hourly, loc *time.Location) (Buckets, int, error) {
	buckets, err := GroupByDay(hourly, loc)
	if err != nil {
		return nil, 0, err
	}
	days, err := DaySpan(hourly, loc)
	if err != nil {
		return nil, 0, err
	}
	if days != buckets.Len() {
		return nil, 0, fmt.Errorf("%w: span of %d days, %d buckets", ErrDayGap, days, buckets.Len())
	}
	return buckets, days, nil
}
