// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package forecast

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wneessen/umbrella/internal/weather"
)

func hour(t time.Time, tempF, tempC string) weather.Hourly {
	return weather.Hourly{
		PrettyTimestamp: t.Format(time.Kitchen),
		UnixTimestamp:   strconv.FormatInt(t.Unix(), 10),
		IconKey:         "clear",
		TempF:           tempF,
		TempC:           tempC,
	}
}

func threeDays() []weather.Hourly {
	base := time.Date(2026, 3, 17, 22, 0, 0, 0, time.UTC)
	return []weather.Hourly{
		hour(base, "64", "18"),
		hour(base.Add(time.Hour), "62", "17"),
		hour(base.Add(2*time.Hour), "60", "16"),
		hour(base.Add(3*time.Hour), "58", "14"),
		hour(base.Add(26*time.Hour), "55", "13"),
		hour(base.Add(27*time.Hour), "57", "14"),
	}
}

func TestGroupByDay(t *testing.T) {
	t.Run("three calendar days yield three ordered buckets", func(t *testing.T) {
		hourly := threeDays()
		buckets, err := GroupByDay(hourly, time.UTC)
		if err != nil {
			t.Fatalf("failed to group records: %s", err)
		}
		if buckets.Len() != 3 {
			t.Fatalf("expected 3 buckets, got %d", buckets.Len())
		}
		want := Buckets{hourly[0:2], hourly[2:4], hourly[4:6]}
		if diff := cmp.Diff(want, buckets); diff != "" {
			t.Errorf("bucket mismatch (-want +got):\n%s", diff)
		}
		for i, bucket := range buckets {
			first, _ := bucket[0].Time(time.UTC)
			for _, record := range bucket {
				rt, _ := record.Time(time.UTC)
				if DayOf(rt) != DayOf(first) {
					t.Errorf("bucket %d contains records from different days", i)
				}
			}
		}

		span, err := DaySpan(hourly, time.UTC)
		if err != nil {
			t.Fatalf("failed to compute day span: %s", err)
		}
		if span != buckets.Len() {
			t.Errorf("expected day span to equal bucket count %d, got %d", buckets.Len(), span)
		}
		if span != 3 {
			t.Errorf("expected day span of 3, got %d", span)
		}
	})
	t.Run("days are derived in the given location", func(t *testing.T) {
		hourly := threeDays()
		loc := time.FixedZone("UTC-5", -5*60*60)
		buckets, err := GroupByDay(hourly, loc)
		if err != nil {
			t.Fatalf("failed to group records: %s", err)
		}
		// 22:00 UTC to 01:00 UTC is 17:00 to 20:00 at UTC-5, all on the first day
		if len(buckets.Items(0)) != 4 {
			t.Errorf("expected 4 records on the first day, got %d", len(buckets.Items(0)))
		}
		if buckets.Len() != 2 {
			t.Errorf("expected 2 buckets, got %d", buckets.Len())
		}
	})
	t.Run("a single record yields one bucket", func(t *testing.T) {
		hourly := threeDays()[:1]
		buckets, days, err := Group(hourly, time.UTC)
		if err != nil {
			t.Fatalf("failed to group records: %s", err)
		}
		if buckets.Len() != 1 || days != 1 {
			t.Errorf("expected 1 bucket and 1 day, got %d and %d", buckets.Len(), days)
		}
	})
	t.Run("empty input yields no buckets", func(t *testing.T) {
		buckets, days, err := Group(nil, time.UTC)
		if err != nil {
			t.Fatalf("failed to group records: %s", err)
		}
		if buckets.Len() != 0 || days != 0 {
			t.Errorf("expected no buckets and no days, got %d and %d", buckets.Len(), days)
		}
	})
	t.Run("fractional epochs are accepted", func(t *testing.T) {
		hourly := threeDays()[:2]
		hourly[1].UnixTimestamp += ".5"
		if _, err := GroupByDay(hourly, time.UTC); err != nil {
			t.Errorf("expected fractional epoch to be accepted, got %s", err)
		}
	})
	t.Run("a missing timestamp fails the whole grouping", func(t *testing.T) {
		for _, value := range []string{"", "soon", "NaN", "+Inf"} {
			hourly := threeDays()
			hourly[3].UnixTimestamp = value
			buckets, err := GroupByDay(hourly, time.UTC)
			if buckets != nil {
				t.Errorf("expected no partial grouping for %q, got %d buckets", value, buckets.Len())
			}
			if !errors.Is(err, weather.ErrMissingTimestamp) {
				t.Fatalf("expected error to be %s, got %v", weather.ErrMissingTimestamp, err)
			}
			var tsErr *weather.TimestampError
			if !errors.As(err, &tsErr) {
				t.Fatalf("expected a *weather.TimestampError, got %T", err)
			}
			if tsErr.Index != 3 {
				t.Errorf("expected index 3, got %d", tsErr.Index)
			}
		}
	})
	t.Run("a missing first or last timestamp fails the day span", func(t *testing.T) {
		hourly := threeDays()
		hourly[len(hourly)-1].UnixTimestamp = "x"
		if _, err := DaySpan(hourly, time.UTC); !errors.Is(err, weather.ErrMissingTimestamp) {
			t.Errorf("expected error to be %s, got %v", weather.ErrMissingTimestamp, err)
		}
		if _, _, err := Group(hourly, time.UTC); !errors.Is(err, weather.ErrMissingTimestamp) {
			t.Errorf("expected error to be %s, got %v", weather.ErrMissingTimestamp, err)
		}
	})
	t.Run("a calendar gap is reported", func(t *testing.T) {
		base := time.Date(2026, 3, 17, 12, 0, 0, 0, time.UTC)
		hourly := []weather.Hourly{
			hour(base, "50", "10"),
			hour(base.Add(48*time.Hour), "50", "10"),
		}
		_, _, err := Group(hourly, time.UTC)
		if !errors.Is(err, ErrDayGap) {
			t.Errorf("expected error to be %s, got %v", ErrDayGap, err)
		}
	})
}

func TestDay(t *testing.T) {
	a := Day{Year: 2026, Month: time.December, Day: 31}
	b := Day{Year: 2027, Month: time.January, Day: 1}
	if !a.Before(b) || b.Before(a) {
		t.Error("expected New Year's Eve to be before New Year's Day")
	}
	if b.Sub(a) != 1 {
		t.Errorf("expected a difference of 1 day, got %d", b.Sub(a))
	}
	if a.String() != "2026-12-31" {
		t.Errorf("expected 2026-12-31, got %s", a)
	}
	dst := time.Date(2026, 3, 29, 23, 0, 0, 0, time.UTC)
	if DayOf(dst).Sub(DayOf(dst.Add(-72*time.Hour))) != 3 {
		t.Error("expected day difference to be independent of the time of day")
	}
}

func TestBuckets(t *testing.T) {
	buckets, err := GroupByDay(threeDays(), time.UTC)
	if err != nil {
		t.Fatalf("failed to group records: %s", err)
	}
	if buckets.Items(-1) != nil || buckets.Items(3) != nil {
		t.Error("expected out of range buckets to be nil")
	}
	if _, ok := buckets.Record(0, 2); ok {
		t.Error("expected out of range item to not be found")
	}
	record, ok := buckets.Record(2, 1)
	if !ok {
		t.Fatal("expected record to be found")
	}
	if record.TempF != "57" {
		t.Errorf("expected temperature 57, got %s", record.TempF)
	}
}

func TestComputeExtremes(t *testing.T) {
	temps := func(values ...string) []weather.Hourly {
		records := make([]weather.Hourly, len(values))
		for i, val := range values {
			records[i] = weather.Hourly{TempF: val, TempC: val}
		}
		return records
	}

	tests := []struct {
		name    string
		records []weather.Hourly
		want    Extremes
		tinted  bool
	}{
		{"first min and first max win", temps("70", "65", "80", "65", "80"), Extremes{1, 2}, true},
		{"single record", temps("70"), Extremes{0, 0}, false},
		{"all identical", temps("50", "50", "50"), Extremes{0, 0}, false},
		{"negative values", temps("-3", "-10", "2"), Extremes{1, 2}, true},
		{"non-numeric counts as zero", temps("5", "warm", "-1"), Extremes{2, 0}, true},
		{"decimal counts as zero", temps("5.5", "3"), Extremes{0, 1}, true},
		{"empty bucket", nil, Extremes{0, 0}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeExtremes(tc.records, weather.Imperial)
			if got != tc.want {
				t.Errorf("expected extremes %+v, got %+v", tc.want, got)
			}
			if got.Highlighted() != tc.tinted {
				t.Errorf("expected highlighted to be %t, got %t", tc.tinted, got.Highlighted())
			}
		})
	}

	t.Run("the active unit system drives the extremes", func(t *testing.T) {
		records := []weather.Hourly{
			{TempF: "60", TempC: "16"},
			{TempF: "61", TempC: "15"},
			{TempF: "59", TempC: "17"},
		}
		imperial := ComputeExtremes(records, weather.Imperial)
		if imperial != (Extremes{2, 1}) {
			t.Errorf("expected imperial extremes {2 1}, got %+v", imperial)
		}
		metric := ComputeExtremes(records, weather.Metric)
		if metric != (Extremes{1, 2}) {
			t.Errorf("expected metric extremes {1 2}, got %+v", metric)
		}
	})
}

func TestExtremesByDay(t *testing.T) {
	buckets, err := GroupByDay(threeDays(), time.UTC)
	if err != nil {
		t.Fatalf("failed to group records: %s", err)
	}
	got := ExtremesByDay(buckets, weather.Imperial)
	want := []Extremes{{1, 0}, {1, 0}, {0, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extremes mismatch (-want +got):\n%s", diff)
	}
}
