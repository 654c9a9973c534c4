// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"time"

	"github.com/vorlif/spreak/localize"
)

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "\U0001F311",
	"Waxing Crescent": "\U0001F312",
	"First Quarter":   "\U0001F313",
	"Waxing Gibbous":  "\U0001F314",
	"Full Moon":       "\U0001F315",
	"Waning Gibbous":  "\U0001F316",
	"Third Quarter":   "\U0001F317",
	"Waning Crescent": "\U0001F318",
}

var weekdays = map[time.Weekday]localize.MsgID{
	time.Sunday:    "Sunday",
	time.Monday:    "Monday",
	time.Tuesday:   "Tuesday",
	time.Wednesday: "Wednesday",
	time.Thursday:  "Thursday",
	time.Friday:    "Friday",
	time.Saturday:  "Saturday",
}

var i18nVars = map[string]localize.MsgID{
	"temp":            "Temperature",
	"updated":         "Updated",
	"today":           "Today",
	"tomorrow":        "Tomorrow",
	"moonphase":       "Moonphase",
	"new moon":        "New moon",
	"waxing crescent": "Waxing crescent",
	"first quarter":   "First quarter",
	"waxing gibbous":  "Waxing gibbous",
	"full moon":       "Full moon",
	"waning gibbous":  "Waning gibbous",
	"third quarter":   "Third quarter",
	"waning crescent": "Waning crescent",
}

const (
	msgToday          localize.MsgID = "Today"
	msgTomorrow       localize.MsgID = "Tomorrow"
	msgInvalidZip     localize.MsgID = "Oops, invalid zip code."
	msgInvalidZipHint localize.MsgID = "Please enter a 5-digit zip code."
	msgGeneric        localize.MsgID = "Something went wrong..."
	msgRetry          localize.MsgID = "Try to get the weather again?"
)
