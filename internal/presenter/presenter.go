// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/umbrella/internal/config"
	"github.com/wneessen/umbrella/internal/weather"
)

const (
	// WarmThresholdF is the rounded temperature from which the current conditions are tinted warm
	WarmThresholdF = 60
	// WarmThresholdC is the metric equivalent of WarmThresholdF
	WarmThresholdC = 16

	degree = "°"
)

// ItemView is what the UI shows for one forecast hour
type ItemView struct {
	Time        string
	Temperature string
	IconKey     string
	Tint        Tint
}

// CurrentView wraps the current observation with presentation-related fields
type CurrentView struct {
	City        string
	Condition   string
	Temperature string
	TempUnit    string
	Background  Tint

	UpdateTime    time.Time
	MoonPhase     string
	MoonPhaseIcon string
}

// Alert describes the dialog shown for a failed weather fetch
type Alert struct {
	Title   string
	Message string
	Retry   bool
}

type Presenter struct {
	humanizer *humanize.Humanizer
	localizer *spreak.Localizer
	current   *template.Template
}

func New(conf *config.Config, localizer *spreak.Localizer) (*Presenter, error) {
	if localizer == nil {
		return nil, errors.New("localizer is required")
	}
	collection, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}

	pres := &Presenter{
		humanizer: collection.CreateHumanizer(localizer.Language()),
		localizer: localizer,
	}
	tpl, err := template.New("current").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Current)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current template: %w", err)
	}
	pres.current = tpl

	// Execute once so that templates referencing unknown fields fail at startup
	if _, err = pres.Render(CurrentView{UpdateTime: time.Now()}); err != nil {
		return nil, err
	}
	return pres, nil
}

// Item builds the display text of a forecast hour in the given unit system
func (p *Presenter) Item(record weather.Hourly, tint Tint, units weather.UnitSystem) ItemView {
	return ItemView{
		Time:        record.PrettyTimestamp,
		Temperature: record.Temperature(units) + degree,
		IconKey:     record.IconKey,
		Tint:        tint,
	}
}

// Current builds the current conditions view. The temperature is rounded to an integer; a value
// that is not a number is shown as delivered and gets no background tint.
func (p *Presenter) Current(current weather.Current, units weather.UnitSystem, updated time.Time) CurrentView {
	view := CurrentView{
		City:       current.City,
		Condition:  current.Condition,
		TempUnit:   units.Symbol(),
		UpdateTime: updated,
	}

	raw := strings.TrimSpace(current.Temperature(units))
	temp, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(temp) || math.IsInf(temp, 0) {
		view.Temperature = raw + degree
	} else {
		rounded := int(math.Round(temp))
		view.Temperature = strconv.Itoa(rounded) + degree
		view.Background = BackgroundTint(rounded, units)
	}

	moon := moonphase.New(updated)
	view.MoonPhase = p.loc(moon.PhaseName())
	view.MoonPhaseIcon = MoonPhaseIcon[moon.PhaseName()]
	return view
}

// BackgroundTint returns warm for temperatures at or above the warm threshold of the unit system
// and cool otherwise
func BackgroundTint(rounded int, units weather.UnitSystem) Tint {
	threshold := WarmThresholdF
	if units == weather.Metric {
		threshold = WarmThresholdC
	}
	if rounded >= threshold {
		return TintWarm
	}
	return TintCool
}

// Render executes the current conditions template
func (p *Presenter) Render(view CurrentView) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := p.current.Execute(buf, view); err != nil {
		return "", fmt.Errorf("failed to render current template: %w", err)
	}
	return buf.String(), nil
}

// HeaderTitle returns the title of a day section. The first two sections are today and tomorrow,
// all others are named after the weekday of their first record.
func (p *Presenter) HeaderTitle(section int, first weather.Hourly, loc *time.Location) string {
	switch section {
	case 0:
		return p.localizer.Get(msgToday)
	case 1:
		return p.localizer.Get(msgTomorrow)
	}
	t, err := first.Time(loc)
	if err != nil {
		return ""
	}
	return p.localizer.Get(weekdays[t.Weekday()])
}

// Alert maps a weather fetch error to the dialog shown to the user. Only a malformed zip code
// gets its own dialog; everything else offers to try again.
func (p *Presenter) Alert(err error) Alert {
	if errors.Is(err, weather.ErrInvalidLocation) {
		return Alert{
			Title:   p.localizer.Get(msgInvalidZip),
			Message: p.localizer.Get(msgInvalidZipHint),
		}
	}
	return Alert{
		Title:   p.localizer.Get(msgGeneric),
		Message: p.localizer.Get(msgRetry),
		Retry:   true,
	}
}
