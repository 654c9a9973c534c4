// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/umbrella/internal/presenter"
)

const (
	markerWarm = "▲"
	markerCool = "▼"
)

// forecastSource is the read side of the weather service
type forecastSource interface {
	NumberOfSections(ctx context.Context) (int, error)
	NumberOfItems(ctx context.Context, section int) (int, error)
	HeaderTitle(ctx context.Context, section int) (string, error)
	Item(ctx context.Context, pos presenter.Position) (presenter.ItemView, error)
	Current(ctx context.Context) (presenter.CurrentView, error)
	Icon(ctx context.Context, pos presenter.Position, deliver func(image.Image)) error
}

type snapshot struct {
	Current currentOutput `json:"current"`
	Days    []dayOutput   `json:"days"`
}

type currentOutput struct {
	Text        string `json:"text"`
	City        string `json:"city"`
	Condition   string `json:"condition"`
	Temperature string `json:"temperature"`
	Class       string `json:"class"`
	Color       string `json:"color,omitempty"`
	MoonPhase   string `json:"moon_phase"`
}

type dayOutput struct {
	Title string       `json:"title"`
	Hours []hourOutput `json:"hours"`
}

type hourOutput struct {
	Time        string `json:"time"`
	Temperature string `json:"temperature"`
	Icon        string `json:"icon"`
	Tint        string `json:"tint"`
	Color       string `json:"color,omitempty"`
	IconSize    string `json:"icon_size,omitempty"`
}

type iconResult struct {
	pos presenter.Position
	img image.Image
}

// collect reads the current conditions and every forecast hour from src. With icons set, the
// condition icons are requested as well and their size is reported; icons that did not arrive
// before ctx is done are left out.
func collect(ctx context.Context, src forecastSource, pres *presenter.Presenter, icons bool) (snapshot, error) {
	var snap snapshot
	current, err := src.Current(ctx)
	if err != nil {
		return snap, err
	}
	text, err := pres.Render(current)
	if err != nil {
		return snap, err
	}
	snap.Current = currentOutput{
		Text:        text,
		City:        current.City,
		Condition:   current.Condition,
		Temperature: current.Temperature,
		Class:       current.Background.String(),
		Color:       current.Background.Color(),
		MoonPhase:   current.MoonPhase,
	}

	sections, err := src.NumberOfSections(ctx)
	if err != nil {
		return snap, err
	}
	var positions []presenter.Position
	for section := range sections {
		title, err := src.HeaderTitle(ctx, section)
		if err != nil {
			return snap, err
		}
		items, err := src.NumberOfItems(ctx, section)
		if err != nil {
			return snap, err
		}
		day := dayOutput{Title: title, Hours: make([]hourOutput, 0, items)}
		for item := range items {
			pos := presenter.Position{Bucket: section, Item: item}
			view, err := src.Item(ctx, pos)
			if err != nil {
				return snap, err
			}
			day.Hours = append(day.Hours, hourOutput{
				Time:        view.Time,
				Temperature: view.Temperature,
				Icon:        view.IconKey,
				Tint:        view.Tint.String(),
				Color:       view.Tint.Color(),
			})
			positions = append(positions, pos)
		}
		snap.Days = append(snap.Days, day)
	}

	if icons {
		if err = collectIcons(ctx, src, positions, &snap); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

func collectIcons(ctx context.Context, src forecastSource, positions []presenter.Position, snap *snapshot) error {
	results := make(chan iconResult, len(positions))
	for _, pos := range positions {
		deliver := func(img image.Image) { results <- iconResult{pos: pos, img: img} }
		if err := src.Icon(ctx, pos, deliver); err != nil {
			return err
		}
	}
	for range positions {
		select {
		case <-ctx.Done():
			return nil
		case res := <-results:
			hour := &snap.Days[res.pos.Bucket].Hours[res.pos.Item]
			hour.IconSize = "-"
			if res.img != nil {
				size := res.img.Bounds().Size()
				hour.IconSize = fmt.Sprintf("%dx%d", size.X, size.Y)
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, snap snapshot) error {
	return json.NewEncoder(w).Encode(snap)
}

// writeGrid prints one block per day with aligned time, temperature and icon columns
func writeGrid(w io.Writer, snap snapshot) error {
	timeWidth, tempWidth := 0, 0
	for _, day := range snap.Days {
		for _, hour := range day.Hours {
			timeWidth = max(timeWidth, runewidth.StringWidth(hour.Time))
			tempWidth = max(tempWidth, runewidth.StringWidth(hour.Temperature))
		}
	}

	buf := strings.Builder{}
	buf.WriteString(snap.Current.Text)
	buf.WriteString("\n")
	for _, day := range snap.Days {
		buf.WriteString("\n")
		buf.WriteString(day.Title)
		buf.WriteString("\n")
		for _, hour := range day.Hours {
			marker := " "
			switch hour.Tint {
			case presenter.TintWarm.String():
				marker = markerWarm
			case presenter.TintCool.String():
				marker = markerCool
			}
			buf.WriteString("  ")
			buf.WriteString(runewidth.FillRight(hour.Time, timeWidth))
			buf.WriteString("  ")
			buf.WriteString(runewidth.FillLeft(hour.Temperature, tempWidth))
			buf.WriteString(" ")
			buf.WriteString(marker)
			buf.WriteString(" ")
			buf.WriteString(hour.Icon)
			if hour.IconSize != "" {
				buf.WriteString(" (" + hour.IconSize + ")")
			}
			buf.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

func writeAlert(w io.Writer, alert presenter.Alert) {
	_, _ = fmt.Fprintln(w, alert.Title)
	_, _ = fmt.Fprintln(w, alert.Message)
}
