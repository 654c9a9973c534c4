// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

// Model holds the forecast that is currently displayed. It is replaced wholesale on every
// successful fetch and is not safe for concurrent use; its owner serializes access.
type Model struct {
	forecast *Forecast
	version  uint64
}

func NewModel() *Model {
	return &Model{}
}

// Replace swaps in a new forecast and bumps the model version
func (m *Model) Replace(f *Forecast) {
	m.forecast = f
	m.version++
}

func (m *Model) HasData() bool {
	return m.forecast != nil && len(m.forecast.Hourly) > 0
}

func (m *Model) Forecast() *Forecast {
	return m.forecast
}

func (m *Model) Current() Current {
	if m.forecast == nil {
		return Current{}
	}
	return m.forecast.Current
}

func (m *Model) Hourly() []Hourly {
	if m.forecast == nil {
		return nil
	}
	return m.forecast.Hourly
}

// Version is incremented on every Replace
func (m *Model) Version() uint64 {
	return m.version
}
