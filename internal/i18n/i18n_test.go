// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNew(t *testing.T) {
	t.Run("new i18n provider with empty locale string succeeds", func(t *testing.T) {
		provider, err := New("")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if provider == nil {
			t.Fatal("expected i18n provider to be non-nil")
		}
	})
	t.Run("german catalog is used", func(t *testing.T) {
		provider, err := New("de-DE")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if got := provider.Get("Tomorrow"); got != "Morgen" {
			t.Errorf("expected translation to be %q, got %q", "Morgen", got)
		}
	})
	t.Run("english returns the source text", func(t *testing.T) {
		provider, err := New("en-US")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if got := provider.Get("Tomorrow"); got != "Tomorrow" {
			t.Errorf("expected translation to be %q, got %q", "Tomorrow", got)
		}
	})
}

func TestMatch(t *testing.T) {
	tests := []struct {
		loc  string
		want language.Tag
	}{
		{"de", language.German},
		{"de-AT", language.German},
		{"en-GB", language.English},
		{"ja", language.English},
	}
	for _, tc := range tests {
		t.Run(tc.loc, func(t *testing.T) {
			if got := Match(tc.loc); got != tc.want {
				t.Errorf("expected language %s, got %s", tc.want, got)
			}
		})
	}
}
