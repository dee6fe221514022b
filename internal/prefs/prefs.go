// Package prefs persists user-interface preferences.
package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianquiz/brianquiz/internal/kv"
)

const ThemeKey = "prefs/theme"

// Theme is the color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// LoadTheme returns the stored theme, or fallback when none is stored or
// the stored value is unrecognized.
func LoadTheme(ctx context.Context, store kv.Store, fallback Theme) (Theme, error) {
	blob, ok, err := store.Load(ctx, ThemeKey)
	if err != nil {
		return fallback, fmt.Errorf("load theme: %w", err)
	}
	if !ok {
		return fallback, nil
	}
	if t, ok := ParseTheme(string(blob)); ok {
		return t, nil
	}
	return fallback, nil
}

// SaveTheme stores t.
func SaveTheme(ctx context.Context, store kv.Store, t Theme) error {
	if err := store.Save(ctx, ThemeKey, []byte(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
