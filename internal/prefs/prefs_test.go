package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/brianquiz/brianquiz/internal/kv"
)

func TestThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	got, err := LoadTheme(ctx, mem, Light)
	if err != nil || got != Light {
		t.Fatalf("empty store: got %q, %v", got, err)
	}

	if err := SaveTheme(ctx, mem, Dark); err != nil {
		t.Fatal(err)
	}
	got, err = LoadTheme(ctx, mem, Light)
	if err != nil || got != Dark {
		t.Fatalf("after save: got %q, %v", got, err)
	}
}

func TestLoadThemeUnrecognized(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	mem.Save(ctx, ThemeKey, []byte("sepia"))

	got, err := LoadTheme(ctx, mem, Dark)
	if err != nil || got != Dark {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestSaveThemeError(t *testing.T) {
	mem := kv.NewMemory()
	mem.FailSaves = errors.New("read-only")
	if err := SaveTheme(context.Background(), mem, Dark); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseAndToggle(t *testing.T) {
	if th, ok := ParseTheme(" DARK "); !ok || th != Dark {
		t.Errorf("ParseTheme(DARK) = %q, %v", th, ok)
	}
	if _, ok := ParseTheme("blue"); ok {
		t.Error("blue is not a theme")
	}
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Error("toggle")
	}
}
