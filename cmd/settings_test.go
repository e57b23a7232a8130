package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/eykd/structgen-go/internal/settings"
)

func settingsContext() context.Context {
	return withConfig(context.Background(), Config{SettingsDir: "/cfg"})
}

func decodeSettings(t *testing.T, out string) settings.Settings {
	t.Helper()
	var st settings.Settings
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	return st
}

func TestSettingsGet_Defaults(t *testing.T) {
	m := newMockIO(t, "")
	out, _, err := executeContext(settingsContext(), NewSettingsCmd(m), "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := decodeSettings(t, out); got != settings.Defaults() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestSettingsSet_MergesAndPersists(t *testing.T) {
	m := newMockIO(t, "")
	ctx := settingsContext()

	if _, _, err := executeContext(ctx, NewSettingsCmd(m), "set", "--root-dir", "/work", "--theme", "DARK"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, _, err := executeContext(ctx, NewSettingsCmd(m), "set", "--language", " EN ")
	if err != nil {
		t.Fatalf("set language: %v", err)
	}
	want := settings.Settings{RootDir: "/work", Language: "en", Theme: "dark"}
	if got := decodeSettings(t, out); got != want {
		t.Errorf("after merge got %+v, want %+v", got, want)
	}

	out, _, err = executeContext(ctx, NewSettingsCmd(m), "get")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := decodeSettings(t, out); got != want {
		t.Errorf("persisted %+v, want %+v", got, want)
	}
	if !m.exists(t, "/cfg/"+settings.FileName) {
		t.Error("settings file was not written")
	}
}

func TestSettingsSet_RequiresAFlag(t *testing.T) {
	_, _, err := executeContext(settingsContext(), NewSettingsCmd(newMockIO(t, "")), "set")
	if err == nil || !strings.Contains(err.Error(), "nothing to set") {
		t.Errorf("err = %v, want nothing to set", err)
	}
}

func TestNormalizeTheme(t *testing.T) {
	tests := map[string]string{"dark": "dark", " Dark ": "dark", "light": "light", "blue": "light", "": "light"}
	for in, want := range tests {
		if got := normalizeTheme(in); got != want {
			t.Errorf("normalizeTheme(%q) = %q, want %q", in, got, want)
		}
	}
}
