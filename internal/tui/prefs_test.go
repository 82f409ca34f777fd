package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPrefs(t *testing.T) {
	p := DefaultPrefs()
	if p.ShowEvidence {
		t.Fatal("evidence should be hidden by default")
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := SavePrefs(Prefs{ShowEvidence: true}); err != nil {
		t.Fatalf("SavePrefs: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".complyscan", "tui_prefs.json")); err != nil {
		t.Fatalf("prefs file not written: %v", err)
	}
	p := LoadPrefs()
	if !p.ShowEvidence {
		t.Fatal("expected ShowEvidence=true after round-trip")
	}
}

func TestLoadPrefs_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := LoadPrefs()
	if p != DefaultPrefs() {
		t.Fatalf("expected defaults, got %#v", p)
	}
}
