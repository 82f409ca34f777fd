package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectKind_Extensions(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"main.go", KindCode},
		{"lib/util.py", KindCode},
		{"deploy/app.yaml", KindConfig},
		{"terraform/main.tf", KindConfig},
		{"docs/security-policy.md", KindDocument},
		{"README.txt", KindDocument},
		{"data.bin", KindOther},
		{"Dockerfile", KindConfig},
		{".env.production", KindConfig},
	}
	for _, c := range cases {
		if got := DetectKind(c.path, nil); got != c.want {
			t.Errorf("DetectKind(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestDetectKind_Shebang(t *testing.T) {
	if got := DetectKind("deploy-hook", []byte("#!/bin/bash\necho hi\n")); got != KindCode {
		t.Fatalf("shebang file should be code, got %q", got)
	}
	if got := DetectKind("notes", []byte("just some text")); got != KindOther {
		t.Fatalf("plain extensionless file should be other, got %q", got)
	}
}

func TestDetectKind_ConfigSniff(t *testing.T) {
	kv := []byte("# daemon settings\nhost = 0.0.0.0\nport = 8080\ntls: enabled\n")
	if got := DetectKind("daemon-settings", kv); got != KindConfig {
		t.Fatalf("key/value file should be config, got %q", got)
	}
	prose := []byte("Meeting notes\nWe discussed the rollout.\nNext steps below.\n")
	if got := DetectKind("minutes", prose); got != KindOther {
		t.Fatalf("prose should stay other, got %q", got)
	}
	if got := DetectKind("empty", nil); got != KindOther {
		t.Fatalf("empty extensionless file should be other, got %q", got)
	}
}

func TestFromBytes_RejectsBinary(t *testing.T) {
	_, err := FromBytes("blob.dat", []byte{'P', 'K', 0x00, 0x01, 0x02})
	if err == nil {
		t.Fatal("expected error for binary content")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %T", err)
	}
	if le.Path != "blob.dat" {
		t.Fatalf("LoadError path = %q", le.Path)
	}
}

func TestFromBytes_RejectsInvalidUTF8(t *testing.T) {
	_, err := FromBytes("latin1.txt", []byte{0xff, 0xfe, 'h', 'i'})
	if err == nil {
		t.Fatal("expected error for invalid utf-8")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cfg.yml"), []byte("tls: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	a, err := Load(dir, "cfg.yml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Path != "cfg.yml" || a.Kind != KindConfig || string(a.Data) != "tls: false\n" {
		t.Fatalf("unexpected artifact: %+v", a)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir(), "nope.yml")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError for missing file, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}
