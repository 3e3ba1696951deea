package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if cfg.EnabledPackPrefixes != nil {
		t.Errorf("expected nil (enable everything) by default, got %v", cfg.EnabledPackPrefixes)
	}
	if !cfg.Heredoc.Enabled {
		t.Error("expected heredoc scanning enabled by default")
	}
}

func TestLoad_PacksEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte(`
[packs]
enabled = ["core", "extended.kubernetes"]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.EnabledPackPrefixes) != 2 {
		t.Fatalf("expected 2 enabled prefixes, got %v", cfg.EnabledPackPrefixes)
	}
}

func TestLoad_HeredocTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte(`
[heredoc]
enabled = false
timeout_ms = 25
fallback_on_error = true
languages = ["python", "shell"]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Heredoc.Enabled {
		t.Error("expected heredoc.enabled = false to be honored")
	}
	if cfg.Heredoc.TimeoutMs != 25 {
		t.Errorf("TimeoutMs = %d, want 25", cfg.Heredoc.TimeoutMs)
	}
	if len(cfg.Heredoc.Languages) != 2 {
		t.Errorf("expected 2 languages, got %v", cfg.Heredoc.Languages)
	}
}

func TestLoad_MalformedFileReturnsErrorAndDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not valid [[[ toml"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Error("expected an error for malformed TOML")
	}
	if cfg == nil || !cfg.Heredoc.Enabled {
		t.Error("expected Load to still return usable defaults on parse failure")
	}
}

func TestDir_RespectsEnvOverride(t *testing.T) {
	t.Setenv("DCG_CONFIG", "/custom/config/dir")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/custom/config/dir" {
		t.Errorf("Dir() = %q, want /custom/config/dir", dir)
	}
}

func TestInitAndGet_Idempotent(t *testing.T) {
	t.Setenv("DCG_CONFIG", t.TempDir())
	Reset()
	defer Reset()

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	first := Get()
	second := Get()
	if first != second {
		t.Error("expected Get to return the same global instance after Init")
	}
}
