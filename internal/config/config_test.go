package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := LoadFlags(NewFlagSet("test"), nil)
	if err != nil {
		t.Fatalf("LoadFlags() error = %v", err)
	}
	if cfg.Source != SourceJSON || cfg.DataDir != "data" {
		t.Fatalf("unexpected source defaults: %+v", cfg)
	}
	if cfg.Preset != "balanced" || cfg.NeutralValue != 50 {
		t.Fatalf("unexpected scoring defaults: %+v", cfg)
	}
	if cfg.Transport != TransportStdio || cfg.ParallelThreshold != 256 {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	body := "data_dir: from-file\npreset: wellbeing\nmax_rows: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SCHOOLRANK_PRESET", "academic_focus")

	cfg, err := LoadFlags(NewFlagSet("test"), []string{"--config", path, "--max-rows", "25", "--city", "amsterdam", "--city", "utrecht"})
	if err != nil {
		t.Fatalf("LoadFlags() error = %v", err)
	}
	if cfg.DataDir != "from-file" {
		t.Fatalf("expected data_dir from file, got %q", cfg.DataDir)
	}
	if cfg.Preset != "academic_focus" {
		t.Fatalf("expected env to override file, got %q", cfg.Preset)
	}
	if cfg.MaxRows != 25 {
		t.Fatalf("expected flag to override file, got %d", cfg.MaxRows)
	}
	if len(cfg.Cities) != 2 || cfg.Cities[1] != "utrecht" {
		t.Fatalf("expected cities from repeated flag, got %v", cfg.Cities)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	chdir(t, t.TempDir())
	tests := []struct {
		name string
		args []string
	}{
		{"postgres without dsn", []string{"--source", "postgres"}},
		{"unknown source", []string{"--source", "csv"}},
		{"bad transport", []string{"--transport", "sse"}},
		{"bad size preference", []string{"--school-size-preference", "tiny"}},
		{"neutral out of range", []string{"--neutral-value", "120"}},
		{"same http and metrics path", []string{"--transport", "streamable", "--http-path", "/metrics"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFlags(NewFlagSet("test"), tt.args); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}

// chdir keeps default config candidates in the working directory out of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
