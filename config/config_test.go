package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{LogLevel: "info", Seed: 1, WindowScale: 3, Level: "ehz2", SimTicks: 3600}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := "logLevel: debug\nseed: 42\nlevel: ehz2_alt\nwindowScale: 0\n"
	if err := os.WriteFile(filepath.Join(dir, FileName+".yaml"), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DRILLBOSS_SEED", "7")
	t.Setenv("DRILLBOSS_HOTRELOAD", "true")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"file_value", cfg.LogLevel, "debug"},
		{"file_level", cfg.Level, "ehz2_alt"},
		{"env_overrides_file", cfg.Seed, int64(7)},
		{"env_only", cfg.HotReload, true},
		{"scale_floor", cfg.WindowScale, 1},
		{"default_kept", cfg.SimTicks, 3600},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName+".yaml"), []byte("seed: [1,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "error reading config file") {
		t.Fatalf("expected a read error, got %v", err)
	}
}
