package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "pressmill.yaml")
		content := `buildRoot: out/build
exportRoot: out/export
formats:
  - formats/print
projects:
  - projects/handbook
workers: 4
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.BuildRoot != filepath.Join(dir, "out", "build") {
			t.Errorf("BuildRoot = %q, want anchored at the config directory", cfg.BuildRoot)
		}
		if len(cfg.Formats) != 1 || cfg.Formats[0] != filepath.Join(dir, "formats", "print") {
			t.Errorf("Formats = %v, want anchored paths", cfg.Formats)
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
	})

	t.Run("absolute paths kept", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "pressmill.yaml")
		if err := os.WriteFile(path, []byte("buildRoot: /abs/build\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.BuildRoot != "/abs/build" {
			t.Errorf("BuildRoot = %q, want the absolute path untouched", cfg.BuildRoot)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "pressmill.yaml")
		if err := os.WriteFile(path, []byte("buildRoot: b\nbogus: true\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, err := Load(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})
}

func TestLoadDefault(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := LoadDefault()
		if err != nil {
			t.Fatalf("LoadDefault() error = %v", err)
		}
		if cfg.BuildRoot != DefaultBuildRoot {
			t.Errorf("BuildRoot = %q, want %q", cfg.BuildRoot, DefaultBuildRoot)
		}
		if cfg.ExportRoot != DefaultExportRoot {
			t.Errorf("ExportRoot = %q, want %q", cfg.ExportRoot, DefaultExportRoot)
		}
	})

	t.Run("present file loads", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := os.WriteFile(DefaultFile, []byte("workers: 2\n"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadDefault()
		if err != nil {
			t.Fatalf("LoadDefault() error = %v", err)
		}
		if cfg.Workers != 2 {
			t.Errorf("Workers = %d, want 2", cfg.Workers)
		}
	})
}
