package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("Load() = %+v, want %+v", cfg, Defaults())
	}
}

func TestLoad_File(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "parseq.yaml", "parallel:\n  threshold: 100\n  parallelism: 4\nlog:\n  level: DEBUG\n"},
		{"json", "parseq.json", `{"parallel": {"threshold": 100, "parallelism": 4}, "log": {"level": "DEBUG"}}`},
		{"toml", "parseq.toml", "[parallel]\nthreshold = 100\nparallelism = 4\n[log]\nlevel = \"DEBUG\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Parallel.Threshold != 100 || cfg.Parallel.Parallelism != 4 {
				t.Errorf("Parallel = %+v, want threshold 100, parallelism 4", cfg.Parallel)
			}
			if cfg.Log.Level != "DEBUG" {
				t.Errorf("Log.Level = %q, want DEBUG", cfg.Log.Level)
			}
			// Unset keys keep their defaults
			if cfg.Log.Format != "text" {
				t.Errorf("Log.Format = %q, want text", cfg.Log.Format)
			}
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parseq.yaml")
	if err := os.WriteFile(path, []byte("parallel:\n  threshold: 100\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PARSEQ_PARALLEL_THRESHOLD", "7")
	t.Setenv("PARSEQ_PARALLEL_POOL_SIZE", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Parallel.Threshold != 7 {
		t.Errorf("Threshold = %d, want 7", cfg.Parallel.Threshold)
	}
	if cfg.Parallel.PoolSize != 3 {
		t.Errorf("PoolSize = %d, want 3", cfg.Parallel.PoolSize)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Load() of missing file succeeded")
		}
	})

	t.Run("negative threshold", func(t *testing.T) {
		t.Setenv("PARSEQ_PARALLEL_THRESHOLD", "-1")
		if _, err := Load(""); err == nil {
			t.Error("Load() accepted negative threshold")
		}
	})
}
