package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Clusters != 2 || cfg.MaxIterations != 300 || cfg.Workers != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_JSONAppConfig(t *testing.T) {
	cfg, err := Load(writeFile(t, "app_config.json", `{"error_margin": 7}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ErrorMargin != 7 {
		t.Errorf("ErrorMargin = %v, want 7", cfg.ErrorMargin)
	}
	if cfg.Clusters != 2 {
		t.Errorf("Clusters = %d, default should survive", cfg.Clusters)
	}
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "error_margin: 12.5\nclusters: 4\nseed: 99\nworkers: 3\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ErrorMargin != 12.5 || cfg.Clusters != 4 || cfg.Seed == nil || *cfg.Seed != 99 || cfg.Workers != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
	opts := cfg.Pipeline()
	if opts.Workers != 3 || opts.Dominant.Clusters != 4 || *opts.Dominant.Seed != 99 {
		t.Errorf("pipeline options %+v", opts)
	}
}

func TestLoad_SeedZero(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "seed: 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed == nil || *cfg.Seed != 0 {
		t.Errorf("explicit seed 0 not kept: %v", cfg.Seed)
	}

	cfg, err = Load(writeFile(t, "config.yaml", "clusters: 3\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != nil {
		t.Errorf("absent seed should stay unset, got %d", *cfg.Seed)
	}

	t.Setenv(EnvSeed, "0")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dominant().Seed == nil || *cfg.Dominant().Seed != 0 {
		t.Error("seed 0 from the environment not kept")
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load(writeFile(t, "bad.yaml", "error_margin: [1, 2")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvErrorMargin, "3.5")
	t.Setenv(EnvClusters, "5")
	t.Setenv(EnvWorkers, "-2")
	t.Setenv(EnvSeed, "17")
	t.Setenv(EnvDiagnosticsDir, "/tmp/diag")

	cfg, err := Load(writeFile(t, "app_config.json", `{"error_margin": 7, "workers": 2}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ErrorMargin != 3.5 || cfg.Clusters != 5 || cfg.Seed == nil || *cfg.Seed != 17 || cfg.Diagnostics != "/tmp/diag" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Workers != 2 {
		t.Errorf("invalid worker override should be ignored, got %d", cfg.Workers)
	}

	t.Setenv(EnvErrorMargin, "lots")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric margin")
	}
}

func TestMargin_ClampsAtRead(t *testing.T) {
	tests := []struct {
		stored  float64
		want    float64
		clamped bool
	}{
		{-5, 0, true},
		{150, 100, true},
		{42, 42, false},
	}
	for _, tt := range tests {
		cfg := &Config{ErrorMargin: tt.stored}
		got, clamped := cfg.Margin()
		if got != tt.want || clamped != tt.clamped {
			t.Errorf("Margin() with %v = %v, %v", tt.stored, got, clamped)
		}
		if cfg.ErrorMargin != tt.stored {
			t.Error("Margin() must not change the stored value")
		}
	}
}

func TestSaveMargin(t *testing.T) {
	path := writeFile(t, "app_config.json", `{"error_margin": 7, "clusters": 3}`)
	if err := SaveMargin(path, 150); err != nil {
		t.Fatalf("SaveMargin: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ErrorMargin != 150 {
		t.Errorf("stored margin = %v, want 150 unclamped", cfg.ErrorMargin)
	}
	if cfg.Clusters != 3 {
		t.Errorf("clusters lost: %d", cfg.Clusters)
	}

	fresh := filepath.Join(t.TempDir(), "new.json")
	if err := SaveMargin(fresh, 4); err != nil {
		t.Fatalf("SaveMargin new file: %v", err)
	}
	if cfg, _ := Load(fresh); cfg.ErrorMargin != 4 {
		t.Errorf("new file margin = %v", cfg.ErrorMargin)
	}
}
