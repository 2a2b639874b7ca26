package config

import (
	"os"
	"testing"
)

func unsetBuildEnv() {
	_ = os.Unsetenv("TRIP_ASSISTANT_BUILD_TARGET")
	_ = os.Unsetenv("TRIP_ASSISTANT_CATALOG_DRIVER")
	_ = os.Unsetenv("TRIP_ASSISTANT_POSTGRES_DSN")
}

func TestResolveDefaultsLocal(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("TRIP_ASSISTANT_BUILD_TARGET", "local")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.CatalogDriver != "sqlite" {
		t.Fatalf("unexpected driver mapping: %s", cfg.CatalogDriver)
	}
}

func TestResolveDefaultsCloudDev(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("TRIP_ASSISTANT_BUILD_TARGET", "cloud-dev")
	_ = os.Setenv("TRIP_ASSISTANT_POSTGRES_DSN", "postgres://localhost/catalog")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.CatalogDriver != "postgres" {
		t.Fatalf("unexpected driver mapping: %s", cfg.CatalogDriver)
	}
}

func TestResolveDefaultsPostgresRequiresDSN(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("TRIP_ASSISTANT_BUILD_TARGET", "cloud-dev")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected error when POSTGRES_DSN is missing")
	}
}

func TestResolveDefaultsOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("TRIP_ASSISTANT_BUILD_TARGET", "cloud-dev")
	_ = os.Setenv("TRIP_ASSISTANT_CATALOG_DRIVER", "sqlite")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.CatalogDriver != "sqlite" {
		t.Fatalf("override failed, got %s", cfg.CatalogDriver)
	}
}

func TestResolveDefaultsRejectsUnknownTarget(t *testing.T) {
	cfg := NewForTesting()
	cfg.BuildTarget = "mainframe"
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unknown build target")
	}
}

func TestResolveDefaultsRejectsBadThreshold(t *testing.T) {
	cfg := NewForTesting()
	cfg.SimilarityThreshold = 1.5
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for out-of-range threshold")
	}
}
