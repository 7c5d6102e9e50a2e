package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Store.Backend != BackendFilesystem || cfg.Store.Path != "./metadata/store" {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Stash.Backend != BackendFilesystem || cfg.Stash.Path != "./metadata/stash" {
		t.Fatalf("unexpected stash defaults: %+v", cfg.Stash)
	}
	if cfg.Postgres.Port != 5432 {
		t.Fatalf("unexpected postgres defaults: %+v", cfg.Postgres)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Debug {
		t.Fatalf("debug should default off")
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to read working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to enter temp directory: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if cfg.Store.Path != "./metadata/store" {
		t.Fatalf("expected default store path, got %q", cfg.Store.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := []byte(`store:
  backend: postgres
  path: production
database:
  host: db.internal
  port: 5433
debug: true
`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.Store.Backend != BackendPostgres || cfg.Store.Path != "production" {
		t.Fatalf("expected file to override store location, got %+v", cfg.Store)
	}
	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Port != 5433 {
		t.Fatalf("expected file to override database settings, got %+v", cfg.Postgres)
	}
	if cfg.Stash.Path != "./metadata/stash" {
		t.Fatalf("unset keys should keep defaults, got %q", cfg.Stash.Path)
	}
	if !cfg.Debug {
		t.Fatalf("expected debug on")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("METACAT_STASH_BACKEND", "redis")
	t.Setenv("METACAT_STASH_PATH", "scratch")
	t.Setenv("METACAT_REDIS_ADDR", "cache.internal:6379")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.Stash.Backend != BackendRedis || cfg.Stash.Path != "scratch" {
		t.Fatalf("expected env to override stash location, got %+v", cfg.Stash)
	}
	if cfg.Redis.Addr != "cache.internal:6379" {
		t.Fatalf("expected env to override redis address, got %q", cfg.Redis.Addr)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: s3\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for an unknown backend")
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected an error for an explicit missing file")
	}
}
