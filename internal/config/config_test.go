package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(ossAccessKeyIDEnv, "")
	t.Setenv(ocrAPIKeyEnv, "")

	cfg := Load()

	if cfg.Server.Addr() != ":8000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr())
	}
	if cfg.Web.Timeout != 30*time.Second {
		t.Fatalf("unexpected web timeout: %v", cfg.Web.Timeout)
	}
	if cfg.Storage.Bucket != "aplus-images" {
		t.Fatalf("unexpected bucket: %s", cfg.Storage.Bucket)
	}
	if cfg.Storage.Enabled() {
		t.Fatal("storage must be disabled without credentials")
	}
	if cfg.Recognition.Enabled() {
		t.Fatal("recognition must be disabled without api key")
	}
	if cfg.Ingestion.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Ingestion.Workers)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aplus.yaml")
	raw := []byte(`
server:
  port: "9090"
database:
  driver: sqlite3
  dsn: "file:plans.db"
web:
  timeout: 5s
  readable: true
recognition:
  provider: Gemini
  model: gemini-2.0-flash
ingestion:
  workers: 2
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(portEnv, "7000")
	t.Setenv(ocrAPIKeyEnv, "")
	t.Setenv(geminiAPIKeyEnv, "gem-key")
	t.Setenv(ossAccessKeyIDEnv, "id")
	t.Setenv(ossAccessSecretEnv, "secret")
	t.Setenv(ossEndpointEnv, "oss-cn-hangzhou.aliyuncs.com")
	t.Setenv(ingestionWorkersEnv, "bogus")

	cfg := Load()

	if cfg.Server.Addr() != ":7000" {
		t.Fatalf("env must win over file, got %s", cfg.Server.Addr())
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Database.DSN != "file:plans.db" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Web.Timeout != 5*time.Second || !cfg.Web.Readable {
		t.Fatalf("unexpected web config: %+v", cfg.Web)
	}
	if cfg.Recognition.Provider != ProviderGemini || cfg.Recognition.APIKey != "gem-key" {
		t.Fatalf("unexpected recognition config: %+v", cfg.Recognition)
	}
	if !cfg.Storage.Enabled() {
		t.Fatal("storage should be enabled")
	}
	if cfg.Ingestion.Workers != 2 {
		t.Fatalf("invalid env must keep file value, got %d", cfg.Ingestion.Workers)
	}
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(portEnv, "")

	cfg := Load()
	if cfg.Server.Port != "8000" {
		t.Fatalf("expected default port, got %s", cfg.Server.Port)
	}
}
