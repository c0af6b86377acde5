package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.Server.HTTPPort)
	}
	if cfg.Storage.Type != "redis" {
		t.Errorf("Storage.Type = %q, want redis", cfg.Storage.Type)
	}
	if cfg.Tolls.Timezone != "Europe/Stockholm" {
		t.Errorf("Tolls.Timezone = %q, want Europe/Stockholm", cfg.Tolls.Timezone)
	}
	if cfg.Retention.Days != 90 {
		t.Errorf("Retention.Days = %d, want 90", cfg.Retention.Days)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  http_port: 8181
tolls:
  timezone: UTC
retention:
  days: 30
  cleanup_time: "04:15"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TOLLFEE_STORAGE_REDIS_HOST", "redis.internal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.HTTPPort != 8181 {
		t.Errorf("HTTPPort = %d, want 8181", cfg.Server.HTTPPort)
	}
	if cfg.Retention.CleanupTime != "04:15" {
		t.Errorf("CleanupTime = %q, want 04:15", cfg.Retention.CleanupTime)
	}
	if cfg.Storage.Redis.Host != "redis.internal" {
		t.Errorf("Redis.Host = %q, want redis.internal", cfg.Storage.Redis.Host)
	}

	loc, err := cfg.Tolls.Location()
	if err != nil {
		t.Fatalf("Location(): %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("Location() = %s, want UTC", loc)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad port", "server:\n  http_port: 70000\n", "invalid HTTP port"},
		{"bad storage", "storage:\n  type: bolt\n", "unsupported storage type"},
		{"bad timezone", "tolls:\n  timezone: Mars/Olympus\n", "invalid timezone"},
		{"bad cleanup time", "retention:\n  cleanup_time: noon\n", "invalid cleanup_time"},
		{"bad retention", "retention:\n  days: 0\n", "retention days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}

			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
