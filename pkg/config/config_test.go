package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  port: 8443
  tls_cert_file: /etc/afterglow/tls.crt
  tls_key_file: /etc/afterglow/tls.key
auth:
  provider: static
  static_secret: sekrit
database:
  url: memory://
events:
  max_batch: 16
  max_batch_wait_ms: 100
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8443 {
		t.Fatalf("expected port 8443, got %d", cfg.Server.Port)
	}
	if cfg.Server.TLSCertFile != "/etc/afterglow/tls.crt" || cfg.Server.TLSKeyFile != "/etc/afterglow/tls.key" {
		t.Fatalf("expected tls overrides to apply: %+v", cfg.Server)
	}
	if cfg.Auth.Provider != AuthProviderStatic || cfg.Auth.StaticSecret != "sekrit" {
		t.Fatalf("expected static auth provider with secret, got %+v", cfg.Auth)
	}
	if cfg.Database.URL != "memory://" {
		t.Fatalf("expected memory database url, got %q", cfg.Database.URL)
	}
	if cfg.Database.MigrationsDir != "./migrations/sqlite" {
		t.Fatalf("expected default migrations dir, got %q", cfg.Database.MigrationsDir)
	}
	if cfg.Events.MaxBatch != 16 {
		t.Fatalf("expected max batch 16, got %d", cfg.Events.MaxBatch)
	}
	if got := cfg.MaxBatchWait(); got != 100*time.Millisecond {
		t.Fatalf("expected batch wait 100ms, got %v", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadRequiresAuthCredentials(t *testing.T) {
	t.Parallel()

	// the firebase provider is the default and carries no credentials
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "auth.firebase_project_id") {
		t.Fatalf("expected missing project id error, got %v", err)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Server:   ServerConfig{Port: 9090},
		Auth:     AuthConfig{Provider: AuthProviderStatic, StaticSecret: "sekrit"},
		Database: DatabaseConfig{URL: "memory://"},
		Events:   EventsConfig{MaxBatch: 64, MaxBatchWaitMs: 250},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "invalid port",
			cfg: func() Config {
				c := base
				c.Server.Port = 0
				return c
			}(),
			want: "server.port",
		},
		{
			name: "tls cert without key",
			cfg: func() Config {
				c := base
				c.Server.TLSCertFile = "/etc/afterglow/tls.crt"
				return c
			}(),
			want: "tls_key_file",
		},
		{
			name: "unknown provider",
			cfg: func() Config {
				c := base
				c.Auth.Provider = "auth0"
				return c
			}(),
			want: "auth.provider",
		},
		{
			name: "firebase missing project id",
			cfg: func() Config {
				c := base
				c.Auth = AuthConfig{Provider: AuthProviderFirebase, FirebaseAPIKey: "key"}
				return c
			}(),
			want: "auth.firebase_project_id",
		},
		{
			name: "firebase missing api key",
			cfg: func() Config {
				c := base
				c.Auth = AuthConfig{Provider: AuthProviderFirebase, FirebaseProjectID: "project"}
				return c
			}(),
			want: "auth.firebase_api_key",
		},
		{
			name: "static missing secret",
			cfg: func() Config {
				c := base
				c.Auth = AuthConfig{Provider: AuthProviderStatic}
				return c
			}(),
			want: "auth.static_secret",
		},
		{
			name: "missing database url",
			cfg: func() Config {
				c := base
				c.Database.URL = ""
				return c
			}(),
			want: "database.url",
		},
		{
			name: "invalid max batch",
			cfg: func() Config {
				c := base
				c.Events.MaxBatch = 0
				return c
			}(),
			want: "events.max_batch",
		},
		{
			name: "invalid batch wait",
			cfg: func() Config {
				c := base
				c.Events.MaxBatchWaitMs = 0
				return c
			}(),
			want: "events.max_batch_wait_ms",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
