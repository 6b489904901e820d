// Package config loads and validates server configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AuthProviderFirebase verifies id tokens with Firebase.
	AuthProviderFirebase = "firebase"
	// AuthProviderStatic verifies shared-secret tokens, for development.
	AuthProviderStatic = "static"
)

// Config captures all server configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Events   EventsConfig   `mapstructure:"events"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	TLSCertFile string `mapstructure:"tls_cert_file"`
	TLSKeyFile  string `mapstructure:"tls_key_file"`
}

// AuthConfig selects and configures the token verifier.
type AuthConfig struct {
	Provider          string `mapstructure:"provider"`
	FirebaseProjectID string `mapstructure:"firebase_project_id"`
	FirebaseAPIKey    string `mapstructure:"firebase_api_key"`
	StaticSecret      string `mapstructure:"static_secret"`
}

// DatabaseConfig controls score persistence. The URL scheme selects the
// backend: sqlite://scores.db, postgresql://..., or memory://.
type DatabaseConfig struct {
	URL           string `mapstructure:"url"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// EventsConfig tunes the score event hub.
type EventsConfig struct {
	MaxBatch       int `mapstructure:"max_batch"`
	MaxBatchWaitMs int `mapstructure:"max_batch_wait_ms"`
}

// LoggingConfig sets the default logger's level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AFTERGLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 9090)
	// keys without a useful default are still registered so environment
	// overrides reach Unmarshal
	v.SetDefault("server.tls_cert_file", "")
	v.SetDefault("server.tls_key_file", "")
	v.SetDefault("auth.provider", AuthProviderFirebase)
	v.SetDefault("auth.firebase_project_id", "")
	v.SetDefault("auth.firebase_api_key", "")
	v.SetDefault("auth.static_secret", "")
	v.SetDefault("database.url", "sqlite://afterglow.db")
	v.SetDefault("database.migrations_dir", "./migrations/sqlite")
	v.SetDefault("events.max_batch", 64)
	v.SetDefault("events.max_batch_wait_ms", 250)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return fmt.Errorf("server.tls_cert_file and server.tls_key_file must be set together")
	}
	switch c.Auth.Provider {
	case AuthProviderFirebase:
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("auth.firebase_project_id must be set when the provider is %s", AuthProviderFirebase)
		}
		if c.Auth.FirebaseAPIKey == "" {
			return fmt.Errorf("auth.firebase_api_key must be set when the provider is %s", AuthProviderFirebase)
		}
	case AuthProviderStatic:
		if c.Auth.StaticSecret == "" {
			return fmt.Errorf("auth.static_secret must be set when the provider is %s", AuthProviderStatic)
		}
	default:
		return fmt.Errorf("auth.provider must be %s or %s", AuthProviderFirebase, AuthProviderStatic)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url must be set")
	}
	if c.Events.MaxBatch <= 0 {
		return fmt.Errorf("events.max_batch must be > 0")
	}
	if c.Events.MaxBatchWaitMs <= 0 {
		return fmt.Errorf("events.max_batch_wait_ms must be > 0")
	}
	return nil
}

// MaxBatchWait converts the batch wait config into a duration.
func (c Config) MaxBatchWait() time.Duration {
	return time.Duration(c.Events.MaxBatchWaitMs) * time.Millisecond
}
