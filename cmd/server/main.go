package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/afterglow/pkg/api"
	authhandlers "github.com/cbodonnell/afterglow/pkg/auth/handlers"
	authproviders "github.com/cbodonnell/afterglow/pkg/auth/providers"
	"github.com/cbodonnell/afterglow/pkg/config"
	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/events/sinks"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/state"
	"github.com/cbodonnell/afterglow/pkg/version"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository, err := newRepository(ctx, cfg.Database)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer func() {
		if err := repository.Close(context.Background()); err != nil {
			log.Error("Failed to close repository: %v", err)
		}
	}()

	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		panic(fmt.Sprintf("Failed to create prometheus sink: %v", err))
	}
	broadcaster := sinks.NewBroadcaster()
	hub := events.NewHub(events.NewHubOptions{
		MaxBatch:     cfg.Events.MaxBatch,
		MaxBatchWait: cfg.MaxBatchWait(),
		Sinks: []events.Sink{
			sinks.NewLogSink(log.Zap()),
			promSink,
			broadcaster,
		},
	})

	authProvider, authHandler, err := newAuth(ctx, cfg.Auth)
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}

	var tlsConfig *api.TLSConfig
	if cfg.Server.TLSCertFile != "" {
		tlsConfig = &api.TLSConfig{
			CertFile: cfg.Server.TLSCertFile,
			KeyFile:  cfg.Server.TLSKeyFile,
		}
	}

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         cfg.Server.Port,
		TLS:          tlsConfig,
		AuthProvider: authProvider,
		AuthHandler:  authHandler,
		Repository:   repository,
		Emitter:      hub,
		Broadcaster:  broadcaster,
		Daily:        state.NewInMemoryManager(),
	})
	go apiServer.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
	if err := hub.Close(shutdownCtx); err != nil {
		log.Error("Failed to close event hub: %v", err)
	}
}

// newRepository selects the score store from the database URL scheme.
func newRepository(ctx context.Context, cfg config.DatabaseConfig) (repositories.Repository, error) {
	switch {
	case strings.HasPrefix(cfg.URL, "sqlite://"):
		path := strings.TrimPrefix(cfg.URL, "sqlite://")
		return repositories.NewSQLiteRepository(ctx, path, cfg.MigrationsDir)
	case strings.HasPrefix(cfg.URL, "postgresql://"), strings.HasPrefix(cfg.URL, "postgres://"):
		return repositories.NewPostgresRepository(ctx, cfg.URL)
	case cfg.URL == "memory://":
		return repositories.NewInMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported database url: %s", cfg.URL)
	}
}

func newAuth(ctx context.Context, cfg config.AuthConfig) (authproviders.AuthProvider, authhandlers.AuthHandler, error) {
	switch cfg.Provider {
	case config.AuthProviderFirebase:
		provider, err := authproviders.NewFirebaseAuthProvider(ctx, cfg.FirebaseProjectID, cfg.FirebaseAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return provider, authhandlers.NewFirebaseAuthHandler(cfg.FirebaseAPIKey), nil
	case config.AuthProviderStatic:
		provider, err := authproviders.NewStaticAuthProvider(cfg.StaticSecret)
		if err != nil {
			return nil, nil, err
		}
		// no hosted auth endpoints for the static provider, clients bring
		// their own tokens
		return provider, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth provider: %s", cfg.Provider)
	}
}
