package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cbodonnell/afterglow/pkg/api/handlers"
	apimiddleware "github.com/cbodonnell/afterglow/pkg/api/middleware"
	authhandlers "github.com/cbodonnell/afterglow/pkg/auth/handlers"
	authproviders "github.com/cbodonnell/afterglow/pkg/auth/providers"
	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/events/sinks"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/repositories"
	"github.com/cbodonnell/afterglow/pkg/state"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	AuthProvider authproviders.AuthProvider
	// AuthHandler is optional. When set, the Firebase REST endpoints are
	// mounted under /auth/.
	AuthHandler authhandlers.AuthHandler
	Repository  repositories.Repository
	Emitter     events.Emitter
	Broadcaster *sinks.Broadcaster
	Daily       state.Manager
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	authMiddleware := apimiddleware.NewAuthMiddleware(opts.AuthProvider)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Handle("/scores", authMiddleware(handlers.HandleSubmitScore(opts.Repository, opts.Emitter))).Methods(http.MethodPost, http.MethodOptions)
	v1.Handle("/scores/top", handlers.HandleTopScores(opts.Repository)).Methods(http.MethodGet, http.MethodOptions)
	v1.Handle("/scores/{scoreID}", handlers.HandleGetScore(opts.Repository)).Methods(http.MethodGet, http.MethodOptions)
	v1.Handle("/scores/{scoreID}/replay", handlers.HandleGetReplay(opts.Repository)).Methods(http.MethodGet, http.MethodOptions)
	v1.Handle("/daily", handlers.HandleDaily(opts.Daily)).Methods(http.MethodGet, http.MethodOptions)
	v1.Handle("/live", handlers.HandleLiveScores(opts.Broadcaster)).Methods(http.MethodGet)

	if opts.AuthHandler != nil {
		auth := router.PathPrefix("/auth").Subrouter()
		auth.HandleFunc("/register", opts.AuthHandler.HandleRegister()).Methods(http.MethodPost, http.MethodOptions)
		auth.HandleFunc("/login", opts.AuthHandler.HandleLogin()).Methods(http.MethodPost, http.MethodOptions)
		auth.HandleFunc("/refresh", opts.AuthHandler.HandleRefresh()).Methods(http.MethodPost, http.MethodOptions)
		auth.HandleFunc("/delete", opts.AuthHandler.HandleDelete()).Methods(http.MethodPost, http.MethodOptions)
	}

	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// corsMiddleware sets the CORS headers on every response and answers
// preflight requests. Routes must include http.MethodOptions for it to see
// the preflight.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// Handler returns the server's root handler, primarily for tests.
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
