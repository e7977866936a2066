// Package server provides the HTTP API for the property record tracker.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/parcelwatch/internal/assessor"
	"github.com/jonathan/parcelwatch/internal/config"
	"github.com/jonathan/parcelwatch/internal/db"
	"github.com/jonathan/parcelwatch/internal/diffing"
	"github.com/jonathan/parcelwatch/internal/resolver"
)

// Server is the HTTP server plus its database-backed collaborators.
type Server struct {
	httpServer *http.Server
	db         *db.DB
	engine     *diffing.Engine
	resolver   *resolver.Service
	lookup     *assessor.Client
	cfg        config.Config
}

// New connects to the database, ensures the schema and seed data, and wires
// the routes.
func New(cfg config.Config) (*Server, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.InitSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	if cfg.SeedFile != "" {
		if err := database.SeedFromFile(ctx, cfg.SeedFile); err != nil {
			log.Printf("[server] seed skipped: %v", err)
		}
	}

	lookup := assessor.NewClient(assessor.WithURLTemplate(cfg.AssessorURLTemplate))
	postal := resolver.PostalDefaults{City: cfg.DefaultCity, State: cfg.DefaultState, Zip: cfg.DefaultZip}

	s := &Server{
		db:       database,
		engine:   diffing.NewEngine(database),
		resolver: resolver.NewService(database, lookup, postal, cfg.ResolveConcurrency),
		lookup:   lookup,
		cfg:      cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /items", s.handleListItems)
	mux.HandleFunc("POST /runs", s.handleCreateRun)
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /tax/refresh", s.handleTaxRefresh)
	mux.HandleFunc("POST /resolve", s.handleResolve)
	mux.HandleFunc("POST /reset", s.handleReset)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // resolve batches talk to slow county sites
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening and blocks until an interrupt, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response. Internal detail is logged,
// never sent to the client.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
