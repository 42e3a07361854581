// Package server provides the HTTP server and routing for the frontier service.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/restaking-frontier/internal/config"
	"github.com/aristath/restaking-frontier/internal/modules/frontier"
	frontierhandlers "github.com/aristath/restaking-frontier/internal/modules/frontier/handlers"
	"github.com/aristath/restaking-frontier/internal/modules/render"
	"github.com/aristath/restaking-frontier/pkg/embedded"
)

// Config holds server configuration
type Config struct {
	Log     zerolog.Logger
	Config  *config.Config
	Port    int
	DevMode bool
}

// Server represents the HTTP server
type Server struct {
	router          *chi.Mux
	server          *http.Server
	log             zerolog.Logger
	cfg             *config.Config
	systemHandlers  *SystemHandlers
	resourceMonitor *ResourceMonitor
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".mjs", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")

	systemHandlers := NewSystemHandlers(cfg.Log)

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg.Config,
		systemHandlers: systemHandlers,
	}

	s.resourceMonitor = NewResourceMonitor(systemHandlers, cfg.Log)

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg.Log)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(log zerolog.Logger) {
	// Health check (before SPA routing)
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		calc := frontier.NewCalculator(log)
		renderer := render.NewRenderer(render.DefaultOptions(), log)
		frontierHandler := frontierhandlers.NewHandler(calc, renderer, s.cfg.GridPoints, log)
		frontierHandler.RegisterRoutes(r)

		// System monitoring
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})
	})

	// Serve the analysis page from the embedded filesystem
	webFS, err := fs.Sub(embedded.Files, "web")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create web filesystem from embedded files")
		return
	}

	assetsFS, err := fs.Sub(webFS, "assets")
	if err != nil {
		s.log.Warn().Err(err).Msg("Assets directory not found in embedded files")
	} else {
		fileServer := http.FileServer(http.FS(assetsFS))
		// Wrap file server with MIME type handler to ensure correct Content-Type headers
		assetsHandler := s.assetsHandler(fileServer)
		s.router.Handle("/assets/*", http.StripPrefix("/assets/", assetsHandler))
	}

	// Serve index.html for root and all non-API routes
	s.router.Get("/", s.handleIndex)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api") && !strings.HasPrefix(r.URL.Path, "/health") {
			s.handleIndex(w, r)
		} else {
			http.NotFound(w, r)
		}
	})
}

// Start begins serving HTTP requests and the resource heartbeat
func (s *Server) Start() error {
	if s.resourceMonitor != nil {
		if err := s.resourceMonitor.Start(resourceMonitorSchedule); err != nil {
			s.log.Error().Err(err).Msg("Failed to start resource monitor")
		} else {
			s.log.Info().Msg("Resource monitor started")
		}
	}

	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.resourceMonitor != nil {
		s.resourceMonitor.Stop()
	}

	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// assetsHandler wraps the file server to set correct MIME types
func (s *Server) assetsHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := filepath.Ext(r.URL.Path)

		contentType := mime.TypeByExtension(ext)
		if contentType == "" {
			// Fallback for common extensions
			switch ext {
			case ".js", ".mjs":
				contentType = "application/javascript"
			case ".css":
				contentType = "text/css"
			case ".json":
				contentType = "application/json"
			case ".svg":
				contentType = "image/svg+xml"
			default:
				contentType = "application/octet-stream"
			}
		}

		w.Header().Set("Content-Type", contentType)

		next.ServeHTTP(w, r)
	})
}

// handleIndex serves the analysis page HTML from the embedded filesystem
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	webFS, err := fs.Sub(embedded.Files, "web")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create web filesystem from embedded files")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	indexFile, err := webFS.Open("index.html")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to open embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}
	defer indexFile.Close()

	data, err := io.ReadAll(indexFile)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read embedded index.html")
		http.Error(w, "Frontend not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to write index.html response")
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
