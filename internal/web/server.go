package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/emiliopalmerini/pricepaid/internal/analytics"
	"github.com/emiliopalmerini/pricepaid/internal/ports"
	"github.com/emiliopalmerini/pricepaid/internal/shared/middleware"
)

//go:embed static/*
var staticFiles embed.FS

type Server struct {
	router       *http.ServeMux
	port         int
	analytics    *analytics.Service
	telemetry    ports.Telemetry
	logger       *slog.Logger
	historyLimit int
}

type Options struct {
	Port         int
	HistoryLimit int
}

func NewServer(svc *analytics.Service, tel ports.Telemetry, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:       http.NewServeMux(),
		port:         opts.Port,
		analytics:    svc,
		telemetry:    tel,
		logger:       logger,
		historyLimit: opts.HistoryLimit,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /{$}", s.handleSummary)
	s.router.HandleFunc("GET /correlation", s.handleCorrelation)
	s.router.HandleFunc("GET /hypothesis", s.handleHypothesis)
	s.router.HandleFunc("GET /model", s.handleModel)
	s.router.HandleFunc("GET /predict", s.handlePredictForm)
	s.router.HandleFunc("POST /predict", s.handlePredictSubmit)

	// Chart data
	s.router.HandleFunc("GET /api/charts/price-distribution", s.handleAPIChartDistribution)
	s.router.HandleFunc("GET /api/charts/price-by-year", s.handleAPIChartByYear)
	s.router.HandleFunc("GET /api/charts/price-by-type", s.handleAPIChartByType)
	s.router.HandleFunc("GET /api/charts/residuals", s.handleAPIChartResiduals)
	s.router.HandleFunc("GET /api/charts/importances", s.handleAPIChartImportances)

	// Predictions
	s.router.HandleFunc("POST /api/predict", s.handleAPIPredict)
	s.router.HandleFunc("GET /api/predictions", s.handleAPIPredictions)
}

// Handler returns the router wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return middleware.RequestLogger(s.logger)(s.router)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "url", fmt.Sprintf("http://localhost:%d", s.port),
		"base_dir", s.analytics.Layout().BaseDir)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
