package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Radviz/internal/calc"
	"Radviz/internal/calc/batch"
	"Radviz/internal/calc/gamma"
	"Radviz/internal/calc/proton"
	"Radviz/internal/calc/shield"
	"Radviz/internal/calc/xray"
	"Radviz/internal/config"
	"Radviz/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

// tool is the set of endpoints every calculation tool exposes.
type tool interface {
	Calc(http.ResponseWriter, *http.Request)
	Plot(http.ResponseWriter, *http.Request)
	Export(http.ResponseWriter, *http.Request)
	Report(http.ResponseWriter, *http.Request)
}

func HandleList(r *mux.Router, env *calc.Env, limiter *middleware.IPRateLimiter, cfg config.Config, logger *slog.Logger) {
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Logging(logger))
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/materials", env.ListMaterials).Methods("GET")

	tools := map[string]tool{
		"xray":   &xray.Handler{Env: env},
		"gamma":  &gamma.Handler{Env: env},
		"proton": &proton.Handler{Env: env},
	}
	for name, h := range tools {
		prefix := "/tools/" + name
		api.HandleFunc(prefix+"/calc", h.Calc).Methods("POST")
		api.HandleFunc(prefix+"/plot", h.Plot).Methods("POST")
		api.HandleFunc(prefix+"/export", h.Export).Methods("POST")
		api.HandleFunc(prefix+"/report", h.Report).Methods("POST")
	}

	batchH := &batch.Handler{Env: env}
	api.HandleFunc("/tools/batch/calc", batchH.Calc).Methods("POST")
	api.HandleFunc("/tools/batch/import", batchH.Import).Methods("POST")

	shieldH := &shield.Handler{Env: env}
	api.HandleFunc("/tools/shield/calc", shieldH.Calc).Methods("POST")

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	env, err := cfg.Env()
	if err != nil {
		logger.Error("physics configuration", "file", cfg.CoefficientsFile, "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	router := mux.NewRouter()
	HandleList(router, env, limiter, cfg, logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           middleware.CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "addr", cfg.Addr, "tls", cfg.TLS(), "materials", len(env.Materials.Keys()))
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiter.Sweep(10 * time.Minute); n > 0 {
					logger.Debug("rate limiter sweep", "dropped", n)
				}
			}
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	wg.Wait()
	logger.Info("server stopped")
}
