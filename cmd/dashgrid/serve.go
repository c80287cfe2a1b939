package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gnemet/dashgrid/internal/metrics"
	"github.com/gnemet/dashgrid/internal/viewstate"
	"github.com/gnemet/dashgrid/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the widget API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		idle, abs, shutdown, err := cfg.Durations()
		if err != nil {
			return err
		}

		sessions := viewstate.NewStore(viewstate.Options{
			MaxSessions: cfg.Sessions.MaxSessions,
			IdleTimeout: idle,
			AbsTimeout:  abs,
			Logger:      logger,
		})
		defer sessions.Close()

		a, err := newApp(sessions)
		if err != nil {
			return err
		}
		a.metrics = metrics.New(prometheus.NewRegistry())
		a.metrics.WatchSessions(sessions.Len)

		srv := &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           a.routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting", "addr", "http://localhost:"+cfg.Server.Port, "app", cfg.Application.Name, "version", cfg.Application.Version)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down", "timeout", shutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/widgets", func(w http.ResponseWriter, r *http.Request) {
		type entry struct {
			Name  string `json:"name"`
			Title string `json:"title"`
			Kind  string `json:"kind"`
		}
		list := []entry{}
		for _, wd := range a.catalog.Widgets {
			list = append(list, entry{Name: wd.Name, Title: wd.Title, Kind: wd.Kind})
		}
		writeJSON(w, http.StatusOK, list)
	})

	mux.HandleFunc("GET /api/widgets/{name}", func(w http.ResponseWriter, r *http.Request) {
		h, err := a.widget(r.PathValue("name"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.ServeHTTP(w, r)
	})

	mux.HandleFunc("GET /api/tools", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, a.tools.List())
	})

	mux.HandleFunc("POST /api/tools/{name}", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		name := r.PathValue("name")
		out, err := a.tools.Invoke(r.Context(), name, body)
		var verr *registry.ValidationError
		outcome := "ok"
		switch {
		case errors.Is(err, registry.ErrUnknownTool):
			outcome = "unknown"
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.As(err, &verr):
			outcome = "invalid"
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"error": "invalid input", "details": verr.Errors})
		case err != nil:
			outcome = "error"
			logger.Error("Tool invocation failed", "tool", name, "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusOK, out)
		}
		if a.metrics != nil && outcome != "unknown" {
			a.metrics.ToolsTotal.WithLabelValues(name, outcome).Inc()
		}
	})

	if a.metrics == nil {
		return mux
	}
	mux.Handle("GET /metrics", a.metrics.Handler())
	return a.metrics.Middleware(mux)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
