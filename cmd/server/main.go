package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/memeforge/memeforge/backend-go/internal/config"
	"github.com/memeforge/memeforge/backend-go/internal/db"
	"github.com/memeforge/memeforge/backend-go/internal/document"
	mw "github.com/memeforge/memeforge/backend-go/internal/middleware"
	"github.com/memeforge/memeforge/backend-go/internal/project"
	"github.com/memeforge/memeforge/backend-go/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := project.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}
	projectHandler := project.NewHandler(store)

	// Unknown projects open as the sample meme and are created on first save.
	load := func(ctx context.Context, projectID string) (*document.Project, error) {
		doc, err := store.LoadDocument(ctx, projectID)
		if errors.Is(err, project.ErrNotFound) {
			slog.Info("opening sample project", "project", projectID)
			return document.NewSampleProject(projectID), nil
		}
		return doc, err
	}
	save := func(ctx context.Context, doc *document.Project) (int, error) {
		snap, err := store.SaveSnapshot(ctx, doc)
		if errors.Is(err, project.ErrNotFound) {
			_, err = store.Create(ctx, doc)
			if err == nil {
				return 1, nil
			}
			// Another session created it first.
			if !errors.Is(err, project.ErrExists) {
				return 0, err
			}
			snap, err = store.SaveSnapshot(ctx, doc)
		}
		if err != nil {
			return 0, err
		}
		return snap.Version, nil
	}

	hub := session.NewHub(load, save, cfg.EngineOptions())
	hub.SetAutosave(cfg.Autosave)
	go hub.Run()

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/projects/{projectId}/snapshots/latest", projectHandler.GetLatestSnapshot).Methods("GET")

	originHosts := cfg.OriginHosts()
	r.HandleFunc("/ws/project/{projectId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, originHosts)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Dirty sessions are saved before the pool closes.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, origins []string) {
	projectID := mux.Vars(r)["projectId"]

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	ctx := r.Context()
	client, err := hub.Open(ctx, conn, projectID)
	if err != nil {
		slog.Warn("open session", "error", err, "project", projectID)
		conn.Close(websocket.StatusInternalError, "could not open project")
		return
	}

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
