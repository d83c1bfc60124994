package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/rpfocus/internal/config"
	"github.com/claude/rpfocus/internal/foodai"
	"github.com/claude/rpfocus/internal/logging"
	"github.com/claude/rpfocus/internal/server"
	"github.com/claude/rpfocus/internal/storage"
	"github.com/claude/rpfocus/internal/tracking"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (defaults plus RPFOCUS_* env when empty)")
	webDir := flag.String("web", "", "directory with a built frontend to serve at /")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()
	log.Info("RP Focus starting", "version", Version)

	// Open state store
	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.Target())
	if err != nil {
		log.Error("failed to open state store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("state store ready", "driver", cfg.Storage.Driver)

	analyzer := foodai.NewClient(foodai.Options{
		Endpoint: cfg.Gemini.Endpoint,
		Model:    cfg.Gemini.Model,
		Timeout:  cfg.Gemini.Timeout,
	}, log)

	session := tracking.Open(ctx, store, log, tracking.Options{
		Analyzer:        analyzer,
		DefaultAPIKey:   cfg.Gemini.APIKey,
		AnalysisTimeout: analyzer.Budget(),
	})
	defer session.Close()

	srv := server.New(session, log)

	if *webDir != "" {
		srv.SetFrontend(os.DirFS(*webDir))
		log.Info("serving frontend", "dir", *webDir)
	}

	// Start server on tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
