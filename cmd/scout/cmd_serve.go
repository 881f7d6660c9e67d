// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/time/rate"

	"github.com/hrashid13/nfl-draft-scout-ai/services/llm"
	"github.com/hrashid13/nfl-draft-scout-ai/services/scout"
	"github.com/hrashid13/nfl-draft-scout-ai/services/scout/store"
)

const (
	sessionSweepInterval = 10 * time.Minute
	sessionIdleTTL       = time.Hour
)

var (
	serveConfigPath string
	servePort       int
	serveDebug      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scouting API server",
	Run:   runServeCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to YAML config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug mode")
	rootCmd.AddCommand(serveCmd)
}

func runServeCommand(cmd *cobra.Command, _ []string) {
	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := scout.LoadConfig(serveConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	// W3C TraceContext propagation so request traces survive the proxy hop.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	model, err := llm.NewAnthropicClient()
	if err != nil {
		slog.Error("Failed to create model client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	prospectStore, err := store.NewWeaviateStore(cfg.Weaviate.Host, cfg.Weaviate.Scheme, cfg.Weaviate.Class)
	if err != nil {
		slog.Error("Failed to create datastore client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	teams, err := scout.LoadTeamDirectory(cfg.TeamNeedsFile)
	if err != nil {
		slog.Error("Failed to load team needs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	gateway := scout.NewGateway(prospectStore)
	registry := scout.NewToolRegistry(gateway, teams)
	sessions := scout.NewSessionManager()
	chatbot := scout.NewScout(model, registry, sessions)
	handlers := scout.NewHandlers(chatbot, gateway)

	// Reap abandoned conversations so the session map stays bounded.
	sweeper := time.NewTicker(sessionSweepInterval)
	defer sweeper.Stop()
	go func() {
		for range sweeper.C {
			if removed := sessions.SweepIdle(sessionIdleTTL); removed > 0 {
				slog.Info("Swept idle sessions", slog.Int("removed", removed))
			}
		}
	}()

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("nfl-draft-scout"))
	if serveDebug {
		router.Use(gin.Logger())
	}
	scout.RegisterRoutes(&router.RouterGroup, handlers, limiter)

	// Best-effort startup probe; the server still comes up so /api/health
	// can report the datastore outage.
	probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if count, err := gateway.Count(probeCtx); err != nil {
		slog.Warn("Prospect datastore not reachable at startup", slog.String("error", err.Error()))
	} else {
		slog.Info("Prospect datastore loaded",
			slog.Int("prospects", count),
			slog.Int("teams", teams.Len()),
		)
	}
	cancel()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting scout server",
			slog.String("address", addr),
			slog.String("model", model.Model()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down scout server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}
}
