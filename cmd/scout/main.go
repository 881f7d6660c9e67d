// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command scout runs the NFL draft scouting assistant.
//
// The assistant answers draft questions by letting the model query a
// prospect datastore through tools, so every recommendation is grounded
// in retrieved data instead of model memory.
//
// Usage:
//
//	# Start the API server
//	scout serve
//	scout serve --port 9090 --config config.yaml
//
//	# Interactive chat against a running server
//	scout chat
//	SCOUT_API_URL=http://localhost:9090 scout chat
//
// Example requests:
//
//	curl http://localhost:8080/api/health
//
//	curl -X POST http://localhost:8080/api/chat \
//	  -H "Content-Type: application/json" \
//	  -d '{"message": "Who should the Bucs take in round 1?"}'
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "NFL draft scouting assistant",
	Long: "Guided retrieval draft assistant. The model reads the question, " +
		"queries the prospect datastore through tools, and answers using only " +
		"the retrieved data.",
}

func main() {
	// A missing .env is the normal case in containers; env vars win there.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}

	if os.Getenv("SCOUT_DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
