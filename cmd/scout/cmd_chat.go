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
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat against a running scout server",
	Run:   runChatCommand,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Error     string `json:"error,omitempty"`
}

// getScoutBaseURL resolves the server address for the CLI client.
func getScoutBaseURL() string {
	if url := os.Getenv("SCOUT_API_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return "http://localhost:8080"
}

func runChatCommand(_ *cobra.Command, _ []string) {
	baseURL := getScoutBaseURL()
	client := &http.Client{Timeout: 5 * time.Minute}

	fmt.Println("NFL Draft Scout")
	fmt.Printf("Connected to %s\n", baseURL)
	fmt.Println("Ask about teams, prospects, or players. Type 'reset' to clear the conversation, 'quit' to exit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	sessionID := ""

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" || input == "q" {
			fmt.Println("Goodbye.")
			break
		}
		if input == "reset" {
			if err := sendReset(client, baseURL, sessionID); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			sessionID = ""
			fmt.Println("Conversation cleared.")
			continue
		}

		answer, sid, err := sendChat(client, baseURL, sessionID, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		sessionID = sid
		fmt.Printf("\nScout: %s\n\n", answer)
	}
}

func sendChat(client *http.Client, baseURL, sessionID, message string) (string, string, error) {
	payload, err := json.Marshal(chatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return "", "", err
	}

	resp, err := client.Post(baseURL+"/api/chat", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return "", "", fmt.Errorf("scout server unavailable at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", "", fmt.Errorf("malformed server response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", "", fmt.Errorf("server error (HTTP %d): %s", resp.StatusCode, out.Error)
		}
		return "", "", fmt.Errorf("server error (HTTP %d)", resp.StatusCode)
	}
	return out.Response, out.SessionID, nil
}

func sendReset(client *http.Client, baseURL, sessionID string) error {
	payload, _ := json.Marshal(map[string]string{"session_id": sessionID})
	resp, err := client.Post(baseURL+"/api/reset", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("scout server unavailable at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reset failed (HTTP %d)", resp.StatusCode)
	}
	return nil
}
