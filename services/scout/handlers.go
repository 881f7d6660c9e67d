// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ChatService is the chatbot surface the HTTP handlers need.
type ChatService interface {
	Chat(ctx context.Context, sessionID, userMessage string) (string, string, error)
	Reset(sessionID string) bool
	ModelName() string
	SessionCount() int
}

// DataService is the datastore surface the health and status handlers need.
type DataService interface {
	Count(ctx context.Context) (int, error)
	Ready(ctx context.Context) bool
}

// Handlers holds the HTTP handlers for the scouting API.
//
// Thread Safety: Handlers is safe for concurrent use.
type Handlers struct {
	chat ChatService
	data DataService
}

// NewHandlers creates the handlers over the chat and data services.
func NewHandlers(chat ChatService, data DataService) *Handlers {
	return &Handlers{chat: chat, data: data}
}

// ChatRequest is the POST /api/chat request body.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the POST /api/chat response body.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ResetRequest is the POST /api/reset request body.
type ResetRequest struct {
	SessionID string `json:"session_id"`
}

// ErrorResponse is the error body for all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleChat handles POST /api/chat.
//
// Description:
//
//	Runs one chat turn. An absent session_id starts a new session; the
//	response always carries the session ID so the client can continue
//	the conversation.
//
// Response:
//
//	200 OK: ChatResponse
//	400 Bad Request: Missing "message" field
//	500 Internal Server Error: Model failure or tool round exhaustion
func (h *Handlers) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: `Missing "message" field in request body`,
		})
		return
	}

	answer, sessionID, err := h.chat.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		slog.Error("Chat turn failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		status := http.StatusInternalServerError
		if errors.Is(err, ErrToolRoundLimit) {
			// The session is intact; the client can simply retry.
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponse{Error: "An error occurred: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:  answer,
		SessionID: sessionID,
	})
}

// HandleReset handles POST /api/reset.
//
// Description:
//
//	Clears a session's conversation history. Resetting an unknown or
//	absent session is a no-op success so stale clients never error out.
func (h *Handlers) HandleReset(c *gin.Context) {
	var req ResetRequest
	_ = c.ShouldBindJSON(&req)

	if req.SessionID != "" {
		h.chat.Reset(req.SessionID)
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Conversation history reset successfully",
	})
}

// HandleHealth handles GET /api/health.
//
// Description:
//
//	Reports datastore reachability, record count, and API key presence.
//	Returns 503 when the datastore is unreachable; monitoring keys off
//	the status code.
func (h *Handlers) HandleHealth(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.data.Ready(ctx) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"datastore": "unreachable",
		})
		return
	}

	count, err := h.data.Count(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"datastore": "error",
			"error":     err.Error(),
		})
		return
	}

	apiKey := "missing"
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		apiKey = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"datastore":         "connected",
		"prospects":         count,
		"anthropic_api_key": apiKey,
	})
}

// HandleStatus handles GET /api/status.
func (h *Handlers) HandleStatus(c *gin.Context) {
	count, err := h.data.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "online",
		"service":          "NFL Draft Scout API",
		"model":            h.chat.ModelName(),
		"prospects_loaded": count,
		"active_sessions":  h.chat.SessionCount(),
		"endpoints": gin.H{
			"POST /api/chat":   "Send a question about draft prospects",
			"POST /api/reset":  "Reset conversation history",
			"GET /api/health":  "Health check",
			"GET /api/status":  "API status (this endpoint)",
			"GET /api/metrics": "Prometheus metrics",
		},
	})
}
