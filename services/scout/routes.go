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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RegisterRoutes registers the scouting API with the router group.
//
// Description:
//
//	Registers all /api/* endpoints. The limiter, when non-nil, throttles
//	the chat endpoint only; health and status stay unthrottled so
//	monitoring keeps working under load.
//
// Endpoints:
//
//	POST /api/chat - Send a question about draft prospects
//	POST /api/reset - Reset conversation history
//	GET  /api/health - Health check
//	GET  /api/status - API status
//	GET  /api/metrics - Prometheus metrics
//
// Inputs:
//
//	rg - Gin router group (typically the engine root)
//	handlers - The handlers instance
//	limiter - Optional rate limiter for the chat endpoint. Can be nil.
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers, limiter *rate.Limiter) {
	api := rg.Group("/api")
	{
		if limiter != nil {
			api.POST("/chat", RateLimitMiddleware(limiter), handlers.HandleChat)
		} else {
			api.POST("/chat", handlers.HandleChat)
		}

		api.POST("/reset", handlers.HandleReset)

		api.GET("/health", handlers.HandleHealth)
		api.GET("/status", handlers.HandleStatus)

		api.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// RateLimitMiddleware rejects requests above the configured rate with
// 429. The limiter is shared across all clients; the chat endpoint
// fronts a metered model API, so a global budget is the point.
func RateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Rate limit exceeded, slow down",
			})
			return
		}
		c.Next()
	}
}
