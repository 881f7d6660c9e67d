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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hrashid13/nfl-draft-scout-ai/services/llm"
)

const scoutTracerName = "scout"

const (
	// defaultMaxToolRounds bounds the tool round trips within one chat
	// turn. A model that keeps requesting tools past this ceiling is
	// looping, not researching; the turn fails rather than burn tokens.
	defaultMaxToolRounds = 8

	// defaultCallTimeout bounds each individual model API call.
	defaultCallTimeout = 90 * time.Second
)

// ErrToolRoundLimit reports a chat turn that exhausted its tool rounds
// without the model producing a final text answer.
var ErrToolRoundLimit = errors.New("scout: tool round limit reached without a final answer")

// ModelClient is the model API surface the orchestration loop needs.
type ModelClient interface {
	ChatWithTools(ctx context.Context, messages []llm.ChatMessage,
		params llm.GenerationParams, tools []llm.ToolDef) (*llm.ChatWithToolsResult, error)
	Model() string
}

// Scout runs the guided retrieval loop: the model decides which tools
// to call, the registry executes them, and the model answers from the
// retrieved data alone.
//
// Thread Safety: Scout is safe for concurrent use. Concurrent turns on
// the same session serialize on the session lock.
type Scout struct {
	model         ModelClient
	registry      *ToolRegistry
	sessions      *SessionManager
	maxToolRounds int
	callTimeout   time.Duration
}

// NewScout creates a Scout with default round and timeout bounds.
func NewScout(model ModelClient, registry *ToolRegistry, sessions *SessionManager) *Scout {
	return &Scout{
		model:         model,
		registry:      registry,
		sessions:      sessions,
		maxToolRounds: defaultMaxToolRounds,
		callTimeout:   defaultCallTimeout,
	}
}

// Chat runs one full chat turn against a session.
//
// Description:
//
//	Appends the user message, then alternates model calls and tool
//	dispatches until the model stops requesting tools. Each round the
//	assistant turn (with its tool_use calls) and a single tool-result
//	turn carrying every result are appended as a pair, keeping the
//	transcript in the shape the Messages API requires. A model call
//	failure rolls the transcript back to the turn boundary so the
//	session stays replayable.
//
// Inputs:
//   - ctx: Context for cancellation; each model call additionally gets
//     its own deadline.
//   - sessionID: Session to continue. Empty creates a new session.
//   - userMessage: The user's question.
//
// Outputs:
//   - string: The model's final text answer.
//   - string: The session ID (generated when sessionID was empty).
//   - error: Non-nil on model failure or round exhaustion.
func (s *Scout) Chat(ctx context.Context, sessionID, userMessage string) (string, string, error) {
	ctx, span := otel.Tracer(scoutTracerName).Start(ctx, "scout.Chat")
	defer span.End()

	sess := s.sessions.Acquire(sessionID)
	span.SetAttributes(attribute.String("session_id", sess.ID))

	sess.Lock()
	defer sess.Unlock()

	mark := len(sess.History())
	sess.Append(llm.ChatMessage{Role: "user", Content: userMessage})

	tools := s.registry.Specs()

	for round := 0; round <= s.maxToolRounds; round++ {
		result, err := s.callModel(ctx, sess.History(), tools)
		if err != nil {
			sess.Truncate(mark)
			chatRequestsTotal.WithLabelValues("model_error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "model call failed")
			return "", sess.ID, err
		}

		if result.StopReason != "tool_use" {
			sess.Append(llm.ChatMessage{Role: "assistant", Content: result.Content})
			chatRequestsTotal.WithLabelValues("ok").Inc()
			toolRoundsPerChat.Observe(float64(round))
			span.SetAttributes(attribute.Int("tool_rounds", round))
			slog.Info("Chat turn completed",
				slog.String("session_id", sess.ID),
				slog.Int("tool_rounds", round),
				slog.Int("answer_length", len(result.Content)),
			)
			return result.Content, sess.ID, nil
		}

		calls := normalizeCallIDs(result.ToolCalls)
		sess.Append(llm.ChatMessage{
			Role:      "assistant",
			Content:   result.Content,
			ToolCalls: calls,
		})

		results := make([]llm.ToolResult, 0, len(calls))
		for _, call := range calls {
			slog.Debug("Dispatching tool",
				slog.String("session_id", sess.ID),
				slog.String("tool", call.Name),
			)
			// ArgumentsString unwraps arguments the model emitted as a
			// quoted JSON string instead of an object.
			results = append(results, llm.ToolResult{
				ToolCallID: call.ID,
				Content:    s.registry.Dispatch(ctx, call.Name, json.RawMessage(call.ArgumentsString())),
			})
		}
		sess.Append(llm.ChatMessage{Role: "tool", ToolResults: results})
	}

	sess.Truncate(mark)
	chatRequestsTotal.WithLabelValues("round_limit").Inc()
	span.SetStatus(codes.Error, "tool round limit")
	return "", sess.ID, fmt.Errorf("%w (limit %d)", ErrToolRoundLimit, s.maxToolRounds)
}

// Reset clears a session's history. Reports whether the session existed.
func (s *Scout) Reset(sessionID string) bool {
	return s.sessions.Reset(sessionID)
}

// ModelName returns the configured model identifier.
func (s *Scout) ModelName() string {
	return s.model.Model()
}

// SessionCount returns the number of live sessions.
func (s *Scout) SessionCount() int {
	return s.sessions.Len()
}

func (s *Scout) callModel(ctx context.Context, history []llm.ChatMessage,
	tools []llm.ToolDef) (*llm.ChatWithToolsResult, error) {

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.model.ChatWithTools(callCtx, messages, llm.GenerationParams{}, tools)
	modelLatencySeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("scout: model call: %w", err)
	}
	return result, nil
}

// normalizeCallIDs fills in a synthetic correlation ID for any tool call
// the model emitted without one. The same ID lands in both the recorded
// assistant turn and the paired tool result.
func normalizeCallIDs(calls []llm.ToolCallResponse) []llm.ToolCallResponse {
	out := make([]llm.ToolCallResponse, len(calls))
	copy(out, calls)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = "call_" + uuid.NewString()
		}
	}
	return out
}
