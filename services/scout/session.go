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
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrashid13/nfl-draft-scout-ai/services/llm"
)

// Session holds one conversation's ordered message history.
//
// Description:
//
//	The history is the full transcript sent to the model on every turn:
//	user turns, assistant turns (including tool calls), and tool-result
//	turns. A turn in flight holds the session lock for its whole
//	duration, so the interleaving invariant (assistant tool_use turn
//	immediately followed by its tool-result turn) cannot be broken by a
//	concurrent writer.
//
// Thread Safety: All access goes through Lock/Unlock; the orchestration
// loop is the only writer while a turn is in flight.
type Session struct {
	ID string

	mu       sync.Mutex
	history  []llm.ChatMessage
	lastUsed time.Time
}

// Lock acquires exclusive use of the session for one chat turn.
func (s *Session) Lock() {
	s.mu.Lock()
	s.lastUsed = time.Now()
}

// Unlock releases the session.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// History returns the transcript. Callers must hold the session lock.
func (s *Session) History() []llm.ChatMessage {
	return s.history
}

// Append adds messages to the transcript. Callers must hold the lock.
func (s *Session) Append(msgs ...llm.ChatMessage) {
	s.history = append(s.history, msgs...)
}

// Truncate drops every message appended at or after index n. The
// orchestration loop uses it to roll back a turn whose model call
// failed, so a half-completed turn never pollutes the transcript.
func (s *Session) Truncate(n int) {
	if n >= 0 && n <= len(s.history) {
		s.history = s.history[:n]
	}
}

// SessionManager owns the live sessions.
//
// Thread Safety: SessionManager is safe for concurrent use. The manager
// lock only guards the session map; per-session locks serialize turns.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Acquire returns the session for id, creating it when id is empty or
// unknown. A fresh session gets a generated short ID.
func (m *SessionManager) Acquire(id string) *Session {
	if id != "" {
		m.mu.RLock()
		s, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			return s
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		id = shortuuid.New()
	}
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := &Session{ID: id, lastUsed: time.Now()}
	m.sessions[id] = s
	return s
}

// Reset clears a session's history. Reports whether the session existed.
// The session object survives so an in-flight turn on it finishes
// against a transcript it still owns; the cleared history takes effect
// on the next turn.
func (m *SessionManager) Reset(id string) bool {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	s.Lock()
	s.history = nil
	s.Unlock()
	return true
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepIdle removes sessions that have been idle for longer than maxIdle.
//
// Description:
//
//	Walks the session map and drops entries whose last use is older than
//	the cutoff. A session whose lock is held has a turn in flight and is
//	skipped regardless of its timestamp. Without the sweep the map grows
//	for the life of the process, one entry per abandoned conversation.
//
// Outputs:
//   - int: The number of sessions removed.
func (m *SessionManager) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
