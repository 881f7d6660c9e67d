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
	"fmt"
	"log/slog"

	"github.com/hrashid13/nfl-draft-scout-ai/services/llm"
)

const (
	toolGetTeamInfo  = "get_team_info"
	toolGetProspects = "get_prospects_by_position_and_rank"
	toolGetPlayer    = "get_player_info"
)

// ToolRegistry maps the model-facing tool schedule onto the retrieval
// gateway and team directory.
//
// Description:
//
//	Specs produces the tool definitions sent with every model call.
//	Dispatch executes one requested call and always yields a serialized
//	JSON payload: domain misses and bad arguments become {"error": ...}
//	markers for the model to read, never Go errors. The orchestration
//	loop therefore treats every dispatch as answerable.
//
// Thread Safety: ToolRegistry is safe for concurrent use.
type ToolRegistry struct {
	gateway  *Gateway
	registry *TeamDirectory
}

// NewToolRegistry creates a ToolRegistry over the gateway and directory.
func NewToolRegistry(gateway *Gateway, teams *TeamDirectory) *ToolRegistry {
	return &ToolRegistry{gateway: gateway, registry: teams}
}

// Specs returns the tool schedule advertised to the model.
func (r *ToolRegistry) Specs() []llm.ToolDef {
	return []llm.ToolDef{
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        toolGetTeamInfo,
				Description: "Get a team's draft pick, needs, and context. Use this whenever a team is mentioned.",
				Parameters: llm.ToolParameters{
					Type: "object",
					Properties: map[string]llm.ToolParamDef{
						"team_name": {
							Type:        "string",
							Description: "Team name or abbreviation (e.g., 'Buccaneers', 'TB', 'Bucs')",
						},
					},
					Required: []string{"team_name"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        toolGetProspects,
				Description: "Get prospects at a specific position within a rank range. Use this to find prospects that match team needs at their draft position.",
				Parameters: llm.ToolParameters{
					Type: "object",
					Properties: map[string]llm.ToolParamDef{
						"position": {
							Type:        "string",
							Description: "Position code (QB, RB, WR, TE, OT, OG, OC, EDGE, CB, S, ILB, DL3T)",
						},
						"min_rank": {
							Type:        "integer",
							Description: "Minimum consensus rank (lower = better)",
						},
						"max_rank": {
							Type:        "integer",
							Description: "Maximum consensus rank",
						},
						"limit": {
							Type:        "integer",
							Description: "Max number of results (default 10)",
							Default:     10,
						},
					},
					Required: []string{"position", "min_rank", "max_rank"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        toolGetPlayer,
				Description: "Get detailed information about a specific player by name.",
				Parameters: llm.ToolParameters{
					Type: "object",
					Properties: map[string]llm.ToolParamDef{
						"player_name": {
							Type:        "string",
							Description: "Player's name (e.g., 'Fernando Mendoza', 'Jeremiyah Love')",
						},
					},
					Required: []string{"player_name"},
				},
			},
		},
	}
}

// Dispatch executes one tool call and returns its serialized payload.
//
// Description:
//
//	Routes by name, validates arguments, and runs the matching gateway
//	or directory operation. Every failure path returns a JSON error
//	marker as the payload; the returned string is always valid JSON.
//
// Inputs:
//   - ctx: Context for cancellation and timeout.
//   - name: Tool name as requested by the model.
//   - args: Raw JSON arguments from the tool_use block.
//
// Outputs:
//   - string: The serialized tool result or error marker.
func (r *ToolRegistry) Dispatch(ctx context.Context, name string, args json.RawMessage) string {
	payload, outcome := r.dispatch(ctx, name, args)
	toolDispatchesTotal.WithLabelValues(name, outcome).Inc()

	out, err := json.Marshal(payload)
	if err != nil {
		// Unreachable for the payload types above, but never hand the
		// model an empty result.
		slog.Error("Failed to serialize tool payload", slog.String("tool", name), slog.String("error", err.Error()))
		return `{"error": "internal serialization failure"}`
	}
	return string(out)
}

func (r *ToolRegistry) dispatch(ctx context.Context, name string, args json.RawMessage) (interface{}, string) {
	switch name {
	case toolGetTeamInfo:
		var in struct {
			TeamName string `json:"team_name"`
		}
		if err := json.Unmarshal(args, &in); err != nil || in.TeamName == "" {
			return errorPayload("Missing required field 'team_name'"), "bad_args"
		}
		info, ok := r.registry.Lookup(in.TeamName)
		if !ok {
			return errorPayload(fmt.Sprintf("Team '%s' not found", in.TeamName)), "miss"
		}
		return info, "ok"

	case toolGetProspects:
		var in struct {
			Position string   `json:"position"`
			MinRank  *float64 `json:"min_rank"`
			MaxRank  *float64 `json:"max_rank"`
			Limit    int      `json:"limit"`
		}
		if err := json.Unmarshal(args, &in); err != nil || in.Position == "" || in.MinRank == nil || in.MaxRank == nil {
			return errorPayload("Missing required field: position, min_rank, and max_rank are required"), "bad_args"
		}
		prospects, err := r.gateway.ProspectsByPositionAndRank(ctx, in.Position, *in.MinRank, *in.MaxRank, in.Limit)
		if err != nil {
			slog.Error("Prospect query failed", slog.String("position", in.Position), slog.String("error", err.Error()))
			return errorPayload("Prospect database query failed"), "error"
		}
		return struct {
			Prospects []Prospect `json:"prospects"`
		}{Prospects: prospects}, "ok"

	case toolGetPlayer:
		var in struct {
			PlayerName string `json:"player_name"`
		}
		if err := json.Unmarshal(args, &in); err != nil || in.PlayerName == "" {
			return errorPayload("Missing required field 'player_name'"), "bad_args"
		}
		player, found, err := r.gateway.Player(ctx, in.PlayerName)
		if err != nil {
			slog.Error("Player query failed", slog.String("player", in.PlayerName), slog.String("error", err.Error()))
			return errorPayload("Player database query failed"), "error"
		}
		if !found {
			return errorPayload(fmt.Sprintf("Player '%s' not found", in.PlayerName)), "miss"
		}
		return player, "ok"
	}

	return errorPayload("Unknown tool"), "unknown"
}

func errorPayload(msg string) map[string]string {
	return map[string]string{"error": msg}
}
