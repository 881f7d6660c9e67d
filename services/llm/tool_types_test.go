// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"encoding/json"
	"testing"
)

func TestToolCallResponse_ArgumentsString(t *testing.T) {
	tests := []struct {
		name string
		args json.RawMessage
		want string
	}{
		{"nil arguments", nil, "{}"},
		{"empty arguments", json.RawMessage{}, "{}"},
		{"object passthrough", json.RawMessage(`{"team_name":"Bucs"}`), `{"team_name":"Bucs"}`},
		{"quoted string unwrapped", json.RawMessage(`"{\"a\":1}"`), `{"a":1}`},
		{"array passthrough", json.RawMessage(`[1,2]`), `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := ToolCallResponse{ID: "toolu_1", Name: "test", Arguments: tt.args}
			if got := tc.ArgumentsString(); got != tt.want {
				t.Errorf("ArgumentsString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToolDef_MarshalsRequiredAndDefaults(t *testing.T) {
	def := ToolDef{
		Type: "function",
		Function: ToolFunction{
			Name:        "get_prospects_by_position_and_rank",
			Description: "Get prospects at a position within a rank range.",
			Parameters: ToolParameters{
				Type: "object",
				Properties: map[string]ToolParamDef{
					"position": {Type: "string", Description: "Position code"},
					"limit":    {Type: "integer", Description: "Max results", Default: 10},
				},
				Required: []string{"position"},
			},
		},
	}

	data, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var round map[string]any
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	fn, ok := round["function"].(map[string]any)
	if !ok {
		t.Fatal("missing function object")
	}
	params, ok := fn["parameters"].(map[string]any)
	if !ok {
		t.Fatal("missing parameters object")
	}
	req, ok := params["required"].([]any)
	if !ok || len(req) != 1 || req[0] != "position" {
		t.Errorf("required = %v, want [position]", params["required"])
	}
}
