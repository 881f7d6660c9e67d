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
	"testing"

	"github.com/hrashid13/nfl-draft-scout-ai/services/scout/store"
)

func testRegistry(t *testing.T, fake *fakeStore) *ToolRegistry {
	t.Helper()
	dir, err := LoadTeamDirectory(writeNeedsFile(t, flatNeedsJSON))
	if err != nil {
		t.Fatal(err)
	}
	return NewToolRegistry(NewGateway(fake), dir)
}

func emptyFakeStore() *fakeStore {
	return &fakeStore{
		searchFunc: func(_ context.Context, _ store.SearchQuery) ([]store.Record, error) {
			return nil, nil
		},
	}
}

func decodePayload(t *testing.T, payload string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		t.Fatalf("dispatch payload is not valid JSON: %v (%s)", err, payload)
	}
	return out
}

func TestSpecsDeclareThreeTools(t *testing.T) {
	specs := testRegistry(t, emptyFakeStore()).Specs()
	if len(specs) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(specs))
	}

	byName := map[string]bool{}
	for _, spec := range specs {
		byName[spec.Function.Name] = true
		if spec.Function.Parameters.Type != "object" {
			t.Errorf("tool %s: expected object schema", spec.Function.Name)
		}
	}
	for _, name := range []string{toolGetTeamInfo, toolGetProspects, toolGetPlayer} {
		if !byName[name] {
			t.Errorf("missing tool %s", name)
		}
	}
}

func TestSpecsProspectsRequiredAndDefault(t *testing.T) {
	for _, spec := range testRegistry(t, emptyFakeStore()).Specs() {
		if spec.Function.Name != toolGetProspects {
			continue
		}
		required := spec.Function.Parameters.Required
		if len(required) != 3 {
			t.Errorf("expected 3 required params, got %v", required)
		}
		limit, ok := spec.Function.Parameters.Properties["limit"]
		if !ok || limit.Default != 10 {
			t.Errorf("expected limit default 10, got %+v", limit)
		}
		return
	}
	t.Fatal("prospects tool not found")
}

func TestDispatchUnknownTool(t *testing.T) {
	payload := testRegistry(t, emptyFakeStore()).Dispatch(context.Background(), "delete_everything", json.RawMessage(`{}`))
	out := decodePayload(t, payload)
	if out["error"] != "Unknown tool" {
		t.Errorf("expected unknown tool marker, got %v", out)
	}
}

func TestDispatchTeamInfo(t *testing.T) {
	reg := testRegistry(t, emptyFakeStore())

	payload := reg.Dispatch(context.Background(), toolGetTeamInfo, json.RawMessage(`{"team_name": "Bills"}`))
	out := decodePayload(t, payload)
	if out["team_name"] != "Buffalo Bills" {
		t.Errorf("expected Buffalo Bills, got %v", out)
	}
	if out["draft_pick"] != "28" {
		t.Errorf("expected draft pick 28, got %v", out["draft_pick"])
	}

	payload = reg.Dispatch(context.Background(), toolGetTeamInfo, json.RawMessage(`{"team_name": "Raiders"}`))
	out = decodePayload(t, payload)
	if out["error"] != "Team 'Raiders' not found" {
		t.Errorf("expected not-found marker, got %v", out)
	}

	payload = reg.Dispatch(context.Background(), toolGetTeamInfo, json.RawMessage(`{}`))
	out = decodePayload(t, payload)
	if out["error"] == nil {
		t.Errorf("expected missing-field marker, got %v", out)
	}
}

func TestDispatchProspects(t *testing.T) {
	fake := &fakeStore{
		searchFunc: func(_ context.Context, _ store.SearchQuery) ([]store.Record, error) {
			return []store.Record{prospectRecord("Top Ranked", "5")}, nil
		},
	}
	reg := testRegistry(t, fake)

	payload := reg.Dispatch(context.Background(), toolGetProspects,
		json.RawMessage(`{"position": "EDGE", "min_rank": 1, "max_rank": 50}`))
	out := decodePayload(t, payload)
	prospects, ok := out["prospects"].([]interface{})
	if !ok || len(prospects) != 1 {
		t.Fatalf("expected 1 prospect, got %v", out)
	}
}

func TestDispatchProspectsEmptyIsArray(t *testing.T) {
	payload := testRegistry(t, emptyFakeStore()).Dispatch(context.Background(), toolGetProspects,
		json.RawMessage(`{"position": "EDGE", "min_rank": 1, "max_rank": 50}`))
	out := decodePayload(t, payload)
	prospects, ok := out["prospects"].([]interface{})
	if !ok {
		t.Fatalf("expected empty result to serialize as array, got %s", payload)
	}
	if len(prospects) != 0 {
		t.Errorf("expected empty array, got %v", prospects)
	}
}

func TestDispatchProspectsMissingArgs(t *testing.T) {
	reg := testRegistry(t, emptyFakeStore())
	cases := []string{
		`{}`,
		`{"position": "EDGE"}`,
		`{"position": "EDGE", "min_rank": 1}`,
		`{"min_rank": 1, "max_rank": 50}`,
		`not json`,
	}
	for _, args := range cases {
		out := decodePayload(t, reg.Dispatch(context.Background(), toolGetProspects, json.RawMessage(args)))
		if out["error"] == nil {
			t.Errorf("args %s: expected error marker, got %v", args, out)
		}
	}
}

func TestDispatchPlayer(t *testing.T) {
	fake := &fakeStore{
		searchFunc: func(_ context.Context, _ store.SearchQuery) ([]store.Record, error) {
			return []store.Record{{Name: "Fernando Mendoza", Position: "QB", ConsensusRank: "3"}}, nil
		},
	}
	reg := testRegistry(t, fake)

	out := decodePayload(t, reg.Dispatch(context.Background(), toolGetPlayer,
		json.RawMessage(`{"player_name": "Fernando Mendoza"}`)))
	if out["name"] != "Fernando Mendoza" {
		t.Errorf("expected player payload, got %v", out)
	}

	out = decodePayload(t, reg.Dispatch(context.Background(), toolGetPlayer,
		json.RawMessage(`{"player_name": "Nobody Here"}`)))
	if out["error"] != "Player 'Nobody Here' not found" {
		t.Errorf("expected not-found marker, got %v", out)
	}
}

func TestDispatchStoreErrorBecomesPayload(t *testing.T) {
	fake := &fakeStore{
		searchFunc: func(_ context.Context, _ store.SearchQuery) ([]store.Record, error) {
			return nil, context.DeadlineExceeded
		},
	}
	reg := testRegistry(t, fake)

	out := decodePayload(t, reg.Dispatch(context.Background(), toolGetProspects,
		json.RawMessage(`{"position": "EDGE", "min_rank": 1, "max_rank": 50}`)))
	if out["error"] == nil {
		t.Errorf("expected datastore failure to surface as error marker, got %v", out)
	}
}
