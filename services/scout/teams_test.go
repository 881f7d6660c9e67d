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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeNeedsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "needs.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const nestedNeedsJSON = `{
  "nfl_teams_2026_draft": {
    "teams": [
      {
        "team_code": "TB",
        "team_name": "Tampa Bay Buccaneers",
        "team_tier": "contender",
        "team_philosophy": "Best player available, retool the front seven",
        "season_context": {"record": "10-7"},
        "draft_capital": {
          "round_1": {"pick": 15},
          "round_2": {"pick": "13, 29"},
          "round_3": {"pick": null}
        },
        "positional_needs": [
          {"position": "EDGE", "priority": "high", "context": "Pass rush faded late"},
          {"position": "CB", "priority": "medium", "context": "Aging room"}
        ]
      },
      {
        "team_code": "NE",
        "team_name": "New England Patriots",
        "season_context": {},
        "draft_capital": {
          "round_1": {"pick": "NONE"},
          "round_2": {}
        }
      }
    ]
  }
}`

const flatNeedsJSON = `{
  "teams": {
    "BUF": {
      "team_name": "Buffalo Bills",
      "record": "13-4",
      "tier": "contender",
      "key_context": "Win-now window",
      "draft_pick_round_1": "28",
      "biggest_needs": [
        {"position": "WR", "priority": "high", "context": "No true X receiver"}
      ]
    }
  }
}`

func TestLoadTeamDirectoryNestedShape(t *testing.T) {
	dir, err := LoadTeamDirectory(writeNeedsFile(t, nestedNeedsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.Len() != 2 {
		t.Fatalf("expected 2 teams, got %d", dir.Len())
	}

	info, ok := dir.Lookup("TB")
	if !ok {
		t.Fatal("expected TB lookup to succeed")
	}
	if info.TeamName != "Tampa Bay Buccaneers" {
		t.Errorf("unexpected team name: %q", info.TeamName)
	}
	if info.DraftPick != "15" {
		t.Errorf("expected round 1 pick '15', got %q", info.DraftPick)
	}
	if info.Record != "10-7" {
		t.Errorf("unexpected record: %q", info.Record)
	}
	if len(info.Needs) != 2 || info.Needs[0].Position != "EDGE" {
		t.Errorf("unexpected needs: %+v", info.Needs)
	}
}

func TestLoadTeamDirectoryNestedShapeDefaults(t *testing.T) {
	dir, err := LoadTeamDirectory(writeNeedsFile(t, nestedNeedsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, ok := dir.Lookup("patriots")
	if !ok {
		t.Fatal("expected Patriots lookup to succeed")
	}
	if info.DraftPick != "NONE" {
		t.Errorf("expected string pick passthrough 'NONE', got %q", info.DraftPick)
	}
	if info.Record != "N/A" {
		t.Errorf("expected missing record to default to N/A, got %q", info.Record)
	}
	if info.Tier != "N/A" {
		t.Errorf("expected missing tier to default to N/A, got %q", info.Tier)
	}
	if len(info.Needs) != 0 {
		t.Errorf("expected empty needs, got %+v", info.Needs)
	}
}

func TestLoadTeamDirectoryFlatShape(t *testing.T) {
	dir, err := LoadTeamDirectory(writeNeedsFile(t, flatNeedsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, ok := dir.Lookup("the Bills")
	if !ok {
		t.Fatal("expected alias lookup to succeed")
	}
	if info.TeamName != "Buffalo Bills" {
		t.Errorf("unexpected team name: %q", info.TeamName)
	}
	if info.DraftPick != "28" {
		t.Errorf("unexpected pick: %q", info.DraftPick)
	}
	if info.KeyContext != "Win-now window" {
		t.Errorf("unexpected context: %q", info.KeyContext)
	}
}

func TestLoadTeamDirectoryInvalidShape(t *testing.T) {
	if _, err := LoadTeamDirectory(writeNeedsFile(t, `{"something_else": true}`)); err == nil {
		t.Error("expected error for unknown file shape")
	}
	if _, err := LoadTeamDirectory(writeNeedsFile(t, `not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := LoadTeamDirectory(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLookupMiss(t *testing.T) {
	dir, err := LoadTeamDirectory(writeNeedsFile(t, flatNeedsJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := dir.Lookup("Raiders"); ok {
		t.Error("expected miss for team absent from directory")
	}
}

func TestExtractPick(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`{"pick": 15}`, "15"},
		{`{"pick": "13, 29"}`, "13, 29"},
		{`{"pick": "NONE"}`, "NONE"},
		{`{"pick": null}`, "N/A"},
		{`{}`, "N/A"},
	}
	for _, tc := range cases {
		var round draftRound
		if err := json.Unmarshal([]byte(tc.raw), &round); err != nil {
			t.Fatalf("bad fixture %q: %v", tc.raw, err)
		}
		if got := extractPick(round); got != tc.want {
			t.Errorf("extractPick(%s) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
