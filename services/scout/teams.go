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
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// TeamNeed is one positional need with its priority and context.
type TeamNeed struct {
	Position string `json:"position"`
	Priority string `json:"priority"`
	Context  string `json:"context"`
}

// TeamRecord is the normalized per-team entry served by the team info tool.
//
// Draft picks are strings because a team can hold zero picks ("NONE"),
// one pick ("15"), or several in a round ("13, 29"). The model reads
// them verbatim.
type TeamRecord struct {
	TeamName        string     `json:"team_name"`
	Record          string     `json:"record"`
	Tier            string     `json:"tier"`
	KeyContext      string     `json:"key_context"`
	DraftPickRound1 string     `json:"draft_pick_round_1"`
	DraftPickRound2 string     `json:"draft_pick_round_2"`
	DraftPickRound3 string     `json:"draft_pick_round_3"`
	BiggestNeeds    []TeamNeed `json:"biggest_needs"`
}

// TeamInfo is the payload the team info tool returns for one team.
type TeamInfo struct {
	TeamName   string     `json:"team_name"`
	DraftPick  string     `json:"draft_pick"`
	Record     string     `json:"record"`
	Tier       string     `json:"tier"`
	KeyContext string     `json:"key_context"`
	Needs      []TeamNeed `json:"needs"`
}

// TeamDirectory is the in-memory directory of team draft context, keyed
// by canonical team code.
//
// Thread Safety: TeamDirectory is immutable after construction and safe
// for concurrent reads.
type TeamDirectory struct {
	teams map[string]TeamRecord
}

// flatTeamsFile is the legacy needs-file shape: a top-level "teams" map
// already keyed by code with normalized entries.
type flatTeamsFile struct {
	Teams map[string]flatTeamEntry `json:"teams"`
}

type flatTeamEntry struct {
	TeamName        string     `json:"team_name"`
	Record          string     `json:"record"`
	Tier            string     `json:"tier"`
	KeyContext      string     `json:"key_context"`
	DraftPickRound1 string     `json:"draft_pick_round_1"`
	DraftPickRound2 string     `json:"draft_pick_round_2"`
	DraftPickRound3 string     `json:"draft_pick_round_3"`
	BiggestNeeds    []TeamNeed `json:"biggest_needs"`
}

// nestedTeamsFile is the current needs-file shape: a draft-year wrapper
// holding a teams array with season context and draft capital.
type nestedTeamsFile struct {
	Draft *struct {
		Teams []nestedTeamEntry `json:"teams"`
	} `json:"nfl_teams_2026_draft"`
}

type nestedTeamEntry struct {
	TeamCode       string `json:"team_code"`
	TeamName       string `json:"team_name"`
	TeamTier       string `json:"team_tier"`
	TeamPhilosophy string `json:"team_philosophy"`
	SeasonContext  struct {
		Record string `json:"record"`
	} `json:"season_context"`
	DraftCapital struct {
		Round1 draftRound `json:"round_1"`
		Round2 draftRound `json:"round_2"`
		Round3 draftRound `json:"round_3"`
	} `json:"draft_capital"`
	PositionalNeeds []TeamNeed `json:"positional_needs"`
}

// draftRound holds one round's pick entry. Pick is raw JSON because the
// source data mixes integers ("pick": 15), strings ("13, 29", "NONE"),
// and nulls.
type draftRound struct {
	Pick json.RawMessage `json:"pick"`
}

// LoadTeamDirectory reads and normalizes a team needs file.
//
// Description:
//
//	Accepts either needs-file shape. The nested draft-year form is
//	flattened into TeamRecord entries; the flat form is taken as-is.
//	A file matching neither shape is a configuration error.
//
// Inputs:
//   - path: Path to the team needs JSON file.
//
// Outputs:
//   - *TeamDirectory: The loaded directory.
//   - error: Non-nil on read, parse, or shape failure.
func LoadTeamDirectory(path string) (*TeamDirectory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scout: reading team needs file: %w", err)
	}

	var nested nestedTeamsFile
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Draft != nil {
		teams := make(map[string]TeamRecord, len(nested.Draft.Teams))
		for _, entry := range nested.Draft.Teams {
			record := entry.SeasonContext.Record
			if record == "" {
				record = "N/A"
			}
			tier := entry.TeamTier
			if tier == "" {
				tier = "N/A"
			}
			teams[entry.TeamCode] = TeamRecord{
				TeamName:        entry.TeamName,
				Record:          record,
				Tier:            tier,
				KeyContext:      entry.TeamPhilosophy,
				DraftPickRound1: extractPick(entry.DraftCapital.Round1),
				DraftPickRound2: extractPick(entry.DraftCapital.Round2),
				DraftPickRound3: extractPick(entry.DraftCapital.Round3),
				BiggestNeeds:    entry.PositionalNeeds,
			}
		}
		slog.Info("Loaded team directory", slog.Int("teams", len(teams)), slog.String("path", path))
		return &TeamDirectory{teams: teams}, nil
	}

	var flat flatTeamsFile
	if err := json.Unmarshal(raw, &flat); err == nil && flat.Teams != nil {
		teams := make(map[string]TeamRecord, len(flat.Teams))
		for code, entry := range flat.Teams {
			teams[code] = TeamRecord{
				TeamName:        entry.TeamName,
				Record:          orDefault(entry.Record, "N/A"),
				Tier:            orDefault(entry.Tier, "N/A"),
				KeyContext:      entry.KeyContext,
				DraftPickRound1: orDefault(entry.DraftPickRound1, "N/A"),
				DraftPickRound2: orDefault(entry.DraftPickRound2, "N/A"),
				DraftPickRound3: orDefault(entry.DraftPickRound3, "N/A"),
				BiggestNeeds:    entry.BiggestNeeds,
			}
		}
		slog.Info("Loaded team directory", slog.Int("teams", len(teams)), slog.String("path", path))
		return &TeamDirectory{teams: teams}, nil
	}

	return nil, fmt.Errorf("scout: team needs file %s matches no known structure", path)
}

// extractPick normalizes one round's pick entry to display text.
// Integers become their decimal form, strings pass through ("13, 29",
// "NONE"), and anything absent or null becomes "N/A".
func extractPick(round draftRound) string {
	if len(round.Pick) == 0 || string(round.Pick) == "null" {
		return "N/A"
	}

	var n int
	if err := json.Unmarshal(round.Pick, &n); err == nil {
		return strconv.Itoa(n)
	}

	var s string
	if err := json.Unmarshal(round.Pick, &s); err == nil {
		return s
	}

	return string(round.Pick)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Len returns the number of teams in the directory.
func (d *TeamDirectory) Len() int {
	return len(d.teams)
}

// Has reports whether a canonical code exists in the directory.
func (d *TeamDirectory) Has(code string) bool {
	_, ok := d.teams[code]
	return ok
}

// Lookup resolves a free-text team reference and returns its tool payload.
//
// Outputs:
//   - TeamInfo: The team's pick, needs, and context.
//   - bool: False when the reference resolves to no directory entry.
func (d *TeamDirectory) Lookup(name string) (TeamInfo, bool) {
	code, ok := ResolveTeamCode(name, d.Has)
	if !ok || !d.Has(code) {
		return TeamInfo{}, false
	}

	team := d.teams[code]
	needs := team.BiggestNeeds
	if needs == nil {
		needs = []TeamNeed{}
	}
	return TeamInfo{
		TeamName:   team.TeamName,
		DraftPick:  team.DraftPickRound1,
		Record:     team.Record,
		Tier:       team.Tier,
		KeyContext: team.KeyContext,
		Needs:      needs,
	}, true
}
