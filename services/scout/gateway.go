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
	"sort"
	"strconv"
	"strings"

	"github.com/hrashid13/nfl-draft-scout-ai/services/scout/store"
)

// candidatePoolSize is the oversized similarity candidate set requested
// before the local rank-window filter. The datastore ranks by embedding
// similarity, not consensus rank, so a tight limit would drop in-window
// prospects that happen to embed far from the query text.
const candidatePoolSize = 100

// playerSearchLimit caps the candidate set for name lookups.
const playerSearchLimit = 10

// Prospect is one entry in a position/rank query result.
type Prospect struct {
	Name          string                 `json:"name"`
	Position      string                 `json:"position"`
	School        string                 `json:"school"`
	Height        string                 `json:"height"`
	Weight        string                 `json:"weight"`
	ConsensusRank float64                `json:"consensus_rank"`
	Stats         map[string]interface{} `json:"stats"`
}

// PlayerInfo is the detailed payload for a single-player lookup.
// ConsensusRank stays textual here because player records can carry
// "N/A" where no consensus rank exists.
type PlayerInfo struct {
	Name          string                 `json:"name"`
	Position      string                 `json:"position"`
	School        string                 `json:"school"`
	Height        string                 `json:"height"`
	Weight        string                 `json:"weight"`
	ConsensusRank string                 `json:"consensus_rank"`
	Description   string                 `json:"description"`
	Stats         map[string]interface{} `json:"stats"`
}

// Gateway is the retrieval layer between the tool registry and the
// prospect datastore. It owns query shaping, rank-window filtering, and
// the tolerant decoding of per-record stats.
//
// Thread Safety: Gateway is safe for concurrent use; it holds no
// per-request state.
type Gateway struct {
	store store.ProspectStore
}

// NewGateway creates a Gateway over the given datastore.
func NewGateway(s store.ProspectStore) *Gateway {
	return &Gateway{store: s}
}

// ProspectsByPositionAndRank returns prospects at a position inside a
// consensus rank window.
//
// Description:
//
//	Queries an oversized candidate pool filtered to the position and to
//	non-team documents, then filters locally: records without a usable
//	numeric rank are skipped, survivors inside [minRank, maxRank] are
//	sorted ascending by rank and truncated to limit. An empty result is
//	a normal outcome, not an error.
//
// Inputs:
//   - ctx: Context for cancellation and timeout.
//   - position: Position label; aliases are normalized before querying.
//   - minRank, maxRank: Inclusive consensus rank window (lower = better).
//   - limit: Maximum prospects returned. Non-positive means 10.
//
// Outputs:
//   - []Prospect: In-window prospects, best rank first.
//   - error: Non-nil only on datastore failure.
func (g *Gateway) ProspectsByPositionAndRank(ctx context.Context, position string,
	minRank, maxRank float64, limit int) ([]Prospect, error) {

	if limit <= 0 {
		limit = 10
	}
	pos := ResolvePosition(position)

	records, err := g.store.Search(ctx, store.SearchQuery{
		Text:  fmt.Sprintf("%s prospect", pos),
		Limit: candidatePoolSize,
		Equal: []store.Predicate{
			{Field: "position", Value: pos},
		},
		NotEqual: []store.Predicate{
			{Field: "docType", Value: "team_needs"},
		},
	})
	if err != nil {
		return nil, err
	}

	prospects := make([]Prospect, 0, limit)
	for _, rec := range records {
		if rec.ConsensusRank == "" || rec.ConsensusRank == "N/A" {
			continue
		}
		rank, err := strconv.ParseFloat(rec.ConsensusRank, 64)
		if err != nil {
			continue
		}
		if rank < minRank || rank > maxRank {
			continue
		}
		prospects = append(prospects, Prospect{
			Name:          orDefault(rec.Name, "Unknown"),
			Position:      orDefault(rec.Position, "N/A"),
			School:        orDefault(rec.School, "N/A"),
			Height:        orDefault(rec.Height, "N/A"),
			Weight:        orDefault(rec.Weight, "N/A"),
			ConsensusRank: rank,
			Stats:         decodeStats(rec.Stats),
		})
	}

	sort.SliceStable(prospects, func(i, j int) bool {
		return prospects[i].ConsensusRank < prospects[j].ConsensusRank
	})
	if len(prospects) > limit {
		prospects = prospects[:limit]
	}

	slog.Debug("Prospect query completed",
		slog.String("position", pos),
		slog.Int("candidates", len(records)),
		slog.Int("returned", len(prospects)),
	)
	return prospects, nil
}

// Player looks up a single prospect by name.
//
// Description:
//
//	Runs a similarity search on the name, then scans candidates in
//	similarity order for the first whose stored name matches: either the
//	word sets are equal or every search word appears in the stored name.
//	"Mendoza" matches "Fernando Mendoza"; a trailing typo word defeats
//	the subset test and the lookup misses.
//
// Outputs:
//   - *PlayerInfo: The matched player, nil when no candidate matched.
//   - bool: Whether a match was found.
//   - error: Non-nil only on datastore failure.
func (g *Gateway) Player(ctx context.Context, playerName string) (*PlayerInfo, bool, error) {
	records, err := g.store.Search(ctx, store.SearchQuery{
		Text:  playerName,
		Limit: playerSearchLimit,
		NotEqual: []store.Predicate{
			{Field: "docType", Value: "team_needs"},
		},
	})
	if err != nil {
		return nil, false, err
	}

	searchWords := wordSet(playerName)
	for _, rec := range records {
		storedWords := wordSet(rec.Name)
		if !wordsMatch(storedWords, searchWords) {
			continue
		}
		return &PlayerInfo{
			Name:          orDefault(rec.Name, "Unknown"),
			Position:      orDefault(rec.Position, "N/A"),
			School:        orDefault(rec.School, "N/A"),
			Height:        orDefault(rec.Height, "N/A"),
			Weight:        orDefault(rec.Weight, "N/A"),
			ConsensusRank: orDefault(rec.ConsensusRank, "N/A"),
			Description:   rec.Document,
			Stats:         decodeStats(rec.Stats),
		}, true, nil
	}

	return nil, false, nil
}

// Count returns the number of records loaded in the datastore.
func (g *Gateway) Count(ctx context.Context) (int, error) {
	return g.store.Count(ctx)
}

// Ready reports whether the datastore is reachable.
func (g *Gateway) Ready(ctx context.Context) bool {
	return g.store.Ready(ctx)
}

// decodeStats parses a record's raw stats JSON. Malformed stats degrade
// to an empty map and bump the parse-failure counter; a bad stats blob
// must never take down the record it rides on.
func decodeStats(raw string) map[string]interface{} {
	stats := map[string]interface{}{}
	if raw == "" {
		return stats
	}
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		statsParseFailuresTotal.Inc()
		slog.Warn("Failed to parse prospect stats", slog.String("error", err.Error()))
		return map[string]interface{}{}
	}
	return stats
}

func wordSet(s string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		words[w] = struct{}{}
	}
	return words
}

// wordsMatch reports whether the stored and search word sets are equal,
// or the search words are a subset of the stored words.
func wordsMatch(stored, search map[string]struct{}) bool {
	if len(search) == 0 {
		return false
	}
	for w := range search {
		if _, ok := stored[w]; !ok {
			return false
		}
	}
	return true
}
