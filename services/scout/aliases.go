// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scout implements the NFL draft scouting assistant: alias
// resolution, guided tool-based retrieval, session management, and the
// model orchestration loop that ties them together.
package scout

import "strings"

// teamAlias maps one colloquial team reference to its canonical code.
type teamAlias struct {
	alias string
	code  string
}

// teamAliases is the ordered alias table for resolving free-text team
// references. Order matters: the substring fallback scans entries in
// sequence and takes the first hit, so a rename here can change which
// team an ambiguous input resolves to. Keep divisions grouped.
var teamAliases = []teamAlias{
	// AFC East
	{"bills", "BUF"}, {"buffalo", "BUF"},
	{"dolphins", "MIA"}, {"miami", "MIA"},
	{"patriots", "NE"}, {"new england", "NE"}, {"pats", "NE"},
	{"jets", "NYJ"}, {"new york jets", "NYJ"},

	// AFC North
	{"ravens", "BAL"}, {"baltimore", "BAL"},
	{"bengals", "CIN"}, {"cincinnati", "CIN"},
	{"browns", "CLE"}, {"cleveland", "CLE"},
	{"steelers", "PIT"}, {"pittsburgh", "PIT"},

	// AFC South
	{"texans", "HOU"}, {"houston", "HOU"},
	{"colts", "IND"}, {"indianapolis", "IND"}, {"indy", "IND"},
	{"jaguars", "JAX"}, {"jacksonville", "JAX"}, {"jags", "JAX"},
	{"titans", "TEN"}, {"tennessee", "TEN"},

	// AFC West
	{"broncos", "DEN"}, {"denver", "DEN"},
	{"chiefs", "KC"}, {"kansas city", "KC"}, {"kc", "KC"},
	{"raiders", "LV"}, {"las vegas", "LV"}, {"vegas", "LV"},
	{"chargers", "LAC"}, {"los angeles chargers", "LAC"}, {"la chargers", "LAC"},

	// NFC East
	{"cowboys", "DAL"}, {"dallas", "DAL"},
	{"giants", "NYG"}, {"new york giants", "NYG"},
	{"eagles", "PHI"}, {"philadelphia", "PHI"}, {"philly", "PHI"},
	{"commanders", "WAS"}, {"washington", "WAS"},

	// NFC North
	{"bears", "CHI"}, {"chicago", "CHI"},
	{"lions", "DET"}, {"detroit", "DET"},
	{"packers", "GB"}, {"green bay", "GB"},
	{"vikings", "MIN"}, {"minnesota", "MIN"},

	// NFC South
	{"falcons", "ATL"}, {"atlanta", "ATL"},
	{"panthers", "CAR"}, {"carolina", "CAR"},
	{"saints", "NO"}, {"new orleans", "NO"},
	{"buccaneers", "TB"}, {"tampa bay", "TB"}, {"tampa", "TB"}, {"bucs", "TB"},

	// NFC West
	{"cardinals", "ARI"}, {"arizona", "ARI"},
	{"rams", "LAR"}, {"los angeles rams", "LAR"}, {"la rams", "LAR"},
	{"seahawks", "SEA"}, {"seattle", "SEA"},
	{"49ers", "SF"}, {"niners", "SF"}, {"san francisco", "SF"},
}

// positionAliases normalizes user-facing position labels to the codes
// the datastore indexes on.
var positionAliases = map[string]string{
	"LB": "ILB",
}

// ResolveTeamCode resolves a free-text team reference to a canonical code.
//
// Description:
//
//	Resolution runs in three stages and stops at the first match:
//	  1. The uppercased input is already a known code.
//	  2. The lowercased input equals an alias exactly.
//	  3. An alias occurs as a substring of the lowercased input, scanning
//	     the table in order ("the Tampa Bay Buccaneers" hits "tampa bay").
//	The known predicate decides stage 1 against whatever directory the
//	caller loaded, so codes absent from the needs file never resolve there.
//
// Inputs:
//   - name: The raw team reference from the model or user.
//   - known: Reports whether a canonical code exists in the directory.
//
// Outputs:
//   - string: The canonical team code.
//   - bool: False when no stage produced a match.
func ResolveTeamCode(name string, known func(code string) bool) (string, bool) {
	upper := strings.ToUpper(name)
	if known != nil && known(upper) {
		return upper, true
	}

	lower := strings.ToLower(name)
	for _, entry := range teamAliases {
		if entry.alias == lower {
			return entry.code, true
		}
	}

	for _, entry := range teamAliases {
		if strings.Contains(lower, entry.alias) {
			return entry.code, true
		}
	}

	return "", false
}

// ResolvePosition maps a position label to its datastore code.
// Unknown labels pass through unchanged; the datastore query simply
// returns no records for a position it never indexed.
func ResolvePosition(position string) string {
	if canonical, ok := positionAliases[position]; ok {
		return canonical
	}
	return position
}
