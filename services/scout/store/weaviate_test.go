// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"testing"

	"github.com/weaviate/weaviate/entities/models"
)

func TestDecodeRecords(t *testing.T) {
	data := map[string]models.JSONObject{
		"Get": map[string]interface{}{
			"DraftProspect": []interface{}{
				map[string]interface{}{
					"name":          "Caleb Downs",
					"position":      "S",
					"school":        "Ohio State",
					"height":        "6'0\"",
					"weight":        "205",
					"consensusRank": "4",
					"stats":         `{"tackles": 82}`,
					"docType":       "prospect",
					"description":   "Instinctive safety with elite range.",
				},
				map[string]interface{}{
					"name":          "Arch Manning",
					"position":      "QB",
					"consensusRank": 7.0,
				},
			},
		},
	}

	records := decodeRecords(data, "DraftProspect")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Name != "Caleb Downs" {
		t.Errorf("expected name 'Caleb Downs', got %q", first.Name)
	}
	if first.Position != "S" {
		t.Errorf("expected position 'S', got %q", first.Position)
	}
	if first.Document != "Instinctive safety with elite range." {
		t.Errorf("unexpected document: %q", first.Document)
	}

	second := records[1]
	if second.ConsensusRank != "7" {
		t.Errorf("expected numeric rank coerced to '7', got %q", second.ConsensusRank)
	}
	if second.School != "" {
		t.Errorf("expected missing school to decode empty, got %q", second.School)
	}
}

func TestDecodeRecordsSkipsMalformedEntries(t *testing.T) {
	data := map[string]models.JSONObject{
		"Get": map[string]interface{}{
			"DraftProspect": []interface{}{
				"not an object",
				map[string]interface{}{"name": "Jeremiah Smith"},
			},
		},
	}

	records := decodeRecords(data, "DraftProspect")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Name != "Jeremiah Smith" {
		t.Errorf("unexpected name: %q", records[0].Name)
	}
}

func TestDecodeRecordsEmptyResponse(t *testing.T) {
	if got := decodeRecords(map[string]models.JSONObject{}, "DraftProspect"); got != nil {
		t.Errorf("expected nil for empty data, got %v", got)
	}

	data := map[string]models.JSONObject{
		"Get": map[string]interface{}{"OtherClass": []interface{}{}},
	}
	if got := decodeRecords(data, "DraftProspect"); got != nil {
		t.Errorf("expected nil for missing class, got %v", got)
	}
}

func TestDecodeCount(t *testing.T) {
	data := map[string]models.JSONObject{
		"Aggregate": map[string]interface{}{
			"DraftProspect": []interface{}{
				map[string]interface{}{
					"meta": map[string]interface{}{"count": 250.0},
				},
			},
		},
	}

	if got := decodeCount(data, "DraftProspect"); got != 250 {
		t.Errorf("expected count 250, got %d", got)
	}
}

func TestDecodeCountMalformed(t *testing.T) {
	if got := decodeCount(map[string]models.JSONObject{}, "DraftProspect"); got != 0 {
		t.Errorf("expected 0 for empty data, got %d", got)
	}

	data := map[string]models.JSONObject{
		"Aggregate": map[string]interface{}{
			"DraftProspect": []interface{}{},
		},
	}
	if got := decodeCount(data, "DraftProspect"); got != 0 {
		t.Errorf("expected 0 for empty aggregate, got %d", got)
	}
}

func TestBuildWhere(t *testing.T) {
	if w := buildWhere(SearchQuery{Text: "safeties"}); w != nil {
		t.Error("expected nil where for predicate-free query")
	}

	single := buildWhere(SearchQuery{
		Equal: []Predicate{{Field: "position", Value: "S"}},
	})
	if single == nil {
		t.Fatal("expected non-nil where for single predicate")
	}

	combined := buildWhere(SearchQuery{
		Equal:    []Predicate{{Field: "position", Value: "S"}},
		NotEqual: []Predicate{{Field: "docType", Value: "team_needs"}},
	})
	if combined == nil {
		t.Fatal("expected non-nil where for combined predicates")
	}
}
