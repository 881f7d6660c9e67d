// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store provides the read-only client for the prospect vector
// datastore. The datastore owns embeddings and similarity ranking; this
// package only issues filtered nearText queries and normalizes the raw
// GraphQL records into a stable shape for the retrieval gateway.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const storeTracerName = "scout.store"

// Predicate is a single field/value condition on record metadata.
type Predicate struct {
	Field string
	Value string
}

// SearchQuery describes one similarity query against the datastore.
//
// Description:
//
//	Text seeds the nearText similarity search. Equal and NotEqual are
//	metadata predicates, logically ANDed. Limit caps the candidate set;
//	callers request an oversized set and filter locally because the
//	similarity ranking is approximate, not an exact filter.
type SearchQuery struct {
	Text     string
	Limit    int
	Equal    []Predicate
	NotEqual []Predicate
}

// Record is one normalized datastore hit.
//
// ConsensusRank and Stats are kept raw (string) because the upstream data
// is not guaranteed numeric or well-formed; the gateway decides how to
// degrade. Document carries the free-text scouting description when the
// class stores one.
type Record struct {
	Name          string
	Position      string
	School        string
	Height        string
	Weight        string
	ConsensusRank string
	Stats         string
	DocType       string
	Document      string
}

// ProspectStore is the read-only boundary with the vector datastore.
//
// Thread Safety: Implementations must be safe for concurrent use; the
// datastore is shared freely across sessions without locking.
type ProspectStore interface {
	// Search runs one filtered similarity query and returns ranked records.
	Search(ctx context.Context, query SearchQuery) ([]Record, error)

	// Count returns the number of prospect records loaded in the class.
	Count(ctx context.Context) (int, error)

	// Ready reports whether the datastore is reachable.
	Ready(ctx context.Context) bool
}

// WeaviateStore implements ProspectStore against a Weaviate instance.
//
// Thread Safety: WeaviateStore is safe for concurrent use.
type WeaviateStore struct {
	client *weaviate.Client
	class  string
}

// NewWeaviateStore creates a WeaviateStore for the given endpoint and class.
//
// Description:
//
//	Builds the underlying client. WEAVIATE_API_KEY, when set, is used for
//	API-key auth; otherwise the connection is anonymous (local instance).
//	No connection is established here; Ready probes reachability.
//
// Inputs:
//   - host: Host and port, e.g. "localhost:8080".
//   - scheme: "http" or "https".
//   - class: The class holding the draft prospect objects.
//
// Outputs:
//   - *WeaviateStore: The configured store.
//   - error: Non-nil if the client configuration is rejected.
func NewWeaviateStore(host, scheme, class string) (*WeaviateStore, error) {
	cfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if key := os.Getenv("WEAVIATE_API_KEY"); key != "" {
		cfg.AuthConfig = auth.ApiKey{Value: key}
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("weaviate: creating client: %w", err)
	}

	return &WeaviateStore{client: client, class: class}, nil
}

// Search implements ProspectStore.Search.
func (s *WeaviateStore) Search(ctx context.Context, query SearchQuery) ([]Record, error) {
	ctx, span := otel.Tracer(storeTracerName).Start(ctx, "store.WeaviateStore.Search")
	span.SetAttributes(
		attribute.String("class", s.class),
		attribute.Int("limit", query.Limit),
	)
	defer span.End()

	fields := []graphql.Field{
		{Name: "name"},
		{Name: "position"},
		{Name: "school"},
		{Name: "height"},
		{Name: "weight"},
		{Name: "consensusRank"},
		{Name: "stats"},
		{Name: "docType"},
		{Name: "description"},
	}

	nearText := s.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query.Text})

	get := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(query.Limit)

	if where := buildWhere(query); where != nil {
		get = get.WithWhere(where)
	}

	resp, err := get.Do(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "similarity query failed")
		return nil, fmt.Errorf("weaviate: similarity query: %w", err)
	}
	if len(resp.Errors) > 0 {
		err := fmt.Errorf("weaviate: graphql: %s", resp.Errors[0].Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, "graphql error")
		return nil, err
	}

	records := decodeRecords(resp.Data, s.class)
	span.SetAttributes(attribute.Int("records", len(records)))

	slog.Debug("Weaviate search completed",
		slog.String("class", s.class),
		slog.Int("records", len(records)),
	)
	return records, nil
}

// Count implements ProspectStore.Count.
func (s *WeaviateStore) Count(ctx context.Context) (int, error) {
	meta := graphql.Field{
		Name:   "meta",
		Fields: []graphql.Field{{Name: "count"}},
	}
	resp, err := s.client.GraphQL().Aggregate().
		WithClassName(s.class).
		WithFields(meta).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("weaviate: aggregate count: %w", err)
	}
	if len(resp.Errors) > 0 {
		return 0, fmt.Errorf("weaviate: graphql: %s", resp.Errors[0].Message)
	}
	return decodeCount(resp.Data, s.class), nil
}

// Ready implements ProspectStore.Ready.
func (s *WeaviateStore) Ready(ctx context.Context) bool {
	ok, err := s.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		slog.Warn("Weaviate readiness probe failed", slog.String("error", err.Error()))
		return false
	}
	return ok
}

// buildWhere combines the query predicates into a single ANDed where filter.
// Returns nil when the query carries no predicates.
func buildWhere(query SearchQuery) *filters.WhereBuilder {
	var operands []*filters.WhereBuilder
	for _, p := range query.Equal {
		operands = append(operands, filters.Where().
			WithPath([]string{p.Field}).
			WithOperator(filters.Equal).
			WithValueText(p.Value))
	}
	for _, p := range query.NotEqual {
		operands = append(operands, filters.Where().
			WithPath([]string{p.Field}).
			WithOperator(filters.NotEqual).
			WithValueText(p.Value))
	}

	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	default:
		return filters.Where().
			WithOperator(filters.And).
			WithOperands(operands)
	}
}

// decodeRecords extracts normalized records from a GraphQL Get response.
//
// Description:
//
//	Walks resp.Data["Get"][class] and converts each object into a Record.
//	Missing or non-string fields decode to the empty string; malformed
//	entries are skipped rather than failing the whole result, matching the
//	degrade-gracefully policy of the retrieval layer.
func decodeRecords(data map[string]models.JSONObject, class string) []Record {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	objs, ok := get[class].([]interface{})
	if !ok {
		return nil
	}

	records := make([]Record, 0, len(objs))
	for _, o := range objs {
		obj, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		records = append(records, Record{
			Name:          stringField(obj, "name"),
			Position:      stringField(obj, "position"),
			School:        stringField(obj, "school"),
			Height:        stringField(obj, "height"),
			Weight:        stringField(obj, "weight"),
			ConsensusRank: stringField(obj, "consensusRank"),
			Stats:         stringField(obj, "stats"),
			DocType:       stringField(obj, "docType"),
			Document:      stringField(obj, "description"),
		})
	}
	return records
}

// decodeCount extracts the meta count from a GraphQL Aggregate response.
func decodeCount(data map[string]models.JSONObject, class string) int {
	agg, ok := data["Aggregate"].(map[string]interface{})
	if !ok {
		return 0
	}
	entries, ok := agg[class].([]interface{})
	if !ok || len(entries) == 0 {
		return 0
	}
	entry, ok := entries[0].(map[string]interface{})
	if !ok {
		return 0
	}
	meta, ok := entry["meta"].(map[string]interface{})
	if !ok {
		return 0
	}
	count, ok := meta["count"].(float64)
	if !ok {
		return 0
	}
	return int(count)
}

// stringField reads a string property, tolerating absence and numbers.
func stringField(obj map[string]interface{}, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
