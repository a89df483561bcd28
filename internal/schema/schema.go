package schema

import (
	"encoding/json"
	"fmt"
)

// Index names for the four document kinds.
const (
	IndexLogs      = "soc-logs"
	IndexMetrics   = "soc-metrics"
	IndexIncidents = "soc-incidents"
	IndexActions   = "soc-actions"
)

// field describes a single Elasticsearch property declaration.
type field map[string]any

// mappings declares, per index, the field name -> type table used when
// (re)creating that index. Purely descriptive; the cluster enforces it.
var mappings = map[string]map[string]field{
	IndexLogs: {
		"@timestamp": {"type": "date"},
		"service":    {"type": "keyword"},
		"level":      {"type": "keyword"},
		"message":    {"type": "text"},
		"host":       {"type": "keyword"},
		"trace_id":   {"type": "keyword"},
	},
	IndexMetrics: {
		"@timestamp": {"type": "date"},
		"host":       {"type": "keyword"},
		"cpu_pct":    {"type": "float"},
		"mem_pct":    {"type": "float"},
		"disk_io":    {"type": "float"},
		"net_in":     {"type": "long"},
		"net_out":    {"type": "long"},
	},
	IndexIncidents: {
		"incident_id": {"type": "keyword"},
		"title": {
			"type": "text",
			"fields": map[string]any{
				"keyword": map[string]any{"type": "keyword"},
			},
		},
		"root_cause":        {"type": "text"},
		"resolution":        {"type": "text"},
		"services_affected": {"type": "keyword"},
		"severity":          {"type": "keyword"},
		"duration_min":      {"type": "integer"},
		"created_at":        {"type": "date"},
		"tags":              {"type": "keyword"},
		"runbook":           {"type": "text"},
	},
	IndexActions: {
		"@timestamp":   {"type": "date"},
		"action_type":  {"type": "keyword"},
		"description":  {"type": "text"},
		"confidence":   {"type": "integer"},
		"status":       {"type": "keyword"},
		"incident_ref": {"type": "keyword"},
	},
}

// Indices returns the managed index names in creation order.
func Indices() []string {
	return []string{IndexLogs, IndexMetrics, IndexIncidents, IndexActions}
}

// MappingJSON renders the create-index request body for the given index.
func MappingJSON(index string) ([]byte, error) {
	props, ok := mappings[index]
	if !ok {
		return nil, fmt.Errorf("no mapping declared for index %q", index)
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": props,
		},
	}
	return json.Marshal(body)
}
