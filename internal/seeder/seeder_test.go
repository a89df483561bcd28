package seeder

import (
	"context"
	"encoding/json"
	"testing"

	"socseed/internal/elastic"
	"socseed/internal/scenario"
	"socseed/internal/schema"
)

// fakeClient records every datastore call in place of a live cluster.
type fakeClient struct {
	recreated []string
	inserted  map[string][]json.RawMessage
	refreshed []string
	counted   []string
	failEvery int // every Nth bulk document is reported as failed
}

func newFakeClient() *fakeClient {
	return &fakeClient{inserted: make(map[string][]json.RawMessage)}
}

func (f *fakeClient) Info(ctx context.Context) (*elastic.ClusterInfo, error) {
	info := &elastic.ClusterInfo{ClusterName: "fake-cluster"}
	info.Version.Number = "7.17.0"
	return info, nil
}

func (f *fakeClient) RecreateIndex(ctx context.Context, name string, mapping []byte) error {
	var decoded map[string]any
	if err := json.Unmarshal(mapping, &decoded); err != nil {
		return err
	}
	f.recreated = append(f.recreated, name)
	return nil
}

func (f *fakeClient) BulkInsert(ctx context.Context, docs []elastic.Document) (elastic.BulkStats, error) {
	var stats elastic.BulkStats
	for i, doc := range docs {
		if f.failEvery > 0 && (i+1)%f.failEvery == 0 {
			stats.Failed++
			continue
		}
		f.inserted[doc.Index] = append(f.inserted[doc.Index], doc.Body)
		stats.Indexed++
	}
	return stats, nil
}

func (f *fakeClient) Refresh(ctx context.Context, index string) error {
	f.refreshed = append(f.refreshed, index)
	return nil
}

func (f *fakeClient) Count(ctx context.Context, index string) (int64, error) {
	f.counted = append(f.counted, index)
	return int64(len(f.inserted[index])), nil
}

var testCounts = scenario.Counts{
	NormalLogs:      20,
	NormalMetrics:   10,
	IncidentLogs:    8,
	IncidentMetrics: 5,
}

func TestRun_SingleScenario(t *testing.T) {
	client := newFakeClient()
	s := New(client, scenario.NewSeeded(1), testCounts)

	if err := s.Run(context.Background(), []scenario.Scenario{scenario.CPUSpike}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(client.recreated) != 4 {
		t.Fatalf("Expected 4 indices recreated, got %d: %v", len(client.recreated), client.recreated)
	}

	if got := len(client.inserted[schema.IndexLogs]); got != 28 {
		t.Errorf("Expected 28 log documents, got %d", got)
	}
	if got := len(client.inserted[schema.IndexMetrics]); got != 15 {
		t.Errorf("Expected 15 metric documents, got %d", got)
	}
	if got := len(client.inserted[schema.IndexIncidents]); got != len(scenario.Catalog()) {
		t.Errorf("Expected %d incident documents, got %d", len(scenario.Catalog()), got)
	}
	if got := len(client.inserted[schema.IndexActions]); got != 0 {
		t.Errorf("Expected soc-actions to stay empty, got %d documents", got)
	}

	// Verification pass touches every index.
	if len(client.refreshed) != 4 || len(client.counted) != 4 {
		t.Errorf("Expected refresh+count on all 4 indices, got %d/%d", len(client.refreshed), len(client.counted))
	}
}

func TestRun_AllScenarios(t *testing.T) {
	client := newFakeClient()
	s := New(client, scenario.NewSeeded(2), testCounts)

	if err := s.Run(context.Background(), scenario.All()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Indices are recreated once per run, not per scenario.
	if len(client.recreated) != 4 {
		t.Errorf("Expected 4 index recreations, got %d", len(client.recreated))
	}

	if got := len(client.inserted[schema.IndexLogs]); got != 3*28 {
		t.Errorf("Expected %d log documents across 3 scenarios, got %d", 3*28, got)
	}
	if got := len(client.inserted[schema.IndexIncidents]); got != 3*len(scenario.Catalog()) {
		t.Errorf("Expected %d incident documents, got %d", 3*len(scenario.Catalog()), got)
	}
}

func TestRun_PartialBulkFailureIsNotFatal(t *testing.T) {
	client := newFakeClient()
	client.failEvery = 10
	s := New(client, scenario.NewSeeded(3), testCounts)

	if err := s.Run(context.Background(), []scenario.Scenario{scenario.OOMCrash}); err != nil {
		t.Fatalf("Expected partial bulk failure to be non-fatal, got %v", err)
	}
}

func TestActionRecord_MatchesMapping(t *testing.T) {
	rec := scenario.ActionRecord{
		ActionType:  "restart_pod",
		Description: "Restarted payment-service after OOM",
		Confidence:  80,
		Status:      "completed",
		IncidentRef: "INC-001",
	}
	body, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatal(err)
	}

	mapping, err := schema.MappingJSON(schema.IndexActions)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Mappings struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.Unmarshal(mapping, &decoded); err != nil {
		t.Fatal(err)
	}

	// Audit records and the soc-actions mapping must declare the same fields.
	for field := range doc {
		if _, ok := decoded.Mappings.Properties[field]; !ok {
			t.Errorf("ActionRecord field %q missing from %s mapping", field, schema.IndexActions)
		}
	}
	for field := range decoded.Mappings.Properties {
		if _, ok := doc[field]; !ok {
			t.Errorf("Mapping field %q missing from ActionRecord", field)
		}
	}
}

func TestRun_DocumentShapes(t *testing.T) {
	client := newFakeClient()
	s := New(client, scenario.NewSeeded(4), testCounts)

	if err := s.Run(context.Background(), []scenario.Scenario{scenario.CascadingFailure}); err != nil {
		t.Fatal(err)
	}

	for _, body := range client.inserted[schema.IndexLogs] {
		var doc struct {
			Timestamp string `json:"@timestamp"`
			Service   string `json:"service"`
			Level     string `json:"level"`
			Message   string `json:"message"`
			Host      string `json:"host"`
			TraceID   string `json:"trace_id"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			t.Fatalf("Log document is not valid JSON: %v", err)
		}
		if doc.Timestamp == "" || doc.Service == "" || doc.Level == "" || doc.Host == "" || doc.TraceID == "" {
			t.Fatalf("Log document missing required fields: %s", body)
		}
	}

	for _, body := range client.inserted[schema.IndexIncidents] {
		var doc struct {
			IncidentID string `json:"incident_id"`
			Runbook    string `json:"runbook"`
			CreatedAt  string `json:"created_at"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			t.Fatalf("Incident document is not valid JSON: %v", err)
		}
		if doc.IncidentID == "" || doc.Runbook == "" || doc.CreatedAt == "" {
			t.Fatalf("Incident document missing required fields: %s", body)
		}
	}
}
