package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"socseed/internal/dump"
	"socseed/internal/elastic"
	"socseed/internal/scenario"
	"socseed/internal/schema"

	"github.com/rs/zerolog/log"
)

// Seeder drives one seeding run: recreate indices, generate scenario-biased
// batches and bulk-write them, then verify document counts. It holds no state
// between runs; every invocation starts from freshly created indices.
type Seeder struct {
	client  elastic.Client
	gen     *scenario.Generator
	counts  scenario.Counts
	dumpDir string
}

// New creates a Seeder. Zero counts fall back to the generator defaults.
func New(client elastic.Client, gen *scenario.Generator, counts scenario.Counts) *Seeder {
	return &Seeder{
		client: client,
		gen:    gen,
		counts: counts,
	}
}

// WithDump additionally writes every generated batch as JSONL under dir.
func (s *Seeder) WithDump(dir string) *Seeder {
	s.dumpDir = dir
	return s
}

// Run seeds the requested scenarios and verifies the resulting index counts.
// Bulk-insert item failures are counted and logged, not retried.
func (s *Seeder) Run(ctx context.Context, scenarios []scenario.Scenario) error {
	info, err := s.client.Info(ctx)
	if err != nil {
		return fmt.Errorf("cluster unreachable: %w", err)
	}
	log.Info().
		Str("cluster", info.ClusterName).
		Str("version", info.Version.Number).
		Msg("Connected to Elasticsearch")

	if err := s.recreateIndices(ctx); err != nil {
		return err
	}

	for _, sc := range scenarios {
		if err := s.seedScenario(ctx, sc); err != nil {
			return err
		}
	}

	return s.verify(ctx)
}

func (s *Seeder) recreateIndices(ctx context.Context) error {
	for _, name := range schema.Indices() {
		mapping, err := schema.MappingJSON(name)
		if err != nil {
			return err
		}
		if err := s.client.RecreateIndex(ctx, name, mapping); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedScenario(ctx context.Context, sc scenario.Scenario) error {
	batch, err := s.gen.Generate(sc, time.Now().UTC(), s.counts)
	if err != nil {
		return err
	}

	log.Info().
		Str("scenario", string(sc)).
		Int("documents", batch.Total()).
		Msg("Seeding scenario")

	if s.dumpDir != "" {
		if err := dump.WriteBatch(s.dumpDir, batch); err != nil {
			return err
		}
	}

	docs, err := encodeBatch(batch)
	if err != nil {
		return err
	}

	stats, err := s.client.BulkInsert(ctx, docs)
	if err != nil {
		return fmt.Errorf("bulk insert for %s failed: %w", sc, err)
	}

	if stats.Failed > 0 {
		log.Warn().
			Str("scenario", string(sc)).
			Uint64("indexed", stats.Indexed).
			Uint64("failed", stats.Failed).
			Msg("Bulk insert completed with errors")
	} else {
		log.Info().
			Str("scenario", string(sc)).
			Uint64("indexed", stats.Indexed).
			Msg("Bulk insert completed")
	}

	return nil
}

func (s *Seeder) verify(ctx context.Context) error {
	for _, name := range schema.Indices() {
		if err := s.client.Refresh(ctx, name); err != nil {
			return err
		}
		count, err := s.client.Count(ctx, name)
		if err != nil {
			return err
		}
		log.Info().Str("index", name).Int64("documents", count).Msg("Index verified")
	}
	return nil
}

// encodeBatch marshals every record in the batch against its target index.
func encodeBatch(b *scenario.Batch) ([]elastic.Document, error) {
	docs := make([]elastic.Document, 0, b.Total())

	for _, rec := range b.Logs() {
		body, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode log record: %w", err)
		}
		docs = append(docs, elastic.Document{Index: schema.IndexLogs, Body: body})
	}
	for _, rec := range b.Metrics() {
		body, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metric sample: %w", err)
		}
		docs = append(docs, elastic.Document{Index: schema.IndexMetrics, Body: body})
	}
	for _, rec := range b.Incidents {
		body, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode incident: %w", err)
		}
		docs = append(docs, elastic.Document{Index: schema.IndexIncidents, Body: body})
	}

	return docs, nil
}
