// Package dump writes generated batches to JSONL files so operators can
// inspect or re-ship documents without a reachable cluster.
package dump

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"socseed/internal/scenario"

	"github.com/rs/zerolog/log"
)

// WriteBatch persists one scenario batch as three JSONL files under dir:
// <scenario>-logs.jsonl, <scenario>-metrics.jsonl, <scenario>-incidents.jsonl.
func WriteBatch(dir string, b *scenario.Batch) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}

	logs := b.Logs()
	metrics := b.Metrics()

	files := []struct {
		name  string
		count int
		write func(enc *json.Encoder) error
	}{
		{
			name:  fmt.Sprintf("%s-logs.jsonl", b.Scenario),
			count: len(logs),
			write: func(enc *json.Encoder) error {
				for _, rec := range logs {
					if err := enc.Encode(rec); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name:  fmt.Sprintf("%s-metrics.jsonl", b.Scenario),
			count: len(metrics),
			write: func(enc *json.Encoder) error {
				for _, rec := range metrics {
					if err := enc.Encode(rec); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name:  fmt.Sprintf("%s-incidents.jsonl", b.Scenario),
			count: len(b.Incidents),
			write: func(enc *json.Encoder) error {
				for _, rec := range b.Incidents {
					if err := enc.Encode(rec); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}

	for _, f := range files {
		if err := writeJSONL(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
		log.Debug().Str("file", f.name).Int("count", f.count).Msg("Dumped batch slice")
	}

	return nil
}

// writeJSONL writes through a temp file and renames, so readers never see a
// partially written dump.
func writeJSONL(path string, write func(enc *json.Encoder) error) error {
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := write(json.NewEncoder(writer)); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode dump: %w", err)
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush dump: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close dump: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to finalize dump: %w", err)
	}
	return nil
}
