package elastic

import (
	"context"
	"errors"
)

// Config holds the connection settings for the cluster, sourced from the
// environment.
type Config struct {
	URL     string
	APIKey  string
	CloudID string
}

// ErrNoConnection is returned when neither a cloud ID nor a URL is configured.
var ErrNoConnection = errors.New("no Elasticsearch connection configured")

// ClusterInfo is the subset of the root endpoint response shown to the operator.
type ClusterInfo struct {
	ClusterName string `json:"cluster_name"`
	Version     struct {
		Number string `json:"number"`
	} `json:"version"`
}

// Document is a single JSON payload destined for an index.
type Document struct {
	Index string
	Body  []byte
}

// BulkStats summarizes a bulk insert: documents written vs. documents the
// cluster rejected. Failures are reported, never retried.
type BulkStats struct {
	Indexed uint64
	Failed  uint64
}

// Client is the interface for the search-and-analytics datastore.
type Client interface {
	Info(ctx context.Context) (*ClusterInfo, error)
	RecreateIndex(ctx context.Context, name string, mapping []byte) error
	BulkInsert(ctx context.Context, docs []Document) (BulkStats, error)
	Refresh(ctx context.Context, index string) error
	Count(ctx context.Context, index string) (int64, error)
}

// NewClient creates a Client from the provided configuration. Connection
// precedence: cloud ID + API key, then URL + API key, then bare URL.
func NewClient(cfg Config) (Client, error) {
	return newESClient(cfg)
}
