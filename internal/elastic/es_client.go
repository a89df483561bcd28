package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/rs/zerolog/log"
)

type esClient struct {
	es *elasticsearch.Client
}

func newESClient(cfg Config) (*esClient, error) {
	esCfg := elasticsearch.Config{}

	switch {
	case cfg.CloudID != "" && cfg.APIKey != "":
		esCfg.CloudID = cfg.CloudID
		esCfg.APIKey = cfg.APIKey
	case cfg.URL != "":
		esCfg.Addresses = []string{cfg.URL}
		esCfg.APIKey = cfg.APIKey
	default:
		return nil, ErrNoConnection
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &esClient{es: es}, nil
}

func (c *esClient) Info(ctx context.Context) (*ClusterInfo, error) {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("cluster info request failed: %w", err)
	}
	defer res.Body.Close()

	if err := checkResponse(res, "cluster info"); err != nil {
		return nil, err
	}

	var info ClusterInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode cluster info: %w", err)
	}
	return &info, nil
}

// RecreateIndex drops the index if it exists and creates it fresh with the
// given mapping. This is the only destroy path for seeded documents.
func (c *esClient) RecreateIndex(ctx context.Context, name string, mapping []byte) error {
	exists, err := c.es.Indices.Exists(
		[]string{name},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", name, err)
	}
	exists.Body.Close()

	if exists.StatusCode == 200 {
		log.Info().Str("index", name).Msg("Deleting existing index")
		del, err := c.es.Indices.Delete(
			[]string{name},
			c.es.Indices.Delete.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to delete index %s: %w", name, err)
		}
		defer del.Body.Close()
		if err := checkResponse(del, "index delete"); err != nil {
			return err
		}
	}

	log.Info().Str("index", name).Msg("Creating index")
	create, err := c.es.Indices.Create(
		name,
		c.es.Indices.Create.WithBody(bytes.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	defer create.Body.Close()

	return checkResponse(create, "index create")
}

// BulkInsert writes documents through a single bulk indexer flush. Item
// failures are logged and counted; they do not abort the batch.
func (c *esClient) BulkInsert(ctx context.Context, docs []Document) (BulkStats, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     c.es,
		NumWorkers: 1,
	})
	if err != nil {
		return BulkStats{}, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	for _, doc := range docs {
		err := bi.Add(ctx, esutil.BulkIndexerItem{
			Index:  doc.Index,
			Action: "index",
			Body:   bytes.NewReader(doc.Body),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Warn().Err(err).Str("index", item.Index).Msg("Bulk item failed")
					return
				}
				log.Warn().
					Str("index", item.Index).
					Str("type", res.Error.Type).
					Str("reason", res.Error.Reason).
					Msg("Bulk item rejected")
			},
		})
		if err != nil {
			return BulkStats{}, fmt.Errorf("failed to enqueue bulk item: %w", err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return BulkStats{}, fmt.Errorf("bulk flush failed: %w", err)
	}

	stats := bi.Stats()
	return BulkStats{
		Indexed: stats.NumFlushed,
		Failed:  stats.NumFailed,
	}, nil
}

func (c *esClient) Refresh(ctx context.Context, index string) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithIndex(index),
		c.es.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to refresh index %s: %w", index, err)
	}
	defer res.Body.Close()

	return checkResponse(res, "index refresh")
}

func (c *esClient) Count(ctx context.Context, index string) (int64, error) {
	res, err := c.es.Count(
		c.es.Count.WithIndex(index),
		c.es.Count.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count index %s: %w", index, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res, "count"); err != nil {
		return 0, err
	}

	var body struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return body.Count, nil
}

// checkResponse maps error statuses to operator-facing guidance.
func checkResponse(res *esapi.Response, op string) error {
	if !res.IsError() {
		return nil
	}

	switch res.StatusCode {
	case 401, 403:
		return fmt.Errorf("%s: Elasticsearch authentication failed (%s). Check ELASTICSEARCH_API_KEY", op, res.Status())
	case 429:
		return fmt.Errorf("%s: Elasticsearch rate limit exceeded (%s)", op, res.Status())
	default:
		return fmt.Errorf("%s: Elasticsearch returned %s", op, res.Status())
	}
}
