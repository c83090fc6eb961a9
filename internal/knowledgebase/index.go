// internal/knowledgebase/index.go
package knowledgebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"career-workers/internal/common/logger"
	"career-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrIndexRequest = errors.New("elasticsearch request failed")

// Fields searched by Index.Search. The role name is weighted highest.
var searchFields = []string{
	"job_role^3", "technical_skills^2", "domain_skills", "soft_skills",
	"description", "job_family", "cluster", "qualifications",
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "position":         {"type": "integer"},
      "job_role":         {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "job_family":       {"type": "text"},
      "cluster":          {"type": "text"},
      "level":            {"type": "keyword"},
      "technical_skills": {"type": "text"},
      "soft_skills":      {"type": "text"},
      "domain_skills":    {"type": "text"},
      "description":      {"type": "text"},
      "qualifications":   {"type": "text"},
      "extra":            {"type": "object", "enabled": false}
    }
  }
}`

// Index mirrors the knowledge base into an Elasticsearch index for ranked search.
type Index struct {
	client *elasticsearch.Client
	name   string
	logger logger.Logger
}

func NewIndex(client *elasticsearch.Client, name string, log logger.Logger) *Index {
	if name == "" {
		name = "career-roles"
	}
	return &Index{
		client: client,
		name:   name,
		logger: log.WithFields(map[string]interface{}{"component": "knowledge-base-index", "index": name}),
	}
}

func (i *Index) Name() string { return i.name }

type indexedRow struct {
	Position int `json:"position"`
	models.KnowledgeBaseRow
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.name}}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: exists: %v", ErrIndexRequest, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	if res.StatusCode != 404 {
		return fmt.Errorf("%w: exists: %s", ErrIndexRequest, res.Status())
	}

	res, err = esapi.IndicesCreateRequest{
		Index: i.name,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: create: %v", ErrIndexRequest, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: create: %s", ErrIndexRequest, res.String())
	}
	i.logger.Info("created knowledge base index", nil)
	return nil
}

// Reindex replaces every document in the index with rows.
func (i *Index) Reindex(ctx context.Context, rows []models.KnowledgeBaseRow) (int, error) {
	res, err := esapi.IndicesDeleteRequest{Index: []string{i.name}}.Do(ctx, i.client)
	if err != nil {
		return 0, fmt.Errorf("%w: delete: %v", ErrIndexRequest, err)
	}
	res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return 0, fmt.Errorf("%w: delete: %s", ErrIndexRequest, res.Status())
	}
	if err := i.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	return i.IndexRows(ctx, rows)
}

// IndexRows bulk-indexes rows with their KB position as document id.
func (i *Index) IndexRows(ctx context.Context, rows []models.KnowledgeBaseRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	for pos, row := range rows {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": i.name, "_id": strconv.Itoa(pos)},
		}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(indexedRow{Position: pos, KnowledgeBaseRow: row}); err != nil {
			return 0, err
		}
	}

	res, err := esapi.BulkRequest{
		Body:    &body,
		Refresh: "true",
	}.Do(ctx, i.client)
	if err != nil {
		return 0, fmt.Errorf("%w: bulk: %v", ErrIndexRequest, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("%w: bulk: %s", ErrIndexRequest, res.String())
	}

	var bulk struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil {
		return 0, fmt.Errorf("%w: decode bulk response: %v", ErrIndexRequest, err)
	}

	indexed := 0
	for _, item := range bulk.Items {
		for _, op := range item {
			if op.Status >= 200 && op.Status < 300 {
				indexed++
			}
		}
	}
	if bulk.Errors {
		i.logger.Warn("some knowledge base rows failed to index", map[string]interface{}{
			"indexed": indexed,
			"total":   len(rows),
		})
	}
	return indexed, nil
}

// Search runs a multi_match query and returns rows in relevance order.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]models.KnowledgeBaseRow, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": searchFields,
				"type":   "best_fields",
			},
		},
	}
	body, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	res, err := esapi.SearchRequest{
		Index: []string{i.name},
		Body:  bytes.NewReader(body),
		Size:  &limit,
	}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrIndexRequest, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("%w: search: %s", ErrIndexRequest, res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source indexedRow `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrIndexRequest, err)
	}

	rows := make([]models.KnowledgeBaseRow, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		rows = append(rows, h.Source.KnowledgeBaseRow)
	}
	return rows, nil
}
