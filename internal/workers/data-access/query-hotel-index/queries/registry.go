// internal/workers/data-access/query-hotel-index/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

type QueryResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, hq HotelIndexQuery) (*QueryResult, error) {
	if hq.Pagination.Size < 1 {
		hq.Pagination.Size = 20
	}
	if hq.Pagination.Size > 100 {
		hq.Pagination.Size = 100
	}

	req, err := BuildQuery(hq)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 || strings.Contains(res.String(), "index_not_found_exception") {
			return nil, fmt.Errorf("%w: %s", ErrMissingIndex, hq.Index)
		}
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed search response: missing hits")
	}

	var total float64
	if t, ok := hits["total"].(map[string]interface{}); ok {
		total, _ = t["value"].(float64)
	}
	maxScore := 0.0
	if ms, ok := hits["max_score"].(float64); ok {
		maxScore = ms
	}

	var data []map[string]interface{}
	if hitList, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range hitList {
			entry, ok := hit.(map[string]interface{})
			if !ok {
				continue
			}
			source, ok := entry["_source"].(map[string]interface{})
			if !ok {
				continue
			}
			if score, ok := entry["_score"].(float64); ok {
				source["_score"] = score
			}
			data = append(data, source)
		}
	}

	return &QueryResult{
		Data:      data,
		TotalHits: int64(total),
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
