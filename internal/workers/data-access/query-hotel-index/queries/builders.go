// internal/workers/data-access/query-hotel-index/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// HotelIndexQuery defines the structure of a hotel index lookup.
type HotelIndexQuery struct {
	Index       string
	QueryType   string
	HotelName   string
	Destination string
	Filters     map[string]interface{}
	Pagination  struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request for the hotel index.
func BuildQuery(hq HotelIndexQuery) (*esapi.SearchRequest, error) {
	if hq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch hq.QueryType {
	case "hotelByNormalizedName":
		queryBody = buildHotelByNameQuery(hq)
	case "hotelsByDestination":
		queryBody = buildHotelsByDestinationQuery(hq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, hq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{hq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &hq.Pagination.From,
		Size:  &hq.Pagination.Size,
	}

	return &req, nil
}

// buildHotelByNameQuery resolves a single property by its normalized name.
// Fuzziness absorbs the provider-to-provider spelling drift the matcher
// also has to tolerate ("Rixos Premium" vs "Rixos Premium Belek").
func buildHotelByNameQuery(hq HotelIndexQuery) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"normalized_name": map[string]interface{}{
					"query":     hq.HotelName,
					"fuzziness": "AUTO",
					"operator":  "and",
				},
			},
		},
	}
}

func buildHotelsByDestinationQuery(hq HotelIndexQuery) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"must": []interface{}{
			map[string]interface{}{
				"match": map[string]interface{}{"destination": hq.Destination},
			},
		},
	}

	filterClauses := []interface{}{}

	if minStars, ok := toFloat(hq.Filters["minStars"]); ok && minStars > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"stars": map[string]interface{}{"gte": minStars},
			},
		})
	}

	if minRating, ok := toFloat(hq.Filters["minRating"]); ok && minRating > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"rating": map[string]interface{}{"gte": minRating},
			},
		})
	}

	if beachLine, ok := toFloat(hq.Filters["maxBeachLine"]); ok && beachLine > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"beach_line": map[string]interface{}{"lte": beachLine},
			},
		})
	}

	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
