// internal/workers/data-access/query-hotel-index/models.go
package queryhotelindex

type Input struct {
	IndexName   string                 `json:"indexName,omitempty"`
	QueryType   string                 `json:"queryType"`
	HotelName   string                 `json:"hotelName,omitempty"`
	Destination string                 `json:"destination,omitempty"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
	Pagination  Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

// Output carries hit sources with the ES relevance score attached under
// "_score" so downstream enrichment can rank candidates.
type Output struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
	MaxScore  float64                  `json:"maxScore"`
	Took      int64                    `json:"took"` // milliseconds
}
