// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "tour-workers/internal/models"

type Input struct {
	QueryType      string                 `json:"queryType"`
	UserID         string                 `json:"userId,omitempty"`
	SubscriptionID string                 `json:"subscriptionId,omitempty"`
	Limit          int                    `json:"limit,omitempty"`
	Params         map[string]interface{} `json:"params,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeSearchHistory       = models.QueryTypeSearchHistory
	QueryTypeActiveSubscriptions = models.QueryTypeActiveSubscriptions
	QueryTypeUserPriorities      = models.QueryTypeUserPriorities
	QueryTypeSaveSearchResults   = models.QueryTypeSaveSearchResults
)
