// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeSearchHistory       QueryType = "search_history"
	QueryTypeActiveSubscriptions QueryType = "active_subscriptions"
	QueryTypeUserPriorities      QueryType = "user_priorities"
	QueryTypeSaveSearchResults   QueryType = "save_search_results"
)
