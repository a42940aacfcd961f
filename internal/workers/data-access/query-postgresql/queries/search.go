// internal/workers/data-access/query-postgresql/queries/search.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func SearchHistory(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok || userID == "" {
		return nil, 0, 0, ErrMissingParam
	}
	limit := 20
	if l, ok := params["limit"].(int); ok && l > 0 {
		limit = l
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, destination, budget, budget_type, adults, children,
		       card_count, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, destination, budgetType, createdAt string
		var budget float64
		var adults, children, cardCount int
		err := rows.Scan(&id, &destination, &budget, &budgetType,
			&adults, &children, &cardCount, &createdAt)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":          id,
			"destination": destination,
			"budget":      budget,
			"budgetType":  budgetType,
			"adults":      adults,
			"children":    children,
			"cardCount":   cardCount,
			"createdAt":   createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func SaveSearchResults(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok || userID == "" {
		return nil, 0, 0, ErrMissingParam
	}
	destination, _ := params["destination"].(string)
	budget := toFloat(params["budget"])
	budgetType, _ := params["budgetType"].(string)
	adults := toInt(params["adults"])
	children := toInt(params["children"])
	cardCount := toInt(params["cardCount"])

	start := time.Now()

	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO search_history
			(user_id, destination, budget, budget_type, adults, children, card_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id`,
		userID, destination, budget, budgetType, adults, children, cardCount,
	).Scan(&id)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return map[string]interface{}{"id": id}, 1, execTime, nil
}

// Job variables arrive through JSON, so numbers show up as float64.
func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
