// internal/workers/data-access/query-postgresql/queries/subscription.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func ActiveSubscriptions(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	query := `
		SELECT id, user_id, destination, channel, min_drop_percent, created_at
		FROM price_subscriptions
		WHERE is_active = true`
	args := []interface{}{}
	if userID, ok := params["userId"].(string); ok && userID != "" {
		query += ` AND user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, userID, destination, channel, createdAt string
		var minDropPercent float64
		err := rows.Scan(&id, &userID, &destination, &channel, &minDropPercent, &createdAt)
		if err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":             id,
			"userId":         userID,
			"destination":    destination,
			"channel":        channel,
			"minDropPercent": minDropPercent,
			"createdAt":      createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func UserPriorities(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok || userID == "" {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT criterion, weight
		FROM user_priorities
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	priorities := map[string]interface{}{}
	for rows.Next() {
		var criterion string
		var weight float64
		if err := rows.Scan(&criterion, &weight); err != nil {
			return nil, 0, 0, err
		}
		priorities[criterion] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return priorities, len(priorities), execTime, nil
}
