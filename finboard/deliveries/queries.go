package deliveries

const (
	queryRecord = `
		INSERT INTO webhook_deliveries (correlation_id, source, user_id, status, reason, outcome, error, received_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
	`

	queryListByUser = `
		SELECT correlation_id, source, COALESCE(user_id, ''), status, reason, outcome, error, received_at
		FROM webhook_deliveries
		WHERE user_id = $1
		ORDER BY received_at DESC
		LIMIT $2
	`
)
