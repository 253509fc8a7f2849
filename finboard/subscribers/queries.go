package subscribers

const (
	// created_at is left out of the update list so the first insert time survives replays
	queryUpsertTrial = `
		INSERT INTO subscribers (
			user_id, email, stripe_customer_id, subscribed, subscription_tier,
			subscription_start, subscription_end, trial_start, trial_end,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			subscribed = EXCLUDED.subscribed,
			subscription_tier = EXCLUDED.subscription_tier,
			subscription_start = EXCLUDED.subscription_start,
			subscription_end = EXCLUDED.subscription_end,
			trial_start = EXCLUDED.trial_start,
			trial_end = EXCLUDED.trial_end,
			updated_at = EXCLUDED.updated_at
	`

	queryInsertTrialIfAbsent = `
		INSERT INTO subscribers (
			user_id, email, stripe_customer_id, subscribed, subscription_tier,
			subscription_start, subscription_end, trial_start, trial_end,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING trial_start, trial_end
	`

	queryFindByUserID = `
		SELECT user_id, email, stripe_customer_id, subscribed, subscription_tier,
			subscription_start, subscription_end, trial_start, trial_end,
			created_at, updated_at
		FROM subscribers
		WHERE user_id = $1
	`
)
