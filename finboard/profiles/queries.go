package profiles

const (
	// only the listed columns are overwritten on conflict
	queryUpsert = `
		INSERT INTO profiles (id, email, name, organization_name, telefone, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			organization_name = EXCLUDED.organization_name,
			telefone = EXCLUDED.telefone,
			updated_at = EXCLUDED.updated_at
	`

	queryFindByID = `
		SELECT id, email, name, organization_name, telefone, updated_at
		FROM profiles
		WHERE id = $1
	`
)
