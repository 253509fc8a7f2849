package categories

const (
	queryExists = `
		SELECT EXISTS (
			SELECT 1 FROM categorias WHERE user_id = $1 LIMIT 1
		)
	`

	queryInsert = `
		INSERT INTO categorias (nome, tipo, cor, icone, user_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	queryCountByUser = `
		SELECT COUNT(*) FROM categorias WHERE user_id = $1
	`
)
