package financeRepository

const (
	recordColumns = `
			id,
			user_id,
			title,
			amount,
			type,
			category,
			created_at,
			updated_at`

	queryCreateRecord = `
		INSERT INTO finance_records (
			id,
			user_id,
			title,
			amount,
			type,
			category,
			created_at,
			updated_at
		) VALUES (
			:id,
			:user_id,
			:title,
			:amount,
			:type,
			:category,
			:created_at,
			:updated_at
		)
	`

	queryGetRecordByID = `
		SELECT` + recordColumns + `
		FROM finance_records
		WHERE id = :id
	`

	queryUpdateRecord = `
		UPDATE finance_records
		SET
			title = :title,
			amount = :amount,
			type = :type,
			category = :category,
			updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`

	queryDeleteRecord = `
		DELETE FROM finance_records
		WHERE id = :id AND user_id = :user_id
	`

	// %s receives the WHERE clause built from a predicate.
	queryFindRecords = `
		SELECT` + recordColumns + `
		FROM finance_records
		WHERE %s
		ORDER BY created_at DESC
	`

	// First %s is the grouping expression, second the WHERE clause.
	queryAggregateRecords = `
		SELECT
			%s AS group_key,
			COALESCE(SUM(amount), 0) AS total
		FROM finance_records
		WHERE %s
		GROUP BY 1
		ORDER BY total DESC, group_key ASC
	`
)

var groupExpressions = map[string]string{
	"category": `COALESCE(NULLIF(category, ''), 'uncategorized')`,
	"type":     `type`,
}
