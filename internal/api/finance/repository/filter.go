package financeRepository

import (
	"ProjectFinance/internal/api/finance/query"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildWhere renders a predicate as a named-parameter WHERE clause. Only fixed
// fragments reach the SQL text; every value travels as a bind argument.
func buildWhere(p query.Predicate) (string, map[string]interface{}) {
	conditions := []string{"user_id = :user_id"}
	argsKV := map[string]interface{}{
		"user_id": p.OwnerID,
	}

	if p.Type != "" {
		conditions = append(conditions, "type = :type")
		argsKV["type"] = p.Type
	}

	if p.Category != "" {
		conditions = append(conditions, "category = :category")
		argsKV["category"] = p.Category
	}

	if p.MinAmount != nil {
		conditions = append(conditions, "amount >= :min_amount")
		argsKV["min_amount"] = *p.MinAmount
	}

	if p.MaxAmount != nil {
		conditions = append(conditions, "amount <= :max_amount")
		argsKV["max_amount"] = *p.MaxAmount
	}

	if p.Keyword != "" {
		conditions = append(conditions, "(title ILIKE :keyword OR category ILIKE :keyword)")
		argsKV["keyword"] = "%" + likeEscaper.Replace(p.Keyword) + "%"
	}

	if p.Range.From != nil {
		conditions = append(conditions, "created_at >= :created_from")
		argsKV["created_from"] = p.Range.From.UTC()
	}

	if p.Range.To != nil {
		if p.Range.ToInclusive {
			conditions = append(conditions, "created_at <= :created_to")
		} else {
			conditions = append(conditions, "created_at < :created_to")
		}
		argsKV["created_to"] = p.Range.To.UTC()
	}

	return strings.Join(conditions, " AND "), argsKV
}
