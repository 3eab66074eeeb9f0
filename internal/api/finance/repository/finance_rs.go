package financeRepository

import (
	"ProjectFinance/internal/api/finance"
	"ProjectFinance/internal/api/finance/query"
	"ProjectFinance/internal/entity"
	contextPkg "ProjectFinance/pkg/context"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type FinanceRecordDB struct {
	ID        sql.NullString      `db:"id"`
	UserID    sql.NullString      `db:"user_id"`
	Title     sql.NullString      `db:"title"`
	Amount    decimal.NullDecimal `db:"amount"`
	Type      sql.NullString      `db:"type"`
	Category  sql.NullString      `db:"category"`
	CreatedAt time.Time           `db:"created_at"`
	UpdatedAt time.Time           `db:"updated_at"`
}

type GroupTotalDB struct {
	GroupKey sql.NullString      `db:"group_key"`
	Total    decimal.NullDecimal `db:"total"`
}

func (r *financeRepository) CreateRecord(c context.Context, record entity.FinanceRecord) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         record.ID,
		"user_id":    record.UserID,
		"title":      record.Title,
		"amount":     record.Amount,
		"type":       string(record.Type),
		"category":   nullableCategory(record.Category),
		"created_at": record.CreatedAt.UTC(),
		"updated_at": record.UpdatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryCreateRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRecord")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating finance record")
		return err
	}

	return nil
}

func (r *financeRepository) GetRecordByID(c context.Context, id string) (entity.FinanceRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var record FinanceRecordDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetRecordByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordByID named query preparation err")
		return entity.FinanceRecord{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"id":         id,
			}).Warn("GetRecordByID no rows found")
			return entity.FinanceRecord{}, finance.ErrRecordNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecordByID execution err")
		return entity.FinanceRecord{}, err
	}

	return r.makeFinanceRecord(record), nil
}

// UpdateRecord rewrites the mutable fields of a record. A record owned by
// someone else reports ErrRecordNotFound, same as a missing one.
func (r *financeRepository) UpdateRecord(c context.Context, record entity.FinanceRecord) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         record.ID,
		"user_id":    record.UserID,
		"title":      record.Title,
		"amount":     record.Amount,
		"type":       string(record.Type),
		"category":   nullableCategory(record.Category),
		"updated_at": record.UpdatedAt.UTC(),
	}

	query, args, err := sqlx.Named(queryUpdateRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateRecord named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	return r.execAffectingOne(c, "UpdateRecord", query, args)
}

func (r *financeRepository) DeleteRecord(c context.Context, id string, userID string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":      id,
		"user_id": userID,
	}

	query, args, err := sqlx.Named(queryDeleteRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteRecord named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	return r.execAffectingOne(c, "DeleteRecord", query, args)
}

func (r *financeRepository) execAffectingOne(c context.Context, operation string, query string, args []interface{}) error {
	requestID := contextPkg.GetRequestID(c)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(operation + " execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(operation + " rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn(operation + " no rows affected")
		return finance.ErrRecordNotFound
	}

	return nil
}

func (r *financeRepository) Find(c context.Context, predicate query.Predicate) ([]entity.FinanceRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var records []FinanceRecordDB

	where, argsKV := buildWhere(predicate)

	query, args, err := sqlx.Named(fmt.Sprintf(queryFindRecords, where), argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Find named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &records, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Find execution err")
		return nil, err
	}

	result := make([]entity.FinanceRecord, 0, len(records))
	for _, record := range records {
		result = append(result, r.makeFinanceRecord(record))
	}

	return result, nil
}

// Aggregate sums amounts per group inside the database, largest total first.
func (r *financeRepository) Aggregate(c context.Context, predicate query.Predicate, key query.GroupKey) ([]query.GroupTotal, error) {
	requestID := contextPkg.GetRequestID(c)

	expression, ok := groupExpressions[string(key)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported group key %q", finance.ErrInvalidParameter, key)
	}

	var rows []GroupTotalDB
	where, argsKV := buildWhere(predicate)

	q, args, err := sqlx.Named(fmt.Sprintf(queryAggregateRecords, expression, where), argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Aggregate named query preparation err")
		return nil, err
	}
	q = r.q.Rebind(q)

	if err := r.q.SelectContext(c, &rows, q, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"group_by":   key,
			"error":      err.Error(),
		}).Error("Aggregate execution err")
		return nil, err
	}

	groups := make([]query.GroupTotal, 0, len(rows))
	for _, row := range rows {
		total := decimal.Zero
		if row.Total.Valid {
			total = row.Total.Decimal
		}
		groups = append(groups, query.GroupTotal{
			Key:   row.GroupKey.String,
			Total: total,
		})
	}

	return groups, nil
}

func (r *financeRepository) makeFinanceRecord(record FinanceRecordDB) entity.FinanceRecord {
	amount := decimal.Zero
	if record.Amount.Valid {
		amount = record.Amount.Decimal
	}

	return entity.FinanceRecord{
		ID:        record.ID.String,
		UserID:    record.UserID.String,
		Title:     record.Title.String,
		Amount:    amount,
		Type:      entity.RecordType(record.Type.String),
		Category:  entity.Category(record.Category.String),
		CreatedAt: record.CreatedAt.UTC(),
		UpdatedAt: record.UpdatedAt.UTC(),
	}
}

func nullableCategory(c entity.Category) sql.NullString {
	return sql.NullString{String: string(c), Valid: c != ""}
}
