package db

import (
	"context"

	"gorm.io/gorm"

	"assessly-backend/internal/db/query"
)

// QueryExecutor handles database queries.
type QueryExecutor struct {
	DB *gorm.DB
}

type txKey struct{}

// NewQueryExecutor creates a new instance of QueryExecutor.
func NewQueryExecutor(db *gorm.DB) *QueryExecutor {
	return &QueryExecutor{DB: db}
}

// Conn returns the handle to run a query on: the transaction carried by ctx
// if there is one, the pool otherwise.
func (qe *QueryExecutor) Conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return qe.DB.WithContext(ctx)
}

// Transaction runs fn in a database transaction. Repositories called with the
// ctx passed to fn join that transaction.
func (qe *QueryExecutor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return qe.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Count returns the number of rows of table that match the predicate.
func (qe *QueryExecutor) Count(ctx context.Context, table string, where *query.FilterPredicate) (int64, error) {
	var count int64
	tx := qe.Conn(ctx).Table(table)
	if clause, args := where.Build(); clause != "" {
		tx = tx.Where(clause, args...)
	}
	err := tx.Count(&count).Error
	return count, err
}

// Exists checks if a row matching the predicate exists.
func (qe *QueryExecutor) Exists(ctx context.Context, table string, where *query.FilterPredicate) (bool, error) {
	n, err := qe.Count(ctx, table, where)
	return n > 0, err
}

// RawExec executes a raw SQL command.
func (qe *QueryExecutor) RawExec(ctx context.Context, sql string, args ...interface{}) error {
	return qe.Conn(ctx).Exec(sql, args...).Error
}
