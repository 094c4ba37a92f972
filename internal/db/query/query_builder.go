package query

import (
	"gorm.io/gorm"
)

// QueryBuilder collects the filter, ordering and paging of a list query and
// applies them to a gorm statement.
type QueryBuilder struct {
	where    *FilterPredicate
	order    string
	page     int
	pageSize int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{order: "id DESC"}
}

func (qb *QueryBuilder) Where(p *FilterPredicate) *QueryBuilder {
	qb.where = p
	return qb
}

func (qb *QueryBuilder) OrderBy(order string) *QueryBuilder {
	qb.order = order
	return qb
}

// Page selects a 1-based page. Non-positive values fall back to page 1 and
// to no limit respectively.
func (qb *QueryBuilder) Page(page, pageSize int) *QueryBuilder {
	qb.page = page
	qb.pageSize = pageSize
	return qb
}

// Filter applies only the WHERE clause, e.g. before a COUNT.
func (qb *QueryBuilder) Filter(tx *gorm.DB) *gorm.DB {
	if clause, args := qb.where.Build(); clause != "" {
		tx = tx.Where(clause, args...)
	}
	return tx
}

// Build applies filter, order and paging.
func (qb *QueryBuilder) Build(tx *gorm.DB) *gorm.DB {
	tx = qb.Filter(tx)
	if qb.order != "" {
		tx = tx.Order(qb.order)
	}
	if qb.pageSize > 0 {
		page := qb.page
		if page < 1 {
			page = 1
		}
		tx = tx.Offset((page - 1) * qb.pageSize).Limit(qb.pageSize)
	}
	return tx
}
