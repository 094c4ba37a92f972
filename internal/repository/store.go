package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"assessly-backend/internal/db"
	"assessly-backend/internal/db/query"
)

// ListParams selects one page of a list, optionally narrowed by a free text
// search on the store's search column.
type ListParams struct {
	Page     int
	PageSize int
	Query    string
}

// Page is one page of a list result.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Store is a gorm-backed CRUD store for flat entities keyed by a uint id.
type Store[T any] struct {
	qe           *db.QueryExecutor
	searchColumn string
}

// NewStore returns a store. searchColumn is matched by ListParams.Query and
// may be empty to disable search.
func NewStore[T any](qe *db.QueryExecutor, searchColumn string) *Store[T] {
	return &Store[T]{qe: qe, searchColumn: searchColumn}
}

func (s *Store[T]) List(ctx context.Context, p ListParams, where *query.FilterPredicate) (Page[T], error) {
	if where == nil {
		where = query.NewFilterPredicate()
	}
	if p.Query != "" && s.searchColumn != "" {
		where.And().Like(s.searchColumn, p.Query)
	}
	qb := query.NewQueryBuilder().Where(where).Page(p.Page, p.PageSize)

	out := Page[T]{Items: make([]T, 0), Page: max(p.Page, 1), PageSize: p.PageSize}
	if err := qb.Filter(s.qe.Conn(ctx).Model(new(T))).Count(&out.Total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}
	if err := qb.Build(s.qe.Conn(ctx).Model(new(T))).Find(&out.Items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

func (s *Store[T]) Get(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := s.qe.Conn(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (s *Store[T]) Create(ctx context.Context, item *T) error {
	return translate(s.qe.Conn(ctx).Create(item).Error)
}

// Update overwrites every column of row id with item, zero values included.
func (s *Store[T]) Update(ctx context.Context, id uint, item *T) (*T, error) {
	res := s.qe.Conn(ctx).Model(new(T)).Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(item)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	res := s.qe.Conn(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
