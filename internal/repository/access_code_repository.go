package repository

import (
	"context"
	"time"

	"assessly-backend/internal/db"
	"assessly-backend/internal/db/query"
	"assessly-backend/internal/model"
)

// AccessCodeFilter narrows a code listing. Nil fields are not filtered on.
type AccessCodeFilter struct {
	CompanyID *uint
	GroupID   *uint
	Used      *bool
}

type AccessCodeRepository interface {
	CreateBatch(ctx context.Context, codes []model.AccessCode) error
	GetByCode(ctx context.Context, code string) (*model.AccessCode, error)
	List(ctx context.Context, f AccessCodeFilter, p ListParams) (Page[model.AccessCode], error)
	MarkUsed(ctx context.Context, code string, at time.Time) error
}

type accessCodeRepository struct {
	qe    *db.QueryExecutor
	store *Store[model.AccessCode]
}

func NewAccessCodeRepository(qe *db.QueryExecutor) AccessCodeRepository {
	return &accessCodeRepository{qe: qe, store: NewStore[model.AccessCode](qe, "candidate_name")}
}

// CreateBatch inserts every code or none.
func (r *accessCodeRepository) CreateBatch(ctx context.Context, codes []model.AccessCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.qe.Transaction(ctx, func(ctx context.Context) error {
		return translate(r.qe.Conn(ctx).CreateInBatches(&codes, 100).Error)
	})
}

func (r *accessCodeRepository) GetByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	var ac model.AccessCode
	if err := r.qe.Conn(ctx).Where("code = ?", code).First(&ac).Error; err != nil {
		return nil, translate(err)
	}
	return &ac, nil
}

func (r *accessCodeRepository) List(ctx context.Context, f AccessCodeFilter, p ListParams) (Page[model.AccessCode], error) {
	where := query.NewFilterPredicate()
	if f.CompanyID != nil {
		where.And().Equal("company_id", *f.CompanyID)
	}
	if f.GroupID != nil {
		where.And().Equal("group_id", *f.GroupID)
	}
	if f.Used != nil {
		where.And().Equal("used", *f.Used)
	}
	return r.store.List(ctx, p, where)
}

// MarkUsed flips the code to used only if it is still unused, so two
// concurrent submissions cannot both consume it.
func (r *accessCodeRepository) MarkUsed(ctx context.Context, code string, at time.Time) error {
	res := r.qe.Conn(ctx).Model(&model.AccessCode{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]interface{}{"used": true, "used_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		exists, err := r.qe.Exists(ctx, "access_codes", query.NewFilterPredicate().Equal("code", code))
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyUsed
	}
	return nil
}
