package repository

import (
	"context"

	"gorm.io/datatypes"

	"assessly-backend/internal/db"
	"assessly-backend/internal/db/query"
	"assessly-backend/internal/model"
)

// GameFilter narrows a game listing.
type GameFilter struct {
	CompanyID *uint
	Code      string
}

type GameRepository interface {
	// SaveSubmission consumes the access code and stores the record in one
	// transaction.
	SaveSubmission(ctx context.Context, rec *model.GameRecord) error
	Get(ctx context.Context, id uint) (*model.GameRecord, error)
	List(ctx context.Context, f GameFilter, p ListParams) (Page[model.GameRecord], error)
	UpdateReports(ctx context.Context, id uint, reports []model.CategoryReport) error
}

type gameRepository struct {
	qe    *db.QueryExecutor
	codes AccessCodeRepository
	store *Store[model.GameRecord]
}

func NewGameRepository(qe *db.QueryExecutor, codes AccessCodeRepository) GameRepository {
	return &gameRepository{qe: qe, codes: codes, store: NewStore[model.GameRecord](qe, "")}
}

func (r *gameRepository) SaveSubmission(ctx context.Context, rec *model.GameRecord) error {
	return r.qe.Transaction(ctx, func(ctx context.Context) error {
		if err := r.codes.MarkUsed(ctx, rec.Code, rec.CompletedAt); err != nil {
			return err
		}
		return translate(r.qe.Conn(ctx).Create(rec).Error)
	})
}

func (r *gameRepository) Get(ctx context.Context, id uint) (*model.GameRecord, error) {
	return r.store.Get(ctx, id)
}

func (r *gameRepository) List(ctx context.Context, f GameFilter, p ListParams) (Page[model.GameRecord], error) {
	where := query.NewFilterPredicate()
	if f.CompanyID != nil {
		where.And().Equal("company_id", *f.CompanyID)
	}
	if f.Code != "" {
		where.And().Equal("code", f.Code)
	}
	return r.store.List(ctx, p, where)
}

// UpdateReports replaces the stored match result wholesale.
func (r *gameRepository) UpdateReports(ctx context.Context, id uint, reports []model.CategoryReport) error {
	if reports == nil {
		reports = []model.CategoryReport{}
	}
	res := r.qe.Conn(ctx).Model(&model.GameRecord{ID: id}).
		Update("reports", datatypes.JSONSlice[model.CategoryReport](reports))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
