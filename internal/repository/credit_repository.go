package repository

import (
	"context"

	"assessly-backend/internal/db"
	"assessly-backend/internal/model"
)

type CreditRepository interface {
	SumByCompany(ctx context.Context, companyID uint) (int64, error)
}

type creditRepository struct {
	qe *db.QueryExecutor
}

func NewCreditRepository(qe *db.QueryExecutor) CreditRepository {
	return &creditRepository{qe: qe}
}

// SumByCompany returns the credit balance of a company, 0 when it has no rows.
func (r *creditRepository) SumByCompany(ctx context.Context, companyID uint) (int64, error) {
	var total int64
	err := r.qe.Conn(ctx).Model(&model.Credit{}).
		Where("company_id = ?", companyID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
