package repository

import (
	"context"
	"strings"

	"assessly-backend/internal/db"
	"assessly-backend/internal/model"
)

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
}

type adminRepository struct {
	qe *db.QueryExecutor
}

func NewAdminRepository(qe *db.QueryExecutor) AdminRepository {
	return &adminRepository{qe: qe}
}

// GetByEmail matches the address case-insensitively.
func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.qe.Conn(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return translate(r.qe.Conn(ctx).Create(admin).Error)
}
