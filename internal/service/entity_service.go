package service

import (
	"context"
	"fmt"

	"assessly-backend/internal/db"
	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
)

// EntityHooks customizes an EntityService. Every hook is optional.
type EntityHooks[T any] struct {
	// BeforeSave runs before create (existing is nil) and update.
	BeforeSave func(ctx context.Context, existing, incoming *T) error
	// AfterChange runs after a successful write with every affected version.
	AfterChange func(ctx context.Context, changed ...*T)
	// Present prepares an entity for the API, e.g. clearing secrets.
	Present func(*T)
}

// EntityService is the CRUD service behind the organizational entities.
type EntityService[T any] struct {
	store *repository.Store[T]
	hooks EntityHooks[T]
}

func NewEntityService[T any](store *repository.Store[T], hooks EntityHooks[T]) *EntityService[T] {
	return &EntityService[T]{store: store, hooks: hooks}
}

func (s *EntityService[T]) List(ctx context.Context, p repository.ListParams) (repository.Page[T], error) {
	page, err := s.store.List(ctx, p, nil)
	if err != nil {
		return page, err
	}
	for i := range page.Items {
		s.present(&page.Items[i])
	}
	return page, nil
}

func (s *EntityService[T]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	s.present(item)
	return item, nil
}

func (s *EntityService[T]) Create(ctx context.Context, item *T) error {
	if s.hooks.BeforeSave != nil {
		if err := s.hooks.BeforeSave(ctx, nil, item); err != nil {
			return err
		}
	}
	if err := s.store.Create(ctx, item); err != nil {
		return translateRepoErr(err)
	}
	s.afterChange(ctx, item)
	s.present(item)
	return nil
}

func (s *EntityService[T]) Update(ctx context.Context, id uint, item *T) (*T, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	if s.hooks.BeforeSave != nil {
		if err := s.hooks.BeforeSave(ctx, existing, item); err != nil {
			return nil, err
		}
	}
	updated, err := s.store.Update(ctx, id, item)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	s.afterChange(ctx, existing, updated)
	s.present(updated)
	return updated, nil
}

func (s *EntityService[T]) Delete(ctx context.Context, id uint) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return translateRepoErr(err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return translateRepoErr(err)
	}
	s.afterChange(ctx, existing)
	return nil
}

func (s *EntityService[T]) afterChange(ctx context.Context, changed ...*T) {
	if s.hooks.AfterChange != nil {
		s.hooks.AfterChange(ctx, changed...)
	}
}

func (s *EntityService[T]) present(item *T) {
	if s.hooks.Present != nil {
		s.hooks.Present(item)
	}
}

// AdminHooks hash passwords on write, keep the stored hash when an update
// leaves the password empty, and never present it.
func AdminHooks() EntityHooks[model.Admin] {
	return EntityHooks[model.Admin]{
		BeforeSave: func(_ context.Context, existing, incoming *model.Admin) error {
			if incoming.Password == "" {
				if existing == nil {
					return fmt.Errorf("%w: password is required", ErrInvalidInput)
				}
				incoming.Password = existing.Password
				return nil
			}
			hash, err := HashPassword(incoming.Password)
			if err != nil {
				return err
			}
			incoming.Password = hash
			return nil
		},
		Present: func(a *model.Admin) { a.Redact() },
	}
}

// CreditHooks drop the cached balance of every company a write touched.
func CreditHooks(credits CreditService) EntityHooks[model.Credit] {
	return EntityHooks[model.Credit]{
		AfterChange: func(ctx context.Context, changed ...*model.Credit) {
			seen := make(map[uint]bool, len(changed))
			for _, c := range changed {
				if c == nil || seen[c.CompanyID] {
					continue
				}
				seen[c.CompanyID] = true
				credits.Invalidate(ctx, c.CompanyID)
			}
		},
	}
}

// Entities holds the CRUD services of the organizational entities.
type Entities struct {
	Admins        *EntityService[model.Admin]
	Companies     *EntityService[model.Company]
	Competencies  *EntityService[model.Competency]
	Credits       *EntityService[model.Credit]
	Groups        *EntityService[model.Group]
	Organizations *EntityService[model.Organization]
}

// NewEntities builds every entity service on qe. Lists search admins by
// email, credits by note and everything else by name.
func NewEntities(qe *db.QueryExecutor, credits CreditService) Entities {
	return Entities{
		Admins:        NewEntityService(repository.NewStore[model.Admin](qe, "email"), AdminHooks()),
		Companies:     NewEntityService(repository.NewStore[model.Company](qe, "name"), EntityHooks[model.Company]{}),
		Competencies:  NewEntityService(repository.NewStore[model.Competency](qe, "name"), EntityHooks[model.Competency]{}),
		Credits:       NewEntityService(repository.NewStore[model.Credit](qe, "note"), CreditHooks(credits)),
		Groups:        NewEntityService(repository.NewStore[model.Group](qe, "name"), EntityHooks[model.Group]{}),
		Organizations: NewEntityService(repository.NewStore[model.Organization](qe, "name"), EntityHooks[model.Organization]{}),
	}
}
