package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"assessly-backend/internal/cache"
	"assessly-backend/internal/repository"
	"assessly-backend/utilities"
)

type CreditService interface {
	Balance(ctx context.Context, companyID uint) (int64, error)
	Invalidate(ctx context.Context, companyID uint)
}

type creditService struct {
	credits repository.CreditRepository
	cache   cache.Cache
	ttl     time.Duration
	log     *utilities.Logger

	// gens counts invalidations per company so a sum read before a write
	// is never cached after it.
	mu   sync.Mutex
	gens map[uint]uint64
}

func NewCreditService(credits repository.CreditRepository, c cache.Cache, ttl time.Duration, log *utilities.Logger) CreditService {
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &creditService{
		credits: credits,
		cache:   c,
		ttl:     ttl,
		log:     log.With("service", "credit"),
		gens:    make(map[uint]uint64),
	}
}

func balanceKey(companyID uint) string {
	return "credits:balance:" + strconv.FormatUint(uint64(companyID), 10)
}

// Balance serves from the cache and falls back to summing the rows. Cache
// failures only cost a database round trip.
func (s *creditService) Balance(ctx context.Context, companyID uint) (int64, error) {
	key := balanceKey(companyID)
	if v, err := s.cache.Get(ctx, key); err == nil {
		if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			return n, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("credit cache read failed", "company_id", companyID, "error", err)
	}

	gen := s.generation(companyID)
	total, err := s.credits.SumByCompany(ctx, companyID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[companyID] != gen {
		s.log.Debug("credit balance changed during read, not caching", "company_id", companyID)
		return total, nil
	}
	if err := s.cache.Set(ctx, key, strconv.FormatInt(total, 10), s.ttl); err != nil {
		s.log.Warn("credit cache write failed", "company_id", companyID, "error", err)
	}
	return total, nil
}

func (s *creditService) generation(companyID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[companyID]
}

// Invalidate drops the cached balance. Reads already in flight will not
// repopulate it.
func (s *creditService) Invalidate(ctx context.Context, companyID uint) {
	s.mu.Lock()
	s.gens[companyID]++
	s.mu.Unlock()
	if err := s.cache.Delete(ctx, balanceKey(companyID)); err != nil {
		s.log.Warn("credit cache invalidation failed", "company_id", companyID, "error", err)
	}
}
