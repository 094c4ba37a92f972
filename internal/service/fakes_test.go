package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"assessly-backend/internal/cache"
	"assessly-backend/internal/mail"
	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
)

type fakeCodes struct {
	mu       sync.Mutex
	codes    map[string]*model.AccessCode
	batchErr []error
	batches  int
}

func newFakeCodes(codes ...model.AccessCode) *fakeCodes {
	f := &fakeCodes{codes: make(map[string]*model.AccessCode)}
	for i := range codes {
		c := codes[i]
		f.codes[c.Code] = &c
	}
	return f
}

func (f *fakeCodes) CreateBatch(_ context.Context, codes []model.AccessCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	if len(f.batchErr) > 0 {
		err := f.batchErr[0]
		f.batchErr = f.batchErr[1:]
		if err != nil {
			return err
		}
	}
	for i := range codes {
		c := codes[i]
		f.codes[c.Code] = &c
	}
	return nil
}

func (f *fakeCodes) GetByCode(_ context.Context, code string) (*model.AccessCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCodes) List(context.Context, repository.AccessCodeFilter, repository.ListParams) (repository.Page[model.AccessCode], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := repository.Page[model.AccessCode]{}
	for _, c := range f.codes {
		out.Items = append(out.Items, *c)
	}
	out.Total = int64(len(out.Items))
	return out, nil
}

func (f *fakeCodes) MarkUsed(_ context.Context, code string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.codes[code]
	if !ok {
		return repository.ErrNotFound
	}
	if c.Used {
		return repository.ErrAlreadyUsed
	}
	c.Used = true
	c.UsedAt = &at
	return nil
}

type fakeGames struct {
	mu      sync.Mutex
	codes   *fakeCodes
	records []model.GameRecord
	saveErr error
}

func (f *fakeGames) SaveSubmission(ctx context.Context, rec *model.GameRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if err := f.codes.MarkUsed(ctx, rec.Code, rec.CompletedAt); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = uint(len(f.records) + 1)
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeGames) Get(_ context.Context, id uint) (*model.GameRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			cp := f.records[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeGames) List(_ context.Context, _ repository.GameFilter, p repository.ListParams) (repository.Page[model.GameRecord], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := repository.Page[model.GameRecord]{Total: int64(len(f.records))}
	start := 0
	if p.PageSize > 0 {
		start = (max(p.Page, 1) - 1) * p.PageSize
	}
	for i := start; i < len(f.records) && (p.PageSize == 0 || i < start+p.PageSize); i++ {
		out.Items = append(out.Items, f.records[i])
	}
	return out, nil
}

func (f *fakeGames) UpdateReports(_ context.Context, id uint, reports []model.CategoryReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Reports = reports
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeGames) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeCatalog keys reports by category and compact signature.
type fakeCatalog struct {
	mu      sync.Mutex
	reports map[model.Category]map[string]model.EvaluationReport
	fail    error
	calls   int
}

func (f *fakeCatalog) FindReport(_ context.Context, c model.Category, _, compact string) (*model.EvaluationReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	r, ok := f.reports[c][compact]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

type fakeCompanies map[uint]model.Company

func (f fakeCompanies) Get(_ context.Context, id uint) (*model.Company, error) {
	c, ok := f[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

type fakeCredits struct {
	mu    sync.Mutex
	sums  map[uint]int64
	calls int
	// afterRead runs once the sum is read, before it is returned.
	afterRead func()
}

func (f *fakeCredits) SumByCompany(_ context.Context, id uint) (int64, error) {
	f.mu.Lock()
	f.calls++
	sum := f.sums[id]
	hook := f.afterRead
	f.afterRead = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return sum, nil
}

func (f *fakeCredits) setSum(id uint, sum int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sums[id] = sum
}

// brokenCache fails every operation.
type brokenCache struct{}

var errCacheDown = errors.New("cache down")

func (brokenCache) Get(context.Context, string) (string, error) { return "", errCacheDown }
func (brokenCache) Set(context.Context, string, string, time.Duration) error { return errCacheDown }
func (brokenCache) Delete(context.Context, string) error { return errCacheDown }
func (brokenCache) Close() error { return nil }

var _ cache.Cache = brokenCache{}
