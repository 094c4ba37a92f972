// Package matching resolves answer signatures against the pre-authored
// evaluation report catalog, one catalog per category.
package matching

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"assessly-backend/internal/model"
)

// CatalogLookup finds the report linked to a signature in a category's
// catalog. A stored signature equal to either variant matches. It returns
// nil, nil when nothing matches or when the linked report row is missing.
type CatalogLookup interface {
	FindReport(ctx context.Context, category model.Category, signature, compact string) (*model.EvaluationReport, error)
}

// Observer is told about every catalog lookup the matcher performs.
type Observer func(category model.Category, matched bool, took time.Duration, err error)

// Option configures a Matcher.
type Option func(*Matcher)

// WithObserver registers a lookup observer, e.g. for metrics.
func WithObserver(o Observer) Option {
	return func(m *Matcher) {
		if o != nil {
			m.observe = o
		}
	}
}

// Matcher derives category signatures and resolves them to reports.
type Matcher struct {
	lookup  CatalogLookup
	observe Observer
}

func NewMatcher(lookup CatalogLookup, opts ...Option) *Matcher {
	m := &Matcher{
		lookup:  lookup,
		observe: func(model.Category, bool, time.Duration, error) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of matching one submission.
type Result struct {
	// Reports holds at most one entry per category, in category order.
	Reports []model.CategoryReport
	// Answered lists the categories the submission carried answers for,
	// "-" entries included.
	Answered []model.Category
	// Signed lists the categories that produced a non-empty signature.
	Signed []model.Category
}

// Empty reports whether no category resolved to a report.
func (r Result) Empty() bool { return len(r.Reports) == 0 }

// Submitted reports whether any category carried answers at all. A result
// can be Empty and still Submitted when nothing matched.
func (r Result) Submitted() bool { return len(r.Answered) > 0 }

// MatchReport resolves one category signature. An empty signature is never
// looked up.
func (m *Matcher) MatchReport(ctx context.Context, category model.Category, signature string) (*model.EvaluationReport, error) {
	if signature == "" {
		return nil, nil
	}
	start := time.Now()
	report, err := m.lookup.FindReport(ctx, category, signature, CompactSignature(signature))
	m.observe(category, report != nil, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogLookup, category, err)
	}
	return report, nil
}

// MatchAll matches every category of a submission independently. Lookups
// run concurrently; any lookup error fails the whole call and no partial
// result is returned.
func (m *Matcher) MatchAll(ctx context.Context, answers []model.Answer) (Result, error) {
	groups := model.GroupByCategory(answers)

	signatures := make([]string, len(model.Categories))
	reports := make([]*model.EvaluationReport, len(model.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range model.Categories {
		signatures[i] = BuildSignature(groups[c])
		if signatures[i] == "" {
			continue
		}
		g.Go(func() error {
			r, err := m.MatchReport(gctx, c, signatures[i])
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, c := range model.Categories {
		if len(groups[c]) > 0 {
			res.Answered = append(res.Answered, c)
		}
		if signatures[i] == "" {
			continue
		}
		res.Signed = append(res.Signed, c)
		if reports[i] == nil {
			continue
		}
		res.Reports = append(res.Reports, model.CategoryReport{
			Category:  c,
			Signature: signatures[i],
			Report:    *reports[i],
		})
	}
	return res, nil
}
