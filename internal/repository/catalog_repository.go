package repository

import (
	"context"
	"fmt"

	"assessly-backend/internal/db"
	"assessly-backend/internal/db/query"
	"assessly-backend/internal/model"
	"assessly-backend/utilities"
)

// CatalogTable names the answer-signature table of a category and the
// results table its rows point into.
type CatalogTable struct {
	Answers string
	Results string
}

// CatalogTables maps every category to its catalog tables.
var CatalogTables = map[model.Category]CatalogTable{
	model.CustomerFocus:         {Answers: "mo_answers", Results: "mo_results"},
	model.UncertaintyManagement: {Answers: "by_answers", Results: "by_results"},
	model.Influence:             {Answers: "ie_answers", Results: "ie_results"},
	model.Collaboration:         {Answers: "idik_answers", Results: "idik_results"},
}

// CatalogEntry is one report together with every signature that resolves to it.
type CatalogEntry struct {
	Report     model.EvaluationReport
	Signatures []string
}

type CatalogRepository interface {
	FindReport(ctx context.Context, category model.Category, signature, compact string) (*model.EvaluationReport, error)
	ListAnswers(ctx context.Context, category model.Category, p ListParams) (Page[model.CatalogAnswer], error)
	CreateAnswer(ctx context.Context, category model.Category, answer *model.CatalogAnswer) error
	CreateReport(ctx context.Context, category model.Category, report *model.EvaluationReport) error
	Import(ctx context.Context, category model.Category, entries []CatalogEntry) error
}

type catalogRepository struct {
	qe  *db.QueryExecutor
	log *utilities.Logger
}

func NewCatalogRepository(qe *db.QueryExecutor, log *utilities.Logger) CatalogRepository {
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &catalogRepository{qe: qe, log: log.With("repository", "catalog")}
}

// MigrateCatalog creates the per-category catalog tables and their signature
// indexes.
func MigrateCatalog(ctx context.Context, qe *db.QueryExecutor) error {
	for _, c := range model.Categories {
		t := CatalogTables[c]
		conn := qe.Conn(ctx)
		if err := conn.Table(t.Answers).AutoMigrate(&model.CatalogAnswer{}); err != nil {
			return fmt.Errorf("migrate %s: %w", t.Answers, err)
		}
		if err := conn.Table(t.Results).AutoMigrate(&model.EvaluationReport{}); err != nil {
			return fmt.Errorf("migrate %s: %w", t.Results, err)
		}
		idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_signature ON %s (signature)", t.Answers, t.Answers)
		if err := qe.RawExec(ctx, idx); err != nil {
			return fmt.Errorf("index %s: %w", t.Answers, err)
		}
	}
	return nil
}

// FindReport matches a stored signature equal to either delimiter variant.
// When several rows match, the lowest id wins.
func (r *catalogRepository) FindReport(ctx context.Context, category model.Category, signature, compact string) (*model.EvaluationReport, error) {
	t, err := tablesFor(category)
	if err != nil {
		return nil, err
	}

	clause, args := query.NewFilterPredicate().In("signature", signature, compact).Build()
	var rows []model.CatalogAnswer
	err = r.qe.Conn(ctx).Table(t.Answers).
		Where(clause, args...).
		Order("id ASC").
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) > 1 {
		r.log.Debug("signature matches several catalog rows",
			"category", category, "signature", signature, "chosen_id", rows[0].ID)
	}

	var reports []model.EvaluationReport
	err = r.qe.Conn(ctx).Table(t.Results).
		Where("id = ?", rows[0].ResultID).
		Limit(1).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		r.log.Warn("catalog answer points at a missing report",
			"category", category, "answer_id", rows[0].ID, "result_id", rows[0].ResultID)
		return nil, nil
	}
	return &reports[0], nil
}

func (r *catalogRepository) ListAnswers(ctx context.Context, category model.Category, p ListParams) (Page[model.CatalogAnswer], error) {
	t, err := tablesFor(category)
	if err != nil {
		return Page[model.CatalogAnswer]{}, err
	}
	where := query.NewFilterPredicate()
	if p.Query != "" {
		where.Like("signature", p.Query)
	}
	qb := query.NewQueryBuilder().Where(where).OrderBy("id ASC").Page(p.Page, p.PageSize)

	out := Page[model.CatalogAnswer]{Items: make([]model.CatalogAnswer, 0), Page: max(p.Page, 1), PageSize: p.PageSize}
	if err := qb.Filter(r.qe.Conn(ctx).Table(t.Answers)).Count(&out.Total).Error; err != nil {
		return Page[model.CatalogAnswer]{}, err
	}
	if err := qb.Build(r.qe.Conn(ctx).Table(t.Answers)).Find(&out.Items).Error; err != nil {
		return Page[model.CatalogAnswer]{}, err
	}
	return out, nil
}

// CreateAnswer refuses rows pointing at a report that does not exist.
func (r *catalogRepository) CreateAnswer(ctx context.Context, category model.Category, answer *model.CatalogAnswer) error {
	t, err := tablesFor(category)
	if err != nil {
		return err
	}
	ok, err := r.qe.Exists(ctx, t.Results, query.NewFilterPredicate().Equal("id", answer.ResultID))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: report %d in %s", ErrNotFound, answer.ResultID, t.Results)
	}
	return translate(r.qe.Conn(ctx).Table(t.Answers).Create(answer).Error)
}

func (r *catalogRepository) CreateReport(ctx context.Context, category model.Category, report *model.EvaluationReport) error {
	t, err := tablesFor(category)
	if err != nil {
		return err
	}
	return translate(r.qe.Conn(ctx).Table(t.Results).Create(report).Error)
}

// Import stores every entry of one category in a single transaction.
func (r *catalogRepository) Import(ctx context.Context, category model.Category, entries []CatalogEntry) error {
	t, err := tablesFor(category)
	if err != nil {
		return err
	}
	return r.qe.Transaction(ctx, func(ctx context.Context) error {
		for i := range entries {
			report := entries[i].Report
			if err := r.qe.Conn(ctx).Table(t.Results).Create(&report).Error; err != nil {
				return fmt.Errorf("import report %q: %w", report.Title, err)
			}
			for _, sig := range entries[i].Signatures {
				row := model.CatalogAnswer{Signature: sig, ResultID: report.ID}
				if err := r.qe.Conn(ctx).Table(t.Answers).Create(&row).Error; err != nil {
					return fmt.Errorf("import signature %q: %w", sig, err)
				}
			}
		}
		return nil
	})
}

func tablesFor(category model.Category) (CatalogTable, error) {
	t, ok := CatalogTables[category]
	if !ok {
		return CatalogTable{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return t, nil
}
