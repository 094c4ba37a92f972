package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"assessly-backend/internal/matching"
	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
)

// CatalogFile is the YAML seed format of the report catalog.
//
//	categories:
//	  - category: MO
//	    reports:
//	      - title: Customer champion
//	        strengths: ...
//	        signatures:
//	          - "AKY, AKY, KY"
//	        answers:
//	          - [AKY, AKY, CY]
type CatalogFile struct {
	Categories []CatalogCategory `yaml:"categories"`
}

type CatalogCategory struct {
	Category string          `yaml:"category"`
	Reports  []CatalogReport `yaml:"reports"`
}

// CatalogReport carries its signatures either verbatim or as answer code
// lists that are joined the way submissions are.
type CatalogReport struct {
	Title              string     `yaml:"title"`
	Strengths          string     `yaml:"strengths"`
	DevelopmentAreas   string     `yaml:"development_areas"`
	InterviewQuestions string     `yaml:"interview_questions"`
	Suggestions        string     `yaml:"suggestions"`
	Signatures         []string   `yaml:"signatures"`
	Answers            [][]string `yaml:"answers"`
}

// ParseCatalog decodes a catalog seed file.
func ParseCatalog(r io.Reader) (*CatalogFile, error) {
	var f CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: catalog yaml: %v", ErrInvalidInput, err)
	}
	return &f, nil
}

type CatalogService interface {
	ListAnswers(ctx context.Context, category model.Category, p repository.ListParams) (repository.Page[model.CatalogAnswer], error)
	CreateAnswer(ctx context.Context, category model.Category, answer *model.CatalogAnswer) error
	CreateReport(ctx context.Context, category model.Category, report *model.EvaluationReport) error
	Import(ctx context.Context, f *CatalogFile) (int, error)
}

type catalogService struct {
	catalog repository.CatalogRepository
}

func NewCatalogService(catalog repository.CatalogRepository) CatalogService {
	return &catalogService{catalog: catalog}
}

func (s *catalogService) ListAnswers(ctx context.Context, category model.Category, p repository.ListParams) (repository.Page[model.CatalogAnswer], error) {
	return s.catalog.ListAnswers(ctx, category, p)
}

func (s *catalogService) CreateAnswer(ctx context.Context, category model.Category, answer *model.CatalogAnswer) error {
	answer.Signature = strings.TrimSpace(answer.Signature)
	if answer.Signature == "" || answer.ResultID == 0 {
		return fmt.Errorf("%w: signature and result_id are required", ErrInvalidInput)
	}
	return translateRepoErr(s.catalog.CreateAnswer(ctx, category, answer))
}

func (s *catalogService) CreateReport(ctx context.Context, category model.Category, report *model.EvaluationReport) error {
	if strings.TrimSpace(report.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return translateRepoErr(s.catalog.CreateReport(ctx, category, report))
}

// Import validates the whole file before writing anything, then stores it
// category by category. It returns the number of reports stored.
func (s *catalogService) Import(ctx context.Context, f *CatalogFile) (int, error) {
	type batch struct {
		category model.Category
		entries  []repository.CatalogEntry
	}
	var batches []batch
	for _, cc := range f.Categories {
		category, err := model.ParseCategory(cc.Category)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		b := batch{category: category}
		for _, r := range cc.Reports {
			sigs := append([]string(nil), r.Signatures...)
			for _, codes := range r.Answers {
				answers := make([]model.Answer, len(codes))
				for i, c := range codes {
					answers[i] = model.Answer{Category: category, Primary: model.AnswerType(strings.TrimSpace(c))}
				}
				sigs = append(sigs, matching.BuildSignature(answers))
			}
			if len(sigs) == 0 {
				return 0, fmt.Errorf("%w: report %q in %s has no signatures", ErrInvalidInput, r.Title, category)
			}
			b.entries = append(b.entries, repository.CatalogEntry{
				Report: model.EvaluationReport{
					Title:              r.Title,
					Strengths:          r.Strengths,
					DevelopmentAreas:   r.DevelopmentAreas,
					InterviewQuestions: r.InterviewQuestions,
					Suggestions:        r.Suggestions,
				},
				Signatures: sigs,
			})
		}
		batches = append(batches, b)
	}

	total := 0
	for _, b := range batches {
		if err := s.catalog.Import(ctx, b.category, b.entries); err != nil {
			return total, err
		}
		total += len(b.entries)
	}
	return total, nil
}
