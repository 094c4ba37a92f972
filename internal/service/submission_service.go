package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"assessly-backend/internal/matching"
	"assessly-backend/internal/metrics"
	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
	"assessly-backend/internal/scoring"
	"assessly-backend/utilities"
)

// Submission is the payload a game client posts when a session ends.
type Submission struct {
	Code    string         `json:"code"`
	Answers []model.Answer `json:"answers"`
}

// GameCompleted is published on the event bus after a submission is stored.
type GameCompleted struct {
	Record model.GameRecord
}

// SubmissionMetrics receives submission outcomes.
type SubmissionMetrics interface {
	RecordSubmission(outcome string)
	RecordMatchedReport(c model.Category)
}

type nopSubmissionMetrics struct{}

func (nopSubmissionMetrics) RecordSubmission(string)            {}
func (nopSubmissionMetrics) RecordMatchedReport(model.Category) {}

type SubmissionService interface {
	Submit(ctx context.Context, sub Submission) (*model.GameRecord, error)
}

type submissionService struct {
	codes   repository.AccessCodeRepository
	games   repository.GameRepository
	matcher *matching.Matcher
	table   scoring.ScoreTable
	bus     *utilities.EventBus
	metrics SubmissionMetrics
	log     *utilities.Logger
	now     func() time.Time
}

func NewSubmissionService(
	codes repository.AccessCodeRepository,
	games repository.GameRepository,
	matcher *matching.Matcher,
	table scoring.ScoreTable,
	bus *utilities.EventBus,
	m SubmissionMetrics,
	log *utilities.Logger,
) SubmissionService {
	if table == nil {
		table = scoring.DefaultScoreTable
	}
	if m == nil {
		m = nopSubmissionMetrics{}
	}
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &submissionService{
		codes:   codes,
		games:   games,
		matcher: matcher,
		table:   table,
		bus:     bus,
		metrics: m,
		log:     log.With("service", "submission"),
		now:     time.Now,
	}
}

// Submit validates the access code, scores and matches the answers, and
// stores the record while consuming the code. Nothing is persisted unless
// every step succeeds.
func (s *submissionService) Submit(ctx context.Context, sub Submission) (*model.GameRecord, error) {
	rec, err := s.submit(ctx, sub)
	s.metrics.RecordSubmission(outcomeOf(err))
	if err != nil {
		return nil, err
	}
	for _, r := range rec.Reports {
		s.metrics.RecordMatchedReport(r.Category)
	}
	if s.bus != nil {
		s.bus.Publish(utilities.EventGameCompleted, GameCompleted{Record: *rec})
	}
	return rec, nil
}

func (s *submissionService) submit(ctx context.Context, sub Submission) (*model.GameRecord, error) {
	sub.Code = strings.TrimSpace(sub.Code)
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	code, err := s.codes.GetByCode(ctx, sub.Code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load access code: %w", err)
	}
	now := s.now()
	switch {
	case code.Used:
		return nil, ErrCodeUsed
	case code.Expired(now):
		return nil, ErrCodeExpired
	}

	var (
		scores scoring.CategoryScores
		match  matching.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scores = s.table.ScoreAll(sub.Answers)
		return nil
	})
	g.Go(func() error {
		var err error
		match, err = s.matcher.MatchAll(gctx, sub.Answers)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("catalog matching failed", "code", sub.Code, "error", err)
		return nil, err
	}

	rec := &model.GameRecord{
		Code:        code.Code,
		CompanyID:   code.CompanyID,
		Answers:     sub.Answers,
		Reports:     match.Reports,
		CompletedAt: now,
	}
	if rec.Reports == nil {
		rec.Reports = []model.CategoryReport{}
	}
	for c, v := range scores.Rounded() {
		rec.SetScore(c, v)
	}

	err = s.games.SaveSubmission(ctx, rec)
	switch {
	case errors.Is(err, repository.ErrAlreadyUsed):
		return nil, ErrCodeUsed
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrCodeNotFound
	case err != nil:
		s.log.Error("persisting game record failed", "code", sub.Code, "error", err)
		return nil, fmt.Errorf("save game record: %w", err)
	}

	if !match.Submitted() {
		s.log.Warn("game completed without answered categories", "code", rec.Code, "game_id", rec.ID)
	}
	s.log.Info("game completed",
		"code", rec.Code, "game_id", rec.ID, "reports", len(rec.Reports),
		"answered", len(match.Answered), "signed", len(match.Signed))
	return rec, nil
}

func validateSubmission(sub Submission) error {
	if sub.Code == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidSubmission)
	}
	if len(sub.Answers) == 0 {
		return fmt.Errorf("%w: answers are required", ErrInvalidSubmission)
	}
	for i, a := range sub.Answers {
		if strings.TrimSpace(a.QuestionID) == "" {
			return fmt.Errorf("%w: answer %d has no questionId", ErrInvalidSubmission, i)
		}
		if !a.Category.Valid() {
			return fmt.Errorf("%w: answer %d has unknown category %q", ErrInvalidSubmission, i, a.Category)
		}
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, ErrInvalidSubmission):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrCodeNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrCodeUsed):
		return metrics.OutcomeUsed
	case errors.Is(err, ErrCodeExpired):
		return metrics.OutcomeExpired
	}
	return metrics.OutcomeError
}
