package service

import (
	"context"

	"assessly-backend/internal/matching"
	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
	"assessly-backend/utilities"
)

type GameService interface {
	List(ctx context.Context, f repository.GameFilter, p repository.ListParams) (repository.Page[model.GameRecord], error)
	Get(ctx context.Context, id uint) (*model.GameRecord, error)
	Rematch(ctx context.Context, id uint) (*model.GameRecord, error)
}

type gameService struct {
	games   repository.GameRepository
	matcher *matching.Matcher
	log     *utilities.Logger
}

func NewGameService(games repository.GameRepository, matcher *matching.Matcher, log *utilities.Logger) GameService {
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &gameService{games: games, matcher: matcher, log: log.With("service", "game")}
}

func (s *gameService) List(ctx context.Context, f repository.GameFilter, p repository.ListParams) (repository.Page[model.GameRecord], error) {
	return s.games.List(ctx, f, p)
}

func (s *gameService) Get(ctx context.Context, id uint) (*model.GameRecord, error) {
	rec, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	return rec, nil
}

// Rematch runs the stored answers against the current catalog and replaces
// the stored reports. Scores are left untouched.
func (s *gameService) Rematch(ctx context.Context, id uint) (*model.GameRecord, error) {
	rec, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}
	res, err := s.matcher.MatchAll(ctx, rec.Answers)
	if err != nil {
		return nil, err
	}
	if err := s.games.UpdateReports(ctx, id, res.Reports); err != nil {
		return nil, translateRepoErr(err)
	}
	rec.Reports = res.Reports
	if rec.Reports == nil {
		rec.Reports = []model.CategoryReport{}
	}
	s.log.Info("game rematched", "game_id", id, "reports", len(rec.Reports))
	return rec, nil
}
