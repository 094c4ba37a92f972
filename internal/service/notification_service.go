package service

import (
	"context"
	"errors"
	"time"

	"assessly-backend/internal/mail"
	"assessly-backend/internal/model"
	"assessly-backend/utilities"
)

const notifyTimeout = time.Minute

type scoreLine struct {
	Name  string
	Score int
}

// NotificationService emails a summary of every completed game. Delivery is
// best-effort: failures are logged and never reach the submitter.
type NotificationService struct {
	sender mail.Sender
	to     string
	log    *utilities.Logger
}

func NewNotificationService(sender mail.Sender, to string, log *utilities.Logger) *NotificationService {
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &NotificationService{sender: sender, to: to, log: log.With("service", "notification")}
}

// InitEventListeners subscribes to completed games.
func (s *NotificationService) InitEventListeners(bus *utilities.EventBus) {
	bus.Subscribe(utilities.EventGameCompleted, func(data interface{}) {
		ev, ok := data.(GameCompleted)
		if !ok {
			s.log.Warn("unexpected game_completed payload")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		err := s.GameCompleted(ctx, &ev.Record)
		switch {
		case errors.Is(err, mail.ErrDisabled):
			s.log.Debug("mail disabled, skipping game completion email", "code", ev.Record.Code)
		case err != nil:
			s.log.Warn("game completion email failed", "code", ev.Record.Code, "error", err)
		}
	})
}

func (s *NotificationService) GameCompleted(ctx context.Context, rec *model.GameRecord) error {
	if s.to == "" {
		return nil
	}
	scores := make([]scoreLine, 0, len(model.Categories))
	for _, c := range model.Categories {
		scores = append(scores, scoreLine{Name: c.Name(), Score: rec.Score(c)})
	}
	body, err := mail.Render(mail.TemplateGameCompleted, map[string]interface{}{
		"Code":        rec.Code,
		"CompletedAt": rec.CompletedAt,
		"Scores":      scores,
		"Matched":     len(rec.Reports),
	})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, mail.Message{
		To:      s.to,
		Subject: "Game completed: " + rec.Code,
		HTML:    body,
	})
}
