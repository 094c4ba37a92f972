package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"assessly-backend/internal/matching"
	"assessly-backend/internal/model"
	"assessly-backend/utilities"
)

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	matched  []model.Category
}

func (m *recordingMetrics) RecordSubmission(o string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

func (m *recordingMetrics) RecordMatchedReport(c model.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matched = append(m.matched, c)
}

func answer(q string, c model.Category, p, s model.AnswerType) model.Answer {
	return model.Answer{QuestionID: q, Category: c, Primary: p, Secondary: s}
}

func TestSubmissionService_Submit(t *testing.T) {
	Convey("Given a submission service with one fresh code", t, func() {
		ctx := context.Background()
		now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
		past := now.Add(-time.Hour)

		codes := newFakeCodes(
			model.AccessCode{Code: "FRESH001", CompanyID: 7},
			model.AccessCode{Code: "USED0001", CompanyID: 7, Used: true},
			model.AccessCode{Code: "OLD00001", CompanyID: 7, ExpiresAt: &past},
		)
		games := &fakeGames{codes: codes}
		catalog := &fakeCatalog{reports: map[model.Category]map[string]model.EvaluationReport{
			model.CustomerFocus: {"AKY,KY": {ID: 1, Title: "Customer champion"}},
		}}
		bus := utilities.NewEventBus(utilities.NewNopLogger())
		var events []GameCompleted
		var evMu sync.Mutex
		bus.Subscribe(utilities.EventGameCompleted, func(data interface{}) {
			evMu.Lock()
			defer evMu.Unlock()
			events = append(events, data.(GameCompleted))
		})
		m := &recordingMetrics{}

		svc := NewSubmissionService(codes, games, matching.NewMatcher(catalog), nil, bus, m, nil).(*submissionService)
		svc.now = func() time.Time { return now }

		answers := []model.Answer{
			answer("q1", model.CustomerFocus, model.AnswerAKY, model.AnswerKY),
			answer("q2", model.CustomerFocus, model.AnswerKY, model.AnswerCY),
			answer("q3", model.Influence, model.AnswerY, model.AnswerAKY),
		}

		Convey("When a valid submission arrives", func() {
			rec, err := svc.Submit(ctx, Submission{Code: " FRESH001 ", Answers: answers})
			bus.Wait()

			Convey("Then scores are rounded and the matched report is stored", func() {
				So(err, ShouldBeNil)
				So(rec.ID, ShouldEqual, 1)
				So(rec.CompanyID, ShouldEqual, 7)
				// q1 = (100+15)/1.2 = 95.83, q2 = (75+10)/1.2 = 70.83
				So(rec.Score(model.CustomerFocus), ShouldEqual, 83)
				So(rec.Score(model.Influence), ShouldEqual, 17)
				So(rec.Score(model.Collaboration), ShouldEqual, 0)
				So(rec.Reports, ShouldHaveLength, 1)
				So(rec.Reports[0].Report.Title, ShouldEqual, "Customer champion")
				So(rec.Reports[0].Signature, ShouldEqual, "AKY, KY")
				So(rec.CompletedAt, ShouldEqual, now)
			})

			Convey("Then the code is consumed, the event is published and metrics are recorded", func() {
				ac, _ := codes.GetByCode(ctx, "FRESH001")
				So(ac.Used, ShouldBeTrue)
				So(events, ShouldHaveLength, 1)
				So(events[0].Record.Code, ShouldEqual, "FRESH001")
				So(m.outcomes, ShouldResemble, []string{"accepted"})
				So(m.matched, ShouldResemble, []model.Category{model.CustomerFocus})
			})

			Convey("Then replaying the same code is rejected", func() {
				_, err := svc.Submit(ctx, Submission{Code: "FRESH001", Answers: answers})
				So(errors.Is(err, ErrCodeUsed), ShouldBeTrue)
				So(games.count(), ShouldEqual, 1)
			})
		})

		Convey("When no answer matches the catalog", func() {
			rec, err := svc.Submit(ctx, Submission{Code: "FRESH001", Answers: answers[2:]})

			Convey("Then the record is stored with an empty report list", func() {
				So(err, ShouldBeNil)
				So(rec.Reports, ShouldNotBeNil)
				So(rec.Reports, ShouldBeEmpty)
			})
		})

		Convey("When the submission is malformed", func() {
			cases := []Submission{
				{Code: "", Answers: answers},
				{Code: "FRESH001"},
				{Code: "FRESH001", Answers: []model.Answer{answer("", model.Influence, model.AnswerY, model.NoAnswer)}},
				{Code: "FRESH001", Answers: []model.Answer{answer("q1", model.Category("XX"), model.AnswerY, model.NoAnswer)}},
			}

			Convey("Then each is rejected before any lookup", func() {
				for _, sub := range cases {
					_, err := svc.Submit(ctx, sub)
					So(errors.Is(err, ErrInvalidSubmission), ShouldBeTrue)
				}
				So(catalog.calls, ShouldEqual, 0)
				So(games.count(), ShouldEqual, 0)
			})
		})

		Convey("When the code is unknown, used or expired", func() {
			_, errMissing := svc.Submit(ctx, Submission{Code: "NOPE0000", Answers: answers})
			_, errUsed := svc.Submit(ctx, Submission{Code: "USED0001", Answers: answers})
			_, errExpired := svc.Submit(ctx, Submission{Code: "OLD00001", Answers: answers})

			Convey("Then each maps to its own error and nothing is looked up or stored", func() {
				So(errors.Is(errMissing, ErrCodeNotFound), ShouldBeTrue)
				So(errors.Is(errUsed, ErrCodeUsed), ShouldBeTrue)
				So(errors.Is(errExpired, ErrCodeExpired), ShouldBeTrue)
				So(catalog.calls, ShouldEqual, 0)
				So(games.count(), ShouldEqual, 0)
				So(m.outcomes, ShouldResemble, []string{"code_not_found", "code_used", "code_expired"})
			})
		})

		Convey("When the catalog lookup fails", func() {
			catalog.fail = errors.New("connection reset")
			_, err := svc.Submit(ctx, Submission{Code: "FRESH001", Answers: answers})

			Convey("Then nothing is persisted and the code stays unused", func() {
				So(errors.Is(err, matching.ErrCatalogLookup), ShouldBeTrue)
				So(games.count(), ShouldEqual, 0)
				ac, _ := codes.GetByCode(ctx, "FRESH001")
				So(ac.Used, ShouldBeFalse)
				So(m.outcomes, ShouldResemble, []string{"error"})
			})
		})

		Convey("When the game record cannot be saved", func() {
			games.saveErr = errors.New("disk full")
			rec, err := svc.Submit(ctx, Submission{Code: "FRESH001", Answers: answers})
			bus.Wait()

			Convey("Then the error surfaces and nothing is stored or announced", func() {
				So(rec, ShouldBeNil)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "disk full")
				So(games.count(), ShouldEqual, 0)
				ac, _ := codes.GetByCode(ctx, "FRESH001")
				So(ac.Used, ShouldBeFalse)
				evMu.Lock()
				So(events, ShouldBeEmpty)
				evMu.Unlock()
				So(m.outcomes, ShouldResemble, []string{"error"})
			})
		})

		Convey("When the completion email cannot be delivered", func() {
			sender := &fakeSender{err: errors.New("smtp: 421 service not available")}
			NewNotificationService(sender, "reports@example.com", nil).InitEventListeners(bus)
			rec, err := svc.Submit(ctx, Submission{Code: "FRESH001", Answers: answers})
			bus.Wait()

			Convey("Then the submission still succeeds", func() {
				So(err, ShouldBeNil)
				So(rec.ID, ShouldEqual, 1)
				So(sender.messages(), ShouldBeEmpty)
				ac, _ := codes.GetByCode(ctx, "FRESH001")
				So(ac.Used, ShouldBeTrue)
				So(m.outcomes, ShouldResemble, []string{"accepted"})
			})
		})

		Convey("When another submission consumed the code in between", func() {
			// the read sees the code unused, the conditional write does not
			games.codes = newFakeCodes(model.AccessCode{Code: "FRESH001", Used: true})
			_, err := svc.Submit(ctx, Submission{Code: "FRESH001", Answers: answers})

			Convey("Then the loser gets ErrCodeUsed", func() {
				So(errors.Is(err, ErrCodeUsed), ShouldBeTrue)
			})
		})
	})
}
