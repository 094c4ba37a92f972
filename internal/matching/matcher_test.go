package matching_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"assessly-backend/internal/matching"
	"assessly-backend/internal/model"
	. "github.com/smartystreets/goconvey/convey"
)

type catalogRow struct {
	signature string
	resultID  uint
}

// fakeCatalog mirrors the two-table layout: signature rows pointing at report rows.
type fakeCatalog struct {
	mu      sync.Mutex
	answers map[model.Category][]catalogRow
	reports map[uint]model.EvaluationReport
	fail    map[model.Category]error
	calls   []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		answers: map[model.Category][]catalogRow{},
		reports: map[uint]model.EvaluationReport{},
		fail:    map[model.Category]error{},
	}
}

func (f *fakeCatalog) FindReport(_ context.Context, c model.Category, signature, compact string) (*model.EvaluationReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, signature)
	if err := f.fail[c]; err != nil {
		return nil, err
	}
	for _, row := range f.answers[c] {
		if row.signature == signature || row.signature == compact {
			r, ok := f.reports[row.resultID]
			if !ok {
				return nil, nil
			}
			return &r, nil
		}
	}
	return nil, nil
}

func TestBuildSignature(t *testing.T) {
	Convey("Given a category group", t, func() {
		Convey("When all primaries are sentinels or empty", func() {
			answers := []model.Answer{{Primary: model.NoAnswer}, {Primary: ""}, {Primary: model.NoAnswer}}

			Convey("Then the signature is empty", func() {
				So(matching.BuildSignature(answers), ShouldEqual, "")
			})
		})

		Convey("When answers mix codes and sentinels", func() {
			answers := []model.Answer{
				{Primary: model.AnswerCY},
				{Primary: model.NoAnswer},
				{Primary: model.AnswerAKY},
				{Primary: model.AnswerY},
			}

			Convey("Then submission order is kept and the separator is a comma and a space", func() {
				So(matching.BuildSignature(answers), ShouldEqual, "CY, AKY, Y")
			})
		})

		Convey("When primaries are padded or in lower case", func() {
			answers := []model.Answer{{Primary: " aky"}, {Primary: " - "}, {Primary: "cy "}}

			Convey("Then the signature uses the canonical codes", func() {
				So(matching.BuildSignature(answers), ShouldEqual, "AKY, CY")
			})
		})

		Convey("When compacting a signature", func() {
			So(matching.CompactSignature("AKY, CY, Y"), ShouldEqual, "AKY,CY,Y")
			So(matching.CompactSignature(""), ShouldEqual, "")
		})
	})
}

func TestMatcher_MatchReport(t *testing.T) {
	Convey("Given a catalog with rows stored in both delimiter forms", t, func() {
		catalog := newFakeCatalog()
		catalog.answers[model.CustomerFocus] = []catalogRow{{signature: "AKY,CY", resultID: 1}}
		catalog.answers[model.Influence] = []catalogRow{{signature: "Y, Y", resultID: 2}}
		catalog.reports[1] = model.EvaluationReport{ID: 1, Title: "Customer focus A"}
		catalog.reports[2] = model.EvaluationReport{ID: 2, Title: "Influence B"}
		m := matching.NewMatcher(catalog)
		ctx := context.Background()

		Convey("When matching a spaced signature against a compact row", func() {
			spaced, err1 := m.MatchReport(ctx, model.CustomerFocus, "AKY, CY")
			compact, err2 := m.MatchReport(ctx, model.CustomerFocus, "AKY,CY")

			Convey("Then both forms resolve to the same report", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(spaced, ShouldNotBeNil)
				So(compact, ShouldNotBeNil)
				So(spaced.ID, ShouldEqual, compact.ID)
			})
		})

		Convey("When matching against a row stored with spaces", func() {
			r, err := m.MatchReport(ctx, model.Influence, "Y, Y")
			So(err, ShouldBeNil)
			So(r, ShouldNotBeNil)
			So(r.Title, ShouldEqual, "Influence B")
		})

		Convey("When the signature is empty", func() {
			r, err := m.MatchReport(ctx, model.CustomerFocus, "")

			Convey("Then the catalog is never queried", func() {
				So(err, ShouldBeNil)
				So(r, ShouldBeNil)
				So(catalog.calls, ShouldBeEmpty)
			})
		})

		Convey("When the signature row points at a missing report", func() {
			catalog.answers[model.Collaboration] = []catalogRow{{signature: "KY", resultID: 99}}
			r, err := m.MatchReport(ctx, model.Collaboration, "KY")

			Convey("Then it is treated as no match", func() {
				So(err, ShouldBeNil)
				So(r, ShouldBeNil)
			})
		})
	})
}

func TestMatcher_MatchAll(t *testing.T) {
	Convey("Given a catalog with one customer focus report", t, func() {
		catalog := newFakeCatalog()
		catalog.answers[model.CustomerFocus] = []catalogRow{{signature: "AKY,CY", resultID: 7}}
		catalog.reports[7] = model.EvaluationReport{ID: 7, Title: "CF"}

		var mu sync.Mutex
		observed := map[model.Category]bool{}
		m := matching.NewMatcher(catalog, matching.WithObserver(func(c model.Category, matched bool, _ time.Duration, _ error) {
			mu.Lock()
			defer mu.Unlock()
			observed[c] = matched
		}))
		ctx := context.Background()

		Convey("When answers touch only two categories", func() {
			answers := []model.Answer{
				{QuestionID: "1", Category: model.CustomerFocus, Primary: model.AnswerAKY, Secondary: model.AnswerY},
				{QuestionID: "2", Category: model.CustomerFocus, Primary: model.AnswerCY, Secondary: model.NoAnswer},
				{QuestionID: "3", Category: model.Influence, Primary: model.AnswerY, Secondary: model.NoAnswer},
			}
			res, err := m.MatchAll(ctx, answers)

			Convey("Then at most two entries come back and the others are simply absent", func() {
				So(err, ShouldBeNil)
				So(len(res.Reports), ShouldBeLessThanOrEqualTo, 2)
				So(len(res.Reports), ShouldEqual, 1)
				So(res.Reports[0].Category, ShouldEqual, model.CustomerFocus)
				So(res.Reports[0].Signature, ShouldEqual, "AKY, CY")
				So(res.Reports[0].Report.ID, ShouldEqual, 7)
				So(res.Signed, ShouldResemble, []model.Category{model.CustomerFocus, model.Influence})
			})

			Convey("And the observer sees one lookup per signed category", func() {
				So(observed, ShouldResemble, map[model.Category]bool{
					model.CustomerFocus: true,
					model.Influence:     false,
				})
			})
		})

		Convey("When the signature has no catalog row", func() {
			answers := []model.Answer{
				{Category: model.CustomerFocus, Primary: model.AnswerAKY},
				{Category: model.CustomerFocus, Primary: model.AnswerCY},
				{Category: model.CustomerFocus, Primary: model.AnswerY},
			}
			res, err := m.MatchAll(ctx, answers)

			Convey("Then the category is excluded and the result is empty", func() {
				So(err, ShouldBeNil)
				So(res.Empty(), ShouldBeTrue)
				So(res.Signed, ShouldResemble, []model.Category{model.CustomerFocus})
			})
		})

		Convey("When every answer is unanswered", func() {
			answers := []model.Answer{{Category: model.Influence, Primary: model.NoAnswer}}
			res, err := m.MatchAll(ctx, answers)

			Convey("Then nothing is looked up and nothing was signed", func() {
				So(err, ShouldBeNil)
				So(res.Empty(), ShouldBeTrue)
				So(res.Signed, ShouldBeEmpty)
				So(catalog.calls, ShouldBeEmpty)
			})
		})

		Convey("When two categories carry only \"-\" answers", func() {
			answers := []model.Answer{
				{QuestionID: "1", Category: model.Influence, Primary: model.NoAnswer, Secondary: model.NoAnswer},
				{QuestionID: "2", Category: model.Collaboration, Primary: model.NoAnswer, Secondary: model.NoAnswer},
			}
			res, err := m.MatchAll(ctx, answers)

			Convey("Then no report matched but the categories still count as submitted", func() {
				So(err, ShouldBeNil)
				So(res.Empty(), ShouldBeTrue)
				So(res.Submitted(), ShouldBeTrue)
				So(res.Answered, ShouldResemble, []model.Category{model.Influence, model.Collaboration})
				So(res.Signed, ShouldBeEmpty)
			})
		})

		Convey("When no answers are given", func() {
			res, err := m.MatchAll(ctx, nil)

			Convey("Then nothing was submitted", func() {
				So(err, ShouldBeNil)
				So(res.Empty(), ShouldBeTrue)
				So(res.Submitted(), ShouldBeFalse)
			})
		})

		Convey("When one category lookup fails", func() {
			catalog.fail[model.Influence] = errors.New("connection reset")
			answers := []model.Answer{
				{Category: model.CustomerFocus, Primary: model.AnswerAKY},
				{Category: model.CustomerFocus, Primary: model.AnswerCY},
				{Category: model.Influence, Primary: model.AnswerY},
			}
			res, err := m.MatchAll(ctx, answers)

			Convey("Then the whole match fails with no partial result", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, matching.ErrCatalogLookup), ShouldBeTrue)
				So(res.Reports, ShouldBeNil)
			})
		})
	})
}
