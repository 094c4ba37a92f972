package scoring_test

import (
	"testing"

	"assessly-backend/internal/config"
	"assessly-backend/internal/model"
	"assessly-backend/internal/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

func TestScoreTable_ScoreCategory(t *testing.T) {
	Convey("Given the score table {AKY:100, CY:50, Y:0}", t, func() {
		table := scoring.ScoreTable{
			model.AnswerAKY: 100,
			model.AnswerCY:  50,
			model.AnswerY:   0,
		}

		Convey("When scoring an empty group", func() {
			Convey("Then every category scores 0", func() {
				So(table.ScoreCategory(nil), ShouldEqual, 0)
				So(table.ScoreCategory([]model.Answer{}), ShouldEqual, 0)
			})
		})

		Convey("When scoring a single answer", func() {
			a := model.Answer{Category: model.Influence, Primary: model.AnswerCY, Secondary: model.AnswerAKY}

			Convey("Then it equals (primary + secondary*0.2) / 1.2", func() {
				want := (50.0 + 100.0*0.2) / 1.2
				So(table.ScoreCategory([]model.Answer{a}), ShouldAlmostEqual, want, tolerance)
			})
		})

		Convey("When scoring the customer focus example", func() {
			answers := []model.Answer{
				{Category: model.CustomerFocus, Primary: model.AnswerAKY, Secondary: model.AnswerY},
				{Category: model.CustomerFocus, Primary: model.AnswerCY, Secondary: model.NoAnswer},
			}

			Convey("Then it averages 83.33 and 41.67 to 62.5", func() {
				So(table.ScoreCategory(answers), ShouldAlmostEqual, 62.5, 1e-2)
			})

			Convey("And the order of answers does not matter", func() {
				reversed := []model.Answer{answers[1], answers[0]}
				So(table.ScoreCategory(reversed), ShouldAlmostEqual, table.ScoreCategory(answers), tolerance)
			})
		})

		Convey("When codes arrive padded or in lower case", func() {
			sloppy := model.Answer{Category: model.Influence, Primary: " AKY", Secondary: "aky"}
			clean := model.Answer{Category: model.Influence, Primary: model.AnswerAKY, Secondary: model.AnswerAKY}

			Convey("Then they score like the canonical codes", func() {
				So(table.ScoreOf(" cy "), ShouldEqual, 50)
				So(table.ScoreCategory([]model.Answer{sloppy}), ShouldAlmostEqual, 100, tolerance)
				So(table.ScoreCategory([]model.Answer{sloppy}), ShouldAlmostEqual, table.ScoreCategory([]model.Answer{clean}), tolerance)
			})
		})

		Convey("When every code is unknown", func() {
			answers := []model.Answer{
				{Category: model.Collaboration, Primary: "ZZ", Secondary: "QQ"},
				{Category: model.Collaboration, Primary: "", Secondary: ""},
			}

			Convey("Then the group scores 0 without failing", func() {
				So(table.ScoreCategory(answers), ShouldEqual, 0)
			})
		})
	})
}

func TestScoreTable_ScoreAll(t *testing.T) {
	Convey("Given answers in two of the four categories", t, func() {
		table := scoring.DefaultScoreTable
		answers := []model.Answer{
			{QuestionID: "q1", Category: model.CustomerFocus, Primary: model.AnswerAKY, Secondary: model.AnswerAKY},
			{QuestionID: "q2", Category: model.Influence, Primary: model.AnswerKY, Secondary: model.NoAnswer},
			{QuestionID: "q3", Category: model.Influence, Primary: model.AnswerY, Secondary: model.AnswerCY},
		}

		scores := table.ScoreAll(answers)

		Convey("Then all four categories are present", func() {
			So(len(scores), ShouldEqual, 4)
			So(scores[model.CustomerFocus], ShouldAlmostEqual, 100, tolerance)
			So(scores[model.UncertaintyManagement], ShouldEqual, 0)
			So(scores[model.Collaboration], ShouldEqual, 0)
		})

		Convey("And influence is the mean of its two questions", func() {
			want := (75.0/1.2 + (0+50*0.2)/1.2) / 2
			So(scores[model.Influence], ShouldAlmostEqual, want, tolerance)
		})

		Convey("And rounding happens only on request", func() {
			rounded := scores.Rounded()
			So(rounded[model.CustomerFocus], ShouldEqual, 100)
			So(rounded[model.Influence], ShouldEqual, 35)
			So(rounded[model.Collaboration], ShouldEqual, 0)
		})
	})
}

func TestTableFromConfig(t *testing.T) {
	Convey("Given a SCORING section", t, func() {
		Convey("When it is empty", func() {
			Convey("Then the default table applies", func() {
				So(scoring.TableFromConfig(config.ScoringConfig{}), ShouldResemble, scoring.DefaultScoreTable)
			})
		})

		Convey("When it overrides the codes", func() {
			table := scoring.TableFromConfig(config.ScoringConfig{AnswerTypes: []config.AnswerTypeScore{
				{Code: " aky ", Score: 90},
				{Code: "Y", Score: 10},
			}})

			Convey("Then codes are normalized and missing codes score 0", func() {
				So(table.ScoreOf(model.AnswerAKY), ShouldEqual, 90)
				So(table.ScoreOf(model.AnswerY), ShouldEqual, 10)
				So(table.ScoreOf(model.AnswerKY), ShouldEqual, 0)
			})
		})
	})
}
