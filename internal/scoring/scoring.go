// Package scoring turns answered questions into per-category competency scores.
package scoring

import (
	"math"

	"assessly-backend/internal/config"
	"assessly-backend/internal/model"
)

const (
	primaryWeight   = 1.0
	secondaryWeight = 0.2
)

// ScoreTable maps answer type codes to point values. Unknown codes score 0.
type ScoreTable map[model.AnswerType]int

// DefaultScoreTable is used when the configuration carries no table.
var DefaultScoreTable = ScoreTable{
	model.AnswerAKY: 100,
	model.AnswerKY:  75,
	model.AnswerCY:  50,
	model.AnswerY:   0,
}

// TableFromConfig builds a table from the SCORING section. An empty section
// yields DefaultScoreTable.
func TableFromConfig(cfg config.ScoringConfig) ScoreTable {
	if len(cfg.AnswerTypes) == 0 {
		return DefaultScoreTable
	}
	t := make(ScoreTable, len(cfg.AnswerTypes))
	for _, at := range cfg.AnswerTypes {
		t[model.AnswerType(at.Code).Normalize()] = at.Score
	}
	return t
}

// ScoreOf returns the point value of a code, 0 when the code is not in the
// table. Codes are matched case-insensitively, ignoring surrounding spaces.
func (t ScoreTable) ScoreOf(code model.AnswerType) int {
	return t[code.Normalize()]
}

// QuestionScore weighs the primary choice fully and the secondary choice by a
// fifth, normalized back onto the primary scale.
func (t ScoreTable) QuestionScore(a model.Answer) float64 {
	p := float64(t.ScoreOf(a.Primary)) * primaryWeight
	s := float64(t.ScoreOf(a.Secondary)) * secondaryWeight
	return (p + s) / (primaryWeight + secondaryWeight)
}

// ScoreCategory returns the mean question score of one category group.
// An empty group scores 0. The result is not rounded.
func (t ScoreTable) ScoreCategory(answers []model.Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	var sum float64
	for _, a := range answers {
		sum += t.QuestionScore(a)
	}
	return sum / float64(len(answers))
}

// CategoryScores holds the unrounded score of every category.
type CategoryScores map[model.Category]float64

// ScoreAll partitions answers by category and scores each of the four
// categories. Categories without answers score 0.
func (t ScoreTable) ScoreAll(answers []model.Answer) CategoryScores {
	groups := model.GroupByCategory(answers)
	out := make(CategoryScores, len(model.Categories))
	for _, c := range model.Categories {
		out[c] = t.ScoreCategory(groups[c])
	}
	return out
}

// Rounded returns the scores rounded half away from zero, for persistence.
func (s CategoryScores) Rounded() map[model.Category]int {
	out := make(map[model.Category]int, len(model.Categories))
	for _, c := range model.Categories {
		out[c] = int(math.Round(s[c]))
	}
	return out
}
