package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is one of the four competency dimensions assessed by the game.
// The underlying value is the short code the game client sends.
type Category string

const (
	CustomerFocus         Category = "MO"
	UncertaintyManagement Category = "BY"
	Influence             Category = "IE"
	Collaboration         Category = "IDIK"
)

// Categories lists every category in report order.
var Categories = []Category{CustomerFocus, UncertaintyManagement, Influence, Collaboration}

var categoryNames = map[Category]string{
	CustomerFocus:         "CustomerFocus",
	UncertaintyManagement: "UncertaintyManagement",
	Influence:             "Influence",
	Collaboration:         "Collaboration",
}

// ParseCategory accepts a short code (MO) or a long name (CustomerFocus), case-insensitive.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for c, name := range categoryNames {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Name returns the long name, e.g. "CustomerFocus".
func (c Category) Name() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

func (c Category) String() string { return string(c) }

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// AnswerType is the behavioral option code chosen for a question.
type AnswerType string

const (
	AnswerAKY AnswerType = "AKY"
	AnswerKY  AnswerType = "KY"
	AnswerCY  AnswerType = "CY"
	AnswerY   AnswerType = "Y"

	// NoAnswer marks an unanswered or not-applicable choice.
	NoAnswer AnswerType = "-"
)

// Normalize returns the code trimmed and upper-cased. Unknown codes are kept.
func (t AnswerType) Normalize() AnswerType {
	return AnswerType(strings.ToUpper(strings.TrimSpace(string(t))))
}

// IsAnswered is false for the empty code and the "-" sentinel.
func (t AnswerType) IsAnswered() bool {
	v := t.Normalize()
	return v != "" && v != NoAnswer
}

// Answer is one answered question submitted by a game client.
type Answer struct {
	QuestionID string     `json:"questionId"`
	Category   Category   `json:"category"`
	Primary    AnswerType `json:"primaryAnswerType"`
	Secondary  AnswerType `json:"secondaryAnswerType"`
}

// GroupByCategory partitions answers by category, keeping submission order
// inside each group. Answers with an unknown category are dropped.
func GroupByCategory(answers []Answer) map[Category][]Answer {
	groups := make(map[Category][]Answer, len(Categories))
	for _, a := range answers {
		if !a.Category.Valid() {
			continue
		}
		groups[a.Category] = append(groups[a.Category], a)
	}
	return groups
}
