package model

import "time"

// CatalogAnswer links an answer signature to a report in the parallel
// results table of the same category.
type CatalogAnswer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Signature string    `json:"signature" gorm:"not null"`
	ResultID  uint      `json:"result_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EvaluationReport is pre-authored evaluation text for one category.
type EvaluationReport struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	Title              string    `json:"title"`
	Strengths          string    `json:"strengths"`
	DevelopmentAreas   string    `json:"development_areas"`
	InterviewQuestions string    `json:"interview_questions"`
	Suggestions        string    `json:"suggestions"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CategoryReport is one resolved category -> report pairing.
type CategoryReport struct {
	Category  Category         `json:"category"`
	Signature string           `json:"signature"`
	Report    EvaluationReport `json:"report"`
}
