package model

import (
	"time"

	"gorm.io/datatypes"
)

type Admin struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex"`
	Password  string    `json:"password,omitempty"` // bcrypt hash, never returned
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CompanyID *uint     `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Redact clears fields that must not leave the API.
func (a *Admin) Redact() { a.Password = "" }

type Organization struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Company struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	OrganizationID *uint     `json:"organization_id"`
	ContactEmail   string    `json:"contact_email"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Group struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Competency struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Category    Category  `json:"category" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Credit is one credit grant row for a company. The balance is the sum of rows.
type Credit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	Amount    int       `json:"amount"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessCode is a single-use code that lets one candidate play the game once.
type AccessCode struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Code           string     `json:"code" gorm:"not null;uniqueIndex"`
	CompanyID      uint       `json:"company_id" gorm:"not null;index"`
	GroupID        *uint      `json:"group_id"`
	CandidateName  string     `json:"candidate_name"`
	CandidateEmail string     `json:"candidate_email"`
	Used           bool       `json:"used" gorm:"not null;default:false"`
	UsedAt         *time.Time `json:"used_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Expired reports whether the code has an expiry in the past relative to now.
func (c *AccessCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// GameRecord is the persisted outcome of one game session.
type GameRecord struct {
	ID                         uint                                `json:"id" gorm:"primaryKey"`
	Code                       string                              `json:"code" gorm:"not null;uniqueIndex"`
	CompanyID                  uint                                `json:"company_id" gorm:"not null;index"`
	Answers                    datatypes.JSONSlice[Answer]         `json:"answers"`
	CustomerFocusScore         int                                 `json:"customer_focus_score"`
	UncertaintyManagementScore int                                 `json:"uncertainty_management_score"`
	InfluenceScore             int                                 `json:"influence_score"`
	CollaborationScore         int                                 `json:"collaboration_score"`
	Reports                    datatypes.JSONSlice[CategoryReport] `json:"evaluation_results"`
	CompletedAt                time.Time                           `json:"completed_at"`
	CreatedAt                  time.Time                           `json:"created_at"`
	UpdatedAt                  time.Time                           `json:"updated_at"`
}

// Score returns the stored score for a category.
func (g *GameRecord) Score(c Category) int {
	switch c {
	case CustomerFocus:
		return g.CustomerFocusScore
	case UncertaintyManagement:
		return g.UncertaintyManagementScore
	case Influence:
		return g.InfluenceScore
	case Collaboration:
		return g.CollaborationScore
	}
	return 0
}

// SetScore stores the rounded score for a category.
func (g *GameRecord) SetScore(c Category, v int) {
	switch c {
	case CustomerFocus:
		g.CustomerFocusScore = v
	case UncertaintyManagement:
		g.UncertaintyManagementScore = v
	case Influence:
		g.InfluenceScore = v
	case Collaboration:
		g.CollaborationScore = v
	}
}

// Report returns the resolved report for a category, if any.
func (g *GameRecord) Report(c Category) (CategoryReport, bool) {
	for _, r := range g.Reports {
		if r.Category == c {
			return r, true
		}
	}
	return CategoryReport{}, false
}

// All returns every persisted entity for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Admin{}, &Organization{}, &Company{}, &Group{}, &Competency{},
		&Credit{}, &AccessCode{}, &GameRecord{},
	}
}
