package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"assessly-backend/internal/mail"
	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
	"assessly-backend/utilities"
)

const (
	codeLength   = 8
	maxCodeBatch = 500
	issueRetries = 3
)

// IssueCodesRequest asks for Count fresh codes for one company.
type IssueCodesRequest struct {
	CompanyID      uint       `json:"company_id"`
	GroupID        *uint      `json:"group_id"`
	Count          int        `json:"count"`
	CandidateName  string     `json:"candidate_name"`
	CandidateEmail string     `json:"candidate_email"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// CodeStatus is what the game client learns about a code before play.
type CodeStatus struct {
	Code    string `json:"code"`
	Valid   bool   `json:"valid"`
	Used    bool   `json:"used"`
	Expired bool   `json:"expired"`
}

// CompanyGetter loads a company by id; *repository.Store[model.Company] is one.
type CompanyGetter interface {
	Get(ctx context.Context, id uint) (*model.Company, error)
}

type CodeService interface {
	Issue(ctx context.Context, req IssueCodesRequest) ([]model.AccessCode, error)
	List(ctx context.Context, f repository.AccessCodeFilter, p repository.ListParams) (repository.Page[model.AccessCode], error)
	Check(ctx context.Context, code string) (*CodeStatus, error)
	Notify(ctx context.Context, code, email, name string) error
}

type codeService struct {
	codes     repository.AccessCodeRepository
	companies CompanyGetter
	sender    mail.Sender
	gameURL   string
	log       *utilities.Logger
	now       func() time.Time
	newCode   func() string
}

func NewCodeService(
	codes repository.AccessCodeRepository,
	companies CompanyGetter,
	sender mail.Sender,
	gameURL string,
	log *utilities.Logger,
) CodeService {
	if log == nil {
		log = utilities.NewNopLogger()
	}
	return &codeService{
		codes:     codes,
		companies: companies,
		sender:    sender,
		gameURL:   gameURL,
		log:       log.With("service", "code"),
		now:       time.Now,
		newCode:   NewAccessCode,
	}
}

// NewAccessCode returns an 8 character upper-case code taken from a random UUID.
func NewAccessCode() string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(s[:codeLength])
}

// Issue creates the codes in one batch, retrying with fresh codes when a
// generated one collides with an existing code.
func (s *codeService) Issue(ctx context.Context, req IssueCodesRequest) ([]model.AccessCode, error) {
	if req.Count == 0 {
		req.Count = 1
	}
	switch {
	case req.CompanyID == 0:
		return nil, fmt.Errorf("%w: company_id is required", ErrInvalidInput)
	case req.Count < 0 || req.Count > maxCodeBatch:
		return nil, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidInput, maxCodeBatch)
	case req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()):
		return nil, fmt.Errorf("%w: expires_at must be in the future", ErrInvalidInput)
	case req.Count > 1 && (req.CandidateName != "" || req.CandidateEmail != ""):
		return nil, fmt.Errorf("%w: candidate details apply to a single code", ErrInvalidInput)
	}
	if _, err := s.companies.Get(ctx, req.CompanyID); err != nil {
		return nil, translateRepoErr(err)
	}

	var err error
	for attempt := 0; attempt < issueRetries; attempt++ {
		batch := make([]model.AccessCode, 0, req.Count)
		seen := make(map[string]bool, req.Count)
		for len(batch) < req.Count {
			c := s.newCode()
			if seen[c] {
				continue
			}
			seen[c] = true
			batch = append(batch, model.AccessCode{
				Code:           c,
				CompanyID:      req.CompanyID,
				GroupID:        req.GroupID,
				CandidateName:  req.CandidateName,
				CandidateEmail: req.CandidateEmail,
				ExpiresAt:      req.ExpiresAt,
			})
		}
		err = s.codes.CreateBatch(ctx, batch)
		if err == nil {
			s.log.Info("access codes issued", "company_id", req.CompanyID, "count", len(batch))
			return batch, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		s.log.Warn("access code collision, regenerating batch", "attempt", attempt+1)
	}
	return nil, fmt.Errorf("issue access codes: %w", err)
}

func (s *codeService) List(ctx context.Context, f repository.AccessCodeFilter, p repository.ListParams) (repository.Page[model.AccessCode], error) {
	return s.codes.List(ctx, f, p)
}

func (s *codeService) Check(ctx context.Context, code string) (*CodeStatus, error) {
	ac, err := s.codes.GetByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	st := &CodeStatus{Code: ac.Code, Used: ac.Used, Expired: ac.Expired(s.now())}
	st.Valid = !st.Used && !st.Expired
	return st, nil
}

// Notify emails a code to a candidate. Empty email and name fall back to the
// candidate stored with the code.
func (s *codeService) Notify(ctx context.Context, code, email, name string) error {
	ac, err := s.codes.GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}
	if email == "" {
		email = ac.CandidateEmail
	}
	if name == "" {
		name = ac.CandidateName
	}
	if email == "" {
		return fmt.Errorf("%w: no recipient email", ErrInvalidInput)
	}
	if ac.Used {
		return ErrCodeUsed
	}

	companyName := ""
	if company, err := s.companies.Get(ctx, ac.CompanyID); err == nil {
		companyName = company.Name
	}
	body, err := mail.Render(mail.TemplateCodeInvite, map[string]interface{}{
		"CandidateName": name,
		"CompanyName":   companyName,
		"Code":          ac.Code,
		"ExpiresAt":     ac.ExpiresAt,
		"GameURL":       s.gameURL,
	})
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, mail.Message{To: email, Subject: "Your assessment access code", HTML: body}); err != nil {
		s.log.Warn("sending access code failed", "code", ac.Code, "error", err)
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	return nil
}
